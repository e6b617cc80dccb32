/*
Copyright 2023 Alexander Bartolomey (github@alexanderbartolomey.de)

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package ki

import "encoding/hex"

// RenderOptions controls how much metadata Render includes alongside a
// record's decoded fields.
type RenderOptions struct {
	// Compact drops message/protocol descriptions and protocol metadata,
	// leaving only the identifying ids/names and the decoded fields.
	Compact bool
}

// Render converts a Record into an *OrderedMap suitable for yaml.Marshal.
func Render(rec Record, opts RenderOptions) *OrderedMap {
	switch r := rec.(type) {
	case *ControlRecord:
		return renderControl(r, opts)
	case *DMLRecord:
		return renderDML(r, opts)
	case *ErrorRecord:
		return renderError(r)
	default:
		return NewOrderedMap().Set("kind", "unknown")
	}
}

func renderControl(r *ControlRecord, opts RenderOptions) *OrderedMap {
	m := NewOrderedMap().
		Set("kind", "control").
		Set("opcode", r.Opcode).
		Set("name", r.Name)
	m.Set("fields", renderFields(r.Fields))
	return m
}

func renderDML(r *DMLRecord, opts RenderOptions) *OrderedMap {
	m := NewOrderedMap().Set("kind", "dml")

	if !opts.Compact {
		m.Set("protocol", NewOrderedMap().
			Set("id", r.ProtocolId).
			Set("name", r.ProtocolName))
		m.Set("message", NewOrderedMap().
			Set("id", r.MsgId).
			Set("name", r.MsgName).
			Set("description", r.MsgDescription))
	} else {
		m.Set("protocol_id", r.ProtocolId)
		m.Set("msg_id", r.MsgId)
		m.Set("msg_name", r.MsgName)
	}

	m.Set("fields", renderFields(r.Fields))
	return m
}

func renderError(r *ErrorRecord) *OrderedMap {
	return NewOrderedMap().
		Set("error", r.Reason).
		Set("raw", hex.EncodeToString(r.Raw))
}

// renderFields re-keys an *OrderedMap of field name -> Value into an
// *OrderedMap of field name -> rendered-interface{}, recursing into nested
// property objects. Record fields are built as an *OrderedMap of name ->
// Value by control.go and dmlprotocol.go, so this walks that shape rather
// than a raw map.
func renderFields(fields *OrderedMap) *OrderedMap {
	if fields == nil {
		return NewOrderedMap()
	}
	out := NewOrderedMap()
	for _, k := range fields.Keys() {
		v, _ := fields.Get(k)
		out.Set(k, renderValue(v))
	}
	return out
}

func renderValue(v interface{}) interface{} {
	val, ok := v.(Value)
	if !ok {
		return v
	}
	switch val.Kind {
	case ValueNull:
		return nil
	case ValueInt:
		return val.Int
	case ValueUint:
		return val.Uint
	case ValueFloat32:
		return val.F32
	case ValueFloat64:
		return val.F64
	case ValueBool:
		return val.Bool
	case ValueString:
		return val.Str
	case ValueBytes:
		return hex.EncodeToString(val.Bytes)
	case ValuePO:
		return renderPO(val.Object)
	default:
		return nil
	}
}

func renderPO(p PO) *OrderedMap {
	out := NewOrderedMap().Set("__type", hex.EncodeToString(uint32ToBytesBE(p.TypeHash)))
	if p.Props != nil {
		for _, k := range p.Props.Keys() {
			v, _ := p.Props.Get(k)
			out.Set(k, renderValue(v))
		}
	}
	return out
}

func uint32ToBytesBE(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}
