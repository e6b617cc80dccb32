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

// Control opcodes. Field shapes beyond the empty-bodied KEEP_ALIVE_RSP are
// a best-effort reconstruction documented as an open question in DESIGN.md.
const (
	OpcodeSessionOffer  uint8 = 0
	OpcodeKeepAlive     uint8 = 3
	OpcodeSessionAccept uint8 = 4
	OpcodeKeepAliveRsp  uint8 = 5
)

type controlOpcodeDef struct {
	name   string
	fields []controlFieldDef
}

type controlFieldDef struct {
	name string
	kind FieldKind
}

var controlOpcodes = map[uint8]controlOpcodeDef{
	OpcodeSessionOffer: {
		name: "SESSION_OFFER",
		fields: []controlFieldDef{
			{"SessionId", USHRT},
			{"Timestamp", UINT},
			{"Milliseconds", USHRT},
		},
	},
	OpcodeKeepAlive: {
		name: "KEEP_ALIVE",
		fields: []controlFieldDef{
			{"SessionId", USHRT},
		},
	},
	OpcodeSessionAccept: {
		name: "SESSION_ACCEPT",
		fields: []controlFieldDef{
			{"SessionId", USHRT},
			{"Timestamp", UINT},
			{"Milliseconds", USHRT},
		},
	},
	OpcodeKeepAliveRsp: {
		name:   "KEEP_ALIVE_RSP",
		fields: nil,
	},
}

// DecodeControl decodes a control-opcode body, given the already-parsed
// opcode from the frame header, against cur positioned at the start of
// the body.
func DecodeControl(opcode uint8, cur *ByteCursor, dc *DecodeContext) (*ControlRecord, error) {
	def, ok := controlOpcodes[opcode]
	if !ok {
		raw, err := cur.ReadBytes(cur.Remaining())
		if err != nil {
			return nil, err
		}
		fields := NewOrderedMap().Set("raw", BytesValue(raw))
		return &ControlRecord{Opcode: opcode, Name: "UNKNOWN", Fields: fields}, nil
	}

	fields := NewOrderedMap()
	for _, f := range def.fields {
		v, err := DecodeField(cur, f.kind, dc)
		if err != nil {
			return nil, err
		}
		fields.Set(f.name, v)
	}

	return &ControlRecord{Opcode: opcode, Name: def.name, Fields: fields}, nil
}
