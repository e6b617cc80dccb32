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

// ValueKind tags the concrete shape a decoded Value carries.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueInt
	ValueUint
	ValueFloat32
	ValueFloat64
	ValueBool
	ValueString
	ValueBytes
	ValuePO
)

// PO is a decoded property object: its type hash and its ordered,
// possibly-nested property values.
type PO struct {
	TypeHash uint32
	Props    *OrderedMap
}

// Value is the tagged union every FieldKind decodes into. Only the field
// matching Kind is meaningful; the rest are zero.
type Value struct {
	Kind ValueKind

	Int    int64
	Uint   uint64
	F32    float32
	F64    float64
	Bool   bool
	Str    string // WSTR, decoded text
	Bytes  []byte // STR, raw bytes
	Object PO
}

func NullValue() Value                { return Value{Kind: ValueNull} }
func IntValue(v int64) Value          { return Value{Kind: ValueInt, Int: v} }
func UintValue(v uint64) Value        { return Value{Kind: ValueUint, Uint: v} }
func Float32Value(v float32) Value    { return Value{Kind: ValueFloat32, F32: v} }
func Float64Value(v float64) Value    { return Value{Kind: ValueFloat64, F64: v} }
func BoolValue(v bool) Value          { return Value{Kind: ValueBool, Bool: v} }
func StringValue(v string) Value      { return Value{Kind: ValueString, Str: v} }
func BytesValue(v []byte) Value       { return Value{Kind: ValueBytes, Bytes: v} }
func PropertyObjectValue(p PO) Value  { return Value{Kind: ValuePO, Object: p} }

// Record is implemented by ControlRecord, DMLRecord, and ErrorRecord — the
// three possible results of Dispatcher.Decode.
type Record interface {
	isRecord()
}

// ControlRecord is a decoded fixed-opcode control message.
type ControlRecord struct {
	Opcode uint8
	Name   string
	Fields *OrderedMap
}

// DMLRecord is a decoded schema-driven Data Message Layer message.
type DMLRecord struct {
	ProtocolId     uint8
	MsgId          uint8
	ProtocolName   string
	MsgName        string
	MsgDescription string
	Fields         *OrderedMap
}

// ErrorRecord is produced when a frame could not be decoded. Raw retains
// the original frame bytes that were handed to Dispatcher.Decode.
type ErrorRecord struct {
	Reason string
	Raw    []byte
}

func (*ControlRecord) isRecord() {}
func (*DMLRecord) isRecord()     {}
func (*ErrorRecord) isRecord()   {}
