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

import "context"

// maxPropertyObjectDepth bounds recursive property object decoding. The
// wire format has no explicit depth field, so a malformed or adversarial
// PO graph is caught here rather than by exhausting the stack.
const maxPropertyObjectDepth = 64

// DecodeContext threads the property object registry and recursion depth
// through a single field decode. ctx carries only logging, matching
// Dispatcher's use of context.Context for FromContext rather than
// cancellation.
type DecodeContext struct {
	ctx      context.Context
	registry *PropertyObjectRegistry
	depth    int
}

// NewDecodeContext starts a fresh decode at depth 0.
func NewDecodeContext(ctx context.Context, registry *PropertyObjectRegistry) *DecodeContext {
	return &DecodeContext{ctx: ctx, registry: registry}
}

type fieldDecodeFunc func(cur *ByteCursor, dc *DecodeContext) (Value, error)

var fieldCodecs = map[FieldKind]fieldDecodeFunc{
	BYT:   decodeBYT,
	UBYT:  decodeUBYT,
	SHRT:  decodeSHRT,
	USHRT: decodeUSHRT,
	INT:   decodeINT,
	UINT:  decodeUINT,
	GID:   decodeU64,
	U64:   decodeU64,
	FLT:   decodeFLT,
	DBL:   decodeDBL,
	STR:   decodeSTR,
	WSTR:  decodeWSTR,
	BOOL:  decodeBOOL,
	PObj:  decodePO,
}

// DecodeField reads one value of kind off cur. For kind == PObj the type
// hash is read from the wire and looked up in dc's registry.
func DecodeField(cur *ByteCursor, kind FieldKind, dc *DecodeContext) (Value, error) {
	fn, ok := fieldCodecs[kind]
	if !ok {
		return Value{}, UnknownPropertyObject(0)
	}
	return fn(cur, dc)
}

func decodeBYT(cur *ByteCursor, _ *DecodeContext) (Value, error) {
	v, err := cur.ReadI8()
	if err != nil {
		return Value{}, err
	}
	return IntValue(int64(v)), nil
}

func decodeUBYT(cur *ByteCursor, _ *DecodeContext) (Value, error) {
	v, err := cur.ReadU8()
	if err != nil {
		return Value{}, err
	}
	return UintValue(uint64(v)), nil
}

func decodeSHRT(cur *ByteCursor, _ *DecodeContext) (Value, error) {
	v, err := cur.ReadI16()
	if err != nil {
		return Value{}, err
	}
	return IntValue(int64(v)), nil
}

func decodeUSHRT(cur *ByteCursor, _ *DecodeContext) (Value, error) {
	v, err := cur.ReadU16()
	if err != nil {
		return Value{}, err
	}
	return UintValue(uint64(v)), nil
}

func decodeINT(cur *ByteCursor, _ *DecodeContext) (Value, error) {
	v, err := cur.ReadI32()
	if err != nil {
		return Value{}, err
	}
	return IntValue(int64(v)), nil
}

func decodeUINT(cur *ByteCursor, _ *DecodeContext) (Value, error) {
	v, err := cur.ReadU32()
	if err != nil {
		return Value{}, err
	}
	return UintValue(uint64(v)), nil
}

func decodeU64(cur *ByteCursor, _ *DecodeContext) (Value, error) {
	v, err := cur.ReadU64()
	if err != nil {
		return Value{}, err
	}
	return UintValue(v), nil
}

func decodeFLT(cur *ByteCursor, _ *DecodeContext) (Value, error) {
	v, err := cur.ReadF32()
	if err != nil {
		return Value{}, err
	}
	return Float32Value(v), nil
}

func decodeDBL(cur *ByteCursor, _ *DecodeContext) (Value, error) {
	v, err := cur.ReadF64()
	if err != nil {
		return Value{}, err
	}
	return Float64Value(v), nil
}

func decodeSTR(cur *ByteCursor, _ *DecodeContext) (Value, error) {
	v, err := cur.ReadStr()
	if err != nil {
		return Value{}, err
	}
	return BytesValue(v), nil
}

func decodeWSTR(cur *ByteCursor, _ *DecodeContext) (Value, error) {
	v, err := cur.ReadWStr()
	if err != nil {
		return Value{}, err
	}
	return StringValue(v), nil
}

func decodeBOOL(cur *ByteCursor, _ *DecodeContext) (Value, error) {
	v, err := cur.ReadU8()
	if err != nil {
		return Value{}, err
	}
	return BoolValue(v != 0), nil
}

// decodePO reads a property object: a type hash, a declared property
// count (informational; the registry's property list is authoritative
// for how many fields follow), then each property in registry order.
func decodePO(cur *ByteCursor, dc *DecodeContext) (Value, error) {
	hash, err := cur.ReadU32()
	if err != nil {
		return Value{}, err
	}
	if _, err := cur.ReadU32(); err != nil { // property_count, not otherwise consulted
		return Value{}, err
	}
	if hash == 0 {
		return NullValue(), nil
	}

	if dc.depth >= maxPropertyObjectDepth {
		return Value{}, ErrRecursionLimit
	}

	typ, ok := dc.registry.Lookup(dc.ctx, hash)
	if !ok {
		return Value{}, UnknownPropertyObject(hash)
	}

	child := &DecodeContext{ctx: dc.ctx, registry: dc.registry, depth: dc.depth + 1}
	props := NewOrderedMap()
	for _, prop := range typ.Properties {
		v, err := DecodeField(cur, prop.Kind, child)
		if err != nil {
			return Value{}, err
		}
		props.Set(prop.Name, v)
	}

	return PropertyObjectValue(PO{TypeHash: hash, Props: props}), nil
}
