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

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync"
)

// PropertyTemplate is one named, typed member of a PropertyObjectType, in
// declaration order.
type PropertyTemplate struct {
	Name string
	Kind FieldKind
	// PropType is the type hash of a nested PO, meaningful only when
	// Kind == PObj.
	PropType uint32
}

// PropertyObjectType is the flattened (bases-resolved) shape behind one
// 32-bit PO type hash: an ordered list of typed properties.
type PropertyObjectType struct {
	Hash       uint32
	Name       string
	Properties []PropertyTemplate
}

// PropertyObjectRegistry resolves PO type hashes to their flattened
// property lists. It is built once at load time and shared read-only
// across concurrent decodes.
type PropertyObjectRegistry struct {
	mu    sync.RWMutex
	types map[uint32]*PropertyObjectType
}

// NewPropertyObjectRegistry returns an empty registry.
func NewPropertyObjectRegistry() *PropertyObjectRegistry {
	return &PropertyObjectRegistry{types: make(map[uint32]*PropertyObjectType)}
}

// Lookup returns the type for hash, or ok=false if it was never loaded.
// ctx is accepted for signature parity with a future persistent-backed
// registry and is not consulted by this in-memory implementation.
func (r *PropertyObjectRegistry) Lookup(ctx context.Context, hash uint32) (*PropertyObjectType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[hash]
	return t, ok
}

// Add registers t under t.Hash, overwriting any existing entry.
func (r *PropertyObjectRegistry) Add(ctx context.Context, t *PropertyObjectType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[t.Hash] = t
}

// GetAll returns every registered type. The returned slice is a snapshot.
func (r *PropertyObjectRegistry) GetAll(ctx context.Context) []*PropertyObjectType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*PropertyObjectType, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	return out
}

// rawPropertyObjectDoc is the on-disk JSON typedef shape: a map from
// decimal-string type hash to its declaration.
type rawPropertyObjectDoc map[string]rawPropertyObjectDef

type rawPropertyObjectDef struct {
	Name       string                          `json:"name"`
	Bases      []string                        `json:"bases"`
	Properties map[string]rawPropertyFieldDef  `json:"properties"`
	order      []string                        // populated during decode to retain declaration order
}

type rawPropertyFieldDef struct {
	Type string `json:"type"`
	Info uint32 `json:"info"`
}

// UnmarshalJSON captures declaration order of the properties object, since
// Go's encoding/json does not preserve map key order and PO property order
// on the wire must match declaration order.
func (d *rawPropertyObjectDef) UnmarshalJSON(data []byte) error {
	type alias rawPropertyObjectDef
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*d = rawPropertyObjectDef(a)

	var peek struct {
		Properties json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(data, &peek); err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(peek.Properties))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if tok != json.Delim('{') {
		return nil
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		d.order = append(d.order, key)
		var discard json.RawMessage
		if err := dec.Decode(&discard); err != nil {
			return err
		}
	}
	return nil
}

// LoadPropertyObjectRegistry reads a single JSON typedef document (§6.2)
// into a new registry, flattening each type's bases chain into an ordered
// property list.
func LoadPropertyObjectRegistry(r io.Reader, path string) (*PropertyObjectRegistry, error) {
	var doc rawPropertyObjectDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, MalformedSchema(path, err.Error())
	}

	hashed := make(map[uint32]rawPropertyObjectDef, len(doc))
	byName := make(map[string]uint32, len(doc))
	for key, def := range doc {
		hash, err := strconv.ParseUint(key, 10, 32)
		if err != nil {
			return nil, MalformedSchema(path, fmt.Sprintf("non-numeric type hash key %q", key))
		}
		hashed[uint32(hash)] = def
		byName[def.Name] = uint32(hash)
	}

	reg := NewPropertyObjectRegistry()
	resolving := make(map[uint32]bool)
	resolved := make(map[uint32][]PropertyTemplate)

	var flatten func(hash uint32) ([]PropertyTemplate, error)
	flatten = func(hash uint32) ([]PropertyTemplate, error) {
		if props, ok := resolved[hash]; ok {
			return props, nil
		}
		if resolving[hash] {
			return nil, MalformedSchema(path, fmt.Sprintf("cyclic bases chain at type hash %d", hash))
		}
		def, ok := hashed[hash]
		if !ok {
			return nil, MalformedSchema(path, fmt.Sprintf("bases reference to undefined type hash %d", hash))
		}
		resolving[hash] = true

		var props []PropertyTemplate
		for _, baseName := range def.Bases {
			baseHash, ok := byName[baseName]
			if !ok {
				return nil, MalformedSchema(path, fmt.Sprintf("bases reference to undefined type name %q", baseName))
			}
			baseProps, err := flatten(baseHash)
			if err != nil {
				return nil, err
			}
			props = append(props, baseProps...)
		}

		seen := make(map[string]bool, len(props))
		for _, p := range props {
			seen[p.Name] = true
		}
		for _, name := range def.order {
			if seen[name] {
				return nil, MalformedSchema(path, fmt.Sprintf("duplicate property %q after flattening type hash %d", name, hash))
			}
			fieldDef := def.Properties[name]
			kind := ParseFieldKind(fieldDef.Type)
			if kind == Unknown {
				return nil, MalformedSchema(path, fmt.Sprintf("unknown field kind %q for property %q", fieldDef.Type, name))
			}
			props = append(props, PropertyTemplate{Name: name, Kind: kind, PropType: fieldDef.Info})
			seen[name] = true
		}

		resolving[hash] = false
		resolved[hash] = props
		return props, nil
	}

	for hash, def := range hashed {
		props, err := flatten(hash)
		if err != nil {
			return nil, err
		}
		reg.Add(context.Background(), &PropertyObjectType{Hash: hash, Name: def.Name, Properties: props})
	}

	return reg, nil
}
