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
	"encoding"
	"fmt"
)

// FieldKind names the wire encoding of a single DML or control field.
type FieldKind int

const (
	Unknown FieldKind = iota
	BYT
	UBYT
	SHRT
	USHRT
	INT
	UINT
	GID // alias of U64, used by fields historically named as a "global id"
	U64
	FLT
	DBL
	STR
	WSTR
	BOOL
	PObj // recursive property object; collides with the PO value type name
)

var supportedKinds = []FieldKind{
	BYT, UBYT, SHRT, USHRT, INT, UINT, GID, U64, FLT, DBL, STR, WSTR, BOOL, PObj,
}

func SupportedFieldKinds() []FieldKind {
	return supportedKinds
}

func (k FieldKind) String() string {
	switch k {
	case BYT:
		return "BYT"
	case UBYT:
		return "UBYT"
	case SHRT:
		return "SHRT"
	case USHRT:
		return "USHRT"
	case INT:
		return "INT"
	case UINT:
		return "UINT"
	case GID:
		return "GID"
	case U64:
		return "U64"
	case FLT:
		return "FLT"
	case DBL:
		return "DBL"
	case STR:
		return "STR"
	case WSTR:
		return "WSTR"
	case BOOL:
		return "BOOL"
	case PObj:
		return "PO"
	default:
		return "unknown"
	}
}

var _ fmt.Stringer = FieldKind(0)
var _ encoding.TextMarshaler = FieldKind(0)
var _ encoding.TextUnmarshaler = (*FieldKind)(nil)

func (k FieldKind) MarshalText() ([]byte, error) {
	if k == Unknown {
		return nil, fmt.Errorf("ki: cannot marshal unknown field kind")
	}
	return []byte(k.String()), nil
}

func (k *FieldKind) UnmarshalText(in []byte) error {
	parsed := ParseFieldKind(string(in))
	if parsed == Unknown {
		return fmt.Errorf("ki: unrecognized field kind %q", in)
	}
	*k = parsed
	return nil
}

// ParseFieldKind parses the typedef-registry and DML-schema spellings of
// a field kind name, returning Unknown if name is not recognized.
func ParseFieldKind(name string) FieldKind {
	switch name {
	case "BYT":
		return BYT
	case "UBYT":
		return UBYT
	case "SHRT":
		return SHRT
	case "USHRT":
		return USHRT
	case "INT":
		return INT
	case "UINT":
		return UINT
	case "GID":
		return GID
	case "U64":
		return U64
	case "FLT":
		return FLT
	case "DBL":
		return DBL
	case "STR":
		return STR
	case "WSTR":
		return WSTR
	case "BOOL":
		return BOOL
	case "PO":
		return PObj
	default:
		return Unknown
	}
}
