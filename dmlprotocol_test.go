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
	"encoding/hex"
	"errors"
	"testing"
)

// poiUpdateFieldHex is the "Data" field payload from the "Server updating
// the POI data" DML message (protocol_id=53, msg_id=31), a list of
// minimap-icon PO records, reproduced byte-for-byte from the decoded
// field value asserted in the original Python test suite.
const poiUpdateFieldHex = "dc1d91610b000000dc152122080000001f004755492f4d696e696d61702f42475f536967696c5f53706972616c2e6464736c5e0e0000003b22f11d40413e3b07411dcaf83f00000000dc152122080000001c004755492f4d696e696d61702f42475f536967696c5f53756e2e646473785e0e0000003b22d53aa0c5a65d50c5ee67164400000000dc152122080000001c004755492f4d696e696d61702f42475f536967696c5f4579652e646473805e0e0000003b2246326745bcf1c4c5e976164400000000dc152122080000001d004755492f4d696e696d61702f42475f536967696c5f4d6f6f6e2e6464738c5e0e0000003b2285f19f45e7d94f450074164400000000dc152122080000001d004755492f4d696e696d61702f42475f536967696c5f537461722e646473945e0e0000003b2248c366c5ac33c5450080164400000000dc1521220500000000009399fb000000aa0200a04ac60080f244008094c5cdcc8440dc152122050000000000039b11010000ab02004029c600801345008094c5cdcc6440dc152122050000000000fb624b040000070000304cc600c00745008094c566669640dc1521220500000000007e330d0100000600006038c600401545008094c566669640dc152122050000000000331879050000060000d02dc600401845008094c59a999d40dc15212205000000000023cb60010000aa02002032c600801c45008094c533330340"

func poiUpdateRegistry() *DMLRegistry {
	return &DMLRegistry{
		services: map[uint8]*ServiceTemplate{
			53: {
				ProtocolId:  53,
				Type:        "Wizard Messages2",
				Description: "Wizard Messages2",
				Messages: map[uint8]*MessageTemplate{
					31: {
						ProtocolId:  53,
						MsgId:       31,
						Name:        "PoiMgrUpdate",
						Description: "Server updating the POI data",
						Fields: []FieldTemplate{
							{Name: "Data", Kind: STR},
						},
					},
				},
			},
		},
	}
}

func buildPOIUpdateFrame(t *testing.T) []byte {
	t.Helper()
	data, err := hex.DecodeString(poiUpdateFieldHex)
	if err != nil {
		t.Fatal(err)
	}

	u16le := func(n int) []byte { return []byte{byte(n), byte(n >> 8)} }

	field := append(u16le(len(data)), data...)
	body := append([]byte{53, 31}, u16le(len(field))...)
	body = append(body, field...)

	header := []byte{0x0D, 0xF0}
	header = append(header, u16le(len(body))...)
	header = append(header, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00)

	return append(header, body...)
}

func TestDMLProtocolDecodePOIUpdate(t *testing.T) {
	frame := buildPOIUpdateFrame(t)
	cur := NewByteCursor(frame)

	if _, err := ParseFrameHeader(cur); err != nil {
		t.Fatal(err)
	}

	proto := NewDMLProtocol(poiUpdateRegistry())
	rec, err := proto.Decode(context.Background(), cur, NewPropertyObjectRegistry())
	if err != nil {
		t.Fatal(err)
	}

	if rec.ProtocolId != 53 || rec.MsgId != 31 {
		t.Fatalf("got protocol_id=%d msg_id=%d, want 53/31", rec.ProtocolId, rec.MsgId)
	}
	if rec.MsgDescription != "Server updating the POI data" {
		t.Fatalf("MsgDescription = %q", rec.MsgDescription)
	}
	if rec.Fields.Len() != 1 {
		t.Fatalf("Fields.Len() = %d, want 1", rec.Fields.Len())
	}

	v, ok := rec.Fields.Get("Data")
	if !ok {
		t.Fatal("expected a Data field")
	}
	want, _ := hex.DecodeString(poiUpdateFieldHex)
	if !bytes.Equal(v.(Value).Bytes, want) {
		t.Fatalf("Data field mismatch: got %d bytes, want %d bytes", len(v.(Value).Bytes), len(want))
	}
}

func TestDMLProtocolUnknownProtocol(t *testing.T) {
	body := []byte{99, 99, 0x00, 0x00}
	cur := NewByteCursor(body)

	proto := NewDMLProtocol(poiUpdateRegistry())
	_, err := proto.Decode(context.Background(), cur, NewPropertyObjectRegistry())
	if !errors.Is(err, ErrUnknownProtocol) {
		t.Fatalf("expected ErrUnknownProtocol, got %v", err)
	}
}

func TestDMLProtocolUnknownMessage(t *testing.T) {
	// protocol_id 53 is registered (see poiUpdateRegistry), msg_id 200 is not.
	body := []byte{53, 200, 0x00, 0x00}
	cur := NewByteCursor(body)

	proto := NewDMLProtocol(poiUpdateRegistry())
	_, err := proto.Decode(context.Background(), cur, NewPropertyObjectRegistry())
	if !errors.Is(err, ErrUnknownMessage) {
		t.Fatalf("expected ErrUnknownMessage, got %v", err)
	}
}
