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
	"errors"
	"testing"
)

func TestParseFrameHeaderBadMagic(t *testing.T) {
	cur := NewByteCursor([]byte{0xAA, 0xBB, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00})
	_, err := ParseFrameHeader(cur)
	if !errors.Is(err, ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestParseFrameHeaderMinimalControl(t *testing.T) {
	// 0D F0 00 00 01 05 00 00 00 00 -- control, opcode=5, empty body.
	raw := []byte{0x0D, 0xF0, 0x00, 0x00, 0x01, 0x05, 0x00, 0x00, 0x00, 0x00}
	cur := NewByteCursor(raw)

	h, err := ParseFrameHeader(cur)
	if err != nil {
		t.Fatal(err)
	}
	if h.ContentLen != 0 {
		t.Fatalf("ContentLen = %d, want 0", h.ContentLen)
	}
	if !h.IsControl() {
		t.Fatal("expected IsControl() == true")
	}
	if h.Opcode != 5 {
		t.Fatalf("Opcode = %d, want 5", h.Opcode)
	}
	if cur.Remaining() != 0 {
		t.Fatalf("Remaining() = %d, want 0 (empty body)", cur.Remaining())
	}
}

func TestParseFrameHeaderDoesNotConsumeBody(t *testing.T) {
	raw := []byte{0x0D, 0xF0, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xAB, 0xCD}
	cur := NewByteCursor(raw)

	if _, err := ParseFrameHeader(cur); err != nil {
		t.Fatal(err)
	}
	if cur.Remaining() != 2 {
		t.Fatalf("Remaining() after header = %d, want 2", cur.Remaining())
	}
}
