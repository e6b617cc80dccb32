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

// Magic is the two-byte preamble every KI frame begins with.
var Magic = [2]byte{0x0D, 0xF0}

// FrameHeader is the 8-byte header following the 2-byte magic, together
// forming the 10-byte preamble preceding every frame body.
type FrameHeader struct {
	Magic           [2]byte
	ContentLen      uint16
	ContentIsControl byte
	Opcode          byte
	Reserved        [4]byte
}

// IsControl reports whether ContentIsControl marks this frame as carrying
// a fixed control-opcode body rather than a DML message.
func (h *FrameHeader) IsControl() bool {
	return h.ContentIsControl != 0
}

// ParseFrameHeader reads the 10-byte preamble (2-byte magic plus the
// 8-byte header) off cur, rejecting anything that doesn't begin with
// Magic. It does not consume the body.
func ParseFrameHeader(cur *ByteCursor) (*FrameHeader, error) {
	magic, err := cur.ReadBytes(2)
	if err != nil {
		return nil, err
	}
	if magic[0] != Magic[0] || magic[1] != Magic[1] {
		return nil, ErrBadMagic
	}

	contentLen, err := cur.ReadU16()
	if err != nil {
		return nil, err
	}
	isControl, err := cur.ReadU8()
	if err != nil {
		return nil, err
	}
	opcode, err := cur.ReadU8()
	if err != nil {
		return nil, err
	}
	reserved, err := cur.ReadBytes(4)
	if err != nil {
		return nil, err
	}

	h := &FrameHeader{
		ContentLen:       contentLen,
		ContentIsControl: isControl,
		Opcode:           opcode,
	}
	h.Magic[0], h.Magic[1] = magic[0], magic[1]
	copy(h.Reserved[:], reserved)
	return h, nil
}
