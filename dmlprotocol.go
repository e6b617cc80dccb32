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
	"context"
	"fmt"
)

// DMLProtocol decodes schema-driven DML message bodies against a loaded
// DMLRegistry.
type DMLProtocol struct {
	Registry *DMLRegistry
}

// NewDMLProtocol returns a DMLProtocol dispatching against reg.
func NewDMLProtocol(reg *DMLRegistry) *DMLProtocol {
	return &DMLProtocol{Registry: reg}
}

// Decode reads a DML body of the form `u8 protocol_id; u8 msg_id; u16
// msg_len; fields…` off cur. cur may be positioned either at a bare body
// or at a full frame (magic + header + body); if the next two bytes are
// Magic, the frame header is parsed and skipped, and ContentIsControl
// must be 0.
func (p *DMLProtocol) Decode(ctx context.Context, cur *ByteCursor, poRegistry *PropertyObjectRegistry) (*DMLRecord, error) {
	if peeked, err := cur.PeekU16(); err == nil && peeked == u16LE(Magic[0], Magic[1]) {
		header, err := ParseFrameHeader(cur)
		if err != nil {
			return nil, err
		}
		if header.IsControl() {
			return nil, fmt.Errorf("ki: frame is a control frame, not DML")
		}
	}

	protocolId, err := cur.ReadU8()
	if err != nil {
		return nil, err
	}
	msgId, err := cur.ReadU8()
	if err != nil {
		return nil, err
	}
	msgLen, err := cur.ReadU16()
	if err != nil {
		return nil, err
	}

	// §9 anomaly tolerance: msg_len accounting versus actual remaining
	// bytes (minus the 4-byte trailer slack) is logged, not enforced.
	if remaining := cur.Remaining(); int(msgLen) != remaining && int(msgLen)+4 != remaining {
		FromContext(ctx).V(1).Info("dml msg_len does not match remaining body length",
			"protocol_id", protocolId, "msg_id", msgId, "msg_len", msgLen, "remaining", remaining)
	}

	svc, ok := p.Registry.Service(protocolId)
	if !ok {
		return nil, UnknownProtocol(protocolId)
	}

	msg, ok := svc.Messages[msgId]
	if !ok {
		return nil, UnknownMessage(protocolId, msgId)
	}

	dc := NewDecodeContext(ctx, poRegistry)
	fields := NewOrderedMap()
	for _, f := range msg.Fields {
		if f.Noxfer {
			continue
		}
		v, err := DecodeField(cur, f.Kind, dc)
		if err != nil {
			return nil, err
		}
		fields.Set(f.Name, v)
	}

	return &DMLRecord{
		ProtocolId:     protocolId,
		MsgId:          msgId,
		ProtocolName:   svc.Type,
		MsgName:        msg.Name,
		MsgDescription: msg.Description,
		Fields:         fields,
	}, nil
}

func u16LE(a, b byte) uint16 {
	return uint16(a) | uint16(b)<<8
}
