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
	"fmt"
)

var (
	ErrBadMagic              error = errors.New("bad KI header")
	ErrTruncated             error = errors.New("truncated")
	ErrMalformedString       error = errors.New("malformed string")
	ErrUnknownProtocol       error = errors.New("unknown protocol")
	ErrUnknownMessage        error = errors.New("unknown message")
	ErrUnknownPropertyObject error = errors.New("unknown property object")
	ErrRecursionLimit        error = errors.New("property object recursion limit exceeded")
	ErrCoalesced             error = errors.New("possible coalesced frames")
	ErrMalformedSchema       error = errors.New("malformed schema")
)

// Truncated reports a cursor read that needed more bytes than remained.
func Truncated(expected, available int) error {
	return fmt.Errorf("%w: expected %d bytes, %d available", ErrTruncated, expected, available)
}

// UnknownProtocol reports a DML protocol_id absent from the loaded DML registry.
func UnknownProtocol(protocolId uint8) error {
	return fmt.Errorf("%w %d", ErrUnknownProtocol, protocolId)
}

// UnknownMessage reports a (protocol_id, msg_id) pair absent from the loaded DML registry.
func UnknownMessage(protocolId, msgId uint8) error {
	return fmt.Errorf("%w (%d, %d)", ErrUnknownMessage, protocolId, msgId)
}

// UnknownPropertyObject reports a PO type hash absent from the PropertyObjectRegistry.
// The decoder does not attempt to skip past an unknown PO because its length is not
// self-framed on the wire.
func UnknownPropertyObject(hash uint32) error {
	return fmt.Errorf("%w 0x%08x", ErrUnknownPropertyObject, hash)
}

// MalformedSchema reports a load-time failure of a DML service XML file or a
// property object typedef JSON document. Schema load errors are always fatal.
func MalformedSchema(path, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformedSchema, path, reason)
}
