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
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestDispatcher(opts DispatcherOptions) *Dispatcher {
	return NewDispatcher(NewDMLProtocol(poiUpdateRegistry()), NewPropertyObjectRegistry(), opts)
}

func TestDispatcherBadMagic(t *testing.T) {
	// Bad magic always comes back as an ErrorRecord with a nil error,
	// regardless of SilenceDecodeErrors -- there is no valid frame to
	// propagate a typed decode error about.
	d := newTestDispatcher(DispatcherOptions{})
	raw := []byte{0xAA, 0xBB, 0x00, 0x00}
	rec, err := d.Decode(context.Background(), raw)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	errRec, ok := rec.(*ErrorRecord)
	if !ok {
		t.Fatalf("got %T, want *ErrorRecord", rec)
	}
	if errRec.Reason != "bad KI header" {
		t.Fatalf("Reason = %q, want %q", errRec.Reason, "bad KI header")
	}
	if !bytes.Equal(errRec.Raw, raw) {
		t.Fatalf("Raw = %v, want %v", errRec.Raw, raw)
	}
}

func TestDispatcherMinimalControl(t *testing.T) {
	d := newTestDispatcher(DispatcherOptions{})
	raw := []byte{0x0D, 0xF0, 0x00, 0x00, 0x01, 0x05, 0x00, 0x00, 0x00, 0x00}

	rec, err := d.Decode(context.Background(), raw)
	if err != nil {
		t.Fatal(err)
	}
	ctrl, ok := rec.(*ControlRecord)
	if !ok {
		t.Fatalf("got %T, want *ControlRecord", rec)
	}
	if ctrl.Opcode != 5 || ctrl.Name != "KEEP_ALIVE_RSP" {
		t.Fatalf("got opcode=%d name=%q", ctrl.Opcode, ctrl.Name)
	}
}

func TestDispatcherPOIUpdate(t *testing.T) {
	d := newTestDispatcher(DispatcherOptions{})
	frame := buildPOIUpdateFrame(t)

	rec, err := d.Decode(context.Background(), frame)
	if err != nil {
		t.Fatal(err)
	}
	dml, ok := rec.(*DMLRecord)
	if !ok {
		t.Fatalf("got %T, want *DMLRecord", rec)
	}
	if dml.ProtocolId != 53 || dml.MsgId != 31 {
		t.Fatalf("got protocol_id=%d msg_id=%d", dml.ProtocolId, dml.MsgId)
	}
}

func TestDispatcherCoalescedFrameWarning(t *testing.T) {
	d := newTestDispatcher(DispatcherOptions{})
	// content_len=0 but 20 extra bytes follow the 10-byte header --
	// decode succeeds (first message only), a coalesced-frame warning
	// is emitted, no recursion into the trailing bytes is attempted.
	raw := append([]byte{0x0D, 0xF0, 0x00, 0x00, 0x01, 0x05, 0x00, 0x00, 0x00, 0x00}, make([]byte, 20)...)

	before := testutil.ToFloat64(CoalescedFramesTotal)
	rec, err := d.Decode(context.Background(), raw)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := rec.(*ControlRecord); !ok {
		t.Fatalf("got %T, want *ControlRecord", rec)
	}
	after := testutil.ToFloat64(CoalescedFramesTotal)
	if after != before+1 {
		t.Fatalf("CoalescedFramesTotal did not increment: before=%v after=%v", before, after)
	}
}

func TestDispatcherSilenceDecodeErrors(t *testing.T) {
	d := newTestDispatcher(DispatcherOptions{SilenceDecodeErrors: true})
	// Valid magic, but the DML body ends after protocol_id/msg_id, so
	// reading msg_len fails as truncated -- the kind of error
	// SilenceDecodeErrors governs (bad magic is not).
	raw := []byte{0x0D, 0xF0, 0x02, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x63, 0x63}
	rec, err := d.Decode(context.Background(), raw)
	if err != nil {
		t.Fatalf("expected no error under SilenceDecodeErrors, got %v", err)
	}
	errRec, ok := rec.(*ErrorRecord)
	if !ok {
		t.Fatalf("got %T, want *ErrorRecord", rec)
	}
	if errRec.Reason == "" {
		t.Fatal("expected a non-empty Reason")
	}
}
