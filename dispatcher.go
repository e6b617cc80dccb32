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
	"errors"
	"time"
)

// DispatcherOptions configures Dispatcher.Decode's error policy.
type DispatcherOptions struct {
	// SilenceDecodeErrors downgrades a per-frame decode failure from a
	// propagated error to a DEBUG log plus an in-band ErrorRecord. The
	// record's content is identical either way; only propagation and log
	// level differ.
	SilenceDecodeErrors bool
}

// Dispatcher parses a raw frame, branches between the control and DML
// message families, and returns the resulting Record.
type Dispatcher struct {
	DML        *DMLProtocol
	POs        *PropertyObjectRegistry
	Options    DispatcherOptions
}

// NewDispatcher returns a Dispatcher driven by the given DML and property
// object registries.
func NewDispatcher(dml *DMLProtocol, pos *PropertyObjectRegistry, opts DispatcherOptions) *Dispatcher {
	return &Dispatcher{DML: dml, POs: pos, Options: opts}
}

// Decode parses one frame out of bites and returns its Record. A frame
// that does not start with Magic always comes back as an ErrorRecord with
// a nil error. Any other decode failure is returned as an error with a nil
// Record (the default) or, under DispatcherOptions.SilenceDecodeErrors,
// logged at DEBUG and returned as an ErrorRecord alongside a nil error.
func (d *Dispatcher) Decode(ctx context.Context, bites []byte) (Record, error) {
	start := time.Now()
	rec, err := d.decode(ctx, bites)
	DecodeDurationMicroseconds.Observe(float64(time.Since(start).Microseconds()))

	if err != nil {
		DecodeErrorsTotal.WithLabelValues(errorCause(err)).Inc()

		// §4.H/§8 scenario 1: a bad magic always comes back as an
		// ErrorRecord, independent of SilenceDecodeErrors -- there is no
		// frame to retry or recover here, just a malformed header to report.
		if errors.Is(err, ErrBadMagic) {
			FromContext(ctx).V(0).Error(err, "bad KI header")
			errRec := &ErrorRecord{Reason: "bad KI header", Raw: append([]byte(nil), bites...)}
			DecodedRecordsByKind.WithLabelValues("error").Inc()
			return errRec, nil
		}

		if !d.Options.SilenceDecodeErrors {
			return nil, err
		}

		FromContext(ctx).V(1).Info("decode error silenced", "error", err.Error())
		errRec := &ErrorRecord{Reason: err.Error(), Raw: append([]byte(nil), bites...)}
		DecodedRecordsByKind.WithLabelValues("error").Inc()
		return errRec, nil
	}

	DecodedFrames.Inc()
	switch rec.(type) {
	case *ControlRecord:
		DecodedRecordsByKind.WithLabelValues("control").Inc()
	case *DMLRecord:
		DecodedRecordsByKind.WithLabelValues("dml").Inc()
	}
	return rec, nil
}

func (d *Dispatcher) decode(ctx context.Context, bites []byte) (Record, error) {
	cur := NewByteCursor(bites)

	header, err := ParseFrameHeader(cur)
	if err != nil {
		return nil, err
	}

	// §9: content_len is known to exclude 4 trailer bytes that are inside
	// the framed region; anything beyond that is a possible coalesced
	// follow-on message, which this decoder does not split out.
	if int(header.ContentLen)+4 < cur.Remaining() {
		CoalescedFramesTotal.Inc()
		FromContext(ctx).Info("possible coalesced frames",
			"content_len", header.ContentLen, "remaining", cur.Remaining())
	}

	if header.IsControl() {
		dc := NewDecodeContext(ctx, d.POs)
		return DecodeControl(header.Opcode, cur, dc)
	}

	return d.DML.Decode(ctx, cur, d.POs)
}

func errorCause(err error) string {
	switch {
	case errors.Is(err, ErrBadMagic):
		return "bad_magic"
	case errors.Is(err, ErrTruncated):
		return "truncated"
	case errors.Is(err, ErrMalformedString):
		return "malformed_string"
	case errors.Is(err, ErrUnknownProtocol):
		return "unknown_protocol"
	case errors.Is(err, ErrUnknownMessage):
		return "unknown_message"
	case errors.Is(err, ErrUnknownPropertyObject):
		return "unknown_property_object"
	case errors.Is(err, ErrRecursionLimit):
		return "recursion_limit"
	case errors.Is(err, ErrMalformedSchema):
		return "malformed_schema"
	default:
		return "other"
	}
}
