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

import "github.com/prometheus/client_golang/prometheus"

var (
	// DecodedFrames counts frames the Dispatcher successfully turned into
	// a Record, regardless of record kind.
	DecodedFrames = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kidecode_decoded_frames_total",
		Help: "Total number of frames successfully decoded",
	})
	// DecodeErrorsTotal counts frames that failed to decode, labeled by
	// the sentinel error family (bad_magic, truncated, unknown_protocol, ...).
	DecodeErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kidecode_decode_errors_total",
		Help: "Total number of frame decode errors by cause",
	}, []string{"cause"})
	// DecodeDurationMicroseconds observes Dispatcher.Decode wall time per frame.
	DecodeDurationMicroseconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "kidecode_decode_duration_microseconds",
		Help:    "Duration of a single frame decode in microseconds",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	})
	// DecodedRecordsByKind counts decoded records by kind: control, dml, or error.
	DecodedRecordsByKind = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kidecode_decoded_records_total",
		Help: "Total number of decoded records by kind",
	}, []string{"kind"})
	// CoalescedFramesTotal counts frames whose content_len left trailing
	// bytes in the input, the decoder's heuristic for a possible
	// follow-on coalesced message it did not attempt to split out.
	CoalescedFramesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kidecode_coalesced_frames_total",
		Help: "Total number of frames flagged as possibly containing coalesced trailing data",
	})
)
