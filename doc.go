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

/*
Package ki decodes the KI game networking protocol, a framed binary
protocol overlaid on TCP, into structured records suitable for offline
pcap analysis or live inspection.

# Overview

Every KI frame begins with the magic bytes 0x0D 0xF0, followed by an
8-byte header and a body. The body holds one of two parallel message
families: a small, fixed catalogue of control-plane opcodes (session
handshake, keep-alive), or an extensible, schema-driven DML ("Data
Message Layer") message, whose shape is not known at compile time but
discovered by loading a directory of XML service definitions and
dispatching on (protocol_id, msg_id).

Field values are decoded through a single typed codec covering signed
and unsigned integers of several widths, two string encodings, two
floating point formats, and a recursive, type-hashed "property object"
container whose shape comes from an externally supplied JSON typedef
registry.

# Data Flow

A caller feeds raw frame bytes (however they were obtained -- a pcap
reader, a live socket, a test fixture) into a Dispatcher. The Dispatcher
parses the frame header, branches to the control or DML decoder, and
returns a Record: a ControlRecord, a DMLRecord, or an ErrorRecord when
the input could not be decoded. Rendering converts any Record into an
OrderedMap tree a structured-text encoder (this package targets
gopkg.in/yaml.v3) can serialize directly.

# Scope

This package decodes unencrypted frames only, does not reconstruct state
across multiple frames, and does not split coalesced multi-message
payloads -- it decodes the first message and warns. Schema registries
(DML service definitions, property object typedefs, the control opcode
table) are loaded once and are safe to share read-only across concurrent
decodes, each of which should use its own cursor over its own input.
*/
package ki
