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
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FieldTemplate is one DML message field, in wire order.
type FieldTemplate struct {
	Name    string
	Kind    FieldKind
	Noxfer  bool
	POType  uint32
}

// MessageTemplate is one DML message's compiled shape. MsgId is assigned
// by DMLSchema at load time, not read from the source document.
type MessageTemplate struct {
	ProtocolId  uint8
	MsgId       uint8
	Name        string
	Description string
	Handler     string
	Fields      []FieldTemplate
}

// ServiceTemplate is one DML protocol's full message catalogue, built once
// at load and immutable after.
type ServiceTemplate struct {
	ProtocolId  uint8
	Type        string
	Version     uint32
	Description string
	Messages    map[uint8]*MessageTemplate
}

// DMLRegistry maps protocol_id to its ServiceTemplate, built once by
// LoadDMLSchemaDir and shared read-only across decodes.
type DMLRegistry struct {
	services map[uint8]*ServiceTemplate
}

// Lookup returns the message template for (protocolId, msgId), or
// ok=false if either is absent.
func (r *DMLRegistry) Lookup(protocolId, msgId uint8) (*MessageTemplate, bool) {
	svc, ok := r.services[protocolId]
	if !ok {
		return nil, false
	}
	msg, ok := svc.Messages[msgId]
	return msg, ok
}

// Service returns the ServiceTemplate for protocolId, or ok=false.
func (r *DMLRegistry) Service(protocolId uint8) (*ServiceTemplate, bool) {
	svc, ok := r.services[protocolId]
	return svc, ok
}

// xmlProtocolInfo mirrors a single DML service XML document. Go's
// encoding/xml preserves child element document order inside a []struct,
// so ordered field decoding needs no extra bookkeeping beyond this.
type xmlProtocolInfo struct {
	XMLName              xml.Name      `xml:"_ProtocolInfo"`
	ServiceID            uint8         `xml:"SERVICE_ID"`
	ProtocolType         string        `xml:"PROTOCOL_TYPE"`
	ProtocolVersion      uint32        `xml:"PROTOCOL_VERSION"`
	ProtocolDescription  string        `xml:"PROTOCOL_DESCRIPTION"`
	Messages             []xmlMessage  `xml:",any"`
}

type xmlMessage struct {
	XMLName     xml.Name
	Description string        `xml:"MSG_DESCRIPTION"`
	Handler     string        `xml:"MSG_HANDLER"`
	Fields      []xmlField    `xml:",any"`
}

type xmlField struct {
	XMLName xml.Name
	Type    string `xml:"TYPE"`
	Noxfer  string `xml:"NOXFER"`
	Info    uint32 `xml:"INFO"`
}

func isMessageElement(name string) bool {
	return strings.HasPrefix(name, "_Msg") || strings.HasPrefix(name, "MSG")
}

// reservedMessageChildren are xmlMessage sub-elements already bound to
// named struct fields and therefore not themselves fields.
var reservedMessageChildren = map[string]bool{
	"MSG_DESCRIPTION": true,
	"MSG_HANDLER":     true,
}

// LoadDMLSchemaDir reads every *.xml file in dir as one DML service
// definition and returns the combined registry. Schema load errors are
// always fatal: the first failure aborts the whole load, and a partially
// built registry is never returned.
func LoadDMLSchemaDir(dir string) (*DMLRegistry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, MalformedSchema(dir, err.Error())
	}

	reg := &DMLRegistry{services: make(map[uint8]*ServiceTemplate)}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".xml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		f, err := os.Open(path)
		if err != nil {
			return nil, MalformedSchema(path, err.Error())
		}
		svc, err := loadDMLService(f, path)
		closeErr := f.Close()
		if err != nil {
			return nil, err
		}
		if closeErr != nil {
			return nil, MalformedSchema(path, closeErr.Error())
		}

		if _, exists := reg.services[svc.ProtocolId]; exists {
			return nil, MalformedSchema(path, fmt.Sprintf("duplicate protocol_id %d", svc.ProtocolId))
		}
		reg.services[svc.ProtocolId] = svc
	}

	return reg, nil
}

func loadDMLService(r io.Reader, path string) (*ServiceTemplate, error) {
	var doc xmlProtocolInfo
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, MalformedSchema(path, err.Error())
	}
	if doc.ProtocolType == "" {
		return nil, MalformedSchema(path, "missing PROTOCOL_TYPE")
	}

	type named struct {
		name string
		msg  xmlMessage
	}
	var messages []named
	for _, m := range doc.Messages {
		if !isMessageElement(m.XMLName.Local) {
			continue
		}
		messages = append(messages, named{name: m.XMLName.Local, msg: m})
	}

	// §4.F: msg_id is assigned 1-based by position after lexicographic
	// sort of message names, not by declaration order in the document.
	sort.Slice(messages, func(i, j int) bool { return messages[i].name < messages[j].name })

	svc := &ServiceTemplate{
		ProtocolId:  doc.ServiceID,
		Type:        doc.ProtocolType,
		Version:     doc.ProtocolVersion,
		Description: doc.ProtocolDescription,
		Messages:    make(map[uint8]*MessageTemplate, len(messages)),
	}

	for i, nm := range messages {
		msgId := uint8(i + 1)
		var fields []FieldTemplate
		for _, f := range nm.msg.Fields {
			if reservedMessageChildren[f.XMLName.Local] {
				continue
			}
			kind := ParseFieldKind(f.Type)
			if kind == Unknown {
				return nil, MalformedSchema(path, fmt.Sprintf("message %s: field %s: unknown type %q", nm.name, f.XMLName.Local, f.Type))
			}
			fields = append(fields, FieldTemplate{
				Name:   f.XMLName.Local,
				Kind:   kind,
				Noxfer: strings.EqualFold(f.Noxfer, "TRUE"),
				POType: f.Info,
			})
		}

		svc.Messages[msgId] = &MessageTemplate{
			ProtocolId:  svc.ProtocolId,
			MsgId:       msgId,
			Name:        nm.name,
			Description: nm.msg.Description,
			Handler:     nm.msg.Handler,
			Fields:      fields,
		}
	}

	return svc, nil
}
