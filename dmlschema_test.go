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
	"strings"
	"testing"
)

const testServiceXML = `<_ProtocolInfo>
  <SERVICE_ID>7</SERVICE_ID>
  <PROTOCOL_TYPE>Test Messages</PROTOCOL_TYPE>
  <PROTOCOL_VERSION>1</PROTOCOL_VERSION>
  <PROTOCOL_DESCRIPTION>a test service</PROTOCOL_DESCRIPTION>
  <_MsgZebra>
    <MSG_DESCRIPTION>last alphabetically</MSG_DESCRIPTION>
    <MSG_HANDLER>HandleZebra</MSG_HANDLER>
    <Count>
      <TYPE>UINT</TYPE>
    </Count>
  </_MsgZebra>
  <_MsgApple>
    <MSG_DESCRIPTION>first alphabetically</MSG_DESCRIPTION>
    <MSG_HANDLER>HandleApple</MSG_HANDLER>
    <Name>
      <TYPE>WSTR</TYPE>
    </Name>
    <Internal>
      <TYPE>UINT</TYPE>
      <NOXFER>TRUE</NOXFER>
    </Internal>
  </_MsgApple>
  <_MsgMiddle>
    <MSG_DESCRIPTION>middle alphabetically</MSG_DESCRIPTION>
    <MSG_HANDLER>HandleMiddle</MSG_HANDLER>
  </_MsgMiddle>
</_ProtocolInfo>`

func TestLoadDMLServiceAssignsMsgIdByLexicographicOrder(t *testing.T) {
	svc, err := loadDMLService(strings.NewReader(testServiceXML), "test.xml")
	if err != nil {
		t.Fatal(err)
	}
	if svc.ProtocolId != 7 {
		t.Fatalf("ProtocolId = %d, want 7", svc.ProtocolId)
	}

	// Lexicographic order: Apple(1), Middle(2), Zebra(3).
	want := map[uint8]string{1: "_MsgApple", 2: "_MsgMiddle", 3: "_MsgZebra"}
	for id, name := range want {
		msg, ok := svc.Messages[id]
		if !ok {
			t.Fatalf("msg_id %d not assigned", id)
		}
		if msg.Name != name {
			t.Fatalf("msg_id %d = %q, want %q", id, msg.Name, name)
		}
	}
}

func TestLoadDMLServiceNoxferFieldsExcludedFromWire(t *testing.T) {
	svc, err := loadDMLService(strings.NewReader(testServiceXML), "test.xml")
	if err != nil {
		t.Fatal(err)
	}
	apple := svc.Messages[1]
	if len(apple.Fields) != 2 {
		t.Fatalf("Apple Fields = %+v, want 2 (Name, Internal)", apple.Fields)
	}
	if !apple.Fields[1].Noxfer {
		t.Fatalf("Internal field Noxfer = false, want true")
	}
}

func TestLoadDMLServiceMissingProtocolType(t *testing.T) {
	doc := `<_ProtocolInfo><SERVICE_ID>1</SERVICE_ID></_ProtocolInfo>`
	_, err := loadDMLService(strings.NewReader(doc), "bad.xml")
	if err == nil {
		t.Fatal("expected MalformedSchema for missing PROTOCOL_TYPE")
	}
}

func TestLoadDMLServiceUnknownFieldKind(t *testing.T) {
	doc := `<_ProtocolInfo>
	  <SERVICE_ID>1</SERVICE_ID>
	  <PROTOCOL_TYPE>T</PROTOCOL_TYPE>
	  <_MsgOnly>
	    <Field1><TYPE>NOPE</TYPE></Field1>
	  </_MsgOnly>
	</_ProtocolInfo>`
	_, err := loadDMLService(strings.NewReader(doc), "bad-kind.xml")
	if err == nil {
		t.Fatal("expected MalformedSchema for unknown field kind")
	}
}
