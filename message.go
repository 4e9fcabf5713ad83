package equitywire

import (
	"encoding/json"
	"fmt"
	"time"
)

type MessageType byte

// Message types mirror the websocket frame opcodes.
const (
	DataMessage   MessageType = 1
	BinaryMessage MessageType = 2
	PingMessage   MessageType = 9
	PongMessage   MessageType = 10
)

func (t MessageType) Is(other MessageType) bool {
	return t == other
}

func (t MessageType) IsData() bool {
	return t.Is(DataMessage)
}

func (t MessageType) IsBinary() bool {
	return t.Is(BinaryMessage)
}

func (t MessageType) IsPing() bool {
	return t.Is(PingMessage)
}

func (t MessageType) IsPong() bool {
	return t.Is(PongMessage)
}

type Message interface {
	Type() MessageType
	Data() []byte
	String() string
}

type message struct {
	MessageType MessageType
	MessageData []byte
}

func (m message) Type() MessageType {
	return m.MessageType
}

func (m message) Data() []byte {
	return m.MessageData
}

func (m message) String() string {
	return fmt.Sprintf("Message{type=%d,data=%s}",
		m.MessageType, m.MessageData)
}

func NewMessage(mt MessageType, data []byte) Message {
	return message{MessageType: mt, MessageData: data}
}

func NewDataMessage(data []byte) Message {
	return NewMessage(DataMessage, data)
}

func NewBinaryMessage(data []byte) Message {
	return NewMessage(BinaryMessage, data)
}

func NewPingMessage(data []byte) Message {
	return NewMessage(PingMessage, data)
}

func NewPongMessage(data []byte) Message {
	return NewMessage(PongMessage, data)
}

// heartbeatPayload is the keep-alive record the backend expects on the
// application level: {"type":"ping","ts":<unix ms>}.
type heartbeatPayload struct {
	Type string `json:"type"`
	Ts   int64  `json:"ts"`
}

// NewHeartbeatMessage builds the keep-alive message sent while the channel
// is open. The payload is an application-level record, not a websocket ping
// frame.
func NewHeartbeatMessage() Message {
	bts, _ := json.Marshal(heartbeatPayload{
		Type: "ping",
		Ts:   time.Now().UnixMilli(),
	})
	return NewDataMessage(bts)
}
