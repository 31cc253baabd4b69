// Package network defines the packet envelope and response wire formats
package network

import (
	"encoding/json"
	"fmt"
	"time"
)

// PacketType identifies the payload carried by a request envelope
type PacketType uint16

const (
	SpawnMonsterRequest      PacketType = 1
	MonsterDeathNotification PacketType = 2
	StateSyncNotification    PacketType = 3
)

// String returns the protocol name of the packet type
func (t PacketType) String() string {
	switch t {
	case SpawnMonsterRequest:
		return "SPAWN_MONSTER_REQUEST"
	case MonsterDeathNotification:
		return "MONSTER_DEATH_NOTIFICATION"
	case StateSyncNotification:
		return "STATE_SYNC_NOTIFICATION"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint16(t))
	}
}

// Envelope is a decoded request packet. Payload is still encoded.
type Envelope struct {
	Type     PacketType
	Version  uint16
	Sequence uint32
	Payload  []byte
}

// SpawnMonsterPayload is the body of SPAWN_MONSTER_REQUEST
type SpawnMonsterPayload struct {
	MonsterID int
	X         float64
	Y         float64
}

// MonsterDeathPayload is the body of MONSTER_DEATH_NOTIFICATION
type MonsterDeathPayload struct {
	MonsterID int
}

// ResponseType names what a response answers
type ResponseType string

const (
	RespSpawnMonster ResponseType = "SPAWN_MONSTER_RESPONSE"
	RespMonsterDeath ResponseType = "MONSTER_DEATH_RESPONSE"
	RespStateSync    ResponseType = "STATE_SYNC_RESPONSE"
	RespError        ResponseType = "ERROR"
)

// Status tags every response so clients never guess the payload shape
type Status string

const (
	StatusOK       Status = "OK"
	StatusRejected Status = "REJECTED"
	StatusError    Status = "ERROR"
)

// Error and rejection codes
const (
	CodeStageMismatch       = "STAGE_MISMATCH"
	CodeMonsterDataNotFound = "MONSTER_DATA_NOT_FOUND"
	CodeMonsterNotFound     = "MONSTER_NOT_FOUND"
	CodeDecodeFailed        = "DECODE_FAILED"
	CodeHandlerFault        = "HANDLER_FAULT"
	CodeStateSyncFailed     = "STATE_SYNC_FAILED"
)

// Response is written back as one JSON line per packet
type Response struct {
	Type      ResponseType `json:"type"`
	Sequence  uint32       `json:"sequence"`
	Status    Status       `json:"status"`
	Code      string       `json:"code,omitempty"`
	Message   string       `json:"message,omitempty"`
	Data      interface{}  `json:"data,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewResponse creates a response stamped with the current time
func NewResponse(respType ResponseType, sequence uint32, status Status) *Response {
	return &Response{
		Type:      respType,
		Sequence:  sequence,
		Status:    status,
		Timestamp: time.Now(),
	}
}

// CreateStatusResponse creates a plain status message response
func CreateStatusResponse(respType ResponseType, sequence uint32, message string) *Response {
	resp := NewResponse(respType, sequence, StatusOK)
	resp.Message = message
	return resp
}

// CreateRejection creates a response for an expected validation failure
func CreateRejection(respType ResponseType, sequence uint32, code, message string) *Response {
	resp := NewResponse(respType, sequence, StatusRejected)
	resp.Code = code
	resp.Message = message
	return resp
}

// CreateErrorResponse creates error response
func CreateErrorResponse(sequence uint32, code, message string) *Response {
	resp := NewResponse(RespError, sequence, StatusError)
	resp.Code = code
	resp.Message = message
	return resp
}

// ToJSON encodes the response as a newline-terminated JSON line
func (r *Response) ToJSON() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// ResponseFromJSON decodes one response line. Data is left as raw JSON.
func ResponseFromJSON(data []byte) (*Response, json.RawMessage, error) {
	var wire struct {
		Response
		Data json.RawMessage `json:"data,omitempty"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, nil, err
	}
	resp := wire.Response
	resp.Data = nil
	return &resp, wire.Data, nil
}
