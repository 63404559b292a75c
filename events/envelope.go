package events

import (
	"bytes"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// tagSize is the width of the binary type tag that prefixes every frame.
const tagSize = 2

// Envelope is the decoded form of one wire frame.
type Envelope struct {
	Type      Type
	ID        uuid.UUID
	Timestamp time.Time
	Body      json.RawMessage
}

type header struct {
	ID        uuid.UUID       `json:"id"`
	Timestamp time.Time       `json:"ts"`
	Body      json.RawMessage `json:"body"`
}

// Encoder builds wire frames for outgoing events. It owns a scratch buffer
// reused across Encode calls for assembling the frame; the engine hands
// each plugin a fresh Encoder so plugins never share one. The returned
// frame is a copy and stays valid after the next Encode, which matters
// because the transport queues frames without copying them.
type Encoder struct {
	buf bytes.Buffer
}

// NewEncoder returns an Encoder with an empty scratch buffer.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode serializes body as an event of type t and returns the framed
// bytes: the type tag followed by the JSON header.
func (e *Encoder) Encode(t Type, body any) ([]byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("events: encode %s body: %w", t, err)
	}
	hdr, err := json.Marshal(header{
		ID:        uuid.New(),
		Timestamp: time.Now().UTC(),
		Body:      raw,
	})
	if err != nil {
		return nil, fmt.Errorf("events: encode %s header: %w", t, err)
	}
	e.buf.Reset()
	e.buf.Grow(tagSize + len(hdr))
	e.buf.Write(t.Filter())
	e.buf.Write(hdr)
	return append([]byte(nil), e.buf.Bytes()...), nil
}

// Decode parses one wire frame into an Envelope.
func Decode(frame []byte) (Envelope, error) {
	if len(frame) < tagSize {
		return Envelope{}, fmt.Errorf("events: frame too short: %d bytes", len(frame))
	}
	t := Type(uint16(frame[0])<<8 | uint16(frame[1]))
	var hdr header
	if err := json.Unmarshal(frame[tagSize:], &hdr); err != nil {
		return Envelope{}, fmt.Errorf("events: decode %s header: %w", t, err)
	}
	return Envelope{
		Type:      t,
		ID:        hdr.ID,
		Timestamp: hdr.Timestamp,
		Body:      hdr.Body,
	}, nil
}

// DecodeBody decodes a frame and unmarshals its body into v in one step.
func DecodeBody[T any](frame []byte) (Envelope, T, error) {
	var v T
	env, err := Decode(frame)
	if err != nil {
		return env, v, err
	}
	if err := json.Unmarshal(env.Body, &v); err != nil {
		return env, v, fmt.Errorf("events: decode %s body: %w", env.Type, err)
	}
	return env, v, nil
}
