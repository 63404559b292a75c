package events

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// Type identifies one kind of event in the pipeline. The zero value is
// reserved so that an all-zero prefix never collides with a real tag.
type Type uint16

const (
	// NewImage announces that a new image has entered the pipeline.
	NewImage Type = iota + 1
	// ImageScored carries the classifier scores for an image.
	ImageScored
	// ImageStored announces that an image and its scores were persisted.
	ImageStored
	// ImageDeleted announces that an image was rejected and removed.
	ImageDeleted
	// PluginTerminate asks subscribed plugins to wind down. The engine
	// itself never acts on it; delivery is ordinary pub/sub.
	PluginTerminate
)

var typeNames = map[Type]string{
	NewImage:        "NewImageEvent",
	ImageScored:     "ImageScoredEvent",
	ImageStored:     "ImageStoredEvent",
	ImageDeleted:    "ImageDeletedEvent",
	PluginTerminate: "PluginTerminateEvent",
}

var namesToType = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for t, n := range typeNames {
		m[n] = t
	}
	return m
}()

// String returns the canonical topic name for the type, or a placeholder
// for tags this build does not know about.
func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("UnknownEvent(%d)", uint16(t))
}

// Parse maps a topic name like "NewImageEvent" back to its Type.
func Parse(name string) (Type, error) {
	t, ok := namesToType[name]
	if !ok {
		return 0, fmt.Errorf("events: unknown event type %q", name)
	}
	return t, nil
}

// Filter returns the binary prefix that selects messages of this type.
func (t Type) Filter() []byte {
	var b [tagSize]byte
	binary.BigEndian.PutUint16(b[:], uint16(t))
	return b[:]
}

// NewImagePayload is the body of a NewImage event.
type NewImagePayload struct {
	ImageID uuid.UUID `json:"image_id"`
	URL     string    `json:"url"`
	Format  string    `json:"format,omitempty"`
}

// Score is one label/probability pair produced by the classifier.
type Score struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// ImageScoredPayload is the body of an ImageScored event.
type ImageScoredPayload struct {
	ImageID uuid.UUID `json:"image_id"`
	Scores  []Score   `json:"scores"`
}

// ImageStoredPayload is the body of an ImageStored event.
type ImageStoredPayload struct {
	ImageID  uuid.UUID `json:"image_id"`
	Location string    `json:"location"`
}

// ImageDeletedPayload is the body of an ImageDeleted event.
type ImageDeletedPayload struct {
	ImageID uuid.UUID `json:"image_id"`
	Reason  string    `json:"reason,omitempty"`
}

// PluginTerminatePayload is the body of a PluginTerminate event. An empty
// PluginID addresses every subscriber.
type PluginTerminatePayload struct {
	PluginID string `json:"plugin_id,omitempty"`
}
