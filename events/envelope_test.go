package events

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	enc := NewEncoder()
	imageID := uuid.New()

	frame, err := enc.Encode(NewImage, NewImagePayload{
		ImageID: imageID,
		URL:     "s3://camera-feed/001.png",
		Format:  "png",
	})
	require.NoError(t, err)

	env, payload, err := DecodeBody[NewImagePayload](frame)
	require.NoError(t, err)
	assert.Equal(t, NewImage, env.Type)
	assert.NotEqual(t, uuid.Nil, env.ID)
	assert.False(t, env.Timestamp.IsZero())
	assert.Equal(t, imageID, payload.ImageID)
	assert.Equal(t, "s3://camera-feed/001.png", payload.URL)
}

func TestEncodedFrameCarriesFilterPrefix(t *testing.T) {
	enc := NewEncoder()
	frame, err := enc.Encode(ImageScored, ImageScoredPayload{
		ImageID: uuid.New(),
		Scores:  []Score{{Label: "llama", Probability: 0.93}},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(frame, ImageScored.Filter()))
	assert.False(t, bytes.HasPrefix(frame, NewImage.Filter()))
}

func TestEncodedFramesSurviveEncoderReuse(t *testing.T) {
	enc := NewEncoder()

	first, err := enc.Encode(ImageStored, ImageStoredPayload{ImageID: uuid.New(), Location: "a"})
	require.NoError(t, err)

	// A queued frame must stay intact while the encoder's scratch buffer
	// is reused for the next event.
	_, err = enc.Encode(ImageDeleted, ImageDeletedPayload{ImageID: uuid.New()})
	require.NoError(t, err)

	env, err := Decode(first)
	require.NoError(t, err)
	assert.Equal(t, ImageStored, env.Type)
}

func TestDecodeErrors(t *testing.T) {
	t.Run("short frame", func(t *testing.T) {
		_, err := Decode([]byte{0x00})
		assert.ErrorContains(t, err, "frame too short")
	})

	t.Run("garbage header", func(t *testing.T) {
		frame := append(NewImage.Filter(), []byte("not json")...)
		_, err := Decode(frame)
		assert.Error(t, err)
	})

	t.Run("body type mismatch", func(t *testing.T) {
		enc := NewEncoder()
		frame, err := enc.Encode(NewImage, NewImagePayload{ImageID: uuid.New(), URL: "u"})
		require.NoError(t, err)
		_, _, err = DecodeBody[[]int](frame)
		assert.Error(t, err)
	})
}
