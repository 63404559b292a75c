package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseKnownTypes(t *testing.T) {
	tests := []struct {
		name string
		want Type
	}{
		{"NewImageEvent", NewImage},
		{"ImageScoredEvent", ImageScored},
		{"ImageStoredEvent", ImageStored},
		{"ImageDeletedEvent", ImageDeleted},
		{"PluginTerminateEvent", PluginTerminate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.name, got.String())
		})
	}
}

func TestParseUnknownType(t *testing.T) {
	_, err := Parse("NoSuchEvent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
}

func TestFilterIsBigEndianTag(t *testing.T) {
	assert.Equal(t, []byte{0x00, 0x01}, NewImage.Filter())
	assert.Equal(t, []byte{0x00, 0x02}, ImageScored.Filter())
}

func TestFiltersAreDisjoint(t *testing.T) {
	seen := map[string]Type{}
	for _, typ := range []Type{NewImage, ImageScored, ImageStored, ImageDeleted, PluginTerminate} {
		key := string(typ.Filter())
		prev, dup := seen[key]
		require.False(t, dup, "filter for %s collides with %s", typ, prev)
		seen[key] = typ
	}
}

func TestResolverDeterministic(t *testing.T) {
	names := []string{
		"NewImageEvent",
		"ImageScoredEvent",
		"ImageStoredEvent",
		"ImageDeletedEvent",
		"PluginTerminateEvent",
	}
	var resolver TypeResolver

	rapid.Check(t, func(t *rapid.T) {
		name := rapid.SampledFrom(names).Draw(t, "name")
		first, err := resolver.Resolve(name)
		require.NoError(t, err)
		second, err := resolver.Resolve(name)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		typ, err := Parse(name)
		require.NoError(t, err)
		assert.Equal(t, typ.Filter(), first)
	})
}

func TestResolverRejectsUnknownTopics(t *testing.T) {
	var resolver TypeResolver
	_, err := resolver.Resolve("definitely-not-an-event")
	assert.Error(t, err)
}

func TestResolverFunc(t *testing.T) {
	r := ResolverFunc(func(topic string) ([]byte, error) {
		return []byte(topic), nil
	})
	got, err := r.Resolve("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}
