package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:00", FormatDuration(0))
	assert.Equal(t, "4:05", FormatDuration(245))
	assert.Equal(t, "1:00:01", FormatDuration(3601))
}

func TestMediaTypes(t *testing.T) {
	assert.True(t, MediaTypeTwitch.IsLive())
	assert.True(t, MediaTypeLivestream.IsLive())
	assert.False(t, MediaTypeYouTube.IsLive())
	assert.True(t, MediaTypeYouTubePlaylist.IsCollection())
	assert.Equal(t, MediaTypeYouTube, MediaTypeYouTubePlaylist.ItemType())
	assert.Equal(t, MediaTypeVimeo, MediaTypeVimeo.ItemType())
	assert.False(t, MediaType("xx").Valid())
}

func TestSynthesizeLive(t *testing.T) {
	m, ok := SynthesizeLive(MediaTypeTwitch, "somechan")
	require.True(t, ok)
	assert.Equal(t, "Twitch ~ somechan", m.Title)
	assert.Equal(t, 0, m.Seconds)

	m, ok = SynthesizeLive(MediaTypeLivestream, "x")
	require.True(t, ok)
	assert.Equal(t, "Livestream ~ x", m.Title)

	_, ok = SynthesizeLive(MediaTypeYouTube, "x")
	assert.False(t, ok)
}
