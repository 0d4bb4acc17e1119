package domain

import (
	"fmt"
)

type MediaType string

const (
	MediaTypeYouTube         MediaType = "yt"
	MediaTypeYouTubePlaylist MediaType = "yp"
	MediaTypeTwitch          MediaType = "tw"
	MediaTypeLivestream      MediaType = "li"
	MediaTypeSoundCloud      MediaType = "sc"
	MediaTypeVimeo           MediaType = "vi"
	MediaTypeDailymotion     MediaType = "dm"
)

type provider struct {
	// live providers are never clocked and their metadata is synthesized
	live        bool
	titlePrefix string
	// set for enqueue-only types that expand into items of another type
	itemType MediaType
}

var providers = map[MediaType]provider{
	MediaTypeYouTube:         {},
	MediaTypeYouTubePlaylist: {itemType: MediaTypeYouTube},
	MediaTypeTwitch:          {live: true, titlePrefix: "Twitch"},
	MediaTypeLivestream:      {live: true, titlePrefix: "Livestream"},
	MediaTypeSoundCloud:      {},
	MediaTypeVimeo:           {},
	MediaTypeDailymotion:     {},
}

func (t MediaType) Valid() bool {
	_, ok := providers[t]
	return ok
}

// IsLive reports whether media of this type is excluded from the autolead clock.
func (t MediaType) IsLive() bool {
	return providers[t].live
}

// IsCollection reports whether the type only exists at enqueue time and expands into several items.
func (t MediaType) IsCollection() bool {
	return providers[t].itemType != ""
}

// ItemType is the type of the queued items produced by t.
func (t MediaType) ItemType() MediaType {
	if p := providers[t]; p.itemType != "" {
		return p.itemType
	}
	return t
}

// SynthesizeLive builds metadata for live types without a resolver call.
func SynthesizeLive(t MediaType, id string) (*Media, bool) {
	p, ok := providers[t]
	if !ok || !p.live {
		return nil, false
	}

	return NewMedia(id, p.titlePrefix+" ~ "+id, 0, t), true
}

type Media struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Seconds     int       `json:"seconds"`
	Duration    string    `json:"duration"`
	Type        MediaType `json:"type"`
	CurrentTime float64   `json:"currentTime"`
}

func NewMedia(id, title string, seconds int, t MediaType) *Media {
	return &Media{
		ID:       id,
		Title:    title,
		Seconds:  seconds,
		Duration: FormatDuration(seconds),
		Type:     t,
	}
}

// Clone returns an independent copy with the playback cursor reset.
func (m *Media) Clone() *Media {
	c := *m
	c.CurrentTime = 0
	return &c
}

func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, seconds/60%60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
