package mediainfo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrUnsupportedType = errors.New("unsupported media type")
	ErrMediaNotFound   = errors.New("media not found")
	ErrAPIKeyRequired  = errors.New("api key required")
)

// Info is the metadata returned for one playable item.
type Info struct {
	ID      string
	Title   string
	Seconds int
}

type Config struct {
	YouTubeAPIKey      string
	SoundCloudClientID string
	Timeout            time.Duration

	// Base URLs, overridable in tests.
	YouTubeAPIURL   string
	YouTubeWatchURL string
	SoundCloudURL   string
	VimeoURL        string
	DailymotionURL  string
}

func (c *Config) setDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
	if c.YouTubeAPIURL == "" {
		c.YouTubeAPIURL = "https://www.googleapis.com/youtube/v3"
	}
	if c.YouTubeWatchURL == "" {
		c.YouTubeWatchURL = "https://www.youtube.com/watch"
	}
	if c.SoundCloudURL == "" {
		c.SoundCloudURL = "https://api.soundcloud.com"
	}
	if c.VimeoURL == "" {
		c.VimeoURL = "https://vimeo.com/api/v2"
	}
	if c.DailymotionURL == "" {
		c.DailymotionURL = "https://api.dailymotion.com"
	}
}

type provider func(ctx context.Context, id string) ([]Info, error)

type Resolver struct {
	cfg       Config
	client    *http.Client
	providers map[string]provider
}

func New(cfg Config) *Resolver {
	cfg.setDefaults()
	r := &Resolver{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
	r.providers = map[string]provider{
		"yt": r.youtube,
		"yp": r.youtubePlaylist,
		"sc": r.soundcloud,
		"vi": r.vimeo,
		"dm": r.dailymotion,
	}

	return r
}

// Resolve looks up metadata for id. Playlists return one Info per item, everything else exactly one.
func (r *Resolver) Resolve(ctx context.Context, mediaType, id string) ([]Info, error) {
	p, ok := r.providers[mediaType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mediaType)
	}

	infos, err := p(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s %s: %w", mediaType, id, err)
	}

	return infos, nil
}

func (r *Resolver) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrMediaNotFound
		}

		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp, nil
}

func (r *Resolver) getJSON(ctx context.Context, url string, dst any) error {
	resp, err := r.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
