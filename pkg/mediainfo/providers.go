package mediainfo

import (
	"context"
	"net/url"
)

func (r *Resolver) soundcloud(ctx context.Context, id string) ([]Info, error) {
	var resp struct {
		Title    string  `json:"title"`
		Duration float64 `json:"duration"`
	}
	u := r.cfg.SoundCloudURL + "/tracks/" + url.PathEscape(id) + "?client_id=" + url.QueryEscape(r.cfg.SoundCloudClientID)
	if err := r.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	// duration is reported in milliseconds
	return []Info{{ID: id, Title: resp.Title, Seconds: int(resp.Duration / 1000)}}, nil
}

func (r *Resolver) vimeo(ctx context.Context, id string) ([]Info, error) {
	var resp []struct {
		Title    string `json:"title"`
		Duration int    `json:"duration"`
	}
	if err := r.getJSON(ctx, r.cfg.VimeoURL+"/video/"+url.PathEscape(id)+".json", &resp); err != nil {
		return nil, err
	}
	if len(resp) == 0 {
		return nil, ErrMediaNotFound
	}

	return []Info{{ID: id, Title: resp[0].Title, Seconds: resp[0].Duration}}, nil
}

func (r *Resolver) dailymotion(ctx context.Context, id string) ([]Info, error) {
	var resp struct {
		Title    string `json:"title"`
		Duration int    `json:"duration"`
	}
	if err := r.getJSON(ctx, r.cfg.DailymotionURL+"/video/"+url.PathEscape(id)+"?fields=title,duration", &resp); err != nil {
		return nil, err
	}

	return []Info{{ID: id, Title: resp.Title, Seconds: resp.Duration}}, nil
}
