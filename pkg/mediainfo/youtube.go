package mediainfo

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

const youtubeBatchSize = 50

var isoDurationRe = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseISODuration converts an ISO-8601 duration such as PT1H2M3S into seconds.
func ParseISODuration(s string) (int, error) {
	m := isoDurationRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	multipliers := []int{86400, 3600, 60, 1}
	total := 0
	for i, part := range m[1:] {
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, err
		}
		total += n * multipliers[i]
	}

	return total, nil
}

type youtubeVideosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title string `json:"title"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type youtubePlaylistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ContentDetails struct {
			VideoID string `json:"videoId"`
		} `json:"contentDetails"`
	} `json:"items"`
}

func (r *Resolver) youtube(ctx context.Context, id string) ([]Info, error) {
	if r.cfg.YouTubeAPIKey == "" {
		info, err := r.youtubeFromPage(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get video data from page: %w", err)
		}

		return []Info{*info}, nil
	}

	infos, err := r.youtubeVideos(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, ErrMediaNotFound
	}

	return infos[:1], nil
}

func (r *Resolver) youtubeVideos(ctx context.Context, ids []string) ([]Info, error) {
	q := url.Values{}
	q.Set("part", "snippet,contentDetails")
	q.Set("id", strings.Join(ids, ","))
	q.Set("key", r.cfg.YouTubeAPIKey)

	var resp youtubeVideosResponse
	if err := r.getJSON(ctx, r.cfg.YouTubeAPIURL+"/videos?"+q.Encode(), &resp); err != nil {
		return nil, err
	}

	byID := make(map[string]Info, len(resp.Items))
	for _, item := range resp.Items {
		seconds, err := ParseISODuration(item.ContentDetails.Duration)
		if err != nil {
			return nil, err
		}
		byID[item.ID] = Info{ID: item.ID, Title: item.Snippet.Title, Seconds: seconds}
	}

	// keep request order, skipping ids the API did not return
	infos := make([]Info, 0, len(ids))
	for _, id := range ids {
		if info, ok := byID[id]; ok {
			infos = append(infos, info)
		}
	}

	return infos, nil
}

func (r *Resolver) youtubePlaylist(ctx context.Context, playlistID string) ([]Info, error) {
	if r.cfg.YouTubeAPIKey == "" {
		return nil, ErrAPIKeyRequired
	}

	var ids []string
	pageToken := ""
	for {
		q := url.Values{}
		q.Set("part", "contentDetails")
		q.Set("playlistId", playlistID)
		q.Set("maxResults", strconv.Itoa(youtubeBatchSize))
		q.Set("key", r.cfg.YouTubeAPIKey)
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}

		var resp youtubePlaylistItemsResponse
		if err := r.getJSON(ctx, r.cfg.YouTubeAPIURL+"/playlistItems?"+q.Encode(), &resp); err != nil {
			return nil, err
		}
		for _, item := range resp.Items {
			ids = append(ids, item.ContentDetails.VideoID)
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	if len(ids) == 0 {
		return nil, ErrMediaNotFound
	}

	infos := make([]Info, 0, len(ids))
	for start := 0; start < len(ids); start += youtubeBatchSize {
		end := min(start+youtubeBatchSize, len(ids))
		batch, err := r.youtubeVideos(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}
		infos = append(infos, batch...)
	}

	return infos, nil
}

func (r *Resolver) youtubeFromPage(ctx context.Context, videoID string) (*Info, error) {
	resp, err := r.get(ctx, r.cfg.YouTubeWatchURL+"?v="+url.QueryEscape(videoID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSuffix(getTitle(doc), " - YouTube")
	if title == "" {
		return nil, ErrMediaNotFound
	}

	seconds, err := ParseISODuration(getMetaContent(doc, "duration"))
	if err != nil {
		return nil, err
	}

	return &Info{ID: videoID, Title: title, Seconds: seconds}, nil
}

func getTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
		return n.FirstChild.Data
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := getTitle(c); title != "" {
			return title
		}
	}
	return ""
}

func getMetaContent(n *html.Node, itemprop string) string {
	if n.Type == html.ElementNode && n.Data == "meta" {
		var prop, content string
		for _, attr := range n.Attr {
			switch attr.Key {
			case "itemprop":
				prop = attr.Val
			case "content":
				content = attr.Val
			}
		}
		if prop == itemprop {
			return content
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if content := getMetaContent(c, itemprop); content != "" {
			return content
		}
	}
	return ""
}
