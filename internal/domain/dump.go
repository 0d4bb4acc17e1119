package domain

import (
	"encoding/json"
	"fmt"
)

type DumpMedia struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Seconds int       `json:"seconds"`
	Type    MediaType `json:"type"`
}

// Dump is the persisted form of a room's playlist, options, filters and motd.
type Dump struct {
	Queue           []DumpMedia      `json:"queue"`
	CurrentPosition int              `json:"currentPosition"`
	Opts            Options          `json:"opts"`
	Filters         []ChatFilterData `json:"filters"`
	Motd            Motd             `json:"motd"`
}

func ParseDump(data []byte) (*Dump, error) {
	var d Dump
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dump: %w", err)
	}

	for _, m := range d.Queue {
		if !m.Type.Valid() || m.Type.IsCollection() {
			return nil, fmt.Errorf("invalid media type %q in dump", m.Type)
		}
	}

	return &d, nil
}

func (d *Dump) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

func DumpQueue(items []*Media) []DumpMedia {
	queue := make([]DumpMedia, 0, len(items))
	for _, m := range items {
		queue = append(queue, DumpMedia{ID: m.ID, Title: m.Title, Seconds: m.Seconds, Type: m.Type})
	}
	return queue
}

func (d *Dump) Media() []*Media {
	items := make([]*Media, 0, len(d.Queue))
	for _, m := range d.Queue {
		items = append(items, NewMedia(m.ID, m.Title, m.Seconds, m.Type))
	}
	return items
}
