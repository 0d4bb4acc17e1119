package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const RecentChatSize = 15

const (
	MsgClassNone      = ""
	MsgClassGreentext = "greentext"
	MsgClassAction    = "action"
	MsgClassSpoiler   = "spoiler"
	MsgClassServer    = "server-whisper"
)

var ErrInvalidFilter = errors.New("invalid filter")

var (
	urlRe = regexp.MustCompile(`(((https?)|(ftp))(://[0-9a-zA-Z.]+(:[0-9]+)?[^\s$]+))`)
	// $1 and $& style references are rewritten to the ${1} form Expand understands
	groupRefRe = regexp.MustCompile(`\$(\d+)`)
)

type ChatMessage struct {
	Username string `json:"username"`
	Msg      string `json:"msg"`
	MsgClass string `json:"msgclass"`
}

type ChatFilterData struct {
	Source      string `json:"source"`
	Replacement string `json:"replacement"`
	Enabled     bool   `json:"enabled"`
}

type ChatFilter struct {
	ChatFilterData
	re          *regexp.Regexp
	replacement string
}

func NewChatFilter(data ChatFilterData) (*ChatFilter, error) {
	re, err := regexp.Compile(data.Source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}

	return &ChatFilter{
		ChatFilterData: data,
		re:             re,
		replacement:    convertReplacement(data.Replacement),
	}, nil
}

func convertReplacement(s string) string {
	s = strings.ReplaceAll(s, "$&", "${0}")
	return groupRefRe.ReplaceAllString(s, "$${${1}}")
}

func (f *ChatFilter) Apply(msg string) string {
	return f.re.ReplaceAllString(msg, f.replacement)
}

func (f *ChatFilter) Data() ChatFilterData {
	return f.ChatFilterData
}

// ChatFilters is ordered. A filter's identity is its pattern source.
type ChatFilters struct {
	list []*ChatFilter
}

func NewChatFilters(filters ...*ChatFilter) *ChatFilters {
	return &ChatFilters{list: filters}
}

func DefaultChatFilters() *ChatFilters {
	defaults := []ChatFilterData{
		{Source: "`([^`]+)`", Replacement: "<code>$1</code>", Enabled: true},
		{Source: `\*([^\*]+)\*`, Replacement: "<strong>$1</strong>", Enabled: true},
		{Source: `(^| )_([^_]+)_`, Replacement: "$1<em>$2</em>", Enabled: true},
		{Source: `\\([-a-zA-Z0-9]+)`, Replacement: "[](/$1)", Enabled: true},
	}

	fs := &ChatFilters{}
	for _, d := range defaults {
		f, err := NewChatFilter(d)
		if err != nil {
			panic(err)
		}
		fs.list = append(fs.list, f)
	}

	return fs
}

// FiltersFromData compiles filters, returning an error for the first pattern that does not compile.
func FiltersFromData(data []ChatFilterData) (*ChatFilters, error) {
	fs := &ChatFilters{list: make([]*ChatFilter, 0, len(data))}
	for _, d := range data {
		f, err := NewChatFilter(d)
		if err != nil {
			return nil, err
		}
		fs.list = append(fs.list, f)
	}

	return fs, nil
}

// Update replaces the replacement and enabled flag of every filter with the same source,
// or appends f when there is none.
func (fs *ChatFilters) Update(f *ChatFilter) {
	found := false
	for i, existing := range fs.list {
		if existing.Source == f.Source {
			fs.list[i] = f
			found = true
		}
	}
	if !found {
		fs.list = append(fs.list, f)
	}
}

// Remove deletes the first filter with the given source.
func (fs *ChatFilters) Remove(source string) bool {
	for i, f := range fs.list {
		if f.Source == source {
			fs.list = append(fs.list[:i], fs.list[i+1:]...)
			return true
		}
	}
	return false
}

func (fs *ChatFilters) Len() int {
	return len(fs.list)
}

func (fs *ChatFilters) Data() []ChatFilterData {
	data := make([]ChatFilterData, 0, len(fs.list))
	for _, f := range fs.list {
		data = append(data, f.Data())
	}
	return data
}

// Apply runs enabled filters in order over msg.
func (fs *ChatFilters) Apply(msg string) string {
	for _, f := range fs.list {
		if !f.Enabled {
			continue
		}
		msg = f.Apply(msg)
	}
	return msg
}

func EscapeHTML(s string) string {
	s = strings.ReplaceAll(s, "<", "&lt;")
	return strings.ReplaceAll(s, ">", "&gt;")
}

func Autolink(s string) string {
	return urlRe.ReplaceAllString(s, `<a href="$1" target="_blank">$1</a>`)
}

// SanitizeMessage escapes markup before any filter runs, so filters can never see raw angle brackets.
func SanitizeMessage(msg string, filters *ChatFilters) string {
	msg = Autolink(EscapeHTML(msg))
	if filters == nil {
		return msg
	}
	return filters.Apply(msg)
}

// ClassifyMessage inspects the raw text. Commands are handled separately and never broadcast as is.
func ClassifyMessage(msg string) (msgClass string, isCommand bool) {
	switch {
	case strings.HasPrefix(msg, "/"):
		return MsgClassNone, true
	case strings.HasPrefix(msg, ">"):
		return MsgClassGreentext, false
	default:
		return MsgClassNone, false
	}
}
