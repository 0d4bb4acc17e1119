package domain

import "strings"

type Options struct {
	QOpenAllowQNext    bool   `json:"qopen_allow_qnext"`
	QOpenAllowMove     bool   `json:"qopen_allow_move"`
	QOpenAllowPlayNext bool   `json:"qopen_allow_playnext"`
	QOpenAllowDelete   bool   `json:"qopen_allow_delete"`
	AllowVoteskip      bool   `json:"allow_voteskip"`
	PageTitle          string `json:"pagetitle" validate:"max=100"`
	CustomCSS          string `json:"customcss" validate:"max=2048"`
}

func DefaultOptions() Options {
	return Options{
		AllowVoteskip: true,
		PageTitle:     "Sync",
	}
}

type Motd struct {
	Motd string `json:"motd"`
	HTML string `json:"html"`
}

func NewMotd(raw string) Motd {
	html := Autolink(EscapeHTML(raw))
	return Motd{
		Motd: raw,
		HTML: strings.ReplaceAll(html, "\n", "<br>"),
	}
}
