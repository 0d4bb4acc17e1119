package domain

import "errors"

const VoteskipTitle = "voteskip"

var ErrInvalidOption = errors.New("invalid poll option")

type Poll struct {
	Title     string
	Initiator string
	Options   []string
	counts    []int
	votes     map[string]int
}

type PollSnapshot struct {
	Title     string   `json:"title"`
	Initiator string   `json:"initiator"`
	Options   []string `json:"options"`
	Counts    []int    `json:"counts"`
}

func NewPoll(initiator, title string, options []string) *Poll {
	return &Poll{
		Title:     title,
		Initiator: initiator,
		Options:   options,
		counts:    make([]int, len(options)),
		votes:     make(map[string]int),
	}
}

// Vote records one vote per key. Voting again moves the existing vote.
func (p *Poll) Vote(key string, option int) error {
	if option < 0 || option >= len(p.Options) {
		return ErrInvalidOption
	}

	p.Unvote(key)
	p.votes[key] = option
	p.counts[option]++

	return nil
}

// Unvote withdraws the vote cast under key, reporting whether there was one.
func (p *Poll) Unvote(key string) bool {
	option, ok := p.votes[key]
	if !ok {
		return false
	}

	p.counts[option]--
	delete(p.votes, key)

	return true
}

func (p *Poll) Count(option int) int {
	if option < 0 || option >= len(p.counts) {
		return 0
	}
	return p.counts[option]
}

func (p *Poll) Snapshot() PollSnapshot {
	counts := make([]int, len(p.counts))
	copy(counts, p.counts)
	options := make([]string, len(p.Options))
	copy(options, p.Options)

	return PollSnapshot{
		Title:     p.Title,
		Initiator: p.Initiator,
		Options:   options,
		Counts:    counts,
	}
}
