package room

import (
	"github.com/sharetube/syncroom/internal/domain"
)

// Voteskip counts one vote per IP and advances once more than half of the members have voted.
func (r *Room) Voteskip(memberID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.member(memberID)
	if err != nil {
		return err
	}

	if !r.opts.AllowVoteskip {
		return ErrVoteskipDisabled
	}

	if err := r.require(m, domain.ActionVoteskip); err != nil {
		return err
	}

	if r.voteskip == nil {
		r.voteskip = domain.NewPoll("", domain.VoteskipTitle, []string{"skip"})
	}

	if err := r.voteskip.Vote(m.IP, 0); err != nil {
		return err
	}

	count := r.voteskip.Count(0)
	need := r.members.Length()/2 + 1
	r.sendAll(EventVoteskip, voteskipPayload{Count: count, Need: need})

	if count >= need {
		r.playNext()
	}

	return nil
}

func (r *Room) OpenPoll(actorID, title string, options []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	actor, err := r.member(actorID)
	if err != nil {
		return err
	}

	return r.openPoll(actor, title, options)
}

// openPoll must be called with the lock held. An open poll is closed first.
func (r *Room) openPoll(actor *domain.Member, title string, options []string) error {
	if err := r.require(actor, domain.ActionPoll); err != nil {
		return err
	}

	if r.poll != nil {
		r.closePoll()
	}

	r.poll = domain.NewPoll(actor.Name, domain.EscapeHTML(title), escapeAll(options))
	r.sendAll(EventNewPoll, r.poll.Snapshot())

	return nil
}

func (r *Room) ClosePoll(actorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	actor, err := r.member(actorID)
	if err != nil {
		return err
	}

	if err := r.require(actor, domain.ActionPoll); err != nil {
		return err
	}

	if r.poll == nil {
		return ErrNoPoll
	}

	r.closePoll()
	return nil
}

func (r *Room) closePoll() {
	r.sendAll(EventClosePoll, r.poll.Snapshot())
	r.poll = nil
}

func (r *Room) Vote(memberID string, option int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.member(memberID)
	if err != nil {
		return err
	}

	if r.poll == nil {
		return ErrNoPoll
	}

	if err := r.poll.Vote(m.IP, option); err != nil {
		return err
	}
	r.sendAll(EventUpdatePoll, r.poll.Snapshot())

	return nil
}

func escapeAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = domain.EscapeHTML(s)
	}
	return out
}
