package room

import (
	"context"
	"errors"

	"github.com/sharetube/syncroom/internal/domain"
	"github.com/sharetube/syncroom/internal/repository/room"
)

const bannedReason = "You're banned!"

type JoinParams struct {
	MemberID string
	Name     string
	IP       string
	// PlayerReady marks a joiner whose player can take a sync packet immediately.
	PlayerReady bool
}

// Join adds a member and sends it the room state. A banned IP is disconnected before anything is sent.
func (r *Room) Join(ctx context.Context, params *JoinParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bans.IsBanned(params.IP) {
		r.chanlog.InfoContext(ctx, "kicking banned ip", "ip", params.IP)
		r.sender.Disconnect(params.MemberID, bannedReason)
		return ErrBanned
	}

	m := &domain.Member{
		ID:          params.MemberID,
		IP:          params.IP,
		Rank:        domain.RankGuest,
		PlayerReady: params.PlayerReady,
	}

	if params.Name != "" {
		if _, err := r.members.GetByName(params.Name); err == nil {
			r.sendTo(m.ID, EventLogin, loginPayload{
				Success: false,
				Error:   "The username " + params.Name + " is already in use on this channel",
			})
		} else {
			m.Name = params.Name
			m.LoggedIn = true
			m.Rank = r.getRank(m.Name)
			r.sendTo(m.ID, EventLogin, loginPayload{Success: true, Name: m.Name})
		}
	}

	if r.members.Length() == 0 && !r.registered {
		if m.Rank < domain.RankOwner {
			m.Rank = domain.BootstrapRank
		}
		r.sendTo(m.ID, EventChannelNotRegistered, struct{}{})
	}

	if err := r.members.Add(m); err != nil {
		return err
	}
	membersConnected.Inc()

	if m.LoggedIn {
		r.sendAll(EventAddUser, r.userInfo(m))
	}
	r.handleRankChange(m)
	r.broadcastUserCount()

	r.sendPlaylist(m.ID)
	r.sendTo(m.ID, EventQueueLock, queueLockPayload{Locked: r.locked})
	r.sendTo(m.ID, EventUserList, r.userList())
	for _, msg := range r.recentChat.Snapshot() {
		r.sendTo(m.ID, EventChatMessage, msg)
	}
	if r.poll != nil {
		r.sendTo(m.ID, EventNewPoll, r.poll.Snapshot())
	}
	r.sendTo(m.ID, EventChannelOpts, r.opts)
	r.sendTo(m.ID, EventMotd, r.motd)
	if m.PlayerReady {
		r.sendMediaUpdate(m.ID)
	}

	r.chanlog.InfoContext(ctx, "joined", "ip", m.IP, "name", m.Name)
	return nil
}

// Leave withdraws the member's votes, drops leadership and removes it from the roster.
func (r *Room) Leave(ctx context.Context, memberID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.member(memberID)
	if err != nil {
		return err
	}

	if r.poll != nil && r.poll.Unvote(m.IP) {
		r.sendAll(EventUpdatePoll, r.poll.Snapshot())
	}
	if r.voteskip != nil {
		r.voteskip.Unvote(m.IP)
	}
	if r.leaderID == m.ID {
		r.changeLeader(nil)
	}

	if _, err := r.members.RemoveByID(m.ID); err != nil {
		return ErrMemberNotFound
	}
	membersConnected.Dec()

	r.broadcastUserCount()
	if m.LoggedIn {
		r.sendAll(EventUserLeave, userLeavePayload{Name: m.Name})
	}

	r.chanlog.InfoContext(ctx, "left", "ip", m.IP, "name", m.Name)
	return nil
}

func (r *Room) PlayerReady(memberID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.member(memberID)
	if err != nil {
		return err
	}

	m.PlayerReady = true
	r.sendMediaUpdate(m.ID)

	return nil
}

// getRank never does I/O: ranks are cached at hydration and on every save.
func (r *Room) getRank(name string) domain.Rank {
	if !r.registered {
		return domain.RankGuest
	}

	rank, ok := r.ranks[name]
	if !ok {
		return domain.RankGuest
	}

	return rank
}

func (r *Room) Promote(ctx context.Context, actorID, targetName string) error {
	return r.changeRank(ctx, actorID, targetName, 1)
}

func (r *Room) Demote(ctx context.Context, actorID, targetName string) error {
	return r.changeRank(ctx, actorID, targetName, -1)
}

func (r *Room) changeRank(ctx context.Context, actorID, targetName string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	actor, err := r.member(actorID)
	if err != nil {
		return err
	}

	if err := r.require(actor, domain.ActionPromote); err != nil {
		return err
	}

	target, err := r.members.GetByName(targetName)
	if err != nil {
		return ErrMemberNotFound
	}

	allowed := domain.CanDemote(actor.Rank, target.Rank)
	if delta > 0 {
		allowed = domain.CanPromote(actor.Rank, target.Rank)
	}
	if !allowed {
		return ErrPermissionDenied
	}

	old := target.Rank
	target.Rank += domain.Rank(delta)
	r.saveRank(target)
	r.chanlog.InfoContext(ctx, "rank changed", "actor", actor.Name, "target", target.Name, "from", old, "to", target.Rank)
	r.broadcastRankUpdate(target)

	return nil
}

// AssignLeader hands playback authority to name, or back to the autolead clock when name is empty.
func (r *Room) AssignLeader(ctx context.Context, actorID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	actor, err := r.member(actorID)
	if err != nil {
		return err
	}

	if err := r.require(actor, domain.ActionAssignLeader); err != nil {
		return err
	}

	var target *domain.Member
	if name != "" {
		target, err = r.members.GetByName(name)
		if err != nil {
			return ErrMemberNotFound
		}
	}

	r.changeLeader(target)
	r.chanlog.InfoContext(ctx, "leader changed", "actor", actor.Name, "leader", name)

	return nil
}

// changeLeader must be called with the lock held. A nil target resumes autolead.
func (r *Room) changeLeader(target *domain.Member) {
	if r.leaderID != "" {
		old, err := r.members.GetByID(r.leaderID)
		r.leaderID = ""
		if err == nil {
			r.broadcastRankUpdate(old)
		}
	}

	if target == nil {
		r.startClock()
		return
	}

	r.leaderID = target.ID
	r.stopClock()
	r.broadcastRankUpdate(target)
}

// Register claims the room for the actor. The outcome is reported to the actor with REGISTER_CHANNEL.
func (r *Room) Register(ctx context.Context, actorID string) error {
	r.mu.Lock()
	actor, err := r.member(actorID)
	if err != nil {
		r.mu.Unlock()
		return err
	}

	var reason string
	switch {
	case r.registered:
		reason = "This channel is already registered"
	case !actor.LoggedIn:
		reason = "You must log in to register a channel"
	case !r.can(actor, domain.ActionRegisterChannel):
		reason = "You don't have permission to register this channel"
	}
	if reason != "" {
		r.sendTo(actorID, EventRegisterChannel, registerChannelPayload{Success: false, Error: reason})
		r.mu.Unlock()
		return nil
	}
	name := actor.Name
	r.mu.Unlock()

	err = r.store.Register(ctx, r.name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil && !errors.Is(err, room.ErrAlreadyRegistered) {
		r.persistFailed(ctx, "register", err)
		r.sendTo(actorID, EventRegisterChannel, registerChannelPayload{Success: false, Error: "Unable to register channel, see an admin"})
		return nil
	}

	if errors.Is(err, room.ErrAlreadyRegistered) {
		r.registered = true
		r.sendTo(actorID, EventRegisterChannel, registerChannelPayload{Success: false, Error: "This channel is already registered"})
		return nil
	}

	r.registered = true
	if actor, err := r.member(actorID); err == nil {
		r.saveRank(actor)
	}
	r.sendTo(actorID, EventRegisterChannel, registerChannelPayload{Success: true})
	r.chanlog.InfoContext(ctx, "registered", "name", name)

	return nil
}

// NameInUse reports whether a logged in member already holds name.
func (r *Room) NameInUse(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.members.GetByName(name)
	return err == nil
}
