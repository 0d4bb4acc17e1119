package room

import (
	"context"

	"github.com/sharetube/syncroom/internal/domain"
)

// Chat broadcasts msg from a logged in member, or runs it as a command when it starts with a slash.
func (r *Room) Chat(ctx context.Context, memberID, msg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.member(memberID)
	if err != nil {
		return err
	}

	if !m.LoggedIn {
		return ErrNotLoggedIn
	}

	msgClass, isCommand := domain.ClassifyMessage(msg)
	if isCommand {
		return r.handleCommand(ctx, m, msg)
	}

	r.sendMessage(ctx, m.Name, msg, msgClass)
	return nil
}

// sendMessage must be called with the lock held.
func (r *Room) sendMessage(ctx context.Context, username, msg, msgClass string) {
	chatMsg := domain.ChatMessage{
		Username: username,
		Msg:      domain.SanitizeMessage(msg, r.filters),
		MsgClass: msgClass,
	}

	r.sendAll(EventChatMessage, chatMsg)
	r.recentChat.Push(chatMsg)
	chatMessages.Inc()
	r.chanlog.InfoContext(ctx, "chat", "user", username, "class", msgClass, "msg", chatMsg.Msg)
}

func (r *Room) UpdateFilter(actorID string, data domain.ChatFilterData) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	actor, err := r.member(actorID)
	if err != nil {
		return err
	}

	if err := r.require(actor, domain.ActionChatFilter); err != nil {
		return err
	}

	f, err := domain.NewChatFilter(data)
	if err != nil {
		return err
	}

	r.filters.Update(f)
	r.broadcastChatFilters()
	r.markDirty()

	return nil
}

func (r *Room) RemoveFilter(actorID, source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	actor, err := r.member(actorID)
	if err != nil {
		return err
	}

	if err := r.require(actor, domain.ActionChatFilter); err != nil {
		return err
	}

	r.filters.Remove(source)
	r.broadcastChatFilters()
	r.markDirty()

	return nil
}

// SetOptions replaces the options as a unit.
func (r *Room) SetOptions(actorID string, opts domain.Options) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	actor, err := r.member(actorID)
	if err != nil {
		return err
	}

	if err := r.require(actor, domain.ActionChannelOpts); err != nil {
		return err
	}

	r.opts = opts
	r.sendAll(EventChannelOpts, r.opts)
	r.markDirty()

	return nil
}

func (r *Room) SetMotd(actorID, motd string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	actor, err := r.member(actorID)
	if err != nil {
		return err
	}

	if err := r.require(actor, domain.ActionUpdateMotd); err != nil {
		return err
	}

	r.motd = domain.NewMotd(motd)
	r.sendAll(EventMotd, r.motd)
	r.markDirty()

	return nil
}
