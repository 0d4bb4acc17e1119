package room

import (
	"context"

	"github.com/sharetube/syncroom/internal/domain"
	"github.com/sharetube/syncroom/internal/repository/room"
)

const kickedReason = "Kicked"

func (r *Room) Ban(ctx context.Context, actorID, targetName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	actor, err := r.member(actorID)
	if err != nil {
		return err
	}

	return r.ban(ctx, actor, targetName)
}

// ban must be called with the lock held.
func (r *Room) ban(ctx context.Context, actor *domain.Member, targetName string) error {
	if err := r.require(actor, domain.ActionIPBan); err != nil {
		return err
	}

	target, err := r.members.GetByName(targetName)
	if err != nil {
		return ErrMemberNotFound
	}

	if actor.Rank <= target.Rank {
		return ErrPermissionDenied
	}

	ban := domain.Ban{Name: target.Name, Banner: actor.Name}
	r.bans.Add(target.IP, ban)
	r.sender.Disconnect(target.ID, bannedReason)
	r.broadcastBanList()
	r.chanlog.InfoContext(ctx, "banned", "ip", target.IP, "name", target.Name, "banner", actor.Name)

	if r.registered {
		record := room.BanRecord{IP: target.IP, Name: ban.Name, Banner: ban.Banner}
		r.persistAsync("set_ban", func(ctx context.Context) error {
			return r.store.SetBan(ctx, &room.SetBanParams{RoomName: r.name, Ban: record})
		})
	}

	return nil
}

func (r *Room) Unban(ctx context.Context, actorID, ip string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	actor, err := r.member(actorID)
	if err != nil {
		return err
	}

	if err := r.require(actor, domain.ActionIPBan); err != nil {
		return err
	}

	if !r.bans.Remove(ip) {
		return nil
	}
	r.broadcastBanList()
	r.chanlog.InfoContext(ctx, "unbanned", "ip", ip, "actor", actor.Name)

	if r.registered {
		r.persistAsync("remove_ban", func(ctx context.Context) error {
			return r.store.RemoveBan(ctx, &room.RemoveBanParams{RoomName: r.name, IP: ip})
		})
	}

	return nil
}

func (r *Room) Kick(ctx context.Context, actorID, targetName, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	actor, err := r.member(actorID)
	if err != nil {
		return err
	}

	return r.kick(ctx, actor, targetName, reason)
}

func (r *Room) kick(ctx context.Context, actor *domain.Member, targetName, reason string) error {
	if err := r.require(actor, domain.ActionKick); err != nil {
		return err
	}

	target, err := r.members.GetByName(targetName)
	if err != nil {
		return ErrMemberNotFound
	}

	if actor.Rank <= target.Rank {
		return ErrPermissionDenied
	}

	if reason == "" {
		reason = kickedReason
	}
	r.sender.Disconnect(target.ID, reason)
	r.chanlog.InfoContext(ctx, "kicked", "name", target.Name, "actor", actor.Name, "reason", reason)

	return nil
}
