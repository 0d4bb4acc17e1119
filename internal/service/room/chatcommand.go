package room

import (
	"context"
	"strings"

	"github.com/sharetube/syncroom/internal/domain"
)

// handleCommand must be called with the lock held. Unknown commands are ignored.
func (r *Room) handleCommand(ctx context.Context, m *domain.Member, msg string) error {
	name, args, _ := strings.Cut(strings.TrimPrefix(msg, "/"), " ")
	args = strings.TrimSpace(args)

	switch name {
	case "me":
		r.sendMessage(ctx, m.Name, args, domain.MsgClassAction)
	case "sp":
		r.sendMessage(ctx, m.Name, args, domain.MsgClassSpoiler)
	case "kick":
		target, reason, _ := strings.Cut(args, " ")
		return r.kick(ctx, m, target, strings.TrimSpace(reason))
	case "ban":
		target, _, _ := strings.Cut(args, " ")
		return r.ban(ctx, m, target)
	case "poll":
		parts := strings.Split(args, ",")
		if len(parts) < 2 {
			return nil
		}
		options := make([]string, 0, len(parts)-1)
		for _, opt := range parts[1:] {
			if opt = strings.TrimSpace(opt); opt != "" {
				options = append(options, opt)
			}
		}
		return r.openPoll(m, strings.TrimSpace(parts[0]), options)
	}

	return nil
}
