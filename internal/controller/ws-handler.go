package controller

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/sharetube/syncroom/internal/domain"
	"github.com/sharetube/syncroom/internal/service/room"
	"github.com/sharetube/syncroom/pkg/validator"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type EmptyInput struct{}

func (c controller) validateInput(input any) error {
	if errs, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("%w: %w", ErrValidationError, validator.Error(errs))
	}
	return nil
}

func (c controller) handleAlive(_ context.Context, _ *websocket.Conn, _ EmptyInput) error {
	return nil
}

type ChatMsgInput struct {
	Msg string `json:"msg" validate:"required,max=240"`
}

func (c controller) handleChatMsg(ctx context.Context, _ *websocket.Conn, input ChatMsgInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.getRoomFromCtx(ctx).Chat(ctx, c.getMemberIDFromCtx(ctx), input.Msg); err != nil {
		return fmt.Errorf("failed to send chat message: %w", err)
	}

	return nil
}

type QueueInput struct {
	ID   string           `json:"id" validate:"required,max=100"`
	Type domain.MediaType `json:"type" validate:"required"`
	Pos  string           `json:"pos" validate:"required,oneof=next end"`
}

func (c controller) handleQueue(ctx context.Context, _ *websocket.Conn, input QueueInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.getRoomFromCtx(ctx).Enqueue(ctx, &room.EnqueueParams{
		MemberID: c.getMemberIDFromCtx(ctx),
		ID:       input.ID,
		Type:     input.Type,
		Pos:      input.Pos,
	}); err != nil {
		return fmt.Errorf("failed to queue media: %w", err)
	}

	return nil
}

type PosInput struct {
	Pos int `json:"pos"`
}

func (c controller) handleUnqueue(ctx context.Context, _ *websocket.Conn, input PosInput) error {
	if err := c.getRoomFromCtx(ctx).Unqueue(c.getMemberIDFromCtx(ctx), input.Pos); err != nil {
		return fmt.Errorf("failed to unqueue media: %w", err)
	}

	return nil
}

func (c controller) handleJumpTo(ctx context.Context, _ *websocket.Conn, input PosInput) error {
	if err := c.getRoomFromCtx(ctx).JumpTo(c.getMemberIDFromCtx(ctx), input.Pos); err != nil {
		return fmt.Errorf("failed to jump: %w", err)
	}

	return nil
}

type MoveMediaInput struct {
	Src  int `json:"src"`
	Dest int `json:"dest"`
}

func (c controller) handleMoveMedia(ctx context.Context, _ *websocket.Conn, input MoveMediaInput) error {
	if err := c.getRoomFromCtx(ctx).Move(c.getMemberIDFromCtx(ctx), input.Src, input.Dest); err != nil {
		return fmt.Errorf("failed to move media: %w", err)
	}

	return nil
}

func (c controller) handlePlayNext(ctx context.Context, _ *websocket.Conn, _ EmptyInput) error {
	if err := c.getRoomFromCtx(ctx).PlayNext(c.getMemberIDFromCtx(ctx)); err != nil {
		return fmt.Errorf("failed to play next: %w", err)
	}

	return nil
}

type QueueLockInput struct {
	Locked bool `json:"locked"`
}

func (c controller) handleQueueLock(ctx context.Context, _ *websocket.Conn, input QueueLockInput) error {
	if err := c.getRoomFromCtx(ctx).SetLock(c.getMemberIDFromCtx(ctx), input.Locked); err != nil {
		return fmt.Errorf("failed to set queue lock: %w", err)
	}

	return nil
}

type UpdateInput struct {
	CurrentTime float64 `json:"currentTime" validate:"gte=0"`
}

func (c controller) handleUpdate(ctx context.Context, _ *websocket.Conn, input UpdateInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	return c.getRoomFromCtx(ctx).LeaderUpdate(c.getMemberIDFromCtx(ctx), input.CurrentTime)
}

func (c controller) handlePlayerReady(ctx context.Context, _ *websocket.Conn, _ EmptyInput) error {
	return c.getRoomFromCtx(ctx).PlayerReady(c.getMemberIDFromCtx(ctx))
}

type AssignLeaderInput struct {
	Name string `json:"name" validate:"max=20"`
}

func (c controller) handleAssignLeader(ctx context.Context, _ *websocket.Conn, input AssignLeaderInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.getRoomFromCtx(ctx).AssignLeader(ctx, c.getMemberIDFromCtx(ctx), input.Name); err != nil {
		return fmt.Errorf("failed to assign leader: %w", err)
	}

	return nil
}

type NameInput struct {
	Name string `json:"name" validate:"required,max=20"`
}

func (c controller) handlePromote(ctx context.Context, _ *websocket.Conn, input NameInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.getRoomFromCtx(ctx).Promote(ctx, c.getMemberIDFromCtx(ctx), input.Name); err != nil {
		return fmt.Errorf("failed to promote: %w", err)
	}

	return nil
}

func (c controller) handleDemote(ctx context.Context, _ *websocket.Conn, input NameInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.getRoomFromCtx(ctx).Demote(ctx, c.getMemberIDFromCtx(ctx), input.Name); err != nil {
		return fmt.Errorf("failed to demote: %w", err)
	}

	return nil
}

func (c controller) handleBan(ctx context.Context, _ *websocket.Conn, input NameInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.getRoomFromCtx(ctx).Ban(ctx, c.getMemberIDFromCtx(ctx), input.Name); err != nil {
		return fmt.Errorf("failed to ban: %w", err)
	}

	return nil
}

type UnbanInput struct {
	IP string `json:"ip" validate:"required,ip"`
}

func (c controller) handleUnban(ctx context.Context, _ *websocket.Conn, input UnbanInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.getRoomFromCtx(ctx).Unban(ctx, c.getMemberIDFromCtx(ctx), input.IP); err != nil {
		return fmt.Errorf("failed to unban: %w", err)
	}

	return nil
}

type KickInput struct {
	Name   string `json:"name" validate:"required,max=20"`
	Reason string `json:"reason" validate:"max=100"`
}

func (c controller) handleKick(ctx context.Context, _ *websocket.Conn, input KickInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.getRoomFromCtx(ctx).Kick(ctx, c.getMemberIDFromCtx(ctx), input.Name, input.Reason); err != nil {
		return fmt.Errorf("failed to kick: %w", err)
	}

	return nil
}

type UpdateFilterInput struct {
	Source      string `json:"source" validate:"required,max=200"`
	Replacement string `json:"replacement" validate:"max=200"`
	Enabled     bool   `json:"enabled"`
}

func (c controller) handleUpdateFilter(ctx context.Context, _ *websocket.Conn, input UpdateFilterInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.getRoomFromCtx(ctx).UpdateFilter(c.getMemberIDFromCtx(ctx), domain.ChatFilterData{
		Source:      input.Source,
		Replacement: input.Replacement,
		Enabled:     input.Enabled,
	}); err != nil {
		return fmt.Errorf("failed to update filter: %w", err)
	}

	return nil
}

type RemoveFilterInput struct {
	Source string `json:"source" validate:"required"`
}

func (c controller) handleRemoveFilter(ctx context.Context, _ *websocket.Conn, input RemoveFilterInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.getRoomFromCtx(ctx).RemoveFilter(c.getMemberIDFromCtx(ctx), input.Source); err != nil {
		return fmt.Errorf("failed to remove filter: %w", err)
	}

	return nil
}

func (c controller) handleChannelOpts(ctx context.Context, _ *websocket.Conn, input domain.Options) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.getRoomFromCtx(ctx).SetOptions(c.getMemberIDFromCtx(ctx), input); err != nil {
		return fmt.Errorf("failed to set options: %w", err)
	}

	return nil
}

type MotdInput struct {
	Motd string `json:"motd" validate:"max=1024"`
}

func (c controller) handleUpdateMotd(ctx context.Context, _ *websocket.Conn, input MotdInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.getRoomFromCtx(ctx).SetMotd(c.getMemberIDFromCtx(ctx), input.Motd); err != nil {
		return fmt.Errorf("failed to update motd: %w", err)
	}

	return nil
}

func (c controller) handleVoteskip(ctx context.Context, _ *websocket.Conn, _ EmptyInput) error {
	if err := c.getRoomFromCtx(ctx).Voteskip(c.getMemberIDFromCtx(ctx)); err != nil {
		return fmt.Errorf("failed to voteskip: %w", err)
	}

	return nil
}

type OpenPollInput struct {
	Title   string   `json:"title" validate:"required,max=100"`
	Options []string `json:"options" validate:"required,min=1,max=10,dive,required,max=100"`
}

func (c controller) handleOpenPoll(ctx context.Context, _ *websocket.Conn, input OpenPollInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.getRoomFromCtx(ctx).OpenPoll(c.getMemberIDFromCtx(ctx), input.Title, input.Options); err != nil {
		return fmt.Errorf("failed to open poll: %w", err)
	}

	return nil
}

func (c controller) handleClosePoll(ctx context.Context, _ *websocket.Conn, _ EmptyInput) error {
	if err := c.getRoomFromCtx(ctx).ClosePoll(c.getMemberIDFromCtx(ctx)); err != nil {
		return fmt.Errorf("failed to close poll: %w", err)
	}

	return nil
}

type VoteInput struct {
	Option int `json:"option" validate:"gte=0"`
}

func (c controller) handleVote(ctx context.Context, _ *websocket.Conn, input VoteInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.getRoomFromCtx(ctx).Vote(c.getMemberIDFromCtx(ctx), input.Option); err != nil {
		return fmt.Errorf("failed to vote: %w", err)
	}

	return nil
}

type SearchLibraryInput struct {
	Query string `json:"query" validate:"max=100"`
}

func (c controller) handleSearchLibrary(ctx context.Context, _ *websocket.Conn, input SearchLibraryInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	return c.getRoomFromCtx(ctx).SearchLibrary(c.getMemberIDFromCtx(ctx), input.Query)
}

func (c controller) handleRegisterChannel(ctx context.Context, _ *websocket.Conn, _ EmptyInput) error {
	return c.getRoomFromCtx(ctx).Register(ctx, c.getMemberIDFromCtx(ctx))
}

// handleError reports a failed message to its sender only.
func (c controller) handleError(ctx context.Context, _ *websocket.Conn, err error) {
	c.logger.InfoContext(ctx, "failed to handle message", "error", err)

	if sendErr := c.connRepo.Send(c.getMemberIDFromCtx(ctx), &Output{
		Type:    "ERROR",
		Payload: errorPayload{Message: err.Error()},
	}); sendErr != nil {
		c.logger.InfoContext(ctx, "failed to send error", "error", sendErr)
	}
}
