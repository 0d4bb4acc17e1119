package controller

import (
	"github.com/sharetube/syncroom/pkg/wsrouter"
)

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()
	mux.Use(c.wsRequestIDMw(), c.wsLoggerMw())
	mux.OnError(c.handleError)

	wsrouter.Handle(mux, "ALIVE", c.handleAlive)

	// chat
	wsrouter.Handle(mux, "CHAT_MSG", c.handleChatMsg)
	wsrouter.Handle(mux, "UPDATE_FILTER", c.handleUpdateFilter)
	wsrouter.Handle(mux, "REMOVE_FILTER", c.handleRemoveFilter)
	wsrouter.Handle(mux, "UPDATE_MOTD", c.handleUpdateMotd)
	wsrouter.Handle(mux, "CHANNEL_OPTS", c.handleChannelOpts)

	// playlist
	wsrouter.Handle(mux, "QUEUE", c.handleQueue)
	wsrouter.Handle(mux, "UNQUEUE", c.handleUnqueue)
	wsrouter.Handle(mux, "MOVE_MEDIA", c.handleMoveMedia)
	wsrouter.Handle(mux, "PLAY_NEXT", c.handlePlayNext)
	wsrouter.Handle(mux, "JUMP_TO", c.handleJumpTo)
	wsrouter.Handle(mux, "QUEUE_LOCK", c.handleQueueLock)
	wsrouter.Handle(mux, "SEARCH_LIBRARY", c.handleSearchLibrary)

	// player
	wsrouter.Handle(mux, "UPDATE", c.handleUpdate)
	wsrouter.Handle(mux, "PLAYER_READY", c.handlePlayerReady)
	wsrouter.Handle(mux, "ASSIGN_LEADER", c.handleAssignLeader)

	// members
	wsrouter.Handle(mux, "PROMOTE", c.handlePromote)
	wsrouter.Handle(mux, "DEMOTE", c.handleDemote)
	wsrouter.Handle(mux, "BAN", c.handleBan)
	wsrouter.Handle(mux, "UNBAN", c.handleUnban)
	wsrouter.Handle(mux, "KICK", c.handleKick)
	wsrouter.Handle(mux, "REGISTER_CHANNEL", c.handleRegisterChannel)

	// polls
	wsrouter.Handle(mux, "VOTESKIP", c.handleVoteskip)
	wsrouter.Handle(mux, "OPEN_POLL", c.handleOpenPoll)
	wsrouter.Handle(mux, "CLOSE_POLL", c.handleClosePoll)
	wsrouter.Handle(mux, "VOTE", c.handleVote)

	return mux
}
