package domain

type Rank int

const (
	RankGuest     Rank = 0
	RankMember    Rank = 1
	RankModerator Rank = 4
	RankOwner     Rank = 8
	RankSiteadmin Rank = 255

	// BootstrapRank is granted in memory to the first joiner of an empty unregistered room.
	BootstrapRank = RankOwner + 7
)

type Action string

const (
	ActionQueue           Action = "queue"
	ActionQueueLock       Action = "qlock"
	ActionAssignLeader    Action = "assignLeader"
	ActionPromote         Action = "promote"
	ActionKick            Action = "kick"
	ActionIPBan           Action = "ipban"
	ActionChatFilter      Action = "chatFilter"
	ActionUpdateMotd      Action = "updateMotd"
	ActionChannelOpts     Action = "channelOpts"
	ActionVoteskip        Action = "voteskip"
	ActionPoll            Action = "poll"
	ActionSearchLibrary   Action = "search"
	ActionRegisterChannel Action = "registerChannel"
)

// PermissionTable maps an action to the minimum rank allowed to perform it.
type PermissionTable map[Action]Rank

func DefaultPermissions() PermissionTable {
	return PermissionTable{
		ActionQueue:           RankModerator,
		ActionQueueLock:       RankModerator,
		ActionAssignLeader:    RankModerator,
		ActionPromote:         RankModerator,
		ActionKick:            RankModerator,
		ActionIPBan:           RankModerator,
		ActionChatFilter:      RankModerator,
		ActionUpdateMotd:      RankModerator,
		ActionChannelOpts:     RankModerator,
		ActionVoteskip:        RankGuest,
		ActionPoll:            RankModerator,
		ActionSearchLibrary:   RankGuest,
		ActionRegisterChannel: RankOwner,
	}
}

// HasPermission is false for actions missing from the table.
func (t PermissionTable) HasPermission(rank Rank, action Action) bool {
	required, ok := t[action]
	if !ok {
		return false
	}
	return rank >= required
}

// CanPromote requires two steps of superiority so a promoted member never reaches parity with the promoter.
func CanPromote(actor, target Rank) bool {
	return actor > target+1
}

func CanDemote(actor, target Rank) bool {
	return actor > target
}
