package room

import (
	"github.com/sharetube/syncroom/internal/domain"
)

const (
	EventUserCount            = "USER_COUNT"
	EventPlaylist             = "PLAYLIST"
	EventPlaylistIndex        = "PLAYLIST_INDEX"
	EventQueueLock            = "QUEUE_LOCK"
	EventUserList             = "USER_LIST"
	EventChatMessage          = "CHAT_MESSAGE"
	EventNewPoll              = "NEW_POLL"
	EventUpdatePoll           = "UPDATE_POLL"
	EventClosePoll            = "CLOSE_POLL"
	EventChannelOpts          = "CHANNEL_OPTS"
	EventMotd                 = "MOTD"
	EventMediaUpdate          = "MEDIA_UPDATE"
	EventQueue                = "QUEUE"
	EventUnqueue              = "UNQUEUE"
	EventMoveMedia            = "MOVE_MEDIA"
	EventAddUser              = "ADD_USER"
	EventUpdateUser           = "UPDATE_USER"
	EventUserLeave            = "USER_LEAVE"
	EventRank                 = "RANK"
	EventBanList              = "BAN_LIST"
	EventChatFilters          = "CHAT_FILTERS"
	EventLogin                = "LOGIN"
	EventChannelNotRegistered = "CHANNEL_NOT_REGISTERED"
	EventRegisterChannel      = "REGISTER_CHANNEL"
	EventLibrarySearchResults = "LIBRARY_SEARCH_RESULTS"
	EventVoteskip             = "VOTESKIP"
)

type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type userCountPayload struct {
	Count int `json:"count"`
}

type playlistPayload struct {
	Playlist []domain.Media `json:"playlist"`
}

type playlistIndexPayload struct {
	Old int `json:"old"`
	Idx int `json:"idx"`
}

type queueLockPayload struct {
	Locked bool `json:"locked"`
}

type queuePayload struct {
	Media domain.Media `json:"media"`
	Pos   int          `json:"pos"`
}

type unqueuePayload struct {
	Pos int `json:"pos"`
}

type moveMediaPayload struct {
	Src  int `json:"src"`
	Dest int `json:"dest"`
}

type userLeavePayload struct {
	Name string `json:"name"`
}

type rankPayload struct {
	Rank domain.Rank `json:"rank"`
}

type loginPayload struct {
	Success bool   `json:"success"`
	Name    string `json:"name,omitempty"`
	Error   string `json:"error,omitempty"`
}

type registerChannelPayload struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type librarySearchPayload struct {
	Results []domain.Media `json:"results"`
}

type voteskipPayload struct {
	Count int `json:"count"`
	Need  int `json:"need"`
}

// Payloads are built from copies so the write pumps never read state guarded by the room lock.

func (r *Room) sendTo(memberID, event string, payload any) {
	r.sender.Send(memberID, &Message{Type: event, Payload: payload})
}

func (r *Room) sendAll(event string, payload any) {
	msg := &Message{Type: event, Payload: payload}
	for _, m := range r.members.AsList() {
		r.sender.Send(m.ID, msg)
	}
}

// sendPermitted delivers only to members whose rank allows action.
func (r *Room) sendPermitted(action domain.Action, event string, payload any) {
	msg := &Message{Type: event, Payload: payload}
	for _, m := range r.members.AsList() {
		if r.can(m, action) {
			r.sender.Send(m.ID, msg)
		}
	}
}

func (r *Room) playlistValue() []domain.Media {
	items := r.playlist.Items()
	values := make([]domain.Media, 0, len(items))
	for _, m := range items {
		values = append(values, *m)
	}
	return values
}

func (r *Room) userList() []domain.UserInfo {
	users := make([]domain.UserInfo, 0, r.members.Length())
	for _, m := range r.members.AsList() {
		if m.LoggedIn {
			users = append(users, r.userInfo(m))
		}
	}
	return users
}

func (r *Room) sendPlaylist(memberID string) {
	r.sendTo(memberID, EventPlaylist, playlistPayload{Playlist: r.playlistValue()})
	r.sendTo(memberID, EventPlaylistIndex, playlistIndexPayload{Old: r.playlist.Position(), Idx: r.playlist.Position()})
}

func (r *Room) sendMediaUpdate(memberID string) {
	if cur := r.playlist.Current(); cur != nil {
		r.sendTo(memberID, EventMediaUpdate, *cur)
	}
}

func (r *Room) broadcastUserCount() {
	r.sendAll(EventUserCount, userCountPayload{Count: r.members.Length()})
}

func (r *Room) broadcastBanList() {
	r.sendPermitted(domain.ActionIPBan, EventBanList, r.bans.Entries())
}

func (r *Room) broadcastChatFilters() {
	r.sendPermitted(domain.ActionChatFilter, EventChatFilters, r.filters.Data())
}

// handleRankChange sends m its rank and the lists its rank entitles it to see.
func (r *Room) handleRankChange(m *domain.Member) {
	r.sendTo(m.ID, EventRank, rankPayload{Rank: m.Rank})
	if r.can(m, domain.ActionIPBan) {
		r.sendTo(m.ID, EventBanList, r.bans.Entries())
	}
	if r.can(m, domain.ActionChatFilter) {
		r.sendTo(m.ID, EventChatFilters, r.filters.Data())
	}
}

func (r *Room) broadcastRankUpdate(m *domain.Member) {
	if m.LoggedIn {
		r.sendAll(EventUpdateUser, r.userInfo(m))
	}
	r.handleRankChange(m)
}
