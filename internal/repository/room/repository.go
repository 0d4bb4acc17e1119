package room

import "context"

type LibraryEntry struct {
	ID      string `redis:"id" db:"id"`
	Title   string `redis:"title" db:"title"`
	Seconds int    `redis:"seconds" db:"seconds"`
	Type    string `redis:"type" db:"type"`
}

type BanRecord struct {
	IP     string `redis:"ip" db:"ip"`
	Name   string `redis:"name" db:"name"`
	Banner string `redis:"banner" db:"banner"`
}

// Store persists per-room state. Room names are used verbatim as keys.
type Store interface {
	IsRegistered(ctx context.Context, roomName string) (bool, error)
	Register(ctx context.Context, roomName string) error

	LoadDump(ctx context.Context, roomName string) ([]byte, error)
	SaveDump(ctx context.Context, params *SaveDumpParams) error

	LoadLibrary(ctx context.Context, roomName string) ([]LibraryEntry, error)
	AddToLibrary(ctx context.Context, params *AddToLibraryParams) error

	LoadRanks(ctx context.Context, roomName string) (map[string]int, error)
	SetRank(ctx context.Context, params *SetRankParams) error

	LoadBans(ctx context.Context, roomName string) ([]BanRecord, error)
	SetBan(ctx context.Context, params *SetBanParams) error
	RemoveBan(ctx context.Context, params *RemoveBanParams) error
}
