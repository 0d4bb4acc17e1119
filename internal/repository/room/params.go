package room

type SaveDumpParams struct {
	RoomName string
	Data     []byte
}

type AddToLibraryParams struct {
	RoomName string
	Media    LibraryEntry
}

type SetRankParams struct {
	RoomName string
	Name     string
	Rank     int
}

type SetBanParams struct {
	RoomName string
	Ban      BanRecord
}

type RemoveBanParams struct {
	RoomName string
	IP       string
}
