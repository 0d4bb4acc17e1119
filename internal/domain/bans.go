package domain

import (
	"slices"

	"golang.org/x/exp/maps"
)

type Ban struct {
	Name   string `json:"name"`
	Banner string `json:"banner"`
}

type BanEntry struct {
	IP     string `json:"ip"`
	Name   string `json:"name"`
	Banner string `json:"banner"`
}

// BanList is keyed by IP.
type BanList map[string]Ban

func (b BanList) IsBanned(ip string) bool {
	_, ok := b[ip]
	return ok
}

func (b BanList) Add(ip string, ban Ban) {
	b[ip] = ban
}

func (b BanList) Remove(ip string) bool {
	if _, ok := b[ip]; !ok {
		return false
	}
	delete(b, ip)
	return true
}

// Entries lists bans ordered by IP.
func (b BanList) Entries() []BanEntry {
	ips := maps.Keys(b)
	slices.Sort(ips)

	entries := make([]BanEntry, 0, len(ips))
	for _, ip := range ips {
		entries = append(entries, BanEntry{IP: ip, Name: b[ip].Name, Banner: b[ip].Banner})
	}

	return entries
}
