package domain

import (
	"errors"
)

var (
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("member already exists")
)

type Member struct {
	ID          string
	Name        string
	IP          string
	Rank        Rank
	LoggedIn    bool
	PlayerReady bool
}

// UserInfo is the public view of a member sent in user lists and presence updates.
type UserInfo struct {
	Name   string `json:"name"`
	Rank   Rank   `json:"rank"`
	Leader bool   `json:"leader"`
}

type Members struct {
	list []*Member
}

func NewMembers() *Members {
	return &Members{}
}

func (m Members) Length() int {
	return len(m.list)
}

func (m Members) AsList() []*Member {
	list := make([]*Member, len(m.list))
	copy(list, m.list)
	return list
}

func (m Members) GetByID(id string) (*Member, error) {
	for _, member := range m.list {
		if member.ID == id {
			return member, nil
		}
	}

	return nil, ErrMemberNotFound
}

// GetByName only matches logged in members. Names are case sensitive.
func (m Members) GetByName(name string) (*Member, error) {
	for _, member := range m.list {
		if member.LoggedIn && member.Name == name {
			return member, nil
		}
	}

	return nil, ErrMemberNotFound
}

func (m *Members) Add(member *Member) error {
	if _, err := m.GetByID(member.ID); err == nil {
		return ErrMemberAlreadyExists
	}

	m.list = append(m.list, member)
	return nil
}

func (m *Members) RemoveByID(id string) (*Member, error) {
	for index, member := range m.list {
		if member.ID == id {
			m.list = append(m.list[:index], m.list[index+1:]...)
			return member, nil
		}
	}

	return nil, ErrMemberNotFound
}
