package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlaylist(ids ...string) *Playlist {
	p := NewPlaylist()
	for _, id := range ids {
		p.Insert(p.Len(), NewMedia(id, id, 60, MediaTypeYouTube))
	}
	return p
}

func ids(p *Playlist) []string {
	out := make([]string, 0, p.Len())
	for _, m := range p.Items() {
		out = append(out, m.ID)
	}
	return out
}

func TestPlaylistRemoveKeepsCurrent(t *testing.T) {
	for pos := 0; pos < 4; pos++ {
		for cur := 0; cur < 4; cur++ {
			p := newTestPlaylist("A", "B", "C", "D")
			p.SetPosition(cur)
			current := p.Current()

			wasCurrent, ok := p.Remove(pos)
			require.True(t, ok)
			assert.Equal(t, 3, p.Len())
			assert.Equal(t, pos == cur, wasCurrent)
			if pos != cur {
				assert.Same(t, current, p.Current(), "remove %d with cursor %d", pos, cur)
			}
		}
	}
}

func TestPlaylistRemoveOutOfRange(t *testing.T) {
	p := newTestPlaylist("A", "B")
	p.SetPosition(1)

	_, ok := p.Remove(2)
	assert.False(t, ok)
	_, ok = p.Remove(-1)
	assert.False(t, ok)
	assert.Equal(t, []string{"A", "B"}, ids(p))
	assert.Equal(t, 1, p.Position())
}

func TestPlaylistRemoveCurrentThenAdvance(t *testing.T) {
	p := newTestPlaylist("A", "B", "C")
	p.SetPosition(1)

	wasCurrent, ok := p.Remove(1)
	require.True(t, ok)
	require.True(t, wasCurrent)
	_, ok = p.Advance()
	require.True(t, ok)
	assert.Equal(t, "C", p.Current().ID)

	p = newTestPlaylist("A", "B", "C")
	p.SetPosition(2)
	p.Remove(2)
	p.Advance()
	assert.Equal(t, "A", p.Current().ID)
}

func TestPlaylistMove(t *testing.T) {
	p := newTestPlaylist("A", "B", "C", "D")
	require.True(t, p.Move(0, 2))
	assert.Equal(t, []string{"B", "C", "A", "D"}, ids(p))

	p = newTestPlaylist("A", "B", "C", "D")
	require.True(t, p.Move(3, 0))
	assert.Equal(t, []string{"D", "A", "B", "C"}, ids(p))

	p = newTestPlaylist("A", "B", "C", "D")
	require.True(t, p.Move(0, 4))
	assert.Equal(t, []string{"B", "C", "D", "A"}, ids(p))

	p = newTestPlaylist("A", "B", "C", "D")
	require.True(t, p.Move(1, 1))
	assert.Equal(t, []string{"A", "B", "C", "D"}, ids(p))

	assert.False(t, p.Move(4, 0))
	assert.False(t, p.Move(0, 5))
	assert.False(t, p.Move(-1, 0))
}

func TestPlaylistMoveIsPermutationAndTracksCursor(t *testing.T) {
	for src := 0; src < 5; src++ {
		for dest := 0; dest <= 5; dest++ {
			for cur := -1; cur < 5; cur++ {
				p := newTestPlaylist("A", "B", "C", "D", "E")
				p.SetPosition(cur)
				current := p.Current()

				require.True(t, p.Move(src, dest))
				assert.ElementsMatch(t, []string{"A", "B", "C", "D", "E"}, ids(p))
				assert.Same(t, current, p.Current(), "move %d->%d with cursor %d", src, dest, cur)
			}
		}
	}
}

func TestPlaylistAdvanceWraps(t *testing.T) {
	p := newTestPlaylist("A", "B", "C")
	p.SetPosition(2)
	p.At(0).CurrentTime = 42

	old, ok := p.Advance()
	require.True(t, ok)
	assert.Equal(t, 2, old)
	assert.Equal(t, 0, p.Position())
	assert.Equal(t, float64(0), p.Current().CurrentTime)

	empty := NewPlaylist()
	_, ok = empty.Advance()
	assert.False(t, ok)
	assert.Equal(t, -1, empty.Position())
	assert.Nil(t, empty.Current())
}

func TestPlaylistJumpTo(t *testing.T) {
	p := newTestPlaylist("A", "B", "C")

	_, ok := p.JumpTo(3)
	assert.False(t, ok)

	old, ok := p.JumpTo(1)
	require.True(t, ok)
	assert.Equal(t, -1, old)
	assert.Equal(t, "B", p.Current().ID)
}

func TestPlaylistInsert(t *testing.T) {
	p := newTestPlaylist("A", "B")
	p.SetPosition(0)

	idx := p.Insert(1, NewMedia("X", "X", 1, MediaTypeYouTube), NewMedia("Y", "Y", 1, MediaTypeYouTube))
	assert.Equal(t, 1, idx)
	assert.Equal(t, []string{"A", "X", "Y", "B"}, ids(p))
	assert.Equal(t, "A", p.Current().ID)

	idx = p.Insert(99, NewMedia("Z", "Z", 1, MediaTypeYouTube))
	assert.Equal(t, 4, idx)

	p.Insert(0, NewMedia("W", "W", 1, MediaTypeYouTube))
	assert.Equal(t, "A", p.Current().ID)
	assert.Equal(t, 1, p.Position())
}

func TestPlaylistDuplicatesAreIndependent(t *testing.T) {
	m := NewMedia("A", "A", 10, MediaTypeYouTube)
	p := NewPlaylist()
	p.Insert(0, m.Clone())
	p.Insert(1, m.Clone())

	p.At(0).CurrentTime = 5
	assert.Equal(t, float64(0), p.At(1).CurrentTime)
}
