package domain

type Playlist struct {
	items []*Media
	pos   int
}

func NewPlaylist() *Playlist {
	return &Playlist{pos: -1}
}

func (p *Playlist) Len() int {
	return len(p.items)
}

func (p *Playlist) Position() int {
	return p.pos
}

// Current is always items[pos], or nil when nothing is playing.
func (p *Playlist) Current() *Media {
	if p.pos < 0 || p.pos >= len(p.items) {
		return nil
	}
	return p.items[p.pos]
}

func (p *Playlist) At(i int) *Media {
	if i < 0 || i >= len(p.items) {
		return nil
	}
	return p.items[i]
}

func (p *Playlist) Items() []*Media {
	items := make([]*Media, len(p.items))
	copy(items, p.items)
	return items
}

// Insert splices media in at idx, clamped to [0, Len()], and returns the index used.
// Inserting at or before the cursor shifts it so Current is unchanged.
func (p *Playlist) Insert(idx int, media ...*Media) int {
	idx = max(0, min(idx, len(p.items)))
	if len(media) == 0 {
		return idx
	}

	tail := append([]*Media{}, p.items[idx:]...)
	p.items = append(append(p.items[:idx], media...), tail...)
	if p.pos >= 0 && idx <= p.pos {
		p.pos += len(media)
	}

	return idx
}

// Remove deletes the item at idx. When the current item is removed the cursor steps back one,
// so a following Advance lands on the item that slid into its slot.
func (p *Playlist) Remove(idx int) (wasCurrent bool, ok bool) {
	if idx < 0 || idx >= len(p.items) {
		return false, false
	}

	p.items = append(p.items[:idx], p.items[idx+1:]...)
	wasCurrent = idx == p.pos
	if idx <= p.pos {
		p.pos--
	}

	return wasCurrent, true
}

// Move relocates the item at src so it ends up at dest, where dest may equal Len() to mean the end.
func (p *Playlist) Move(src, dest int) bool {
	n := len(p.items)
	if src < 0 || src >= n || dest < 0 || dest > n {
		return false
	}

	media := p.items[src]
	final := dest
	if dest > src {
		final = min(dest, n-1)
	}

	p.items = append(p.items[:src], p.items[src+1:]...)
	p.items = append(p.items[:final], append([]*Media{media}, p.items[final:]...)...)

	switch {
	case src == p.pos:
		p.pos = final
	case src < p.pos && dest >= p.pos:
		p.pos--
	case src > p.pos && dest <= p.pos:
		p.pos++
	}

	return true
}

// Advance moves the cursor forward one, wrapping to the start, and resets the new current item.
func (p *Playlist) Advance() (old int, ok bool) {
	if len(p.items) == 0 {
		return p.pos, false
	}

	old = p.pos
	p.pos++
	if p.pos >= len(p.items) {
		p.pos = 0
	}
	p.items[p.pos].CurrentTime = 0

	return old, true
}

func (p *Playlist) JumpTo(pos int) (old int, ok bool) {
	if pos < 0 || pos >= len(p.items) {
		return p.pos, false
	}

	old = p.pos
	p.pos = pos
	p.items[p.pos].CurrentTime = 0

	return old, true
}

// SetPosition places the cursor without touching playback state. Out of range values clamp to [-1, Len()-1].
func (p *Playlist) SetPosition(pos int) {
	p.pos = max(-1, min(pos, len(p.items)-1))
}
