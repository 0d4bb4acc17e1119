package room

import "time"

// clock is the autolead state. A tick only acts when its generation is current,
// so ticks scheduled for superseded media fall through.
type clock struct {
	timer   *time.Timer
	gen     uint64
	mediaID string
	last    time.Time
	ticks   int
}

// startClock must be called with the lock held.
func (r *Room) startClock() {
	r.stopClock()

	cur := r.playlist.Current()
	if r.closed || cur == nil || r.leaderID != "" || cur.Type.IsLive() {
		return
	}

	r.clock.mediaID = cur.ID
	r.clock.last = r.now()
	r.clock.ticks = 0
	r.schedule(r.clock.gen)
}

func (r *Room) stopClock() {
	if r.clock.timer != nil {
		r.clock.timer.Stop()
		r.clock.timer = nil
	}
	r.clock.gen++
}

func (r *Room) schedule(gen uint64) {
	r.clock.timer = time.AfterFunc(r.tickInterval, func() {
		r.tick(gen)
	})
}

func (r *Room) tick(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.clock.gen || r.closed {
		return
	}

	cur := r.playlist.Current()
	if cur == nil || cur.ID != r.clock.mediaID || r.leaderID != "" {
		r.clock.timer = nil
		return
	}

	now := r.now()
	cur.CurrentTime += now.Sub(r.clock.last).Seconds()
	r.clock.last = now

	if cur.CurrentTime > float64(cur.Seconds) {
		autoleadAdvances.Inc()
		r.stopClock()
		r.playNext()
		return
	}

	if r.clock.ticks%5 == 0 {
		r.sendAll(EventMediaUpdate, *cur)
	}
	r.clock.ticks++

	r.schedule(gen)
}
