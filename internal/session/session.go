package session

import (
	"sync"
	"time"

	"github.com/vancomm/jigsaw-server/internal/jigsaw"
)

// Session is one live play-through. All access to the game goes through
// Do or Snapshot, which hold the session lock; the game's own timers take
// the same lock, so the game only ever sees one caller at a time.
type Session struct {
	ID        string
	ImageRef  string
	CreatedAt time.Time

	mu       sync.Mutex
	game     *jigsaw.Game
	lastSeen time.Time
	subs     map[chan jigsaw.Snapshot]struct{}
	closed   bool
}

// Do runs fn with exclusive access to the game and returns the state it
// left behind. Once the session has ended fn is not run and ErrNotFound
// is returned, so a stale handle cannot restart the game's timers.
func (s *Session) Do(fn func(g *jigsaw.Game)) (jigsaw.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return jigsaw.Snapshot{}, ErrNotFound
	}
	s.lastSeen = time.Now()
	fn(s.game)
	return s.game.Snapshot(), nil
}

func (s *Session) Snapshot() jigsaw.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Snapshot()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Subscribe returns a channel that receives the latest snapshot after every
// change. Slow readers only miss intermediate states, never the newest.
// The channel is closed by cancel or when the session ends.
func (s *Session) Subscribe() (<-chan jigsaw.Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan jigsaw.Snapshot, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.subs[ch]; ok {
				delete(s.subs, ch)
				close(ch)
			}
		})
	}
	return ch, cancel
}

// publish runs under s.mu, from the game observer.
func (s *Session) publish(snap jigsaw.Snapshot) {
	for ch := range s.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.game.Stop()
	for ch := range s.subs {
		close(ch)
	}
	clear(s.subs)
}

// lockedScheduler fires callbacks on timer goroutines under the session
// lock.
type lockedScheduler struct {
	mu *sync.Mutex
}

func (l lockedScheduler) Schedule(delay time.Duration, fn func()) func() {
	t := time.AfterFunc(delay, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		fn()
	})
	return func() { t.Stop() }
}
