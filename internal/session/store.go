package session

import (
	"context"
	"errors"
	"hash/maphash"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/jigsaw-server/internal/jigsaw"
)

var ErrNotFound = errors.New("session not found")

type Options struct {
	PreviewTime         int
	CompletionDelay     time.Duration
	WrongMarkerDuration time.Duration
	TTL                 time.Duration
	Logger              logrus.FieldLogger
}

type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     Options
	log      logrus.FieldLogger
}

func NewStore(opts Options) *Store {
	log := opts.Logger
	if log == nil {
		log = jigsaw.Log
	}
	return &Store{
		sessions: make(map[string]*Session),
		opts:     opts,
		log:      log,
	}
}

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// Create starts a new session over a puzzle area of width x height. A
// generation error is returned as is and nothing is stored.
func (st *Store) Create(difficulty, imageRef string, width, height float64) (*Session, error) {
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		ImageRef:  imageRef,
		CreatedAt: now,
		lastSeen:  now,
		subs:      make(map[chan jigsaw.Snapshot]struct{}),
	}
	s.game = jigsaw.NewGame(width, height,
		jigsaw.WithRand(createRand()),
		jigsaw.WithScheduler(lockedScheduler{&s.mu}),
		jigsaw.WithPreviewTime(st.opts.PreviewTime),
		jigsaw.WithCompletionDelay(st.opts.CompletionDelay),
		jigsaw.WithWrongMarkerDuration(st.opts.WrongMarkerDuration),
		jigsaw.WithObserver(s.publish),
		jigsaw.WithLogger(st.log.WithField("session", s.ID)),
	)

	s.mu.Lock()
	err := s.game.StartSession(difficulty)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	st.log.WithFields(logrus.Fields{
		"session":    s.ID,
		"difficulty": difficulty,
		"image_ref":  imageRef,
	}).Info("session created")
	return s, nil
}

func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (st *Store) Delete(id string) error {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.close()
	st.log.WithField("session", id).Info("session ended")
	return nil
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep ends every session idle for longer than the TTL and reports how
// many it removed.
func (st *Store) Sweep(now time.Time) int {
	if st.opts.TTL <= 0 {
		return 0
	}
	st.mu.RLock()
	all := lo.Values(st.sessions)
	st.mu.RUnlock()

	expired := lo.Filter(all, func(s *Session, _ int) bool {
		return now.Sub(s.LastSeen()) > st.opts.TTL
	})
	for _, s := range expired {
		_ = st.Delete(s.ID)
	}
	if len(expired) > 0 {
		st.log.WithField("expired", len(expired)).Debug("swept idle sessions")
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done, then ends all sessions.
func (st *Store) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			st.Sweep(now)
		case <-ctx.Done():
			st.closeAll()
			return nil
		}
	}
}

func (st *Store) closeAll() {
	st.mu.Lock()
	all := lo.Values(st.sessions)
	clear(st.sessions)
	st.mu.Unlock()
	for _, s := range all {
		s.close()
	}
}
