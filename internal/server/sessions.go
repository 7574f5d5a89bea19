package server

import (
	"sync"

	"github.com/etnz/allocation"
	"github.com/google/uuid"
)

// session is a chart opened by a client.
type session struct {
	id       uuid.UUID
	ctrl     *allocation.Controller
	currency string
}

// sessions holds open charts, evicting the oldest beyond limit.
type sessions struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*session
	order []uuid.UUID // oldest first
	limit int
}

func newSessions(limit int) *sessions {
	return &sessions{byID: make(map[uuid.UUID]*session), limit: limit}
}

// open registers a chart over source and returns its session.
func (s *sessions) open(source allocation.DrillDown, currency string) *session {
	sess := &session{
		id:       uuid.New(),
		ctrl:     allocation.NewController(source, nil),
		currency: currency,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[sess.id] = sess
	s.order = append(s.order, sess.id)
	for s.limit > 0 && len(s.order) > s.limit {
		delete(s.byID, s.order[0])
		s.order = s.order[1:]
	}
	sessionsActive.Set(float64(len(s.byID)))
	return sess
}

func (s *sessions) get(id uuid.UUID) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[id]
	return sess, ok
}

func (s *sessions) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
