// Package session keeps one selection state per browser tab, evicting idle
// sessions by TTL and least-recent use.
package session

import (
	"container/list"
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"pizza-dashboard/internal/config"
	"pizza-dashboard/internal/selection"
)

// Session owns a selection state. All access goes through its lock so a
// session's toggle-and-render pipeline runs serially.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	state   *selection.State
	limiter *rate.Limiter
}

// Update runs fn with exclusive access to the selection state.
func (s *Session) Update(fn func(*selection.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

func (s *Session) Snapshot() selection.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Snapshot()
}

// AllowClick reports whether another click fits in the session's budget.
func (s *Session) AllowClick() bool {
	return s.limiter.Allow()
}

type entry struct {
	session   *Session
	expiresAt time.Time
}

// Store is an LRU of sessions with a sliding idle TTL.
type Store struct {
	mu       sync.Mutex
	maxSize  int
	ttl      time.Duration
	items    map[string]*list.Element
	lru      *list.List
	limit    int
	clickRPS rate.Limit
	burst    int
	now      func() time.Time
}

func NewStore(cfg config.SessionConfig, selectionLimit int) *Store {
	return &Store{
		maxSize:  cfg.MaxSessions,
		ttl:      cfg.TTL,
		items:    make(map[string]*list.Element),
		lru:      list.New(),
		limit:    selectionLimit,
		clickRPS: rate.Limit(cfg.ClickRPS),
		burst:    cfg.ClickBurst,
		now:      time.Now,
	}
}

// Get returns the live session for id and refreshes its TTL.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[id]
	if !ok {
		return nil, false
	}

	e := elem.Value.(*entry)
	now := s.now()
	if now.After(e.expiresAt) {
		s.removeElement(elem)
		return nil, false
	}

	e.expiresAt = now.Add(s.ttl)
	s.lru.MoveToFront(elem)
	return e.session, true
}

// GetOrCreate returns the session for id, or a fresh one when id is unknown
// or expired. The boolean reports whether a new session was created.
func (s *Store) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if sess, ok := s.Get(id); ok {
			return sess, false
		}
	}
	return s.Create(), true
}

func (s *Store) Create() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := &Session{
		ID:        newID(),
		CreatedAt: now,
		state:     selection.New(selection.WithLimit(s.limit)),
		limiter:   rate.NewLimiter(s.clickRPS, s.burst),
	}

	elem := s.lru.PushFront(&entry{session: sess, expiresAt: now.Add(s.ttl)})
	s.items[sess.ID] = elem

	if s.lru.Len() > s.maxSize {
		if oldest := s.lru.Back(); oldest != nil {
			s.removeElement(oldest)
		}
	}
	return sess
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.items[id]; ok {
		s.removeElement(elem)
	}
}

// CleanExpired drops every expired session and returns how many went.
func (s *Store) CleanExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var expired []*list.Element
	for elem := s.lru.Front(); elem != nil; elem = elem.Next() {
		if now.After(elem.Value.(*entry).expiresAt) {
			expired = append(expired, elem)
		}
	}
	for _, elem := range expired {
		s.removeElement(elem)
	}
	return len(expired)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) removeElement(elem *list.Element) {
	delete(s.items, elem.Value.(*entry).session.ID)
	s.lru.Remove(elem)
}

func newID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

type contextKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session attached by the session middleware.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok
}
