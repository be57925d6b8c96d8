package room

import (
	"sync"
	"time"

	"github.com/EmanueleCodes/boxes-game/code"
)

const (
	DefaultInactivityTimeout   = 5 * time.Minute
	DefaultLazyEvictionTimeout = 30 * time.Minute
)

// Store owns the table of live rooms. The table itself is safe for
// concurrent use; the rooms it hands out are not.
type Store struct {
	rooms               map[string]*Room
	lock                sync.RWMutex
	generate            code.Generator
	now                 func() time.Time
	inactivityTimeout   time.Duration
	lazyEvictionTimeout time.Duration
}

type Option func(*Store)

func WithGenerator(generate code.Generator) Option {
	return func(s *Store) { s.generate = generate }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithInactivityTimeout sets the idle time after which CleanupRooms removes a room.
func WithInactivityTimeout(timeout time.Duration) Option {
	return func(s *Store) { s.inactivityTimeout = timeout }
}

// WithLazyEvictionTimeout sets the idle time after which GetRoom drops a
// room on access. Zero disables lazy eviction.
func WithLazyEvictionTimeout(timeout time.Duration) Option {
	return func(s *Store) { s.lazyEvictionTimeout = timeout }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		rooms:               make(map[string]*Room),
		generate:            code.GenerateRandom,
		now:                 time.Now,
		inactivityTimeout:   DefaultInactivityTimeout,
		lazyEvictionTimeout: DefaultLazyEvictionTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Now() time.Time {
	return s.now()
}

func (s *Store) CreateRoom() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	var id string
	for {
		id = s.generate()
		if _, exists := s.rooms[id]; !exists {
			break
		}
	}
	s.rooms[id] = newRoom(id, s.now())
	return id
}

func (s *Store) GetRoom(id string) (*Room, bool) {
	s.lock.RLock()
	room, exists := s.rooms[id]
	s.lock.RUnlock()
	if !exists {
		return nil, false
	}
	if s.lazyEvictionTimeout > 0 && s.idleFor(room) > s.lazyEvictionTimeout {
		s.lock.Lock()
		if current, ok := s.rooms[id]; ok && current == room {
			delete(s.rooms, id)
		}
		s.lock.Unlock()
		return nil, false
	}
	return room, true
}

func (s *Store) DeleteRoom(id string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	_, exists := s.rooms[id]
	delete(s.rooms, id)
	return exists
}

func (s *Store) RoomExists(id string) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	_, exists := s.rooms[id]
	return exists
}

// UpdateLastActivity moves the room's LastActivity to now. It never moves backwards.
func (s *Store) UpdateLastActivity(id string) {
	s.lock.RLock()
	room, exists := s.rooms[id]
	s.lock.RUnlock()
	if !exists {
		return
	}
	if now := s.now().UnixMilli(); now > room.LastActivity {
		room.LastActivity = now
	}
}

// CleanupRooms removes every room idle for longer than the inactivity
// timeout and returns the removed rooms.
func (s *Store) CleanupRooms() []*Room {
	s.lock.Lock()
	defer s.lock.Unlock()
	var removed []*Room
	for id, room := range s.rooms {
		if s.idleFor(room) > s.inactivityTimeout {
			delete(s.rooms, id)
			removed = append(removed, room)
		}
	}
	return removed
}

// Rooms returns every live room, in no particular order.
func (s *Store) Rooms() []*Room {
	s.lock.RLock()
	defer s.lock.RUnlock()
	rooms := make([]*Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

func (s *Store) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.rooms)
}

func (s *Store) idleFor(room *Room) time.Duration {
	return time.Duration(s.now().UnixMilli()-room.LastActivity) * time.Millisecond
}
