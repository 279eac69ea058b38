package conversation

import (
	"sync"

	"github.com/antonyforte/yuanshao-bot/internal/chat"
)

// Store maps users to their open dialogue.
//
// Each user has a slot with its own mutex. Holding a Session keeps that slot
// locked, so a full transition (state change, persistence, replies) of one
// user completes before the next message of the same user is looked at.
// Slots of different users never wait on each other; the map-level mutex is
// only held to find or drop a slot.
type Store struct {
	mu    sync.Mutex
	slots map[chat.UserID]*slot
}

type slot struct {
	mu      sync.Mutex
	state   *State
	holders int
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		slots: make(map[chat.UserID]*slot),
	}
}

// Session is exclusive access to one user's slot. It must be released with Unlock.
type Session struct {
	store *Store
	user  chat.UserID
	slot  *slot
}

// Lock waits for exclusive access to the user's slot
func (s *Store) Lock(user chat.UserID) *Session {
	s.mu.Lock()
	sl, ok := s.slots[user]
	if !ok {
		sl = &slot{}
		s.slots[user] = sl
	}
	sl.holders++
	s.mu.Unlock()

	sl.mu.Lock()
	return &Session{store: s, user: user, slot: sl}
}

// Unlock releases the slot. Empty slots nobody waits for are dropped.
func (sess *Session) Unlock() {
	sl := sess.slot
	s := sess.store

	// the slot mutex is still held, so nobody can change the state while we decide
	s.mu.Lock()
	sl.holders--
	if sl.holders == 0 && sl.state == nil {
		delete(s.slots, sess.user)
	}
	s.mu.Unlock()

	sl.mu.Unlock()
}

// User returns the identity the session belongs to
func (sess *Session) User() chat.UserID {
	return sess.user
}

// State returns a copy of the user's state
func (sess *Session) State() (State, bool) {
	if sess.slot.state == nil {
		return State{}, false
	}
	return sess.slot.state.clone(), true
}

// Set replaces the user's state
func (sess *Session) Set(st State) {
	c := st.clone()
	sess.slot.state = &c
}

// Remove ends the user's dialogue
func (sess *Session) Remove() {
	sess.slot.state = nil
}

// Exists reports whether the user has an open dialogue.
// It must not be called while holding a Session of the same user.
func (s *Store) Exists(user chat.UserID) bool {
	_, ok := s.Get(user)
	return ok
}

// Get returns a copy of the user's state
func (s *Store) Get(user chat.UserID) (State, bool) {
	sess := s.Lock(user)
	defer sess.Unlock()
	return sess.State()
}

// Set replaces the user's state
func (s *Store) Set(user chat.UserID, st State) {
	sess := s.Lock(user)
	defer sess.Unlock()
	sess.Set(st)
}

// Remove ends the user's dialogue
func (s *Store) Remove(user chat.UserID) {
	sess := s.Lock(user)
	defer sess.Unlock()
	sess.Remove()
}

// Len returns the number of users with an open dialogue
func (s *Store) Len() int {
	s.mu.Lock()
	slots := make([]*slot, 0, len(s.slots))
	for _, sl := range s.slots {
		slots = append(slots, sl)
	}
	s.mu.Unlock()

	n := 0
	for _, sl := range slots {
		sl.mu.Lock()
		if sl.state != nil {
			n++
		}
		sl.mu.Unlock()
	}
	return n
}
