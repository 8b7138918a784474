package conversation

import "sync"

// Store maps Telegram user IDs to conversation records. Absence of a
// record is equivalent to the default searching state. The store also
// hands out per-user locks so that updates from the same user are
// handled one at a time while distinct users never contend.
type Store struct {
	mu      sync.RWMutex
	records map[int64]Record

	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{
		records: make(map[int64]Record),
		locks:   make(map[int64]*sync.Mutex),
	}
}

// Get returns the user's record, or the default searching record when
// none exists. The returned value is a copy; use Put to persist edits.
func (s *Store) Get(userID int64) Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rec, ok := s.records[userID]; ok {
		return rec
	}
	return NewRecord()
}

// Put overwrites the user's record.
func (s *Store) Put(userID int64, rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[userID] = rec
}

// Delete removes the user's record entirely, which is equivalent to
// resetting it to the default searching state.
func (s *Store) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, userID)
}

// Reset returns the user to the default searching state, dropping any
// draft and prompt reference.
func (s *Store) Reset(userID int64) {
	s.Put(userID, NewRecord())
}

// SetPromptMessageID records the latest subscription prompt reference
// without touching the rest of the record.
func (s *Store) SetPromptMessageID(userID int64, messageID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		rec = NewRecord()
	}
	rec.PromptMessageID = messageID
	s.records[userID] = rec
}

// Lock acquires the per-user handling lock and returns its release
// function. Updates for one user are serialized; other users proceed
// independently.
func (s *Store) Lock(userID int64) func() {
	s.locksMu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	s.locksMu.Unlock()

	l.Lock()
	return l.Unlock
}
