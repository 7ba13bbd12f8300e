package session

import (
	"sync"
	"time"

	"github.com/ternarybob/lingua/internal/models"
)

// Session holds all per-login state: the language profile, the translated
// document cache, and the chat conversation with its vector index. A session
// is private to one browser; its mutex serializes overlapping requests from
// that browser, nothing is shared across sessions.
type Session struct {
	ID        string
	Language  models.LanguageKey
	CreatedAt time.Time
	LastSeen  time.Time

	mu           sync.Mutex
	documents    map[string]*models.DocumentRecord // upload ID -> record
	digests      map[string]string                 // content digest -> upload ID
	conversation *models.Conversation
	index        *models.VectorIndex
}

func newSession(id string, language models.LanguageKey) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		Language:  language,
		CreatedAt: now,
		LastSeen:  now,
		documents: make(map[string]*models.DocumentRecord),
		digests:   make(map[string]string),
	}
}

// touch records activity on the session. LastSeen shares the session mutex
// with the rest of the mutable state so concurrent requests do not race.
func (s *Session) touch() {
	s.mu.Lock()
	s.LastSeen = time.Now()
	s.mu.Unlock()
}

// Profile returns the language profile for this session.
func (s *Session) Profile() *models.LanguageProfile {
	profile, err := models.Profile(s.Language)
	if err != nil {
		// Language is validated at login; an unknown key here is a bug.
		panic(err)
	}
	return profile
}

// Document returns the cached record for an upload ID.
func (s *Session) Document(uploadID string) (*models.DocumentRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.documents[uploadID]
	return record, ok
}

// History returns a snapshot of the current conversation turns, or nil when
// no conversation has started.
func (s *Session) History() *models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// snapshotLocked copies the conversation so callers can render it without
// holding the session lock. Caller must hold s.mu.
func (s *Session) snapshotLocked() *models.Conversation {
	if s.conversation == nil {
		return nil
	}
	turns := make([]models.Turn, len(s.conversation.Turns))
	copy(turns, s.conversation.Turns)
	return &models.Conversation{
		URL:       s.conversation.URL,
		Turns:     turns,
		StartedAt: s.conversation.StartedAt,
	}
}
