// -----------------------------------------------------------------------
// Session manager - password login, per-session translation cache, and the
// chat conversation lifecycle
// -----------------------------------------------------------------------

package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lingua/internal/common"
	"github.com/ternarybob/lingua/internal/interfaces"
	"github.com/ternarybob/lingua/internal/models"
)

var (
	// ErrInvalidPassword is returned when a login password matches neither
	// configured secret.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrSessionNotFound is returned for unknown or expired session IDs.
	ErrSessionNotFound = errors.New("session not found")

	// ErrEmptyInput is returned when a chat request is missing the URL or
	// the message. Checked before any collaborator is called.
	ErrEmptyInput = errors.New("url and message must not be empty")
)

// Manager owns the session store and orchestrates the translation and chat
// flows on behalf of the handlers.
type Manager struct {
	config     *common.Config
	store      *gocache.Cache
	translator interfaces.TranslatorService
	indexer    interfaces.IndexerService
	retriever  interfaces.RetrieverService
	logger     arbor.ILogger
}

// NewManager creates a session manager. Sessions expire after the configured
// TTL of inactivity.
func NewManager(cfg *common.Config, translator interfaces.TranslatorService, indexer interfaces.IndexerService, retriever interfaces.RetrieverService, logger arbor.ILogger) *Manager {
	ttl := cfg.SessionTTL()
	return &Manager{
		config:     cfg,
		store:      gocache.New(ttl, 10*time.Minute),
		translator: translator,
		indexer:    indexer,
		retriever:  retriever,
		logger:     logger,
	}
}

// Authenticate matches the password against the two configured secrets and
// creates a session with the corresponding language profile. There is no
// lockout or rate limit; the password is the only gate.
func (m *Manager) Authenticate(password string) (*Session, error) {
	var language models.LanguageKey
	switch password {
	case m.config.Auth.KoreanPassword:
		language = models.LanguageKorean
	case m.config.Auth.EnglishPassword:
		language = models.LanguageEnglish
	default:
		return nil, ErrInvalidPassword
	}

	sess := newSession(common.NewSessionID(), language)
	m.store.Set(sess.ID, sess, gocache.DefaultExpiration)

	m.logger.Info().
		Str("session_id", sess.ID).
		Str("language", string(language)).
		Msg("Session created")

	return sess, nil
}

// Get returns the session for an ID and slides its expiration window.
func (m *Manager) Get(id string) (*Session, error) {
	value, found := m.store.Get(id)
	if !found {
		return nil, ErrSessionNotFound
	}
	sess := value.(*Session)
	sess.touch()
	m.store.Set(id, sess, gocache.DefaultExpiration)
	return sess, nil
}

// Delete removes a session.
func (m *Manager) Delete(id string) {
	m.store.Delete(id)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	return m.store.ItemCount()
}

// Translate runs the translation pipeline for an uploaded PDF, serving a
// cached record when the same content was uploaded before in this session.
// The cached flag reports whether the result was served without LLM calls.
// Failed uploads are not cached; a retry runs the pipeline again.
func (m *Manager) Translate(ctx context.Context, sess *Session, name string, content []byte) (*models.DocumentRecord, bool, error) {
	if len(content) == 0 {
		return nil, false, fmt.Errorf("uploaded file is empty")
	}

	digest := contentDigest(content)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if uploadID, ok := sess.digests[digest]; ok {
		m.logger.Debug().
			Str("session_id", sess.ID).
			Str("upload_id", uploadID).
			Msg("Serving cached translation")
		return sess.documents[uploadID], true, nil
	}

	record, err := m.translator.TranslateDocument(ctx, sess.Language, name, content)
	if err != nil {
		return nil, false, err
	}

	sess.documents[record.UploadID] = record
	sess.digests[digest] = record.UploadID
	return record, false, nil
}

// Chat runs one conversational turn. The first message for a URL builds the
// vector index and seeds the conversation with the localized greeting; a new
// URL discards both and starts over.
func (m *Manager) Chat(ctx context.Context, sess *Session, url, message string) (*models.Conversation, error) {
	url = strings.TrimSpace(url)
	message = strings.TrimSpace(message)
	if url == "" || message == "" {
		return nil, ErrEmptyInput
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.index == nil || sess.index.URL != url {
		index, err := m.indexer.BuildIndex(ctx, url)
		if err != nil {
			return nil, err
		}
		sess.index = index
		sess.conversation = models.NewConversation(url, sess.Profile().Labels.ChatGreeting)

		m.logger.Info().
			Str("session_id", sess.ID).
			Str("url", url).
			Int("chunks", index.Len()).
			Msg("Conversation started")
	}

	answer, err := m.retriever.Answer(ctx, sess.index, sess.conversation.Turns, message)
	if err != nil {
		return nil, err
	}
	sess.conversation.Append(message, answer)

	return sess.snapshotLocked(), nil
}

// ChatHistory returns the conversation for a URL. An unknown or changed URL
// returns a fresh greeting-only view without building an index; the index is
// built lazily on the first message.
func (m *Manager) ChatHistory(sess *Session, url string) *models.Conversation {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	url = strings.TrimSpace(url)
	if sess.conversation != nil && (url == "" || sess.conversation.URL == url) {
		return sess.snapshotLocked()
	}
	return models.NewConversation(url, sess.Profile().Labels.ChatGreeting)
}

func contentDigest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
