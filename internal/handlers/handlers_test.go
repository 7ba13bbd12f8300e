package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lingua/internal/common"
	"github.com/ternarybob/lingua/internal/models"
	"github.com/ternarybob/lingua/internal/services/pdf"
	"github.com/ternarybob/lingua/internal/services/session"
)

type fakeTranslator struct {
	err error
}

func (f *fakeTranslator) Reformat(ctx context.Context, lang models.LanguageKey, text string) (string, error) {
	return text, nil
}

func (f *fakeTranslator) Translate(ctx context.Context, lang models.LanguageKey, text string) (string, error) {
	return text, nil
}

func (f *fakeTranslator) TranslateDocument(ctx context.Context, lang models.LanguageKey, name string, pdfContent []byte) (*models.DocumentRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.DocumentRecord{
		UploadID:       common.NewUploadID(),
		Name:           name,
		PageCount:      2,
		ExtractedText:  "extracted",
		FormattedText:  "# formatted",
		TranslatedText: "# translated",
		Parsed:         true,
		UploadedAt:     time.Now(),
	}, nil
}

type fakeIndexer struct{}

func (f *fakeIndexer) BuildIndex(ctx context.Context, url string) (*models.VectorIndex, error) {
	return &models.VectorIndex{
		URL:       url,
		Chunks:    []*models.Chunk{{ID: "chk_1", SourceURL: url, Content: "content"}},
		CreatedAt: time.Now(),
	}, nil
}

type fakeRetriever struct {
	err error
}

func (f *fakeRetriever) Answer(ctx context.Context, index *models.VectorIndex, history []models.Turn, userTurn string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "answer to " + userTurn, nil
}

type env struct {
	sessions   *session.Manager
	translator *fakeTranslator
	retriever  *fakeRetriever
	maxPages   int
}

func newEnv(t *testing.T) *env {
	t.Helper()

	cfg := common.DefaultConfig()
	cfg.Auth.KoreanPassword = "kor-secret"
	cfg.Auth.EnglishPassword = "en-secret"

	translator := &fakeTranslator{}
	retriever := &fakeRetriever{}
	manager := session.NewManager(cfg, translator, &fakeIndexer{}, retriever, arbor.NewLogger())
	return &env{sessions: manager, translator: translator, retriever: retriever, maxPages: cfg.PDF.MaxPages}
}

func (e *env) login(t *testing.T, password string) *session.Session {
	t.Helper()
	sess, err := e.sessions.Authenticate(password)
	require.NoError(t, err)
	return sess
}

func withSession(r *http.Request, sess *session.Session) *http.Request {
	return r.WithContext(WithSession(r.Context(), sess))
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func multipartPDF(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestAuthHandler_Login(t *testing.T) {
	e := newEnv(t)
	handler := NewAuthHandler(e.sessions, arbor.NewLogger())

	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"password":"kor-secret"}`))
	rec := httptest.NewRecorder()
	handler.LoginHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, "korean", body["language"])
	assert.NotNil(t, body["labels"])

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	e := newEnv(t)
	handler := NewAuthHandler(e.sessions, arbor.NewLogger())

	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"password":"nope"}`))
	rec := httptest.NewRecorder()
	handler.LoginHandler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newEnv(t)
	sess := e.login(t, "en-secret")
	handler := NewAuthHandler(e.sessions, arbor.NewLogger())

	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.ID})
	rec := httptest.NewRecorder()
	handler.LogoutHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	_, err := e.sessions.Get(sess.ID)
	assert.Error(t, err)
}

func TestTranslateHandler_Upload(t *testing.T) {
	e := newEnv(t)
	sess := e.login(t, "en-secret")
	handler := NewTranslateHandler(e.sessions, pdf.NewExporter(arbor.NewLogger()), e.maxPages, arbor.NewLogger())

	body, contentType := multipartPDF(t, "report.pdf", []byte("%PDF fake"))
	req := httptest.NewRequest("POST", "/api/translate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.TranslateHandler(rec, withSession(req, sess))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON(t, rec)
	assert.Equal(t, "report.pdf", resp["name"])
	assert.Equal(t, "# translated", resp["translated_text"])
	assert.Equal(t, false, resp["cached"])
	assert.NotEmpty(t, resp["upload_id"])

	// Same bytes again: served from the session cache.
	body, contentType = multipartPDF(t, "report.pdf", []byte("%PDF fake"))
	req = httptest.NewRequest("POST", "/api/translate", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	handler.TranslateHandler(rec, withSession(req, sess))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeJSON(t, rec)["cached"])
}

func TestTranslateHandler_OversizedDocument(t *testing.T) {
	e := newEnv(t)
	sess := e.login(t, "en-secret")
	e.translator.err = fmt.Errorf("%w: 5 pages (limit 3)", pdf.ErrOversizedDocument)
	handler := NewTranslateHandler(e.sessions, pdf.NewExporter(arbor.NewLogger()), e.maxPages, arbor.NewLogger())

	body, contentType := multipartPDF(t, "long.pdf", []byte("%PDF long"))
	req := httptest.NewRequest("POST", "/api/translate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.TranslateHandler(rec, withSession(req, sess))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeJSON(t, rec)
	assert.Equal(t, fmt.Sprintf(sess.Profile().Labels.PageLimitWarn, e.maxPages), resp["error"])
}

func TestTranslateHandler_PipelineFailureLocalized(t *testing.T) {
	e := newEnv(t)
	sess := e.login(t, "kor-secret")
	handler := NewTranslateHandler(e.sessions, pdf.NewExporter(arbor.NewLogger()), e.maxPages, arbor.NewLogger())
	e.translator.err = fmt.Errorf("provider unavailable")

	body, contentType := multipartPDF(t, "report.pdf", []byte("%PDF fake"))
	req := httptest.NewRequest("POST", "/api/translate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.TranslateHandler(rec, withSession(req, sess))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, sess.Profile().Labels.TranslateFailed, decodeJSON(t, rec)["error"])
}

func TestTranslateHandler_RejectsNonPDF(t *testing.T) {
	e := newEnv(t)
	sess := e.login(t, "en-secret")
	handler := NewTranslateHandler(e.sessions, pdf.NewExporter(arbor.NewLogger()), e.maxPages, arbor.NewLogger())

	body, contentType := multipartPDF(t, "notes.txt", []byte("plain text"))
	req := httptest.NewRequest("POST", "/api/translate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.TranslateHandler(rec, withSession(req, sess))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTranslateHandler_Export(t *testing.T) {
	e := newEnv(t)
	sess := e.login(t, "en-secret")
	handler := NewTranslateHandler(e.sessions, pdf.NewExporter(arbor.NewLogger()), e.maxPages, arbor.NewLogger())

	record, _, err := e.sessions.Translate(context.Background(), sess, "report.pdf", []byte("%PDF fake"))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/translate/"+record.UploadID+"/export", nil)
	rec := httptest.NewRecorder()
	handler.ExportHandler(rec, withSession(req, sess))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "report-translated.pdf")
	assert.Equal(t, "%PDF", rec.Body.String()[:4])
}

func TestTranslateHandler_Export_UnknownUpload(t *testing.T) {
	e := newEnv(t)
	sess := e.login(t, "en-secret")
	handler := NewTranslateHandler(e.sessions, pdf.NewExporter(arbor.NewLogger()), e.maxPages, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/translate/upl_missing/export", nil)
	rec := httptest.NewRecorder()
	handler.ExportHandler(rec, withSession(req, sess))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatHandler_Turn(t *testing.T) {
	e := newEnv(t)
	sess := e.login(t, "en-secret")
	handler := NewChatHandler(e.sessions, arbor.NewLogger())

	payload := `{"url":"https://example.com","message":"what is this?"}`
	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.ChatHandler(rec, withSession(req, sess))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON(t, rec)
	turns := resp["turns"].([]interface{})
	require.Len(t, turns, 3)

	last := turns[2].(map[string]interface{})
	assert.Equal(t, "assistant", last["role"])
	assert.Equal(t, "answer to what is this?", last["content"])
}

func TestChatHandler_EmptyInput(t *testing.T) {
	e := newEnv(t)
	sess := e.login(t, "en-secret")
	handler := NewChatHandler(e.sessions, arbor.NewLogger())

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"url":"","message":"hi"}`))
	rec := httptest.NewRecorder()
	handler.ChatHandler(rec, withSession(req, sess))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeJSON(t, rec)
	assert.Equal(t, sess.Profile().Labels.URLPrompt, resp["error"])
}

func TestChatHandler_FailureLocalized(t *testing.T) {
	e := newEnv(t)
	sess := e.login(t, "kor-secret")
	handler := NewChatHandler(e.sessions, arbor.NewLogger())
	e.retriever.err = fmt.Errorf("provider unavailable")

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"url":"https://example.com","message":"hi"}`))
	rec := httptest.NewRecorder()
	handler.ChatHandler(rec, withSession(req, sess))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, sess.Profile().Labels.ChatFailed, decodeJSON(t, rec)["error"])
}

func TestChatHandler_History(t *testing.T) {
	e := newEnv(t)
	sess := e.login(t, "kor-secret")
	handler := NewChatHandler(e.sessions, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/chat/history?url=https://example.com", nil)
	rec := httptest.NewRecorder()
	handler.HistoryHandler(rec, withSession(req, sess))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON(t, rec)
	turns := resp["turns"].([]interface{})
	require.Len(t, turns, 1)

	greeting := turns[0].(map[string]interface{})
	assert.Equal(t, "assistant", greeting["role"])
	assert.Equal(t, sess.Profile().Labels.ChatGreeting, greeting["content"])
}

func TestRequireSession_Missing(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/chat/history", nil)
	rec := httptest.NewRecorder()

	_, ok := RequireSession(rec, req)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
