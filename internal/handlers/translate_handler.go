package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lingua/internal/interfaces"
	"github.com/ternarybob/lingua/internal/services/pdf"
	"github.com/ternarybob/lingua/internal/services/session"
)

// maxUploadBytes bounds the multipart form kept in memory.
const maxUploadBytes = 32 << 20

// TranslateHandler handles PDF upload, translation, and export.
type TranslateHandler struct {
	sessions *session.Manager
	exporter interfaces.PDFExporter
	maxPages int
	logger   arbor.ILogger
}

// NewTranslateHandler creates a new translate handler.
func NewTranslateHandler(sessions *session.Manager, exporter interfaces.PDFExporter, maxPages int, logger arbor.ILogger) *TranslateHandler {
	return &TranslateHandler{
		sessions: sessions,
		exporter: exporter,
		maxPages: maxPages,
		logger:   logger,
	}
}

// TranslateHandler accepts a multipart PDF upload and returns the extracted,
// reformatted, and translated texts. A repeated upload of the same file is
// served from the session cache.
func (h *TranslateHandler) TranslateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}
	sess, ok := RequireSession(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Missing file upload")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		WriteError(w, http.StatusBadRequest, "Only PDF uploads are supported")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Failed to read upload")
		return
	}

	record, cached, err := h.sessions.Translate(r.Context(), sess, header.Filename, content)
	if err != nil {
		if errors.Is(err, pdf.ErrOversizedDocument) {
			warning := fmt.Sprintf(sess.Profile().Labels.PageLimitWarn, h.maxPages)
			WriteError(w, http.StatusUnprocessableEntity, warning)
			return
		}
		h.logger.Error().Err(err).Str("file", header.Filename).Msg("Translation failed")
		WriteError(w, http.StatusInternalServerError, sess.Profile().Labels.TranslateFailed)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"upload_id":       record.UploadID,
		"name":            record.Name,
		"page_count":      record.PageCount,
		"extracted_text":  record.ExtractedText,
		"formatted_text":  record.FormattedText,
		"translated_text": record.TranslatedText,
		"cached":          cached,
	})
}

// ExportHandler serves the translated text of a cached upload as a PDF
// download. Routed as GET /api/translate/{uploadID}/export.
func (h *TranslateHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	sess, ok := RequireSession(w, r)
	if !ok {
		return
	}

	uploadID := exportUploadID(r.URL.Path)
	if uploadID == "" {
		WriteError(w, http.StatusNotFound, "Unknown export path")
		return
	}

	record, found := sess.Document(uploadID)
	if !found {
		WriteError(w, http.StatusNotFound, "Upload not found")
		return
	}

	data, err := h.exporter.ConvertMarkdownToPDF(record.TranslatedText, record.Name)
	if err != nil {
		h.logger.Error().Err(err).Str("upload_id", uploadID).Msg("PDF export failed")
		WriteError(w, http.StatusInternalServerError, "Export failed")
		return
	}

	filename := strings.TrimSuffix(record.Name, ".pdf") + "-translated.pdf"
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// exportUploadID extracts the upload ID from /api/translate/{uploadID}/export.
func exportUploadID(path string) string {
	rest := strings.TrimPrefix(path, "/api/translate/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[1] != "export" || parts[0] == "" {
		return ""
	}
	return parts[0]
}
