// -----------------------------------------------------------------------
// Translation pipeline: PDF extraction, structural reformatting, and the
// English/Korean document translation prompts.
// -----------------------------------------------------------------------

package translator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lingua/internal/common"
	"github.com/ternarybob/lingua/internal/interfaces"
	"github.com/ternarybob/lingua/internal/models"
)

// ErrEmptyDocument is returned when extraction yields no usable text.
var ErrEmptyDocument = errors.New("document contains no extractable text")

// Service implements the translation flow on top of an LLM provider and a
// PDF extractor.
type Service struct {
	llm       interfaces.LLMService
	extractor interfaces.PDFExtractor
	logger    arbor.ILogger
}

var _ interfaces.TranslatorService = (*Service)(nil)

// NewService creates a translator service.
func NewService(llm interfaces.LLMService, extractor interfaces.PDFExtractor, logger arbor.ILogger) *Service {
	return &Service{
		llm:       llm,
		extractor: extractor,
		logger:    logger,
	}
}

// Reformat asks the model to restore the structure lost during PDF
// extraction. The model output is returned verbatim.
func (s *Service) Reformat(ctx context.Context, lang models.LanguageKey, text string) (string, error) {
	profile, err := models.Profile(lang)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}

	messages := []interfaces.Message{
		{Role: "system", Content: profile.Prompts.FormatSystem},
		{Role: "user", Content: text},
	}

	result, err := s.llm.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("reformat failed: %w", err)
	}
	return result, nil
}

// Translate runs the document translation prompt. Two system instructions
// are sent: the translator role and the paragraph-alignment directive.
func (s *Service) Translate(ctx context.Context, lang models.LanguageKey, text string) (string, error) {
	profile, err := models.Profile(lang)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}

	messages := []interfaces.Message{
		{Role: "system", Content: profile.Prompts.TranslationSystem},
		{Role: "system", Content: profile.Prompts.TranslationAlignment},
		{Role: "user", Content: text},
	}

	result, err := s.llm.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}
	return result, nil
}

// TranslateDocument runs the full extract -> reformat -> translate pipeline
// for an uploaded PDF and returns the populated record. Oversized documents
// propagate pdf.ErrOversizedDocument unwrapped so handlers can localize the
// warning.
func (s *Service) TranslateDocument(ctx context.Context, lang models.LanguageKey, name string, pdfContent []byte) (*models.DocumentRecord, error) {
	start := time.Now()

	record := &models.DocumentRecord{
		UploadID:   common.NewUploadID(),
		Name:       name,
		UploadedAt: start,
	}

	pageCount, err := s.extractor.PageCount(ctx, pdfContent)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %q: %w", name, err)
	}
	record.PageCount = pageCount

	extracted, err := s.extractor.ExtractText(ctx, pdfContent)
	if err != nil {
		return nil, err
	}
	record.ExtractedText = extracted

	s.logger.Info().
		Str("upload_id", record.UploadID).
		Str("name", name).
		Int("pages", pageCount).
		Int("extracted_len", len(extracted)).
		Msg("Document extracted")

	formatted, err := s.Reformat(ctx, lang, extracted)
	if err != nil {
		return nil, err
	}
	record.FormattedText = formatted

	translated, err := s.Translate(ctx, lang, formatted)
	if err != nil {
		return nil, err
	}
	record.TranslatedText = translated
	record.Parsed = true

	s.logger.Info().
		Str("upload_id", record.UploadID).
		Str("name", name).
		Dur("duration", time.Since(start)).
		Msg("Document translated")

	return record, nil
}
