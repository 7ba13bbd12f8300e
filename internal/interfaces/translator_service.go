package interfaces

import (
	"context"

	"github.com/ternarybob/lingua/internal/models"
)

// TranslatorService runs the fixed prompt pipelines of the translation flow.
type TranslatorService interface {
	// Reformat asks the model to restore the structure lost during PDF
	// extraction. The output is returned verbatim.
	Reformat(ctx context.Context, lang models.LanguageKey, text string) (string, error)

	// Translate runs the English/Korean translation pipeline with the
	// paragraph-alignment instruction. The output is returned verbatim.
	Translate(ctx context.Context, lang models.LanguageKey, text string) (string, error)

	// TranslateDocument runs extract -> reformat -> translate for an uploaded
	// PDF and returns the populated record. The record is not cached here;
	// caching is the session layer's concern.
	TranslateDocument(ctx context.Context, lang models.LanguageKey, name string, pdfContent []byte) (*models.DocumentRecord, error)
}
