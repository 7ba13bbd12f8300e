package models

import "time"

// DocumentRecord holds the per-upload state for the translation flow.
// A record is created on first upload of a file and cached for the session;
// the text fields are populated exactly once.
type DocumentRecord struct {
	UploadID       string    `json:"upload_id"`
	Name           string    `json:"name"`
	PageCount      int       `json:"page_count"`
	ExtractedText  string    `json:"extracted_text"`
	FormattedText  string    `json:"formatted_text"`
	TranslatedText string    `json:"translated_text"`
	Parsed         bool      `json:"parsed"`
	UploadedAt     time.Time `json:"uploaded_at"`
}
