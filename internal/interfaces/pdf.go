package interfaces

import "context"

// PDFExtractor extracts plain text from uploaded PDF documents.
type PDFExtractor interface {
	// ExtractText concatenates the extracted text of every page in page
	// order. Returns ErrOversizedDocument (via errors.Is) when the page
	// count exceeds the configured ceiling; no text is returned in that case.
	ExtractText(ctx context.Context, pdfContent []byte) (string, error)

	// PageCount returns the number of pages without extracting text.
	PageCount(ctx context.Context, pdfContent []byte) (int, error)
}

// PDFExporter renders markdown content to a downloadable PDF.
type PDFExporter interface {
	ConvertMarkdownToPDF(markdown, title string) ([]byte, error)
}
