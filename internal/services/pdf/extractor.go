// -----------------------------------------------------------------------
// PDF Extractor Service - Extract text content from uploaded PDF documents
// Uses pdfcpu for Go-native PDF processing
// -----------------------------------------------------------------------

package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lingua/internal/interfaces"
)

// ErrOversizedDocument is returned when an upload exceeds the configured
// page ceiling. It is the only extraction failure with defined recovery
// behavior: the session layer discards the upload and surfaces the
// localized page-limit warning.
var ErrOversizedDocument = errors.New("document exceeds the page limit")

// Extractor implements the PDFExtractor interface using pdfcpu.
type Extractor struct {
	maxPages int
	logger   arbor.ILogger
	tempDir  string
}

// Compile-time interface assertion
var _ interfaces.PDFExtractor = (*Extractor)(nil)

// NewExtractor creates a new PDF extractor with the configured page ceiling.
func NewExtractor(maxPages int, logger arbor.ILogger) *Extractor {
	tempDir := filepath.Join(os.TempDir(), "lingua-pdf")
	os.MkdirAll(tempDir, 0755)

	return &Extractor{
		maxPages: maxPages,
		logger:   logger,
		tempDir:  tempDir,
	}
}

// PageCount returns the number of pages without extracting text.
func (e *Extractor) PageCount(ctx context.Context, pdfContent []byte) (int, error) {
	tempFile, cleanup, err := e.writeTempPDF(pdfContent, "count")
	if err != nil {
		return 0, err
	}
	defer cleanup()

	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF: %w", err)
	}

	return pdfCtx.PageCount, nil
}

// ExtractText extracts the text of every page and concatenates the pages in
// page order. Fails with ErrOversizedDocument before any extraction work
// when the page count exceeds the ceiling; no text is returned in that case.
func (e *Extractor) ExtractText(ctx context.Context, pdfContent []byte) (string, error) {
	tempFile, cleanup, err := e.writeTempPDF(pdfContent, "extract")
	if err != nil {
		return "", err
	}
	defer cleanup()

	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	pageCount := pdfCtx.PageCount
	if pageCount > e.maxPages {
		e.logger.Warn().
			Int("page_count", pageCount).
			Int("max_pages", e.maxPages).
			Msg("Rejecting oversized document")
		return "", fmt.Errorf("%w: %d pages (limit %d)", ErrOversizedDocument, pageCount, e.maxPages)
	}

	outDir := filepath.Join(e.tempDir, fmt.Sprintf("pages_%d", os.Getpid()))
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create extraction directory: %w", err)
	}
	defer os.RemoveAll(outDir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(tempFile, outDir, nil, conf); err != nil {
		return "", fmt.Errorf("failed to extract PDF content: %w", err)
	}

	pageTexts := readExtractedPages(outDir)

	// Pages concatenate in order with no separator; a page pdfcpu could not
	// extract contributes an empty segment rather than reordering the rest.
	var builder strings.Builder
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		builder.WriteString(pageTexts[pageNum])
	}

	e.logger.Debug().
		Int("page_count", pageCount).
		Int("text_length", builder.Len()).
		Msg("Extracted PDF text")

	return builder.String(), nil
}

// writeTempPDF stages PDF bytes in the temp dir for pdfcpu's file-based API.
func (e *Extractor) writeTempPDF(pdfContent []byte, prefix string) (string, func(), error) {
	f, err := os.CreateTemp(e.tempDir, prefix+"_*.pdf")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp PDF file: %w", err)
	}
	name := f.Name()
	cleanup := func() { os.Remove(name) }

	if _, err := f.Write(pdfContent); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to write temp PDF file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to close temp PDF file: %w", err)
	}

	return name, cleanup, nil
}

// contentPagePattern matches the files pdfcpu's content extraction writes,
// named <input-base>_Content_page_N.txt.
var contentPagePattern = regexp.MustCompile(`_Content_page_(\d+)\.txt$`)

// readExtractedPages maps page numbers to extracted content from the files
// pdfcpu writes.
func readExtractedPages(outDir string) map[int]string {
	pageTexts := make(map[int]string)

	files, _ := os.ReadDir(outDir)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		matches := contentPagePattern.FindStringSubmatch(file.Name())
		if matches == nil {
			continue
		}
		pageNum, err := strconv.Atoi(matches[1])
		if err != nil {
			continue
		}
		content, err := os.ReadFile(filepath.Join(outDir, file.Name()))
		if err != nil {
			continue
		}
		pageTexts[pageNum] = string(content)
	}

	return pageTexts
}
