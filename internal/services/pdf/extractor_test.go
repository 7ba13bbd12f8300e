package pdf

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

// buildTestPDF generates a PDF with the given page texts, one per page.
func buildTestPDF(t *testing.T, pages ...string) []byte {
	t.Helper()

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Arial", "", 12)
	for _, content := range pages {
		doc.AddPage()
		doc.MultiCell(0, 8, content, "", "L", false)
	}

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func testLogger() arbor.ILogger {
	return arbor.NewLogger()
}

func TestExtractor_PageCount(t *testing.T) {
	extractor := NewExtractor(3, testLogger())

	data := buildTestPDF(t, "first page", "second page")
	count, err := extractor.PageCount(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestExtractor_ExtractText(t *testing.T) {
	extractor := NewExtractor(3, testLogger())

	data := buildTestPDF(t, "alpha bravo charlie", "delta echo foxtrot")
	extracted, err := extractor.ExtractText(context.Background(), data)
	require.NoError(t, err)

	assert.Contains(t, extracted, "alpha")
	assert.Contains(t, extracted, "delta")
	// Page order must be preserved.
	assert.Less(t, strings.Index(extracted, "alpha"), strings.Index(extracted, "delta"))
}

func TestExtractor_ExtractText_OverPageLimit(t *testing.T) {
	extractor := NewExtractor(2, testLogger())

	data := buildTestPDF(t, "one", "two", "three")
	extracted, err := extractor.ExtractText(context.Background(), data)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOversizedDocument))
	assert.Empty(t, extracted)
}

func TestExtractor_ExtractText_AtPageLimit(t *testing.T) {
	extractor := NewExtractor(3, testLogger())

	data := buildTestPDF(t, "one", "two", "three")
	_, err := extractor.ExtractText(context.Background(), data)
	require.NoError(t, err)
}

func TestReadExtractedPages_PDFCPUNaming(t *testing.T) {
	dir := t.TempDir()

	// pdfcpu prefixes the page files with the input file's base name.
	writeFile := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	writeFile("extract_12345_Content_page_1.txt", "page one stream")
	writeFile("extract_12345_Content_page_2.txt", "page two stream")
	writeFile("extract_12345.pdf", "not a page file")

	pages := readExtractedPages(dir)

	assert.Len(t, pages, 2)
	assert.Equal(t, "page one stream", pages[1])
	assert.Equal(t, "page two stream", pages[2])
}

func TestExtractor_ExtractText_InvalidData(t *testing.T) {
	extractor := NewExtractor(3, testLogger())

	_, err := extractor.ExtractText(context.Background(), []byte("not a pdf"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrOversizedDocument))
}
