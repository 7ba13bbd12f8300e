// -----------------------------------------------------------------------
// Web page loader - fetches a URL and reduces the HTML to markdown text
// -----------------------------------------------------------------------

package indexer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
)

// pageLoader fetches a web page and converts its body to markdown.
type pageLoader struct {
	client      *http.Client
	userAgent   string
	maxBodySize int
	logger      arbor.ILogger
}

func newPageLoader(timeout time.Duration, userAgent string, maxBodySize int, logger arbor.ILogger) *pageLoader {
	return &pageLoader{
		client:      &http.Client{Timeout: timeout},
		userAgent:   userAgent,
		maxBodySize: maxBodySize,
		logger:      logger,
	}
}

// Load fetches the URL and returns the page content as markdown.
func (l *pageLoader) Load(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", l.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %q: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch of %q returned status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(l.maxBodySize)))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	markdown, err := l.toMarkdown(string(body), pageURL)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(markdown) == "" {
		return "", fmt.Errorf("page %q contains no readable content", pageURL)
	}

	l.logger.Debug().
		Str("url", pageURL).
		Int("html_len", len(body)).
		Int("markdown_len", len(markdown)).
		Msg("Page loaded")

	return markdown, nil
}

// toMarkdown strips non-content elements and converts the remaining HTML
// to markdown. Conversion failures fall back to goquery's plain text.
func (l *pageLoader) toMarkdown(html, pageURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, nav, header, footer, iframe, svg").Remove()

	content := doc.Find("body")
	contentHTML, err := content.Html()
	if err != nil || strings.TrimSpace(contentHTML) == "" {
		return strings.TrimSpace(doc.Text()), nil
	}

	converter := md.NewConverter(pageURL, true, nil)
	markdown, err := converter.ConvertString(contentHTML)
	if err != nil {
		l.logger.Warn().Err(err).Str("url", pageURL).Msg("Markdown conversion failed, using plain text")
		return strings.TrimSpace(content.Text()), nil
	}

	return strings.TrimSpace(markdown), nil
}
