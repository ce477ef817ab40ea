// Package fetcher wraps the HTTP client used for page and stylesheet
// retrieval. Page fetches report status codes and redirect chains to
// the caller instead of turning them into errors; only transport
// failures error out.
package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// UserAgent identifies the scraper. Some CDNs serve degraded pages
	// to the default Go client string.
	UserAgent = "themescrape/1.0 (+https://github.com/themescrape/themescrape)"

	DefaultTimeout = 30 * time.Second

	maxRedirects = 10
)

type Fetcher struct {
	client *http.Client
}

func NewFetcher() *Fetcher {
	return NewFetcherWithTimeout(DefaultTimeout)
}

func NewFetcherWithTimeout(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Response carries everything the scrape pipeline wants from one page
// request. A non-2xx status is not an error here; the caller decides
// what to do with it.
type Response struct {
	Body          []byte
	StatusCode    int
	ContentType   string
	FinalURL      string
	RedirectChain []string
}

// Fetch retrieves a page, following up to ten redirects and recording
// each hop.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	// Shallow copy so the redirect hook stays per-call
	var chain []string
	client := *f.client
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		chain = append(chain, req.URL.String())
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		Body:          body,
		StatusCode:    resp.StatusCode,
		ContentType:   resp.Header.Get("Content-Type"),
		FinalURL:      resp.Request.URL.String(),
		RedirectChain: chain,
	}, nil
}

// FetchCSS retrieves a linked stylesheet. Unlike page fetches a non-OK
// status is an error; a missing sheet just means fewer observations.
func (f *Fetcher) FetchCSS(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/css,*/*;q=0.1")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stylesheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch stylesheet, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read stylesheet body: %w", err)
	}
	return body, nil
}

// GetDocument fetches a page and parses it, for callers that only
// need the DOM.
func (f *Fetcher) GetDocument(ctx context.Context, rawURL string) (*goquery.Document, error) {
	resp, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch HTML, status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}
