package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/themescrape/themescrape/internal/common"
	"github.com/themescrape/themescrape/models"
	"github.com/themescrape/themescrape/pkg/analytics"
	"github.com/themescrape/themescrape/pkg/artifacts"
	"github.com/themescrape/themescrape/pkg/caching"
	"github.com/themescrape/themescrape/pkg/db"
	"github.com/themescrape/themescrape/pkg/fetcher"
	"github.com/themescrape/themescrape/pkg/filter"
	"github.com/themescrape/themescrape/pkg/sampler"
	"github.com/themescrape/themescrape/pkg/stylesheet"
	"github.com/themescrape/themescrape/pkg/themedetect"
)

func run(logger *slog.Logger, config *models.Config, manager *artifacts.Manager, forceFetch bool, mode models.SampleMode, strategy *filter.Strategy, database *db.DB) ([]Result, map[string]int, error) {
	f := fetcher.NewFetcher()

	cssCache, err := caching.NewCache(filepath.Join(manager.BaseDir(), "css-cache"), manager.MaxAge())
	if err != nil {
		logger.Warn("Failed to initialize stylesheet cache, fetching sheets fresh", "error", err)
		cssCache = nil
	}

	logger.Info("Starting concurrent scrape phase", "url_count", len(config.URLs), "workers", config.WorkerCount, "force_fetch", forceFetch, "max_age", manager.MaxAge())
	var wg sync.WaitGroup
	jobs := make(chan Job, len(config.URLs))
	results := make(chan Result, len(config.URLs))

	for w := 1; w <= config.WorkerCount; w++ {
		wg.Add(1)
		go worker(w, logger, manager, f, cssCache, config.Trust, &wg, jobs, results, forceFetch, strategy, database)
	}

	for _, rawURL := range config.URLs {
		jobs <- Job{URL: rawURL, Mode: mode}
	}
	close(jobs)

	wg.Wait()
	close(results)
	logger.Info("All scrape workers finished")

	allResults := make([]Result, 0, len(config.URLs))
	var runErr error
	for result := range results {
		allResults = append(allResults, result)
		if result.Error != nil {
			runErr = fmt.Errorf("one or more jobs failed")
		}
	}

	logger.Info("Starting color aggregation phase")
	intermediateResults := []map[string]int{}
	for _, result := range allResults {
		if result.ColorCounts != nil {
			intermediateResults = append(intermediateResults, result.ColorCounts)
		}
	}
	finalColorCounts := analytics.Reduce(intermediateResults)

	return allResults, finalColorCounts, runErr
}

func worker(id int, logger *slog.Logger, manager *artifacts.Manager, f *fetcher.Fetcher, cssCache *caching.Cache, trust models.TrustConfig, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result, forceFetch bool, strategy *filter.Strategy, database *db.DB) {
	defer wg.Done()
	for job := range jobs {
		logger.Info("Worker started job", "worker_id", id, "url", job.URL)

		var rawHTML []byte
		var err error
		var fresh bool
		var sourceID int64
		httpMeta := &themedetect.HTTPMetadata{}

		// Insert or get source ID from database
		if database != nil {
			sourceID, err = database.InsertSource(job.URL)
			if err != nil {
				logger.Warn("Failed to insert source to DB", "url", job.URL, "error", err)
			}
		}

		if !forceFetch {
			rawHTML, fresh, err = manager.GetRawHTML(job.URL)
			if err != nil {
				logger.Warn("Error checking artifact storage, fetching fresh", "url", job.URL, "error", err)
			}
		}

		if fresh {
			logger.Info("Raw HTML found in storage, using it", "worker_id", id, "url", job.URL)
			httpMeta.StatusCode = 200 // Assume success from cache
		} else {
			logger.Info("Raw HTML not found or stale, fetching from network", "worker_id", id, "url", job.URL)
			resp, fetchErr := f.Fetch(context.Background(), job.URL)
			if fetchErr != nil {
				result := Result{URL: job.URL, SourceID: sourceID}
				logger.Error("Error fetching page", "worker_id", id, "url", job.URL, "error", fetchErr)
				result.Error = fetchErr
				result.ErrorType = classifyError(fetchErr.Error(), 0)

				// Record failed scrape in database
				if database != nil && sourceID > 0 {
					if dbErr := database.RecordScrape(sourceID, 0, "", "", ""); dbErr != nil {
						logger.Warn("Failed to record failed scrape to DB", "url", job.URL, "error", dbErr)
					}
				}

				results <- result
				continue
			}
			httpMeta.StatusCode = resp.StatusCode
			httpMeta.ContentType = resp.ContentType
			httpMeta.FinalURL = resp.FinalURL

			if resp.StatusCode >= 400 {
				result := Result{URL: job.URL, SourceID: sourceID, StatusCode: resp.StatusCode}
				logger.Error("Server rejected page request", "worker_id", id, "url", job.URL, "status_code", resp.StatusCode)
				result.Error = fmt.Errorf("HTTP %d", resp.StatusCode)
				result.ErrorType = "http_error"

				if database != nil && sourceID > 0 {
					if dbErr := database.RecordScrape(sourceID, resp.StatusCode, "", "", ""); dbErr != nil {
						logger.Warn("Failed to record failed scrape to DB", "url", job.URL, "error", dbErr)
					}
				}

				results <- result
				continue
			}
			rawHTML = resp.Body

			if err := manager.SetRawHTML(job.URL, rawHTML); err != nil {
				logger.Warn("Failed to store raw HTML artifact", "url", job.URL, "error", err)
			}
		}

		processPage(id, logger, job, rawHTML, httpMeta, manager, f, cssCache, trust, results, strategy, database, sourceID)
	}
}

func processPage(id int, logger *slog.Logger, job Job, rawHTML []byte, httpMeta *themedetect.HTTPMetadata, manager *artifacts.Manager, f *fetcher.Fetcher, cssCache *caching.Cache, trust models.TrustConfig, results chan<- Result, strategy *filter.Strategy, database *db.DB, sourceID int64) {
	result := Result{URL: job.URL, SourceID: sourceID, StatusCode: httpMeta.StatusCode}

	sampled, sampleErr := sampler.Sample(models.SampleRequest{
		URL:   job.URL,
		HTML:  rawHTML,
		Mode:  job.Mode,
		Trust: trust,
	})
	if sampleErr != nil {
		logger.Error("Error sampling page", "worker_id", id, "url", job.URL, "error", sampleErr)
		result.Error = sampleErr
		result.ErrorType = "parse_error"
		results <- result
		return
	}

	computed := sampled.Set
	exact := models.ObservationSet{
		SourceID:    job.URL,
		CapturedAt:  computed.CapturedAt,
		TrustWeight: trust.Stylesheet,
		Exact:       true,
	}
	fonts := sampled.FontFamilies

	if job.Mode >= models.SampleModeInline {
		for _, block := range sampled.InlineCSS {
			sheet, err := stylesheet.Sample(job.URL, block, trust)
			if err != nil {
				logger.Warn("Skipping unparseable style block", "url", job.URL, "error", err)
				continue
			}
			exact.Fold(sheet.Set)
			fonts = append(fonts, sheet.FontFamilies...)
		}
	}

	if job.Mode >= models.SampleModeFull {
		for _, cssURL := range sampled.LinkedCSS {
			fonts = append(fonts, sampleLinkedSheet(logger, job.URL, cssURL, f, cssCache, trust, &exact, false)...)
		}
	}

	computed = filter.Apply(computed, strategy)
	exact = filter.Apply(exact, strategy)

	bundle := models.SourceObservations{Computed: computed}
	if len(exact.Observations) > 0 {
		bundle.Exact = &exact
	}
	combined := bundle.Combined()

	meta := themedetect.Detect(job.URL, rawHTML, combined, httpMeta)
	meta.ContentHash = common.ContentHash(rawHTML)
	meta.FontFamilies = dedupeFonts(fonts)
	meta.Frameworks = sampled.Frameworks

	// The metadata rides on the computed set so resolution can reach
	// fonts and theme without a second artifact read.
	bundle.Computed.Meta = meta
	combined.Meta = meta

	// Store observations and metadata using source-centric storage
	if err := manager.SetObservations(job.URL, bundle); err != nil {
		logger.Warn("Failed to store observations artifact", "url", job.URL, "error", err)
	} else if dir, dirErr := manager.SourceDir(job.URL); dirErr == nil {
		result.FilePath = filepath.Join(dir, artifacts.ObservationsFile)
	}
	if err := manager.SetSourceMetadata(job.URL, meta); err != nil {
		logger.Warn("Failed to store source metadata", "url", job.URL, "error", err)
	}

	if database != nil && sourceID > 0 {
		if err := database.RecordScrape(sourceID, httpMeta.StatusCode, meta.ContentHash, string(meta.Theme), meta.Language); err != nil {
			logger.Warn("Failed to record scrape to DB", "url", job.URL, "error", err)
		}
	}

	result.ColorCounts = analytics.Map(combined)
	result.SizeBytes = int64(len(rawHTML))
	result.Set = &combined
	result.Meta = &meta
	results <- result
	logger.Info("Worker finished processing", "worker_id", id, "url", job.URL, "colors", combined.Colors(), "dimensions", combined.Dimensions())
}

// sampleLinkedSheet fetches one stylesheet through the shared cache,
// folds its observations into exact, and returns any font stacks it
// declared. Imports are followed one level deep; deeper chains are
// rare and unbounded recursion on hostile pages is worse than missing
// them.
func sampleLinkedSheet(logger *slog.Logger, pageURL, cssURL string, f *fetcher.Fetcher, cssCache *caching.Cache, trust models.TrustConfig, exact *models.ObservationSet, imported bool) []string {
	var cssText []byte
	cached := false
	if cssCache != nil {
		cssText, cached = cssCache.Get(cssURL)
	}
	if !cached {
		body, err := f.FetchCSS(context.Background(), cssURL)
		if err != nil {
			logger.Warn("Failed to fetch linked stylesheet", "url", pageURL, "stylesheet", cssURL, "error", err)
			return nil
		}
		cssText = body
		if cssCache != nil {
			if err := cssCache.Set(cssURL, body); err != nil {
				logger.Warn("Failed to cache stylesheet", "stylesheet", cssURL, "error", err)
			}
		}
	}

	sheet, err := stylesheet.Sample(pageURL, string(cssText), trust)
	if err != nil {
		logger.Warn("Skipping unparseable stylesheet", "url", pageURL, "stylesheet", cssURL, "error", err)
		return nil
	}
	exact.Fold(sheet.Set)
	fonts := sheet.FontFamilies

	if !imported {
		for _, ref := range sheet.Imports {
			target, ok := resolveRef(cssURL, ref)
			if !ok {
				continue
			}
			fonts = append(fonts, sampleLinkedSheet(logger, pageURL, target, f, cssCache, trust, exact, true)...)
		}
	}
	return fonts
}

// resolveRef resolves an @import target against the sheet that named it.
func resolveRef(baseURL, ref string) (string, bool) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", false
	}
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(r)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	return resolved.String(), true
}

// dedupeFonts keeps first occurrences, matching case-insensitively.
func dedupeFonts(fonts []string) []string {
	seen := make(map[string]bool, len(fonts))
	var out []string
	for _, f := range fonts {
		key := strings.ToLower(strings.TrimSpace(f))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	return out
}
