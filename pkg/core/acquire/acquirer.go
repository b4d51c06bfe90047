// Package acquire implements the cache-first data-acquisition layer. Every
// entity lookup follows the same shape: check the cache, on a miss pull from
// the source adapter, enrich where the record requires it, write the record
// back best-effort, and return the constructed record directly.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"finreport/pkg/core/llm"
	"finreport/pkg/core/prompt"
	"finreport/pkg/core/sources"
	"finreport/pkg/core/store"
	"finreport/pkg/models"
)

// ErrEnrichmentFailed marks a text-generation failure while transforming a
// fetched record. The record is not cached and the entity's acquisition is
// aborted.
var ErrEnrichmentFailed = errors.New("enrichment failed")

// decisionMarker is the terminal verdict token the news-decision prompt asks
// the model to emit.
const decisionMarker = "[[[YES]]]"

const dateLayout = "2006-01-02"
const newsTimeLayout = "2006-01-02 15:04:05"

// Config controls acquisition scope for one run.
type Config struct {
	Year               int    // fiscal year of the periodic report; 0 derives year-1 from the analysis date
	NewsWindowDays     int    // news lookback from the analysis date (default 30)
	PriceWindowDays    int    // price-series lookback from the analysis date (default 365)
	NewsPages          int    // news listing pages to walk (default 3)
	AnnouncementPages  int    // announcement listing pages to walk (default 1)
	BenchmarkSymbol    string // index symbol for the benchmark series
	CachedNewsComplete bool   // treat a non-empty cached news range as complete
}

func (c *Config) applyDefaults() {
	if c.NewsWindowDays <= 0 {
		c.NewsWindowDays = 30
	}
	if c.PriceWindowDays <= 0 {
		c.PriceWindowDays = 365
	}
	if c.NewsPages <= 0 {
		c.NewsPages = 3
	}
	if c.AnnouncementPages <= 0 {
		c.AnnouncementPages = 1
	}
}

// Acquirer pulls typed entities through the cache.
type Acquirer struct {
	store    store.Store
	source   sources.Adapter
	provider llm.Provider
	prompts  *prompt.Registry
	cfg      Config
}

// New creates an Acquirer over the given cache, source adapter and generation
// provider.
func New(st store.Store, src sources.Adapter, provider llm.Provider, cfg Config) *Acquirer {
	cfg.applyDefaults()
	return &Acquirer{
		store:    st,
		source:   src,
		provider: provider,
		prompts:  prompt.Get(),
		cfg:      cfg,
	}
}

// Profile returns the company profile, cache-first. A cache I/O failure is
// treated as a miss, never as fatal.
func (a *Acquirer) Profile(ctx context.Context, securityID string) (*models.CompanyProfile, error) {
	cached, err := a.store.GetProfile(ctx, securityID)
	if err != nil {
		fmt.Printf("Warning: profile cache read failed, treating as miss: %v\n", err)
	} else if cached != nil {
		return cached, nil
	}

	raw, err := a.source.FetchProfile(ctx, securityID)
	if err != nil {
		return nil, fmt.Errorf("fetch profile for %s: %w", securityID, err)
	}

	p := &models.CompanyProfile{
		SecurityID:    securityID,
		Name:          raw.Name,
		LegalName:     raw.LegalName,
		Industry:      raw.Industry,
		Exchange:      raw.Exchange,
		Chairman:      raw.Chairman,
		GeneralMgr:    raw.GeneralMgr,
		Secretary:     raw.Secretary,
		Website:       raw.Website,
		Address:       raw.Address,
		Capital:       raw.Capital,
		Employees:     raw.Employees,
		Profile:       raw.Profile,
		BusinessScope: raw.BusinessScope,
	}
	if err := a.store.PutProfile(ctx, p); err != nil {
		fmt.Printf("Warning: profile cache write failed: %v\n", err)
	}
	return p, nil
}

// Report returns the periodic report for the fiscal year, cache-first.
// Lookup order: the annual report id, then the semiannual id, then the
// filings listing, re-checking the cache per candidate before downloading.
// No candidate at all yields the empty-report sentinel, not an error.
func (a *Acquirer) Report(ctx context.Context, securityID string, year int) (*models.PeriodicReport, error) {
	for _, period := range []models.Period{models.PeriodAnnual, models.PeriodSemiannual} {
		id := models.ReportID(securityID, year, period)
		cached, err := a.store.GetReport(ctx, id)
		if err != nil {
			fmt.Printf("Warning: report cache read failed for %s, treating as miss: %v\n", id, err)
			continue
		}
		if cached != nil {
			return cached, nil
		}
	}

	candidates, err := a.source.ListReports(ctx, securityID, year)
	if err != nil {
		return nil, fmt.Errorf("list reports for %s year %d: %w", securityID, year, err)
	}
	if len(candidates) == 0 {
		fmt.Printf("No filings found for %s year %d, proceeding with empty report\n", securityID, year)
		return models.EmptyReport(securityID, year), nil
	}

	// Prefer the annual filing when the listing carries both periods.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Period == models.PeriodAnnual && candidates[j].Period != models.PeriodAnnual
	})

	for _, cand := range candidates {
		id := models.ReportID(securityID, cand.Year, cand.Period)
		cached, err := a.store.GetReport(ctx, id)
		if err != nil {
			fmt.Printf("Warning: report cache read failed for %s, treating as miss: %v\n", id, err)
		} else if cached != nil {
			return cached, nil
		}

		content, err := a.source.FetchReportContent(ctx, cand)
		if err != nil {
			fmt.Printf("Warning: fetch report %s failed, trying next candidate: %v\n", cand.Title, err)
			continue
		}

		core := sources.ExtractCoreContent(content)
		summary, err := a.summarizeReport(ctx, securityID, cand, core)
		if err != nil {
			return nil, err
		}

		r := &models.PeriodicReport{
			ReportID:    id,
			SecurityID:  securityID,
			PublishDate: cand.PublishDate,
			Title:       cand.Title,
			Content:     content,
			CoreContent: core,
			Summary:     summary,
		}
		if err := a.store.PutReport(ctx, r); err != nil {
			fmt.Printf("Warning: report cache write failed for %s: %v\n", id, err)
		}
		return r, nil
	}

	fmt.Printf("All filing candidates failed for %s year %d, proceeding with empty report\n", securityID, year)
	return models.EmptyReport(securityID, year), nil
}

func (a *Acquirer) summarizeReport(ctx context.Context, securityID string, cand sources.ReportCandidate, core string) (string, error) {
	user, err := a.prompts.Render("enrichment.report_summary", map[string]interface{}{
		"SecurityID": securityID,
		"Year":       cand.Year,
		"Period":     string(cand.Period),
		"Content":    core,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEnrichmentFailed, err)
	}
	system, _ := a.prompts.GetSystemPrompt("enrichment.report_summary")

	summary, err := a.provider.GenerateResponse(ctx, user, system, nil)
	if err != nil {
		return "", fmt.Errorf("%w: summarize report %s: %v", ErrEnrichmentFailed, cand.Title, err)
	}
	return strings.TrimSpace(summary), nil
}

// News returns the news items for the analysis window [start, end],
// cache-first. When CachedNewsComplete is set and the cached range is
// non-empty, the range is treated as complete and no adapter call is issued.
// Otherwise listings are walked with a per-item check-then-insert; items that
// fail enrichment are skipped and not cached.
func (a *Acquirer) News(ctx context.Context, securityID, companyName string, start, end time.Time) ([]models.NewsItem, error) {
	cached, err := a.store.GetNewsRange(ctx, securityID, start, end)
	if err != nil {
		fmt.Printf("Warning: news cache range read failed, treating as empty: %v\n", err)
		cached = nil
	}
	if a.cfg.CachedNewsComplete && len(cached) > 0 {
		fmt.Printf("News cache hit for %s: %d items in window, skipping source\n", securityID, len(cached))
		return cached, nil
	}

	items := make([]models.NewsItem, 0, len(cached))
	seen := make(map[string]bool, len(cached))
	for _, it := range cached {
		items = append(items, it)
		seen[it.URL] = true
	}

	for page := 1; page <= a.cfg.NewsPages; page++ {
		candidates, err := a.source.ListNews(ctx, securityID, page)
		if err != nil {
			return nil, fmt.Errorf("list news for %s page %d: %w", securityID, page, err)
		}
		if len(candidates) == 0 {
			break
		}
		for _, cand := range candidates {
			if seen[cand.URL] {
				continue
			}
			item, err := a.newsItem(ctx, securityID, companyName, cand)
			if err != nil {
				// A single dead link or failed transform drops that item,
				// not the whole listing.
				if errors.Is(err, ErrEnrichmentFailed) || errors.Is(err, sources.ErrSourceUnavailable) {
					fmt.Printf("Warning: skipping news item %s: %v\n", cand.URL, err)
					continue
				}
				return nil, err
			}
			if item == nil {
				continue
			}
			seen[item.URL] = true
			items = append(items, *item)
		}
	}
	return items, nil
}

// newsItem resolves a single listing entry: cache hit, or fetch + enrich +
// insert. Items published outside any parseable timestamp are dropped.
func (a *Acquirer) newsItem(ctx context.Context, securityID, companyName string, cand sources.NewsCandidate) (*models.NewsItem, error) {
	cached, err := a.store.GetNews(ctx, cand.URL)
	if err != nil {
		fmt.Printf("Warning: news cache read failed for %s, treating as miss: %v\n", cand.URL, err)
	} else if cached != nil {
		return cached, nil
	}

	published, err := time.Parse(newsTimeLayout, cand.PublishedAt)
	if err != nil {
		fmt.Printf("Warning: unparseable news timestamp %q for %s, dropping\n", cand.PublishedAt, cand.URL)
		return nil, nil
	}

	content, err := a.source.FetchNewsContent(ctx, cand.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch news content %s: %w", cand.URL, err)
	}

	summary, err := a.generate(ctx, "enrichment.news_summary", map[string]interface{}{
		"CompanyName": companyName,
		"Title":       cand.Title,
		"Content":     content,
	})
	if err != nil {
		return nil, err
	}

	decisionRaw, err := a.generate(ctx, "enrichment.news_decision", map[string]interface{}{
		"CompanyName": companyName,
		"SecurityID":  securityID,
		"Title":       cand.Title,
		"Content":     content,
	})
	if err != nil {
		return nil, err
	}

	item := &models.NewsItem{
		URL:         cand.URL,
		Title:       cand.Title,
		Author:      cand.Author,
		PublishedAt: published,
		SecurityID:  securityID,
		Content:     content,
		Summary:     summary,
		Decision:    strings.Contains(decisionRaw, decisionMarker),
		DecisionRaw: decisionRaw,
	}
	if err := a.store.PutNews(ctx, item); err != nil {
		fmt.Printf("Warning: news cache write failed for %s: %v\n", item.URL, err)
	}
	return item, nil
}

// Announcements returns exchange announcements, cache-first per item. The
// listing is always issued; a fetched listing is never treated as complete.
func (a *Acquirer) Announcements(ctx context.Context, securityID string) ([]models.Announcement, error) {
	var out []models.Announcement
	for page := 1; page <= a.cfg.AnnouncementPages; page++ {
		candidates, err := a.source.ListAnnouncements(ctx, securityID, page)
		if err != nil {
			return nil, fmt.Errorf("list announcements for %s page %d: %w", securityID, page, err)
		}
		if len(candidates) == 0 {
			break
		}
		for _, cand := range candidates {
			cached, err := a.store.GetAnnouncement(ctx, cand.URL)
			if err != nil {
				fmt.Printf("Warning: announcement cache read failed for %s, treating as miss: %v\n", cand.URL, err)
			} else if cached != nil {
				out = append(out, *cached)
				continue
			}

			content, err := a.source.FetchAnnouncementContent(ctx, cand.URL)
			if err != nil {
				return nil, fmt.Errorf("fetch announcement %s: %w", cand.URL, err)
			}
			ann := models.Announcement{
				URL:        cand.URL,
				Date:       cand.Date,
				Title:      cand.Title,
				Content:    content,
				SecurityID: securityID,
			}
			if err := a.store.PutAnnouncement(ctx, &ann); err != nil {
				fmt.Printf("Warning: announcement cache write failed for %s: %v\n", ann.URL, err)
			}
			out = append(out, ann)
		}
	}
	return out, nil
}

// PriceSeries fetches the close series for symbol over the window ending at
// date. The adapter returns the series sorted and rebased; price data is not
// cached, it is cheap and changes daily.
func (a *Acquirer) PriceSeries(ctx context.Context, symbol string, date time.Time) ([]models.PricePoint, error) {
	r := sources.PriceRange{
		Start: date.AddDate(0, 0, -a.cfg.PriceWindowDays).Format(dateLayout),
		End:   date.Format(dateLayout),
	}
	points, err := a.source.FetchPriceSeries(ctx, symbol, r)
	if err != nil {
		return nil, fmt.Errorf("fetch price series for %s: %w", symbol, err)
	}
	return points, nil
}

// Financials fetches the three tabular statements. Not cached; refetched per
// run.
func (a *Acquirer) Financials(ctx context.Context, securityID string) (*models.FinancialStatements, error) {
	fs, err := a.source.FetchFinancialStatements(ctx, securityID)
	if err != nil {
		return nil, fmt.Errorf("fetch financial statements for %s: %w", securityID, err)
	}
	return fs, nil
}

// Bundle acquires every entity kind for one run. Degradable entities (the
// periodic report, announcements, price series) fall back to empty values on
// source failure; the profile, news and financial statements have no
// meaningful default and abort the run.
func (a *Acquirer) Bundle(ctx context.Context, securityID, date string) (*models.Bundle, error) {
	analysisDate, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("invalid analysis date %q: %w", date, err)
	}

	year := a.cfg.Year
	if year == 0 {
		year = analysisDate.Year() - 1
	}

	fmt.Printf("Acquiring data bundle for %s as of %s\n", securityID, date)

	profile, err := a.Profile(ctx, securityID)
	if err != nil {
		return nil, err
	}

	report, err := a.Report(ctx, securityID, year)
	if err != nil {
		if !errors.Is(err, sources.ErrSourceUnavailable) {
			return nil, err
		}
		fmt.Printf("Warning: report acquisition failed, degrading to empty report: %v\n", err)
		report = models.EmptyReport(securityID, year)
	}

	newsEnd := analysisDate.Add(24*time.Hour - time.Second)
	newsStart := analysisDate.AddDate(0, 0, -a.cfg.NewsWindowDays)
	news, err := a.News(ctx, securityID, profile.Name, newsStart, newsEnd)
	if err != nil {
		return nil, err
	}

	announcements, err := a.Announcements(ctx, securityID)
	if err != nil {
		fmt.Printf("Warning: announcement acquisition failed, proceeding without: %v\n", err)
		announcements = nil
	}

	prices, err := a.PriceSeries(ctx, securityID, analysisDate)
	if err != nil {
		fmt.Printf("Warning: price series unavailable: %v\n", err)
		prices = nil
	}

	var benchmark []models.PricePoint
	if a.cfg.BenchmarkSymbol != "" {
		benchmark, err = a.PriceSeries(ctx, a.cfg.BenchmarkSymbol, analysisDate)
		if err != nil {
			fmt.Printf("Warning: benchmark series unavailable: %v\n", err)
			benchmark = nil
		}
	}

	financials, err := a.Financials(ctx, securityID)
	if err != nil {
		return nil, err
	}

	return &models.Bundle{
		SecurityID:    securityID,
		Date:          date,
		Profile:       profile,
		Report:        report,
		News:          news,
		Announcements: announcements,
		Prices:        prices,
		Benchmark:     benchmark,
		Financials:    financials,
	}, nil
}

func (a *Acquirer) generate(ctx context.Context, promptID string, vars map[string]interface{}) (string, error) {
	user, err := a.prompts.Render(promptID, vars)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEnrichmentFailed, err)
	}
	system, _ := a.prompts.GetSystemPrompt(promptID)

	out, err := a.provider.GenerateResponse(ctx, user, system, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrEnrichmentFailed, promptID, err)
	}
	return strings.TrimSpace(out), nil
}
