// Package sources defines the provider-facing pull interface and its HTTP
// implementation. Adapters return raw records only; caching and enrichment
// live in the acquirer.
package sources

import (
	"context"
	"errors"

	"finreport/pkg/models"
)

// ErrSourceUnavailable marks a transport or parse failure from a provider.
// Recoverable by the caller via retry or by proceeding with degraded input;
// the acquirer never retries internally.
var ErrSourceUnavailable = errors.New("source unavailable")

// RawProfile is the provider's company profile response before it is mapped
// onto a cache record.
type RawProfile struct {
	SecurityID    string
	Name          string
	LegalName     string
	Industry      string
	Exchange      string
	Chairman      string
	GeneralMgr    string
	Secretary     string
	Website       string
	Address       string
	Capital       string
	Employees     int
	Profile       string
	BusinessScope string
}

// ReportCandidate is one entry from a filings listing. Content is fetched
// separately so the acquirer can skip candidates already cached.
type ReportCandidate struct {
	SecurityID  string
	Year        int
	Period      models.Period
	Title       string
	PublishDate string // YYYY-MM-DD
	URL         string
}

// NewsCandidate is one entry from a news listing.
type NewsCandidate struct {
	URL         string
	Title       string
	Author      string
	PublishedAt string // "2006-01-02 15:04:05"
}

// AnnouncementCandidate is one entry from an exchange announcement listing.
type AnnouncementCandidate struct {
	URL   string
	Title string
	Date  string // YYYY-MM-DD
}

// PriceRange bounds a price-series request.
type PriceRange struct {
	Start string // YYYY-MM-DD
	End   string // YYYY-MM-DD
}

// Adapter is the pull interface every provider implements. Each call may fail
// with a transport-level error wrapping ErrSourceUnavailable.
type Adapter interface {
	FetchProfile(ctx context.Context, securityID string) (*RawProfile, error)
	ListReports(ctx context.Context, securityID string, year int) ([]ReportCandidate, error)
	FetchReportContent(ctx context.Context, candidate ReportCandidate) (string, error)
	ListNews(ctx context.Context, securityID string, page int) ([]NewsCandidate, error)
	FetchNewsContent(ctx context.Context, url string) (string, error)
	ListAnnouncements(ctx context.Context, securityID string, page int) ([]AnnouncementCandidate, error)
	FetchAnnouncementContent(ctx context.Context, url string) (string, error)
	// FetchPriceSeries returns the series sorted by date with closes
	// already rebased to 100 at the first observation.
	FetchPriceSeries(ctx context.Context, symbol string, r PriceRange) ([]models.PricePoint, error)
	FetchFinancialStatements(ctx context.Context, securityID string) (*models.FinancialStatements, error)
}
