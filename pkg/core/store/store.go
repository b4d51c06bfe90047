// Package store implements the key-addressed cache for source-level entities.
// Four record kinds are persisted: company profiles, periodic reports, news
// items and announcements. Records are write-once: a duplicate-key put is a
// no-op, and there is no update or delete path.
package store

import (
	"context"
	"errors"
	"time"

	"finreport/pkg/models"
)

// ErrCacheUnavailable marks a store I/O failure. Callers treat it as a cache
// miss and fall back to the source, never as fatal.
var ErrCacheUnavailable = errors.New("cache unavailable")

// Store is the cache contract. Get methods return (nil, nil) on a clean miss
// and wrap ErrCacheUnavailable on I/O failure. Put methods are idempotent.
type Store interface {
	GetProfile(ctx context.Context, securityID string) (*models.CompanyProfile, error)
	GetReport(ctx context.Context, reportID string) (*models.PeriodicReport, error)
	GetNews(ctx context.Context, url string) (*models.NewsItem, error)
	GetNewsRange(ctx context.Context, securityID string, start, end time.Time) ([]models.NewsItem, error)
	GetAnnouncement(ctx context.Context, url string) (*models.Announcement, error)

	PutProfile(ctx context.Context, p *models.CompanyProfile) error
	PutReport(ctx context.Context, r *models.PeriodicReport) error
	PutNews(ctx context.Context, n *models.NewsItem) error
	PutAnnouncement(ctx context.Context, a *models.Announcement) error

	Close() error
}
