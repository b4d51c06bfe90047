package models

import (
	"fmt"
	"time"
)

// Period identifies which filing of a fiscal year a periodic report covers.
type Period string

const (
	PeriodAnnual     Period = "annual"
	PeriodSemiannual Period = "semiannual"
)

// ReportID derives the cache key for a periodic report. IDs are fully
// reconstructible from (security, year, period); no surrogate keys.
// Annual reports map to Q4, semiannual to Q2, matching the provider's
// filing calendar.
func ReportID(securityID string, year int, period Period) string {
	quarter := "Q4"
	if period == PeriodSemiannual {
		quarter = "Q2"
	}
	return fmt.Sprintf("%s_%d_%s", securityID, year, quarter)
}

// CompanyProfile is the static company record, keyed by SecurityID.
// Written once on first successful fetch and never mutated.
type CompanyProfile struct {
	SecurityID    string `json:"security_id"`
	Name          string `json:"name"`
	LegalName     string `json:"legal_name"`
	Industry      string `json:"industry"`
	Exchange      string `json:"exchange"`
	Chairman      string `json:"chairman"`
	GeneralMgr    string `json:"general_manager"`
	Secretary     string `json:"board_secretary"`
	Website       string `json:"website"`
	Address       string `json:"address"`
	Capital       string `json:"registered_capital"`
	Employees     int    `json:"employees"`
	Profile       string `json:"profile"`
	BusinessScope string `json:"business_scope"`
}

// PeriodicReport is a cached filing, keyed by ReportID(...).
type PeriodicReport struct {
	ReportID    string `json:"report_id"`
	SecurityID  string `json:"security_id"`
	PublishDate string `json:"publish_date"` // YYYY-MM-DD
	Title       string `json:"title"`
	Content     string `json:"content"`
	CoreContent string `json:"core_content"` // management discussion extract
	Summary     string `json:"summary"`      // generated
}

// Empty reports whether this is the empty-report sentinel returned when no
// filing exists for the requested year.
func (r *PeriodicReport) Empty() bool {
	return r.Content == "" && r.Title == ""
}

// EmptyReport is the well-defined sentinel for a year with no filing.
// Downstream stages proceed with degraded input instead of failing.
func EmptyReport(securityID string, year int) *PeriodicReport {
	return &PeriodicReport{
		ReportID:   ReportID(securityID, year, PeriodAnnual),
		SecurityID: securityID,
	}
}

// NewsItem is a cached news article, keyed by URL. The summary and the
// affects-price decision are derived once, at insert time, and never
// recomputed.
type NewsItem struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	PublishedAt time.Time `json:"published_at"`
	SecurityID  string    `json:"security_id"`
	Content     string    `json:"content"`
	Summary     string    `json:"summary"`       // generated
	Decision    bool      `json:"news_decision"` // "affects price"
	DecisionRaw string    `json:"dec_response"`  // raw decision rationale
}

// Announcement is a cached exchange announcement, keyed by URL.
type Announcement struct {
	URL        string `json:"url"`
	Date       string `json:"date"` // YYYY-MM-DD
	Title      string `json:"title"`
	Content    string `json:"content"`
	SecurityID string `json:"security_id"`
}

// PricePoint is one OHLCV observation plus the close rebased so the first
// in-range observation equals 100.
type PricePoint struct {
	Date         string  `json:"date"` // YYYY-MM-DD
	Open         float64 `json:"open"`
	High         float64 `json:"high"`
	Low          float64 `json:"low"`
	Close        float64 `json:"close"`
	Volume       float64 `json:"volume"`
	RebasedClose float64 `json:"rebased_close"`
}

// StatementRow is one line item of a financial statement across fiscal years.
type StatementRow struct {
	Item  string             `json:"item"`
	Years map[string]float64 `json:"years"` // fiscal year -> value
}

// FinancialStatements holds the three tabular statements as fetched from the
// market-data provider. Not cached; refetched per run.
type FinancialStatements struct {
	Income   []StatementRow `json:"income"`
	Balance  []StatementRow `json:"balance"`
	CashFlow []StatementRow `json:"cashflow"`
}

// Bundle is the typed result of one full acquisition: everything the
// analysis pipeline reads. Source-level data only.
type Bundle struct {
	SecurityID    string               `json:"security_id"`
	Date          string               `json:"date"` // analysis date, YYYY-MM-DD
	Profile       *CompanyProfile      `json:"profile"`
	Report        *PeriodicReport      `json:"report"`
	News          []NewsItem           `json:"news"`
	Announcements []Announcement       `json:"announcements"`
	Prices        []PricePoint         `json:"prices"`
	Benchmark     []PricePoint         `json:"benchmark"`
	Financials    *FinancialStatements `json:"financials"`
}
