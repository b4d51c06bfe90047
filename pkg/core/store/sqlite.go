package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"finreport/pkg/models"
)

// SQLiteStore is the default single-process cache backend, a local cache.db
// file. Schema matches the legacy cache layout so existing databases remain
// readable.
type SQLiteStore struct {
	db *sql.DB
}

// Ensure interface compliance
var _ Store = (*SQLiteStore)(nil)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS company_info (
	stock_code TEXT PRIMARY KEY,
	company_name TEXT,
	company_full_name TEXT,
	industry_category TEXT,
	stock_exchange TEXT,
	chairman TEXT,
	general_manager TEXT,
	board_secretary TEXT,
	website TEXT,
	address TEXT,
	registered_capital TEXT,
	employees_number INTEGER,
	company_profile TEXT,
	business_scope TEXT
);
CREATE TABLE IF NOT EXISTS company_report (
	report_id TEXT PRIMARY KEY,
	stock_code TEXT,
	date TEXT,
	title TEXT,
	content TEXT,
	core_content TEXT,
	summary TEXT
);
CREATE TABLE IF NOT EXISTS news (
	news_url TEXT PRIMARY KEY,
	news_title TEXT,
	news_author TEXT,
	news_time TEXT,
	stock_code TEXT,
	news_content TEXT,
	news_summary TEXT,
	dec_response TEXT,
	news_decision INTEGER
);
CREATE TABLE IF NOT EXISTS announcement (
	url TEXT PRIMARY KEY,
	date TEXT,
	title TEXT,
	content TEXT,
	stock_code TEXT
);
`

// NewSQLiteStore opens (creating if necessary) the cache database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) GetProfile(ctx context.Context, securityID string) (*models.CompanyProfile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT stock_code, company_name, company_full_name, industry_category,
		       stock_exchange, chairman, general_manager, board_secretary,
		       website, address, registered_capital, employees_number,
		       company_profile, business_scope
		FROM company_info WHERE stock_code = ?`, securityID)

	var p models.CompanyProfile
	err := row.Scan(&p.SecurityID, &p.Name, &p.LegalName, &p.Industry,
		&p.Exchange, &p.Chairman, &p.GeneralMgr, &p.Secretary,
		&p.Website, &p.Address, &p.Capital, &p.Employees,
		&p.Profile, &p.BusinessScope)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read company_info: %v", ErrCacheUnavailable, err)
	}
	return &p, nil
}

func (s *SQLiteStore) PutProfile(ctx context.Context, p *models.CompanyProfile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO company_info
		(stock_code, company_name, company_full_name, industry_category,
		 stock_exchange, chairman, general_manager, board_secretary,
		 website, address, registered_capital, employees_number,
		 company_profile, business_scope)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.SecurityID, p.Name, p.LegalName, p.Industry,
		p.Exchange, p.Chairman, p.GeneralMgr, p.Secretary,
		p.Website, p.Address, p.Capital, p.Employees,
		p.Profile, p.BusinessScope)
	if err != nil {
		return fmt.Errorf("%w: write company_info: %v", ErrCacheUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) GetReport(ctx context.Context, reportID string) (*models.PeriodicReport, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT report_id, stock_code, date, title, content, core_content, summary
		FROM company_report WHERE report_id = ?`, reportID)

	var r models.PeriodicReport
	err := row.Scan(&r.ReportID, &r.SecurityID, &r.PublishDate, &r.Title,
		&r.Content, &r.CoreContent, &r.Summary)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read company_report: %v", ErrCacheUnavailable, err)
	}
	return &r, nil
}

func (s *SQLiteStore) PutReport(ctx context.Context, r *models.PeriodicReport) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO company_report
		(report_id, stock_code, date, title, content, core_content, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ReportID, r.SecurityID, r.PublishDate, r.Title,
		r.Content, r.CoreContent, r.Summary)
	if err != nil {
		return fmt.Errorf("%w: write company_report: %v", ErrCacheUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) GetNews(ctx context.Context, url string) (*models.NewsItem, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT news_url, news_title, news_author, news_time, stock_code,
		       news_content, news_summary, dec_response, news_decision
		FROM news WHERE news_url = ?`, url)
	n, err := scanNews(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read news: %v", ErrCacheUnavailable, err)
	}
	return n, nil
}

func (s *SQLiteStore) GetNewsRange(ctx context.Context, securityID string, start, end time.Time) ([]models.NewsItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT news_url, news_title, news_author, news_time, stock_code,
		       news_content, news_summary, dec_response, news_decision
		FROM news
		WHERE stock_code = ? AND news_time >= ? AND news_time <= ?
		ORDER BY news_time`,
		securityID, start.Format(timeLayout), end.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("%w: query news range: %v", ErrCacheUnavailable, err)
	}
	defer rows.Close()

	var items []models.NewsItem
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan news row: %v", ErrCacheUnavailable, err)
		}
		items = append(items, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate news range: %v", ErrCacheUnavailable, err)
	}
	return items, nil
}

func (s *SQLiteStore) PutNews(ctx context.Context, n *models.NewsItem) error {
	decision := 0
	if n.Decision {
		decision = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO news
		(news_url, news_title, news_author, news_time, stock_code,
		 news_content, news_summary, dec_response, news_decision)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.URL, n.Title, n.Author, n.PublishedAt.Format(timeLayout), n.SecurityID,
		n.Content, n.Summary, n.DecisionRaw, decision)
	if err != nil {
		return fmt.Errorf("%w: write news: %v", ErrCacheUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) GetAnnouncement(ctx context.Context, url string) (*models.Announcement, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT url, date, title, content, stock_code
		FROM announcement WHERE url = ?`, url)

	var a models.Announcement
	err := row.Scan(&a.URL, &a.Date, &a.Title, &a.Content, &a.SecurityID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read announcement: %v", ErrCacheUnavailable, err)
	}
	return &a, nil
}

func (s *SQLiteStore) PutAnnouncement(ctx context.Context, a *models.Announcement) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO announcement (url, date, title, content, stock_code)
		VALUES (?, ?, ?, ?, ?)`,
		a.URL, a.Date, a.Title, a.Content, a.SecurityID)
	if err != nil {
		return fmt.Errorf("%w: write announcement: %v", ErrCacheUnavailable, err)
	}
	return nil
}

const timeLayout = "2006-01-02 15:04:05"

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanNews(row scanner) (*models.NewsItem, error) {
	var n models.NewsItem
	var ts string
	var decision int
	err := row.Scan(&n.URL, &n.Title, &n.Author, &ts, &n.SecurityID,
		&n.Content, &n.Summary, &n.DecisionRaw, &decision)
	if err != nil {
		return nil, err
	}
	n.PublishedAt, _ = time.Parse(timeLayout, ts)
	n.Decision = decision == 1
	return &n, nil
}
