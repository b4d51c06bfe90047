package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"finreport/pkg/models"
)

// PostgresStore is the shared-cache backend for deployments where several
// hosts reuse one cache. Same write-once contract as SQLiteStore, enforced
// with ON CONFLICT DO NOTHING.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Ensure interface compliance
var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects using a DATABASE_URL-style connection string and
// ensures the four cache tables exist.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect cache db: %w", err)
	}
	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS company_info (
			stock_code TEXT PRIMARY KEY,
			company_name TEXT, company_full_name TEXT, industry_category TEXT,
			stock_exchange TEXT, chairman TEXT, general_manager TEXT,
			board_secretary TEXT, website TEXT, address TEXT,
			registered_capital TEXT, employees_number INTEGER,
			company_profile TEXT, business_scope TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS company_report (
			report_id TEXT PRIMARY KEY,
			stock_code TEXT, date TEXT, title TEXT,
			content TEXT, core_content TEXT, summary TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS news (
			news_url TEXT PRIMARY KEY,
			news_title TEXT, news_author TEXT, news_time TIMESTAMPTZ,
			stock_code TEXT, news_content TEXT, news_summary TEXT,
			dec_response TEXT, news_decision BOOLEAN
		)`,
		`CREATE TABLE IF NOT EXISTS announcement (
			url TEXT PRIMARY KEY,
			date TEXT, title TEXT, content TEXT, stock_code TEXT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init cache schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) GetProfile(ctx context.Context, securityID string) (*models.CompanyProfile, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT stock_code, company_name, company_full_name, industry_category,
		       stock_exchange, chairman, general_manager, board_secretary,
		       website, address, registered_capital, employees_number,
		       company_profile, business_scope
		FROM company_info WHERE stock_code = $1`, securityID)

	var p models.CompanyProfile
	err := row.Scan(&p.SecurityID, &p.Name, &p.LegalName, &p.Industry,
		&p.Exchange, &p.Chairman, &p.GeneralMgr, &p.Secretary,
		&p.Website, &p.Address, &p.Capital, &p.Employees,
		&p.Profile, &p.BusinessScope)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read company_info: %v", ErrCacheUnavailable, err)
	}
	return &p, nil
}

func (s *PostgresStore) PutProfile(ctx context.Context, p *models.CompanyProfile) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO company_info
		(stock_code, company_name, company_full_name, industry_category,
		 stock_exchange, chairman, general_manager, board_secretary,
		 website, address, registered_capital, employees_number,
		 company_profile, business_scope)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (stock_code) DO NOTHING`,
		p.SecurityID, p.Name, p.LegalName, p.Industry,
		p.Exchange, p.Chairman, p.GeneralMgr, p.Secretary,
		p.Website, p.Address, p.Capital, p.Employees,
		p.Profile, p.BusinessScope)
	if err != nil {
		return fmt.Errorf("%w: write company_info: %v", ErrCacheUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) GetReport(ctx context.Context, reportID string) (*models.PeriodicReport, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT report_id, stock_code, date, title, content, core_content, summary
		FROM company_report WHERE report_id = $1`, reportID)

	var r models.PeriodicReport
	err := row.Scan(&r.ReportID, &r.SecurityID, &r.PublishDate, &r.Title,
		&r.Content, &r.CoreContent, &r.Summary)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read company_report: %v", ErrCacheUnavailable, err)
	}
	return &r, nil
}

func (s *PostgresStore) PutReport(ctx context.Context, r *models.PeriodicReport) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO company_report
		(report_id, stock_code, date, title, content, core_content, summary)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (report_id) DO NOTHING`,
		r.ReportID, r.SecurityID, r.PublishDate, r.Title,
		r.Content, r.CoreContent, r.Summary)
	if err != nil {
		return fmt.Errorf("%w: write company_report: %v", ErrCacheUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) GetNews(ctx context.Context, url string) (*models.NewsItem, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT news_url, news_title, news_author, news_time, stock_code,
		       news_content, news_summary, dec_response, news_decision
		FROM news WHERE news_url = $1`, url)

	var n models.NewsItem
	err := row.Scan(&n.URL, &n.Title, &n.Author, &n.PublishedAt, &n.SecurityID,
		&n.Content, &n.Summary, &n.DecisionRaw, &n.Decision)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read news: %v", ErrCacheUnavailable, err)
	}
	return &n, nil
}

func (s *PostgresStore) GetNewsRange(ctx context.Context, securityID string, start, end time.Time) ([]models.NewsItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT news_url, news_title, news_author, news_time, stock_code,
		       news_content, news_summary, dec_response, news_decision
		FROM news
		WHERE stock_code = $1 AND news_time >= $2 AND news_time <= $3
		ORDER BY news_time`, securityID, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: query news range: %v", ErrCacheUnavailable, err)
	}
	defer rows.Close()

	var items []models.NewsItem
	for rows.Next() {
		var n models.NewsItem
		if err := rows.Scan(&n.URL, &n.Title, &n.Author, &n.PublishedAt, &n.SecurityID,
			&n.Content, &n.Summary, &n.DecisionRaw, &n.Decision); err != nil {
			return nil, fmt.Errorf("%w: scan news row: %v", ErrCacheUnavailable, err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate news range: %v", ErrCacheUnavailable, err)
	}
	return items, nil
}

func (s *PostgresStore) PutNews(ctx context.Context, n *models.NewsItem) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO news
		(news_url, news_title, news_author, news_time, stock_code,
		 news_content, news_summary, dec_response, news_decision)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (news_url) DO NOTHING`,
		n.URL, n.Title, n.Author, n.PublishedAt, n.SecurityID,
		n.Content, n.Summary, n.DecisionRaw, n.Decision)
	if err != nil {
		return fmt.Errorf("%w: write news: %v", ErrCacheUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) GetAnnouncement(ctx context.Context, url string) (*models.Announcement, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT url, date, title, content, stock_code
		FROM announcement WHERE url = $1`, url)

	var a models.Announcement
	err := row.Scan(&a.URL, &a.Date, &a.Title, &a.Content, &a.SecurityID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read announcement: %v", ErrCacheUnavailable, err)
	}
	return &a, nil
}

func (s *PostgresStore) PutAnnouncement(ctx context.Context, a *models.Announcement) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO announcement (url, date, title, content, stock_code)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (url) DO NOTHING`,
		a.URL, a.Date, a.Title, a.Content, a.SecurityID)
	if err != nil {
		return fmt.Errorf("%w: write announcement: %v", ErrCacheUnavailable, err)
	}
	return nil
}
