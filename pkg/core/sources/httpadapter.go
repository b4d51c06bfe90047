package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"finreport/pkg/models"
)

const (
	// Identify ourselves to providers that require a descriptive agent.
	UserAgent = "FinReport/1.0 (research@example.com)"

	defaultBaseURL = "https://api.marketdata.example.com/v1"
)

// HTTPAdapter implements Adapter against a JSON market-data provider, with
// article and filing bodies fetched as HTML pages.
type HTTPAdapter struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Ensure interface compliance
var _ Adapter = (*HTTPAdapter)(nil)

// NewHTTPAdapter creates an adapter for the given provider base URL.
// An empty baseURL selects the default provider endpoint.
func NewHTTPAdapter(baseURL, apiKey string) *HTTPAdapter {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &HTTPAdapter{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// getJSON issues a GET and decodes the JSON body into out.
func (a *HTTPAdapter) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	if a.apiKey != "" {
		params.Set("apikey", a.apiKey)
	}
	endpoint := fmt.Sprintf("%s%s?%s", a.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrSourceUnavailable, err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned status %d", ErrSourceUnavailable, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrSourceUnavailable, path, err)
	}
	return nil
}

// getHTML fetches a raw page body (articles, filings, announcements).
func (a *HTTPAdapter) getHTML(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrSourceUnavailable, err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetch %s: %v", ErrSourceUnavailable, pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s returned status %d", ErrSourceUnavailable, pageURL, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", ErrSourceUnavailable, pageURL, err)
	}
	return string(body), nil
}

func (a *HTTPAdapter) FetchProfile(ctx context.Context, securityID string) (*RawProfile, error) {
	var payload struct {
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
	params := url.Values{"symbol": {securityID}}
	if err := a.getJSON(ctx, "/profile", params, &payload); err != nil {
		return nil, err
	}
	if payload.Name == "" {
		return nil, fmt.Errorf("%w: empty profile for %s", ErrSourceUnavailable, securityID)
	}
	return &RawProfile{
		SecurityID:    securityID,
		Name:          payload.Name,
		LegalName:     payload.LegalName,
		Industry:      payload.Industry,
		Exchange:      payload.Exchange,
		Chairman:      payload.Chairman,
		GeneralMgr:    payload.GeneralMgr,
		Secretary:     payload.Secretary,
		Website:       payload.Website,
		Address:       payload.Address,
		Capital:       payload.Capital,
		Employees:     payload.Employees,
		Profile:       payload.Profile,
		BusinessScope: payload.BusinessScope,
	}, nil
}

func (a *HTTPAdapter) ListReports(ctx context.Context, securityID string, year int) ([]ReportCandidate, error) {
	var payload []struct {
		Title       string `json:"title"`
		Period      string `json:"period"` // "annual" | "semiannual"
		PublishDate string `json:"publish_date"`
		URL         string `json:"url"`
	}
	params := url.Values{
		"symbol": {securityID},
		"year":   {strconv.Itoa(year)},
	}
	if err := a.getJSON(ctx, "/filings", params, &payload); err != nil {
		return nil, err
	}

	candidates := make([]ReportCandidate, 0, len(payload))
	for _, f := range payload {
		period := models.PeriodAnnual
		if f.Period == string(models.PeriodSemiannual) {
			period = models.PeriodSemiannual
		}
		candidates = append(candidates, ReportCandidate{
			SecurityID:  securityID,
			Year:        year,
			Period:      period,
			Title:       f.Title,
			PublishDate: f.PublishDate,
			URL:         f.URL,
		})
	}
	return candidates, nil
}

func (a *HTTPAdapter) FetchReportContent(ctx context.Context, candidate ReportCandidate) (string, error) {
	html, err := a.getHTML(ctx, candidate.URL)
	if err != nil {
		return "", err
	}
	text := ExtractArticleText(html)
	if text == "" {
		return "", fmt.Errorf("%w: empty report body at %s", ErrSourceUnavailable, candidate.URL)
	}
	return text, nil
}

func (a *HTTPAdapter) ListNews(ctx context.Context, securityID string, page int) ([]NewsCandidate, error) {
	var payload []struct {
		URL         string `json:"url"`
		Title       string `json:"headline"`
		Source      string `json:"source"`
		PublishedAt int64  `json:"datetime"` // unix seconds
	}
	params := url.Values{
		"symbol": {securityID},
		"page":   {strconv.Itoa(page)},
	}
	if err := a.getJSON(ctx, "/news", params, &payload); err != nil {
		return nil, err
	}

	candidates := make([]NewsCandidate, 0, len(payload))
	for _, n := range payload {
		ts := time.Unix(n.PublishedAt, 0).UTC().Format("2006-01-02 15:04:05")
		candidates = append(candidates, NewsCandidate{
			URL:         n.URL,
			Title:       n.Title,
			Author:      n.Source,
			PublishedAt: ts,
		})
	}
	return candidates, nil
}

func (a *HTTPAdapter) FetchNewsContent(ctx context.Context, pageURL string) (string, error) {
	html, err := a.getHTML(ctx, pageURL)
	if err != nil {
		return "", err
	}
	text := ExtractArticleText(html)
	if text == "" {
		return "", fmt.Errorf("%w: empty article body at %s", ErrSourceUnavailable, pageURL)
	}
	return text, nil
}

func (a *HTTPAdapter) ListAnnouncements(ctx context.Context, securityID string, page int) ([]AnnouncementCandidate, error) {
	var payload []struct {
		URL   string `json:"url"`
		Title string `json:"title"`
		Date  string `json:"date"`
	}
	params := url.Values{
		"symbol": {securityID},
		"page":   {strconv.Itoa(page)},
	}
	if err := a.getJSON(ctx, "/announcements", params, &payload); err != nil {
		return nil, err
	}

	candidates := make([]AnnouncementCandidate, 0, len(payload))
	for _, an := range payload {
		candidates = append(candidates, AnnouncementCandidate{
			URL:   an.URL,
			Title: an.Title,
			Date:  an.Date,
		})
	}
	return candidates, nil
}

func (a *HTTPAdapter) FetchAnnouncementContent(ctx context.Context, pageURL string) (string, error) {
	html, err := a.getHTML(ctx, pageURL)
	if err != nil {
		return "", err
	}
	text := ExtractArticleText(html)
	if text == "" {
		return "", fmt.Errorf("%w: empty announcement body at %s", ErrSourceUnavailable, pageURL)
	}
	return text, nil
}

func (a *HTTPAdapter) FetchPriceSeries(ctx context.Context, symbol string, r PriceRange) ([]models.PricePoint, error) {
	var payload struct {
		Historical []struct {
			Date   string  `json:"date"`
			Open   float64 `json:"open"`
			High   float64 `json:"high"`
			Low    float64 `json:"low"`
			Close  float64 `json:"close"`
			Volume float64 `json:"volume"`
		} `json:"historical"`
	}
	params := url.Values{
		"symbol": {symbol},
		"from":   {r.Start},
		"to":     {r.End},
	}
	if err := a.getJSON(ctx, "/historical-price", params, &payload); err != nil {
		return nil, err
	}
	if len(payload.Historical) == 0 {
		return nil, fmt.Errorf("%w: no price data for %s", ErrSourceUnavailable, symbol)
	}

	points := make([]models.PricePoint, 0, len(payload.Historical))
	for _, h := range payload.Historical {
		points = append(points, models.PricePoint{
			Date:   h.Date,
			Open:   h.Open,
			High:   h.High,
			Low:    h.Low,
			Close:  h.Close,
			Volume: h.Volume,
		})
	}
	return Rebase(points), nil
}

func (a *HTTPAdapter) FetchFinancialStatements(ctx context.Context, securityID string) (*models.FinancialStatements, error) {
	var payload struct {
		Income   []models.StatementRow `json:"income"`
		Balance  []models.StatementRow `json:"balance"`
		CashFlow []models.StatementRow `json:"cashflow"`
	}
	params := url.Values{"symbol": {securityID}}
	if err := a.getJSON(ctx, "/financial-statements", params, &payload); err != nil {
		return nil, err
	}
	if len(payload.Income) == 0 && len(payload.Balance) == 0 && len(payload.CashFlow) == 0 {
		return nil, fmt.Errorf("%w: no statements for %s", ErrSourceUnavailable, securityID)
	}
	return &models.FinancialStatements{
		Income:   payload.Income,
		Balance:  payload.Balance,
		CashFlow: payload.CashFlow,
	}, nil
}

// Rebase sorts points by date and derives closes rebased to 100 at the first
// observation, mirroring how the price-performance panel is prepared.
func Rebase(points []models.PricePoint) []models.PricePoint {
	if len(points) == 0 {
		return points
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	first := points[0].Close
	if first == 0 {
		return points
	}
	for i := range points {
		points[i].RebasedClose = (points[i].Close / first) * 100
	}
	return points
}
