package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"finreport/pkg/core/llm"
	"finreport/pkg/core/prompt"
	"finreport/pkg/core/utils"
	"finreport/pkg/models"
)

const (
	maxKeyNews     = 10
	minRiskLabels  = 3
	maxPricePoints = 60
)

// Config controls pipeline limits.
type Config struct {
	AdvisoryCharBudget int // per-section character budget (default 2000)
}

// Engine drives the five stages against a generation provider.
type Engine struct {
	provider llm.Provider
	prompts  *prompt.Registry
	cfg      Config
}

// NewEngine creates a pipeline engine.
func NewEngine(provider llm.Provider, cfg Config) *Engine {
	if cfg.AdvisoryCharBudget <= 0 {
		cfg.AdvisoryCharBudget = 2000
	}
	return &Engine{
		provider: provider,
		prompts:  prompt.Get(),
		cfg:      cfg,
	}
}

// Run executes the stages in order over the bundle and the curated news list.
// Stage N's inputs are fully materialized before stage N begins; a stage
// failure aborts the remaining stages.
func (e *Engine) Run(ctx context.Context, bundle *models.Bundle, curated []models.NewsItem) (*Result, error) {
	start := time.Now()
	res := &Result{}
	companyName := bundle.Profile.Name

	fmt.Printf("--- [Stage 1/5] News synthesis for %s ---\n", bundle.SecurityID)
	keyNews, err := e.newsSynthesis(ctx, bundle.SecurityID, companyName, curated)
	if err != nil {
		return nil, fmt.Errorf("news synthesis: %w", err)
	}
	res.KeyNews = keyNews

	fmt.Printf("--- [Stage 2/5] Financial synthesis ---\n")
	financial, err := e.financialSynthesis(ctx, companyName, bundle.Financials)
	if err != nil {
		return nil, fmt.Errorf("financial synthesis: %w", err)
	}
	res.Financial = *financial

	fmt.Printf("--- [Stage 3/5] Advisory synthesis ---\n")
	advisory, err := e.advisorySynthesis(ctx, bundle, res.Financial, res.KeyNews)
	if err != nil {
		return nil, fmt.Errorf("advisory synthesis: %w", err)
	}
	res.Advisory = advisory

	fmt.Printf("--- [Stage 4/5] Risk synthesis ---\n")
	risks, err := e.riskSynthesis(ctx, companyName, res.Advisory, bundle.Report.Summary)
	if err != nil {
		return nil, fmt.Errorf("risk synthesis: %w", err)
	}
	res.Risks = risks

	fmt.Printf("--- [Stage 5/5] Predictive synthesis ---\n")
	outlook, err := e.predictiveSynthesis(ctx, bundle, res.Advisory, res.Risks)
	if err != nil {
		return nil, fmt.Errorf("predictive synthesis: %w", err)
	}
	res.Outlook = *outlook

	// The final section list is built here by concatenation. The advisory
	// artifact keeps its three elements; no stage mutates another's output.
	res.Sections = make([]Section, 0, len(res.Advisory)+1)
	res.Sections = append(res.Sections, res.Advisory...)
	res.Sections = append(res.Sections, Section{Title: outlook.Title, Body: outlook.Body})

	fmt.Printf("Pipeline completed for %s in %v\n", bundle.SecurityID, time.Since(start))
	return res, nil
}

func (e *Engine) newsSynthesis(ctx context.Context, securityID, companyName string, curated []models.NewsItem) ([]KeyNewsItem, error) {
	out, err := e.generate(ctx, "stage.news_synthesis", map[string]interface{}{
		"SecurityID":  securityID,
		"CompanyName": companyName,
		"News":        formatNews(curated),
	}, true)
	if err != nil {
		return nil, err
	}

	var items []KeyNewsItem
	if err := utils.DecodeLLMJSON(out, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: empty key-news list", ErrMalformedOutput)
	}
	if len(items) > maxKeyNews {
		items = items[:maxKeyNews]
	}
	for i := range items {
		items[i].Rank = i + 1
	}
	return items, nil
}

// financialSynthesis issues the three statement sub-calls concurrently; each
// goroutine writes only its own slot and the join happens before stage 3.
func (e *Engine) financialSynthesis(ctx context.Context, companyName string, fs *models.FinancialStatements) (*FinancialAnalysis, error) {
	type subCall struct {
		promptID string
		rows     []models.StatementRow
		out      *string
		err      *error
	}

	var fa FinancialAnalysis
	var incomeErr, balanceErr, cashErr error
	calls := []subCall{
		{"stage.financial_income", fs.Income, &fa.Income, &incomeErr},
		{"stage.financial_balance", fs.Balance, &fa.Balance, &balanceErr},
		{"stage.financial_cashflow", fs.CashFlow, &fa.CashFlow, &cashErr},
	}

	var wg sync.WaitGroup
	for _, c := range calls {
		wg.Add(1)
		go func(c subCall) {
			defer wg.Done()
			out, err := e.generate(ctx, c.promptID, map[string]interface{}{
				"CompanyName": companyName,
				"Table":       formatStatement(c.rows),
			}, false)
			if err != nil {
				*c.err = err
				return
			}
			narrative := utils.CleanNarrative(out)
			if !utils.ValidMarkdown(narrative) {
				*c.err = fmt.Errorf("%w: empty or unrenderable narrative from %s", ErrMalformedOutput, c.promptID)
				return
			}
			*c.out = narrative
		}(c)
	}
	wg.Wait()

	for _, err := range []error{incomeErr, balanceErr, cashErr} {
		if err != nil {
			return nil, err
		}
	}
	return &fa, nil
}

func (e *Engine) advisorySynthesis(ctx context.Context, bundle *models.Bundle, fa FinancialAnalysis, keyNews []KeyNewsItem) ([]Section, error) {
	out, err := e.generate(ctx, "stage.advisory", map[string]interface{}{
		"SecurityID":  bundle.SecurityID,
		"CompanyName": bundle.Profile.Name,
		"CharBudget":  e.cfg.AdvisoryCharBudget,
		"Financial":   formatFinancial(fa),
		"News":        formatKeyNews(keyNews),
		"Filing":      bundle.Report.Summary,
	}, true)
	if err != nil {
		return nil, err
	}

	var sections []Section
	if err := utils.DecodeLLMJSON(out, &sections); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if len(sections) != 3 {
		return nil, fmt.Errorf("%w: expected 3 advisory sections, got %d", ErrMalformedOutput, len(sections))
	}
	for i := range sections {
		if sections[i].Title == "" || !utils.ValidMarkdown(sections[i].Body) {
			return nil, fmt.Errorf("%w: advisory section %d is incomplete", ErrMalformedOutput, i+1)
		}
		sections[i].Body = truncateRunes(sections[i].Body, e.cfg.AdvisoryCharBudget)
	}
	return sections, nil
}

func (e *Engine) riskSynthesis(ctx context.Context, companyName string, advisory []Section, filingSummary string) ([]string, error) {
	out, err := e.generate(ctx, "stage.risk", map[string]interface{}{
		"CompanyName": companyName,
		"Advisory":    formatSections(advisory),
		"Filing":      filingSummary,
	}, true)
	if err != nil {
		return nil, err
	}

	var risks []string
	if err := utils.DecodeLLMJSON(out, &risks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	var kept []string
	for _, r := range risks {
		if s := strings.TrimSpace(r); s != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) < minRiskLabels {
		return nil, fmt.Errorf("%w: expected at least %d risk labels, got %d", ErrMalformedOutput, minRiskLabels, len(kept))
	}
	return kept, nil
}

func (e *Engine) predictiveSynthesis(ctx context.Context, bundle *models.Bundle, advisory []Section, risks []string) (*Outlook, error) {
	out, err := e.generate(ctx, "stage.predictive", map[string]interface{}{
		"SecurityID":  bundle.SecurityID,
		"CompanyName": bundle.Profile.Name,
		"Advisory":    formatSections(advisory),
		"Risks":       strings.Join(risks, "; "),
		"Prices":      formatPrices(bundle.Prices),
		"Benchmark":   formatPrices(bundle.Benchmark),
	}, true)
	if err != nil {
		return nil, err
	}

	var o Outlook
	if err := utils.DecodeLLMJSON(out, &o); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	o.Rating = Rating(strings.ToLower(strings.TrimSpace(string(o.Rating))))
	switch o.Rating {
	case RatingBullish, RatingBearish, RatingNeutral:
	default:
		return nil, fmt.Errorf("%w: invalid rating %q", ErrMalformedOutput, o.Rating)
	}
	if o.Title == "" || !utils.ValidMarkdown(o.Body) {
		return nil, fmt.Errorf("%w: outlook section is incomplete", ErrMalformedOutput)
	}
	return &o, nil
}

func (e *Engine) generate(ctx context.Context, promptID string, vars map[string]interface{}, wantJSON bool) (string, error) {
	user, err := e.prompts.Render(promptID, vars)
	if err != nil {
		return "", err
	}
	system, _ := e.prompts.GetSystemPrompt(promptID)

	var options map[string]interface{}
	if wantJSON {
		options = map[string]interface{}{
			"response_format": map[string]interface{}{"type": "json_object"},
		}
	}
	return e.provider.GenerateResponse(ctx, user, system, options)
}

func formatNews(items []models.NewsItem) string {
	var b strings.Builder
	for i, it := range items {
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, it.PublishedAt.Format("2006-01-02"), it.Title)
		summary := it.Summary
		if summary == "" {
			summary = truncateRunes(it.Content, 400)
		}
		fmt.Fprintf(&b, "   %s\n", summary)
	}
	return b.String()
}

func formatStatement(rows []models.StatementRow) string {
	var b strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&b, "%s:", row.Item)
		for _, year := range sortedYears(row.Years) {
			fmt.Fprintf(&b, " %s=%.2f", year, row.Years[year])
		}
		b.WriteString("\n")
	}
	return b.String()
}

func sortedYears(years map[string]float64) []string {
	keys := make([]string, 0, len(years))
	for y := range years {
		keys = append(keys, y)
	}
	// Years are YYYY strings; lexical order is chronological.
	sort.Strings(keys)
	return keys
}

func formatFinancial(fa FinancialAnalysis) string {
	return fmt.Sprintf("INCOME STATEMENT:\n%s\n\nBALANCE SHEET:\n%s\n\nCASH FLOW:\n%s",
		fa.Income, fa.Balance, fa.CashFlow)
}

func formatKeyNews(items []KeyNewsItem) string {
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "%d. %s: %s\n", it.Rank, it.Title, it.Summary)
	}
	return b.String()
}

func formatSections(sections []Section) string {
	var b strings.Builder
	for _, s := range sections {
		fmt.Fprintf(&b, "## %s\n%s\n\n", s.Title, s.Body)
	}
	return b.String()
}

// formatPrices samples the series down to a bounded number of points so the
// prompt stays within budget on long histories.
func formatPrices(points []models.PricePoint) string {
	if len(points) == 0 {
		return "(no data)"
	}
	step := 1
	if len(points) > maxPricePoints {
		step = len(points) / maxPricePoints
	}
	var b strings.Builder
	for i := 0; i < len(points); i += step {
		fmt.Fprintf(&b, "%s: %.2f\n", points[i].Date, points[i].RebasedClose)
	}
	return b.String()
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
