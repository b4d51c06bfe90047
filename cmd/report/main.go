package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"finreport/pkg/config"
	"finreport/pkg/core/acquire"
	"finreport/pkg/core/analysis"
	"finreport/pkg/core/curator"
	"finreport/pkg/core/llm"
	"finreport/pkg/core/snapshot"
	"finreport/pkg/core/sources"
	"finreport/pkg/core/store"
)

func main() {
	configPath := flag.String("config", "", "path to run config YAML")
	securityID := flag.String("security", "", "security id (overrides config)")
	date := flag.String("date", "", "analysis date YYYY-MM-DD (overrides config)")
	outDir := flag.String("out", "reports", "output directory for the report")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		cfg = loaded
	}
	if *securityID != "" {
		cfg.SecurityID = *securityID
	}
	if *date != "" {
		cfg.Date = *date
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Error: invalid configuration: %v", err)
	}

	fmt.Printf("🚀 FinReport pipeline starting for %s (%s)...\n", cfg.SecurityID, cfg.Date)

	ctx := context.Background()

	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Error: opening cache store failed: %v", err)
	}
	defer st.Close()

	adapter := sources.NewHTTPAdapter(os.Getenv("MARKETDATA_BASE_URL"), os.Getenv("MARKETDATA_API_KEY"))

	var provider llm.Provider
	switch cfg.Provider {
	case "deepseek":
		provider = &llm.DeepSeekProvider{}
	default:
		provider = &llm.GeminiProvider{Model: cfg.Model}
	}

	var embedder llm.Embedder
	if os.Getenv("GEMINI_API_KEY") != "" {
		ge, err := llm.NewGeminiEmbedder(ctx, cfg.EmbeddingModel)
		if err != nil {
			log.Printf("Warning: embedder unavailable, semantic news dedup disabled: %v", err)
		} else {
			defer ge.Close()
			embedder = ge
		}
	}

	acquirer := acquire.New(st, adapter, provider, acquire.Config{
		Year:               cfg.Year,
		NewsWindowDays:     cfg.News.WindowDays,
		NewsPages:          cfg.News.Pages,
		BenchmarkSymbol:    cfg.Benchmark,
		CachedNewsComplete: cfg.News.CachedComplete,
	})

	bundle, err := acquirer.Bundle(ctx, cfg.SecurityID, cfg.Date)
	if err != nil {
		log.Fatalf("Error: data acquisition failed: %v", err)
	}

	if path, err := snapshot.NewWriter(cfg.SnapshotDir).Write(bundle); err != nil {
		log.Printf("Warning: audit snapshot failed: %v", err)
	} else {
		fmt.Printf("Audit snapshot written to %s\n", path)
	}

	analysisDate, _ := time.Parse("2006-01-02", cfg.Date)
	newsEnd := analysisDate.Add(24*time.Hour - time.Second)
	newsStart := analysisDate.AddDate(0, 0, -cfg.News.WindowDays)

	cur := curator.New(curator.Config{
		MinContentLength:    cfg.Curator.MinContentLength,
		SimilarityThreshold: cfg.Curator.SimilarityThreshold,
		MaxItems:            cfg.Curator.MaxItems,
	}, embedder)

	curated, err := cur.Curate(ctx, bundle.News, newsStart, newsEnd)
	if err != nil {
		log.Fatalf("Error: news curation failed: %v", err)
	}
	fmt.Printf("Curated %d of %d news items\n", len(curated), len(bundle.News))

	engine := analysis.NewEngine(provider, analysis.Config{AdvisoryCharBudget: cfg.AdvisoryCharBudget})
	result, err := engine.Run(ctx, bundle, curated)
	if err != nil {
		log.Fatalf("Error: analysis pipeline failed: %v", err)
	}

	path, err := writeReport(*outDir, cfg.SecurityID, cfg.Date, bundle.Profile.Name, result)
	if err != nil {
		log.Fatalf("Error: writing report failed: %v", err)
	}
	fmt.Printf("✅ Report written to %s\n", path)
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return store.NewPostgresStore(ctx, dsn)
	}
	return store.NewSQLiteStore(cfg.CachePath)
}

// writeReport assembles the final markdown document from the pipeline
// artifacts.
func writeReport(dir, securityID, date, companyName string, result *analysis.Result) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s (%s) Research Report\n\n", companyName, securityID)
	fmt.Fprintf(&b, "Analysis date: %s | Rating: %s\n\n", date, result.Outlook.Rating)

	for _, s := range result.Sections {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", s.Title, s.Body)
	}

	b.WriteString("## Key Risks\n\n")
	for _, r := range result.Risks {
		fmt.Fprintf(&b, "- %s\n", r)
	}
	b.WriteString("\n## Key News\n\n")
	for _, n := range result.KeyNews {
		fmt.Fprintf(&b, "%d. **%s** %s\n", n.Rank, n.Title, n.Summary)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.md", securityID, date))
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", err
	}
	return path, nil
}
