package prompt

// builtinPrompts are registered into the global registry on first Get().
// Enrichment prompts run during data acquisition; stage prompts drive the
// analysis pipeline in its fixed order.
var builtinPrompts = []*PromptTemplate{
	{
		ID:           "enrichment.report_summary",
		Name:         "Periodic Report Summary",
		Category:     "enrichment",
		Description:  "Condenses the management-discussion section of a periodic report",
		SystemPrompt: "You are an equity research assistant. You summarize corporate filings accurately and never invent figures that are not in the source text.",
		UserPromptTmpl: `Summarize the management discussion and analysis below for {{.SecurityID}} ({{.Year}} {{.Period}} report).

Focus on: revenue and profit drivers, segment performance, stated outlook, and any disclosed uncertainties. Keep the summary under 800 words of plain prose. Do not add commentary of your own.

FILING TEXT:
{{.Content}}`,
	},
	{
		ID:           "enrichment.news_summary",
		Name:         "News Article Summary",
		Category:     "enrichment",
		Description:  "Restates a news article body as a short factual summary",
		SystemPrompt: "You are an equity research assistant. You condense news articles into short factual summaries without speculation.",
		UserPromptTmpl: `Summarize the following article about {{.CompanyName}} in at most 5 sentences. State only facts reported in the article.

TITLE: {{.Title}}

BODY:
{{.Content}}`,
	},
	{
		ID:           "enrichment.news_decision",
		Name:         "News Relevance Decision",
		Category:     "enrichment",
		Description:  "Judges whether an article is materially about the subject company",
		SystemPrompt: "You are an equity research assistant screening news coverage for relevance.",
		UserPromptTmpl: `Decide whether the article below is materially about {{.CompanyName}} ({{.SecurityID}}): its operations, financials, products, management, or share price. Coverage that merely mentions the company in passing is not material.

Explain your reasoning in one or two sentences, then end your reply with exactly [[[YES]]] if the article is material, or [[[NO]]] if it is not.

TITLE: {{.Title}}

BODY:
{{.Content}}`,
	},
	{
		ID:           "stage.news_synthesis",
		Name:         "News Synthesis",
		Category:     "stage",
		Description:  "Ranks curated news into a key-news list of at most 10 items",
		SystemPrompt: "You are a senior equity analyst. You rank news by materiality to the company's valuation and restate each item concisely. You respond only with JSON.",
		UserPromptTmpl: `From the curated news items below for {{.CompanyName}} ({{.SecurityID}}), select the most material items (at most 10) and rank them from most to least material.

Respond with a JSON array; each element must be an object with fields "rank" (integer starting at 1), "title" (original headline), and "summary" (your concise restatement, at most 2 sentences). Include no other fields and no text outside the JSON.

NEWS ITEMS:
{{.News}}`,
	},
	{
		ID:           "stage.financial_income",
		Name:         "Income Statement Synthesis",
		Category:     "stage",
		Description:  "Narrates the income statement trends",
		SystemPrompt: "You are a senior equity analyst writing for an institutional research report. You analyze financial statements rigorously and cite figures from the data given.",
		UserPromptTmpl: `Write a narrative analysis of the income statement data below for {{.CompanyName}}. Cover revenue trajectory, margin evolution, and earnings quality across the years shown. Cite specific figures. Write 2-3 paragraphs of plain prose with no headings.

INCOME STATEMENT:
{{.Table}}`,
	},
	{
		ID:           "stage.financial_balance",
		Name:         "Balance Sheet Synthesis",
		Category:     "stage",
		Description:  "Narrates the balance sheet trends",
		SystemPrompt: "You are a senior equity analyst writing for an institutional research report. You analyze financial statements rigorously and cite figures from the data given.",
		UserPromptTmpl: `Write a narrative analysis of the balance sheet data below for {{.CompanyName}}. Cover asset composition, leverage, and liquidity across the years shown. Cite specific figures. Write 2-3 paragraphs of plain prose with no headings.

BALANCE SHEET:
{{.Table}}`,
	},
	{
		ID:           "stage.financial_cashflow",
		Name:         "Cash Flow Synthesis",
		Category:     "stage",
		Description:  "Narrates the cash flow statement trends",
		SystemPrompt: "You are a senior equity analyst writing for an institutional research report. You analyze financial statements rigorously and cite figures from the data given.",
		UserPromptTmpl: `Write a narrative analysis of the cash flow data below for {{.CompanyName}}. Cover operating cash generation, investing activity, and financing posture across the years shown. Cite specific figures. Write 2-3 paragraphs of plain prose with no headings.

CASH FLOW STATEMENT:
{{.Table}}`,
	},
	{
		ID:           "stage.advisory",
		Name:         "Advisory Synthesis",
		Category:     "stage",
		Description:  "Produces exactly three titled advisory sections",
		SystemPrompt: "You are a senior equity analyst. You write balanced advisory commentary grounded strictly in the inputs provided. You respond only with JSON.",
		UserPromptTmpl: `Using the inputs below for {{.CompanyName}} ({{.SecurityID}}), write exactly 3 advisory sections, in this order:
1. a finance section drawing on the financial analysis,
2. a news section drawing on the key-news list,
3. a filings section drawing on the periodic-report summary.

Each section body must be at most {{.CharBudget}} characters. If the periodic-report summary is empty, the filings section must say that no filing was available for the period rather than speculating.

Respond with a JSON array of exactly 3 objects, each with fields "title" and "body". Include no text outside the JSON.

FINANCIAL ANALYSIS:
{{.Financial}}

KEY NEWS:
{{.News}}

PERIODIC-REPORT SUMMARY:
{{.Filing}}`,
	},
	{
		ID:           "stage.risk",
		Name:         "Risk Synthesis",
		Category:     "stage",
		Description:  "Extracts short risk labels from the advisory output",
		SystemPrompt: "You are a senior equity analyst identifying investment risks. You respond only with JSON.",
		UserPromptTmpl: `From the advisory commentary and filing summary below for {{.CompanyName}}, identify the principal investment risks. Produce at least 3 labels; each label is a short phrase of at most 8 words naming one concrete risk.

Respond with a JSON array of strings. Include no text outside the JSON.

ADVISORY COMMENTARY:
{{.Advisory}}

FILING SUMMARY:
{{.Filing}}`,
	},
	{
		ID:           "stage.predictive",
		Name:         "Predictive Synthesis",
		Category:     "stage",
		Description:  "Produces the outlook section with a ternary rating",
		SystemPrompt: "You are a senior equity analyst writing a forward-looking outlook. You weigh the evidence given and commit to a single rating. You respond only with JSON.",
		UserPromptTmpl: `Using the advisory commentary, risk list, and price history below for {{.CompanyName}} ({{.SecurityID}}), write one titled outlook section and assign a rating.

The rating must be exactly one of "bullish", "bearish", or "neutral". Weigh the company's price trend against the benchmark trend alongside the fundamental and risk picture.

Respond with a JSON object with fields "title", "body", and "rating". Include no text outside the JSON.

ADVISORY COMMENTARY:
{{.Advisory}}

RISKS:
{{.Risks}}

PRICE SERIES (rebased to 100):
{{.Prices}}

BENCHMARK SERIES (rebased to 100):
{{.Benchmark}}`,
	},
}
