// Package analysis runs the five-stage report pipeline over an acquired data
// bundle. Stages execute in a fixed order; each stage is a pure function of
// the bundle and the artifacts of prior stages, and a stage failure aborts
// the remainder of the run.
package analysis

import "errors"

// ErrMalformedOutput marks a generation response that failed validation
// against its stage's output schema. The stage and the remainder of the
// pipeline abort; no partial report is assembled.
var ErrMalformedOutput = errors.New("malformed generation output")

// KeyNewsItem is one entry of the ranked key-news list produced by the news
// synthesis stage.
type KeyNewsItem struct {
	Rank    int    `json:"rank"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// FinancialAnalysis holds the three independent narrative blocks produced by
// the financial synthesis stage.
type FinancialAnalysis struct {
	Income   string `json:"income"`
	Balance  string `json:"balance"`
	CashFlow string `json:"cashflow"`
}

// Section is one titled narrative block of the final document.
type Section struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Rating is the ternary verdict of the predictive stage.
type Rating string

const (
	RatingBullish Rating = "bullish"
	RatingBearish Rating = "bearish"
	RatingNeutral Rating = "neutral"
)

// Outlook is the predictive stage's artifact.
type Outlook struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Rating Rating `json:"rating"`
}

// Result collects every stage artifact of one pipeline run. Advisory always
// holds the three sections the advisory stage returned; Sections is the final
// four-element list the driver builds by appending the outlook. No stage
// mutates another stage's artifact.
type Result struct {
	KeyNews   []KeyNewsItem     `json:"key_news"`
	Financial FinancialAnalysis `json:"financial"`
	Advisory  []Section         `json:"advisory"`
	Risks     []string          `json:"risks"`
	Outlook   Outlook           `json:"outlook"`
	Sections  []Section         `json:"sections"`
}
