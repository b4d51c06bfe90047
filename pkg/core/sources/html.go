package sources

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Provider article pages bury the body under boilerplate: navigation, share
// widgets, pagination, disclaimers. ExtractArticleText pulls the readable
// text out so the cache stores prose, not markup.

var whitespaceRe = regexp.MustCompile(`[ \t]{2,}`)

// ExtractArticleText parses an HTML page and returns the concatenated
// paragraph text of its main content region. Falls back to whole-document
// text when no recognizable article container exists. Returns "" for pages
// with no usable body.
func ExtractArticleText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	doc.Find("script, style, nav, header, footer, iframe, form").Remove()

	// Common article containers, most specific first.
	selectors := []string{
		"article",
		"div.article-content",
		"div.article-body",
		"div#content",
		"div.content",
		"main",
	}
	var container *goquery.Selection
	for _, sel := range selectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			container = s
			break
		}
	}
	if container == nil {
		container = doc.Find("body")
	}

	var parts []string
	container.Find("p").Each(func(i int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) == 0 {
		// Pages without <p> structure: take the container text wholesale.
		text := strings.TrimSpace(container.Text())
		return normalizeText(text)
	}
	return normalizeText(strings.Join(parts, "\n"))
}

// coreSectionMarkers are headings that open the management discussion section
// of a periodic report, in order of preference.
var coreSectionMarkers = []string{
	"Management Discussion and Analysis",
	"Management's Discussion and Analysis",
	"管理层讨论与分析",
}

// terminalSectionMarkers close the management discussion section.
var terminalSectionMarkers = []string{
	"Corporate Governance",
	"Financial Statements and Notes",
	"公司治理",
	"财务报告",
}

// ExtractCoreContent isolates the management discussion section from a full
// report body. Returns the whole body when no marker is found, so degraded
// filings still yield usable content.
func ExtractCoreContent(body string) string {
	start := -1
	for _, marker := range coreSectionMarkers {
		if idx := strings.Index(body, marker); idx >= 0 {
			start = idx
			break
		}
	}
	if start < 0 {
		return body
	}

	section := body[start:]
	end := len(section)
	for _, marker := range terminalSectionMarkers {
		// Skip the opening heading itself when searching for the close.
		if idx := strings.Index(section[1:], marker); idx >= 0 && idx+1 < end {
			end = idx + 1
		}
	}
	return strings.TrimSpace(section[:end])
}

func normalizeText(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	var kept []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
