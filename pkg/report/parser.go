package report

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kherington/reportcrew/internal/models"
)

var (
	titleRe = regexp.MustCompile(`(?m)^#\s*Research Report:\s*(.+)$`)
	dateRe  = regexp.MustCompile(`\*Generated on:?\s*([^*\n]+)\*`)

	// Agent output arrives with section headers in several shapes. They are
	// all normalized to "## Title" before segmentation.
	headingVariants = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\*\*(\d+)\.\s+([^*:\n]+):\*\*\s*$`), // **1. Title:**
		regexp.MustCompile(`(?m)^(\d+)\.\s+\*\*([^*:\n]+):\*\*\s*$`), // 1. **Title:**
		regexp.MustCompile(`(?m)^()\*\*([^*:\n]+):\*\*\s*$`),         // **Title:**
		regexp.MustCompile(`(?m)^(\d+)\.\s+([^:\n]+):\s*$`),          // 1. Title:
	}

	boldBulletRe = regexp.MustCompile(`(?m)^[-•]\s+\*\*([^*:\n]+):?\*\*:?[ \t]*`)

	sectionRe    = regexp.MustCompile(`(?m)^##\s+(.+?)\s*$`)
	subsectionRe = regexp.MustCompile(`(?m)^###\s+(.+?)\s*$`)
)

// Sections that hold ### subsections rather than flat prose.
var containerTitles = []string{
	"key findings",
	"detailed analysis",
	"visualization",
	"recommendations",
	"references",
}

// Canonical section ordering. Unknown sections sort between the known body
// sections and references. First match wins, so the list stays ordered by
// specificity.
var sectionOrder = []struct {
	key  string
	rank int
}{
	{"overview", 0},
	{"executive summary", 0},
	{"introduction", 1},
	{"methodology", 2},
	{"key findings", 3},
	{"detailed analysis", 4},
	{"data visualization", 5},
	{"implications", 6},
	{"recommendations", 7},
	{"conclusion", 8},
	{"references", 999},
}

const defaultSectionRank = 500

// Preprocess standardizes the raw agent output so segmentation only has to
// deal with markdown headings.
func Preprocess(raw string) string {
	text := strings.TrimSpace(raw)

	for _, re := range headingVariants {
		text = re.ReplaceAllStringFunc(text, func(match string) string {
			groups := re.FindStringSubmatch(match)
			return "\n## " + strings.TrimSpace(groups[2]) + "\n"
		})
	}

	// Bullet points with bold titles become subsections.
	text = boldBulletRe.ReplaceAllString(text, "\n### $1\n\n")

	return text
}

// Parse segments preprocessed report text into a document skeleton with
// sections and subsections. It never fails: text without any recognizable
// heading degrades to a single Overview section holding the full input.
func Parse(raw string, topic string) models.ReportDocument {
	text := Preprocess(raw)

	doc := models.ReportDocument{
		Topic: topic,
		Title: fmt.Sprintf("Research Report: %s", topic),
	}

	if m := titleRe.FindStringSubmatch(text); m != nil {
		doc.Title = fmt.Sprintf("Research Report: %s", strings.TrimSpace(m[1]))
	}
	if m := dateRe.FindStringSubmatch(text); m != nil {
		doc.GeneratedAt = strings.TrimSpace(m[1])
	}

	headings := sectionRe.FindAllStringSubmatchIndex(text, -1)
	if len(headings) == 0 {
		doc.Sections = []models.Section{{
			Title:   "Overview",
			Content: strings.TrimSpace(stripTitleLines(text)),
		}}
		return doc
	}

	// Leading text before the first heading becomes an Overview section.
	lead := strings.TrimSpace(stripTitleLines(text[:headings[0][0]]))
	if lead != "" {
		doc.Sections = append(doc.Sections, models.Section{
			Title:   "Overview",
			Content: lead,
		})
	}

	seen := map[string]bool{"overview": lead != ""}
	for i, h := range headings {
		title := strings.TrimSpace(text[h[2]:h[3]])
		end := len(text)
		if i+1 < len(headings) {
			end = headings[i+1][0]
		}
		body := strings.TrimSpace(text[h[1]:end])

		key := strings.ToLower(title)
		if key == strings.ToLower(topic) || seen[key] {
			continue
		}
		seen[key] = true

		doc.Sections = append(doc.Sections, buildSection(title, body))
	}

	if len(doc.Sections) == 0 {
		doc.Sections = []models.Section{{
			Title:   "Overview",
			Content: strings.TrimSpace(stripTitleLines(text)),
		}}
	}

	sortSections(doc.Sections)
	return doc
}

func buildSection(title, body string) models.Section {
	section := models.Section{Title: title}

	if isContainer(title) {
		section.Subsections = splitSubsections(body)
		if len(section.Subsections) > 0 {
			section.Class = "container-section"
			return section
		}
	}

	section.Content = body
	return section
}

func isContainer(title string) bool {
	lower := strings.ToLower(title)
	for _, name := range containerTitles {
		if strings.Contains(lower, name) {
			return true
		}
	}
	return false
}

func splitSubsections(body string) []models.Subsection {
	headings := subsectionRe.FindAllStringSubmatchIndex(body, -1)
	if len(headings) == 0 {
		return nil
	}

	var subs []models.Subsection
	for i, h := range headings {
		end := len(body)
		if i+1 < len(headings) {
			end = headings[i+1][0]
		}
		subs = append(subs, models.Subsection{
			Title:   strings.TrimSpace(body[h[2]:h[3]]),
			Content: strings.TrimSpace(body[h[1]:end]),
		})
	}
	return subs
}

// stripTitleLines removes the report title and date lines so they do not
// reappear inside section content.
func stripTitleLines(text string) string {
	text = titleRe.ReplaceAllString(text, "")
	text = dateRe.ReplaceAllString(text, "")
	// A plain "# Title" heading at the top is also dropped.
	text = regexp.MustCompile(`(?m)^#\s+[^\n#].*$`).ReplaceAllString(text, "")
	return text
}

func sectionRank(title string) int {
	lower := strings.ToLower(title)
	for _, entry := range sectionOrder {
		if strings.Contains(lower, entry.key) {
			return entry.rank
		}
	}
	return defaultSectionRank
}

func sortSections(sections []models.Section) {
	// Insertion sort keeps the original order among equally ranked sections.
	for i := 1; i < len(sections); i++ {
		for j := i; j > 0 && sectionRank(sections[j].Title) < sectionRank(sections[j-1].Title); j-- {
			sections[j], sections[j-1] = sections[j-1], sections[j]
		}
	}
}
