package report

import (
	"regexp"
	"strings"

	"github.com/kherington/reportcrew/internal/models"
)

// maxKeyStats bounds how many stat cards make it into the summary area.
const maxKeyStats = 4

var (
	currencyRe = regexp.MustCompile(`\$(\d+(?:\.\d+)?)\s*(billion|million|trillion)`)
	percentRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)%`)
	countRe    = regexp.MustCompile(`(?:^|[^$\d.])(\d+(?:\.\d+)?)\s*(billion|million|trillion)`)

	titlePhraseRe = regexp.MustCompile(`[A-Z][a-z]+(?:\s+[a-z]+){1,4}`)
)

type statCandidate struct {
	pos  int
	stat models.KeyStat
}

// ExtractStats pulls numeric highlights (currency amounts, percentages and
// large counts) out of the report text. Results keep first-occurrence order,
// are deduplicated by title and capped at maxKeyStats. An empty result is
// valid.
func ExtractStats(text string) []models.KeyStat {
	var candidates []statCandidate

	for _, m := range currencyRe.FindAllStringSubmatchIndex(text, -1) {
		value := text[m[2]:m[3]]
		unit := text[m[4]:m[5]]
		candidates = append(candidates, statCandidate{
			pos: m[0],
			stat: models.KeyStat{
				Title:       contextTitle(text, m[0], "Market Value"),
				Value:       "$" + value,
				Description: "In " + unit,
			},
		})
	}

	for _, m := range percentRe.FindAllStringSubmatchIndex(text, -1) {
		value := text[m[2]:m[3]]
		desc := "Growth Rate"
		context := strings.ToLower(around(text, m[0], 50))
		if strings.Contains(context, "annual") || strings.Contains(context, "year") {
			desc = "Annual Rate"
		}
		candidates = append(candidates, statCandidate{
			pos: m[0],
			stat: models.KeyStat{
				Title:       contextTitle(text, m[0], "Growth Rate"),
				Value:       value + "%",
				Description: desc,
			},
		})
	}

	for _, m := range countRe.FindAllStringSubmatchIndex(text, -1) {
		value := text[m[2]:m[3]]
		unit := text[m[4]:m[5]]
		candidates = append(candidates, statCandidate{
			pos: m[2],
			stat: models.KeyStat{
				Title:       contextTitle(text, m[2], "Total Count"),
				Value:       value,
				Description: "In " + unit,
			},
		})
	}

	// First occurrence in the text wins, across all pattern kinds.
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].pos < candidates[j-1].pos; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}

	seen := make(map[string]bool)
	var stats []models.KeyStat
	for _, c := range candidates {
		key := strings.ToLower(c.stat.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		stats = append(stats, c.stat)
		if len(stats) == maxKeyStats {
			break
		}
	}
	return stats
}

// contextTitle derives a card title from the words just before the match.
func contextTitle(text string, pos int, fallback string) string {
	context := surrounding(text, pos, 50)

	// The capitalized phrase closest to the number is the best label.
	if phrases := titlePhraseRe.FindAllString(context, -1); len(phrases) > 0 {
		return capitalizeFirst(strings.TrimSpace(phrases[len(phrases)-1]))
	}

	words := strings.Fields(context)
	if len(words) > 5 {
		words = words[len(words)-5:]
	}
	if len(words) > 0 {
		title := strings.Trim(strings.Join(words, " "), " .,;:")
		if title != "" {
			return capitalizeFirst(title)
		}
	}
	return fallback
}

func surrounding(text string, pos, span int) string {
	start := pos - span
	if start < 0 {
		start = 0
	}
	return text[start:pos]
}

// around returns span characters on both sides of pos.
func around(text string, pos, span int) string {
	start := pos - span
	if start < 0 {
		start = 0
	}
	end := pos + span
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
