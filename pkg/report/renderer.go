package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/kherington/reportcrew/internal/models"
)

//go:embed templates/report.html
var templateFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html"))

var markdown = goldmark.New()

type htmlData struct {
	Title          string
	GenerationDate string
	KeyStats       []models.KeyStat
	Images         []models.ImageRef
	Sections       []htmlSection
	Graphs         []htmlGraph
}

type htmlSection struct {
	Title       string
	Content     template.HTML
	Class       string
	Subsections []htmlSubsection
}

type htmlSubsection struct {
	Title   string
	Content template.HTML
}

type htmlGraph struct {
	ID          string
	Title       string
	Description string
	JS          template.JS
}

// Render maps a report document onto the HTML template and an equivalent
// Markdown document. It is a pure function of the document: rendering the
// same document twice yields identical output.
func Render(doc models.ReportDocument) (string, string, error) {
	data := htmlData{
		Title:          doc.Title,
		GenerationDate: doc.GeneratedAt,
		KeyStats:       doc.KeyStats,
		Images:         doc.Images,
	}

	for _, section := range doc.Sections {
		hs := htmlSection{
			Title:   section.Title,
			Class:   section.Class,
			Content: mdToHTML(section.Content),
		}
		for _, sub := range section.Subsections {
			hs.Subsections = append(hs.Subsections, htmlSubsection{
				Title:   sub.Title,
				Content: mdToHTML(sub.Content),
			})
		}
		data.Sections = append(data.Sections, hs)
	}

	for _, chart := range doc.Charts {
		data.Graphs = append(data.Graphs, htmlGraph{
			ID:          chart.ID,
			Title:       chart.Title,
			Description: chart.Description,
			JS:          template.JS(chart.JS),
		})
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("failed to render HTML template: %w", err)
	}

	return buf.String(), renderMarkdown(doc), nil
}

func mdToHTML(md string) template.HTML {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		// Degrade to escaped preformatted text rather than dropping content.
		return template.HTML("<pre>" + template.HTMLEscapeString(md) + "</pre>")
	}
	return template.HTML(buf.String())
}

// renderMarkdown emits the plain-text twin of the HTML report.
func renderMarkdown(doc models.ReportDocument) string {
	var sb strings.Builder

	sb.WriteString("# " + doc.Title + "\n\n")
	if doc.GeneratedAt != "" {
		sb.WriteString("*Generated on: " + doc.GeneratedAt + "*\n\n")
	}

	if len(doc.KeyStats) > 0 {
		sb.WriteString("## Key Statistics\n\n")
		for _, stat := range doc.KeyStats {
			sb.WriteString(fmt.Sprintf("- **%s**: %s (%s)\n", stat.Title, stat.Value, stat.Description))
		}
		sb.WriteString("\n")
	}

	if len(doc.Images) > 0 {
		sb.WriteString("## Images\n\n")
		for _, img := range doc.Images {
			sb.WriteString(fmt.Sprintf("![%s](%s)\n\n*%s*\n\n", img.Alt, img.URL, img.Caption))
		}
	}

	for _, section := range doc.Sections {
		sb.WriteString("## " + section.Title + "\n\n")
		if section.Content != "" {
			sb.WriteString(section.Content + "\n\n")
		}
		for _, sub := range section.Subsections {
			sb.WriteString("### " + sub.Title + "\n\n")
			sb.WriteString(sub.Content + "\n\n")
		}
	}

	return sb.String()
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives a filesystem-friendly name from a topic.
func Slug(topic string) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(topic), "-")
	return strings.Trim(slug, "-")
}

// Save renders the document and writes both files under
// <outputDir>/<backend>/<topic-slug>-<timestamp>.{html,md}, creating the
// directory if needed. A write failure is fatal and carries the attempted
// path.
func Save(doc models.ReportDocument, outputDir, backend string) (string, string, error) {
	html, md, err := Render(doc)
	if err != nil {
		return "", "", err
	}

	dir := filepath.Join(outputDir, backend)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create report directory %s: %w", dir, err)
	}

	stamp := time.Now().Format("20060102-150405")
	if t, err := time.Parse("2006-01-02 15:04:05", doc.GeneratedAt); err == nil {
		stamp = t.Format("20060102-150405")
	}

	base := fmt.Sprintf("%s-%s", Slug(doc.Topic), stamp)
	htmlPath := filepath.Join(dir, base+".html")
	mdPath := filepath.Join(dir, base+".md")

	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write report to %s: %w", htmlPath, err)
	}
	if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write report to %s: %w", mdPath, err)
	}

	return htmlPath, mdPath, nil
}
