package report

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kherington/reportcrew/internal/models"
	"github.com/kherington/reportcrew/internal/types"
)

// imagesPerTopic is how many images the main topic contributes; each chosen
// section title adds one more.
const (
	imagesPerTopic   = 3
	maxSectionImages = 2
)

// Assemble turns the raw crew output into a complete report document:
// parsed sections, extracted stats, derived charts and topic-related images.
// The searcher may be nil, in which case the document carries no images.
func Assemble(ctx context.Context, raw, topic string, searcher types.ImageSearcher) models.ReportDocument {
	doc := Parse(raw, topic)

	if doc.GeneratedAt == "" {
		doc.GeneratedAt = time.Now().Format("2006-01-02 15:04:05")
	}

	doc.KeyStats = ExtractStats(raw)
	doc.Charts = BuildCharts(raw, doc.KeyStats, doc.Sections)

	if searcher != nil {
		doc.Images = lookupImages(ctx, searcher, topic, doc.Sections)
	}

	return doc
}

func lookupImages(ctx context.Context, searcher types.ImageSearcher, topic string, sections []models.Section) []models.ImageRef {
	images, err := searcher.Search(ctx, topic, imagesPerTopic)
	if err != nil {
		logrus.Warnf("image lookup for topic %q failed: %v", topic, err)
	}

	for _, title := range imageQueries(sections) {
		more, err := searcher.Search(ctx, title, 1)
		if err != nil {
			logrus.Warnf("image lookup for section %q failed: %v", title, err)
			continue
		}
		images = append(images, more...)
	}

	return images
}

// imageQueries picks up to maxSectionImages section titles that make decent
// image search terms.
func imageQueries(sections []models.Section) []string {
	var queries []string
	for _, section := range sections {
		lower := strings.ToLower(section.Title)
		if len(section.Title) < 4 || len(section.Title) > 30 {
			continue
		}
		if strings.Contains(lower, "reference") || strings.Contains(lower, "conclusion") ||
			strings.Contains(lower, "introduction") || strings.Contains(lower, "overview") ||
			strings.Contains(lower, "summary") || strings.Contains(lower, "methodology") {
			continue
		}
		queries = append(queries, section.Title)
		if len(queries) == maxSectionImages {
			break
		}
	}
	return queries
}
