package types

import (
	"context"

	"github.com/kherington/reportcrew/internal/models"
)

// Core interfaces
type ImageSearcher interface {
	Search(ctx context.Context, query string, count int) ([]models.ImageRef, error)
}

type Archiver interface {
	Insert(ctx context.Context, run models.ReportRun) error
	List(ctx context.Context, limit int) ([]models.ReportRun, error)
	Close()
}

type Renderer interface {
	Render(doc models.ReportDocument) (html string, markdown string, err error)
}
