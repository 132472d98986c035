package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kherington/reportcrew/internal/models"
)

type ArchiveConfig struct {
	ConnString string
	TableName  string
	ListLimit  int
}

// Archive keeps a row per generated report so past runs can be listed
// without scanning the output directory.
type Archive struct {
	config ArchiveConfig
	pool   *pgxpool.Pool
}

func NewWithConfig(config ArchiveConfig) (*Archive, error) {
	if config.TableName == "" {
		config.TableName = "report_runs"
	}
	if config.ListLimit == 0 {
		config.ListLimit = 20
	}

	pool, err := pgxpool.New(context.Background(), config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	a := &Archive{
		config: config,
		pool:   pool,
	}

	if err := a.initialize(); err != nil {
		pool.Close()
		return nil, err
	}

	return a, nil
}

func (a *Archive) initialize() error {
	ctx := context.Background()

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			topic TEXT NOT NULL,
			backend TEXT NOT NULL,
			html_path TEXT NOT NULL,
			md_path TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, a.config.TableName)

	if _, err := a.pool.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create table: %v", err)
	}

	return nil
}

func (a *Archive) Insert(ctx context.Context, run models.ReportRun) error {
	stmt := fmt.Sprintf(`
		INSERT INTO %s (topic, backend, html_path, md_path)
		VALUES ($1, $2, $3, $4)`, a.config.TableName)

	if _, err := a.pool.Exec(ctx, stmt, run.Topic, run.Backend, run.HTMLPath, run.MDPath); err != nil {
		return fmt.Errorf("failed to insert report run: %v", err)
	}

	return nil
}

// List returns the most recent runs, newest first.
func (a *Archive) List(ctx context.Context, limit int) ([]models.ReportRun, error) {
	if limit == 0 {
		limit = a.config.ListLimit
	}

	query := fmt.Sprintf(`
		SELECT id, topic, backend, html_path, md_path,
			to_char(created_at, 'YYYY-MM-DD HH24:MI:SS')
		FROM %s
		ORDER BY created_at DESC
		LIMIT $1`, a.config.TableName)

	rows, err := a.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query report runs: %v", err)
	}
	defer rows.Close()

	var runs []models.ReportRun
	for rows.Next() {
		var run models.ReportRun
		err := rows.Scan(
			&run.ID,
			&run.Topic,
			&run.Backend,
			&run.HTMLPath,
			&run.MDPath,
			&run.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %v", err)
		}
		runs = append(runs, run)
	}

	return runs, nil
}

func (a *Archive) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
