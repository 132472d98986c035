package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kherington/reportcrew/internal/models"
	"github.com/kherington/reportcrew/pkg/store"
)

func TestArchiveRoundTrip(t *testing.T) {
	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	a, err := store.NewWithConfig(store.ArchiveConfig{
		ConnString: connString,
		TableName:  "test_report_runs",
	})
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()
	err = a.Insert(ctx, models.ReportRun{
		Topic:    "Solar Energy",
		Backend:  "openai",
		HTMLPath: "reports/openai/solar-energy-20240301-103000.html",
		MDPath:   "reports/openai/solar-energy-20240301-103000.md",
	})
	require.NoError(t, err)

	runs, err := a.List(ctx, 5)
	require.NoError(t, err)
	require.NotEmpty(t, runs)

	assert.Equal(t, "Solar Energy", runs[0].Topic)
	assert.Equal(t, "openai", runs[0].Backend)
	assert.NotEmpty(t, runs[0].CreatedAt)
}
