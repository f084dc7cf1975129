package repository

import (
	"io/fs"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"migrations/000001_create_reports.up.sql",
		"migrations/000001_create_reports.down.sql",
	}, files)

	up, err := fs.ReadFile(migrations, "migrations/000001_create_reports.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "CREATE TABLE IF NOT EXISTS reports")
}

func TestColumnValues(t *testing.T) {
	t.Run("should store zero dates as NULL", func(t *testing.T) {
		assert.Nil(t, nullDate(time.Time{}))
		d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, d, nullDate(d))
	})

	t.Run("should store an unbounded runway as NULL", func(t *testing.T) {
		inf := math.Inf(1)
		months := 3.5
		assert.Nil(t, nullRunway(nil))
		assert.Nil(t, nullRunway(&inf))
		assert.Equal(t, 3.5, nullRunway(&months))
	})

	t.Run("should round money to cents", func(t *testing.T) {
		assert.Equal(t, "1234.57", money(1234.567).String())
	})
}
