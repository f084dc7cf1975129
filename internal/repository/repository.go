package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Dan9191/statement-analyzer/internal/models"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/shopspring/decimal"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ErrReportNotFound is returned when no report has the requested ID
var ErrReportNotFound = errors.New("report not found")

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Migrate applies the embedded schema migrations. An up-to-date schema is not an error.
func Migrate(db *sql.DB) error {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// SaveReport stores a report snapshot and fills in its creation time
func (r *Repository) SaveReport(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (id, profile, source, period_start, period_end, tx_count, total, average,
			max_magnitude, min_magnitude, current_balance, runway_months, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, CURRENT_TIMESTAMP)
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		report.ID,
		string(report.Profile),
		report.Source,
		nullDate(report.PeriodStart),
		nullDate(report.PeriodEnd),
		report.Summary.Count,
		money(report.Summary.Total),
		money(report.Summary.Average),
		money(report.Summary.MaxMagnitude),
		money(report.Summary.MinMagnitude),
		money(report.CurrentBalance),
		nullRunway(report.RunwayMonths),
		report.Text,
	).Scan(&report.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

const reportColumns = `id, profile, source, period_start, period_end, tx_count, total, average,
	max_magnitude, min_magnitude, current_balance, runway_months, body, created_at`

// ListReports returns the most recent reports first
func (r *Repository) ListReports(ctx context.Context, limit int) ([]models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports ORDER BY created_at DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := []models.Report{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// FindReportByID retrieves a single report
func (r *Repository) FindReportByID(ctx context.Context, id string) (*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`
	report, err := scanReport(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (*models.Report, error) {
	var (
		report                              models.Report
		profile                             string
		start, end                          sql.NullTime
		total, average, maxMag, minMag, bal decimal.Decimal
		runway                              sql.NullFloat64
	)
	err := row.Scan(&report.ID, &profile, &report.Source, &start, &end, &report.Summary.Count,
		&total, &average, &maxMag, &minMag, &bal, &runway, &report.Text, &report.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan report: %w", err)
	}
	report.Profile = models.Profile(profile)
	report.PeriodStart = start.Time
	report.PeriodEnd = end.Time
	report.Summary.Total = total.InexactFloat64()
	report.Summary.Average = average.InexactFloat64()
	report.Summary.MaxMagnitude = maxMag.InexactFloat64()
	report.Summary.MinMagnitude = minMag.InexactFloat64()
	report.CurrentBalance = bal.InexactFloat64()
	if runway.Valid {
		report.RunwayMonths = &runway.Float64
	}
	return &report, nil
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func nullDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func nullRunway(v *float64) any {
	if v == nil || math.IsInf(*v, 0) || math.IsNaN(*v) {
		return nil
	}
	return *v
}
