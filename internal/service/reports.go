package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dan9191/statement-analyzer/internal/analytics"
	"github.com/Dan9191/statement-analyzer/internal/models"
	"github.com/Dan9191/statement-analyzer/internal/report"
	"github.com/Dan9191/statement-analyzer/internal/repository"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

const (
	// DefaultReportLimit caps ListReports when no limit is given
	DefaultReportLimit  = 20
	reportTopCategories = 3
)

// BuildReport summarizes the whole ledger into a report snapshot
func (s *Service) BuildReport(src *Source) *models.Report {
	l := src.Ledger
	summary := report.Summarize(l)

	title := "Personal statement report"
	if src.Profile == models.Company {
		title = "Company statement report"
	}

	var b strings.Builder
	b.WriteString(report.Text(title, l.FirstDate(), l.LastDate(), summary))
	fmt.Fprintf(&b, "Current balance: %s\n", report.Money(l.CurrentBalance()))

	rep := &models.Report{
		ID:             uuid.NewString(),
		Profile:        src.Profile,
		Source:         src.Kind(),
		PeriodStart:    l.FirstDate(),
		PeriodEnd:      l.LastDate(),
		Summary:        summary,
		CurrentBalance: l.CurrentBalance(),
		CreatedAt:      s.now().UTC(),
	}

	if src.Profile == models.Company {
		runway := analytics.ComputeRunway(l)
		if runway.Unbounded {
			b.WriteString("Runway: unbounded (cash-flow positive)\n")
		} else {
			months := runway.RunwayMonths
			rep.RunwayMonths = &months
			fmt.Fprintf(&b, "Runway: %.1f months\n", months)
		}
	} else {
		fc := analytics.ForecastBalance(l, DefaultForecastDays)
		fmt.Fprintf(&b, "Overdraft risk (%d days): %s\n", DefaultForecastDays, fc.OverdraftRisk)
	}

	if top := analytics.CategoryBreakdown(l); len(top) > 0 {
		if len(top) > reportTopCategories {
			top = top[:reportTopCategories]
		}
		parts := make([]string, 0, len(top))
		for _, c := range top {
			parts = append(parts, fmt.Sprintf("%s %s", c.Category, report.Money(c.Total)))
		}
		fmt.Fprintf(&b, "Top categories: %s\n", strings.Join(parts, ", "))
	}

	rep.Text = b.String()
	return rep
}

// CreateReport builds and stores a report for the ledger
func (s *Service) CreateReport(ctx context.Context, src *Source) (*models.Report, error) {
	if s.store == nil {
		return nil, ErrPersistenceDisabled
	}
	rep := s.BuildReport(src)
	if err := s.store.SaveReport(ctx, rep); err != nil {
		return nil, err
	}
	s.log.Infof("Report %s saved for %s ledger", rep.ID, rep.Source)
	return rep, nil
}

// ListReports returns the latest stored reports
func (s *Service) ListReports(ctx context.Context, limit int) ([]models.Report, error) {
	if s.store == nil {
		return nil, ErrPersistenceDisabled
	}
	if limit <= 0 || limit > 100 {
		limit = DefaultReportLimit
	}
	return s.store.ListReports(ctx, limit)
}

// GetReport returns one stored report
func (s *Service) GetReport(ctx context.Context, id string) (*models.Report, error) {
	if s.store == nil {
		return nil, ErrPersistenceDisabled
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrReportNotFound
	}
	rep, err := s.store.FindReportByID(ctx, id)
	if errors.Is(err, repository.ErrReportNotFound) {
		return nil, ErrReportNotFound
	}
	return rep, err
}

// NightlyReport builds a report for the default generated ledger, stores it
// when persistence is enabled and mails it to the configured recipients.
// Storage and delivery failures are both reported.
func (s *Service) NightlyReport(ctx context.Context) (*models.Report, error) {
	src, err := s.ResolveLedger(LedgerQuery{Params: s.DefaultParams()})
	if err != nil {
		return nil, err
	}
	rep := s.BuildReport(src)

	var result *multierror.Error
	if s.store != nil {
		if err := s.store.SaveReport(ctx, rep); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if s.mailer != nil && len(s.config.ReportRecipients) > 0 {
		subject := fmt.Sprintf("Statement report %s", rep.PeriodEnd.Format(models.DateLayout))
		if err := s.mailer.SendReport(s.config.ReportRecipients, subject, rep.Text); err != nil {
			result = multierror.Append(result, err)
		}
	}

	s.log.Infof("Nightly report %s built", rep.ID)
	return rep, result.ErrorOrNil()
}
