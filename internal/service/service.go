package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/Dan9191/statement-analyzer/internal/config"
	"github.com/Dan9191/statement-analyzer/internal/generator"
	"github.com/Dan9191/statement-analyzer/internal/models"
	"github.com/Dan9191/statement-analyzer/internal/statement"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	// ErrLedgerNotFound is returned for unknown or expired upload IDs
	ErrLedgerNotFound = errors.New("ledger not found")
	// ErrReportNotFound is returned for unknown report IDs
	ErrReportNotFound = errors.New("report not found")
	// ErrInvalidCredentials is returned when an API key does not match
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPersistenceDisabled is returned by report storage calls without a database
	ErrPersistenceDisabled = errors.New("report persistence is disabled")
)

// ReportStore persists report snapshots
type ReportStore interface {
	SaveReport(ctx context.Context, report *models.Report) error
	ListReports(ctx context.Context, limit int) ([]models.Report, error)
	FindReportByID(ctx context.Context, id string) (*models.Report, error)
}

// Mailer delivers a text report to a list of recipients
type Mailer interface {
	SendReport(to []string, subject, body string) error
}

// Service handles business logic
type Service struct {
	store   ReportStore
	mailer  Mailer
	log     *logrus.Logger
	config  *config.Config
	ledgers *cache.Cache
	uploads *cache.Cache
	now     func() time.Time
}

// NewService initializes a new service. store and mailer may be nil.
func NewService(store ReportStore, mailer Mailer, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		store:   store,
		mailer:  mailer,
		log:     log,
		config:  cfg,
		ledgers: cache.New(cfg.LedgerTTL, 10*time.Minute),
		uploads: cache.New(cfg.UploadTTL, 10*time.Minute),
		now:     time.Now,
	}
}

// Source is a resolved ledger together with where it came from
type Source struct {
	UploadID string            `json:"ledger_id,omitempty"`
	Profile  models.Profile    `json:"profile"`
	Params   *generator.Params `json:"-"`
	Ledger   models.Ledger     `json:"ledger"`
}

// Kind is "upload" or "generated"
func (src *Source) Kind() string {
	if src.UploadID != "" {
		return "upload"
	}
	return "generated"
}

// Upload is a statement file held in memory under a generated ID
type Upload struct {
	ID        string         `json:"ledger_id"`
	Filename  string         `json:"filename"`
	Profile   models.Profile `json:"profile"`
	Count     int            `json:"count"`
	ExpiresAt time.Time      `json:"expires_at"`
	ledger    models.Ledger
}

// LedgerQuery selects an uploaded ledger by ID or describes a generated one.
// Callers start from DefaultParams; an empty profile or zero anchor is
// replaced by the configured profile and today.
type LedgerQuery struct {
	LedgerID string
	Params   generator.Params
}

// DefaultParams returns the configured generator params anchored at today
func (s *Service) DefaultParams() generator.Params {
	profile, err := models.ParseProfile(s.config.DefaultProfile)
	if err != nil {
		profile = models.Personal
	}
	return generator.DefaultParams(s.config.DefaultSeed, s.config.DefaultHorizonDays, profile, models.Day(s.now()))
}

// ResolveLedger returns the uploaded ledger named by q.LedgerID, or the
// (cached) generated ledger described by q.Params
func (s *Service) ResolveLedger(q LedgerQuery) (*Source, error) {
	if q.LedgerID != "" {
		item, ok := s.uploads.Get(q.LedgerID)
		if !ok {
			return nil, fmt.Errorf("failed to find upload %s: %w", q.LedgerID, ErrLedgerNotFound)
		}
		upload := item.(*Upload)
		return &Source{UploadID: upload.ID, Profile: upload.Profile, Ledger: upload.ledger}, nil
	}

	p := s.completeParams(q.Params)
	return &Source{Profile: p.Profile, Params: &p, Ledger: s.Generate(p)}, nil
}

func (s *Service) completeParams(p generator.Params) generator.Params {
	if p.Profile == "" {
		p.Profile = s.DefaultParams().Profile
	}
	if p.Anchor.IsZero() {
		p.Anchor = s.now()
	}
	p.Anchor = models.Day(p.Anchor)
	return p
}

func ledgerKey(p generator.Params) string {
	return fmt.Sprintf("%d|%d|%s|%s|%s",
		p.Seed, p.HorizonDays, p.Profile,
		decimal.NewFromFloat(p.StartingBalance).String(),
		p.Anchor.Format(models.DateLayout))
}

// Generate returns the ledger for p, generating it once per distinct params
// and keeping it for the configured ledger TTL
func (s *Service) Generate(p generator.Params) models.Ledger {
	key := ledgerKey(p)
	if item, ok := s.ledgers.Get(key); ok {
		return item.(models.Ledger)
	}
	ledger := generator.Generate(p)
	s.ledgers.Set(key, ledger, cache.DefaultExpiration)
	s.log.WithFields(logrus.Fields{
		"seed":    p.Seed,
		"horizon": p.HorizonDays,
		"profile": p.Profile,
		"count":   ledger.Len(),
	}).Info("Ledger generated")
	return ledger
}

// Upload parses a CSV (or, by .xml extension, XML) statement and keeps it for
// the configured TTL
func (s *Service) Upload(filename string, r io.Reader, profile models.Profile, startingBalance float64) (*Upload, error) {
	var (
		ledger models.Ledger
		err    error
	)
	if strings.EqualFold(filepath.Ext(filename), ".xml") {
		ledger, err = statement.ReadXML(r, startingBalance)
	} else {
		ledger, err = statement.Load(r, profile, startingBalance)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load statement %s: %w", filename, err)
	}

	upload := &Upload{
		ID:        uuid.NewString(),
		Filename:  filename,
		Profile:   profile,
		Count:     ledger.Len(),
		ExpiresAt: s.now().Add(s.config.UploadTTL),
		ledger:    ledger,
	}
	s.uploads.Set(upload.ID, upload, cache.DefaultExpiration)

	s.log.Infof("Statement uploaded: %s (%d transactions) as %s", filename, upload.Count, upload.ID)
	return upload, nil
}
