// Package generator builds deterministic synthetic ledgers.
package generator

import (
	"math/rand"
	"time"

	"github.com/Dan9191/statement-analyzer/internal/models"
	"github.com/shopspring/decimal"
)

// DefaultAnchor is the last day of the horizon when Params.Anchor is zero
var DefaultAnchor = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// Params controls a generation run
type Params struct {
	Seed            int64
	HorizonDays     int
	StartingBalance float64
	Profile         models.Profile
	Anchor          time.Time // last calendar day of the horizon
}

// DefaultParams returns params with the profile's starting balance
func DefaultParams(seed int64, horizonDays int, profile models.Profile, anchor time.Time) Params {
	return Params{
		Seed:            seed,
		HorizonDays:     horizonDays,
		StartingBalance: profile.StartingBalance(),
		Profile:         profile,
		Anchor:          anchor,
	}
}

// Generator draws transactions from an injected random source
type Generator struct {
	rng *rand.Rand
}

// New initializes a generator over src
func New(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// Generate builds a ledger seeded from p.Seed
func Generate(p Params) models.Ledger {
	return New(rand.NewSource(p.Seed)).Generate(p)
}

// Generate builds a ledger spanning p.HorizonDays days ending at p.Anchor
func (g *Generator) Generate(p Params) models.Ledger {
	if p.HorizonDays <= 0 {
		return models.NewLedger(nil, p.StartingBalance)
	}
	anchor := p.Anchor
	if anchor.IsZero() {
		anchor = DefaultAnchor
	}
	anchor = models.Day(anchor)
	start := anchor.AddDate(0, 0, -(p.HorizonDays - 1))
	table := tableFor(p.Profile)

	var txs []models.Transaction
	for i := 0; i < p.HorizonDays; i++ {
		date := start.AddDate(0, 0, i)

		for _, pe := range table.periodic {
			if i%pe.every == pe.offset {
				for _, ev := range pe.events {
					txs = append(txs, g.emit(date, ev))
				}
			}
		}
		for _, ev := range table.monthly[date.Day()] {
			txs = append(txs, g.emit(date, ev))
		}
		for _, b := range table.bursts {
			txs = append(txs, g.drawBurst(date, b)...)
		}
	}

	return models.NewLedger(txs, p.StartingBalance)
}

func (g *Generator) emit(date time.Time, ev event) models.Transaction {
	amount := g.draw(ev.amount)
	if !ev.credit {
		amount = -amount
	}
	return models.Transaction{
		Date:        date,
		Description: ev.description,
		Amount:      amount,
		Category:    ev.category,
		Subcategory: ev.subcategory,
		Type:        models.TypeFor(amount),
	}
}

func (g *Generator) drawBurst(date time.Time, b *burst) []models.Transaction {
	if b.onlyOn != nil && date.Weekday() != *b.onlyOn {
		return nil
	}
	bounds := b.weekday
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		bounds = b.weekend
	}
	n := bounds[0] + g.rng.Intn(bounds[1]-bounds[0]+1)

	out := make([]models.Transaction, 0, n)
	for k := 0; k < n; k++ {
		p := b.picks[g.weighted(b.cumulative)]
		merchant := p.merchants[g.rng.Intn(len(p.merchants))]
		out = append(out, g.emit(date, event{
			description: p.prefix + merchant,
			category:    p.category,
			subcategory: p.subcategory,
			amount:      p.amount,
			credit:      p.credit,
		}))
	}
	return out
}

// weighted returns an index drawn from cumulative weights
func (g *Generator) weighted(cumulative []float64) int {
	r := g.rng.Float64() * cumulative[len(cumulative)-1]
	for i, c := range cumulative {
		if r < c {
			return i
		}
	}
	return len(cumulative) - 1
}

// draw returns a cent-rounded magnitude; fixed amounts consume no randomness
func (g *Generator) draw(r amountRange) float64 {
	v := r.min
	if r.max > r.min {
		v = r.min + g.rng.Float64()*(r.max-r.min)
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
