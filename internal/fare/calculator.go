// Package fare derives berth prices from the catalog base fare.  All
// inputs are explicit (record, berth, quota) and all tables are plain
// data, so the same inputs always produce the same price — the
// availability view and the booking-time charge can never disagree
// unless the ledger moved between the two calls.
package fare

import "github.com/iliyamo/railway-seat-reservation/internal/model"

// occupancyStep maps a booked/total threshold to a percentage uplift.
// Steps must be sorted by rising threshold; the last matching step
// wins, which keeps premium tatkal monotone in demand.
type occupancyStep struct {
	Below float64 // applies while booked/total < Below
	Pct   int
}

// Calculator prices a berth.  The tables are business-policy inputs;
// the zero value is unusable, construct with New.
type Calculator struct {
	// BerthUpliftPaise is added to the class base fare per berth type.
	BerthUpliftPaise map[model.BerthType]int64
	// TatkalPct is the tatkal surcharge per class, in percent.
	TatkalPct map[model.TravelClass]int
	// PremiumSteps is the premium-tatkal surcharge ladder over occupancy.
	PremiumSteps []occupancyStep
}

// New returns a calculator with the default policy tables: berth
// uplifts of 50/75/100 rupees (upper/middle/lower), tatkal surcharge
// 30% for AC1, 20% for AC2/AC3 and 10% elsewhere, premium tatkal
// climbing 30→45→60→75% as the pool fills.
func New() *Calculator {
	return &Calculator{
		BerthUpliftPaise: map[model.BerthType]int64{
			model.BerthUpper:  5000,
			model.BerthMiddle: 7500,
			model.BerthLower:  10000,
		},
		TatkalPct: map[model.TravelClass]int{
			model.ClassAC1: 30,
			model.ClassAC2: 20,
			model.ClassAC3: 20,
		},
		PremiumSteps: []occupancyStep{
			{Below: 0.50, Pct: 30},
			{Below: 0.75, Pct: 45},
			{Below: 0.90, Pct: 60},
			{Below: 1.01, Pct: 75},
		},
	}
}

// Price returns the per-seat fare in paise for one berth of the
// record's pool under the given quota.
func (c *Calculator) Price(rec model.InventoryRecord, quota model.Quota) int64 {
	base := rec.BaseFarePaise + c.BerthUpliftPaise[rec.Key.Berth]
	switch quota {
	case model.QuotaTatkal:
		pct, ok := c.TatkalPct[rec.Key.Class]
		if !ok {
			pct = 10
		}
		return base + base*int64(pct)/100
	case model.QuotaPremiumTatkal:
		return base + base*int64(c.premiumPct(rec))/100
	default: // GENERAL
		return base
	}
}

// premiumPct picks the surcharge step for the record's occupancy.
func (c *Calculator) premiumPct(rec model.InventoryRecord) int {
	if rec.Total <= 0 {
		return c.PremiumSteps[len(c.PremiumSteps)-1].Pct
	}
	ratio := float64(rec.Booked) / float64(rec.Total)
	for _, s := range c.PremiumSteps {
		if ratio < s.Below {
			return s.Pct
		}
	}
	return c.PremiumSteps[len(c.PremiumSteps)-1].Pct
}
