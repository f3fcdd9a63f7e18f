// Package availability assembles the read-only query projection.  The
// view takes no booking locks: it reads committed ledger snapshots and
// waitlist lengths, so a result reflects the ledger at the moment of
// the read and may be stale by the time a booking attempt runs.
// Booking re-validates inventory; it never trusts a snapshot.
package availability

import (
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/railway-seat-reservation/internal/catalog"
	"github.com/iliyamo/railway-seat-reservation/internal/config"
	"github.com/iliyamo/railway-seat-reservation/internal/fare"
	"github.com/iliyamo/railway-seat-reservation/internal/ledger"
	"github.com/iliyamo/railway-seat-reservation/internal/model"
	"github.com/iliyamo/railway-seat-reservation/internal/reservation"
	"github.com/iliyamo/railway-seat-reservation/internal/waitlist"
)

var quotas = []model.Quota{model.QuotaGeneral, model.QuotaTatkal, model.QuotaPremiumTatkal}

// View serves availability queries.
type View struct {
	ledger    *ledger.Ledger
	waitlists *waitlist.Registry
	fares     *fare.Calculator
	catalog   *catalog.Catalog
	cfg       config.Config

	// Now is the clock; tests override it.
	Now func() time.Time
}

// New wires a view over the shared engine state.
func New(l *ledger.Ledger, w *waitlist.Registry, f *fare.Calculator, cat *catalog.Catalog, cfg config.Config) *View {
	return &View{ledger: l, waitlists: w, fares: f, catalog: cat, cfg: cfg, Now: time.Now}
}

// Query returns the availability snapshot for one train, date and
// class.  A sold-out pool is a successful result with zero
// availability; only unknown trains/classes or malformed input error.
func (v *View) Query(train, travelDate, startStation, endStation, class string) (model.AvailabilitySnapshot, error) {
	var zero model.AvailabilitySnapshot

	t, err := v.catalog.Lookup(strings.TrimSpace(train))
	if err != nil {
		return zero, reservation.ErrNotFound
	}
	if startStation != "" && !strings.EqualFold(startStation, t.Route.StartStation) {
		return zero, reservation.ErrInvalidRequest
	}
	if endStation != "" && !strings.EqualFold(endStation, t.Route.EndStation) {
		return zero, reservation.ErrInvalidRequest
	}
	if _, err := time.Parse("2006-01-02", travelDate); err != nil {
		return zero, reservation.ErrInvalidRequest
	}
	if !model.ValidClass(class) {
		return zero, reservation.ErrInvalidRequest
	}
	layout, ok := t.Layouts[model.TravelClass(class)]
	if !ok {
		return zero, reservation.ErrNotFound
	}

	now := v.Now().UTC()
	departure, err := catalog.DepartureAt(t, travelDate)
	if err != nil {
		return zero, reservation.ErrInvalidRequest
	}
	// lazily open pools for dates inside the horizon; archived past
	// dates stay readable through whatever the ledger retains
	if until := departure.Sub(now); until > 0 && until <= time.Duration(v.cfg.BookingHorizonDays)*24*time.Hour {
		v.ledger.OpenTrain(t, travelDate)
	}

	cls := model.ClassAvailability{
		BerthAvailability: make(map[model.BerthType]model.BerthAvailability, len(layout.SeatsPerBerth)),
		BaseFarePaise:     layout.BaseFarePaise,
		BookingStatus:     "OPEN",
	}
	if !now.Before(departure) {
		cls.BookingStatus = "CLOSED"
	}

	for berth := range layout.SeatsPerBerth {
		key := model.InventoryKey{
			TrainNumber: t.Number,
			TravelDate:  travelDate,
			Class:       model.TravelClass(class),
			Berth:       berth,
		}
		rec, err := v.ledger.Snapshot(key)
		if err != nil {
			// pool never opened (outside horizon): report full capacity
			rec = model.InventoryRecord{Key: key, Total: layout.SeatsPerBerth[berth], BaseFarePaise: layout.BaseFarePaise}
		}
		cls.TotalSeats += rec.Total
		cls.AvailableSeats += rec.Available()
		for _, q := range quotas {
			cls.WaitingList += v.waitlists.LenFor(key, q)
		}
		cls.BerthAvailability[berth] = model.BerthAvailability{
			Total:      rec.Total,
			Available:  rec.Available(),
			PricePaise: v.fares.Price(rec, model.QuotaGeneral),
		}
	}
	if cls.AvailableSeats > 0 {
		cls.Status = "Available"
	} else {
		cls.Status = "Waiting List"
	}

	snap := model.AvailabilitySnapshot{
		TrainDetails: model.TrainDetails{
			TrainName:   t.Name,
			TrainNumber: t.Number,
			TravelDate:  travelDate,
			Route: model.RouteInfo{
				StartStation:  t.Route.StartStation,
				EndStation:    t.Route.EndStation,
				DepartureTime: t.Route.DepartureTime,
				ArrivalTime:   t.Route.ArrivalTime,
				Duration:      t.Route.Duration,
			},
		},
		ClassAvailability: map[model.TravelClass]model.ClassAvailability{
			model.TravelClass(class): cls,
		},
		AdditionalInfo: model.AdditionalInfo{
			TatkalAvailable:        reservation.QuotaOpen(v.cfg, model.QuotaTatkal, departure, now),
			PremiumTatkalAvailable: reservation.QuotaOpen(v.cfg, model.QuotaPremiumTatkal, departure, now),
			CancellationCharges:    v.charges(),
			LastUpdated:            now.Format("2006-01-02 15:04:05"),
		},
		AlternateOptions: v.alternates(t, travelDate, model.TravelClass(class)),
	}
	return snap, nil
}

// charges renders the configured refund tiers for the response.
func (v *View) charges() model.CancellationCharges {
	return model.CancellationCharges{
		Within4Hours:  strconv.Itoa(v.cfg.LateChargePct) + "% of fare",
		Hours4To12:    strconv.Itoa(v.cfg.HalfChargePct) + "% of fare",
		Before12Hours: "No charge",
	}
}

// alternates lists other trains on the same leg with live counts.
func (v *View) alternates(of model.Train, travelDate string, class model.TravelClass) []model.AlternateOption {
	var out []model.AlternateOption
	for _, alt := range v.catalog.Alternates(of, class) {
		layout := alt.Layouts[class]
		available := 0
		for berth, seats := range layout.SeatsPerBerth {
			key := model.InventoryKey{TrainNumber: alt.Number, TravelDate: travelDate, Class: class, Berth: berth}
			if rec, err := v.ledger.Snapshot(key); err == nil {
				available += rec.Available()
			} else {
				available += seats
			}
		}
		out = append(out, model.AlternateOption{
			TrainName:      alt.Name,
			TrainNumber:    alt.Number,
			DepartureTime:  alt.Route.DepartureTime,
			AvailableSeats: available,
			Class:          class,
		})
	}
	return out
}
