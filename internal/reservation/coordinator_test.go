package reservation

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/railway-seat-reservation/internal/catalog"
	"github.com/iliyamo/railway-seat-reservation/internal/config"
	"github.com/iliyamo/railway-seat-reservation/internal/fare"
	"github.com/iliyamo/railway-seat-reservation/internal/ledger"
	"github.com/iliyamo/railway-seat-reservation/internal/model"
	"github.com/iliyamo/railway-seat-reservation/internal/waitlist"
)

const travelDate = "2025-07-15"

// departure for train 12001 on travelDate is 2025-07-15 08:30 UTC
var departure = time.Date(2025, 7, 15, 8, 30, 0, 0, time.UTC)

func testTrains() []model.Train {
	layout := model.ClassLayout{
		Class: model.ClassAC2,
		SeatsPerBerth: map[model.BerthType]int{
			model.BerthUpper:  24,
			model.BerthMiddle: 24,
			model.BerthLower:  24,
		},
		BaseFarePaise: 120000,
	}
	return []model.Train{
		{
			Number: "12001",
			Name:   "Rajdhani Express",
			Route: model.Route{
				StartStation:  "New Delhi",
				EndStation:    "Mumbai Central",
				DepartureTime: "08:30",
				ArrivalTime:   "14:45",
				Duration:      "6h 15m",
			},
			Layouts: map[model.TravelClass]model.ClassLayout{model.ClassAC2: layout},
		},
		{
			Number: "12002",
			Name:   "Shatabdi Express",
			Route: model.Route{
				StartStation:  "New Delhi",
				EndStation:    "Mumbai Central",
				DepartureTime: "10:15",
				ArrivalTime:   "16:40",
				Duration:      "6h 25m",
			},
			Layouts: map[model.TravelClass]model.ClassLayout{model.ClassAC2: layout},
		},
	}
}

func testConfig() config.Config {
	return config.Config{
		TatkalOpenHours:        24,
		PremiumTatkalOpenHours: 12,
		WaitlistMax:            20,
		LockWait:               2 * time.Second,
		BookingHorizonDays:     60,
		RefundFullHours:        12,
		RefundHalfHours:        4,
		HalfChargePct:          50,
		LateChargePct:          75,
	}
}

func newTestCoordinator(t *testing.T, cfg config.Config) *Coordinator {
	t.Helper()
	c := New(ledger.New(), waitlist.NewRegistry(), fare.New(), catalog.New(testTrains()), cfg, nil)
	// 48h before departure: general open, tatkal windows closed
	c.Now = func() time.Time { return departure.Add(-48 * time.Hour) }
	return c
}

func bookReq(seats int) BookRequest {
	return BookRequest{
		Train:        "Rajdhani Express",
		TravelDate:   travelDate,
		StartStation: "New Delhi",
		EndStation:   "Mumbai Central",
		Class:        "AC2",
		Berth:        "lower",
		Quota:        "GENERAL",
		Seats:        seats,
		Passenger:    "A. Kumar",
	}
}

func TestBookConfirmed(t *testing.T) {
	c := newTestCoordinator(t, testConfig())
	b, err := c.Book(bookReq(2))
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, b.Status)
	assert.Len(t, b.Berths, 2)
	assert.Equal(t, []string{"AC2/lower/01", "AC2/lower/02"}, b.Berths)
	// general fare: (1200 base + 100 lower uplift) * 2 seats, in paise
	assert.Equal(t, int64(260000), b.FarePaise)
	assert.Equal(t, "12001", b.Key.TrainNumber)
}

func TestBookValidation(t *testing.T) {
	c := newTestCoordinator(t, testConfig())

	req := bookReq(1)
	req.Train = "Nonexistent Express"
	_, err := c.Book(req)
	assert.ErrorIs(t, err, ErrNotFound)

	req = bookReq(1)
	req.TravelDate = "15-07-2025"
	_, err = c.Book(req)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	req = bookReq(1)
	req.Class = "AC9"
	_, err = c.Book(req)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	req = bookReq(1)
	req.StartStation = "Chennai"
	_, err = c.Book(req)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	req = bookReq(0)
	_, err = c.Book(req)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	req = bookReq(7)
	_, err = c.Book(req)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestTatkalWindow(t *testing.T) {
	c := newTestCoordinator(t, testConfig())

	req := bookReq(1)
	req.Quota = "TATKAL"
	_, err := c.Book(req)
	assert.ErrorIs(t, err, ErrQuotaNotOpen, "48h out, tatkal must be closed")

	// 20h before departure tatkal is open, premium tatkal is not
	c.Now = func() time.Time { return departure.Add(-20 * time.Hour) }
	b, err := c.Book(req)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, b.Status)
	// tatkal AC2: (1200+100)*1.20 = 1560.00
	assert.Equal(t, int64(156000), b.FarePaise)

	req.Quota = "PREMIUM_TATKAL"
	_, err = c.Book(req)
	assert.ErrorIs(t, err, ErrQuotaNotOpen)
}

func TestBookAfterDeparture(t *testing.T) {
	c := newTestCoordinator(t, testConfig())
	c.Now = func() time.Time { return departure.Add(time.Minute) }
	_, err := c.Book(bookReq(1))
	assert.ErrorIs(t, err, ErrDeparted)
}

// TestNoOversell runs many concurrent single-seat bookings against a
// 24-seat pool: exactly 24 may confirm, everyone else waitlists, and
// the ledger never oversells.
func TestNoOversell(t *testing.T) {
	cfg := testConfig()
	cfg.WaitlistMax = 100
	c := newTestCoordinator(t, cfg)

	const callers = 40
	var wg sync.WaitGroup
	results := make(chan model.Booking, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := c.Book(bookReq(1))
			if assert.NoError(t, err) {
				results <- b
			}
		}()
	}
	wg.Wait()
	close(results)

	confirmed, waitlisted := 0, 0
	positions := make(map[uint64]bool)
	for b := range results {
		switch b.Status {
		case model.StatusConfirmed:
			confirmed++
		case model.StatusWaitlisted:
			waitlisted++
			assert.False(t, positions[b.WaitlistPosition], "duplicate waitlist position %d", b.WaitlistPosition)
			positions[b.WaitlistPosition] = true
		}
	}
	assert.Equal(t, 24, confirmed)
	assert.Equal(t, callers-24, waitlisted)
}

// TestFullPoolScenario is the end-to-end scenario: 24 bookings fill
// the pool, the 25th waitlists at position 1, cancelling booking #10
// at 12h+ refunds in full and promotes #25 with availability still 0.
func TestFullPoolScenario(t *testing.T) {
	c := newTestCoordinator(t, testConfig())

	var bookings []model.Booking
	for i := 0; i < 24; i++ {
		b, err := c.Book(bookReq(1))
		require.NoError(t, err)
		require.Equal(t, model.StatusConfirmed, b.Status, "booking %d", i+1)
		bookings = append(bookings, b)
	}

	wl, err := c.Book(bookReq(1))
	require.NoError(t, err)
	assert.Equal(t, model.StatusWaitlisted, wl.Status)
	assert.Equal(t, uint64(1), wl.WaitlistPosition)
	assert.Empty(t, wl.Berths)

	cancelled, err := c.Cancel(bookings[9].ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	assert.Equal(t, int64(0), cancelled.ChargePaise, "48h out must be a full refund")
	assert.Equal(t, cancelled.FarePaise, cancelled.RefundPaise)

	promoted, err := c.Get(wl.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, promoted.Status)
	assert.Equal(t, uint64(0), promoted.WaitlistPosition)
	assert.Len(t, promoted.Berths, 1)

	// the freed seat went to the waitlist, not back to the pool
	snap, err := c.SnapshotFor(wl.Key)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Available())
}

func TestPromotionOrder(t *testing.T) {
	c := newTestCoordinator(t, testConfig())

	var confirmed model.Booking
	for i := 0; i < 24; i++ {
		b, err := c.Book(bookReq(1))
		require.NoError(t, err)
		confirmed = b
	}
	w1, _ := c.Book(bookReq(1))
	w2, _ := c.Book(bookReq(1))
	w3, _ := c.Book(bookReq(1))
	require.Equal(t, uint64(1), w1.WaitlistPosition)
	require.Equal(t, uint64(2), w2.WaitlistPosition)
	require.Equal(t, uint64(3), w3.WaitlistPosition)

	// withdraw the front, then cancel a seat: promotion must go to the
	// lowest remaining position (w2), never w3
	_, err := c.Cancel(w1.ID)
	require.NoError(t, err)

	_, err = c.Cancel(confirmed.ID)
	require.NoError(t, err)

	got2, _ := c.Get(w2.ID)
	got3, _ := c.Get(w3.ID)
	assert.Equal(t, model.StatusConfirmed, got2.Status)
	assert.Equal(t, model.StatusWaitlisted, got3.Status)
}

func TestCancelNotIdempotent(t *testing.T) {
	c := newTestCoordinator(t, testConfig())
	b, err := c.Book(bookReq(1))
	require.NoError(t, err)

	first, err := c.Cancel(b.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusCancelled, first.Status)

	_, err = c.Cancel(b.ID)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	// state unchanged by the failed cancel
	got, err := c.Get(b.ID)
	require.NoError(t, err)
	assert.Equal(t, first.RefundPaise, got.RefundPaise)
	assert.Equal(t, first.CancelledAt.UTC(), got.CancelledAt.UTC())

	_, err = c.Cancel("no-such-booking")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRefundTiers(t *testing.T) {
	cases := []struct {
		name        string
		hoursBefore time.Duration
		chargePct   int64
	}{
		{"12h+ full refund", 13 * time.Hour, 0},
		{"6h half charge", 6 * time.Hour, 50},
		{"2h late charge", 2 * time.Hour, 75},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestCoordinator(t, testConfig())
			b, err := c.Book(bookReq(1))
			require.NoError(t, err)

			c.Now = func() time.Time { return departure.Add(-tc.hoursBefore) }
			cancelled, err := c.Cancel(b.ID)
			require.NoError(t, err)
			wantCharge := b.FarePaise * tc.chargePct / 100
			assert.Equal(t, wantCharge, cancelled.ChargePaise)
			assert.Equal(t, b.FarePaise-wantCharge, cancelled.RefundPaise)
		})
	}
}

func TestCancelAfterDeparture(t *testing.T) {
	c := newTestCoordinator(t, testConfig())
	b, err := c.Book(bookReq(1))
	require.NoError(t, err)

	c.Now = func() time.Time { return departure.Add(time.Hour) }
	_, err = c.Cancel(b.ID)
	assert.ErrorIs(t, err, ErrDeparted)
}

func TestWaitlistFull(t *testing.T) {
	cfg := testConfig()
	cfg.WaitlistMax = 1
	c := newTestCoordinator(t, cfg)

	for i := 0; i < 24; i++ {
		_, err := c.Book(bookReq(1))
		require.NoError(t, err)
	}
	_, err := c.Book(bookReq(1))
	require.NoError(t, err)

	_, err = c.Book(bookReq(1))
	assert.ErrorIs(t, err, ErrWaitlistFull)
}

func TestCancelWaitlistedWithdraws(t *testing.T) {
	c := newTestCoordinator(t, testConfig())
	for i := 0; i < 24; i++ {
		_, err := c.Book(bookReq(1))
		require.NoError(t, err)
	}
	w, err := c.Book(bookReq(1))
	require.NoError(t, err)

	cancelled, err := c.Cancel(w.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	// never held a seat: nothing retained
	assert.Equal(t, int64(0), cancelled.ChargePaise)
	assert.Equal(t, cancelled.FarePaise, cancelled.RefundPaise)
}

func TestIdempotentBook(t *testing.T) {
	c := newTestCoordinator(t, testConfig())

	req := bookReq(2)
	req.IdempotencyKey = "client-key-1"
	first, err := c.Book(req)
	require.NoError(t, err)

	retry, err := c.Book(req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, retry.ID)
	assert.Equal(t, first.Berths, retry.Berths)

	// only one decrement happened
	rec, err := c.Get(first.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Seats)
	snap, err := c.SnapshotFor(rec.Key)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Booked)
}

func TestBerthFallback(t *testing.T) {
	cfg := testConfig()
	cfg.BerthFallback = true
	c := newTestCoordinator(t, cfg)

	// drain the lower pool
	for i := 0; i < 24; i++ {
		_, err := c.Book(bookReq(1))
		require.NoError(t, err)
	}
	b, err := c.Book(bookReq(1))
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, b.Status)
	assert.NotEqual(t, model.BerthLower, b.Key.Berth, "must fall back to another berth type")
}

func TestBerthNumbersReused(t *testing.T) {
	c := newTestCoordinator(t, testConfig())
	b1, err := c.Book(bookReq(1))
	require.NoError(t, err)
	require.Equal(t, []string{"AC2/lower/01"}, b1.Berths)

	b2, err := c.Book(bookReq(1))
	require.NoError(t, err)
	require.Equal(t, []string{"AC2/lower/02"}, b2.Berths)

	_, err = c.Cancel(b1.ID)
	require.NoError(t, err)

	b3, err := c.Book(bookReq(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"AC2/lower/01"}, b3.Berths, "freed berth is reassigned lowest-first")
}
