package repository // repository for the published train schedule

import (
	"context"      // context for managing deadlines
	"database/sql" // sql provides DB interfaces

	"github.com/iliyamo/railway-seat-reservation/internal/model"
)

// ScheduleRepo encapsulates read access to the schedule tables.  The
// engine never writes these: schedules are published out of band and
// this service only sells seats against them.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo constructs a ScheduleRepo given a DB handle.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

// LoadAll reads every train with its route and per-class berth layouts.
// Layout rows reference trains by number; a layout without a matching
// train row is skipped rather than failing the whole load.
func (r *ScheduleRepo) LoadAll(ctx context.Context) ([]model.Train, error) {
	const trainsQ = `SELECT number, name, start_station, end_station,
		departure_time, arrival_time, duration
		FROM trains ORDER BY number`

	rows, err := r.db.QueryContext(ctx, trainsQ)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byNumber := make(map[string]*model.Train)
	var order []string
	for rows.Next() {
		var t model.Train
		if err := rows.Scan(&t.Number, &t.Name,
			&t.Route.StartStation, &t.Route.EndStation,
			&t.Route.DepartureTime, &t.Route.ArrivalTime, &t.Route.Duration); err != nil {
			return nil, err
		}
		t.Layouts = make(map[model.TravelClass]model.ClassLayout)
		byNumber[t.Number] = &t
		order = append(order, t.Number)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(byNumber) == 0 {
		return nil, ErrEmptySchedule
	}

	const layoutsQ = `SELECT train_number, class, berth_type, seats, base_fare_paise
		FROM class_layouts`

	lrows, err := r.db.QueryContext(ctx, layoutsQ)
	if err != nil {
		return nil, err
	}
	defer lrows.Close()

	for lrows.Next() {
		var (
			number, class, berth string
			seats                int
			baseFare             int64
		)
		if err := lrows.Scan(&number, &class, &berth, &seats, &baseFare); err != nil {
			return nil, err
		}
		t, ok := byNumber[number]
		if !ok || !model.ValidClass(class) || !model.ValidBerth(berth) {
			continue
		}
		layout, ok := t.Layouts[model.TravelClass(class)]
		if !ok {
			layout = model.ClassLayout{
				Class:         model.TravelClass(class),
				SeatsPerBerth: make(map[model.BerthType]int),
				BaseFarePaise: baseFare,
			}
		}
		layout.SeatsPerBerth[model.BerthType(berth)] = seats
		t.Layouts[model.TravelClass(class)] = layout
	}
	if err := lrows.Err(); err != nil {
		return nil, err
	}

	out := make([]model.Train, 0, len(order))
	for _, n := range order {
		out = append(out, *byNumber[n])
	}
	return out, nil
}
