package model

// Route describes the single service leg a train runs between two
// stations, as published in the schedule.
//
// Fields:
//  StartStation  – departure station name or code.
//  EndStation    – arrival station name or code.
//  DepartureTime – local departure clock time, "HH:MM".
//  ArrivalTime   – local arrival clock time, "HH:MM".
//  Duration      – human-readable journey length (e.g. "6h 15m").
type Route struct {
	StartStation  string
	EndStation    string
	DepartureTime string
	ArrivalTime   string
	Duration      string
}

// ClassLayout is the published seat layout of one class on a train:
// how many berths of each type a rake carries and the class base fare.
// Inventory records are opened from this template for every travel
// date inside the booking horizon.
type ClassLayout struct {
	Class         TravelClass
	SeatsPerBerth map[BerthType]int
	BaseFarePaise int64
}

// TotalSeats sums the layout across berth types.
func (l ClassLayout) TotalSeats() int {
	n := 0
	for _, c := range l.SeatsPerBerth {
		n += c
	}
	return n
}

// Train is one scheduled train with its route and per-class layouts.
//
// Fields:
//  Number  – public train number, unique in the catalog.
//  Name    – display name (e.g. "Rajdhani Express").
//  Route   – the leg this train serves.
//  Layouts – seat layout per class offered on this train.
type Train struct {
	Number  string
	Name    string
	Route   Route
	Layouts map[TravelClass]ClassLayout
}
