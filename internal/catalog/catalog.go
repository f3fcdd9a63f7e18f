// Package catalog is the in-memory index over the published train
// schedule.  The repository loads the rows once at startup; after that
// every lookup is a map read, which keeps the engine's hot paths free
// of database calls.
package catalog

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/iliyamo/railway-seat-reservation/internal/model"
)

// ErrTrainNotFound is returned when neither a train name nor number
// matches the catalog.
var ErrTrainNotFound = errors.New("train not found in schedule")

// Catalog indexes trains by number and by lower-cased name.  It is
// immutable after construction and safe for concurrent reads.
type Catalog struct {
	byNumber map[string]model.Train
	byName   map[string]model.Train
	trains   []model.Train
}

// New builds a catalog from the loaded schedule rows.
func New(trains []model.Train) *Catalog {
	c := &Catalog{
		byNumber: make(map[string]model.Train, len(trains)),
		byName:   make(map[string]model.Train, len(trains)),
		trains:   trains,
	}
	for _, t := range trains {
		c.byNumber[t.Number] = t
		c.byName[strings.ToLower(t.Name)] = t
	}
	return c
}

// Lookup resolves a train by name (case-insensitive) or number.
func (c *Catalog) Lookup(nameOrNumber string) (model.Train, error) {
	if t, ok := c.byNumber[nameOrNumber]; ok {
		return t, nil
	}
	if t, ok := c.byName[strings.ToLower(nameOrNumber)]; ok {
		return t, nil
	}
	return model.Train{}, ErrTrainNotFound
}

// All returns every train in the schedule.
func (c *Catalog) All() []model.Train {
	return c.trains
}

// Alternates returns other trains serving the same leg that offer the
// given class, sorted by departure time.
func (c *Catalog) Alternates(of model.Train, class model.TravelClass) []model.Train {
	var out []model.Train
	for _, t := range c.trains {
		if t.Number == of.Number {
			continue
		}
		if !strings.EqualFold(t.Route.StartStation, of.Route.StartStation) ||
			!strings.EqualFold(t.Route.EndStation, of.Route.EndStation) {
			continue
		}
		if _, ok := t.Layouts[class]; !ok {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Route.DepartureTime < out[j].Route.DepartureTime
	})
	return out
}

// DepartureAt combines a travel date (YYYY-MM-DD) with the train's
// scheduled departure clock time into a UTC instant.
func DepartureAt(t model.Train, travelDate string) (time.Time, error) {
	return time.Parse("2006-01-02 15:04", travelDate+" "+t.Route.DepartureTime)
}
