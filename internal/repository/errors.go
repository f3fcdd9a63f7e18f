// Package repository loads the published train schedule from MySQL.
// The sentinel values below let callers distinguish failure scenarios
// with errors.Is instead of matching strings.
package repository

import "errors"

// ErrEmptySchedule is returned when the schedule tables exist but
// contain no trains.  Booting with nothing to sell is almost always a
// deployment mistake, so main treats this as fatal.
var ErrEmptySchedule = errors.New("schedule is empty")
