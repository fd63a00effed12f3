// Package memory implements the appointment store as an in-process,
// copy-on-write collection. Every write builds a new snapshot slice and swaps
// it in whole, so readers keep a consistent view without holding any lock
// across their iteration.
package memory

import (
	"sync"
	"time"

	"github.com/jwalitptl/clinic-scheduler/internal/calendar"
	"github.com/jwalitptl/clinic-scheduler/internal/model"
)

type AppointmentRepository struct {
	mu       sync.RWMutex
	snapshot []model.Appointment
	nextID   int64
}

func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{nextID: 1}
}

func (r *AppointmentRepository) Add(apt model.Appointment) model.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()

	apt.ID = r.nextID
	r.nextID++

	next := make([]model.Appointment, len(r.snapshot), len(r.snapshot)+1)
	copy(next, r.snapshot)
	r.snapshot = append(next, apt)

	return apt
}

func (r *AppointmentRepository) Replace(apts []model.Appointment) []model.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]model.Appointment, len(apts))
	for i, apt := range apts {
		apt.ID = r.nextID
		r.nextID++
		next[i] = apt
	}
	r.snapshot = next

	return next
}

func (r *AppointmentRepository) ForDate(date time.Time) []model.Appointment {
	var matches []model.Appointment
	for _, apt := range r.current() {
		if calendar.SameDay(apt.DateTime, date) {
			matches = append(matches, apt)
		}
	}
	return matches
}

func (r *AppointmentRepository) ForDateAndHour(date time.Time, hour int) []model.Appointment {
	var matches []model.Appointment
	for _, apt := range r.current() {
		if calendar.SameDay(apt.DateTime, date) && apt.DateTime.Hour() == hour {
			matches = append(matches, apt)
		}
	}
	return matches
}

func (r *AppointmentRepository) List() []model.Appointment {
	return r.current()
}

func (r *AppointmentRepository) Count() int {
	return len(r.current())
}

// current returns the live snapshot. The slice is never mutated after the
// swap, so it is safe to iterate outside the lock.
func (r *AppointmentRepository) current() []model.Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}
