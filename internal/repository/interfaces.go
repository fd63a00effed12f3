package repository

import (
	"time"

	"github.com/jwalitptl/clinic-scheduler/internal/model"
)

// AppointmentRepository is the read/append store behind the calendar views.
// Implementations hand out immutable snapshots: a caller holding a returned
// slice never observes later writes through it.
type AppointmentRepository interface {
	// Add stores the appointment with a freshly assigned ID and returns the
	// stored copy. IDs increase monotonically and are never reused.
	Add(apt model.Appointment) model.Appointment

	// ForDate returns appointments whose DateTime falls on the given calendar
	// date, in insertion order. Chronological ordering is the caller's job.
	ForDate(date time.Time) []model.Appointment

	// ForDateAndHour narrows ForDate to appointments at the given hour.
	ForDateAndHour(date time.Time, hour int) []model.Appointment

	// List returns the current snapshot in insertion order.
	List() []model.Appointment

	// Count returns the number of stored appointments.
	Count() int

	// Replace swaps the whole collection for the given appointments, assigning
	// fresh IDs. Used when re-seeding from the external schedule feed.
	Replace(apts []model.Appointment) []model.Appointment
}
