package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-scheduler/internal/model"
)

func apt(name string, y int, m time.Month, d, hh, mm int) model.Appointment {
	return model.Appointment{
		PatientName: name,
		Phone:       "5550100",
		DateTime:    time.Date(y, m, d, hh, mm, 0, 0, time.UTC),
		Status:      model.AppointmentStatusConfirmed,
	}
}

func TestAddAssignsMonotonicIDs(t *testing.T) {
	repo := NewAppointmentRepository()

	first := repo.Add(apt("John Doe", 2023, time.June, 10, 10, 30))
	second := repo.Add(apt("Jane Smith", 2023, time.June, 10, 14, 0))

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, 2, repo.Count())
}

func TestReplaceKeepsIDSequence(t *testing.T) {
	repo := NewAppointmentRepository()
	repo.Add(apt("John Doe", 2023, time.June, 10, 10, 30))
	repo.Add(apt("Jane Smith", 2023, time.June, 10, 14, 0))

	seeded := repo.Replace([]model.Appointment{
		apt("Robert Johnson", 2023, time.June, 15, 11, 15),
	})

	require.Len(t, seeded, 1)
	// IDs are never reused, even after the collection is swapped out.
	assert.Equal(t, int64(3), seeded[0].ID)
	assert.Equal(t, 1, repo.Count())

	next := repo.Add(apt("Emily Davis", 2023, time.June, 16, 9, 0))
	assert.Equal(t, int64(4), next.ID)
}

func TestForDate(t *testing.T) {
	repo := NewAppointmentRepository()
	repo.Add(apt("John Doe", 2023, time.June, 10, 10, 30))
	repo.Add(apt("Jane Smith", 2023, time.June, 15, 11, 15))

	matches := repo.ForDate(time.Date(2023, time.June, 10, 0, 0, 0, 0, time.UTC))
	require.Len(t, matches, 1)
	assert.Equal(t, "John Doe", matches[0].PatientName)

	// Adjacent days are excluded.
	assert.Empty(t, repo.ForDate(time.Date(2023, time.June, 9, 0, 0, 0, 0, time.UTC)))
	assert.Empty(t, repo.ForDate(time.Date(2023, time.June, 11, 0, 0, 0, 0, time.UTC)))
}

func TestForDatePreservesInsertionOrder(t *testing.T) {
	repo := NewAppointmentRepository()
	repo.Add(apt("Late Booking", 2023, time.June, 10, 16, 30))
	repo.Add(apt("Early Booking", 2023, time.June, 10, 9, 0))

	matches := repo.ForDate(time.Date(2023, time.June, 10, 0, 0, 0, 0, time.UTC))
	require.Len(t, matches, 2)
	assert.Equal(t, "Late Booking", matches[0].PatientName)
	assert.Equal(t, "Early Booking", matches[1].PatientName)
}

func TestForDateAndHour(t *testing.T) {
	repo := NewAppointmentRepository()
	repo.Add(apt("John Doe", 2023, time.June, 10, 10, 30))
	repo.Add(apt("Jane Smith", 2023, time.June, 10, 14, 0))

	day := time.Date(2023, time.June, 10, 0, 0, 0, 0, time.UTC)

	at10 := repo.ForDateAndHour(day, 10)
	require.Len(t, at10, 1)
	assert.Equal(t, "John Doe", at10[0].PatientName)

	assert.Empty(t, repo.ForDateAndHour(day, 11))
}

func TestSnapshotIsolation(t *testing.T) {
	repo := NewAppointmentRepository()
	repo.Add(apt("John Doe", 2023, time.June, 10, 10, 30))

	before := repo.List()
	repo.Add(apt("Jane Smith", 2023, time.June, 10, 14, 0))

	// A snapshot taken before the write never sees it.
	assert.Len(t, before, 1)
	assert.Len(t, repo.List(), 2)
}
