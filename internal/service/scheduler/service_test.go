package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-scheduler/internal/model"
	"github.com/jwalitptl/clinic-scheduler/internal/repository/memory"
	apperrors "github.com/jwalitptl/clinic-scheduler/pkg/errors"
)

func TestCreateSuccess(t *testing.T) {
	repo := memory.NewAppointmentRepository()
	svc := NewService(repo)

	contextDate := time.Date(2023, time.June, 10, 0, 0, 0, 0, time.UTC)
	apt, err := svc.Create(context.Background(), &model.CreateAppointmentRequest{
		PatientName: "Jane",
		Phone:       "555",
		TimeOfDay:   "14:00",
	}, contextDate)

	require.NoError(t, err)
	assert.Equal(t, int64(1), apt.ID)
	assert.Equal(t, time.Date(2023, time.June, 10, 14, 0, 0, 0, time.UTC), apt.DateTime)
	assert.Equal(t, model.AppointmentStatusConfirmed, apt.Status)
	assert.Equal(t, 1, repo.Count())
}

func TestCreateValidationOrder(t *testing.T) {
	tests := []struct {
		name      string
		req       *model.CreateAppointmentRequest
		wantField string
	}{
		{
			"missing patient name reported first",
			&model.CreateAppointmentRequest{Phone: "555", TimeOfDay: "10:00"},
			"patient_name",
		},
		{
			"missing phone",
			&model.CreateAppointmentRequest{PatientName: "Jane", TimeOfDay: "10:00"},
			"phone",
		},
		{
			"missing time of day",
			&model.CreateAppointmentRequest{PatientName: "Jane", Phone: "555"},
			"time_of_day",
		},
		{
			"everything missing still names patient name",
			&model.CreateAppointmentRequest{},
			"patient_name",
		},
		{
			"unparseable time",
			&model.CreateAppointmentRequest{PatientName: "Jane", Phone: "555", TimeOfDay: "half past two"},
			"time_of_day",
		},
		{
			"hour out of range",
			&model.CreateAppointmentRequest{PatientName: "Jane", Phone: "555", TimeOfDay: "24:00"},
			"time_of_day",
		},
		{
			"minute out of range",
			&model.CreateAppointmentRequest{PatientName: "Jane", Phone: "555", TimeOfDay: "10:61"},
			"time_of_day",
		},
	}

	contextDate := time.Date(2023, time.June, 10, 0, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := memory.NewAppointmentRepository()
			svc := NewService(repo)

			apt, err := svc.Create(context.Background(), tt.req, contextDate)
			require.Error(t, err)
			assert.Nil(t, apt)

			verr, ok := apperrors.AsValidation(err)
			require.True(t, ok, "expected a validation error, got %v", err)
			assert.Equal(t, tt.wantField, verr.Field)

			// Failed requests never touch the repository.
			assert.Zero(t, repo.Count())
		})
	}
}

func TestCreateComplaintIsOptional(t *testing.T) {
	repo := memory.NewAppointmentRepository()
	svc := NewService(repo)

	contextDate := time.Date(2023, time.June, 10, 0, 0, 0, 0, time.UTC)
	apt, err := svc.Create(context.Background(), &model.CreateAppointmentRequest{
		PatientName: "Jane",
		Phone:       "555",
		TimeOfDay:   "09:30",
		Complaint:   "Tooth pain",
	}, contextDate)

	require.NoError(t, err)
	assert.Equal(t, "Tooth pain", apt.Complaint)
	assert.Equal(t, 9, apt.DateTime.Hour())
	assert.Equal(t, 30, apt.DateTime.Minute())
}

func TestCreateAllowsDoubleBooking(t *testing.T) {
	repo := memory.NewAppointmentRepository()
	svc := NewService(repo)

	contextDate := time.Date(2023, time.June, 10, 0, 0, 0, 0, time.UTC)
	req := &model.CreateAppointmentRequest{PatientName: "Jane", Phone: "555", TimeOfDay: "14:00"}

	_, err := svc.Create(context.Background(), req, contextDate)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), req, contextDate)
	require.NoError(t, err)

	assert.Equal(t, 2, repo.Count())
}
