// Package scheduler validates creation requests and commits them to the
// appointment repository.
package scheduler

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/clinic-scheduler/internal/model"
	"github.com/jwalitptl/clinic-scheduler/internal/repository"
	apperrors "github.com/jwalitptl/clinic-scheduler/pkg/errors"
)

type Service struct {
	repo     repository.AppointmentRepository
	validate *validator.Validate
}

func NewService(repo repository.AppointmentRepository) *Service {
	v := validator.New()
	// Report fields by their wire names, not Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Service{
		repo:     repo,
		validate: v,
	}
}

// Create validates the request and, on success, stores a confirmed
// appointment at contextDate's calendar date combined with the requested
// time of day. Validation fails fast: the error names the first field that
// failed, and the repository is left untouched.
//
// Double bookings are allowed: the clinic's intake flow has always permitted
// any number of appointments per slot.
func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest, contextDate time.Time) (*model.Appointment, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, firstFieldError(err)
	}

	hour, minute, err := parseTimeOfDay(req.TimeOfDay)
	if err != nil {
		return nil, apperrors.NewValidation("time_of_day", err.Error())
	}

	year, month, day := contextDate.Date()
	apt := model.Appointment{
		PatientName: req.PatientName,
		Phone:       req.Phone,
		DateTime:    time.Date(year, month, day, hour, minute, 0, 0, contextDate.Location()),
		Complaint:   req.Complaint,
		Status:      model.AppointmentStatusConfirmed,
	}

	stored := s.repo.Add(apt)
	return &stored, nil
}

// firstFieldError converts the validator's output into a single-field
// validation error. Struct fields are declared in validation order, and the
// validator reports them in that order.
func firstFieldError(err error) error {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return apperrors.NewValidation(fe.Field(), "is required")
		case "max":
			return apperrors.NewValidation(fe.Field(), fmt.Sprintf("must not exceed %s characters", fe.Param()))
		default:
			return apperrors.NewValidation(fe.Field(), "is invalid")
		}
	}
	return apperrors.NewBadRequest("invalid request", err)
}

// parseTimeOfDay parses an HH:MM wall-clock time. Malformed values are a
// validation failure, never coerced.
func parseTimeOfDay(s string) (hour, minute int, err error) {
	t, perr := time.Parse("15:04", strings.TrimSpace(s))
	if perr != nil {
		return 0, 0, fmt.Errorf("must be a valid HH:MM time")
	}
	return t.Hour(), t.Minute(), nil
}
