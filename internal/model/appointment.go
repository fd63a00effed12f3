package model

import (
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// Appointment is a single booked visit. Instances are immutable once stored;
// the repository replaces whole snapshots instead of mutating in place.
type Appointment struct {
	ID          int64             `json:"id"`
	PatientName string            `json:"patient_name"`
	Phone       string            `json:"phone"`
	DateTime    time.Time         `json:"date_time"`
	Complaint   string            `json:"complaint,omitempty"`
	Status      AppointmentStatus `json:"status"`
}

// CreateAppointmentRequest is the creation form payload. Field order matters:
// validation reports the first failing field top to bottom.
type CreateAppointmentRequest struct {
	PatientName string `json:"patient_name" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	TimeOfDay   string `json:"time_of_day" validate:"required"`
	Complaint   string `json:"complaint" validate:"max=1000"`
}

// ScheduleRecord is the record shape returned by the external day-schedule
// feed. Followup doubles as the complaint for follow-up visits, and Time is a
// text timestamp truncated to HH:MM.
type ScheduleRecord struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phonenumber"`
	Age         int    `json:"age,omitempty"`
	Complaint   string `json:"complaint,omitempty"`
	Followup    string `json:"followup,omitempty"`
	Time        string `json:"time"`
}
