package appointment

import (
	"regexp"
	"time"

	"github.com/clinicore/clinic-server/pkg/apperror"
)

const (
	StatusScheduled  = "scheduled"
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"

	TypeGeneralCheckup     = "general_checkup"
	TypeSpecializedCheckup = "specialized_checkup"
	TypeFollowUp           = "follow_up"
	TypeEmergency          = "emergency"
)

var validStatuses = map[string]bool{
	StatusScheduled:  true,
	StatusConfirmed:  true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusCancelled:  true,
}

var validTypes = map[string]bool{
	TypeGeneralCheckup:     true,
	TypeSpecializedCheckup: true,
	TypeFollowUp:           true,
	TypeEmergency:          true,
}

// Appointment is a scheduled visit. AppointmentNumber is assigned once at
// booking and never changes. The date is checked against "today" only when
// the record is submitted; a scheduled appointment whose date has passed is
// left as-is, there is no automatic transition.
type Appointment struct {
	ID                int64     `json:"id"`
	PatientID         int64     `json:"patient_id"`
	AppointmentNumber string    `json:"appointment_number"`
	AppointmentDate   time.Time `json:"appointment_date"`
	AppointmentTime   string    `json:"appointment_time"`
	Type              string    `json:"type"`
	DoctorName        *string   `json:"doctor_name"`
	Notes             *string   `json:"notes"`
	Status            string    `json:"status"`
	PatientName       string    `json:"patient_name,omitempty"`
	PatientNumber     string    `json:"patient_number,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// IsUpcoming reports whether the appointment still counts toward the
// upcoming list: dated today or later and not yet started or terminated.
func (a *Appointment) IsUpcoming(today time.Time) bool {
	if a.Status != StatusScheduled && a.Status != StatusConfirmed {
		return false
	}
	return !dateOnly(a.AppointmentDate).Before(dateOnly(today))
}

// IsToday reports whether the appointment falls on the given date,
// regardless of status.
func (a *Appointment) IsToday(today time.Time) bool {
	return dateOnly(a.AppointmentDate).Equal(dateOnly(today))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Input is the booking/edit payload. The date arrives as YYYY-MM-DD and the
// time as HH:MM.
type Input struct {
	PatientID       int64   `json:"patient_id"`
	AppointmentDate string  `json:"appointment_date"`
	AppointmentTime string  `json:"appointment_time"`
	Type            string  `json:"type"`
	DoctorName      *string `json:"doctor_name"`
	Notes           *string `json:"notes"`
	Status          string  `json:"status"`
}

const dateLayout = "2006-01-02"

var timeRE = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Validate checks the payload against the booking rules. The date must not
// be earlier than the submission date; this holds for edits as well as
// creates.
func (in *Input) Validate(now time.Time) apperror.Fields {
	errs := apperror.Fields{}

	if in.PatientID <= 0 {
		errs.Add("patient_id", "patient_id is required")
	}
	if in.AppointmentDate == "" {
		errs.Add("appointment_date", "appointment_date is required")
	} else if d, err := time.Parse(dateLayout, in.AppointmentDate); err != nil {
		errs.Add("appointment_date", "appointment_date must be a valid date (YYYY-MM-DD)")
	} else if dateOnly(d).Before(dateOnly(now)) {
		errs.Add("appointment_date", "appointment_date cannot be in the past")
	}
	if in.AppointmentTime == "" {
		errs.Add("appointment_time", "appointment_time is required")
	} else if !timeRE.MatchString(in.AppointmentTime) {
		errs.Add("appointment_time", "appointment_time must be in 24-hour HH:MM format")
	}
	if in.Type == "" {
		errs.Add("type", "type is required")
	} else if !validTypes[in.Type] {
		errs.Add("type", "type must be one of general_checkup, specialized_checkup, follow_up, emergency")
	}
	if in.Status != "" && !validStatuses[in.Status] {
		errs.Add("status", "status must be one of scheduled, confirmed, in_progress, completed, cancelled")
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (in *Input) apply(a *Appointment) {
	a.PatientID = in.PatientID
	a.AppointmentDate, _ = time.Parse(dateLayout, in.AppointmentDate)
	a.AppointmentTime = in.AppointmentTime
	a.Type = in.Type
	a.DoctorName = in.DoctorName
	a.Notes = in.Notes
	a.Status = in.Status
	if a.Status == "" {
		a.Status = StatusScheduled
	}
}
