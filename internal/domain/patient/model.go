package patient

import (
	"time"

	"github.com/clinicore/clinic-server/pkg/apperror"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"

	GenderMale   = "male"
	GenderFemale = "female"
)

var validStatuses = map[string]bool{
	StatusActive:   true,
	StatusInactive: true,
}

var validGenders = map[string]bool{
	GenderMale:   true,
	GenderFemale: true,
}

// Patient is a registered clinic patient. PatientNumber is assigned once at
// registration and never changes; Age is derived from DateOfBirth on every
// read and never stored.
type Patient struct {
	ID                    int64     `json:"id"`
	PatientNumber         string    `json:"patient_number"`
	Name                  string    `json:"name"`
	DateOfBirth           time.Time `json:"date_of_birth"`
	Gender                string    `json:"gender"`
	Phone                 *string   `json:"phone"`
	Email                 *string   `json:"email"`
	Address               *string   `json:"address"`
	EmergencyContactName  *string   `json:"emergency_contact_name"`
	EmergencyContactPhone *string   `json:"emergency_contact_phone"`
	MedicalHistory        *string   `json:"medical_history"`
	Allergies             *string   `json:"allergies"`
	Status                string    `json:"status"`
	Age                   int       `json:"age"`
	UpcomingAppointments  int       `json:"upcoming_appointments"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// AgeAt returns the patient's age in whole years as of the given date.
func (p *Patient) AgeAt(now time.Time) int {
	years := now.Year() - p.DateOfBirth.Year()
	anniversary := p.DateOfBirth.AddDate(years, 0, 0)
	nowDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	annDate := time.Date(anniversary.Year(), anniversary.Month(), anniversary.Day(), 0, 0, 0, 0, time.UTC)
	if annDate.After(nowDate) {
		years--
	}
	return years
}

// Input is the registration/edit payload. DateOfBirth arrives as a
// YYYY-MM-DD string and is parsed during validation.
type Input struct {
	Name                  string  `json:"name"`
	DateOfBirth           string  `json:"date_of_birth"`
	Gender                string  `json:"gender"`
	Phone                 *string `json:"phone"`
	Email                 *string `json:"email"`
	Address               *string `json:"address"`
	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
	MedicalHistory        *string `json:"medical_history"`
	Allergies             *string `json:"allergies"`
	Status                string  `json:"status"`
}

const dateLayout = "2006-01-02"

// Validate checks the payload against the registration rules. It returns nil
// when the payload is acceptable.
func (in *Input) Validate(now time.Time) apperror.Fields {
	errs := apperror.Fields{}

	if in.Name == "" {
		errs.Add("name", "name is required")
	}
	if in.DateOfBirth == "" {
		errs.Add("date_of_birth", "date_of_birth is required")
	} else if dob, err := time.Parse(dateLayout, in.DateOfBirth); err != nil {
		errs.Add("date_of_birth", "date_of_birth must be a valid date (YYYY-MM-DD)")
	} else if dob.After(now) {
		errs.Add("date_of_birth", "date_of_birth cannot be in the future")
	}
	if in.Gender == "" {
		errs.Add("gender", "gender is required")
	} else if !validGenders[in.Gender] {
		errs.Add("gender", "gender must be male or female")
	}
	if in.Status != "" && !validStatuses[in.Status] {
		errs.Add("status", "status must be active or inactive")
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// apply copies the validated payload onto a patient record. The patient
// number and timestamps are left untouched.
func (in *Input) apply(p *Patient) {
	p.Name = in.Name
	p.DateOfBirth, _ = time.Parse(dateLayout, in.DateOfBirth)
	p.Gender = in.Gender
	p.Phone = in.Phone
	p.Email = in.Email
	p.Address = in.Address
	p.EmergencyContactName = in.EmergencyContactName
	p.EmergencyContactPhone = in.EmergencyContactPhone
	p.MedicalHistory = in.MedicalHistory
	p.Allergies = in.Allergies
	p.Status = in.Status
	if p.Status == "" {
		p.Status = StatusActive
	}
}
