package examination

import (
	"math"
	"time"

	"github.com/clinicore/clinic-server/pkg/apperror"
)

// ExaminationResult records the outcome of one examination. BMI is derived
// from height and weight on every read, never stored, and absent unless both
// vitals are present. AppointmentID is optional and cleared when the linked
// appointment is deleted.
type ExaminationResult struct {
	ID              int64      `json:"id"`
	PatientID       int64      `json:"patient_id"`
	AppointmentID   *int64     `json:"appointment_id"`
	ExaminationDate time.Time  `json:"examination_date"`
	ExaminationType string     `json:"examination_type"`
	Height          *float64   `json:"height"`
	Weight          *float64   `json:"weight"`
	BPSystolic      *int       `json:"blood_pressure_systolic"`
	BPDiastolic     *int       `json:"blood_pressure_diastolic"`
	HeartRate       *int       `json:"heart_rate"`
	Temperature     *float64   `json:"temperature"`
	LabResults      *string    `json:"lab_results"`
	Diagnosis       *string    `json:"diagnosis"`
	Recommendations *string    `json:"recommendations"`
	Medications     *string    `json:"medications"`
	DoctorName      string     `json:"doctor_name"`
	BMI             *float64   `json:"bmi"`
	PatientName     string     `json:"patient_name,omitempty"`
	PatientNumber   string     `json:"patient_number,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ComputeBMI returns weight(kg) / height(m)² rounded half-up to one decimal
// place, or nil when either vital is missing.
func (r *ExaminationResult) ComputeBMI() *float64 {
	if r.Height == nil || r.Weight == nil || *r.Height <= 0 {
		return nil
	}
	m := *r.Height / 100
	bmi := math.Floor(*r.Weight/(m*m)*10+0.5) / 10
	return &bmi
}

// Vital ranges accepted by validation.
const (
	heightMin, heightMax           = 50, 300
	weightMin, weightMax           = 1, 500
	systolicMin, systolicMax       = 60, 300
	diastolicMin, diastolicMax     = 40, 200
	heartRateMin, heartRateMax     = 30, 250
	temperatureMin, temperatureMax = 30, 45
)

// Input is the create/edit payload. ExaminationDate arrives as YYYY-MM-DD.
type Input struct {
	PatientID       int64    `json:"patient_id"`
	AppointmentID   *int64   `json:"appointment_id"`
	ExaminationDate string   `json:"examination_date"`
	ExaminationType string   `json:"examination_type"`
	Height          *float64 `json:"height"`
	Weight          *float64 `json:"weight"`
	BPSystolic      *int     `json:"blood_pressure_systolic"`
	BPDiastolic     *int     `json:"blood_pressure_diastolic"`
	HeartRate       *int     `json:"heart_rate"`
	Temperature     *float64 `json:"temperature"`
	LabResults      *string  `json:"lab_results"`
	Diagnosis       *string  `json:"diagnosis"`
	Recommendations *string  `json:"recommendations"`
	Medications     *string  `json:"medications"`
	DoctorName      string   `json:"doctor_name"`
}

const dateLayout = "2006-01-02"

// Validate checks the payload. The examination date must not be later than
// the submission date; each vital, when present, must fall in its range.
func (in *Input) Validate(now time.Time) apperror.Fields {
	errs := apperror.Fields{}

	if in.PatientID <= 0 {
		errs.Add("patient_id", "patient_id is required")
	}
	if in.ExaminationDate == "" {
		errs.Add("examination_date", "examination_date is required")
	} else if d, err := time.Parse(dateLayout, in.ExaminationDate); err != nil {
		errs.Add("examination_date", "examination_date must be a valid date (YYYY-MM-DD)")
	} else if dateOnly(d).After(dateOnly(now)) {
		errs.Add("examination_date", "examination_date cannot be in the future")
	}
	if in.ExaminationType == "" {
		errs.Add("examination_type", "examination_type is required")
	}
	if in.DoctorName == "" {
		errs.Add("doctor_name", "doctor_name is required")
	}

	checkFloat(errs, "height", in.Height, heightMin, heightMax)
	checkFloat(errs, "weight", in.Weight, weightMin, weightMax)
	checkInt(errs, "blood_pressure_systolic", in.BPSystolic, systolicMin, systolicMax)
	checkInt(errs, "blood_pressure_diastolic", in.BPDiastolic, diastolicMin, diastolicMax)
	checkInt(errs, "heart_rate", in.HeartRate, heartRateMin, heartRateMax)
	checkFloat(errs, "temperature", in.Temperature, temperatureMin, temperatureMax)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func checkFloat(errs apperror.Fields, field string, v *float64, min, max float64) {
	if v != nil && (*v < min || *v > max) {
		errs.Add(field, field+" is out of range")
	}
}

func checkInt(errs apperror.Fields, field string, v *int, min, max int) {
	if v != nil && (*v < min || *v > max) {
		errs.Add(field, field+" is out of range")
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (in *Input) apply(r *ExaminationResult) {
	r.PatientID = in.PatientID
	r.AppointmentID = in.AppointmentID
	r.ExaminationDate, _ = time.Parse(dateLayout, in.ExaminationDate)
	r.ExaminationType = in.ExaminationType
	r.Height = in.Height
	r.Weight = in.Weight
	r.BPSystolic = in.BPSystolic
	r.BPDiastolic = in.BPDiastolic
	r.HeartRate = in.HeartRate
	r.Temperature = in.Temperature
	r.LabResults = in.LabResults
	r.Diagnosis = in.Diagnosis
	r.Recommendations = in.Recommendations
	r.Medications = in.Medications
	r.DoctorName = in.DoctorName
}
