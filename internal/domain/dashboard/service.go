package dashboard

import (
	"context"
	"time"

	"github.com/clinicore/clinic-server/internal/domain/appointment"
	"github.com/clinicore/clinic-server/internal/domain/examination"
)

const previewLimit = 5

// PatientStats, AppointmentStats and ExaminationStats are the slices of the
// domain services the dashboard reads from.
type PatientStats interface {
	Count(ctx context.Context) (int, error)
	CountRegisteredSince(ctx context.Context, since time.Time) (int, error)
}

type AppointmentStats interface {
	CountUpcoming(ctx context.Context) (int, error)
	CountToday(ctx context.Context) (int, error)
	ListUpcoming(ctx context.Context, limit int) ([]*appointment.Appointment, error)
}

type ExaminationStats interface {
	ListRecent(ctx context.Context, limit int) ([]*examination.ExaminationResult, error)
}

type Stats struct {
	TotalPatients        int `json:"total_patients"`
	NewPatientsThisMonth int `json:"new_patients_this_month"`
	UpcomingAppointments int `json:"upcoming_appointments"`
	TodayAppointments    int `json:"today_appointments"`
}

type Overview struct {
	Stats                Stats                            `json:"stats"`
	UpcomingAppointments []*appointment.Appointment       `json:"upcoming_appointments"`
	RecentResults        []*examination.ExaminationResult `json:"recent_examination_results"`
}

type Service struct {
	patients     PatientStats
	appointments AppointmentStats
	examinations ExaminationStats
	now          func() time.Time
}

func NewService(patients PatientStats, appointments AppointmentStats, examinations ExaminationStats) *Service {
	return &Service{
		patients:     patients,
		appointments: appointments,
		examinations: examinations,
		now:          time.Now,
	}
}

// Overview assembles the landing-page numbers and previews.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var o Overview
	var err error
	if o.Stats.TotalPatients, err = s.patients.Count(ctx); err != nil {
		return nil, err
	}
	if o.Stats.NewPatientsThisMonth, err = s.patients.CountRegisteredSince(ctx, monthStart); err != nil {
		return nil, err
	}
	if o.Stats.UpcomingAppointments, err = s.appointments.CountUpcoming(ctx); err != nil {
		return nil, err
	}
	if o.Stats.TodayAppointments, err = s.appointments.CountToday(ctx); err != nil {
		return nil, err
	}
	if o.UpcomingAppointments, err = s.appointments.ListUpcoming(ctx, previewLimit); err != nil {
		return nil, err
	}
	if o.RecentResults, err = s.examinations.ListRecent(ctx, previewLimit); err != nil {
		return nil, err
	}
	return &o, nil
}
