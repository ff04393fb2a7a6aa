package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/clinicore/clinic-server/internal/domain/appointment"
	"github.com/clinicore/clinic-server/internal/domain/examination"
	"github.com/clinicore/clinic-server/internal/domain/patient"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert sample records for development",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			patientSvc := patient.NewService(patient.NewRepo(pool))
			appointmentSvc := appointment.NewService(appointment.NewRepo(pool), patientSvc)
			examinationSvc := examination.NewService(examination.NewRepo(pool), patientSvc, appointmentSvc)

			return seed(ctx, patientSvc, appointmentSvc, examinationSvc)
		},
	}
}

func strptr(s string) *string   { return &s }
func f64ptr(v float64) *float64 { return &v }
func intptr(v int) *int         { return &v }

func seed(ctx context.Context, patients *patient.Service, appointments *appointment.Service, examinations *examination.Service) error {
	samplePatients := []patient.Input{
		{
			Name: "Alice Martin", DateOfBirth: "1985-04-12", Gender: "female",
			Phone: strptr("555-0101"), Email: strptr("alice.martin@example.com"),
			Allergies: strptr("penicillin"),
		},
		{
			Name: "Robert Chen", DateOfBirth: "1972-11-03", Gender: "male",
			Phone: strptr("555-0102"), MedicalHistory: strptr("hypertension"),
		},
		{
			Name: "Maria Lopez", DateOfBirth: "1996-07-29", Gender: "female",
			Email: strptr("maria.lopez@example.com"),
		},
	}

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	nextWeek := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	lastWeek := time.Now().AddDate(0, 0, -7).Format("2006-01-02")

	for i, in := range samplePatients {
		p, err := patients.Register(ctx, in)
		if err != nil {
			return fmt.Errorf("seed patient %q: %w", in.Name, err)
		}
		fmt.Printf("registered %s (%s)\n", p.Name, p.PatientNumber)

		a, err := appointments.Book(ctx, appointment.Input{
			PatientID:       p.ID,
			AppointmentDate: tomorrow,
			AppointmentTime: fmt.Sprintf("%02d:30", 9+i),
			Type:            appointment.TypeGeneralCheckup,
			DoctorName:      strptr("Dr. Adams"),
		})
		if err != nil {
			return fmt.Errorf("seed appointment for %s: %w", p.PatientNumber, err)
		}
		fmt.Printf("  booked %s on %s\n", a.AppointmentNumber, tomorrow)

		if i == 0 {
			if _, err := appointments.Book(ctx, appointment.Input{
				PatientID:       p.ID,
				AppointmentDate: nextWeek,
				AppointmentTime: "14:00",
				Type:            appointment.TypeFollowUp,
				Status:          appointment.StatusConfirmed,
			}); err != nil {
				return fmt.Errorf("seed follow-up for %s: %w", p.PatientNumber, err)
			}
		}

		if _, err := examinations.Record(ctx, examination.Input{
			PatientID:       p.ID,
			ExaminationDate: lastWeek,
			ExaminationType: "general",
			Height:          f64ptr(170 - float64(i)*5),
			Weight:          f64ptr(70 + float64(i)*3),
			BPSystolic:      intptr(118 + i),
			BPDiastolic:     intptr(78),
			HeartRate:       intptr(70 + i),
			Temperature:     f64ptr(36.6),
			DoctorName:      "Dr. Adams",
		}); err != nil {
			return fmt.Errorf("seed examination for %s: %w", p.PatientNumber, err)
		}
	}

	fmt.Println("seed complete")
	return nil
}
