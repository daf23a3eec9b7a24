package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/medcare/clinic-scheduling/internal/clinic"
)

// WriteAppointmentsCSV renders a range report as CSV rows, one
// appointment per row.
func WriteAppointmentsCSV(w io.Writer, appts []clinic.Appointment) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"id", "patient", "doctor_id", "service_id", "date", "start", "end", "status"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, a := range appts {
		record := []string{
			a.ID.String(),
			a.PatientName,
			a.DoctorID.String(),
			a.ServiceID.String(),
			a.Date.Format("2006-01-02"),
			a.StartTime.String(),
			a.EndTime.String(),
			string(a.Status),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteDoctorRankingCSV renders a most-requested-doctors report.
func WriteDoctorRankingCSV(w io.Writer, ranking []clinic.DoctorCount) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"doctor", "specialization", "appointments"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, entry := range ranking {
		record := []string{
			entry.Doctor.Name,
			entry.Doctor.Specialization,
			strconv.Itoa(entry.Count),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteServiceRankingCSV renders a most-requested-services report.
func WriteServiceRankingCSV(w io.Writer, ranking []clinic.ServiceCount) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"service", "price", "duration_minutes", "appointments"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, entry := range ranking {
		record := []string{
			entry.Service.Name,
			entry.Service.Price.StringFixed(2),
			strconv.Itoa(entry.Service.DurationMinutes),
			strconv.Itoa(entry.Count),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
