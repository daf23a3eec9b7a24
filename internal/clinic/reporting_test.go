package clinic

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentsInRange(t *testing.T) {
	repo := NewMemoryRepository()
	doctor := seedDoctor(repo, "Dr. Adams")
	service := seedService(repo, "Consultation", 30)

	first := date(2026, time.June, 1)
	last := date(2026, time.June, 7)

	seedAppointment(repo, doctor.ID, service.ID, first.AddDate(0, 0, -1), NewTimeOfDay(9, 0), NewTimeOfDay(9, 30))
	onStart := seedAppointment(repo, doctor.ID, service.ID, first, NewTimeOfDay(9, 0), NewTimeOfDay(9, 30))
	mid := seedAppointment(repo, doctor.ID, service.ID, first.AddDate(0, 0, 3), NewTimeOfDay(9, 0), NewTimeOfDay(9, 30))
	onEnd := seedAppointment(repo, doctor.ID, service.ID, last, NewTimeOfDay(9, 0), NewTimeOfDay(9, 30))
	seedAppointment(repo, doctor.ID, service.ID, last.AddDate(0, 0, 1), NewTimeOfDay(9, 0), NewTimeOfDay(9, 30))

	svc := NewReportService(repo)
	appts, err := svc.AppointmentsInRange(context.Background(), first, last)
	require.NoError(t, err)

	ids := make([]string, 0, len(appts))
	for _, a := range appts {
		ids = append(ids, a.ID.String())
	}
	assert.ElementsMatch(t, []string{onStart.ID.String(), mid.ID.String(), onEnd.ID.String()}, ids)
}

func TestAppointmentsInRangeSingleDay(t *testing.T) {
	repo := NewMemoryRepository()
	doctor := seedDoctor(repo, "Dr. Adams")
	service := seedService(repo, "Consultation", 30)

	day := date(2026, time.June, 1)
	seedAppointment(repo, doctor.ID, service.ID, day, NewTimeOfDay(9, 0), NewTimeOfDay(9, 30))

	svc := NewReportService(repo)

	// start == end covers exactly that day.
	appts, err := svc.AppointmentsInRange(context.Background(), day, day)
	require.NoError(t, err)
	assert.Len(t, appts, 1)
}

func TestAppointmentsInRangeInvalid(t *testing.T) {
	svc := NewReportService(NewMemoryRepository())

	_, err := svc.AppointmentsInRange(context.Background(), date(2026, time.June, 7), date(2026, time.June, 1))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestTopDoctorsByAppointments(t *testing.T) {
	repo := NewMemoryRepository()
	busy := seedDoctor(repo, "Dr. Busy")
	quiet := seedDoctor(repo, "Dr. Quiet")
	service := seedService(repo, "Consultation", 30)

	day := date(2026, time.June, 1)
	seedAppointment(repo, busy.ID, service.ID, day, NewTimeOfDay(9, 0), NewTimeOfDay(9, 30))
	seedAppointment(repo, busy.ID, service.ID, day, NewTimeOfDay(10, 0), NewTimeOfDay(10, 30))
	seedAppointment(repo, quiet.ID, service.ID, day, NewTimeOfDay(9, 0), NewTimeOfDay(9, 30))

	svc := NewReportService(repo)
	ranked, err := svc.TopDoctorsByAppointments(context.Background(), 5, day, day)
	require.NoError(t, err)

	require.Len(t, ranked, 2)
	assert.Equal(t, busy.ID, ranked[0].Doctor.ID)
	assert.Equal(t, 2, ranked[0].Count)
	assert.Equal(t, quiet.ID, ranked[1].Doctor.ID)
	assert.Equal(t, 1, ranked[1].Count)
}

func TestTopDoctorsTruncatesToN(t *testing.T) {
	repo := NewMemoryRepository()
	service := seedService(repo, "Consultation", 30)
	day := date(2026, time.June, 1)

	for i := 0; i < 4; i++ {
		d := seedDoctor(repo, "Dr. X")
		seedAppointment(repo, d.ID, service.ID, day, NewTimeOfDay(9+i, 0), NewTimeOfDay(9+i, 30))
	}

	svc := NewReportService(repo)
	ranked, err := svc.TopDoctorsByAppointments(context.Background(), 2, day, day)
	require.NoError(t, err)
	assert.Len(t, ranked, 2)
}

func TestTopDoctorsTieKeepsFirstSeenOrder(t *testing.T) {
	repo := NewMemoryRepository()
	first := seedDoctor(repo, "Dr. First")
	second := seedDoctor(repo, "Dr. Second")
	service := seedService(repo, "Consultation", 30)

	day := date(2026, time.June, 1)
	seedAppointment(repo, first.ID, service.ID, day, NewTimeOfDay(9, 0), NewTimeOfDay(9, 30))
	seedAppointment(repo, second.ID, service.ID, day, NewTimeOfDay(10, 0), NewTimeOfDay(10, 30))

	svc := NewReportService(repo)
	ranked, err := svc.TopDoctorsByAppointments(context.Background(), 5, day, day)
	require.NoError(t, err)

	require.Len(t, ranked, 2)
	assert.Equal(t, first.ID, ranked[0].Doctor.ID)
	assert.Equal(t, second.ID, ranked[1].Doctor.ID)
}

func TestTopServicesByAppointments(t *testing.T) {
	repo := NewMemoryRepository()
	doctor := seedDoctor(repo, "Dr. Adams")
	popular := seedService(repo, "Consultation", 30)
	rare := seedService(repo, "X-Ray", 15)

	day := date(2026, time.June, 1)
	seedAppointment(repo, doctor.ID, popular.ID, day, NewTimeOfDay(9, 0), NewTimeOfDay(9, 30))
	seedAppointment(repo, doctor.ID, popular.ID, day, NewTimeOfDay(10, 0), NewTimeOfDay(10, 30))
	seedAppointment(repo, doctor.ID, popular.ID, day, NewTimeOfDay(11, 0), NewTimeOfDay(11, 30))
	seedAppointment(repo, doctor.ID, rare.ID, day, NewTimeOfDay(12, 0), NewTimeOfDay(12, 15))

	svc := NewReportService(repo)
	ranked, err := svc.TopServicesByAppointments(context.Background(), 5, day, day)
	require.NoError(t, err)

	require.Len(t, ranked, 2)
	assert.Equal(t, popular.ID, ranked[0].Service.ID)
	assert.Equal(t, 3, ranked[0].Count)
	assert.Equal(t, rare.ID, ranked[1].Service.ID)
	assert.Equal(t, 1, ranked[1].Count)
}

func TestTopDoctorsEmptyRange(t *testing.T) {
	svc := NewReportService(NewMemoryRepository())
	day := date(2026, time.June, 1)

	ranked, err := svc.TopDoctorsByAppointments(context.Background(), 5, day, day)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}
