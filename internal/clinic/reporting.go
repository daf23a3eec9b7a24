package clinic

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidRange = errors.New("start date is after end date")

// DoctorCount is one ranked entry of the most-requested-doctors report.
type DoctorCount struct {
	Doctor Doctor
	Count  int
}

// ServiceCount is one ranked entry of the most-requested-services report.
type ServiceCount struct {
	Service MedicalService
	Count   int
}

// ReportService aggregates appointments over inclusive date ranges. All
// methods are read-only over the repository snapshot.
type ReportService struct {
	repo Repository
}

func NewReportService(repo Repository) *ReportService {
	return &ReportService{repo: repo}
}

// AppointmentsInRange returns every appointment dated between start and
// end, both ends inclusive. Time-of-day plays no part in the filter.
func (s *ReportService) AppointmentsInRange(ctx context.Context, start, end time.Time) ([]Appointment, error) {
	start, end = DateOnly(start), DateOnly(end)
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	appts, err := s.repo.ListAppointmentsInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("list appointments in range: %w", err)
	}
	return appts, nil
}

// TopDoctorsByAppointments ranks doctors by how many appointments they
// have in the range, descending. Ties keep the order in which the
// doctors were first seen in the underlying collection. At most n
// entries are returned.
func (s *ReportService) TopDoctorsByAppointments(ctx context.Context, n int, start, end time.Time) ([]DoctorCount, error) {
	appts, err := s.AppointmentsInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	ranked := rankByGroup(appts, func(a Appointment) uuid.UUID { return a.DoctorID }, n)

	result := make([]DoctorCount, 0, len(ranked))
	for _, g := range ranked {
		doctor, err := s.repo.GetDoctorByID(ctx, g.key)
		if err != nil {
			return nil, fmt.Errorf("load doctor %s: %w", g.key, err)
		}
		result = append(result, DoctorCount{Doctor: *doctor, Count: g.count})
	}
	return result, nil
}

// TopServicesByAppointments ranks medical services the same way
// TopDoctorsByAppointments ranks doctors.
func (s *ReportService) TopServicesByAppointments(ctx context.Context, n int, start, end time.Time) ([]ServiceCount, error) {
	appts, err := s.AppointmentsInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	ranked := rankByGroup(appts, func(a Appointment) uuid.UUID { return a.ServiceID }, n)

	result := make([]ServiceCount, 0, len(ranked))
	for _, g := range ranked {
		service, err := s.repo.GetServiceByID(ctx, g.key)
		if err != nil {
			return nil, fmt.Errorf("load medical service %s: %w", g.key, err)
		}
		result = append(result, ServiceCount{Service: *service, Count: g.count})
	}
	return result, nil
}

type group struct {
	key   uuid.UUID
	count int
}

// rankByGroup counts appointments per key, sorts descending by count
// with a stable sort so equal counts keep first-seen order, and
// truncates to at most n groups.
func rankByGroup(appts []Appointment, keyOf func(Appointment) uuid.UUID, n int) []group {
	index := make(map[uuid.UUID]int)
	var groups []group

	for _, a := range appts {
		key := keyOf(a)
		if i, ok := index[key]; ok {
			groups[i].count++
			continue
		}
		index[key] = len(groups)
		groups = append(groups, group{key: key, count: 1})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].count > groups[j].count
	})

	if n >= 0 && len(groups) > n {
		groups = groups[:n]
	}
	return groups
}
