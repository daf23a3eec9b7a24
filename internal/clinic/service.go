package clinic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	redisclient "github.com/medcare/clinic-scheduling/internal/redis"
)

const (
	EventAppointmentBooked    = "APPOINTMENT_BOOKED"
	EventAppointmentStatusSet = "APPOINTMENT_STATUS_SET"
	EventAppointmentCancelled = "APPOINTMENT_CANCELLED"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrOutsideWorkingHours = errors.New("appointment is outside the doctor's working hours")
	ErrSlotConflict        = errors.New("appointment overlaps an existing booking")
	ErrBookingContended    = errors.New("another booking for this doctor is in progress, please retry")
)

// BookingRequest carries everything needed to book one appointment. The
// acting user is passed explicitly; the service never reads ambient
// session state.
type BookingRequest struct {
	PatientName string
	DoctorID    uuid.UUID
	ServiceID   uuid.UUID
	Date        time.Time
	StartTime   TimeOfDay
	CreatedBy   uuid.UUID
}

// BookingService orchestrates availability and conflict checks and owns
// the appointment lifecycle.
type BookingService struct {
	repo         Repository
	availability *AvailabilityChecker
	locker       redisclient.Locker
}

func NewBookingService(repo Repository, locker redisclient.Locker) *BookingService {
	return &BookingService{
		repo:         repo,
		availability: NewAvailabilityChecker(repo),
		locker:       locker,
	}
}

// BookAppointment validates the request against the doctor's working
// hours and existing bookings, then persists a new appointment in status
// new. The conflict check and the write run under a per doctor-and-date
// lock so concurrent requests cannot double-book.
func (s *BookingService) BookAppointment(ctx context.Context, req BookingRequest) (*Appointment, error) {
	patientName := strings.TrimSpace(req.PatientName)
	if patientName == "" {
		return nil, fmt.Errorf("%w: patient name is required", ErrInvalidInput)
	}
	if !req.StartTime.Valid() {
		return nil, fmt.Errorf("%w: start time %s outside the day", ErrInvalidInput, req.StartTime)
	}

	doctor, err := s.repo.GetDoctorByID(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load doctor: %w", err)
	}

	service, err := s.repo.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, ErrServiceNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load medical service: %w", err)
	}
	if service.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: service %s has non-positive duration", ErrInvalidInput, service.ID)
	}

	date := DateOnly(req.Date)
	endTime := req.StartTime.AddMinutes(service.DurationMinutes)

	// No block extends past midnight, so a window that spills over the
	// day boundary can never be inside working hours.
	if endTime > MinutesPerDay {
		return nil, ErrOutsideWorkingHours
	}

	ok, err := s.availability.IsWithinWorkingHours(ctx, doctor.ID, date.Weekday(), req.StartTime, endTime)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrOutsideWorkingHours
	}

	var created *Appointment

	err = s.locker.WithBookingLock(ctx, doctor.ID, date, func(lockCtx context.Context) error {
		// Inside the critical section re-read the day's bookings so two
		// concurrent requests cannot both see a free window.
		existing, err := s.repo.ListAppointmentsForDay(lockCtx, doctor.ID, date)
		if err != nil {
			return fmt.Errorf("load same-day appointments: %w", err)
		}
		if HasOverlap(existing, req.StartTime, endTime) {
			return ErrSlotConflict
		}

		appt, err := s.repo.CreateAppointment(lockCtx, Appointment{
			ID:          uuid.New(),
			PatientName: patientName,
			DoctorID:    doctor.ID,
			ServiceID:   service.ID,
			Date:        date,
			StartTime:   req.StartTime,
			EndTime:     endTime,
			Status:      StatusNew,
			CreatedBy:   req.CreatedBy,
		})
		if err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}

		created = appt

		s.logEvent(lockCtx, appt.ID, EventAppointmentBooked, map[string]any{
			"doctor_id":  doctor.ID.String(),
			"service_id": service.ID.String(),
			"date":       date.Format("2006-01-02"),
			"start":      req.StartTime.String(),
			"end":        endTime.String(),
		})

		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrBookingContended
		}
		return nil, err
	}

	return created, nil
}

// UpdateStatus sets an appointment's status. Any state may move to any
// other state; the last write wins.
func (s *BookingService) UpdateStatus(ctx context.Context, id uuid.UUID, status AppointmentStatus) (*Appointment, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	updated, err := s.repo.UpdateAppointmentStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update appointment status: %w", err)
	}

	s.logEvent(ctx, updated.ID, EventAppointmentStatusSet, map[string]any{
		"status": string(status),
	})

	return updated, nil
}

// CancelAppointment removes an appointment by id. Cancelling an id that
// does not exist reports ErrAppointmentNotFound and changes nothing.
func (s *BookingService) CancelAppointment(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteAppointment(ctx, id); err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return err
		}
		return fmt.Errorf("delete appointment: %w", err)
	}

	s.logEvent(ctx, id, EventAppointmentCancelled, map[string]any{})

	return nil
}

// GetAppointment retrieves one appointment by id.
func (s *BookingService) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return appt, nil
}

// ListDayAppointments retrieves a doctor's appointments for one date.
func (s *BookingService) ListDayAppointments(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]Appointment, error) {
	appts, err := s.repo.ListAppointmentsForDay(ctx, doctorID, DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("list day appointments: %w", err)
	}
	return appts, nil
}

func (s *BookingService) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("marshal event payload")
		data = nil
	}

	apptID := appointmentID

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		log.Error().Err(err).
			Str("event_type", eventType).
			Str("appointment_id", appointmentID.String()).
			Msg("insert event log")
	}
}
