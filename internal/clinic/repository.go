package clinic

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrServiceNotFound     = errors.New("medical service not found")
	ErrScheduleNotFound    = errors.New("schedule block not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrUserNotFound        = errors.New("user not found")
)

// Repository contains all DB interactions needed by the services.
type Repository interface {
	// Doctors
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	ListDoctors(ctx context.Context) ([]Doctor, error)
	CreateDoctor(ctx context.Context, d Doctor) (*Doctor, error)
	UpdateDoctor(ctx context.Context, d Doctor) (*Doctor, error)
	DeleteDoctor(ctx context.Context, id uuid.UUID) error

	// Medical services
	GetServiceByID(ctx context.Context, id uuid.UUID) (*MedicalService, error)
	ListServices(ctx context.Context) ([]MedicalService, error)
	CreateService(ctx context.Context, s MedicalService) (*MedicalService, error)
	UpdateService(ctx context.Context, s MedicalService) (*MedicalService, error)
	DeleteService(ctx context.Context, id uuid.UUID) error

	// Schedule blocks
	GetScheduleBlockByID(ctx context.Context, id uuid.UUID) (*ScheduleBlock, error)
	ListScheduleBlocks(ctx context.Context, doctorID uuid.UUID, day time.Weekday) ([]ScheduleBlock, error)
	ListScheduleBlocksByDoctor(ctx context.Context, doctorID uuid.UUID) ([]ScheduleBlock, error)
	CreateScheduleBlock(ctx context.Context, b ScheduleBlock) (*ScheduleBlock, error)
	UpdateScheduleBlock(ctx context.Context, b ScheduleBlock) (*ScheduleBlock, error)
	DeleteScheduleBlock(ctx context.Context, id uuid.UUID) error

	// Appointments
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	ListAppointmentsForDay(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]Appointment, error)
	ListAppointmentsInRange(ctx context.Context, start, end time.Time) ([]Appointment, error)
	CreateAppointment(ctx context.Context, a Appointment) (*Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status AppointmentStatus) (*Appointment, error)
	DeleteAppointment(ctx context.Context, id uuid.UUID) error

	// Event logging
	InsertEvent(ctx context.Context, ev EventLog) error

	// Users
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	CreateUser(ctx context.Context, u User) (*User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}
