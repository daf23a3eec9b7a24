package clinic

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AppointmentStatus string

const (
	StatusNew        AppointmentStatus = "new"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
)

// ValidStatus reports whether s is one of the three appointment states.
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case StatusNew, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type Role string

const (
	RoleAdmin        Role = "admin"
	RoleReceptionist Role = "receptionist"
)

type Doctor struct {
	ID             uuid.UUID
	Name           string
	Specialization string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type MedicalService struct {
	ID              uuid.UUID
	Name            string
	Price           decimal.Decimal
	DurationMinutes int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ScheduleBlock is one declared working-hour window of a doctor on a
// weekday. A doctor may have several non-overlapping blocks per day.
type ScheduleBlock struct {
	ID        uuid.UUID
	DoctorID  uuid.UUID
	Day       time.Weekday
	StartTime TimeOfDay
	EndTime   TimeOfDay
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Appointment struct {
	ID          uuid.UUID
	PatientName string
	DoctorID    uuid.UUID
	ServiceID   uuid.UUID
	Date        time.Time // date only, normalized to midnight UTC
	StartTime   TimeOfDay
	EndTime     TimeOfDay // start plus the service duration at booking time
	Status      AppointmentStatus
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type User struct {
	ID           uuid.UUID
	Name         string
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EventLog is an append-only audit record of booking activity.
type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}

// DateOnly strips the time-of-day and location from t so appointment
// dates compare by calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a "2006-01-02" calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// ParseWeekday maps a day name ("monday", "Tuesday", ...) to its
// time.Weekday. The match is case-insensitive.
func ParseWeekday(s string) (time.Weekday, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), s) {
			return d, true
		}
	}
	return 0, false
}
