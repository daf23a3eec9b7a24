package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/medcare/clinic-scheduling/internal/clinic"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type BookAppointmentRequest struct {
	PatientName string `json:"patient_name"`
	DoctorID    string `json:"doctor_id"`
	ServiceID   string `json:"service_id"`
	Date        string `json:"date"`       // 2006-01-02
	StartTime   string `json:"start_time"` // HH:MM
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type AppointmentResponse struct {
	ID          uuid.UUID `json:"id"`
	PatientName string    `json:"patient_name"`
	DoctorID    uuid.UUID `json:"doctor_id"`
	ServiceID   uuid.UUID `json:"service_id"`
	Date        string    `json:"date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Status      string    `json:"status"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func toAppointmentResponse(a *clinic.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:          a.ID,
		PatientName: a.PatientName,
		DoctorID:    a.DoctorID,
		ServiceID:   a.ServiceID,
		Date:        a.Date.Format("2006-01-02"),
		StartTime:   a.StartTime.String(),
		EndTime:     a.EndTime.String(),
		Status:      string(a.Status),
		CreatedBy:   a.CreatedBy,
		CreatedAt:   a.CreatedAt,
	}
}

type DoctorRequest struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}

type DoctorResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization"`
}

func toDoctorResponse(d *clinic.Doctor) DoctorResponse {
	return DoctorResponse{ID: d.ID, Name: d.Name, Specialization: d.Specialization}
}

type ServiceRequest struct {
	Name            string `json:"name"`
	Price           string `json:"price"` // decimal string, e.g. "150.00"
	DurationMinutes int    `json:"duration_minutes"`
}

type ServiceResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Price           string    `json:"price"`
	DurationMinutes int       `json:"duration_minutes"`
}

func toServiceResponse(s *clinic.MedicalService) ServiceResponse {
	return ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Price:           s.Price.StringFixed(2),
		DurationMinutes: s.DurationMinutes,
	}
}

type ScheduleBlockRequest struct {
	Day       string `json:"day"`        // weekday name, e.g. "monday"
	StartTime string `json:"start_time"` // HH:MM
	EndTime   string `json:"end_time"`   // HH:MM
}

type ScheduleBlockResponse struct {
	ID        uuid.UUID `json:"id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	Day       string    `json:"day"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
}

func toScheduleBlockResponse(b *clinic.ScheduleBlock) ScheduleBlockResponse {
	return ScheduleBlockResponse{
		ID:        b.ID,
		DoctorID:  b.DoctorID,
		Day:       b.Day.String(),
		StartTime: b.StartTime.String(),
		EndTime:   b.EndTime.String(),
	}
}

type UserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

func toUserResponse(u *clinic.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Username: u.Username, Role: string(u.Role)}
}

type DoctorCountResponse struct {
	Doctor DoctorResponse `json:"doctor"`
	Count  int            `json:"count"`
}

type ServiceCountResponse struct {
	Service ServiceResponse `json:"service"`
	Count   int             `json:"count"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
