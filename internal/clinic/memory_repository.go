package clinic

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory Repository used by tests and local
// development. Appointments keep insertion order so reporting sees a
// deterministic snapshot.
type MemoryRepository struct {
	mu           sync.RWMutex
	doctors      map[uuid.UUID]Doctor
	doctorOrder  []uuid.UUID
	services     map[uuid.UUID]MedicalService
	serviceOrder []uuid.UUID
	blocks       map[uuid.UUID]ScheduleBlock
	appts        []Appointment
	users        map[uuid.UUID]User
	events       []EventLog
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		doctors:  make(map[uuid.UUID]Doctor),
		services: make(map[uuid.UUID]MedicalService),
		blocks:   make(map[uuid.UUID]ScheduleBlock),
		users:    make(map[uuid.UUID]User),
	}
}

// Doctors

func (r *MemoryRepository) GetDoctorByID(_ context.Context, id uuid.UUID) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.doctors[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	return &d, nil
}

func (r *MemoryRepository) ListDoctors(_ context.Context) ([]Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Doctor, 0, len(r.doctorOrder))
	for _, id := range r.doctorOrder {
		result = append(result, r.doctors[id])
	}
	return result, nil
}

func (r *MemoryRepository) CreateDoctor(_ context.Context, d Doctor) (*Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	d.CreatedAt, d.UpdatedAt = now, now
	r.doctors[d.ID] = d
	r.doctorOrder = append(r.doctorOrder, d.ID)
	return &d, nil
}

func (r *MemoryRepository) UpdateDoctor(_ context.Context, d Doctor) (*Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.doctors[d.ID]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	d.CreatedAt = existing.CreatedAt
	d.UpdatedAt = time.Now()
	r.doctors[d.ID] = d
	return &d, nil
}

func (r *MemoryRepository) DeleteDoctor(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.doctors[id]; !ok {
		return ErrDoctorNotFound
	}
	delete(r.doctors, id)
	for i, other := range r.doctorOrder {
		if other == id {
			r.doctorOrder = append(r.doctorOrder[:i], r.doctorOrder[i+1:]...)
			break
		}
	}
	return nil
}

// Medical services

func (r *MemoryRepository) GetServiceByID(_ context.Context, id uuid.UUID) (*MedicalService, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.services[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	return &s, nil
}

func (r *MemoryRepository) ListServices(_ context.Context) ([]MedicalService, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]MedicalService, 0, len(r.serviceOrder))
	for _, id := range r.serviceOrder {
		result = append(result, r.services[id])
	}
	return result, nil
}

func (r *MemoryRepository) CreateService(_ context.Context, s MedicalService) (*MedicalService, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	s.CreatedAt, s.UpdatedAt = now, now
	r.services[s.ID] = s
	r.serviceOrder = append(r.serviceOrder, s.ID)
	return &s, nil
}

func (r *MemoryRepository) UpdateService(_ context.Context, s MedicalService) (*MedicalService, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.services[s.ID]
	if !ok {
		return nil, ErrServiceNotFound
	}
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = time.Now()
	r.services[s.ID] = s
	return &s, nil
}

func (r *MemoryRepository) DeleteService(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.services[id]; !ok {
		return ErrServiceNotFound
	}
	delete(r.services, id)
	for i, other := range r.serviceOrder {
		if other == id {
			r.serviceOrder = append(r.serviceOrder[:i], r.serviceOrder[i+1:]...)
			break
		}
	}
	return nil
}

// Schedule blocks

func (r *MemoryRepository) GetScheduleBlockByID(_ context.Context, id uuid.UUID) (*ScheduleBlock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.blocks[id]
	if !ok {
		return nil, ErrScheduleNotFound
	}
	return &b, nil
}

func (r *MemoryRepository) ListScheduleBlocks(_ context.Context, doctorID uuid.UUID, day time.Weekday) ([]ScheduleBlock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []ScheduleBlock
	for _, b := range r.blocks {
		if b.DoctorID == doctorID && b.Day == day {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *MemoryRepository) ListScheduleBlocksByDoctor(_ context.Context, doctorID uuid.UUID) ([]ScheduleBlock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []ScheduleBlock
	for _, b := range r.blocks {
		if b.DoctorID == doctorID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *MemoryRepository) CreateScheduleBlock(_ context.Context, b ScheduleBlock) (*ScheduleBlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	b.CreatedAt, b.UpdatedAt = now, now
	r.blocks[b.ID] = b
	return &b, nil
}

func (r *MemoryRepository) UpdateScheduleBlock(_ context.Context, b ScheduleBlock) (*ScheduleBlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.blocks[b.ID]
	if !ok {
		return nil, ErrScheduleNotFound
	}
	b.DoctorID = existing.DoctorID
	b.CreatedAt = existing.CreatedAt
	b.UpdatedAt = time.Now()
	r.blocks[b.ID] = b
	return &b, nil
}

func (r *MemoryRepository) DeleteScheduleBlock(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blocks[id]; !ok {
		return ErrScheduleNotFound
	}
	delete(r.blocks, id)
	return nil
}

// Appointments

func (r *MemoryRepository) GetAppointmentByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.appts {
		if r.appts[i].ID == id {
			a := r.appts[i]
			return &a, nil
		}
	}
	return nil, ErrAppointmentNotFound
}

func (r *MemoryRepository) ListAppointmentsForDay(_ context.Context, doctorID uuid.UUID, date time.Time) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []Appointment
	for _, a := range r.appts {
		if a.DoctorID == doctorID && a.Date.Equal(date) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r *MemoryRepository) ListAppointmentsInRange(_ context.Context, start, end time.Time) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []Appointment
	for _, a := range r.appts {
		if !a.Date.Before(start) && !a.Date.After(end) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r *MemoryRepository) CreateAppointment(_ context.Context, a Appointment) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	a.CreatedAt, a.UpdatedAt = now, now
	r.appts = append(r.appts, a)
	return &a, nil
}

func (r *MemoryRepository) UpdateAppointmentStatus(_ context.Context, id uuid.UUID, status AppointmentStatus) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.appts {
		if r.appts[i].ID == id {
			r.appts[i].Status = status
			r.appts[i].UpdatedAt = time.Now()
			a := r.appts[i]
			return &a, nil
		}
	}
	return nil, ErrAppointmentNotFound
}

func (r *MemoryRepository) DeleteAppointment(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.appts {
		if r.appts[i].ID == id {
			r.appts = append(r.appts[:i], r.appts[i+1:]...)
			return nil
		}
	}
	return ErrAppointmentNotFound
}

// Event logging

func (r *MemoryRepository) InsertEvent(_ context.Context, ev EventLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev.ID = int64(len(r.events) + 1)
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of the recorded event log.
func (r *MemoryRepository) Events() []EventLog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]EventLog, len(r.events))
	copy(out, r.events)
	return out
}

// Users

func (r *MemoryRepository) GetUserByID(_ context.Context, id uuid.UUID) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) GetUserByUsername(_ context.Context, username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			user := u
			return &user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *MemoryRepository) ListUsers(_ context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]User, 0, len(r.users))
	for _, u := range r.users {
		result = append(result, u)
	}
	return result, nil
}

func (r *MemoryRepository) CreateUser(_ context.Context, u User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	r.users[u.ID] = u
	return &u, nil
}

func (r *MemoryRepository) DeleteUser(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}
