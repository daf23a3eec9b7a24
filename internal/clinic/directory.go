package clinic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrDuplicateServiceName = errors.New("a medical service with this name already exists")
	ErrDuplicateUsername    = errors.New("this username is already taken")
	ErrScheduleOverlap      = errors.New("schedule block overlaps an existing block for this day")
)

// PasswordHasher turns a plaintext password into a stored hash. The
// bcrypt implementation lives in the auth package.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// DirectoryService manages the clinic's reference data: doctors,
// medical services, weekly schedules and staff accounts.
type DirectoryService struct {
	repo   Repository
	hasher PasswordHasher
}

func NewDirectoryService(repo Repository, hasher PasswordHasher) *DirectoryService {
	return &DirectoryService{repo: repo, hasher: hasher}
}

// Doctors

func (s *DirectoryService) CreateDoctor(ctx context.Context, name, specialization string) (*Doctor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: doctor name is required", ErrInvalidInput)
	}

	doctor, err := s.repo.CreateDoctor(ctx, Doctor{
		ID:             uuid.New(),
		Name:           name,
		Specialization: strings.TrimSpace(specialization),
	})
	if err != nil {
		return nil, fmt.Errorf("create doctor: %w", err)
	}
	return doctor, nil
}

func (s *DirectoryService) UpdateDoctor(ctx context.Context, id uuid.UUID, name, specialization string) (*Doctor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: doctor name is required", ErrInvalidInput)
	}

	existing, err := s.repo.GetDoctorByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = name
	existing.Specialization = strings.TrimSpace(specialization)

	updated, err := s.repo.UpdateDoctor(ctx, *existing)
	if err != nil {
		return nil, fmt.Errorf("update doctor: %w", err)
	}
	return updated, nil
}

func (s *DirectoryService) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteDoctor(ctx, id)
}

func (s *DirectoryService) ListDoctors(ctx context.Context) ([]Doctor, error) {
	return s.repo.ListDoctors(ctx)
}

// Medical services

func (s *DirectoryService) CreateMedicalService(ctx context.Context, name string, price decimal.Decimal, durationMinutes int) (*MedicalService, error) {
	name = strings.TrimSpace(name)
	if err := validateService(name, price, durationMinutes); err != nil {
		return nil, err
	}

	// Service names are unique, ignoring case.
	all, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list medical services: %w", err)
	}
	for _, existing := range all {
		if strings.EqualFold(existing.Name, name) {
			return nil, ErrDuplicateServiceName
		}
	}

	service, err := s.repo.CreateService(ctx, MedicalService{
		ID:              uuid.New(),
		Name:            name,
		Price:           price,
		DurationMinutes: durationMinutes,
	})
	if err != nil {
		return nil, fmt.Errorf("create medical service: %w", err)
	}
	return service, nil
}

func (s *DirectoryService) UpdateMedicalService(ctx context.Context, id uuid.UUID, name string, price decimal.Decimal, durationMinutes int) (*MedicalService, error) {
	name = strings.TrimSpace(name)
	if err := validateService(name, price, durationMinutes); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetServiceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	all, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list medical services: %w", err)
	}
	for _, other := range all {
		if other.ID != id && strings.EqualFold(other.Name, name) {
			return nil, ErrDuplicateServiceName
		}
	}

	existing.Name = name
	existing.Price = price
	existing.DurationMinutes = durationMinutes

	updated, err := s.repo.UpdateService(ctx, *existing)
	if err != nil {
		return nil, fmt.Errorf("update medical service: %w", err)
	}
	return updated, nil
}

func (s *DirectoryService) DeleteMedicalService(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteService(ctx, id)
}

func (s *DirectoryService) ListMedicalServices(ctx context.Context) ([]MedicalService, error) {
	return s.repo.ListServices(ctx)
}

func validateService(name string, price decimal.Decimal, durationMinutes int) error {
	if name == "" {
		return fmt.Errorf("%w: service name is required", ErrInvalidInput)
	}
	if price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if durationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be at least one minute", ErrInvalidInput)
	}
	return nil
}

// Schedule blocks

func (s *DirectoryService) AddScheduleBlock(ctx context.Context, doctorID uuid.UUID, day time.Weekday, start, end TimeOfDay) (*ScheduleBlock, error) {
	if day < time.Sunday || day > time.Saturday {
		return nil, fmt.Errorf("%w: %d is not a day of the week", ErrInvalidInput, day)
	}
	if err := validateBlockWindow(start, end); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetDoctorByID(ctx, doctorID); err != nil {
		return nil, err
	}

	sameDay, err := s.repo.ListScheduleBlocks(ctx, doctorID, day)
	if err != nil {
		return nil, fmt.Errorf("list schedule blocks: %w", err)
	}
	for _, b := range sameDay {
		if intervalsOverlap(b.StartTime, b.EndTime, start, end) {
			return nil, ErrScheduleOverlap
		}
	}

	block, err := s.repo.CreateScheduleBlock(ctx, ScheduleBlock{
		ID:        uuid.New(),
		DoctorID:  doctorID,
		Day:       day,
		StartTime: start,
		EndTime:   end,
	})
	if err != nil {
		return nil, fmt.Errorf("create schedule block: %w", err)
	}
	return block, nil
}

func (s *DirectoryService) UpdateScheduleBlock(ctx context.Context, id uuid.UUID, day time.Weekday, start, end TimeOfDay) (*ScheduleBlock, error) {
	if day < time.Sunday || day > time.Saturday {
		return nil, fmt.Errorf("%w: %d is not a day of the week", ErrInvalidInput, day)
	}
	if err := validateBlockWindow(start, end); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetScheduleBlockByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sameDay, err := s.repo.ListScheduleBlocks(ctx, existing.DoctorID, day)
	if err != nil {
		return nil, fmt.Errorf("list schedule blocks: %w", err)
	}
	for _, b := range sameDay {
		if b.ID != id && intervalsOverlap(b.StartTime, b.EndTime, start, end) {
			return nil, ErrScheduleOverlap
		}
	}

	existing.Day = day
	existing.StartTime = start
	existing.EndTime = end

	updated, err := s.repo.UpdateScheduleBlock(ctx, *existing)
	if err != nil {
		return nil, fmt.Errorf("update schedule block: %w", err)
	}
	return updated, nil
}

func (s *DirectoryService) DeleteScheduleBlock(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteScheduleBlock(ctx, id)
}

func (s *DirectoryService) DoctorSchedule(ctx context.Context, doctorID uuid.UUID) ([]ScheduleBlock, error) {
	if _, err := s.repo.GetDoctorByID(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.repo.ListScheduleBlocksByDoctor(ctx, doctorID)
}

func validateBlockWindow(start, end TimeOfDay) error {
	if !start.Valid() || end < 0 || end > MinutesPerDay {
		return fmt.Errorf("%w: block times must fall within the day", ErrInvalidInput)
	}
	if !start.Before(end) {
		return fmt.Errorf("%w: block start %s must be before end %s", ErrInvalidInput, start, end)
	}
	return nil
}

// Users

func (s *DirectoryService) CreateUser(ctx context.Context, name, username, password string, role Role) (*User, error) {
	name = strings.TrimSpace(name)
	username = strings.TrimSpace(username)
	if name == "" || username == "" {
		return nil, fmt.Errorf("%w: name and username are required", ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}
	if role != RoleAdmin && role != RoleReceptionist {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	if _, err := s.repo.GetUserByUsername(ctx, username); err == nil {
		return nil, ErrDuplicateUsername
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, User{
		ID:           uuid.New(),
		Name:         name,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *DirectoryService) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *DirectoryService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteUser(ctx, id)
}
