package clinic

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDirectoryFixture() (*DirectoryService, *MemoryRepository) {
	repo := NewMemoryRepository()
	return NewDirectoryService(repo, plainHasher{}), repo
}

func TestCreateDoctor(t *testing.T) {
	svc, _ := newDirectoryFixture()
	ctx := context.Background()

	doctor, err := svc.CreateDoctor(ctx, "  Dr. Adams  ", " Cardiology ")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Adams", doctor.Name)
	assert.Equal(t, "Cardiology", doctor.Specialization)

	_, err = svc.CreateDoctor(ctx, "   ", "Cardiology")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateDoctor(t *testing.T) {
	svc, _ := newDirectoryFixture()
	ctx := context.Background()

	doctor, err := svc.CreateDoctor(ctx, "Dr. Adams", "Cardiology")
	require.NoError(t, err)

	updated, err := svc.UpdateDoctor(ctx, doctor.ID, "Dr. Adams-Smith", "Neurology")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Adams-Smith", updated.Name)
	assert.Equal(t, "Neurology", updated.Specialization)

	_, err = svc.UpdateDoctor(ctx, uuid.New(), "Dr. Ghost", "")
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestCreateMedicalService(t *testing.T) {
	svc, _ := newDirectoryFixture()
	ctx := context.Background()

	created, err := svc.CreateMedicalService(ctx, "Consultation", decimal.NewFromInt(50), 30)
	require.NoError(t, err)
	assert.Equal(t, "Consultation", created.Name)
	assert.Equal(t, 30, created.DurationMinutes)

	// Names are unique ignoring case.
	_, err = svc.CreateMedicalService(ctx, "CONSULTATION", decimal.NewFromInt(60), 45)
	assert.ErrorIs(t, err, ErrDuplicateServiceName)

	_, err = svc.CreateMedicalService(ctx, "X-Ray", decimal.NewFromInt(-5), 15)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateMedicalService(ctx, "X-Ray", decimal.NewFromInt(5), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateMedicalService(t *testing.T) {
	svc, _ := newDirectoryFixture()
	ctx := context.Background()

	first, err := svc.CreateMedicalService(ctx, "Consultation", decimal.NewFromInt(50), 30)
	require.NoError(t, err)
	_, err = svc.CreateMedicalService(ctx, "X-Ray", decimal.NewFromInt(80), 15)
	require.NoError(t, err)

	// Keeping its own name is not a duplicate.
	updated, err := svc.UpdateMedicalService(ctx, first.ID, "Consultation", decimal.NewFromInt(55), 30)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(55).Equal(updated.Price))

	_, err = svc.UpdateMedicalService(ctx, first.ID, "x-ray", decimal.NewFromInt(55), 30)
	assert.ErrorIs(t, err, ErrDuplicateServiceName)
}

func TestAddScheduleBlock(t *testing.T) {
	svc, repo := newDirectoryFixture()
	ctx := context.Background()
	doctor := seedDoctor(repo, "Dr. Adams")

	block, err := svc.AddScheduleBlock(ctx, doctor.ID, time.Monday, NewTimeOfDay(8, 0), NewTimeOfDay(12, 0))
	require.NoError(t, err)
	assert.Equal(t, time.Monday, block.Day)

	// A second disjoint block on the same day is fine.
	_, err = svc.AddScheduleBlock(ctx, doctor.ID, time.Monday, NewTimeOfDay(13, 0), NewTimeOfDay(17, 0))
	require.NoError(t, err)

	// Overlapping the morning block is not.
	_, err = svc.AddScheduleBlock(ctx, doctor.ID, time.Monday, NewTimeOfDay(11, 0), NewTimeOfDay(14, 0))
	assert.ErrorIs(t, err, ErrScheduleOverlap)

	// Same window on another day does not collide.
	_, err = svc.AddScheduleBlock(ctx, doctor.ID, time.Tuesday, NewTimeOfDay(8, 0), NewTimeOfDay(12, 0))
	require.NoError(t, err)

	_, err = svc.AddScheduleBlock(ctx, uuid.New(), time.Monday, NewTimeOfDay(8, 0), NewTimeOfDay(12, 0))
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestAddScheduleBlockValidation(t *testing.T) {
	svc, repo := newDirectoryFixture()
	ctx := context.Background()
	doctor := seedDoctor(repo, "Dr. Adams")

	_, err := svc.AddScheduleBlock(ctx, doctor.ID, time.Weekday(9), NewTimeOfDay(8, 0), NewTimeOfDay(12, 0))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AddScheduleBlock(ctx, doctor.ID, time.Monday, NewTimeOfDay(12, 0), NewTimeOfDay(8, 0))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AddScheduleBlock(ctx, doctor.ID, time.Monday, NewTimeOfDay(23, 0), NewTimeOfDay(25, 0))
	assert.ErrorIs(t, err, ErrInvalidInput)

	// A block ending exactly at midnight is allowed.
	_, err = svc.AddScheduleBlock(ctx, doctor.ID, time.Friday, NewTimeOfDay(20, 0), TimeOfDay(MinutesPerDay))
	require.NoError(t, err)
}

func TestUpdateScheduleBlock(t *testing.T) {
	svc, repo := newDirectoryFixture()
	ctx := context.Background()
	doctor := seedDoctor(repo, "Dr. Adams")

	morning, err := svc.AddScheduleBlock(ctx, doctor.ID, time.Monday, NewTimeOfDay(8, 0), NewTimeOfDay(12, 0))
	require.NoError(t, err)
	_, err = svc.AddScheduleBlock(ctx, doctor.ID, time.Monday, NewTimeOfDay(14, 0), NewTimeOfDay(18, 0))
	require.NoError(t, err)

	// Extending the morning block is fine while it stays clear of the
	// afternoon one.
	updated, err := svc.UpdateScheduleBlock(ctx, morning.ID, time.Monday, NewTimeOfDay(8, 0), NewTimeOfDay(13, 0))
	require.NoError(t, err)
	assert.Equal(t, NewTimeOfDay(13, 0), updated.EndTime)

	_, err = svc.UpdateScheduleBlock(ctx, morning.ID, time.Monday, NewTimeOfDay(8, 0), NewTimeOfDay(15, 0))
	assert.ErrorIs(t, err, ErrScheduleOverlap)

	_, err = svc.UpdateScheduleBlock(ctx, uuid.New(), time.Monday, NewTimeOfDay(8, 0), NewTimeOfDay(12, 0))
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestDoctorSchedule(t *testing.T) {
	svc, repo := newDirectoryFixture()
	ctx := context.Background()
	doctor := seedDoctor(repo, "Dr. Adams")

	_, err := svc.AddScheduleBlock(ctx, doctor.ID, time.Monday, NewTimeOfDay(8, 0), NewTimeOfDay(12, 0))
	require.NoError(t, err)
	_, err = svc.AddScheduleBlock(ctx, doctor.ID, time.Wednesday, NewTimeOfDay(8, 0), NewTimeOfDay(12, 0))
	require.NoError(t, err)

	blocks, err := svc.DoctorSchedule(ctx, doctor.ID)
	require.NoError(t, err)
	assert.Len(t, blocks, 2)

	_, err = svc.DoctorSchedule(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestCreateUser(t *testing.T) {
	svc, _ := newDirectoryFixture()
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "Anna Front", "anna", "long-enough-password", RoleReceptionist)
	require.NoError(t, err)
	assert.Equal(t, "anna", user.Username)
	assert.Equal(t, RoleReceptionist, user.Role)
	assert.Equal(t, "hashed:long-enough-password", user.PasswordHash)

	_, err = svc.CreateUser(ctx, "Another Anna", "ANNA", "long-enough-password", RoleAdmin)
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	_, err = svc.CreateUser(ctx, "Bob", "bob", "short", RoleAdmin)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateUser(ctx, "Bob", "bob", "long-enough-password", Role("janitor"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
