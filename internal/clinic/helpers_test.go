package clinic

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	redisclient "github.com/medcare/clinic-scheduling/internal/redis"
)

// passLocker runs the critical section directly, as if the lock were
// always free.
type passLocker struct{}

func (passLocker) WithBookingLock(ctx context.Context, _ uuid.UUID, _ time.Time, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// heldLocker simulates a lock already held by another request.
type heldLocker struct{}

func (heldLocker) WithBookingLock(context.Context, uuid.UUID, time.Time, func(ctx context.Context) error) error {
	return redisclient.ErrLockNotAcquired
}

// plainHasher avoids bcrypt cost in unit tests.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func seedDoctor(repo *MemoryRepository, name string) Doctor {
	d, err := repo.CreateDoctor(context.Background(), Doctor{
		ID:   uuid.New(),
		Name: name,
	})
	if err != nil {
		panic(err)
	}
	return *d
}

func seedService(repo *MemoryRepository, name string, durationMinutes int) MedicalService {
	s, err := repo.CreateService(context.Background(), MedicalService{
		ID:              uuid.New(),
		Name:            name,
		Price:           decimal.NewFromInt(50),
		DurationMinutes: durationMinutes,
	})
	if err != nil {
		panic(err)
	}
	return *s
}

func seedBlock(repo *MemoryRepository, doctorID uuid.UUID, day time.Weekday, start, end TimeOfDay) ScheduleBlock {
	b, err := repo.CreateScheduleBlock(context.Background(), ScheduleBlock{
		ID:        uuid.New(),
		DoctorID:  doctorID,
		Day:       day,
		StartTime: start,
		EndTime:   end,
	})
	if err != nil {
		panic(err)
	}
	return *b
}

func seedAppointment(repo *MemoryRepository, doctorID, serviceID uuid.UUID, date time.Time, start, end TimeOfDay) Appointment {
	a, err := repo.CreateAppointment(context.Background(), Appointment{
		ID:          uuid.New(),
		PatientName: "Test Patient",
		DoctorID:    doctorID,
		ServiceID:   serviceID,
		Date:        DateOnly(date),
		StartTime:   start,
		EndTime:     end,
		Status:      StatusNew,
	})
	if err != nil {
		panic(err)
	}
	return *a
}

// date builds a UTC calendar date.
func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
