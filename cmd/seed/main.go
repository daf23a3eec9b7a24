package main

import (
	"context"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/medcare/clinic-scheduling/internal/clinic"
	"github.com/medcare/clinic-scheduling/internal/db"
	"github.com/medcare/clinic-scheduling/internal/logger"
)

func main() {
	logger.Init("clinic-scheduling-seed", "dev")
	log.Info().Msg("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal().Msg("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	seedCtx := context.Background()

	doctors, err := seedDoctors(seedCtx, pool, 20)
	if err != nil {
		log.Fatal().Err(err).Msg("seed doctors")
	}
	services, err := seedServices(seedCtx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("seed medical services")
	}
	if err := seedSchedules(seedCtx, pool, doctors); err != nil {
		log.Fatal().Err(err).Msg("seed schedules")
	}
	admin, err := seedUsers(seedCtx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("seed users")
	}
	if err := seedAppointments(seedCtx, pool, doctors, services, admin, 200); err != nil {
		log.Fatal().Err(err).Msg("seed appointments")
	}

	log.Info().Msg("seed complete")
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	log.Info().Int("count", count).Msg("seeding doctors")

	specializations := []string{
		"Dermatology",
		"Cardiology",
		"General Practice",
		"Orthopedics",
		"Endocrinology",
		"Neurology",
		"Pediatrics",
		"Psychiatry",
		"Ophthalmology",
		"ENT",
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		name := "Dr. " + gofakeit.Name()
		spec := specializations[gofakeit.Number(0, len(specializations)-1)]

		_, err := tx.Exec(ctx, `
			INSERT INTO doctors (id, name, specialization, created_at, updated_at)
			VALUES ($1, $2, $3, now(), now())
		`, id, name, spec)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Info().Msg("doctors seeded")
	return ids, nil
}

func seedServices(ctx context.Context, pool *pgxpool.Pool) ([]clinic.MedicalService, error) {
	catalog := []struct {
		name     string
		price    string
		duration int
	}{
		{"General Consultation", "150.00", 30},
		{"Extended Consultation", "250.00", 60},
		{"Blood Panel", "90.00", 15},
		{"ECG", "120.00", 20},
		{"Dermatoscopy", "180.00", 30},
		{"Physiotherapy Session", "200.00", 45},
		{"Vaccination", "60.00", 10},
		{"Eye Exam", "140.00", 30},
	}

	log.Info().Int("count", len(catalog)).Msg("seeding medical services")

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	services := make([]clinic.MedicalService, 0, len(catalog))
	for _, item := range catalog {
		id := uuid.New()
		price, err := decimal.NewFromString(item.price)
		if err != nil {
			return nil, err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO medical_services (id, name, price, duration_minutes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())
		`, id, item.name, price, item.duration)
		if err != nil {
			return nil, err
		}

		services = append(services, clinic.MedicalService{
			ID:              id,
			Name:            item.name,
			Price:           price,
			DurationMinutes: item.duration,
		})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Info().Msg("medical services seeded")
	return services, nil
}

func seedSchedules(ctx context.Context, pool *pgxpool.Pool, doctors []uuid.UUID) error {
	log.Info().Msg("seeding schedules")

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, doctorID := range doctors {
		// Weekday mornings for everyone, afternoons for roughly half.
		for day := time.Monday; day <= time.Friday; day++ {
			morningStart := clinic.NewTimeOfDay(8, 0)
			morningEnd := clinic.NewTimeOfDay(12, 0)
			if err := insertBlock(ctx, tx, doctorID, day, morningStart, morningEnd); err != nil {
				return err
			}

			if gofakeit.Bool() {
				afternoonStart := clinic.NewTimeOfDay(13, 0)
				afternoonEnd := clinic.NewTimeOfDay(17, 0)
				if err := insertBlock(ctx, tx, doctorID, day, afternoonStart, afternoonEnd); err != nil {
					return err
				}
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Info().Msg("schedules seeded")
	return nil
}

func insertBlock(ctx context.Context, tx pgx.Tx, doctorID uuid.UUID, day time.Weekday, start, end clinic.TimeOfDay) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO schedule_blocks (id, doctor_id, day_of_week, start_minute, end_minute, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
	`, uuid.New(), doctorID, int(day), int(start), int(end))
	return err
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool) (uuid.UUID, error) {
	log.Info().Msg("seeding users")

	adminID := uuid.New()
	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin-password"), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO users (id, name, username, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
	`, adminID, "Clinic Admin", "admin", string(adminHash), clinic.RoleAdmin)
	if err != nil {
		return uuid.Nil, err
	}

	receptionHash, err := bcrypt.GenerateFromPassword([]byte("reception-password"), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO users (id, name, username, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
	`, uuid.New(), gofakeit.Name(), "reception", string(receptionHash), clinic.RoleReceptionist)
	if err != nil {
		return uuid.Nil, err
	}

	log.Info().Msg("users seeded")
	return adminID, nil
}

func seedAppointments(ctx context.Context, pool *pgxpool.Pool, doctors []uuid.UUID, services []clinic.MedicalService, createdBy uuid.UUID, count int) error {
	log.Info().Int("count", count).Msg("seeding appointments")

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	inserted := 0
	for attempts := 0; inserted < count && attempts < count*10; attempts++ {
		doctorID := doctors[gofakeit.Number(0, len(doctors)-1)]
		service := services[gofakeit.Number(0, len(services)-1)]

		// A weekday within the next four weeks, morning hours.
		date := clinic.DateOnly(time.Now().AddDate(0, 0, gofakeit.Number(1, 28)))
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			continue
		}

		start := clinic.NewTimeOfDay(gofakeit.Number(8, 11), 0)
		end := start.AddMinutes(service.DurationMinutes)

		// Skip windows that collide with an already seeded appointment.
		var exists bool
		err := tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM appointments
				WHERE doctor_id = $1 AND date = $2
				  AND start_minute < $4 AND $3 < end_minute
			)
		`, doctorID, date, int(start), int(end)).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO appointments (id, patient_name, doctor_id, service_id, date, start_minute, end_minute, status, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		`, uuid.New(), gofakeit.Name(), doctorID, service.ID, date, int(start), int(end), clinic.StatusNew, createdBy)
		if err != nil {
			return err
		}
		inserted++
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Info().Int("inserted", inserted).Msg("appointments seeded")
	return nil
}
