package clinic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor

	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Specialization,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	return &d, nil
}

func scanService(row pgx.Row) (*MedicalService, error) {
	var s MedicalService

	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Price,
		&s.DurationMinutes,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	return &s, nil
}

func scanScheduleBlock(row pgx.Row) (*ScheduleBlock, error) {
	var b ScheduleBlock
	var day, start, end int

	err := row.Scan(
		&b.ID,
		&b.DoctorID,
		&day,
		&start,
		&end,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}

	b.Day = time.Weekday(day)
	b.StartTime = TimeOfDay(start)
	b.EndTime = TimeOfDay(end)
	return &b, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var start, end int

	err := row.Scan(
		&a.ID,
		&a.PatientName,
		&a.DoctorID,
		&a.ServiceID,
		&a.Date,
		&start,
		&end,
		&a.Status,
		&a.CreatedBy,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	a.Date = DateOnly(a.Date)
	a.StartTime = TimeOfDay(start)
	a.EndTime = TimeOfDay(end)
	return &a, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var u User

	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Username,
		&u.PasswordHash,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}

// Doctors

func (r *PgRepository) GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, specialization, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`, id)
	return scanDoctor(row)
}

func (r *PgRepository) ListDoctors(ctx context.Context) ([]Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, specialization, created_at, updated_at
		FROM doctors
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}

	return result, rows.Err()
}

func (r *PgRepository) CreateDoctor(ctx context.Context, d Doctor) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO doctors (id, name, specialization, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		RETURNING id, name, specialization, created_at, updated_at
	`, d.ID, d.Name, d.Specialization)
	return scanDoctor(row)
}

func (r *PgRepository) UpdateDoctor(ctx context.Context, d Doctor) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE doctors
		SET name = $2,
		    specialization = $3,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, name, specialization, created_at, updated_at
	`, d.ID, d.Name, d.Specialization)
	return scanDoctor(row)
}

func (r *PgRepository) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDoctorNotFound
	}
	return nil
}

// Medical services

func (r *PgRepository) GetServiceByID(ctx context.Context, id uuid.UUID) (*MedicalService, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, price, duration_minutes, created_at, updated_at
		FROM medical_services
		WHERE id = $1
	`, id)
	return scanService(row)
}

func (r *PgRepository) ListServices(ctx context.Context) ([]MedicalService, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, price, duration_minutes, created_at, updated_at
		FROM medical_services
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MedicalService
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}

	return result, rows.Err()
}

func (r *PgRepository) CreateService(ctx context.Context, s MedicalService) (*MedicalService, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO medical_services (id, name, price, duration_minutes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING id, name, price, duration_minutes, created_at, updated_at
	`, s.ID, s.Name, s.Price, s.DurationMinutes)
	return scanService(row)
}

func (r *PgRepository) UpdateService(ctx context.Context, s MedicalService) (*MedicalService, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE medical_services
		SET name = $2,
		    price = $3,
		    duration_minutes = $4,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, name, price, duration_minutes, created_at, updated_at
	`, s.ID, s.Name, s.Price, s.DurationMinutes)
	return scanService(row)
}

func (r *PgRepository) DeleteService(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM medical_services WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrServiceNotFound
	}
	return nil
}

// Schedule blocks

func (r *PgRepository) GetScheduleBlockByID(ctx context.Context, id uuid.UUID) (*ScheduleBlock, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, doctor_id, day_of_week, start_minute, end_minute, created_at, updated_at
		FROM schedule_blocks
		WHERE id = $1
	`, id)
	return scanScheduleBlock(row)
}

func (r *PgRepository) ListScheduleBlocks(ctx context.Context, doctorID uuid.UUID, day time.Weekday) ([]ScheduleBlock, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, doctor_id, day_of_week, start_minute, end_minute, created_at, updated_at
		FROM schedule_blocks
		WHERE doctor_id = $1 AND day_of_week = $2
		ORDER BY start_minute
	`, doctorID, int(day))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectScheduleBlocks(rows)
}

func (r *PgRepository) ListScheduleBlocksByDoctor(ctx context.Context, doctorID uuid.UUID) ([]ScheduleBlock, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, doctor_id, day_of_week, start_minute, end_minute, created_at, updated_at
		FROM schedule_blocks
		WHERE doctor_id = $1
		ORDER BY day_of_week, start_minute
	`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectScheduleBlocks(rows)
}

func collectScheduleBlocks(rows pgx.Rows) ([]ScheduleBlock, error) {
	var result []ScheduleBlock
	for rows.Next() {
		b, err := scanScheduleBlock(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}
	return result, rows.Err()
}

func (r *PgRepository) CreateScheduleBlock(ctx context.Context, b ScheduleBlock) (*ScheduleBlock, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO schedule_blocks (id, doctor_id, day_of_week, start_minute, end_minute, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING id, doctor_id, day_of_week, start_minute, end_minute, created_at, updated_at
	`, b.ID, b.DoctorID, int(b.Day), int(b.StartTime), int(b.EndTime))
	return scanScheduleBlock(row)
}

func (r *PgRepository) UpdateScheduleBlock(ctx context.Context, b ScheduleBlock) (*ScheduleBlock, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE schedule_blocks
		SET day_of_week = $2,
		    start_minute = $3,
		    end_minute = $4,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, doctor_id, day_of_week, start_minute, end_minute, created_at, updated_at
	`, b.ID, int(b.Day), int(b.StartTime), int(b.EndTime))
	return scanScheduleBlock(row)
}

func (r *PgRepository) DeleteScheduleBlock(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM schedule_blocks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

// Appointments

const appointmentColumns = `id, patient_name, doctor_id, service_id, date, start_minute, end_minute, status, created_by, created_at, updated_at`

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) ListAppointmentsForDay(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE doctor_id = $1 AND date = $2
		ORDER BY start_minute
	`, doctorID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *PgRepository) ListAppointmentsInRange(ctx context.Context, start, end time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE date >= $1 AND date <= $2
		ORDER BY created_at
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

func (r *PgRepository) CreateAppointment(ctx context.Context, a Appointment) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, patient_name, doctor_id, service_id, date, start_minute, end_minute, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		RETURNING `+appointmentColumns+`
	`, a.ID, a.PatientName, a.DoctorID, a.ServiceID, a.Date, int(a.StartTime), int(a.EndTime), a.Status, a.CreatedBy)
	return scanAppointment(row)
}

func (r *PgRepository) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status AppointmentStatus) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+appointmentColumns+`
	`, id, status)
	return scanAppointment(row)
}

func (r *PgRepository) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// Event logging

func (r *PgRepository) InsertEvent(ctx context.Context, ev EventLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO event_logs (event_type, appointment_id, payload, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`, ev.EventType, ev.AppointmentID, ev.Payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}

	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Users

func (r *PgRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, username, password_hash, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (r *PgRepository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	// Usernames compare case-insensitively, backed by the users_username_ci
	// index.
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, username, password_hash, role, created_at, updated_at
		FROM users
		WHERE lower(username) = lower($1)
	`, username)
	return scanUser(row)
}

func (r *PgRepository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, username, password_hash, role, created_at, updated_at
		FROM users
		ORDER BY username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *u)
	}

	return result, rows.Err()
}

func (r *PgRepository) CreateUser(ctx context.Context, u User) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, name, username, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING id, name, username, password_hash, role, created_at, updated_at
	`, u.ID, u.Name, u.Username, u.PasswordHash, u.Role)
	return scanUser(row)
}

func (r *PgRepository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
