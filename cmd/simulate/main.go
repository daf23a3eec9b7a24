// Command simulate hammers the booking endpoint with concurrent
// requests for a small set of doctors and time windows, to observe how
// many land, how many are rejected as conflicts, and how many bounce
// off the per-doctor booking lock.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/medcare/clinic-scheduling/internal/db"
	"github.com/medcare/clinic-scheduling/internal/logger"
)

type simConfig struct {
	APIBaseURL  string
	Duration    time.Duration
	Workers     int
	Username    string
	Password    string
	DoctorLimit int
	PostgresDSN string
}

type dataPool struct {
	Doctors  []uuid.UUID
	Services []uuid.UUID
}

type opMetrics struct {
	Total     int64
	Booked    int64
	Conflict  int64
	Contended int64
	Rejected  int64
	Error     int64

	mu        sync.Mutex
	latencies []time.Duration
}

func (m *opMetrics) record(latency time.Duration, status int) {
	atomic.AddInt64(&m.Total, 1)
	switch {
	case status == http.StatusCreated:
		atomic.AddInt64(&m.Booked, 1)
	case status == http.StatusConflict:
		atomic.AddInt64(&m.Conflict, 1)
	case status == http.StatusUnprocessableEntity:
		atomic.AddInt64(&m.Rejected, 1)
	case status == 0:
		atomic.AddInt64(&m.Error, 1)
	default:
		atomic.AddInt64(&m.Error, 1)
	}

	m.mu.Lock()
	m.latencies = append(m.latencies, latency)
	m.mu.Unlock()
}

func (m *opMetrics) stats() (avg, p50, p95 time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.latencies) == 0 {
		return 0, 0, 0
	}

	latencies := make([]time.Duration, len(m.latencies))
	copy(latencies, m.latencies)
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}
	avg = sum / time.Duration(len(latencies))
	p50 = latencies[len(latencies)*50/100]
	p95 = latencies[min(len(latencies)*95/100, len(latencies)-1)]
	return avg, p50, p95
}

func main() {
	logger.Init("clinic-scheduling-simulate", "dev")
	log.Info().Msg("simulator starting")

	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pgPool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pgPool.Close()

	pool, err := loadDataPool(ctx, pgPool, cfg.DoctorLimit)
	if err != nil {
		log.Fatal().Err(err).Msg("load data pool")
	}
	log.Info().Int("doctors", len(pool.Doctors)).Int("services", len(pool.Services)).Msg("loaded")

	client := &http.Client{Timeout: 10 * time.Second}

	token, err := login(client, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("login")
	}

	var metrics opMetrics

	runCtx, stop := context.WithTimeout(context.Background(), cfg.Duration)
	defer stop()

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(runCtx, client, cfg, pool, token, &metrics)
		}()
	}
	wg.Wait()

	avg, p50, p95 := metrics.stats()
	log.Info().
		Int64("total", metrics.Total).
		Int64("booked", metrics.Booked).
		Int64("conflict", metrics.Conflict).
		Int64("contended", metrics.Contended).
		Int64("outside_hours", metrics.Rejected).
		Int64("error", metrics.Error).
		Dur("avg", avg).
		Dur("p50", p50).
		Dur("p95", p95).
		Msg("simulation finished")
}

func worker(ctx context.Context, client *http.Client, cfg simConfig, pool *dataPool, token string, metrics *opMetrics) {
	// A deliberately narrow set of dates and start times so workers
	// collide on the same windows.
	dates := upcomingWeekdays(3)

	for ctx.Err() == nil {
		doctor := pool.Doctors[rand.Intn(len(pool.Doctors))]
		service := pool.Services[rand.Intn(len(pool.Services))]
		date := dates[rand.Intn(len(dates))]
		start := fmt.Sprintf("%02d:%02d", 8+rand.Intn(4), 15*rand.Intn(4))

		body, _ := json.Marshal(map[string]string{
			"patient_name": fmt.Sprintf("sim-patient-%d", rand.Intn(1000)),
			"doctor_id":    doctor.String(),
			"service_id":   service.String(),
			"date":         date,
			"start_time":   start,
		})

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.APIBaseURL+"/appointments", bytes.NewReader(body))
		if err != nil {
			metrics.record(0, 0)
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		begin := time.Now()
		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			metrics.record(time.Since(begin), 0)
			continue
		}

		if resp.StatusCode == http.StatusConflict {
			// Split lock bounces from genuine slot overlaps.
			var payload struct {
				Error string `json:"error"`
			}
			data, _ := io.ReadAll(resp.Body)
			_ = json.Unmarshal(data, &payload)
			if payload.Error == "booking_contended" {
				atomic.AddInt64(&metrics.Contended, 1)
				atomic.AddInt64(&metrics.Total, 1)
				resp.Body.Close()
				continue
			}
		} else {
			io.Copy(io.Discard, resp.Body)
		}
		resp.Body.Close()

		metrics.record(time.Since(begin), resp.StatusCode)
	}
}

func login(client *http.Client, cfg simConfig) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"username": cfg.Username,
		"password": cfg.Password,
	})

	resp, err := client.Post(cfg.APIBaseURL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login returned status %d", resp.StatusCode)
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	return payload.Token, nil
}

func loadDataPool(ctx context.Context, pgPool *pgxpool.Pool, limit int) (*dataPool, error) {
	pool := &dataPool{}

	rows, err := pgPool.Query(ctx, `SELECT id FROM doctors ORDER BY created_at LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		pool.Doctors = append(pool.Doctors, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	serviceRows, err := pgPool.Query(ctx, `SELECT id FROM medical_services`)
	if err != nil {
		return nil, fmt.Errorf("load medical services: %w", err)
	}
	defer serviceRows.Close()
	for serviceRows.Next() {
		var id uuid.UUID
		if err := serviceRows.Scan(&id); err != nil {
			return nil, err
		}
		pool.Services = append(pool.Services, id)
	}
	if err := serviceRows.Err(); err != nil {
		return nil, err
	}

	if len(pool.Doctors) == 0 || len(pool.Services) == 0 {
		return nil, fmt.Errorf("no doctors or services found, run cmd/seed first")
	}
	return pool, nil
}

func upcomingWeekdays(count int) []string {
	var days []string
	d := time.Now().AddDate(0, 0, 1)
	for len(days) < count {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			days = append(days, d.Format("2006-01-02"))
		}
		d = d.AddDate(0, 0, 1)
	}
	return days
}

func loadConfig() simConfig {
	cfg := simConfig{
		APIBaseURL:  getEnv("SIM_API_URL", "http://localhost:8080"),
		Duration:    getDurationEnv("SIM_DURATION", 30*time.Second),
		Workers:     getIntEnv("SIM_WORKERS", 20),
		Username:    getEnv("SIM_USERNAME", "reception"),
		Password:    getEnv("SIM_PASSWORD", "reception-password"),
		DoctorLimit: getIntEnv("SIM_DOCTOR_LIMIT", 5),
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
	}
	if cfg.PostgresDSN == "" {
		log.Fatal().Msg("POSTGRES_DSN is required")
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
