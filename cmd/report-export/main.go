package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/medcare/clinic-scheduling/internal/clinic"
	"github.com/medcare/clinic-scheduling/internal/db"
	"github.com/medcare/clinic-scheduling/internal/export"
	"github.com/medcare/clinic-scheduling/internal/logger"
)

func main() {
	logger.Init("clinic-scheduling-report-export", "dev")

	var (
		startFlag = flag.String("start", "", "range start date, YYYY-MM-DD")
		endFlag   = flag.String("end", "", "range end date, YYYY-MM-DD")
		topFlag   = flag.Int("top", 5, "ranking size for top-doctors and top-services")
		outFlag   = flag.String("out", ".", "output directory for the CSV files")
	)
	flag.Parse()

	start, err := clinic.ParseDate(*startFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("-start must be formatted YYYY-MM-DD")
	}
	end, err := clinic.ParseDate(*endFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("-end must be formatted YYYY-MM-DD")
	}

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal().Msg("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	reports := clinic.NewReportService(clinic.NewPgRepository(pool))

	appts, err := reports.AppointmentsInRange(ctx, start, end)
	if err != nil {
		log.Fatal().Err(err).Msg("appointments report")
	}
	writeFile(filepath.Join(*outFlag, "appointments.csv"), func(f *os.File) error {
		return export.WriteAppointmentsCSV(f, appts)
	})

	doctors, err := reports.TopDoctorsByAppointments(ctx, *topFlag, start, end)
	if err != nil {
		log.Fatal().Err(err).Msg("top doctors report")
	}
	writeFile(filepath.Join(*outFlag, "top-doctors.csv"), func(f *os.File) error {
		return export.WriteDoctorRankingCSV(f, doctors)
	})

	services, err := reports.TopServicesByAppointments(ctx, *topFlag, start, end)
	if err != nil {
		log.Fatal().Err(err).Msg("top services report")
	}
	writeFile(filepath.Join(*outFlag, "top-services.csv"), func(f *os.File) error {
		return export.WriteServiceRankingCSV(f, services)
	})

	log.Info().
		Int("appointments", len(appts)).
		Int("doctors", len(doctors)).
		Int("services", len(services)).
		Msg("export complete")
}

func writeFile(path string, write func(*os.File) error) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("create output file")
	}
	defer f.Close()

	if err := write(f); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("write csv")
	}

	log.Info().Str("path", path).Msg("wrote report")
}
