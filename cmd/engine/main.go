package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mlebedeva/clinic_booking/internal/app"
	"github.com/mlebedeva/clinic_booking/internal/config"
	"github.com/mlebedeva/clinic_booking/internal/repository"
	"github.com/mlebedeva/clinic_booking/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting booking engine",
		zap.String("environment", cfg.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Применяем миграции при старте
	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	// Репозитории
	doctorRepo := repository.NewDoctorRepository(pool)
	availabilityRepo := repository.NewAvailabilityRepository(pool)
	absenceRepo := repository.NewAbsenceRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)

	// Сервисы
	availabilityService := service.NewAvailabilityService(doctorRepo, availabilityRepo, absenceRepo, reservationRepo, logger)
	bookingService := service.NewBookingService(availabilityService, reservationRepo, app.NewLogNotifier(logger), logger)

	// Фоновая рассылка напоминаний
	scheduler := app.NewScheduler(bookingService, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logger.Info("Booking engine started")

	// Ждём сигнала остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down booking engine")
}
