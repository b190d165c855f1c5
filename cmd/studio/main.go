package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/studio_booking/internal/app"
	"github.com/Freeeeeet/studio_booking/internal/config"
	httpcontroller "github.com/Freeeeeet/studio_booking/internal/controller/http"
	"github.com/Freeeeeet/studio_booking/internal/controller/session"
	"github.com/Freeeeeet/studio_booking/internal/notify"
	"github.com/Freeeeeet/studio_booking/internal/repository"
	"github.com/Freeeeeet/studio_booking/internal/repository/base"
	"github.com/Freeeeeet/studio_booking/internal/service"
	"github.com/Freeeeeet/studio_booking/migrations"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Studio stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Sugar().Infow("Starting studio booking",
		"environment", cfg.Environment,
		"http_addr", cfg.HTTPAddr,
		"timezone", cfg.Location.String())

	pool, err := app.NewPool(ctx, cfg.GetDBDSN(), logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.MigrationsOnStart {
		migrator, err := app.NewMigrator(pool, migrations.FS, logger)
		if err != nil {
			return err
		}
		err = migrator.Run(ctx)
		_ = migrator.Close()
		if err != nil {
			return err
		}
	}

	// Репозитории
	db := base.NewRepository(pool)
	tx := base.NewTxManager(pool)
	accounts := repository.NewAccountRepository(db)
	students := repository.NewStudentRepository(db)
	teachers := repository.NewTeacherRepository(db)
	directions := repository.NewDirectionRepository(db)
	groups := repository.NewGroupRepository(db)
	lessons := repository.NewLessonRepository(db)
	bookings := repository.NewBookingRepository(db)
	payments := repository.NewPaymentRepository(db)
	abonements := repository.NewAbonementRepository(db)

	// Уведомления персонала
	var notifier notify.Notifier = notify.Nop{}
	if cfg.NotificationsEnabled() {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramStaffChatID, logger)
		if err != nil {
			return err
		}
		notifier = tg
		logger.Info("Staff notifications enabled", zap.Int64("chat_id", cfg.TelegramStaffChatID))
	}

	// Сервисы
	authService := service.NewAuthService(tx, accounts, students, teachers, logger)
	bookingService := service.NewBookingService(tx, students, lessons, bookings, notifier, logger)
	attendanceService := service.NewAttendanceService(lessons, bookings, logger)
	catalogService := service.NewCatalogService(directions, teachers, groups, lessons, bookings, abonements, cfg.Location, logger)
	rosterService := service.NewRosterService(students, payments, logger)
	profileService := service.NewProfileService(directions, teachers, students, lessons, bookings, payments)

	if cfg.SeedAdmin() {
		if err := authService.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
			return err
		}
	}

	// Сессии: Redis, если задан адрес, иначе память процесса
	var storage fiber.Storage
	if cfg.RedisAddr != "" {
		redisStorage, err := session.NewRedisStorage(ctx, session.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return err
		}
		defer redisStorage.Close()
		storage = redisStorage
		logger.Info("Sessions stored in Redis", zap.String("addr", cfg.RedisAddr))
	} else {
		logger.Warn("REDIS_ADDR is not set, sessions are kept in memory")
	}

	server := httpcontroller.New(httpcontroller.Services{
		Auth:       authService,
		Booking:    bookingService,
		Attendance: attendanceService,
		Catalog:    catalogService,
		Roster:     rosterService,
		Profile:    profileService,
	}, httpcontroller.Config{
		SessionTTL:   cfg.SessionTTL,
		CookieSecure: cfg.SessionCookieSecure,
		Storage:      storage,
	}, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		errCh <- server.Listen(cfg.HTTPAddr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	if err := server.ShutdownWithTimeout(10 * time.Second); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
