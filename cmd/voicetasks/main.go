package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voicetasks/internal/auth"
	"voicetasks/internal/config"
	"voicetasks/internal/httpapi"
	"voicetasks/internal/intent"
	"voicetasks/internal/notify"
	"voicetasks/internal/repository"
	"voicetasks/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	deviceRepo := repository.NewDeviceRepository(db)

	verifier := auth.NewTokenVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	extractor := intent.NewClient(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiAPIKey)
	notifier := notify.NewPusher(cfg.PushEndpoint, cfg.PushServerKey, deviceRepo)

	taskSvc := service.NewTaskService(taskRepo)
	resolver := service.NewResolver(extractor, taskRepo, notifier)
	reminderSvc := service.NewReminderService(taskRepo, userRepo, notifier)

	handlers := httpapi.NewHandlers(verifier, taskSvc, resolver, notifier, deviceRepo)
	app := httpapi.New(handlers, verifier, userRepo)

	scheduler := service.NewSchedulerService(time.Local)
	if cfg.ReminderInterval > 0 {
		if _, err := scheduler.ScheduleInterval(cfg.ReminderInterval, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := reminderSvc.Sweep(jobCtx, time.Now()); err != nil {
				log.Printf("reminder sweep: %v", err)
			}
		}); err != nil {
			log.Fatalf("schedule reminders: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + cfg.Port)
	}()

	log.Printf("[info] server listening on :%s", cfg.Port)

	select {
	case err := <-errCh:
		log.Fatalf("server stopped with error: %v", err)
	case <-ctx.Done():
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("[warn] shutdown: %v", err)
	}
	log.Println("Shutdown complete.")
}
