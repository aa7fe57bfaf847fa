package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/reindeer-letter/letter-backend/internal/config"
	"github.com/reindeer-letter/letter-backend/internal/repository"
	"github.com/reindeer-letter/letter-backend/internal/service"
	pkglogger "github.com/reindeer-letter/letter-backend/pkg/logger"
	"github.com/reindeer-letter/letter-backend/pkg/mailer"
)

// One-shot delivery sweep for running under an external cron or a
// scheduled serverless job instead of the in-process scheduler.
func main() {
	timeout := flag.Duration("timeout", 5*time.Minute, "maximum sweep duration")
	flag.Parse()

	config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)

	cfg, err := config.Load(fmt.Sprintf("configs/config.%s.yaml", env))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get underlying DB: %v", err)
	}
	defer func() { _ = sqlDB.Close() }()

	mail := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		SiteURL:  cfg.SMTP.SiteURL,
	})

	deliveryService := service.NewDeliveryService(
		repository.NewLetterRepository(db),
		repository.NewUserRepository(db),
		mail,
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := deliveryService.ProcessDue(ctx)
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}

	pkglogger.Info("Sweep finished: %d letters delivered", result.ProcessedCount)
}
