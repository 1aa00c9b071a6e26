package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/Freeeeeet/shelf_server/internal/app"
	"github.com/Freeeeeet/shelf_server/internal/config"
	"github.com/Freeeeeet/shelf_server/internal/repository"
	"github.com/Freeeeeet/shelf_server/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// qrgen создаёт пачку кодов без актива и печатает лист наклеек в PDF
func main() {
	userID := flag.String("user", "", "id of the user who owns the generated codes")
	amount := flag.Int("amount", 24, "number of codes to generate")
	out := flag.String("out", "qr-labels.pdf", "path of the PDF label sheet")
	flag.Parse()

	if *userID == "" {
		log.Fatal("-user is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	qrService := service.NewQrService(
		repository.NewQrRepository(pool),
		repository.NewAssetRepository(pool),
		cfg.ServerURL,
		logger,
	)

	qrs, err := qrService.GenerateOrphanedCodes(ctx, *userID, *amount)
	if err != nil {
		logger.Fatal("Failed to generate codes", zap.Error(err))
	}

	pdf, err := qrService.LabelSheet(qrs)
	if err != nil {
		logger.Fatal("Failed to render label sheet", zap.Error(err))
	}

	if err := os.WriteFile(*out, pdf, 0o644); err != nil {
		logger.Fatal("Failed to write label sheet", zap.String("path", *out), zap.Error(err))
	}

	logger.Info("✅ QR labels generated", zap.Int("count", len(qrs)), zap.String("path", *out))
}
