package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	inventoryapp "github.com/medsupply/backend/internal/application/inventory"
	"github.com/medsupply/backend/internal/infrastructure/config"
	"github.com/medsupply/backend/internal/infrastructure/logger"
	"github.com/medsupply/backend/internal/infrastructure/persistence"
)

// stockreport prints the ledger-wide stock summary and the low-stock table
// for the configured database. It only reads; run it any time, including
// while another process holds the file.
//
// Example:
//
//	go run ./cmd/stockreport/ -threshold=0.25
func main() {
	var (
		databasePath string
		threshold    float64
		levels       bool
		logLevel     string
	)

	flag.StringVar(&databasePath, "db", "", "Path to the sqlite database file (default: from config)")
	flag.Float64Var(&threshold, "threshold", 0, "Low-stock ratio threshold, 0..1 (default: from config)")
	flag.BoolVar(&levels, "levels", false, "Print every product level, not just low stock")
	flag.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if databasePath != "" {
		cfg.Database.Path = databasePath
	}
	if threshold <= 0 {
		threshold = cfg.Stock.LowStockThreshold
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(logLevel))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	service := inventoryapp.NewStockService(
		persistence.NewGormLotRepository(db.DB),
		persistence.NewGormAllocationRepository(db.DB),
		persistence.NewGormProductRepository(db.DB),
	)
	service.SetCouponRepository(persistence.NewGormCouponRepository(db.DB))
	service.SetLowStockThreshold(decimal.NewFromFloat(threshold))

	transferService := inventoryapp.NewTransferService(
		persistence.NewGormTransferRepository(db.DB),
		persistence.NewGormProductRepository(db.DB),
		persistence.NewGormTransferScope(db.DB),
	)

	// One operation ID for the whole run; SQL trace lines carry it too.
	ctx, log := logger.WithOperationID(context.Background(), log, uuid.New().String())

	summary, err := service.StockSummary(ctx)
	if err != nil {
		log.Fatal("Failed to build stock summary", zap.Error(err))
	}

	transfers, err := transferService.TransferSummary(ctx)
	if err != nil {
		log.Fatal("Failed to build transfer summary", zap.Error(err))
	}

	fmt.Printf("database=%s\n", cfg.Database.Path)
	fmt.Printf("products=%d lots=%d remaining=%s original=%s\n",
		summary.ProductsTracked, summary.TotalLots,
		summary.TotalRemaining.String(), summary.TotalOriginal.String())
	fmt.Printf("coupons=%d verified=%d unverified=%d\n",
		summary.CouponsIssued, summary.CouponsVerified, summary.CouponsUnverified)
	fmt.Printf("transfers=%d transferred=%s products_served=%d locations_served=%d\n",
		transfers.TransferCount, transfers.TotalQuantity.String(),
		transfers.ProductsServed, transfers.LocationsServed)

	if levels {
		fmt.Printf("levels=%d\n", len(summary.Levels))
		for _, level := range summary.Levels {
			printLevel(level)
		}
	}

	if len(summary.LowStock) == 0 {
		fmt.Printf("low_stock=0 threshold=%s (no product below threshold)\n", formatThreshold(threshold))
		return
	}

	fmt.Printf("low_stock=%d threshold=%s\n", len(summary.LowStock), formatThreshold(threshold))
	for _, level := range summary.LowStock {
		printLevel(level)
	}
}

func printLevel(level inventoryapp.StockLevelResponse) {
	fmt.Printf("  product=%s remaining=%s original=%s lots=%d ratio=%s\n",
		level.ProductReference,
		level.TotalRemaining.String(),
		level.TotalOriginal.String(),
		level.LotCount,
		level.RemainingRatio.StringFixed(4),
	)
}

func formatThreshold(threshold float64) string {
	return decimal.NewFromFloat(threshold).String()
}
