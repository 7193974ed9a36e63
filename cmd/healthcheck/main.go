package main

import (
	"context"
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/daccred/txbuild.attest.so/config"
	"github.com/daccred/txbuild.attest.so/controllers"
	"github.com/daccred/txbuild.attest.so/db"
	"github.com/daccred/txbuild.attest.so/handlers"
	"github.com/daccred/txbuild.attest.so/models"
)

// healthcheck composes an unsigned inflation transaction end to end, records
// it inside a database transaction that is rolled back, and reports each
// step.
func main() {
	environment := flag.String("e", "development", "configuration environment")
	flag.Parse()

	config.Init(*environment)
	settings, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	logger := logrus.WithField("service", "healthcheck")

	logger.Info("Testing database connection...")
	dbConn, err := db.Connect(settings.Database.URL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbConn.Close()
	logger.Info("Database connection successful")

	logger.Info("Testing recorder creation...")
	recorder, err := handlers.NewRecorder(&handlers.Config{
		NetworkPassphrase: settings.Network.Passphrase,
		BaseFee:           settings.Network.BaseFee,
		SigningSeed:       settings.Signing.Seed,
		LogLevel:          settings.Log.Level,
	}, dbConn, logger)
	if err != nil {
		logger.Fatalf("Failed to create recorder: %v", err)
	}
	if ctl := controllers.NewTransactionController(dbConn, recorder); ctl == nil {
		logger.Fatal("Failed to create controller")
	}
	logger.Info("Recorder and controller created")

	logger.Info("Testing envelope composition...")
	env, err := recorder.Compose(models.ComposeRequest{
		SourceAccount: "GAS4V4O2B7DW5T7IQRPEEVCRXMDZESKISR7DVIGKZQYYV3OSQ5SH5LVP",
		Sequence:      1,
		Operations:    []models.OperationRequest{{Type: "inflation"}},
	})
	if err != nil {
		logger.Fatalf("Failed to compose transaction: %v", err)
	}
	described, err := recorder.Describe(env)
	if err != nil {
		logger.Fatalf("Failed to describe transaction: %v", err)
	}
	logger.Infof("Composed transaction %s", described.Hash)

	logger.Info("Testing table access...")
	ctx := context.Background()
	dbTx, err := dbConn.BeginTx(ctx, nil)
	if err != nil {
		logger.Fatalf("Failed to begin transaction: %v", err)
	}
	defer dbTx.Rollback()
	if _, err := dbTx.ExecContext(ctx, `
		INSERT INTO transactions (hash, source_account, sequence, fee,
			operation_count, network, envelope_xdr, signature_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		described.Hash, described.SourceAccount, described.Sequence, int64(described.Fee),
		described.OperationCount, described.Network, described.EnvelopeXDR, described.SignatureCount); err != nil {
		logger.Fatalf("Failed to insert test transaction: %v", err)
	}
	var count int
	if err := dbTx.QueryRowContext(ctx, `SELECT COUNT(*) FROM operations WHERE transaction_hash = $1`, described.Hash).Scan(&count); err != nil {
		logger.Fatalf("Failed to query operations: %v", err)
	}
	logger.Infof("Database operations successful, %d operations recorded for the test transaction", count)
	logger.Info("All checks passed, nothing was kept")
}
