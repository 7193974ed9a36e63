package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/daccred/txbuild.attest.so/config"
	"github.com/daccred/txbuild.attest.so/controllers"
	"github.com/daccred/txbuild.attest.so/db"
	"github.com/daccred/txbuild.attest.so/handlers"
	"github.com/daccred/txbuild.attest.so/server"
)

func main() {
	environment := flag.String("e", "development", "")
	flag.Usage = func() {
		fmt.Println("Usage: server -e {mode}")
		os.Exit(1)
	}
	flag.Parse()
	config.Init(*environment)

	settings, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	logger := logrus.WithField("service", "txbuild")

	dbConn, err := db.Connect(settings.Database.URL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbConn.Close()

	recorder, err := handlers.NewRecorder(&handlers.Config{
		NetworkPassphrase: settings.Network.Passphrase,
		BaseFee:           settings.Network.BaseFee,
		SigningSeed:       settings.Signing.Seed,
		LogLevel:          settings.Log.Level,
	}, dbConn, logger)
	if err != nil {
		logger.Fatalf("Failed to create recorder: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := recorder.Start(ctx); err != nil {
		logger.Fatalf("Failed to start recorder: %v", err)
	}

	router := server.NewRouter(settings.Server.AllowOrigins, controllers.NewTransactionController(dbConn, recorder))
	s := &server.Server{Port: settings.Server.Port}
	logger.Infof("Listening on :%s for %s", settings.Server.Port, settings.Network.Passphrase)
	if err := s.Run(router); err != nil {
		logger.Fatalf("Server stopped: %v", err)
	}
}
