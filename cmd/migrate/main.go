package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/daccred/txbuild.attest.so/config"
	"github.com/daccred/txbuild.attest.so/db"
)

func main() {
	environment := flag.String("e", "development", "configuration environment")
	migrationsDir := flag.String("dir", "migrations", "directory holding the .sql migrations")
	flag.Usage = func() {
		fmt.Println("Usage: migrate [-e {mode}] [-dir {path}] <up|status>")
		os.Exit(1)
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
	}

	config.Init(*environment)
	settings, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	logger := logrus.WithField("service", "migrate")

	dbConn, err := db.Connect(settings.Database.URL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbConn.Close()

	switch flag.Arg(0) {
	case "up":
		applied, err := db.Migrate(context.Background(), dbConn, *migrationsDir)
		for _, file := range applied {
			logger.Infof("Ran migration: %s", file)
		}
		if err != nil {
			logger.Fatalf("Migration failed: %v", err)
		}
		logger.Info("Migrations completed successfully")
	case "status":
		if err := dbConn.Ping(); err != nil {
			logger.Fatalf("Database connection failed: %v", err)
		}
		logger.Info("Database connection successful")
	default:
		logger.Fatal("Unknown command. Use 'up' or 'status'")
	}
}
