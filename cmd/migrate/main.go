package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	trackerconfig "golang-stock-movers/internal/tracker/config"
	pkgconfig "golang-stock-movers/pkg/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

var configPath string

func buildDSN(db pkgconfig.Database) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		db.User, db.Password, db.Host, db.Port, db.DBName, db.SSLMode)
}

func openMigrator() (*migrate.Migrate, error) {
	cfg, err := trackerconfig.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return migrate.New("file://migrations", buildDSN(cfg.Database))
}

func closeMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		log.Printf("Migration source error on close: %v", srcErr)
	}
	if dbErr != nil {
		log.Printf("Migration database error on close: %v", dbErr)
	}
}

func migrateUp(cmd *cobra.Command, args []string) {
	m, err := openMigrator()
	if err != nil {
		log.Fatalf("Failed to create migration instance: %v", err)
	}
	defer closeMigrator(m)

	switch err := m.Up(); {
	case err == nil:
		fmt.Println("Applied migrations successfully.")
	case errors.Is(err, migrate.ErrNoChange):
		fmt.Println("Database is already up to date.")
	default:
		log.Fatalf("Migration failed: %v", err)
	}
}

func migrateDown(cmd *cobra.Command, args []string) {
	m, err := openMigrator()
	if err != nil {
		log.Fatalf("Failed to create migration instance: %v", err)
	}
	defer closeMigrator(m)

	if err := m.Steps(-1); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	fmt.Println("Reverted last migration successfully.")
}

func migrateVersion(cmd *cobra.Command, args []string) {
	m, err := openMigrator()
	if err != nil {
		log.Fatalf("Failed to create migration instance: %v", err)
	}
	defer closeMigrator(m)

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Println("No migrations applied yet.")
		return
	}
	if err != nil {
		log.Fatalf("Failed to read migration version: %v", err)
	}
	fmt.Printf("Current version: %d (dirty: %t)\n", version, dirty)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manages database migrations for the stock movers tracker",
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply all pending database migrations", Run: migrateUp},
		&cobra.Command{Use: "down", Short: "Revert the last database migration", Run: migrateDown},
		&cobra.Command{Use: "version", Short: "Print the current migration version", Run: migrateVersion},
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing migrate CLI: %s\n", err)
		os.Exit(1)
	}
}
