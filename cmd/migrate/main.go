package main

import (
	"database/sql"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/flockbooks/backend/internal/infrastructure/config"
	"github.com/flockbooks/backend/internal/infrastructure/logger"
	"github.com/flockbooks/backend/internal/infrastructure/migration"
	"github.com/flockbooks/backend/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	var (
		direction string
		path      string
		version   int
		steps     int
		name      string
		logLevel  string
	)
	flag.StringVar(&direction, "direction", "up", "up, down, steps, version, force, create or list")
	flag.StringVar(&path, "path", "", "Read migrations from this directory instead of the embedded set")
	flag.IntVar(&version, "version", -1, "Target version for -direction force")
	flag.IntVar(&steps, "steps", 0, "Step count for -direction steps (negative rolls back)")
	flag.StringVar(&name, "name", "", "Migration name for -direction create")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	log, err := logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	// create and list work on files only
	switch direction {
	case "create":
		if path == "" || name == "" {
			log.Fatal("create needs -path and -name")
		}
		mf, err := migration.CreateMigration(path, name, "")
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return
	case "list":
		var files []string
		if path == "" {
			files, err = fs.Glob(migrations.FS, "*.up.sql")
		} else {
			files, err = migration.ListMigrations(path)
		}
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		for _, f := range files {
			fmt.Println(strings.TrimSuffix(f, ".up.sql"))
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	m, closeDB := openMigrator(cfg, path, log)
	defer closeDB()
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Error closing migrator", zap.Error(err))
		}
	}()

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		if steps == 0 {
			log.Fatal("steps needs a non-zero -steps")
		}
		err = m.Steps(steps)
	case "version":
		v, dirty, verr := m.Version()
		if verr != nil {
			log.Fatal("Failed to get version", zap.Error(verr))
		}
		log.Info("Current migration version", zap.Uint("version", v), zap.Bool("dirty", dirty))
	case "force":
		if version < 0 {
			log.Fatal("force needs -version")
		}
		err = m.Force(version)
	default:
		log.Error("Unknown direction", zap.String("direction", direction))
		printUsage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal("Migration failed", zap.String("direction", direction), zap.Error(err))
	}
}

func openMigrator(cfg *config.Config, path string, log *zap.Logger) (*migration.Migrator, func()) {
	if path != "" {
		m, err := migration.NewFromPath(cfg.Database.DSN(), path, log)
		if err != nil {
			log.Fatal("Failed to create migrator", zap.Error(err))
		}
		return m, func() {}
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}
	m, err := migration.New(db, migrations.FS, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	return m, func() { _ = db.Close() }
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `flockbooks schema migrations

Usage:
  migrate -direction <up|down|steps|version|force|create|list> [flags]

Flags:
  -direction string   what to do (default up)
  -steps int          migrations to apply for steps; negative rolls back
  -version int        version to record for force (repairs a dirty schema)
  -path string        migrations directory; defaults to the embedded set
  -name string        name for create (needs -path)
  -log-level string   debug, info, warn or error

Connection settings come from config.toml or FLOCK_DATABASE_* variables.`)
}
