package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/jhoicas/recepcion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/recepcion-api/pkg/config"
	"github.com/jhoicas/recepcion-api/pkg/logger"
)

func main() {
	var migrationsPath string
	flag.StringVar(&migrationsPath, "path", "", "directorio de migraciones (por defecto MIGRATIONS_PATH o ./migrations)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level}).Component("migrate")

	if migrationsPath == "" {
		migrationsPath = cfg.DB.MigrationsPath
	}

	mg, err := postgres.NewMigrator(cfg.DB.ConnectionString(), migrationsPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migraciones")
	}
	defer func() {
		if err := mg.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar migraciones")
		}
	}()

	switch args[0] {
	case "up":
		err = mg.Up()
	case "down":
		err = mg.Down()
	case "steps":
		if len(args) < 2 {
			printUsage()
			os.Exit(1)
		}
		n, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			log.Fatal().Str("steps", args[1]).Msg("steps debe ser un entero")
		}
		err = mg.Steps(n)
	case "version":
		var (
			version uint
			dirty   bool
		)
		version, dirty, err = mg.Version()
		if err == nil {
			log.Info().Uint("version", version).Bool("dirty", dirty).Msg("versión actual")
		}
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Error().Err(err).Str("command", args[0]).Msg("migración fallida")
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "uso: migrate [-path dir] up|down|steps N|version")
}
