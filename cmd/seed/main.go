// seed crea el administrador inicial y, con -demo, el catálogo de demostración en PostgreSQL.
//
// Uso: go run ./cmd/seed [-demo]
// Requiere BOOTSTRAP_ADMIN_USERNAME y BOOTSTRAP_ADMIN_PASSWORD.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/Farmacia-api/internal/app"
	"github.com/jhoicas/Farmacia-api/pkg/config"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

func main() {
	demo := flag.Bool("demo", false, "cargar bodegas, productos, existencias y un cliente de ejemplo")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.Seed.AdminUsername == "" {
		fmt.Fprintln(os.Stderr, "BOOTSTRAP_ADMIN_USERNAME es obligatorio")
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: cfg.App.Name})

	ctx := context.Background()
	backend, err := app.NewPostgresBackend(ctx, cfg.DB, log, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer backend.Close()

	container := app.Build(backend, cfg, log, nil)
	adminID, err := container.Seeder.EnsureAdmin(ctx, cfg.Seed.AdminUsername, cfg.Seed.AdminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("crear administrador")
	}
	if !*demo {
		return
	}
	res, err := container.Seeder.Demo(ctx, adminID)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar datos de demostración")
	}
	if !res.Skipped {
		fmt.Printf("bodega principal: %s\ncliente: %s\nproductos: %d\n", res.PrimaryWarehouseID, res.ClientID, len(res.ProductIDs))
	}
}
