package main

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/cloudcurio/arbfinder/internal/config"
	"github.com/cloudcurio/arbfinder/internal/model"
	"github.com/cloudcurio/arbfinder/internal/store"
	"github.com/cloudcurio/arbfinder/internal/valuation"
)

// buildEngine constructs the valuation engine from the loaded config plus
// the optional --tables override file.
func buildEngine(cmd *cobra.Command) (*valuation.Engine, error) {
	tablesPath, _ := cmd.Flags().GetString("tables")
	tables, err := config.LoadTables(tablesPath)
	if err != nil {
		return nil, err
	}
	return valuation.New(cfg.Valuation, tables)
}

// openStore opens the configured persistence backend and runs migrations.
func openStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		s, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, eris.Wrap(err, "open postgres pool")
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, eris.Wrap(err, "ping postgres")
		}
		s := store.NewPostgres(pool)
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, eris.Errorf("unknown store driver %q (want sqlite or postgres)", cfg.Store.Driver)
	}
}

// parseDamageFlag parses a repeatable --damage value of the form
// type:location:severity, e.g. dent:front:moderate.
func parseDamageFlag(values []string) ([]model.DamageEntry, error) {
	damages := make([]model.DamageEntry, 0, len(values))
	for _, v := range values {
		parts := strings.Split(v, ":")
		if len(parts) != 3 {
			return nil, eris.Errorf("invalid --damage %q (want type:location:severity)", v)
		}
		damages = append(damages, model.DamageEntry{
			Type:     model.DamageType(parts[0]),
			Location: model.DamageLocation(parts[1]),
			Severity: model.DamageSeverity(parts[2]),
		})
	}
	return damages, nil
}
