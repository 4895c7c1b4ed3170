package command

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"queuewise/internal/config"
	"queuewise/internal/storage"
)

type MigrateCommand struct {
	Logger *log.Logger
}

func (cmd MigrateCommand) Command(ctx context.Context, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "run database migrations",
		ValidArgs: []string{"up", "down"},
		Run: func(_ *cobra.Command, args []string) {
			cmd.main(cfg, ctx, args)
		},
	}
}

func (cmd MigrateCommand) main(cfg *config.Config, ctx context.Context, args []string) {
	if len(args) == 0 {
		cmd.Logger.WithContext(ctx).Fatal("please specify migration command")
		return
	}

	// embedded drivers are migrated from the models on open
	if cfg.Database.Driver != config.DriverPostgres {
		if args[0] != "up" {
			cmd.Logger.WithContext(ctx).Fatal(errors.Errorf("migration command : %s is only supported on %s", args[0], config.DriverPostgres))
			return
		}
		if _, err := openDatabase(cfg.Database, cmd.Logger); err != nil {
			cmd.Logger.WithContext(ctx).Fatal(err)
			return
		}
		cmd.Logger.WithContext(ctx).Infof("%s schema is up to date", cfg.Database.Driver)
		return
	}

	db, err := storage.Open(cfg.Database, cmd.Logger)
	if err != nil {
		cmd.Logger.WithContext(ctx).Fatal(errors.Wrap(err, "migrate : failed to connect to postgresql"))
		return
	}

	migrationCommand := args[0]
	switch migrationCommand {
	case "up":
		err = storage.MigrateUp(db, cfg.Database.Postgres.Database)
	case "down":
		err = storage.MigrateDown(db, cfg.Database.Postgres.Database)
	default:
		err = errors.Errorf("migration command : %s is not supported", migrationCommand)
	}
	if err != nil {
		cmd.Logger.WithContext(ctx).Fatal(err)
		return
	}
	cmd.Logger.WithContext(ctx).Infof("migration %s finished", migrationCommand)
}
