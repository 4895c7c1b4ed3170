package command

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"queuewise/internal/config"
	"queuewise/internal/seed"
	"queuewise/internal/storage"
)

type SeedCommand struct {
	Logger *log.Logger
}

func (cmd SeedCommand) Command(ctx context.Context, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "reset the database and load demo queues",
		Run: func(_ *cobra.Command, _ []string) {
			cmd.main(cfg, ctx)
		},
	}
}

func (cmd SeedCommand) main(cfg *config.Config, ctx context.Context) {
	db, err := openDatabase(cfg.Database, cmd.Logger)
	if err != nil {
		cmd.Logger.WithContext(ctx).Fatal(errors.Wrap(err, "seed : failed to open database"))
		return
	}

	totals, err := seed.Run(ctx, storage.NewRepository(db), time.Now().UTC())
	if err != nil {
		cmd.Logger.WithContext(ctx).Fatal(err)
		return
	}

	cmd.Logger.WithContext(ctx).WithFields(log.Fields{
		"queues":  totals.Queues,
		"entries": totals.Entries,
		"events":  totals.Events,
	}).Info("database seeded")
}
