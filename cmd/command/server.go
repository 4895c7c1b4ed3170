package command

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"queuewise/internal/api"
	"queuewise/internal/config"
	"queuewise/internal/eventlog"
	"queuewise/internal/handlers"
	"queuewise/internal/lock"
	"queuewise/internal/service"
	"queuewise/internal/storage"
)

type Server struct {
	Logger *logrus.Logger
}

func (cmd Server) Command(ctx context.Context, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "run queuewise http server",
		Run: func(_ *cobra.Command, _ []string) {
			cmd.main(cfg, ctx)
		},
	}
}

func (cmd Server) main(cfg *config.Config, ctx context.Context) {
	db, err := openDatabase(cfg.Database, cmd.Logger)
	if err != nil {
		cmd.Logger.WithContext(ctx).Fatal(errors.Wrap(err, "server : failed to open database"))
		return
	}

	locker, closeLocker, err := cmd.newLocker(ctx, cfg.Redis)
	if err != nil {
		cmd.Logger.WithContext(ctx).Fatal(errors.Wrap(err, "server : failed to connect to redis"))
		return
	}
	defer closeLocker()

	var publisher eventlog.Publisher
	if cfg.Kafka.Enabled() {
		kafkaPublisher := eventlog.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic)
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				cmd.Logger.WithContext(ctx).WithError(err).Error("server : failed to close kafka writer")
			}
		}()
		publisher = kafkaPublisher
		cmd.Logger.WithContext(ctx).Infof("mirroring queue events to kafka topic %s", cfg.Kafka.EventsTopic)
	}

	// create repositories
	repository := storage.NewRepository(db)

	// create services
	recorder := eventlog.NewRecorder(repository, publisher, cmd.Logger)
	queueService := service.NewQueueService(repository, locker, recorder, cmd.Logger)

	// create handlers
	queueHandler := handlers.NewQueueHandler(queueService, cmd.Logger)

	server := api.New(cfg, cmd.Logger)
	server.SetupAPIRoutes(queueHandler)

	if err := server.Serve(ctx, fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
		cmd.Logger.WithContext(ctx).Fatal(errors.Wrap(err, "server : rest server stopped"))
	}
}

// newLocker picks the redis lock when redis is configured and the in-process lock
// otherwise.
func (cmd Server) newLocker(ctx context.Context, cfg config.Redis) (lock.Locker, func(), error) {
	if !cfg.Enabled() {
		return lock.NewKeyedMutex(), func() {}, nil
	}

	client, err := lock.NewRedisClient(ctx, cfg.Addr, cfg.Password, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	closeClient := func() {
		if err := client.Close(); err != nil {
			cmd.Logger.WithContext(ctx).WithError(err).Error("server : failed to close redis")
		}
	}
	cmd.Logger.WithContext(ctx).Infof("using redis queue lock at %s", cfg.Addr)
	return lock.NewRedisLocker(client, cfg.LockTTL, cmd.Logger), closeClient, nil
}

// openDatabase connects and, for the embedded drivers, creates the schema. Postgres
// schemas are managed by the migrate command.
func openDatabase(cfg config.Database, logger *logrus.Logger) (*gorm.DB, error) {
	db, err := storage.Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Driver != config.DriverPostgres {
		if err := storage.AutoMigrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}
