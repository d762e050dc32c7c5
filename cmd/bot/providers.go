package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/lithium/pkg/backup"
	"github.com/Jacobbrewer1/lithium/pkg/dataaccess"
	"github.com/Jacobbrewer1/lithium/pkg/dataaccess/connection"
	"github.com/Jacobbrewer1/lithium/pkg/logging"
	"go.mongodb.org/mongo-driver/mongo"
)

// disconnectTimeout bounds how long closing the Mongo client may take on shutdown.
const disconnectTimeout = 10 * time.Second

func provideLoggingConfig(cfg *Config) (*logging.Config, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	c := logging.NewConfig(AppName)
	c.Level = level
	return c, nil
}

func provideDatabaseName(cfg *Config) dataaccess.DatabaseName {
	return dataaccess.DatabaseName(cfg.DatabaseName)
}

func provideMongoClient(l *slog.Logger, cfg *Config) (*mongo.Client, func(), error) {
	conn := &connection.MongoDB{
		ConnectionString: cfg.DatabaseURI,
	}

	client, err := conn.Connect(context.Background())
	if err != nil {
		return nil, nil, fmt.Errorf("error creating mongo client: %w", err)
	}

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			l.Error("Error disconnecting from mongo", slog.String(logging.KeyError, err.Error()))
		}
	}
	return client, cleanup, nil
}

func provideBackupSource(dal dataaccess.GuildConfigDal) backup.Source {
	return dal
}
