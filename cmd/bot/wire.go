//go:build wireinject
// +build wireinject

package main

import (
	"github.com/Jacobbrewer1/lithium/pkg/backup"
	"github.com/Jacobbrewer1/lithium/pkg/dataaccess"
	"github.com/Jacobbrewer1/lithium/pkg/logging"
	"github.com/Jacobbrewer1/lithium/pkg/ticketing"
	"github.com/google/wire"
	"github.com/gorilla/mux"
)

func InitializeApp(cfg *Config) (*App, func(), error) {
	wire.Build(
		provideLoggingConfig,
		logging.CommonLogger,
		provideDatabaseName,
		provideMongoClient,
		dataaccess.NewGuildConfigDal,
		dataaccess.NewMaintenance,
		ticketing.NewService,
		provideBackupSource,
		backup.NewScheduler,
		mux.NewRouter,
		NewApp,
	)
	return new(App), nil, nil
}
