//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/krushisathi/krushi-sathi/internal/bootstrap"
	"github.com/krushisathi/krushi-sathi/internal/domain/advisory"
	"github.com/krushisathi/krushi-sathi/internal/domain/archive"
	"github.com/krushisathi/krushi-sathi/internal/domain/updates"
	"github.com/krushisathi/krushi-sathi/internal/infra/config"
	httpiface "github.com/krushisathi/krushi-sathi/internal/interface/http"
	"github.com/krushisathi/krushi-sathi/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideAdvisoryConfig,
		provideUpdatesConfig,
		provideGeminiClient,
		provideImageStore,
		provideWeatherClient,
		provideArchiveRepository,
		provideLimiter,
		advisory.NewService,
		updates.NewService,
		archive.NewService,
		provideHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
