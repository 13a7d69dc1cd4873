//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"radiomon/internal"
	"radiomon/internal/alerts"
	"radiomon/internal/controllers"
	"radiomon/internal/models"
	"radiomon/internal/monitor"
	"radiomon/internal/persistence"
	"radiomon/internal/providers"
	"radiomon/internal/services"
	"radiomon/internal/structures"
	"radiomon/internal/warm"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		models.NewCampaignRegistry,
		models.NewHistoryStore,
		models.NewAnalytics,

		persistence.NewCompressor,
		persistence.NewFileManager,
		alerts.NewDispatcher,
		warm.NewClient,
		services.NewMonitorService,
		monitor.NewScheduler,
		controllers.NewDashboardController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
