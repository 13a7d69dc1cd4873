package internal

import (
	"net/http"

	"radiomon/internal/controllers"
	"radiomon/internal/providers"
	"radiomon/internal/structures"
)

func InitRoutes(dashboardController *controllers.DashboardController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/api/status", http.HandlerFunc(dashboardController.GetStatus))
	routers.Get("/api/analytics", http.HandlerFunc(dashboardController.GetAnalytics))
	routers.Get("/api/campaigns", http.HandlerFunc(dashboardController.GetCampaigns))
	routers.Get("/api/plays", http.HandlerFunc(dashboardController.GetPlays))
	routers.Post("/api/monitor/start", http.HandlerFunc(dashboardController.StartMonitor))
	routers.Post("/api/monitor/stop", http.HandlerFunc(dashboardController.StopMonitor))
	routers.Get("/", http.HandlerFunc(dashboardController.Dashboard))
	return routers
}
