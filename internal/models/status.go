package models

import "time"

// CampaignStatus is the per-campaign slice of the monitoring status snapshot.
type CampaignStatus struct {
	CampaignID string    `json:"campaignId"`
	ArtistName string    `json:"artistName"`
	Monitoring bool      `json:"monitoring"`
	LastCheck  time.Time `json:"lastCheck"`
	TotalPlays int       `json:"totalPlays"`
	NewPlays   int       `json:"newPlays"`
}

// MonitoringStatus is the dashboard's view of the scheduler and registry.
type MonitoringStatus struct {
	Monitoring      bool             `json:"monitoring"`
	ActiveCampaigns int              `json:"activeCampaigns"`
	Campaigns       []CampaignStatus `json:"campaigns"`
}

// OverallAnalytics is the cross-campaign rollup served to the dashboard.
type OverallAnalytics struct {
	TotalPlays              int             `json:"totalPlays"`
	TotalCampaigns          int             `json:"totalCampaigns"`
	AveragePlaysPerCampaign float64         `json:"averagePlaysPerCampaign"`
	TopStations             []StationCount  `json:"topStations"`
	RecentPlays             []TimelineEntry `json:"recentPlays"`
}
