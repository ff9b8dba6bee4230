package schema

import "time"

// HistoryStatus represents the status of the history store.
type HistoryStatus struct {
	Backend         string           `json:"backend"`
	Connected       bool             `json:"connected"`
	TotalUsers      int              `json:"total_users"`
	TotalDays       int              `json:"total_days"`
	TotalSessions   int              `json:"total_sessions"`
	OldestEntryDate time.Time        `json:"oldest_entry_date"`
	LatestEntryDate time.Time        `json:"latest_entry_date"`
	TableSizes      map[string]int64 `json:"table_sizes"`
}

// ForecastStoreStatus represents the status of the forecast store.
type ForecastStoreStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	TotalForecasts   int              `json:"total_forecasts"`
	TotalPlans       int              `json:"total_plans"`
	TotalModels      int              `json:"total_models"`
	LastForecastTime time.Time        `json:"last_forecast_time"`
	LastPlanTime     time.Time        `json:"last_plan_time"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}

// StoreStatus combines the status of both stores.
type StoreStatus struct {
	History  HistoryStatus       `json:"history"`
	Forecast ForecastStoreStatus `json:"forecast"`
}
