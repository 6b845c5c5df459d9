package analytics

import "time"

// ResultsQuery selects a funnel test, its versions and a named date range
type ResultsQuery struct {
	Funnel    string   `form:"funnel"`
	Versions  []string `form:"versions"`
	DateRange string   `form:"dateRange" binding:"omitempty,oneof=today week month"`
}

// MonitorConfig configures one winner monitor run
type MonitorConfig struct {
	Funnel      string
	Versions    []string
	DateRange   string
	MinSessions int64
	Threshold   float64
}

// MonitorOutcome reports what a monitor run decided
type MonitorOutcome struct {
	TestName      string  `json:"test_name"`
	Status        string  `json:"status"`
	Winner        string  `json:"winner,omitempty"`
	Confidence    float64 `json:"confidence"`
	TotalSessions int64   `json:"total_sessions"`
	Switched      bool    `json:"switched"`
	ActiveVersion string  `json:"active_version,omitempty"`
}

// SettingsRequest sets the live variant of a funnel test
type SettingsRequest struct {
	ActiveVersion string `json:"active_version" binding:"required,max=50"`
	AutoSwitch    *bool  `json:"auto_switch"`
}

// SettingsResponse is the live variant of a funnel test
type SettingsResponse struct {
	TestName      string     `json:"test_name"`
	ActiveVersion string     `json:"active_version"`
	AutoSwitch    bool       `json:"auto_switch"`
	SwitchedAt    *time.Time `json:"switched_at,omitempty"`
}
