package domain

type HealthStatus string

const (
	HealthChecking HealthStatus = "checking"
	HealthOnline   HealthStatus = "online"
	HealthOffline  HealthStatus = "offline"
	HealthError    HealthStatus = "error"
)

type AdminStats struct {
	TotalUsers              int  `json:"totalUsers"`
	TotalBookings           int   `json:"totalBookings"`
	TotalRevenue            int64 `json:"totalRevenue"`
	ActiveAlerts            int   `json:"activeAlerts"`
	SMSConfigured           bool  `json:"smsConfigured"`
	AviationStackConfigured bool  `json:"aviationStackConfigured"`
}
