package model

// UpkeepReport is the outcome of idle upkeep settlement
type UpkeepReport struct {
	Success        bool    `json:"success"`
	Message        string  `json:"message"`
	HoursProcessed int     `json:"hours_processed"`
	TotalDeducted  float64 `json:"total_deducted"`
	CrewLost       int     `json:"crew_lost"`
}

// Eventful reports whether the report carries anything worth telling the player
func (r UpkeepReport) Eventful() bool {
	return r.TotalDeducted > 0 || r.CrewLost > 0
}
