package domain

import "time"

// Output is the published snapshot.
type Output struct {
	BaseURL   string    `json:"base_url"`
	Stations  []Station `json:"stations"`
	UpdatedAt string    `json:"updated_at"`
}

// Compose stamps the assembled stations with the base URL and the current
// UTC time in RFC 3339 form, e.g. 2024-01-15T08:30:00Z.
func Compose(baseURL string, stations []Station) Output {
	return Output{
		BaseURL:   baseURL,
		Stations:  stations,
		UpdatedAt: clock.Now().UTC().Format(time.RFC3339),
	}
}

// Snapshot is a completed run ready for delivery.
type Snapshot struct {
	RunID  string
	Output Output
	Stats  Stats
}
