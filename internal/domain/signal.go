package domain

// Direction is the link direction relative to Earth.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Signal is one active up- or downlink observed at a station.
type Signal struct {
	Dir      Direction `json:"dir"`
	Station  string    `json:"station"`
	Band     string    `json:"band"`
	Power    string    `json:"power"`
	DataRate string    `json:"data_rate,omitempty"` // downlinks only
	Craft    string    `json:"craft"`
}

// ExtractSignals flattens the station tree into signals, in document order:
// stations, then dishes, then each dish's uplinks before its downlinks.
// Only signals whose active attribute is exactly "true" are kept; with
// policy.ExcludeZeroPowerUplinks an uplink whose power is exactly "0" is
// dropped as well.
func ExtractSignals(feed StatusFeed, directory SpacecraftDirectory, policy Policy) []Signal {
	var signals []Signal
	for _, station := range feed.Stations {
		for _, dish := range station.Dishes {
			for _, up := range dish.UpSignals {
				if up.Active != "true" {
					continue
				}
				if policy.ExcludeZeroPowerUplinks && up.Power == "0" {
					continue
				}
				signals = append(signals, Signal{
					Dir:     DirectionUp,
					Station: station.Name,
					Band:    up.Band,
					Power:   up.Power + " kW",
					Craft:   directory.Resolve(up.Spacecraft),
				})
			}
			for _, down := range dish.DownSignals {
				if down.Active != "true" {
					continue
				}
				signals = append(signals, Signal{
					Dir:      DirectionDown,
					Station:  station.Name,
					Band:     down.Band,
					Power:    down.Power + " dBm",
					DataRate: FormatDataRate(down.DataRate),
					Craft:    directory.Resolve(down.Spacecraft),
				})
			}
		}
	}
	return signals
}
