package domain

import (
	"slices"
	"strings"
)

// Ground station codes as they appear in the status feed.
const (
	StationMadrid    = "mdscc"
	StationGoldstone = "gdscc"
	StationCanberra  = "cdscc"
)

// StationInfo is the fixed presentation data for a ground station.
type StationInfo struct {
	Code string
	Name string
	Icon string
}

// knownStations lists the three DSN complexes in display order.
var knownStations = [...]StationInfo{
	{Code: StationMadrid, Name: "Madrid", Icon: "flag-mdscc-bw.png"},
	{Code: StationGoldstone, Name: "Goldstone", Icon: "flag-gdscc-bw.png"},
	{Code: StationCanberra, Name: "Canberra", Icon: "flag-cdscc-bw.png"},
}

// KnownStations returns the three DSN complexes in display order. The result
// is a copy.
func KnownStations() []StationInfo {
	return slices.Clone(knownStations[:])
}

// Station is a ground station with the crafts it is talking to.
type Station struct {
	Name   string  `json:"name"`
	Icon   string  `json:"icon"`
	Crafts []Craft `json:"crafts"`
}

// AssembleStations buckets crafts under each known station, in display order.
// A craft is listed under every station that carries at least one of its
// signals; each bucket is sorted by craft name. Stations without traffic
// get an empty, non-nil craft list.
func AssembleStations(crafts []Craft) []Station {
	stations := make([]Station, 0, len(knownStations))
	for _, info := range knownStations {
		selected := make([]Craft, 0)
		for _, c := range crafts {
			if c.HasStation(info.Code) {
				selected = append(selected, c)
			}
		}
		slices.SortStableFunc(selected, func(a, b Craft) int {
			return strings.Compare(a.Name, b.Name)
		})
		stations = append(stations, Station{
			Name:   info.Name,
			Icon:   info.Icon,
			Crafts: selected,
		})
	}
	return stations
}
