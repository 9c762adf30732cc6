package domain

// Stats summarizes a transformation for logging and metrics.
type Stats struct {
	Spacecraft int
	Signals    int
	Crafts     int
}

// Transform correlates the two parsed feeds into a snapshot. It is the whole
// core pipeline: directory, extraction, aggregation, station assembly and
// composition.
func Transform(baseURL string, config ConfigFeed, status StatusFeed, policy Policy) (Output, Stats) {
	directory := NewSpacecraftDirectory(config)
	signals := ExtractSignals(status, directory, policy)
	crafts := AggregateCrafts(signals, policy)
	out := Compose(baseURL, AssembleStations(crafts))

	return out, Stats{
		Spacecraft: directory.Len(),
		Signals:    len(signals),
		Crafts:     len(crafts),
	}
}
