package domain

// Policy holds the filter and cleanup rules that differ between deployments
// of the pipeline.
type Policy struct {
	// ExcludeZeroPowerUplinks drops active uplinks whose power attribute is "0".
	ExcludeZeroPowerUplinks bool
	// DedupeSignals collapses identical signals within a craft.
	DedupeSignals bool
}

// DefaultPolicy returns the rules used by the published snapshot.
func DefaultPolicy() Policy {
	return Policy{
		ExcludeZeroPowerUplinks: true,
		DedupeSignals:           true,
	}
}
