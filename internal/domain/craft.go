package domain

import (
	"fmt"
	"slices"
)

// Craft collects every signal that resolves to the same spacecraft name.
type Craft struct {
	Name    string   `json:"name"`
	Icon    string   `json:"icon"`
	Signals []Signal `json:"signals"`
}

// craftIcon selects the icon variant from the number of distinct directions
// a craft is using: dsn-1.png for one-way contact, dsn-2.png for both.
func craftIcon(directions int) string {
	return fmt.Sprintf("dsn-%d.png", directions)
}

// AggregateCrafts groups signals by craft name. Crafts come back in the
// order their first signal appears. Each craft lists its uplinks before its
// downlinks, keeping extraction order within a direction, and with
// policy.DedupeSignals identical signals are collapsed to the first one.
func AggregateCrafts(signals []Signal, policy Policy) []Craft {
	groups := make(map[string][]Signal)
	var order []string
	for _, sig := range signals {
		if _, ok := groups[sig.Craft]; !ok {
			order = append(order, sig.Craft)
		}
		groups[sig.Craft] = append(groups[sig.Craft], sig)
	}

	crafts := make([]Craft, 0, len(order))
	for _, name := range order {
		group := groups[name]
		slices.SortStableFunc(group, compareDirection)
		if policy.DedupeSignals {
			group = dedupeSignals(group)
		}
		crafts = append(crafts, Craft{
			Name:    name,
			Icon:    craftIcon(countDirections(group)),
			Signals: group,
		})
	}
	return crafts
}

// HasStation reports whether any of the craft's signals was seen at station.
func (c Craft) HasStation(station string) bool {
	return slices.ContainsFunc(c.Signals, func(s Signal) bool {
		return s.Station == station
	})
}

func compareDirection(a, b Signal) int {
	return directionRank(a.Dir) - directionRank(b.Dir)
}

func directionRank(d Direction) int {
	if d == DirectionUp {
		return 0
	}
	return 1
}

func countDirections(signals []Signal) int {
	var up, down bool
	for _, s := range signals {
		if s.Dir == DirectionUp {
			up = true
		} else {
			down = true
		}
	}
	n := 0
	if up {
		n++
	}
	if down {
		n++
	}
	return n
}

// dedupeSignals keeps the first occurrence of each distinct signal.
func dedupeSignals(signals []Signal) []Signal {
	seen := make(map[Signal]struct{}, len(signals))
	out := signals[:0]
	for _, s := range signals {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
