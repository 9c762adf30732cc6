package domain

import "strings"

// SpacecraftCode is a spacecraft identifier in its normalized, upper-case form.
// Directory keys and lookups both go through NormalizeCode, so "vgr1" and
// "VGR1" name the same spacecraft.
type SpacecraftCode string

// NormalizeCode upper-cases a raw spacecraft attribute into a directory key.
func NormalizeCode(raw string) SpacecraftCode {
	return SpacecraftCode(strings.ToUpper(raw))
}

// SpacecraftDirectory maps spacecraft codes to display names. It is built
// once per run and never modified afterwards.
type SpacecraftDirectory struct {
	names map[SpacecraftCode]string
}

// NewSpacecraftDirectory indexes the configuration feed's spacecraft map.
// Entries missing a name or friendly name are dropped. When a code repeats,
// the last entry wins.
func NewSpacecraftDirectory(feed ConfigFeed) SpacecraftDirectory {
	names := make(map[SpacecraftCode]string, len(feed.Spacecraft))
	for _, sc := range feed.Spacecraft {
		if sc.Name == "" || sc.FriendlyName == "" {
			continue
		}
		names[NormalizeCode(sc.Name)] = sc.FriendlyName
	}
	return SpacecraftDirectory{names: names}
}

// Lookup returns the friendly name for a raw spacecraft code.
func (d SpacecraftDirectory) Lookup(raw string) (string, bool) {
	name, ok := d.names[NormalizeCode(raw)]
	return name, ok
}

// Resolve returns the friendly name for a raw spacecraft code, or the raw
// value unchanged when the directory has no entry for it.
func (d SpacecraftDirectory) Resolve(raw string) string {
	if name, ok := d.Lookup(raw); ok {
		return name
	}
	return raw
}

// Len reports the number of known spacecraft.
func (d SpacecraftDirectory) Len() int {
	return len(d.names)
}
