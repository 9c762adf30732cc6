package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSpacecraftDirectory(t *testing.T) {
	feed := ConfigFeed{Spacecraft: []SpacecraftElement{
		{Name: "vgr1", FriendlyName: "Voyager 1"},
		{Name: "", FriendlyName: "Nameless"},
		{Name: "ghost", FriendlyName: ""},
		{Name: "jwst", FriendlyName: "JWST"},
		{Name: "JWST", FriendlyName: "James Webb Space Telescope"},
	}}

	dir := NewSpacecraftDirectory(feed)

	assert.Equal(t, 2, dir.Len())

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		for _, code := range []string{"vgr1", "VGR1", "Vgr1"} {
			name, ok := dir.Lookup(code)
			assert.True(t, ok, code)
			assert.Equal(t, "Voyager 1", name, code)
		}
	})

	t.Run("last duplicate wins", func(t *testing.T) {
		assert.Equal(t, "James Webb Space Telescope", dir.Resolve("jwst"))
	})

	t.Run("incomplete entries are dropped", func(t *testing.T) {
		_, ok := dir.Lookup("ghost")
		assert.False(t, ok)
		_, ok = dir.Lookup("")
		assert.False(t, ok)
	})

	t.Run("unknown code falls back to raw value", func(t *testing.T) {
		assert.Equal(t, "TEST", dir.Resolve("TEST"))
		assert.Equal(t, "dsn", dir.Resolve("dsn"))
	})
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, SpacecraftCode("MRO"), NormalizeCode("mro"))
	assert.Equal(t, SpacecraftCode(""), NormalizeCode(""))
}
