// Package domain models NASA Deep Space Network (DSN) antenna activity and
// turns the two public DSN Now feeds into a snapshot grouped by ground
// station and spacecraft.
//
// # Data Sources
//
// Both feeds are published by NASA's Eyes on the Solar System team and are
// fetched fresh on every run:
//
//	config.xml  https://eyes.nasa.gov/apps/dsn-now/config.xml
//	dsn.xml     https://eyes.nasa.gov/dsn/data/dsn.xml
//
// The configuration feed carries a spacecraft map:
//
//	<config>
//	  <spacecraftMap>
//	    <spacecraft name="vgr1" friendlyName="Voyager 1"/>
//	  </spacecraftMap>
//	</config>
//
// The status feed lists ground stations followed by their dishes. Dishes are
// siblings of the station they belong to, not children:
//
//	<dsn>
//	  <station name="gdscc" friendlyName="Goldstone"/>
//	  <dish name="DSS14">
//	    <upSignal active="true" power="18.3" band="X" spacecraft="VGR1"/>
//	    <downSignal active="true" power="-160" band="X" dataRate="160" spacecraft="VGR1"/>
//	  </dish>
//	  <station name="mdscc" .../>
//	  ...
//	</dsn>
//
// # Conventions
//
// Attribute values are always handled as strings. An absent attribute reads
// as the empty string and is never an error. Only the data rate is coerced to
// a number, and only inside [FormatDataRate].
//
// Spacecraft codes are case-insensitive. Both the directory keys and the
// lookup input are upper-cased by [NormalizeCode]; an unknown code displays
// as the raw attribute value.
//
// Power units are baked into the display string: kilowatts for uplinks
// ("18.3 kW"), dBm for downlinks ("-160 dBm").
//
// # Pipeline
//
// Data flows one way and every step is a pure function:
//
//	ConfigFeed -> SpacecraftDirectory ─┐
//	StatusFeed ────────────────────────┴> []Signal -> []Craft -> []Station -> Output
//
// Only [Compose] reads the clock, which tests can freeze via [SetClock].
package domain
