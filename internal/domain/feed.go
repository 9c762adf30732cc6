package domain

import (
	"encoding/xml"
	"errors"
	"fmt"
)

var (
	// ErrParseConfigFeed is returned when the configuration feed is not valid XML.
	ErrParseConfigFeed = errors.New("parse config feed")
	// ErrParseStatusFeed is returned when the status feed is not valid XML.
	ErrParseStatusFeed = errors.New("parse status feed")
)

// ConfigFeed is the typed form of config.xml.
type ConfigFeed struct {
	Spacecraft []SpacecraftElement `xml:"spacecraftMap>spacecraft"`
}

// SpacecraftElement is one <spacecraft> entry of the spacecraft map.
type SpacecraftElement struct {
	Name         string `xml:"name,attr"`
	FriendlyName string `xml:"friendlyName,attr"`
}

// StatusFeed is the typed form of dsn.xml: stations owning their dishes.
type StatusFeed struct {
	Stations []StationElement
}

// StationElement is a ground station together with the dishes listed after it.
type StationElement struct {
	Name         string        `xml:"name,attr"`
	FriendlyName string        `xml:"friendlyName,attr"`
	Dishes       []DishElement `xml:"dish"`
}

// DishElement is a single antenna and the signals it currently carries.
type DishElement struct {
	Name        string              `xml:"name,attr"`
	UpSignals   []UpSignalElement   `xml:"upSignal"`
	DownSignals []DownSignalElement `xml:"downSignal"`
}

// UpSignalElement is an <upSignal> (Earth to spacecraft).
type UpSignalElement struct {
	Active     string `xml:"active,attr"`
	Power      string `xml:"power,attr"`
	Band       string `xml:"band,attr"`
	Spacecraft string `xml:"spacecraft,attr"`
}

// DownSignalElement is a <downSignal> (spacecraft to Earth).
type DownSignalElement struct {
	Active     string `xml:"active,attr"`
	Power      string `xml:"power,attr"`
	Band       string `xml:"band,attr"`
	DataRate   string `xml:"dataRate,attr"`
	Spacecraft string `xml:"spacecraft,attr"`
}

// UnmarshalXML builds the station tree from the root element's children.
// A <dish> is attached to the closest preceding <station>; dishes nested
// inside a <station> are kept as well. Dishes that appear before any station
// are grouped under a station with an empty name.
func (f *StatusFeed) UnmarshalXML(d *xml.Decoder, _ xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "station":
				var station StationElement
				if err := d.DecodeElement(&station, &el); err != nil {
					return err
				}
				f.Stations = append(f.Stations, station)
			case "dish":
				var dish DishElement
				if err := d.DecodeElement(&dish, &el); err != nil {
					return err
				}
				if len(f.Stations) == 0 {
					f.Stations = append(f.Stations, StationElement{})
				}
				last := &f.Stations[len(f.Stations)-1]
				last.Dishes = append(last.Dishes, dish)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// ParseConfigFeed decodes config.xml.
func ParseConfigFeed(data []byte) (ConfigFeed, error) {
	var feed ConfigFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return ConfigFeed{}, fmt.Errorf("%w: %w", ErrParseConfigFeed, err)
	}
	return feed, nil
}

// ParseStatusFeed decodes dsn.xml.
func ParseStatusFeed(data []byte) (StatusFeed, error) {
	var feed StatusFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return StatusFeed{}, fmt.Errorf("%w: %w", ErrParseStatusFeed, err)
	}
	return feed, nil
}
