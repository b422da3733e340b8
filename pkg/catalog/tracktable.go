package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/racelytics/competitiveness-analyzer-go/pkg/model"
)

//go:embed data/nascar.yaml
var defaultTrackTable []byte

type (
	// TrackInfo is the curated name and type of a feed-series track.
	TrackInfo struct {
		Name string `yaml:"name"`
		Type string `yaml:"type"`
	}
	// TrackTable maps feed track keys to their curated info. A key combines
	// a restrictor plate marker with the numeric track id of the feed:
	// "r105" is the plate configuration of track 105, "u111" the
	// unrestricted one.
	TrackTable map[string]TrackInfo
)

// UnknownTrack is resolved for track ids missing from the table.
var UnknownTrack = TrackInfo{Name: "Unknown", Type: "unknown"} //nolint:gochecknoglobals // by design

// DefaultTrackTable returns the embedded track table.
func DefaultTrackTable() TrackTable {
	var t TrackTable
	if err := yaml.Unmarshal(defaultTrackTable, &t); err != nil {
		panic(fmt.Sprintf("embedded track table invalid: %v", err))
	}
	return t
}

// LoadTrackTable reads a track table from a YAML file.
func LoadTrackTable(fileName string) (TrackTable, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("%w: reading track table: %v", model.ErrConfiguration, err)
	}
	var t TrackTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: parsing track table %s: %v", model.ErrConfiguration, fileName, err)
	}
	if len(t) == 0 {
		return nil, fmt.Errorf("%w: track table %s is empty", model.ErrConfiguration, fileName)
	}
	return t, nil
}

// Lookup resolves a track id and plate marker to the curated track info,
// falling back to UnknownTrack.
func (t TrackTable) Lookup(trackID int, restrictorPlate bool) TrackInfo {
	if info, ok := t[Key(trackID, restrictorPlate)]; ok {
		return info
	}
	return UnknownTrack
}

// Key returns the table key of a track id and plate marker.
func Key(trackID int, restrictorPlate bool) string {
	if restrictorPlate {
		return fmt.Sprintf("r%d", trackID)
	}
	return fmt.Sprintf("u%d", trackID)
}
