// Package catalog holds the configured race plans of session-based series
// and the curated track table of feed-based series.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/racelytics/competitiveness-analyzer-go/pkg/adapter"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/model"
)

//go:embed data/formula1.yaml
var defaultCatalog []byte

// AllTracksName keys the synthetic plan pooling every race of the covered
// seasons.
const AllTracksName = "All"

type (
	// RaceKey addresses one race weekend of a season.
	RaceKey struct {
		Season int `yaml:"season"`
		Round  int `yaml:"round"`
	}
	// TrackEntry lists the races run on one track.
	TrackEntry struct {
		Type  string    `yaml:"type"`
		Races []RaceKey `yaml:"races"`
	}
	// AllTracks configures the synthetic all-tracks pool: how many race
	// weekends each season has and which of them to leave out.
	AllTracks struct {
		SeasonRaceCounts map[int]int `yaml:"seasonRaceCounts"`
		Exclusions       []RaceKey   `yaml:"exclusions"`
	}
	// Catalog maps track names to their race plans.
	Catalog struct {
		Tracks map[string]TrackEntry `yaml:"tracks"`
		All    *AllTracks            `yaml:"allTracks"`
	}
)

// Default returns the embedded catalog. The embedded data is validated by
// tests, so a parse failure here is a build defect and panics.
func Default() *Catalog {
	var c Catalog
	if err := yaml.Unmarshal(defaultCatalog, &c); err != nil {
		panic(fmt.Sprintf("embedded catalog invalid: %v", err))
	}
	return &c
}

// Load reads a catalog from a YAML file.
func Load(fileName string) (*Catalog, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("%w: reading catalog: %v", model.ErrConfiguration, err)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: parsing catalog %s: %v", model.ErrConfiguration, fileName, err)
	}
	if len(c.Tracks) == 0 {
		return nil, fmt.Errorf("%w: catalog %s lists no tracks", model.ErrConfiguration, fileName)
	}
	return &c, nil
}

// Plans expands the catalog into track plans ordered by track name. With
// includeAll set and an allTracks section present, a synthetic plan covering
// every non-excluded race of the listed seasons is appended.
func (c *Catalog) Plans(includeAll bool) []adapter.TrackPlan {
	names := lo.Keys(c.Tracks)
	sort.Strings(names)

	plans := make([]adapter.TrackPlan, 0, len(names)+1)
	for _, name := range names {
		entry := c.Tracks[name]
		plans = append(plans, adapter.TrackPlan{
			Name:      name,
			TrackType: entry.Type,
			Races: lo.Map(entry.Races, func(k RaceKey, _ int) adapter.RaceRef {
				return adapter.RaceRef{Season: k.Season, Round: k.Round}
			}),
		})
	}
	if includeAll && c.All != nil {
		plans = append(plans, c.allPlan())
	}
	return plans
}

func (c *Catalog) allPlan() adapter.TrackPlan {
	excluded := make(map[RaceKey]struct{}, len(c.All.Exclusions))
	for _, k := range c.All.Exclusions {
		excluded[k] = struct{}{}
	}
	seasons := lo.Keys(c.All.SeasonRaceCounts)
	sort.Ints(seasons)

	var races []adapter.RaceRef
	for _, season := range seasons {
		for round := 1; round <= c.All.SeasonRaceCounts[season]; round++ {
			if _, skip := excluded[RaceKey{Season: season, Round: round}]; skip {
				continue
			}
			races = append(races, adapter.RaceRef{Season: season, Round: round})
		}
	}
	return adapter.TrackPlan{Name: AllTracksName, TrackType: "multiple tracks", Races: races}
}
