// Package export writes and reads result bundles. Bundles are JSON files
// carrying a format version; readers accept any bundle of the same major
// version.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/mod/semver"

	"github.com/racelytics/competitiveness-analyzer-go/pkg/model"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/processing/stats"
)

// FormatVersion is written into every bundle.
const FormatVersion string = "v1.0.0"

// NewBundle assembles a result bundle around the evaluated track statistics,
// stamping it with a fresh run id and the shared time grid.
func NewBundle(
	series string,
	grid *stats.TimeGrid,
	interval float64,
	trackStats map[string]*model.TrackStats,
) *model.Bundle {
	return &model.Bundle{
		FormatVersion: FormatVersion,
		RunID:         uuid.New().String(),
		Series:        series,
		CreatedAt:     time.Now().UTC(),
		CalcFrequency: grid.Frequency,
		CalcInterval:  interval,
		RaceTimes:     grid.Times,
		RaceTimesPct:  grid.Percent(),
		TrackStats:    trackStats,
	}
}

// Write stores the bundle as JSON.
func Write(fileName string, bundle *model.Bundle) error {
	f, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("creating bundle file: %w", err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	if err := enc.Encode(bundle); err != nil {
		return fmt.Errorf("encoding bundle: %w", err)
	}
	return nil
}

// Read loads a bundle and verifies its format version.
func Read(fileName string) (*model.Bundle, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("reading bundle file: %w", err)
	}
	var bundle model.Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("decoding bundle: %w", err)
	}
	if !CheckFormatVersion(bundle.FormatVersion) {
		return nil, fmt.Errorf("%w: bundle format %s not compatible with %s",
			model.ErrConfiguration, bundle.FormatVersion, FormatVersion)
	}
	return &bundle, nil
}

// CheckFormatVersion reports whether a bundle of the given version can be
// read by this build.
func CheckFormatVersion(toCheck string) bool {
	if !strings.HasPrefix(toCheck, "v") {
		toCheck = "v" + toCheck
	}
	if !semver.IsValid(toCheck) {
		return false
	}
	return semver.Major(toCheck) == semver.Major(FormatVersion)
}
