package fastf1

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/racelytics/competitiveness-analyzer-go/pkg/model"
)

// ArchiveLoader reads session documents from a directory of JSON files
// named <season>_<round>.json, for example 2023_06.json.
type ArchiveLoader struct {
	dir string
}

func NewArchiveLoader(dir string) *ArchiveLoader {
	return &ArchiveLoader{dir: dir}
}

func (l *ArchiveLoader) LoadRace(ctx context.Context, season, round int) (*SessionDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fileName := filepath.Join(l.dir, fmt.Sprintf("%d_%02d.json", season, round))
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no archived session %d_%02d", model.ErrUnavailable, season, round)
		}
		return nil, fmt.Errorf("%w: reading session archive: %v", model.ErrUnavailable, err)
	}
	var doc SessionDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decoding session %s: %v", model.ErrDataConsistency, fileName, err)
	}
	return &doc, nil
}

// ListRounds scans the archive directory for the sessions of a season.
func (l *ArchiveLoader) ListRounds(ctx context.Context, season int) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: reading session archive dir: %v", model.ErrUnavailable, err)
	}
	prefix := fmt.Sprintf("%d_", season)
	var rounds []int
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		round, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".json"))
		if err != nil {
			continue
		}
		rounds = append(rounds, round)
	}
	sort.Ints(rounds)
	return rounds, nil
}
