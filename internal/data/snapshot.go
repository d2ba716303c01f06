package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Snapshot is a fetched series plus where and when it came from.
type Snapshot struct {
	FetchedAt string      `json:"fetched_at"` // RFC 3339
	BeanURL   string      `json:"bean_url"`
	FieldURL  string      `json:"field_url"`
	MinSeason int         `json:"min_season"`
	Seasons   []RawSeason `json:"seasons"`
}

// NewSnapshot stamps a series with the current time.
func NewSnapshot(c *SubgraphClient, minSeason int, seasons []RawSeason) *Snapshot {
	return &Snapshot{
		FetchedAt: time.Now().UTC().Format(time.RFC3339),
		BeanURL:   c.BeanURL,
		FieldURL:  c.FieldURL,
		MinSeason: minSeason,
		Seasons:   seasons,
	}
}

// SaveSnapshot writes s as indented JSON.
func SaveSnapshot(path string, s *Snapshot) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// LoadSnapshot reads a snapshot written by SaveSnapshot.
func LoadSnapshot(path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return &s, nil
}

// RefreshSeasons overlays fresh onto seed by season. Fresh rows win; seed
// seasons the fresh fetch no longer reports are kept. The result is
// season-ascending.
func RefreshSeasons(seed, fresh []RawSeason) (merged []RawSeason, added, updated int) {
	bySeason := make(map[int]RawSeason, len(seed)+len(fresh))
	for _, r := range seed {
		bySeason[r.Season] = r
	}
	for _, r := range fresh {
		old, ok := bySeason[r.Season]
		switch {
		case !ok:
			added++
		case !sameSeason(old, r):
			updated++
		}
		bySeason[r.Season] = r
	}

	merged = make([]RawSeason, 0, len(bySeason))
	for _, r := range bySeason {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Season < merged[j].Season })
	return merged, added, updated
}

func sameSeason(a, b RawSeason) bool {
	eq := func(x, y *float64) bool {
		if x == nil || y == nil {
			return x == nil && y == nil
		}
		return *x == *y
	}
	return a.Season == b.Season && eq(a.TwaDeltaB, b.TwaDeltaB) && eq(a.TwaPrice, b.TwaPrice) &&
		eq(a.L2SR, b.L2SR) && eq(a.PodRate, b.PodRate)
}
