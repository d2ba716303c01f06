package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"convert-capacity/internal/model"
)

// RawSeason is one fetched season before blank substitution.
// Nil fields were not reported by the subgraph.
type RawSeason struct {
	Season    int      `json:"season"`
	TwaDeltaB *float64 `json:"twaDeltaB,omitempty"`
	TwaPrice  *float64 `json:"twaPrice,omitempty"`
	L2SR      *float64 `json:"l2sr,omitempty"`
	PodRate   *float64 `json:"podRate,omitempty"`
}

// Record substitutes 0.0 for every missing value.
func (r RawSeason) Record() model.SeasonRecord {
	return model.SeasonRecord{
		Season:    r.Season,
		TwaDeltaB: orZero(r.TwaDeltaB),
		TwaPrice:  orZero(r.TwaPrice),
		L2SR:      orZero(r.L2SR),
		PodRate:   orZero(r.PodRate),
	}
}

// Records converts a fetched series.
func Records(raw []RawSeason) []model.SeasonRecord {
	out := make([]model.SeasonRecord, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.Record())
	}
	return out
}

func orZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

var seasonHeader = []string{model.ColSeason, model.ColTwaDeltaB, model.ColTwaPrice, model.ColL2SR, model.ColPodRate}

// WriteSeasonCSV writes the raw export. Missing values stay blank.
func WriteSeasonCSV(w io.Writer, rows []RawSeason) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(seasonHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Season),
			fmtOptional(r.TwaDeltaB),
			fmtOptional(r.TwaPrice),
			fmtOptional(r.L2SR),
			fmtOptional(r.PodRate),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSeasonCSVFile writes the raw export to path, creating its directory.
func WriteSeasonCSVFile(path string, rows []RawSeason) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := WriteSeasonCSV(f, rows); err != nil {
		return err
	}
	return f.Close()
}

func fmtOptional(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

// ReadSeasonCSV loads a season series from path.
func ReadSeasonCSV(path string) ([]model.SeasonRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseSeasonCSV(f)
}

// ParseSeasonCSV reads a header-led season table. Season and twaPrice are
// required columns; twaDeltaB, l2sr and podRate are optional; extra
// columns are ignored. Blank numeric cells become 0.0. Seasons must not
// decrease.
func ParseSeasonCSV(r io.Reader) ([]model.SeasonRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("season csv: missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("season csv: %w", err)
	}
	cols := map[string]int{}
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	for _, req := range []string{model.ColSeason, model.ColTwaPrice} {
		if _, ok := cols[req]; !ok {
			return nil, fmt.Errorf("season csv: missing required column %q", req)
		}
	}

	var out []model.SeasonRecord
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("season csv line %d: %w", line, err)
		}

		season, err := strconv.Atoi(strings.TrimSpace(rec[cols[model.ColSeason]]))
		if err != nil {
			return nil, fmt.Errorf("season csv line %d: bad Season: %w", line, err)
		}
		row := model.SeasonRecord{Season: season}
		fields := []struct {
			name string
			dst  *float64
		}{
			{model.ColTwaDeltaB, &row.TwaDeltaB},
			{model.ColTwaPrice, &row.TwaPrice},
			{model.ColL2SR, &row.L2SR},
			{model.ColPodRate, &row.PodRate},
		}
		for _, f := range fields {
			idx, ok := cols[f.name]
			if !ok {
				continue
			}
			v, err := parseBlankAsZero(rec[idx])
			if err != nil {
				return nil, fmt.Errorf("season csv line %d: bad %s: %w", line, f.name, err)
			}
			*f.dst = v
		}

		if n := len(out); n > 0 && season < out[n-1].Season {
			return nil, fmt.Errorf("season csv line %d: season %d after %d; rows must be season-ascending",
				line, season, out[n-1].Season)
		}
		out = append(out, row)
	}
	return out, nil
}

func parseBlankAsZero(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// DropUnpriced splits off rows whose price is not positive. The ramp model
// rejects them, so callers that prefer skipping to failing filter first.
func DropUnpriced(series []model.SeasonRecord) (kept []model.SeasonRecord, dropped []int) {
	kept = make([]model.SeasonRecord, 0, len(series))
	for _, r := range series {
		if r.TwaPrice > 0 {
			kept = append(kept, r)
			continue
		}
		dropped = append(dropped, r.Season)
	}
	return kept, dropped
}
