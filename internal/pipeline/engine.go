package pipeline

import (
	"fmt"

	"convert-capacity/internal/capacity"
	"convert-capacity/internal/logger"
	"convert-capacity/internal/model"
	"convert-capacity/internal/ramp"
)

type Engine struct {
	log *logger.Logger
}

// New returns an Engine. A nil logger discards output.
func New(log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{log: log.Component("pipeline")}
}

// Run executes one ordered pass over a season-ascending series.
//
// The running extreme is threaded through the loop as a value; visiting
// seasons out of order yields a wrong extreme rather than an error, so
// callers must sort first. An empty series yields an empty result.
func (e *Engine) Run(series []model.SeasonRecord, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(series))
	var (
		extreme capacity.Extreme
		records int
	)

	for idx, rec := range series {
		var isNew bool
		extreme, isNew = extreme.Observe(rec.TwaDeltaB)
		if isNew {
			records++
			e.log.WithFields(map[string]interface{}{
				"season":  rec.Season,
				"extreme": extreme.Value,
			}).Debug("new running extreme")
		}

		rates, err := ramp.Sweep(rec.TwaPrice, p.Deltas)
		if err != nil {
			return nil, fmt.Errorf("row %d season %d: %w", idx, rec.Season, err)
		}

		rows = append(rows, Row{
			SeasonRecord: rec,
			Source:       model.SourceHistorical,

			MaxNegativeTwaDeltaB: extreme.Value,
			IsNewMax:             isNew,

			Capacity: capacity.Derive(extreme.Value, p.Divisors),
			Ramp:     rates,
		})
	}

	e.log.Infof("processed %d seasons, %d new extremes, final extreme %.3f",
		len(rows), records, extreme.Value)

	return &Result{
		Rows:         rows,
		FinalExtreme: extreme.Value,
		NewRecords:   records,
	}, nil
}
