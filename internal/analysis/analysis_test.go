package analysis

import (
	"testing"

	"convert-capacity/internal/model"
	"convert-capacity/internal/pipeline"
	"convert-capacity/internal/ramp"
	"convert-capacity/internal/synthetic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePriceStats(t *testing.T) {
	s := ComputePriceStats([]float64{1.0, 0.6, 0.8, 1.2, 0.9})
	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 0.6, s.Min)
	assert.Equal(t, 1.2, s.Max)
	assert.Equal(t, 0.9, s.Median)
	assert.InDelta(t, 0.8, s.P25, 1e-12)
	assert.InDelta(t, 1.0, s.P75, 1e-12)
	assert.InDelta(t, 0.9, s.Mean, 1e-12)
}

func TestComputePriceStatsInterpolates(t *testing.T) {
	s := ComputePriceStats([]float64{1, 2, 3, 4})
	assert.InDelta(t, 1.75, s.P25, 1e-12)
	assert.InDelta(t, 2.5, s.Median, 1e-12)
	assert.InDelta(t, 3.25, s.P75, 1e-12)
}

func TestComputePriceStatsEmpty(t *testing.T) {
	assert.Equal(t, PriceStats{}, ComputePriceStats(nil))
	levels, err := KeyLevelTable(PriceStats{}, ReportDeltas())
	require.NoError(t, err)
	assert.Empty(t, levels)
}

func TestKeyLevelTable(t *testing.T) {
	s := ComputePriceStats([]float64{0.8, 0.8, 0.8})
	levels, err := KeyLevelTable(s, []ramp.Delta{0.01})
	require.NoError(t, err)
	require.Len(t, levels, 5)
	assert.Equal(t, "Min", levels[0].Label)
	assert.Equal(t, "Max", levels[4].Label)
	for _, lvl := range levels {
		require.Len(t, lvl.Rates, 1)
		assert.Equal(t, 123.75, lvl.Rates[0].SeasonsToMax)
	}
}

func TestKeyLevelTableDomainError(t *testing.T) {
	s := ComputePriceStats([]float64{0, 1})
	_, err := KeyLevelTable(s, ReportDeltas())
	assert.ErrorIs(t, err, ramp.ErrDomain)
}

func TestRecommend(t *testing.T) {
	recs, err := Recommend(0.99, DefaultBands())
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "fast", recs[0].Band)
	require.Len(t, recs[0].Suggestions, 3)

	// 0.99 / (100 * 0.99) = 1%
	hundred := recs[0].Suggestions[2]
	assert.Equal(t, 100.0, hundred.TargetSeasons)
	assert.InDelta(t, 0.01, float64(hundred.Delta), 1e-12)
	assert.InDelta(t, 1.0, hundred.Percent, 1e-9)

	_, err = Recommend(0, DefaultBands())
	assert.ErrorIs(t, err, ramp.ErrDomain)
}

func TestRankDeltas(t *testing.T) {
	// At price 0.8: 1% -> 123.75 seasons, 2% -> 61.875, 0.5% -> 247.5
	ranked, err := RankDeltas(0.8, 60, []ramp.Delta{0.005, 0.01, 0.02})
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, ramp.Delta(0.02), ranked[0].Delta)
	assert.Equal(t, ramp.Delta(0.01), ranked[1].Delta)
	assert.Equal(t, ramp.Delta(0.005), ranked[2].Delta)
	assert.InDelta(t, 1.875, ranked[0].Distance, 1e-9)
}

func TestNewRecords(t *testing.T) {
	series := []model.SeasonRecord{
		{Season: 4, TwaDeltaB: -10, TwaPrice: 1},
		{Season: 5, TwaDeltaB: 5, TwaPrice: 1},
		{Season: 6, TwaDeltaB: -20, TwaPrice: 0.9},
		{Season: 7, TwaDeltaB: -15, TwaPrice: 0.9},
	}
	res, err := pipeline.New(nil).Run(series, pipeline.Params{})
	require.NoError(t, err)

	recs := NewRecords(res.Rows)
	require.Len(t, recs, 2)
	assert.Equal(t, 4, recs[0].Season)
	assert.Equal(t, 6, recs[1].Season)
	assert.Equal(t, -20.0, recs[1].NewExtreme)
}

func TestCoverage(t *testing.T) {
	series := []model.SeasonRecord{
		{Season: 4, TwaDeltaB: -10, TwaPrice: 0.5},
		{Season: 5, TwaDeltaB: 5, TwaPrice: 0.7},
	}
	p := pipeline.Params{Deltas: []ramp.Delta{0.01}}
	res, err := pipeline.New(nil).Run(series, p)
	require.NoError(t, err)
	ext, err := synthetic.Extend(res.Rows, p, synthetic.Options{MinPrice: 0.45, Step: 0.01})
	require.NoError(t, err)

	cov := Coverage(ext.Table)
	require.Len(t, cov, 2)

	assert.Equal(t, model.SourceHistorical, cov[0].Source)
	assert.Equal(t, 2, cov[0].Stats.Count)
	assert.InDelta(t, 0.2, cov[0].MeanStep, 1e-9)

	assert.Equal(t, model.SourceSynthetic, cov[1].Source)
	assert.Equal(t, 5, cov[1].Stats.Count)
	assert.Equal(t, 0.45, cov[1].Stats.Min)
	assert.Equal(t, 0.49, cov[1].Stats.Max)
	assert.InDelta(t, 0.01, cov[1].MeanStep, 1e-9)
}
