package ramp

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeExample(t *testing.T) {
	r, err := Compute(0.8, 0.01)
	require.NoError(t, err)

	rounded := r.Rounded()
	assert.Equal(t, 0.008, rounded.IncreaseRate)
	assert.Equal(t, 1.25, rounded.DecreaseRate)
	assert.Equal(t, 123.75, rounded.SeasonsToMax)
	assert.Equal(t, 0.792, rounded.SeasonsToMin)
}

func TestComputeChainsUnroundedValues(t *testing.T) {
	// increase = 0.0012345 rounds to 0.001; deriving from the rounded value
	// would give 990 seasons instead of ~801.94.
	r, err := Compute(1.2345, 0.001)
	require.NoError(t, err)
	assert.InDelta(t, 0.99/0.0012345, r.SeasonsToMax, 1e-9)
	assert.Equal(t, 801.944, r.Rounded().SeasonsToMax)
}

func TestComputeRoundTrip(t *testing.T) {
	prices := []float64{0.25, 0.51, 0.8, 0.9999, 1.0, 1.37, 4.2}
	for _, p := range prices {
		for _, d := range DefaultLadder() {
			r, err := Compute(p, d)
			require.NoError(t, err)
			assert.InDelta(t, 0.99, r.SeasonsToMax*r.IncreaseRate, 1e-12)
			assert.InDelta(t, 0.99, r.SeasonsToMin*r.DecreaseRate, 1e-12)
		}
	}
}

func TestComputeDomainViolations(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		delta Delta
	}{
		{name: "zero price", price: 0, delta: 0.01},
		{name: "zero delta", price: 1, delta: 0},
		{name: "negative price", price: -0.5, delta: 0.01},
		{name: "negative delta", price: 1, delta: -0.01},
		{name: "nan price", price: math.NaN(), delta: 0.01},
		{name: "inf price", price: math.Inf(1), delta: 0.01},
		{name: "underflow", price: 1e-200, delta: 1e-200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.price, tt.delta)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDomain))
		})
	}
}

func TestSweep(t *testing.T) {
	ladder := []Delta{0.005, 0.01, 0.02}
	got, err := Sweep(0.8, ladder)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 0.008, got[0.01].IncreaseRate)
	assert.Equal(t, 0.016, got[0.02].IncreaseRate)
	assert.Equal(t, 61.875, got[0.02].SeasonsToMax)

	_, err = Sweep(0, ladder)
	assert.ErrorIs(t, err, ErrDomain)

	empty, err := Sweep(0.8, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRequiredDelta(t *testing.T) {
	d, err := RequiredDelta(100, 0.99)
	require.NoError(t, err)
	assert.InDelta(t, 0.01, float64(d), 1e-15)

	_, err = RequiredDelta(0, 1)
	assert.ErrorIs(t, err, ErrDomain)
}

func TestDeltaLabelAndColumns(t *testing.T) {
	tests := []struct {
		d    Delta
		want string
	}{
		{d: 0.001, want: "0_10"},
		{d: 0.0025, want: "0_25"},
		{d: 0.015, want: "1_50"},
		{d: 0.01, want: "1_00"},
		{d: 0.05, want: "5_00"},
		{d: 0.03, want: "3_00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.d.Label())
	}

	c := Delta(0.015).Columns()
	assert.Equal(t, "effective_increase_rate_dd_1_50pct", c.IncreaseRate)
	assert.Equal(t, "effective_decrease_rate_dd_1_50pct", c.DecreaseRate)
	assert.Equal(t, "seasons_to_max_capacity_dd_1_50pct", c.SeasonsToMax)
	assert.Equal(t, "seasons_to_min_capacity_dd_1_50pct", c.SeasonsToMin)
}

func TestLadders(t *testing.T) {
	def := DefaultLadder()
	require.Len(t, def, 21)
	assert.Equal(t, "0_10", def[0].Label())
	assert.Equal(t, "0_25", def[1].Label())
	assert.Equal(t, "5_00", def[20].Label())

	fine := FineLadder()
	require.Len(t, fine, 30)
	assert.Equal(t, "0_10", fine[0].Label())
	assert.Equal(t, "3_00", fine[29].Label())

	r, err := RangeLadder(0.5, 2.0, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []Delta{0.005, 0.01, 0.015, 0.02}, r)

	_, err = RangeLadder(1, 2, 0)
	assert.Error(t, err)
}

func TestSortLadderDropsDuplicates(t *testing.T) {
	got := SortLadder([]Delta{0.02, 0.01, 0.02, 0.005})
	assert.Equal(t, []Delta{0.005, 0.01, 0.02}, got)
}

func TestStep(t *testing.T) {
	d, err := Step(0.5, 1.0, 0.01, Reached)
	require.NoError(t, err)
	assert.InDelta(t, 0.51, d, 1e-12)

	d, err = Step(0.995, 1.0, 0.01, Reached)
	require.NoError(t, err)
	assert.Equal(t, Ceiling, d)

	d, err = Step(0.5, 1.0, 0.01, Holding)
	require.NoError(t, err)
	assert.Equal(t, 0.5, d)

	d, err = Step(0.5, 1.0, 0.05, Depleting)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, d, 1e-12)

	d, err = Step(0.1, 1.0, 0.05, Depleting)
	require.NoError(t, err)
	assert.Equal(t, Floor, d)

	_, err = Step(0.5, 0, 0.01, Reached)
	assert.ErrorIs(t, err, ErrDomain)

	_, err = Step(0.5, 1, 0.01, Regime("sideways"))
	assert.Error(t, err)
}

func TestTraceToBoundary(t *testing.T) {
	// Increase leg is linear, so the trace agrees with ceil(seasonsToMax).
	tr, err := TraceToBoundary(0.8, 0.01, Reached, 0)
	require.NoError(t, err)
	assert.True(t, tr.Reached)
	assert.Equal(t, 124, tr.Seasons)
	assert.Len(t, tr.Path, 124)
	assert.Equal(t, Ceiling, tr.Path[len(tr.Path)-1])

	tr, err = TraceToBoundary(1.0, 0.05, Depleting, 0)
	require.NoError(t, err)
	assert.True(t, tr.Reached)
	assert.Equal(t, 5, tr.Seasons)

	tr, err = TraceToBoundary(0.8, 0.0001, Reached, 10)
	require.NoError(t, err)
	assert.False(t, tr.Reached)
	assert.Equal(t, 10, tr.Seasons)

	_, err = TraceToBoundary(0.8, 0.01, Holding, 0)
	assert.ErrorIs(t, err, ErrNoBoundary)
}
