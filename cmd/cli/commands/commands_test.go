package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seasonsCSV = `Season,twaDeltaB,twaPrice,l2sr,podRate
98,120.5,1.02,0.41,12.5
99,-300,0.9,,
100,-500,0.8,,
101,-450,0.85,,
`

func writeSeasons(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seasons.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ladders:
  divisors: [100, 200]
  deltas: [0.01]
log:
  level: error
`), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--config", writeConfig(t)}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestAnalyzeWritesCSV(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "results", "capacity.csv")
	stdout, err := run(t, "analyze", "--data", writeSeasons(t, seasonsCSV), "--out", outPath, "--drop-unpriced=false")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote 4 rows")
	assert.Contains(t, stdout, "Final extreme=-500.000 new records=2")

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "Season,twaDeltaB,twaPrice,l2sr,podRate,maxNegativeTwaDeltaB,isNewMaxTwaDeltaB,Capacity_at_Smin_100,Capacity_at_Smin_200"))
	assert.True(t, strings.HasPrefix(lines[3], "100,-500,0.8,0,0,-500,True,5,2.5"))
}

func TestAnalyzeUnpricedSeason(t *testing.T) {
	data := seasonsCSV + "102,-10,,,\n"
	outPath := filepath.Join(t.TempDir(), "capacity.csv")

	_, err := run(t, "analyze", "--data", writeSeasons(t, data), "--out", outPath, "--drop-unpriced=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "season 102")

	stdout, err := run(t, "analyze", "--data", writeSeasons(t, data), "--out", outPath, "--drop-unpriced")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote 4 rows")
}

func TestExtendPrintsCoverage(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "extended.csv")
	stdout, err := run(t, "extend", "--data", writeSeasons(t, seasonsCSV), "--out", outPath,
		"--min-price", "0.75", "--step", "0.01", "--drop-unpriced=false")
	require.NoError(t, err)
	assert.Contains(t, stdout, "historical=4 synthetic=5")
	assert.Contains(t, stdout, "extension 0.7500..0.8000")

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "data_source")
	assert.Contains(t, string(raw), "synthetic")
}

func TestRampSingleDelta(t *testing.T) {
	stdout, err := run(t, "ramp", "--price", "0.8", "--delta", "0.01", "--trace", "")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1.00%")
	assert.Contains(t, stdout, "123.750")
	assert.Contains(t, stdout, "0.792")
}

func TestRampTrace(t *testing.T) {
	stdout, err := run(t, "ramp", "--price", "1.0", "--delta", "0.5", "--trace", "reached")
	require.NoError(t, err)
	// 0.01 -> 0.51 -> 1.0
	assert.Contains(t, stdout, "regime=reached seasons=2 reached=true")
	// inc = 0.5, dec = 0.02
	assert.Contains(t, stdout, "closed-form: to max=1.980 to min=49.500")
	assert.Less(t, strings.Index(stdout, "closed-form"), strings.Index(stdout, "regime="))
}

func TestRampRejectsZeroPrice(t *testing.T) {
	_, err := run(t, "ramp", "--price", "0", "--delta", "0.01", "--trace", "")
	require.Error(t, err)
}

func TestRecommend(t *testing.T) {
	stdout, err := run(t, "recommend", "--data", writeSeasons(t, seasonsCSV), "--target", "100")
	require.NoError(t, err)
	assert.Contains(t, stdout, "prices: n=4")
	assert.Contains(t, stdout, "Median")
	assert.Contains(t, stdout, "fast:")
	assert.Contains(t, stdout, "Closest configured deltas to 100 seasons")
}
