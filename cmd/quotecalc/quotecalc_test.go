package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/haulquote/internal/pricing"
	"github.com/Simplici0/haulquote/internal/ratetable"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func writeRateFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

var baseQuoteArgs = []string{"quote", "--dump-fee", "80", "--fuel", "25", "--labor-hours", "2", "--labor-rate", "20"}

func TestQuoteCommand_Text(t *testing.T) {
	out, err := execute(t, baseQuoteArgs...)
	require.NoError(t, err)

	assert.Contains(t, out, "Market:             standard")
	assert.Contains(t, out, "Adjustments:        none (+0.0%)")
	assert.Contains(t, out, "Total costs:        $155.00")
	assert.Contains(t, out, "Quote:              $325.50")
	assert.Contains(t, out, "Range:              $251 - $400")
	assert.Contains(t, out, "Margin:             52.4% Target Zone")
	assert.Contains(t, out, "Recommended price:  $310.00")
}

func TestQuoteCommand_JSONWithAdjustments(t *testing.T) {
	args := append(append([]string{}, baseQuoteArgs...), "--adjust", "weekend,heavyDebris", "--format", "json")
	out, err := execute(t, args...)
	require.NoError(t, err)

	var got struct {
		Market       string         `json:"market"`
		Adjustments  []string       `json:"adjustments"`
		Result       pricing.Result `json:"result"`
		MarginHealth string         `json:"margin_health"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	assert.Equal(t, ratetable.DefaultMarket, got.Market)
	assert.Equal(t, []string{"heavyDebris", "weekend"}, got.Adjustments)
	assert.InDelta(t, 471.975, got.Result.FinalPrice, 1e-9)
	assert.InDelta(t, 363.95, got.Result.MinPrice, 1e-9)
	assert.InDelta(t, 580.0, got.Result.MaxPrice, 1e-9)
	assert.Equal(t, "Excellent", got.MarginHealth)
}

func TestQuoteCommand_RateFile(t *testing.T) {
	path := writeRateFile(t, "metro.hcl", "market = \"metro\"\nload_size \"half\" {\n  lower = 300\n  upper = 500\n}\n")

	out, err := execute(t, append(append([]string{}, baseQuoteArgs...), "--rates", path)...)
	require.NoError(t, err)

	assert.Contains(t, out, "Market:             metro")
	assert.Contains(t, out, "Quote:              $400.00")
	assert.Contains(t, out, "Range:              $300 - $500")
}

func TestQuoteCommand_Errors(t *testing.T) {
	_, err := execute(t, "quote", "--fuel=-5")
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)

	_, err = execute(t, "quote", "--load", "jumbo")
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)

	_, err = execute(t, "quote", "--adjust", "rooftop")
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)

	_, err = execute(t, "quote", "--format", "yaml")
	assert.ErrorContains(t, err, "unknown format")

	_, err = execute(t, "quote", "--rates", filepath.Join(t.TempDir(), "missing.hcl"))
	assert.Error(t, err)
}

func TestRatesShow(t *testing.T) {
	out, err := execute(t, "rates", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Market standard")
	assert.Contains(t, out, "$251 - $400")
	assert.Contains(t, out, "+25%")
	assert.Contains(t, out, "Labor burden           25%")

	out, err = execute(t, "rates", "show", "--format", "json")
	require.NoError(t, err)
	var got struct {
		Market string         `json:"market"`
		Rates  ratetable.Spec `json:"rates"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, ratetable.DefaultMarket, got.Market)
	assert.Equal(t, ratetable.DefaultSpec(), got.Rates)
}

func TestRatesValidate(t *testing.T) {
	good := writeRateFile(t, "rural.json", `{"market": "rural", "region": {"low": {"multiplier": 0.7}}}`)
	bad := writeRateFile(t, "broken.hcl", "market = \"broken\"\nregion \"low\" {\n  multiplier = 2\n}\n")

	out, err := execute(t, "rates", "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "ok   "+good+" (market rural)")

	out, err = execute(t, "rates", "validate", good, bad)
	assert.ErrorIs(t, err, errInvalidRateFiles)
	assert.ErrorContains(t, err, "1 of 2")
	assert.Contains(t, out, "FAIL "+bad)

	_, err = execute(t, "rates", "validate")
	assert.Error(t, err)
}

func TestShippedRateFilesAreValid(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "rates", "*"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	out, err := execute(t, append([]string{"rates", "validate"}, files...)...)
	require.NoError(t, err, out)
	assert.Contains(t, out, "(market metro)")
	assert.Contains(t, out, "(market rural)")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "quotecalc version "+version+"\n", out)
}
