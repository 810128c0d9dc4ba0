package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Simplici0/haulquote/internal/pricing"
	"github.com/Simplici0/haulquote/internal/ratetable"
)

func TestStyleFor(t *testing.T) {
	assert.Equal(t, "emerald", StyleFor(pricing.Excellent).Tone)
	assert.Equal(t, "Target Zone", StyleFor(pricing.TargetZone).Label)
	assert.Equal(t, "amber", StyleFor(pricing.Caution).Tone)
	assert.Equal(t, "red", StyleFor(pricing.Danger).Tone)
	assert.Equal(t, StyleFor(pricing.Danger), StyleFor(pricing.Health(42)))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$325.50", Money(325.5))
	assert.Equal(t, "$1,234.57", Money(1234.567))
	assert.Equal(t, "$0.00", Money(0))
	assert.Equal(t, "-$1,500.00", Money(-1500))
	assert.Equal(t, "$0.00", Money(-0.001))
	assert.Equal(t, "$1,000,000", WholeMoney(999999.6))
	assert.Equal(t, "$364", WholeMoney(363.95))
}

func TestPercentAndRound(t *testing.T) {
	assert.Equal(t, "52.4%", Percent(52.380952))
	assert.Equal(t, "0.0%", Percent(0))
	assert.Equal(t, 471.98, Round2(471.975))
	assert.Equal(t, 155.0, Round2(155))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "1/2 Load", LoadSizeLabel(ratetable.LoadHalf))
	assert.Equal(t, "huge", LoadSizeLabel("huge"))
	assert.Equal(t, "Medium (Suburbs, Average)", RegionLabel(ratetable.RegionMedium))
	assert.Equal(t, "Weekend/Rush", AdjustmentLabel(ratetable.AdjustWeekend))
}
