package season

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestForMonth(t *testing.T) {
	jan := ForMonth(time.January)
	assert.Equal(t, Winter, jan.Season)
	assert.Equal(t, -10, jan.SuggestedAdjustmentPercent)

	jun := ForMonth(time.June)
	assert.Equal(t, Peak, jun.Season)
	assert.Equal(t, 100, jun.DemandPercent)

	assert.Equal(t, "Jan", ForMonth(13).Name)
	assert.Equal(t, "Dec", ForMonth(0).Name)
}

func TestCalendarIsOrdered(t *testing.T) {
	months := Calendar()
	assert.Len(t, months, 12)
	for i, m := range months {
		assert.Equal(t, time.Month(i+1), m.Month)
	}

	months[0].Name = "changed"
	assert.Equal(t, "Jan", ForMonth(time.January).Name)
}
