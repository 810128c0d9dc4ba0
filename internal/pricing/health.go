package pricing

// Health classifies a margin percentage.
type Health int

const (
	Danger Health = iota
	Caution
	TargetZone
	Excellent
)

const (
	excellentMargin = 60.0
	targetMargin    = 50.0
	cautionMargin   = 40.0
)

// Classify buckets marginPercent. NaN falls through to Danger.
func Classify(marginPercent float64) Health {
	switch {
	case marginPercent >= excellentMargin:
		return Excellent
	case marginPercent >= targetMargin:
		return TargetZone
	case marginPercent >= cautionMargin:
		return Caution
	default:
		return Danger
	}
}

func (h Health) String() string {
	switch h {
	case Excellent:
		return "Excellent"
	case TargetZone:
		return "Target Zone"
	case Caution:
		return "Caution"
	default:
		return "Danger"
	}
}

// MarshalText renders the label, so JSON carries "Target Zone" rather than 2.
func (h Health) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}
