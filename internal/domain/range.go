package domain

// Lookback ranges for time-bucketed queries.
const (
	Range7d  = "7d"
	Range30d = "30d"
	Range90d = "90d"
)

// NormalizeRange maps a range string to its canonical form and day count.
// Unrecognized values fall back to 30d.
func NormalizeRange(r string) (string, int) {
	switch r {
	case Range7d:
		return Range7d, 7
	case Range90d:
		return Range90d, 90
	default:
		return Range30d, 30
	}
}
