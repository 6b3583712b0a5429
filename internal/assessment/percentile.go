package assessment

// The percentile mapper deliberately uses a coarse z-score lookup table
// rather than a closed-form inverse CDF, matching the percentile bands used
// when the reference constants were derived. Kept as data so the bands are
// testable entry by entry.

type percentileBand struct {
	percentile int
	z          float64
}

// Ordered descending; the scan returns the first band whose threshold the
// z-score meets or exceeds.
var percentileTable = []percentileBand{
	{99, 2.33},
	{95, 1.65},
	{90, 1.28},
	{85, 1.04},
	{80, 0.84},
	{75, 0.67},
	{70, 0.52},
	{60, 0.25},
	{50, 0},
	{40, -0.25},
	{30, -0.52},
	{25, -0.67},
	{20, -0.84},
	{15, -1.04},
	{10, -1.28},
	{5, -1.65},
	{1, -2.33},
}

// PercentileOf converts a raw mean score plus reference (mean, sd) into a
// percentile rank in [1,99]. An sd of zero is treated as an exact match with
// the reference mean (50th percentile); reference constants are frozen, so
// this is purely a guard against careless edits.
func PercentileOf(score, mean, sd float64) int {
	if sd == 0 {
		return 50
	}
	z := (score - mean) / sd
	for _, band := range percentileTable {
		if z >= band.z {
			return band.percentile
		}
	}
	return 1
}
