package assessment

// Reference statistics from "The Dark at the End of the Tunnel" study
// (n=401). These are frozen constants baked from the prior dataset; the
// engine never recomputes them.

// ReferenceSampleN is the size of the research reference sample.
const ReferenceSampleN = 401

// Norm is a frozen mean/SD pair for one metric.
type Norm struct {
	Mean float64 `json:"mean"`
	SD   float64 `json:"sd"`
}

var overallNorm = Norm{Mean: 3.55, SD: 0.72}

var constructNorms = map[string]Norm{
	"frequency":    {Mean: 3.39, SD: 0.86}, // DS1
	"control":      {Mean: 2.73, SD: 1.19}, // DS2
	"emotional":    {Mean: 3.38, SD: 1.12}, // DS3
	"time":         {Mean: 3.89, SD: 0.78}, // DS4
	"compulsive":   {Mean: 3.04, SD: 0.95}, // DS5
	"awareness":    {Mean: 3.96, SD: 0.75}, // DS6
	"interference": {Mean: 3.84, SD: 0.88}, // DS7
	"coping":       {Mean: 4.16, SD: 0.73}, // DS8
}

var dimensionNorms = map[string]Norm{
	"behavioral_control":  {Mean: 2.89, SD: 1.07}, // DS2 + DS5
	"emotional_wellbeing": {Mean: 3.77, SD: 0.93}, // DS3 + DS8
	"time_management":     {Mean: 3.64, SD: 0.82}, // DS4 + DS1
	"daily_functioning":   {Mean: 3.84, SD: 0.88}, // DS7
	"self_awareness":      {Mean: 3.96, SD: 0.75}, // DS6
}

// OverallNorm returns the reference statistics for the overall score.
func OverallNorm() Norm { return overallNorm }

// ConstructNorm returns the reference statistics for a construct.
func ConstructNorm(id string) (Norm, error) {
	n, ok := constructNorms[id]
	if !ok {
		return Norm{}, &ConfigurationError{Entity: "construct", ID: id}
	}
	return n, nil
}

// DimensionNorm returns the reference statistics for a dimension.
func DimensionNorm(id string) (Norm, error) {
	n, ok := dimensionNorms[id]
	if !ok {
		return Norm{}, &ConfigurationError{Entity: "dimension", ID: id}
	}
	return n, nil
}
