package dataset

import "gonum.org/v1/gonum/stat"

// Summary holds basic statistics for a field.
type Summary struct {
	N    int
	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

// Summarize computes statistics over all values of a field. Scalars
// yield N=1 with zero spread.
func Summarize(f *Field) Summary {
	var flat []float64
	switch f.Kind {
	case Scalar:
		flat = []float64{f.Value}
	case Series:
		flat = f.Series
	case Grid:
		for _, row := range f.Grid {
			flat = append(flat, row...)
		}
	}

	if len(flat) == 0 {
		return Summary{}
	}

	s := Summary{
		N:    len(flat),
		Mean: stat.Mean(flat, nil),
		Min:  flat[0],
		Max:  flat[0],
	}
	if len(flat) > 1 {
		s.Std = stat.StdDev(flat, nil)
	}
	for _, v := range flat {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	return s
}

// TimeMeans returns the per-time-step mean of a grid field, useful for
// plotting a burst-averaged time series.
func TimeMeans(grid [][]float64) []float64 {
	means := make([]float64, len(grid))
	for i, row := range grid {
		if len(row) == 0 {
			continue
		}
		means[i] = stat.Mean(row, nil)
	}
	return means
}
