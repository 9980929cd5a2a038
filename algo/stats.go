package algo

import (
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/brauliopinto/optimaps-indoor-positioning/model"
	"github.com/brauliopinto/optimaps-indoor-positioning/utils"
)

// APStats summarizes one access-point column of a fingerprint table.
// Undefined cells are counted but excluded from the statistics.
type APStats struct {
	APID      string  `json:"ap_id"`
	Count     int     `json:"count"`
	Undefined int     `json:"undefined"`
	MeanDBm   float64 `json:"mean_dbm"`
	StdDevDBm float64 `json:"stddev_dbm"`
	MinDBm    float64 `json:"min_dbm"`
	MaxDBm    float64 `json:"max_dbm"`
}

// SummarizeFingerprints computes per-AP summary statistics over a simulated
// table, sorted by access-point identifier. This is descriptive only; it
// never feeds back into the model parameters.
func SummarizeFingerprints(rows []model.FingerprintRow) []APStats {
	samples := make(map[string][]float64)
	undefined := make(map[string]int)
	for _, row := range rows {
		for id, s := range row.Signals {
			if !s.Valid {
				undefined[id]++
				if _, seen := samples[id]; !seen {
					samples[id] = nil
				}
				continue
			}
			samples[id] = append(samples[id], s.DBm)
		}
	}

	ids := make([]string, 0, len(samples))
	for id := range samples {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]APStats, 0, len(ids))
	for _, id := range ids {
		vals := samples[id]
		s := APStats{APID: id, Count: len(vals), Undefined: undefined[id]}
		if len(vals) > 0 {
			s.MeanDBm = utils.Round2(stat.Mean(vals, nil))
			s.MinDBm = slices.Min(vals)
			s.MaxDBm = slices.Max(vals)
		}
		if len(vals) > 1 {
			s.StdDevDBm = utils.Round2(stat.StdDev(vals, nil))
		}
		out = append(out, s)
	}
	return out
}
