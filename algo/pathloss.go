package algo

import (
	"fmt"
	"math"

	"github.com/brauliopinto/optimaps-indoor-positioning/model"
	"github.com/brauliopinto/optimaps-indoor-positioning/utils"
)

// MinDistanceMeters is the clamp applied before the logarithm. A point that
// coincides with its access point produces d = 0, and log10(0) is undefined;
// anything below this threshold is treated as being exactly this far away.
const MinDistanceMeters = 0.01

// ExpectedRSSI converts each distance mapping into a fingerprint row using
// the log-distance path-loss model:
//
//	rssi = -rho_0 - 10 * alpha * log10(d)
//
// rounded to 2 decimal places and floored at -100 dBm (the minimum
// detectable signal, which doubles as the no-signal value elsewhere in the
// pipeline). Only keys listed in apIDs are converted; anything else is
// carried through as-is, so mixed tables keep their non-distance columns.
// An undefined distance stays undefined in the output. Identity fields are
// copied from the mapping and row order matches the input.
func ExpectedRSSI(mappings []model.DistanceMapping, apIDs []string, params model.PathLossParams) ([]model.FingerprintRow, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	recognized := make(map[string]struct{}, len(apIDs))
	for _, id := range apIDs {
		recognized[id] = struct{}{}
	}

	rows := make([]model.FingerprintRow, 0, len(mappings))
	for i, m := range mappings {
		row := model.FingerprintRow{
			Label:   m.Label,
			Device:  m.Device,
			X:       m.X,
			Y:       m.Y,
			Signals: make(map[string]model.RSSI, len(m.Distances)),
		}

		for id, d := range m.Distances {
			if _, ok := recognized[id]; !ok {
				if row.Passthrough == nil {
					row.Passthrough = make(map[string]model.Distance)
				}
				row.Passthrough[id] = d
				continue
			}
			if !d.Valid {
				// Undefined in, undefined out.
				row.Signals[id] = model.RSSI{}
				continue
			}
			if !utils.IsFinite(d.Meters) || d.Meters < 0 {
				return nil, fmt.Errorf("row %d (label %q): invalid distance %v for %s", i, m.Label, d.Meters, id)
			}
			row.Signals[id] = model.RSSI{DBm: pathLoss(d.Meters, params), Valid: true}
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func pathLoss(d float64, params model.PathLossParams) float64 {
	if d < MinDistanceMeters {
		d = MinDistanceMeters
	}
	rssi := utils.Round2(-params.Rho0 - 10*params.Alpha*math.Log10(d))
	if rssi < model.SignalFloorDBm {
		rssi = model.SignalFloorDBm
	}
	return rssi
}
