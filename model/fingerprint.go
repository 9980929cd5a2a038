package model

import (
	"fmt"
	"math"
)

// PathLossParams parameterize the log-distance path-loss model:
//
//	rssi = -rho_0 - 10 * alpha * log10(d)
type PathLossParams struct {
	Rho0  float64 `json:"rho_0"` // reference path loss at 1 m (dB)
	Alpha float64 `json:"alpha"` // path-loss exponent
}

// Validate rejects parameter sets the model is undefined for.
func (p PathLossParams) Validate() error {
	if math.IsNaN(p.Rho0) || math.IsInf(p.Rho0, 0) {
		return fmt.Errorf("rho_0 must be a finite number, got %v", p.Rho0)
	}
	if math.IsNaN(p.Alpha) || math.IsInf(p.Alpha, 0) {
		return fmt.Errorf("alpha must be a finite number, got %v", p.Alpha)
	}
	if p.Alpha <= 0 {
		return fmt.Errorf("alpha must be > 0, got %v", p.Alpha)
	}
	return nil
}

// DistanceMapping is the per-point output of the distance stage: one
// distance per channel the point declared, plus the point's identity fields
// so the two pipeline stages stay positionally aligned.
type DistanceMapping struct {
	Label     string              `json:"label"`
	Device    string              `json:"device"`
	X         float64             `json:"x"`
	Y         float64             `json:"y"`
	Distances map[string]Distance `json:"distances"`
}

// FingerprintRow is one row of the simulated fingerprint table. Signals
// holds the expected RSSI for every recognized access-point column;
// Passthrough holds columns whose key was not a recognized access point,
// carried over from the distance stage unmodified.
type FingerprintRow struct {
	Label       string              `json:"label"`
	Device      string              `json:"device"`
	X           float64             `json:"x"`
	Y           float64             `json:"y"`
	Signals     map[string]RSSI     `json:"signals"`
	Passthrough map[string]Distance `json:"passthrough,omitempty"`
}
