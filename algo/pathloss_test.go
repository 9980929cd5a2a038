package algo

import (
	"math"
	"reflect"
	"testing"

	"github.com/brauliopinto/optimaps-indoor-positioning/model"
)

func mapping(distances map[string]model.Distance) model.DistanceMapping {
	return model.DistanceMapping{Label: "zone", Device: "dev", Distances: distances}
}

func defined(meters float64) model.Distance {
	return model.Distance{Meters: meters, Valid: true}
}

func TestExpectedRSSIModel(t *testing.T) {
	params := model.PathLossParams{Rho0: 40, Alpha: 2}
	tests := []struct {
		name     string
		distance float64
		expected float64
	}{
		{"reference decade", 10, -60.0},    // -40 - 20*log10(10)
		{"one meter", 1, -40.0},            // log10(1) = 0
		{"five meters", 5, -53.98},         // rounded to 2 decimals
		{"far below floor", 10000, -100.0}, // raw -120 clipped to the floor
		{"zero distance clamped", 0, 0.0},  // clamp to 0.01 m, then -40 + 40
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ExpectedRSSI(
				[]model.DistanceMapping{mapping(map[string]model.Distance{"WAP1": defined(tt.distance)})},
				[]string{"WAP1"}, params,
			)
			if err != nil {
				t.Fatalf("ExpectedRSSI: %v", err)
			}
			s := rows[0].Signals["WAP1"]
			if !s.Valid {
				t.Fatalf("signal should be defined")
			}
			if s.DBm != tt.expected {
				t.Errorf("rssi = %v, want %v", s.DBm, tt.expected)
			}
		})
	}
}

func TestExpectedRSSIUndefinedPropagation(t *testing.T) {
	rows, err := ExpectedRSSI(
		[]model.DistanceMapping{mapping(map[string]model.Distance{
			"WAP1": defined(10),
			"WAP2": {}, // coordinates were unknown upstream
		})},
		[]string{"WAP1", "WAP2"},
		model.PathLossParams{Rho0: 40, Alpha: 2},
	)
	if err != nil {
		t.Fatalf("ExpectedRSSI: %v", err)
	}
	if !rows[0].Signals["WAP1"].Valid {
		t.Errorf("WAP1 should be defined")
	}
	if rows[0].Signals["WAP2"].Valid {
		t.Errorf("WAP2 should stay undefined")
	}
}

func TestExpectedRSSIPassthroughUnrecognizedColumns(t *testing.T) {
	rows, err := ExpectedRSSI(
		[]model.DistanceMapping{mapping(map[string]model.Distance{
			"WAP1":     defined(10),
			"NOT_AN_AP": defined(123.45),
		})},
		[]string{"WAP1"},
		model.PathLossParams{Rho0: 40, Alpha: 2},
	)
	if err != nil {
		t.Fatalf("ExpectedRSSI: %v", err)
	}
	if _, ok := rows[0].Signals["NOT_AN_AP"]; ok {
		t.Errorf("unrecognized column must not be converted")
	}
	got := rows[0].Passthrough["NOT_AN_AP"]
	if !got.Valid || got.Meters != 123.45 {
		t.Errorf("unrecognized column changed: %+v", got)
	}
}

func TestExpectedRSSIFloorInvariant(t *testing.T) {
	distances := make(map[string]model.Distance)
	ids := make([]string, 0)
	for i, d := range []float64{0, 0.005, 0.5, 1, 2, 10, 100, 1000, 1e6} {
		id := string(rune('A' + i))
		distances[id] = defined(d)
		ids = append(ids, id)
	}

	rows, err := ExpectedRSSI([]model.DistanceMapping{mapping(distances)}, ids, model.PathLossParams{Rho0: 40, Alpha: 3.5})
	if err != nil {
		t.Fatalf("ExpectedRSSI: %v", err)
	}
	for id, s := range rows[0].Signals {
		if !s.Valid {
			t.Fatalf("%s: should be defined", id)
		}
		if s.DBm < model.SignalFloorDBm {
			t.Errorf("%s: rssi %v below floor", id, s.DBm)
		}
	}
}

func TestExpectedRSSIIdentityAndOrder(t *testing.T) {
	mappings := []model.DistanceMapping{
		{Label: "a", Device: "d1", X: 1, Y: 2, Distances: map[string]model.Distance{"WAP1": defined(1)}},
		{Label: "b", Device: "d2", X: 3, Y: 4, Distances: map[string]model.Distance{"WAP1": defined(2)}},
	}
	rows, err := ExpectedRSSI(mappings, []string{"WAP1"}, model.PathLossParams{Rho0: 40, Alpha: 2})
	if err != nil {
		t.Fatalf("ExpectedRSSI: %v", err)
	}
	if len(rows) != len(mappings) {
		t.Fatalf("len = %d, want %d", len(rows), len(mappings))
	}
	for i, m := range mappings {
		r := rows[i]
		if r.Label != m.Label || r.Device != m.Device || r.X != m.X || r.Y != m.Y {
			t.Errorf("row %d: identity fields %+v do not match mapping %+v", i, r, m)
		}
	}
}

func TestExpectedRSSIEmptyInput(t *testing.T) {
	rows, err := ExpectedRSSI(nil, []string{"WAP1"}, model.PathLossParams{Rho0: 40, Alpha: 2})
	if err != nil {
		t.Fatalf("ExpectedRSSI: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("empty input should produce empty output, got %d rows", len(rows))
	}
}

func TestExpectedRSSIMalformedInput(t *testing.T) {
	valid := []model.DistanceMapping{mapping(map[string]model.Distance{"WAP1": defined(10)})}
	tests := []struct {
		name     string
		mappings []model.DistanceMapping
		params   model.PathLossParams
	}{
		{"zero alpha", valid, model.PathLossParams{Rho0: 40, Alpha: 0}},
		{"negative alpha", valid, model.PathLossParams{Rho0: 40, Alpha: -1}},
		{"NaN rho_0", valid, model.PathLossParams{Rho0: math.NaN(), Alpha: 2}},
		{"Inf alpha", valid, model.PathLossParams{Rho0: 40, Alpha: math.Inf(1)}},
		{"negative distance", []model.DistanceMapping{mapping(map[string]model.Distance{"WAP1": defined(-5)})}, model.PathLossParams{Rho0: 40, Alpha: 2}},
		{"NaN distance", []model.DistanceMapping{mapping(map[string]model.Distance{"WAP1": defined(math.NaN())})}, model.PathLossParams{Rho0: 40, Alpha: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ExpectedRSSI(tt.mappings, []string{"WAP1"}, tt.params); err == nil {
				t.Errorf("expected an error, got none")
			}
		})
	}
}

// The whole pipeline is deterministic: distances then conversion, twice,
// bit-for-bit equal.
func TestPipelineDeterministic(t *testing.T) {
	points := []model.Point{
		{Label: "a", Device: "d1", X: 0, Y: 0, Channels: []string{"WAP1", "WAP2"}},
		{Label: "b", Device: "d2", X: 12.34, Y: -5.6, Channels: []string{"WAP1", "WAP2"}},
	}
	aps := map[string]model.AccessPoint{
		"WAP1": {ID: "WAP1", X: 3, Y: 4},
		"WAP2": {ID: "WAP2", X: -10, Y: 2.5},
	}
	params := model.PathLossParams{Rho0: 42.5, Alpha: 2.7}

	run := func() []model.FingerprintRow {
		mappings, err := ComputeDistances(points, aps, 2.0)
		if err != nil {
			t.Fatalf("ComputeDistances: %v", err)
		}
		rows, err := ExpectedRSSI(mappings, []string{"WAP1", "WAP2"}, params)
		if err != nil {
			t.Fatalf("ExpectedRSSI: %v", err)
		}
		return rows
	}

	if first, second := run(), run(); !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different fingerprint tables")
	}
}
