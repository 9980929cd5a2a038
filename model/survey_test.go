package model

import (
	"encoding/json"
	"testing"
)

// Undefined values must serialize as null so that consumers of the
// fingerprint table can tell "no data" apart from a measured value.
func TestUndefinedValuesMarshalAsNull(t *testing.T) {
	row := FingerprintRow{
		Label: "kitchen",
		Signals: map[string]RSSI{
			"WAP1": {DBm: -60.5, Valid: true},
			"WAP2": {},
		},
	}

	data, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded FingerprintRow
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := decoded.Signals["WAP1"]; !got.Valid || got.DBm != -60.5 {
		t.Errorf("WAP1 = %+v, want defined -60.5", got)
	}
	if decoded.Signals["WAP2"].Valid {
		t.Errorf("WAP2 should round-trip as undefined")
	}
}

func TestPathLossParamsValidate(t *testing.T) {
	if err := (PathLossParams{Rho0: 40, Alpha: 2}).Validate(); err != nil {
		t.Errorf("valid params rejected: %v", err)
	}
	if err := (PathLossParams{Rho0: 40, Alpha: 0}).Validate(); err == nil {
		t.Errorf("alpha = 0 accepted")
	}
	if err := (PathLossParams{Rho0: 40, Alpha: -2}).Validate(); err == nil {
		t.Errorf("negative alpha accepted")
	}
}
