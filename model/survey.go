package model

import "encoding/json"

// Raw survey files use 100 as the conventional "no signal" marker. The
// loader rewrites it to SignalFloorDBm before anything else sees the data.
const (
	NoSignalRaw    = 100.0
	SignalFloorDBm = -100.0
)

// Point is one surveyed location: where it was measured, by which device,
// and the raw RSSI readings keyed by access-point identifier.
type Point struct {
	Label    string          `json:"label"`
	Device   string          `json:"device"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	Channels []string        `json:"channels"` // WAP columns declared by the survey, in file order
	Readings map[string]RSSI `json:"readings,omitempty"`
}

// AccessPoint is a fixed transmitter at known planar coordinates.
type AccessPoint struct {
	ID string  `json:"id" gorm:"primaryKey"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// RSSI is a signal-strength value in dBm. Valid is false when the value is
// undefined (for example when the source distance was unknown).
type RSSI struct {
	DBm   float64
	Valid bool
}

// Distance is a point-to-AP distance in meters. Valid is false when the
// access point's coordinates are not in the registry.
type Distance struct {
	Meters float64
	Valid  bool
}

// Undefined values serialize as JSON null so consumers can tell "no data"
// apart from a real measurement.

func (r RSSI) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.DBm)
}

func (r *RSSI) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = RSSI{}
		return nil
	}
	r.Valid = true
	return json.Unmarshal(b, &r.DBm)
}

func (d Distance) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.Meters)
}

func (d *Distance) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Distance{}
		return nil
	}
	d.Valid = true
	return json.Unmarshal(b, &d.Meters)
}
