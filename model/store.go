package model

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// SurveyPoint is the database row behind a Point. Channels keeps the WAP
// column order from the survey file so reloads reproduce the original table
// layout exactly.
type SurveyPoint struct {
	ID       uint   `gorm:"primaryKey"`
	Label    string `gorm:"index"`
	Device   string `gorm:"index"`
	X        float64
	Y        float64
	Channels pq.StringArray  `gorm:"type:text[]"`
	Readings []SurveyReading `gorm:"foreignKey:PointID;constraint:OnDelete:CASCADE"`
}

// SurveyReading is one raw RSSI measurement of a SurveyPoint. DBm is nil
// when the survey had no value for that channel.
type SurveyReading struct {
	ID      uint   `gorm:"primaryKey"`
	PointID uint   `gorm:"index"`
	APID    string `gorm:"index"`
	DBm     *float64
}

// FingerprintRun records one simulation: which parameters produced it and
// how many rows it generated.
type FingerprintRun struct {
	gorm.Model
	HeightOffset float64
	Rho0         float64
	Alpha        float64
	PointCount   int
	Cells        []FingerprintCell `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

// FingerprintCell is one (point, access point) cell of a persisted
// fingerprint table. RSSIDBm is nil for undefined cells.
type FingerprintCell struct {
	ID       uint `gorm:"primaryKey"`
	RunID    uint `gorm:"index"`
	RowIndex int  // position of the point in the run, 0-based
	Label    string
	Device   string
	X        float64
	Y        float64
	APID     string `gorm:"index"`
	RSSIDBm  *float64
}
