package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/brauliopinto/optimaps-indoor-positioning/loader"
	"github.com/brauliopinto/optimaps-indoor-positioning/model"
)

var DB *gorm.DB

// InitDB connects to PostgreSQL, migrates the schema and, on an empty
// database, imports the survey and access-point CSV files shipped with the
// deployment. Connection settings come from the environment so Docker
// deployments work without a config file.
func InitDB() {
	host := getEnvOrDefault("DB_HOST", "localhost")
	port := getEnvOrDefault("DB_PORT", "5432")
	user := getEnvOrDefault("DB_USER", "optimaps")
	password := getEnvOrDefault("DB_PASSWORD", "optimaps")
	dbname := getEnvOrDefault("DB_NAME", "optimaps")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port,
	)

	// Retry while the database container is still starting up.
	var err error
	maxRetries := 30
	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			break
		}
		log.Printf("waiting for database... (%d/%d): %v", i+1, maxRetries, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatalf("cannot connect to database: %v", err)
	}

	err = DB.AutoMigrate(
		&model.User{},
		&model.AccessPoint{},
		&model.SurveyPoint{},
		&model.SurveyReading{},
		&model.FingerprintRun{},
		&model.FingerprintCell{},
	)
	if err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	// Import bundled CSV data on first run.
	var pointCount int64
	DB.Model(&model.SurveyPoint{}).Count(&pointCount)
	if pointCount == 0 {
		surveyPath := getEnvOrDefault("SURVEY_CSV", "data/survey.csv")
		apPath := getEnvOrDefault("AP_CSV", "data/ap_coords.csv")
		log.Printf("empty database, importing %s and %s...", surveyPath, apPath)
		if err := ImportSurveyData(surveyPath, apPath); err != nil {
			log.Printf("warning: survey import failed: %v", err)
		} else {
			log.Println("survey data imported")
		}
	}

	log.Println("database ready")
}

// getEnvOrDefault returns the env var value, or a default when unset.
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// ImportSurveyData loads the two CSV files through the loader and stores
// them. Readings are stored alongside each point; the loader has already
// normalized the raw no-signal value.
func ImportSurveyData(surveyPath, apPath string) error {
	points, err := loader.LoadSurvey(surveyPath)
	if err != nil {
		return fmt.Errorf("load survey: %w", err)
	}
	aps, err := loader.LoadAccessPoints(apPath)
	if err != nil {
		return fmt.Errorf("load access points: %w", err)
	}

	if len(aps) > 0 {
		records := make([]model.AccessPoint, 0, len(aps))
		for _, ap := range aps {
			records = append(records, ap)
		}
		if err := DB.CreateInBatches(records, 100).Error; err != nil {
			return fmt.Errorf("insert access points: %w", err)
		}
		log.Printf("imported %d access points", len(records))
	}

	if len(points) > 0 {
		rows := make([]model.SurveyPoint, 0, len(points))
		for _, p := range points {
			row := model.SurveyPoint{
				Label:    p.Label,
				Device:   p.Device,
				X:        p.X,
				Y:        p.Y,
				Channels: append([]string(nil), p.Channels...),
			}
			for _, ch := range p.Channels {
				reading := model.SurveyReading{APID: ch}
				if r, ok := p.Readings[ch]; ok && r.Valid {
					dbm := r.DBm
					reading.DBm = &dbm
				}
				row.Readings = append(row.Readings, reading)
			}
			rows = append(rows, row)
		}
		if err := DB.CreateInBatches(rows, 100).Error; err != nil {
			return fmt.Errorf("insert survey points: %w", err)
		}
		log.Printf("imported %d survey points", len(rows))
	}

	return nil
}

// LoadSurveyPoints rebuilds the in-memory survey from the database,
// preserving import order.
func LoadSurveyPoints() ([]model.Point, error) {
	var rows []model.SurveyPoint
	if err := DB.Preload("Readings").Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load survey points: %w", err)
	}

	points := make([]model.Point, 0, len(rows))
	for _, row := range rows {
		p := model.Point{
			Label:    row.Label,
			Device:   row.Device,
			X:        row.X,
			Y:        row.Y,
			Channels: append([]string(nil), row.Channels...),
			Readings: make(map[string]model.RSSI, len(row.Readings)),
		}
		for _, r := range row.Readings {
			if r.DBm != nil {
				p.Readings[r.APID] = model.RSSI{DBm: *r.DBm, Valid: true}
			} else {
				p.Readings[r.APID] = model.RSSI{}
			}
		}
		points = append(points, p)
	}
	return points, nil
}

// LoadAccessPointRegistry returns the AP registry keyed by identifier.
func LoadAccessPointRegistry() (map[string]model.AccessPoint, error) {
	var rows []model.AccessPoint
	if err := DB.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load access points: %w", err)
	}
	aps := make(map[string]model.AccessPoint, len(rows))
	for _, ap := range rows {
		aps[ap.ID] = ap
	}
	return aps, nil
}

// SaveFingerprintRun persists a simulated table together with the
// parameters that produced it, one cell per (point, access point).
func SaveFingerprintRun(heightOffset float64, params model.PathLossParams, rows []model.FingerprintRow) (*model.FingerprintRun, error) {
	run := model.FingerprintRun{
		HeightOffset: heightOffset,
		Rho0:         params.Rho0,
		Alpha:        params.Alpha,
		PointCount:   len(rows),
	}
	for i, row := range rows {
		for apID, s := range row.Signals {
			cell := model.FingerprintCell{
				RowIndex: i,
				Label:    row.Label,
				Device:   row.Device,
				X:        row.X,
				Y:        row.Y,
				APID:     apID,
			}
			if s.Valid {
				dbm := s.DBm
				cell.RSSIDBm = &dbm
			}
			run.Cells = append(run.Cells, cell)
		}
	}

	if err := DB.Create(&run).Error; err != nil {
		return nil, fmt.Errorf("save fingerprint run: %w", err)
	}
	return &run, nil
}

// ListFingerprintRuns returns stored runs, newest first, without cells.
func ListFingerprintRuns() ([]model.FingerprintRun, error) {
	var runs []model.FingerprintRun
	if err := DB.Order("created_at desc").Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("list fingerprint runs: %w", err)
	}
	return runs, nil
}

// GetFingerprintRun rebuilds one stored run as fingerprint rows in their
// original order.
func GetFingerprintRun(id uint) (*model.FingerprintRun, []model.FingerprintRow, error) {
	var run model.FingerprintRun
	if err := DB.First(&run, id).Error; err != nil {
		return nil, nil, fmt.Errorf("fingerprint run %d: %w", id, err)
	}
	var cells []model.FingerprintCell
	if err := DB.Where("run_id = ?", id).Order("row_index").Find(&cells).Error; err != nil {
		return nil, nil, fmt.Errorf("fingerprint run %d cells: %w", id, err)
	}

	rows := make([]model.FingerprintRow, run.PointCount)
	for _, cell := range cells {
		if cell.RowIndex < 0 || cell.RowIndex >= len(rows) {
			continue
		}
		row := &rows[cell.RowIndex]
		if row.Signals == nil {
			row.Label = cell.Label
			row.Device = cell.Device
			row.X = cell.X
			row.Y = cell.Y
			row.Signals = make(map[string]model.RSSI)
		}
		if cell.RSSIDBm != nil {
			row.Signals[cell.APID] = model.RSSI{DBm: *cell.RSSIDBm, Valid: true}
		} else {
			row.Signals[cell.APID] = model.RSSI{}
		}
	}
	return &run, rows, nil
}
