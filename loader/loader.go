// Package loader reads survey and access-point CSV files into the typed
// records the rest of the system works on. The raw-data conventions live
// here: WAP-prefixed columns are signal channels, and the value 100 means
// "no signal" and is normalized to -100 dBm before the data goes anywhere
// else.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/brauliopinto/optimaps-indoor-positioning/model"
	"github.com/brauliopinto/optimaps-indoor-positioning/utils"
)

// ChannelPrefix marks survey columns that carry RSSI readings.
const ChannelPrefix = "WAP"

// LoadSurvey reads a survey CSV. Required columns: LABEL, DEVICE, X, Y
// (header names are matched case-insensitively). Every column starting with
// "WAP" becomes a signal channel, kept in file order. Empty reading cells
// become undefined readings; the raw no-signal value 100 becomes -100.
func LoadSurvey(path string) ([]model.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open survey file: %w", err)
	}
	defer f.Close()
	return ReadSurvey(f, path)
}

// ReadSurvey is the io.Reader form of LoadSurvey. name is used in error
// messages only.
func ReadSurvey(r io.Reader, name string) ([]model.Point, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: empty file", name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", name, err)
	}

	labelCol, err := findColumn(header, "LABEL", name)
	if err != nil {
		return nil, err
	}
	deviceCol, err := findColumn(header, "DEVICE", name)
	if err != nil {
		return nil, err
	}
	xCol, err := findColumn(header, "X", name)
	if err != nil {
		return nil, err
	}
	yCol, err := findColumn(header, "Y", name)
	if err != nil {
		return nil, err
	}

	// Channel columns, in file order.
	var channels []string
	channelCols := make(map[string]int)
	for i, h := range header {
		h = strings.TrimSpace(h)
		if strings.HasPrefix(h, ChannelPrefix) {
			channels = append(channels, h)
			channelCols[h] = i
		}
	}

	var points []model.Point
	for row := 2; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", name, row, err)
		}

		x, err := parseCoord(record[xCol], name, row, header[xCol])
		if err != nil {
			return nil, err
		}
		y, err := parseCoord(record[yCol], name, row, header[yCol])
		if err != nil {
			return nil, err
		}

		readings := make(map[string]model.RSSI, len(channels))
		for _, ch := range channels {
			cell := strings.TrimSpace(record[channelCols[ch]])
			if cell == "" {
				readings[ch] = model.RSSI{}
				continue
			}
			raw, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d: column %s: %q is not numeric", name, row, ch, cell)
			}
			if raw == model.NoSignalRaw {
				raw = model.SignalFloorDBm
			}
			readings[ch] = model.RSSI{DBm: raw, Valid: true}
		}

		points = append(points, model.Point{
			Label:    strings.TrimSpace(record[labelCol]),
			Device:   strings.TrimSpace(record[deviceCol]),
			X:        x,
			Y:        y,
			Channels: append([]string(nil), channels...),
			Readings: readings,
		})
	}

	return points, nil
}

// LoadAccessPoints reads the AP registry CSV. Required columns: AP, x, y
// (case-insensitive). Later rows win on duplicate identifiers.
func LoadAccessPoints(path string) (map[string]model.AccessPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open access-point file: %w", err)
	}
	defer f.Close()
	return ReadAccessPoints(f, path)
}

// ReadAccessPoints is the io.Reader form of LoadAccessPoints.
func ReadAccessPoints(r io.Reader, name string) (map[string]model.AccessPoint, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: empty file", name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", name, err)
	}

	apCol, err := findColumn(header, "AP", name)
	if err != nil {
		return nil, err
	}
	xCol, err := findColumn(header, "X", name)
	if err != nil {
		return nil, err
	}
	yCol, err := findColumn(header, "Y", name)
	if err != nil {
		return nil, err
	}

	aps := make(map[string]model.AccessPoint)
	for row := 2; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", name, row, err)
		}

		id := strings.TrimSpace(record[apCol])
		if id == "" {
			return nil, fmt.Errorf("%s: row %d: empty access-point identifier", name, row)
		}
		x, err := parseCoord(record[xCol], name, row, header[xCol])
		if err != nil {
			return nil, err
		}
		y, err := parseCoord(record[yCol], name, row, header[yCol])
		if err != nil {
			return nil, err
		}

		aps[id] = model.AccessPoint{ID: id, X: x, Y: y}
	}

	return aps, nil
}

func findColumn(header []string, want, name string) (int, error) {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), want) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%s: missing required column %s", name, want)
}

func parseCoord(cell, name string, row int, column string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: row %d: column %s: %q is not numeric", name, row, column, cell)
	}
	if !utils.IsFinite(v) {
		return 0, fmt.Errorf("%s: row %d: column %s: value %v is not finite", name, row, column, v)
	}
	return v, nil
}
