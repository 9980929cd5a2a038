package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/brauliopinto/optimaps-indoor-positioning/algo"
	"github.com/brauliopinto/optimaps-indoor-positioning/db"
	"github.com/brauliopinto/optimaps-indoor-positioning/model"
)

// Survey and Registry are the loaded survey data (set in main after the
// database is initialized).
var (
	Survey   []model.Point
	Registry map[string]model.AccessPoint
)

// SimulateRequest carries the simulation parameters. rho_0 and alpha are
// required; height_offset defaults to 0 (APs on the survey plane).
type SimulateRequest struct {
	HeightOffset float64  `json:"height_offset"`
	Rho0         *float64 `json:"rho_0" binding:"required"`
	Alpha        *float64 `json:"alpha" binding:"required"`
	Persist      bool     `json:"persist"`
}

// SimulateResponse is the generated fingerprint table. RunID is set only
// when the run was persisted.
type SimulateResponse struct {
	Count  int                    `json:"count"`
	Rows   []model.FingerprintRow `json:"rows"`
	RunID  uint                   `json:"run_id,omitempty"`
	Params model.PathLossParams   `json:"params"`
}

// Simulate computes expected RSSI fingerprints for every survey point:
// distances first, then the path-loss conversion.
func Simulate(c *gin.Context) {
	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if Registry == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "survey data not loaded"})
		return
	}

	rows, params, err := runSimulation(req.HeightOffset, *req.Rho0, *req.Alpha)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := SimulateResponse{Count: len(rows), Rows: rows, Params: params}
	if req.Persist {
		run, err := db.SaveFingerprintRun(req.HeightOffset, params, rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		resp.RunID = run.ID
	}

	c.JSON(http.StatusOK, resp)
}

// Stats returns per-AP summary statistics for a simulation without
// materializing the table for the caller. Query parameters: rho_0, alpha,
// height_offset.
func Stats(c *gin.Context) {
	rho0, err := queryFloat(c, "rho_0")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	alpha, err := queryFloat(c, "alpha")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	heightOffset := 0.0
	if c.Query("height_offset") != "" {
		if heightOffset, err = queryFloat(c, "height_offset"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	rows, params, err := runSimulation(heightOffset, rho0, alpha)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"params":        params,
		"height_offset": heightOffset,
		"points":        len(rows),
		"stats":         algo.SummarizeFingerprints(rows),
	})
}

// ListRuns returns persisted simulation runs, newest first.
func ListRuns(c *gin.Context) {
	runs, err := db.ListFingerprintRuns()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(runs), "runs": runs})
}

// GetRun returns one persisted run with its fingerprint rows.
func GetRun(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}
	run, rows, err := db.GetFingerprintRun(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": run, "rows": rows})
}

// runSimulation is the two-stage pipeline shared by Simulate and Stats.
func runSimulation(heightOffset, rho0, alpha float64) ([]model.FingerprintRow, model.PathLossParams, error) {
	params := model.PathLossParams{Rho0: rho0, Alpha: alpha}

	mappings, err := algo.ComputeDistances(Survey, Registry, heightOffset)
	if err != nil {
		return nil, params, err
	}

	apIDs := make([]string, 0, len(Registry))
	for id := range Registry {
		apIDs = append(apIDs, id)
	}

	rows, err := algo.ExpectedRSSI(mappings, apIDs, params)
	if err != nil {
		return nil, params, err
	}
	return rows, params, nil
}

func queryFloat(c *gin.Context, key string) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, fmt.Errorf("missing query parameter %s", key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("query parameter %s: %q is not numeric", key, raw)
	}
	return v, nil
}
