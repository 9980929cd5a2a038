package handler

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/brauliopinto/optimaps-indoor-positioning/model"
)

// GetPoints returns every surveyed point with its raw readings.
func GetPoints(c *gin.Context) {
	if Survey == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "survey data not loaded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(Survey),
		"points": Survey,
	})
}

// GetAccessPoints returns the AP registry, sorted by identifier.
func GetAccessPoints(c *gin.Context) {
	if Registry == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "survey data not loaded"})
		return
	}
	aps := make([]model.AccessPoint, 0, len(Registry))
	for _, ap := range Registry {
		aps = append(aps, ap)
	}
	slices.SortFunc(aps, func(a, b model.AccessPoint) int {
		return strings.Compare(a.ID, b.ID)
	})
	c.JSON(http.StatusOK, gin.H{
		"count":         len(aps),
		"access_points": aps,
	})
}

// GetAccessPointByID returns one access point.
func GetAccessPointByID(c *gin.Context) {
	id := c.Param("id")
	if Registry == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "survey data not loaded"})
		return
	}
	ap, ok := Registry[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "access point not found: " + id})
		return
	}
	c.JSON(http.StatusOK, ap)
}

// SearchPoints filters survey points by label or device (case-insensitive
// substring match).
func SearchPoints(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing search query"})
		return
	}
	if Survey == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "survey data not loaded"})
		return
	}

	q := strings.ToLower(query)
	results := make([]model.Point, 0)
	for _, p := range Survey {
		if strings.Contains(strings.ToLower(p.Label), q) ||
			strings.Contains(strings.ToLower(p.Device), q) {
			results = append(results, p)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"count":   len(results),
		"results": results,
	})
}
