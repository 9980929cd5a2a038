package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/brauliopinto/optimaps-indoor-positioning/db"
	"github.com/brauliopinto/optimaps-indoor-positioning/handler"
)

func main() {
	fmt.Println("=== OptiMaps Indoor Positioning - RSSI Fingerprint Simulator ===")

	// 1. Initialize the database.
	// Connects to PostgreSQL, migrates the schema, and imports the bundled
	// survey CSVs on first run.
	db.InitDB()

	// 2. Load the survey data from the database.
	fmt.Println("loading survey data...")
	points, err := db.LoadSurveyPoints()
	if err != nil {
		log.Fatalf("load survey points: %v", err)
	}
	registry, err := db.LoadAccessPointRegistry()
	if err != nil {
		log.Fatalf("load access-point registry: %v", err)
	}
	fmt.Printf("survey loaded: %d points, %d access points\n", len(points), len(registry))

	// 3. Hand the data to the handlers.
	handler.Survey = points
	handler.Registry = registry

	// 4. Set up the Gin engine and routes.
	r := gin.Default()
	setupRoutes(r)

	// 5. Start the server.
	fmt.Println("\nstarting server...")
	fmt.Println("listening on http://localhost:8080")
	fmt.Println("API:")
	fmt.Println("  - POST   /api/login                 - user login")
	fmt.Println("  - POST   /api/register              - user registration")
	fmt.Println("  - POST   /api/fingerprint/simulate  - simulate RSSI fingerprints")
	fmt.Println("  - GET    /api/fingerprint/stats     - per-AP summary statistics")
	fmt.Println("  - GET    /api/fingerprint/runs      - list persisted runs")
	fmt.Println("  - GET    /api/fingerprint/runs/:id  - fetch one persisted run")
	fmt.Println("  - GET    /api/points                - list survey points")
	fmt.Println("  - GET    /api/points/search         - search survey points")
	fmt.Println("  - GET    /api/accesspoints          - list access points")
	fmt.Println("  - GET    /api/accesspoints/:id      - fetch one access point")
	fmt.Println("\npress Ctrl+C to stop")

	if err := r.Run(":8080"); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// setupRoutes wires the HTTP routes
func setupRoutes(r *gin.Engine) {
	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Health check
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  "ok",
		})
	})

	api := r.Group("/api")
	{
		// Public endpoints
		api.POST("/login", handler.Login)
		api.POST("/register", handler.Register)

		// Simulation
		api.POST("/fingerprint/simulate", handler.Simulate)
		api.GET("/fingerprint/stats", handler.Stats)

		// Survey data
		api.GET("/points", handler.GetPoints)
		api.GET("/points/search", handler.SearchPoints)
		api.GET("/accesspoints", handler.GetAccessPoints)
		api.GET("/accesspoints/:id", handler.GetAccessPointByID)

		// Persisted runs require authentication
		authorized := api.Group("/")
		authorized.Use(handler.AuthMiddleware())
		{
			authorized.GET("/fingerprint/runs", handler.ListRuns)
			authorized.GET("/fingerprint/runs/:id", handler.GetRun)
		}
	}
}
