package api

import (
	"net/http"

	"convert-capacity/internal/api/handlers"
	"convert-capacity/internal/api/middleware"
	"convert-capacity/internal/logger"
	"convert-capacity/internal/pipeline"
	"convert-capacity/internal/synthetic"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the HTTP surface needs.
type Deps struct {
	Params         pipeline.Params
	Synthetic      synthetic.Options
	ScenarioDir    string
	Fetcher        handlers.SeasonFetcher // nil disables /seasons
	MinSeason      int
	AllowedOrigins []string
	Log            *logger.Logger
}

// NewRouter wires middleware and routes.
func NewRouter(d Deps) *gin.Engine {
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}

	router := gin.New()
	router.Use(middleware.CORS(d.AllowedOrigins))
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler(log))

	analyzeHandler := handlers.NewAnalyzeHandler(d.Params, d.Synthetic, log.Component("analyze"))
	rampHandler := handlers.NewRampHandler(d.Params)
	scenarioHandler := handlers.NewScenarioHandler(d.ScenarioDir, log.Component("scenarios"))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/analyze", analyzeHandler.Analyze)
		v1.GET("/ramp", rampHandler.Rates)
		v1.GET("/ladders", rampHandler.Ladders)
		v1.GET("/scenarios", scenarioHandler.ListScenarios)
		if d.Fetcher != nil {
			seasonHandler := handlers.NewSeasonHandler(d.Fetcher, d.MinSeason)
			v1.GET("/seasons", seasonHandler.ListSeasons)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})
	return router
}
