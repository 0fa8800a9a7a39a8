package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ivlev/script2edl/internal/config"
	"github.com/ivlev/script2edl/internal/engine"
)

// maxBodyBytes bounds script and edit map uploads
const maxBodyBytes = 5 << 20

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// Handlers serve the director endpoints for one project configuration
type Handlers struct {
	project *engine.Project
	now     func() time.Time
}

func NewHandlers(p *engine.Project) *Handlers {
	return &Handlers{project: p, now: time.Now}
}

// NewRouter wires middleware and routes. The caller picks the gin mode.
func NewRouter(h *Handlers) *gin.Engine {
	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(corsMiddleware())
	router.Use(errorHandlerMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": config.AppName,
			"version": h.project.Config.BuildVersion,
		})
	})

	api := router.Group("/api")
	api.POST("/director/analyze", h.AnalyzeHandler)
	api.POST("/edl/import", h.ImportHandler)
	api.POST("/edl/export", h.ExportHandler)
	api.GET("/edl/formats", h.FormatsHandler)
	api.POST("/edl/retime", h.RetimeHandler)
	api.POST("/edl/plan", h.PlanHandler)
	api.POST("/edl/cards/:id", h.CardHandler)

	return router
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("requestID", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func errorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			log.Printf("[!] Request %s failed: %v", c.GetString("requestID"), err)

			if !c.Writer.Written() {
				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Error:  "Error interno",
					Detail: err.Error(),
				})
			}
		}
	}
}
