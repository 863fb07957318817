// Package api provides the REST API server for alsd
package api

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/james-see/alsd/pkg/converter"
	"github.com/james-see/alsd/pkg/liveset"
	"github.com/james-see/alsd/pkg/report"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title alsd API
// @version 1.0
// @description API for inspecting Ableton Live sets and exporting their clips as MIDI
// @host localhost:8080
// @BasePath /api/v1

// maxUploadBytes bounds multipart uploads kept in memory
const maxUploadBytes = 64 << 20

// StartServer starts the API server on the specified port
func StartServer(port int) error {
	return NewRouter().Run(fmt.Sprintf(":%d", port))
}

// NewRouter builds the gin engine with every route registered
func NewRouter() *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = maxUploadBytes

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/formats", listFormats)
		v1.POST("/sets", handleSummary)
		v1.POST("/sets/midi", handleMIDI)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "alsd",
	})
}

// listFormats godoc
// @Summary List supported formats
// @Description Returns the report formats and conversions the API supports
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/formats [get]
func listFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"formats":     report.Formats(),
		"conversions": converter.GetSupportedConversions(),
	})
}

// handleSummary godoc
// @Summary Summarize a Live set
// @Description Upload an .als file and receive its tracks, devices and clips as JSON
// @Tags sets
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Live set to inspect"
// @Param track query int false "1-based track number"
// @Success 200 {object} liveset.LiveSet
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/sets [post]
func handleSummary(c *gin.Context) {
	set, _, ok := loadUpload(c)
	if !ok {
		return
	}

	opts := converter.Options{}
	if !queryInt(c, "track", &opts.Track) {
		return
	}
	// An explicit track=0 is out of range, not "every track".
	if _, given := c.GetQuery("track"); given {
		if _, err := set.Track(opts.Track); err != nil {
			writeError(c, err)
			return
		}
	}

	data, err := converter.New(opts).Convert(set, converter.FormatJSON)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// handleMIDI godoc
// @Summary Export a track or clip as MIDI
// @Description Upload an .als file and receive the selected track's clips as a Standard MIDI File
// @Tags sets
// @Accept multipart/form-data
// @Produce audio/midi
// @Param file formData file true "Live set to export from"
// @Param track query int true "1-based track number"
// @Param clip query int false "1-based clip number (default: every clip)"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/sets/midi [post]
func handleMIDI(c *gin.Context) {
	set, filename, ok := loadUpload(c)
	if !ok {
		return
	}

	opts := converter.Options{}
	if !queryInt(c, "track", &opts.Track) || !queryInt(c, "clip", &opts.Clip) {
		return
	}
	if opts.Track == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "track query parameter is required"})
		return
	}

	data, err := converter.New(opts).SetToMIDI(set)
	if err != nil {
		writeError(c, err)
		return
	}

	outputName := strings.TrimSuffix(filename, filepath.Ext(filename))
	if outputName == "" {
		outputName = "converted"
	}
	outputName = fmt.Sprintf("%s-track%d.mid", outputName, opts.Track)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outputName))
	c.Data(http.StatusOK, "audio/midi", data)
}

// loadUpload reads the "file" form field as a Live set. On failure it has
// already written the response.
func loadUpload(c *gin.Context) (*liveset.LiveSet, string, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return nil, "", false
	}
	defer func() { _ = file.Close() }()

	set, err := liveset.Parse(file)
	if err != nil {
		writeError(c, err)
		return nil, "", false
	}
	set.Path = header.Filename
	return set, header.Filename, true
}

func queryInt(c *gin.Context, key string, dst *int) bool {
	raw := c.Query(key)
	if raw == "" {
		return true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s must be a number", key)})
		return false
	}
	*dst = n
	return true
}

func writeError(c *gin.Context, err error) {
	var formatErr *liveset.FormatError
	var malformed *liveset.MalformedElementError
	if errors.As(err, &formatErr) || errors.As(err, &malformed) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
