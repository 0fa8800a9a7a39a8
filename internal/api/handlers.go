package api

import (
	"fmt"
	"image/png"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ivlev/script2edl/internal/cards"
	"github.com/ivlev/script2edl/internal/config"
	"github.com/ivlev/script2edl/internal/director"
	"github.com/ivlev/script2edl/internal/effects"
	"github.com/ivlev/script2edl/internal/export"
	"github.com/ivlev/script2edl/internal/system"
)

// AnalyzeRequest is the body of POST /api/director/analyze
type AnalyzeRequest struct {
	ScriptText        string `json:"scriptText"`
	Format            string `json:"format"`
	TargetDurationSec int    `json:"targetDurationSec"`
	TargetSegments    int    `json:"targetSegments"`
}

// AnalyzeResponse carries the segments twice: bare, and wrapped in the
// exchange format
type AnalyzeResponse struct {
	Source   string             `json:"source"`
	Segments []director.Segment `json:"segments"`
	EditMap  *director.EditMap  `json:"editMap"`
}

// RetimeRequest is the body of POST /api/edl/retime
type RetimeRequest struct {
	EditMap           *director.EditMap `json:"editMap"`
	TargetDurationSec int               `json:"targetDurationSec"`
}

// EditMapResponse wraps a single map
type EditMapResponse struct {
	EditMap *director.EditMap `json:"editMap"`
}

// AnalyzeHandler turns script text into an edit map, asking the configured
// decision source first
func (h *Handlers) AnalyzeHandler(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:  "JSON invalido",
			Detail: err.Error(),
		})
		return
	}

	text := strings.TrimSpace(req.ScriptText)
	if text == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Se requiere el texto del guion"})
		return
	}
	if req.TargetDurationSec < 0 || req.TargetSegments < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Duracion o segmentos invalidos"})
		return
	}

	em, origin := h.project.Decide(c.Request.Context(), director.Request{
		Text:           text,
		Format:         req.Format,
		TargetDuration: req.TargetDurationSec,
		TargetSegments: req.TargetSegments,
	})

	c.JSON(http.StatusOK, AnalyzeResponse{
		Source:   origin,
		Segments: em.Segments,
		EditMap:  em,
	})
}

// ImportHandler accepts an exported map or a raw script document as the
// request body
func (h *Handlers) ImportHandler(c *gin.Context) {
	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "file too large", Detail: err.Error()})
		return
	}

	em, err := h.project.Director.Import(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: director.ErrInvalidFile.Error(), Detail: err.Error()})
		return
	}
	c.JSON(http.StatusOK, EditMapResponse{EditMap: em})
}

// ExportHandler renders the posted map in ?format= (json by default) as a
// file download
func (h *Handlers) ExportHandler(c *gin.Context) {
	em, ok := h.bindEditMap(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "json")
	title := c.DefaultQuery("title", "edl")
	e, err := export.New(format, export.Options{App: config.AppName, Title: title, Now: h.now})
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Formato no soportado", Detail: err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, title, e.Extension()))
	c.Header("Content-Type", e.ContentType())
	c.Status(http.StatusOK)
	if err := e.Export(c.Writer, em); err != nil {
		c.Error(err)
	}
}

// FormatsHandler lists the export formats
func (h *Handlers) FormatsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"formats": export.Formats()})
}

// RetimeHandler spreads a decided map over a new duration
func (h *Handlers) RetimeHandler(c *gin.Context) {
	var req RetimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "JSON invalido", Detail: err.Error()})
		return
	}

	em, err := director.Retime(req.EditMap, req.TargetDurationSec)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No se pudo recalcular", Detail: err.Error()})
		return
	}
	c.JSON(http.StatusOK, EditMapResponse{EditMap: em})
}

// PlanHandler returns the render plan of the posted map as YAML
func (h *Handlers) PlanHandler(c *gin.Context) {
	em, ok := h.bindEditMap(c)
	if !ok {
		return
	}
	c.YAML(http.StatusOK, effects.BuildPlan(em, h.segmentParams()))
}

// CardHandler renders the storyboard card of one segment as PNG
func (h *Handlers) CardHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id invalido", Detail: err.Error()})
		return
	}
	em, ok := h.bindEditMap(c)
	if !ok {
		return
	}

	index := -1
	for i, s := range em.Segments {
		if s.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("segmento %d no encontrado", id)})
		return
	}

	cfg := h.project.Config
	plan := effects.BuildPlan(em, h.segmentParams())
	opts := cards.DefaultOptions()
	opts.Width, opts.Height = cfg.Width, cfg.Height
	opts.CTAURL = cfg.CTAURL

	card := cards.FromSegment(em.Segments[index], &plan.Shots[index], index == len(em.Segments)-1, opts)
	img, err := cards.Render(card, opts)
	if err != nil {
		c.Error(err)
		return
	}
	defer system.PutImage(img)

	c.Header("Content-Type", "image/png")
	c.Status(http.StatusOK)
	if err := png.Encode(c.Writer, img); err != nil {
		c.Error(err)
	}
}

func (h *Handlers) bindEditMap(c *gin.Context) (*director.EditMap, bool) {
	var em director.EditMap
	if err := c.ShouldBindJSON(&em); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "JSON invalido", Detail: err.Error()})
		return nil, false
	}
	if len(em.Segments) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "El mapa no tiene segmentos"})
		return nil, false
	}
	return &em, true
}

func (h *Handlers) segmentParams() config.SegmentParams {
	cfg := h.project.Config
	return config.SegmentParams{
		Width:        cfg.Width,
		Height:       cfg.Height,
		FPS:          cfg.FPS,
		FadeDuration: cfg.FadeDuration,
	}
}
