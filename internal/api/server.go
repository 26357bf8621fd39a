package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"StockAnalyst/internal/model"
	"StockAnalyst/internal/pipeline"
	"StockAnalyst/internal/render"
)

// StatusSource exposes the pipeline state served by the API.
type StatusSource interface {
	Status() []pipeline.StatusEntry
	Running() bool
	Last() *model.RunReport
}

// Refresher starts a run in the background and reports false when one is active.
type Refresher interface {
	TriggerRefresh() bool
}

// Handler serves health, metrics and read-only views of the last run.
type Handler struct {
	Runner    StatusSource
	Refresher Refresher
	Metrics   http.Handler
}

func (h *Handler) Register(r *gin.Engine) {
	r.GET("/healthz", h.health)
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}

	v1 := r.Group("/api/v1")
	{
		v1.GET("/status", h.status)
		v1.GET("/report", h.report)
		v1.GET("/instruments/:ticker", h.instrument)
		v1.POST("/refresh", h.refresh)
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type statusEntry struct {
	Ticker string          `json:"ticker"`
	Status model.RunStatus `json:"status"`
	Label  string          `json:"label"`
}

type statusResponse struct {
	Running     bool          `json:"running"`
	Instruments []statusEntry `json:"instruments"`
	LastRunID   string        `json:"lastRunId,omitempty"`
	LastSummary string        `json:"lastSummary,omitempty"`
}

func (h *Handler) status(c *gin.Context) {
	entries := h.Runner.Status()
	resp := statusResponse{
		Running:     h.Runner.Running(),
		Instruments: make([]statusEntry, len(entries)),
	}
	for i, e := range entries {
		resp.Instruments[i] = statusEntry{Ticker: e.Ticker, Status: e.Status, Label: e.Status.Label()}
	}
	if last := h.Runner.Last(); last != nil {
		resp.LastRunID = last.ID.String()
		resp.LastSummary = last.Summary()
	}
	c.JSON(http.StatusOK, resp)
}

// report writes the last completed run. ?series=true keeps the price points.
func (h *Handler) report(c *gin.Context) {
	last := h.Runner.Last()
	if last == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no completed run yet"})
		return
	}
	withSeries, _ := strconv.ParseBool(c.DefaultQuery("series", "false"))
	c.Header("Content-Type", "application/json; charset=utf-8")
	c.Status(http.StatusOK)
	if err := render.NewJSONRenderer().Render(c.Writer, last, render.Options{IncludeSeries: withSeries}); err != nil {
		_ = c.Error(err)
	}
}

func (h *Handler) instrument(c *gin.Context) {
	ticker := strings.ToUpper(c.Param("ticker"))
	a, ok := h.Runner.Last().Find(ticker)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": ticker + " is not in the last report"})
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) refresh(c *gin.Context) {
	if h.Refresher == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "refresh is not available"})
		return
	}
	if !h.Refresher.TriggerRefresh() {
		c.JSON(http.StatusConflict, gin.H{"error": pipeline.ErrRunInProgress.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "started"})
}

// NewServer builds the HTTP server for h on addr.
func NewServer(addr string, h *Handler, logger *zap.Logger) *http.Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))
	h.Register(engine)
	return &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}
