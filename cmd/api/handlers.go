package main

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/therealutkarshpriyadarshi/vidmarks/internal/cache"
	"github.com/therealutkarshpriyadarshi/vidmarks/internal/catalog"
	"github.com/therealutkarshpriyadarshi/vidmarks/internal/logging"
	"github.com/therealutkarshpriyadarshi/vidmarks/internal/metrics"
	"github.com/therealutkarshpriyadarshi/vidmarks/internal/middleware"
	"github.com/therealutkarshpriyadarshi/vidmarks/internal/player"
	"github.com/therealutkarshpriyadarshi/vidmarks/internal/selection"
	"github.com/therealutkarshpriyadarshi/vidmarks/pkg/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const reloadTimeout = 30 * time.Second

var errVideoNotFound = errors.New("video not found")

// API serves the catalog page and JSON endpoints
type API struct {
	catalog  *catalog.Catalog
	loader   *catalog.Loader
	selector *selection.Service
	player   *player.Builder
	cache    *cache.Cache
	logger   *logging.Logger
	title    string
}

func setupRouter(api *API, limiter *middleware.RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger(api.logger), middleware.Session())
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	router.GET("/health", api.healthCheck)

	// Catalog page
	router.GET("/", api.index)
	router.POST("/select", middleware.RateLimit(limiter), api.selectForm)

	v1 := router.Group("/api/v1")
	{
		// Videos
		v1.GET("/videos", api.listVideos)
		v1.GET("/videos/:id", api.getVideo)
		v1.GET("/videos/:id/embed", api.getEmbedURL)

		// Selection
		v1.GET("/selection", api.getSelection)
		v1.PUT("/selection", middleware.RateLimit(limiter), api.putSelection)
		v1.DELETE("/selection", api.deleteSelection)

		// Catalog
		v1.POST("/catalog/reload", middleware.RateLimit(limiter), api.reloadCatalog)
	}

	return router
}

// Health check endpoint
func (api *API) healthCheck(c *gin.Context) {
	if api.cache != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := api.cache.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"videos": api.catalog.Len(),
	})
}

// Catalog page
func (api *API) index(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	sel, err := api.selector.Current(c.Request.Context(), sessionID)
	if err != nil {
		api.logger.WithSessionID(sessionID).ErrorWithErr("Failed to read selection", err)
		sel = nil
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":     api.title,
		"Videos":    api.catalog.Videos(),
		"Selection": sel,
	})
}

// Timestamp click from the catalog page
func (api *API) selectForm(c *gin.Context) {
	var req models.SelectRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, "video_id and timestamp are required")
		return
	}

	if _, status, err := api.applySelection(c, req); err != nil {
		c.String(status, err.Error())
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

func (api *API) listVideos(c *gin.Context) {
	videos := api.catalog.Videos()
	c.JSON(http.StatusOK, gin.H{
		"videos": videos,
		"count":  len(videos),
	})
}

func (api *API) getVideo(c *gin.Context) {
	video, ok := api.catalog.Find(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}

	c.JSON(http.StatusOK, video)
}

// Embed URL for a video at ?t=MM:SS
func (api *API) getEmbedURL(c *gin.Context) {
	video, ok := api.catalog.Find(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}

	ts := c.Query("t")
	if ts == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter t is required"})
		return
	}

	embedURL, start, err := api.player.Embed(video.URL, ts)
	if err != nil {
		api.recordPlayerError(video.ID, err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"video_id":  video.ID,
		"embed_url": embedURL,
		"start":     start,
	})
}

func (api *API) getSelection(c *gin.Context) {
	sel, err := api.selector.Current(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if sel == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No selection"})
		return
	}

	c.JSON(http.StatusOK, sel)
}

func (api *API) putSelection(c *gin.Context) {
	var req models.SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sel, status, err := api.applySelection(c, req)
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sel)
}

func (api *API) deleteSelection(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	if err := api.selector.Clear(c.Request.Context(), sessionID); err != nil {
		api.logger.WithSessionID(sessionID).ErrorWithErr("Failed to clear selection", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// reloadCatalog reruns the loader. A reload where every source fails keeps
// the current snapshot instead of emptying it.
func (api *API) reloadCatalog(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), reloadTimeout)
	defer cancel()

	videos, source, err := api.loader.Fetch(ctx)
	if err != nil {
		api.logger.ErrorWithErr("Catalog reload failed, keeping current catalog", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":  err.Error(),
			"videos": api.catalog.Len(),
		})
		return
	}

	api.catalog.Replace(videos)
	metrics.SetCatalogSize(len(videos))
	api.logger.WithSource(source).Infof("Catalog reloaded with %d videos", len(videos))

	c.JSON(http.StatusOK, gin.H{
		"source": source,
		"videos": len(videos),
	})
}

// applySelection resolves a click and maps failures to HTTP status codes
func (api *API) applySelection(c *gin.Context, req models.SelectRequest) (*models.Selection, int, error) {
	video, ok := api.catalog.Find(req.VideoID)
	if !ok {
		return nil, http.StatusNotFound, errVideoNotFound
	}

	sessionID := middleware.GetSessionID(c)
	sel, err := api.selector.Select(c.Request.Context(), sessionID, video, req.Timestamp)
	switch {
	case err == nil:
		api.logger.LogSelection(sessionID, video.ID, req.Timestamp)
		return sel, http.StatusOK, nil
	case errors.Is(err, selection.ErrTimestampNotFound):
		return nil, http.StatusNotFound, err
	case errors.Is(err, player.ErrInvalidTimestamp), errors.Is(err, player.ErrMissingVideoID):
		api.recordPlayerError(video.ID, err)
		return nil, http.StatusUnprocessableEntity, err
	default:
		api.logger.WithSessionID(sessionID).ErrorWithErr("Failed to store selection", err)
		return nil, http.StatusInternalServerError, err
	}
}

func (api *API) recordPlayerError(videoID string, err error) {
	kind := "invalid_url"
	if errors.Is(err, player.ErrInvalidTimestamp) {
		kind = "invalid_timestamp"
	}
	metrics.RecordError("player", kind)
	api.logger.WithVideoID(videoID).WithError(err).Error("Malformed catalog data")
}
