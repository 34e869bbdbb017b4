package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"aircheck/internal/catalog"
	"aircheck/internal/metrics"
)

// ArtworkHandler proxies catalog artwork lookups. Always 200 so the UI can
// render a placeholder on miss without branching on status; hits are cached
// for minutes, misses only for seconds.
type ArtworkHandler struct {
	catalog        *catalog.Client
	defaultCountry string
}

func NewArtworkHandler(cat *catalog.Client, defaultCountry string) *ArtworkHandler {
	return &ArtworkHandler{catalog: cat, defaultCountry: defaultCountry}
}

func (h *ArtworkHandler) GetArtwork(c *gin.Context) {
	artist := c.Query("artist")
	title := c.Query("title")
	if artist == "" && title == "" {
		// Bare q= searches are treated as a title-only lookup.
		title = c.Query("q")
	}
	country := c.Query("country")
	if country == "" {
		country = h.defaultCountry
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "3"))

	art, err := h.catalog.Artwork(c.Request.Context(), artist, title, country, limit)
	if err != nil || art.URL == "" {
		if err != nil {
			metrics.UpstreamFailures.WithLabelValues("catalog").Inc()
		}
		c.Header("Cache-Control", "public, max-age=15")
		c.JSON(http.StatusOK, gin.H{"url": "", "source": "itunes", "hits": 0})
		return
	}

	c.Header("Cache-Control", "public, max-age=300")
	c.JSON(http.StatusOK, gin.H{"url": art.URL, "source": "itunes", "hits": art.Hits})
}
