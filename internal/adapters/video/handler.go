// Package video serves the shared media file with HTTP byte-range support.
// It has no dependency on rooms: a plain static-file collaborator.
package video

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func contentType(path string) string {
	switch filepath.Ext(path) {
	case ".webm":
		return "video/webm"
	case ".mkv":
		return "video/x-matroska"
	default:
		return "video/mp4"
	}
}

// Handler serves the file at path. Range requests get 206 with
// Content-Range/Accept-Ranges via http.ServeContent; a missing file is a
// 404 with a structured error body.
func Handler(path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := os.Open(path)
		if err != nil {
			log.Warn().Err(err).Str("module", "video").Str("path", path).Msg("video file not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Video file not found"})
			return
		}
		defer f.Close()

		fi, err := f.Stat()
		if err != nil || fi.IsDir() {
			c.JSON(http.StatusNotFound, gin.H{"error": "Video file not found"})
			return
		}

		c.Header("Content-Type", contentType(path))
		http.ServeContent(c.Writer, c.Request, "", fi.ModTime(), f)
	}
}
