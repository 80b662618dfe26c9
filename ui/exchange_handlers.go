package ui

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"phone8ez/internal/exchange"

	"github.com/gin-gonic/gin"
)

// requestMode reads ?mode=, falling back to the configured storage mode
func (s *Server) requestMode(c *gin.Context) (exchange.Mode, error) {
	raw := c.Query("mode")
	if raw == "" {
		return s.opts.DefaultMode, nil
	}
	return exchange.ParseMode(raw)
}

// handleExport streams the whole collection back as a JSON file download
func (s *Server) handleExport(c *gin.Context) {
	ws := s.currentWorkspace(c)
	if ws == nil {
		return
	}
	mode, err := s.requestMode(c)
	if err != nil {
		s.respondError(c, "handleExport", err)
		return
	}

	download := exchange.SaverFunc(func(_ context.Context, f exchange.File) error {
		etag := fmt.Sprintf("%q", f.Checksum.String())
		c.Header("ETag", etag)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return nil
		}
		setAttachment(c, f.Name)
		c.Data(http.StatusOK, f.ContentType+"; charset=utf-8", f.Body)
		return nil
	})

	if _, err := s.exchange.Export(c.Request.Context(), ws.Datasets(), mode, download); err != nil {
		s.respondError(c, "handleExport", err)
		return
	}
}

// handleImport replaces the collection with an uploaded export file. The
// file comes either as multipart field "file" or as a raw JSON body.
func (s *Server) handleImport(c *gin.Context) {
	ws := s.currentWorkspace(c)
	if ws == nil {
		return
	}
	mode, err := s.requestMode(c)
	if err != nil {
		s.respondError(c, "handleImport", err)
		return
	}

	var src io.Reader
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err == nil {
			f, openErr := fh.Open()
			if openErr != nil {
				s.respondError(c, "handleImport", fmt.Errorf("%w: %w", exchange.ErrFileRead, openErr))
				return
			}
			defer f.Close()
			src = f
		}
	} else {
		src = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxUploadBytes)
	}

	// A nil src is reported by the manager as a file read failure.
	datasets, err := s.exchange.Import(c.Request.Context(), src, mode, ws)
	if err != nil {
		s.respondError(c, "handleImport", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": len(datasets), "datasets": datasets, "state": ws.State()})
}
