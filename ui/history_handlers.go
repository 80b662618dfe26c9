package ui

import (
	"net/http"

	apperrors "phone8ez/internal/errors"
	"phone8ez/internal/shortcut"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleHistoryState(c *gin.Context) {
	ws := s.currentWorkspace(c)
	if ws == nil {
		return
	}
	c.JSON(http.StatusOK, ws.State())
}

// handleUndo steps the collection back. Undo with nothing recorded is a
// no-op and reports applied=false.
func (s *Server) handleUndo(c *gin.Context) {
	ws := s.currentWorkspace(c)
	if ws == nil {
		return
	}
	applied := ws.Undo()
	c.JSON(http.StatusOK, gin.H{"applied": applied, "datasets": ws.Datasets(), "state": ws.State()})
}

func (s *Server) handleRedo(c *gin.Context) {
	ws := s.currentWorkspace(c)
	if ws == nil {
		return
	}
	applied := ws.Redo()
	c.JSON(http.StatusOK, gin.H{"applied": applied, "datasets": ws.Datasets(), "state": ws.State()})
}

// handleHistoryKey forwards a key press from the browser to the workspace
// shortcut bindings
func (s *Server) handleHistoryKey(c *gin.Context) {
	ws := s.currentWorkspace(c)
	if ws == nil {
		return
	}

	var event shortcut.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		s.respondError(c, "handleHistoryKey", apperrors.InvalidInput(err.Error()))
		return
	}
	handled := ws.HandleKey(event)
	c.JSON(http.StatusOK, gin.H{"handled": handled, "state": ws.State()})
}
