package ui

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"phone8ez/adapters/excel"
	"phone8ez/domain/dataset"
	apperrors "phone8ez/internal/errors"
	"phone8ez/internal/sheet"
	"phone8ez/internal/workspace"
	"phone8ez/ui/middleware"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MergeRequest is the body of POST /api/datasets/merge
type MergeRequest struct {
	Name string       `json:"name" binding:"required,max=200"`
	IDs  []dataset.ID `json:"ids" binding:"required,min=2,dive,required"`
}

// RenameRequest is the body of PATCH /api/datasets/:id
type RenameRequest struct {
	Name string `json:"name" binding:"required,max=200"`
}

// currentWorkspace returns the workspace attached by the middleware chain.
// A missing workspace means routes were wired wrongly.
func (s *Server) currentWorkspace(c *gin.Context) *workspace.Workspace {
	ws, ok := middleware.Workspace(c)
	if !ok {
		s.respondError(c, "currentWorkspace", apperrors.InternalError("workspace not attached"))
		return nil
	}
	return ws
}

func (s *Server) handleListDatasets(c *gin.Context) {
	ws := s.currentWorkspace(c)
	if ws == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{"datasets": ws.Datasets(), "state": ws.State()})
}

// handleUploadSheets turns every uploaded workbook sheet into a normal dataset
func (s *Server) handleUploadSheets(c *gin.Context) {
	ws := s.currentWorkspace(c)
	if ws == nil {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		s.respondError(c, "handleUploadSheets", apperrors.ValidationError("expected a multipart form with sheets"))
		return
	}
	headers := form.File["sheets"]
	if len(headers) == 0 {
		s.respondError(c, "handleUploadSheets", apperrors.ValidationError("no sheets uploaded"))
		return
	}

	uploads := make([]sheet.Upload, 0, len(headers))
	for _, fh := range headers {
		content, err := readUpload(fh, s.opts.MaxUploadBytes)
		if err != nil {
			s.respondError(c, "handleUploadSheets", apperrors.WithCode(apperrors.CodeValidationError, err))
			return
		}
		uploads = append(uploads, sheet.Upload{FileName: fh.Filename, Content: content})
	}

	added, err := s.ingester.IngestWorkbooks(c.Request.Context(), uploads)
	if err != nil {
		s.respondError(c, "handleUploadSheets", apperrors.WithCode(apperrors.CodeValidationError, err))
		return
	}

	ws.Add(added...)
	s.logger.Info("[handleUploadSheets] %s added %d datasets from %d files", ws.Owner(), len(added), len(uploads))
	c.JSON(http.StatusCreated, gin.H{"datasets": added, "state": ws.State()})
}

func (s *Server) handleMergeDatasets(c *gin.Context) {
	ws := s.currentWorkspace(c)
	if ws == nil {
		return
	}

	var req MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, "handleMergeDatasets", apperrors.InvalidInput(err.Error()))
		return
	}

	sources := make([]dataset.Dataset, 0, len(req.IDs))
	for _, id := range req.IDs {
		d, err := ws.Get(id)
		if err != nil {
			s.respondError(c, "handleMergeDatasets", err)
			return
		}
		sources = append(sources, d)
	}

	merged, err := sheet.Merge(req.Name, sources...)
	if err != nil {
		s.respondError(c, "handleMergeDatasets", err)
		return
	}

	ws.Add(merged)
	c.JSON(http.StatusCreated, gin.H{"dataset": merged, "state": ws.State()})
}

func (s *Server) handleRenameDataset(c *gin.Context) {
	ws := s.currentWorkspace(c)
	if ws == nil {
		return
	}

	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, "handleRenameDataset", apperrors.InvalidInput(err.Error()))
		return
	}

	d, err := ws.Rename(dataset.ID(c.Param("id")), req.Name)
	if err != nil {
		s.respondError(c, "handleRenameDataset", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dataset": d, "state": ws.State()})
}

func (s *Server) handleRemoveDataset(c *gin.Context) {
	ws := s.currentWorkspace(c)
	if ws == nil {
		return
	}

	if err := ws.Remove(dataset.ID(c.Param("id"))); err != nil {
		s.respondError(c, "handleRemoveDataset", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": ws.State()})
}

func (s *Server) handleDatasetSummary(c *gin.Context) {
	ws := s.currentWorkspace(c)
	if ws == nil {
		return
	}

	d, err := ws.Get(dataset.ID(c.Param("id")))
	if err != nil {
		s.respondError(c, "handleDatasetSummary", err)
		return
	}

	summary, err := sheet.Summarize(d.Data)
	if err != nil {
		s.respondError(c, "handleDatasetSummary", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dataset_id": d.ID, "name": d.Name, "summary": summary})
}

// handleDatasetWorkbook downloads one dataset as a single-sheet xlsx file
func (s *Server) handleDatasetWorkbook(c *gin.Context) {
	ws := s.currentWorkspace(c)
	if ws == nil {
		return
	}

	d, err := ws.Get(dataset.ID(c.Param("id")))
	if err != nil {
		s.respondError(c, "handleDatasetWorkbook", err)
		return
	}

	var buf bytes.Buffer
	name := excel.SheetName(d.Name)
	if err := excel.WriteWorkbook(&buf, name, d.Data.SheetData, sheet.HeaderRows(d.Data)); err != nil {
		s.respondError(c, "handleDatasetWorkbook", err)
		return
	}

	setAttachment(c, name+".xlsx")
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// setAttachment marks the response as a download. The RFC 5987 form carries
// non-ASCII dataset names.
func setAttachment(c *gin.Context, fileName string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s",
		fileName, url.PathEscape(fileName)))
}

func readUpload(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	if fh.Size > limit {
		return nil, fmt.Errorf("%s is larger than %d bytes", fh.Filename, limit)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, limit))
}
