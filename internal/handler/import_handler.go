package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/jengzang/crimestats-backend-go/internal/loader"
	"github.com/jengzang/crimestats-backend-go/pkg/response"
)

// ImportHandler handles bulk CSV uploads
type ImportHandler struct {
	loader *loader.Loader
}

// NewImportHandler creates a new import handler
func NewImportHandler(l *loader.Loader) *ImportHandler {
	return &ImportHandler{loader: l}
}

// PostImport handles POST /api/v1/admin/import
// Form fields: file (required), encoding (latin1 | utf-8, default latin1).
func (h *ImportHandler) PostImport(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Missing file upload", err)
		return
	}

	encoding := c.DefaultPostForm("encoding", loader.EncodingLatin1)
	if encoding != loader.EncodingLatin1 && encoding != loader.EncodingUTF8 {
		response.BadRequest(c, "Unsupported encoding", nil)
		return
	}

	f, err := header.Open()
	if err != nil {
		response.BadRequest(c, "Failed to open upload", err)
		return
	}
	defer f.Close()

	report, err := h.loader.WithEncoding(encoding).Load(c.Request.Context(), f)
	if err != nil {
		fail(c, "Import failed", err)
		return
	}

	response.Success(c, report)
}
