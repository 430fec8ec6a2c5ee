package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholalink/school-service/internal/models"
	"github.com/scholalink/school-service/internal/services"
	"github.com/scholalink/school-service/internal/utils"
)

type ExportHandler struct {
	BaseHandler
	exportService services.ExportService
}

func NewExportHandler(exportService services.ExportService, logger utils.Logger) *ExportHandler {
	return &ExportHandler{
		BaseHandler:   NewBaseHandler(logger),
		exportService: exportService,
	}
}

// GetClassReport downloads the per-student report for a subject
// @Summary Export class report
// @Description Download the per-student report (averages, absences, lates, last grade date) as CSV or XLSX
// @Tags exports
// @Produce octet-stream
// @Param id path string true "Subject ID"
// @Param format query string false "File format: csv (default) or xlsx"
// @Success 200 {file} file "Report file"
// @Failure 400 {object} ErrorResponse "Unsupported format"
// @Failure 404 {object} ErrorResponse "Subject not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /subjects/{id}/report [get]
func (h *ExportHandler) GetClassReport(c *gin.Context) {
	h.LogRequest(c, "Exporting class report")

	subjectID := c.Param("id")

	var (
		file *services.ExportFile
		err  error
	)
	switch format := c.DefaultQuery("format", "csv"); format {
	case "csv":
		file, err = h.exportService.ClassReportCSV(c.Request.Context(), subjectID)
	case "xlsx":
		file, err = h.exportService.ClassReportXLSX(c.Request.Context(), subjectID)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: fmt.Sprintf("Unsupported format %q, expected csv or xlsx", format),
		})
		return
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.writeFile(c, file)
}

// GetUsersExport downloads the user directory as CSV
// @Summary Export users
// @Tags exports
// @Produce octet-stream
// @Param role query string false "Filter by role (TEACHER, STUDENT, PARENT, ADMIN)"
// @Success 200 {file} file "Users CSV"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /users/export [get]
func (h *ExportHandler) GetUsersExport(c *gin.Context) {
	h.LogRequest(c, "Exporting users")

	var role *models.UserRole
	if value := c.Query("role"); value != "" {
		r := models.UserRole(value)
		role = &r
	}

	file, err := h.exportService.UsersCSV(c.Request.Context(), role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.writeFile(c, file)
}

func (h *ExportHandler) writeFile(c *gin.Context, file *services.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
