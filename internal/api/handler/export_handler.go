package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"classroom-booking/backend/internal/service"
	"classroom-booking/backend/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 课次导出 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportTimeline 导出课程课次表
// GET /api/v1/courses/:id/timeline/export
func (h *ExportHandler) ExportTimeline(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportTimeline(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	attachment(c, filename)
	c.Data(http.StatusOK, contentTypeXLSX, buf.Bytes())
}

// Calendar 课程日历订阅
// GET /api/v1/courses/:id/calendar
func (h *ExportHandler) Calendar(c *gin.Context) {
	data, filename, err := h.exportSvc.Calendar(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	attachment(c, filename)
	c.Data(http.StatusOK, contentTypeICS, data)
}

func attachment(c *gin.Context, filename string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 23001, "课程不存在")
	case errors.Is(err, service.ErrExportNoEvents):
		response.NotFound(c, 23002, "该课程暂无课次")
	default:
		response.InternalError(c)
	}
}
