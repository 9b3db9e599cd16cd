package handler

import (
	"net/http"
	"strconv"

	"intercolor/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	svc service.ReportService
}

func NewReportHandler(svc service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func (h *ReportHandler) Dashboard(c *gin.Context) {
	resp, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportHandler) Revenue(c *gin.Context) {
	period := c.DefaultQuery("period", "day")

	resp, err := h.svc.Revenue(c.Request.Context(), period)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportHandler) TopProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	resp, err := h.svc.TopProducts(c.Request.Context(), limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportHandler) InventoryExport(c *gin.Context) {
	if c.DefaultQuery("format", "csv") == "pdf" {
		result, err := h.svc.InventoryPDF(c.Request.Context())
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.FileAttachment(result.FilePath, result.FileName)
		return
	}

	data, fileName, err := h.svc.InventoryCSV(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func (h *ReportHandler) SalesExport(c *gin.Context) {
	period := c.DefaultQuery("period", "day")

	if c.DefaultQuery("format", "csv") == "pdf" {
		result, err := h.svc.SalesPDF(c.Request.Context(), period)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.FileAttachment(result.FilePath, result.FileName)
		return
	}

	data, fileName, err := h.svc.SalesCSV(c.Request.Context(), period)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
