package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/raaghavgupta2020/budget-app/internal/models"
	"github.com/raaghavgupta2020/budget-app/internal/store"
	"github.com/raaghavgupta2020/budget-app/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var exportHeader = []string{"ID", "Name", "Description", "Type", "Amount", "Date", "Created At"}

// ExportHandler downloads a user's full ledger as CSV or XLSX.
type ExportHandler struct {
	Entries *store.EntryStore
	Log     *zap.Logger
}

func NewExportHandler(entries *store.EntryStore, log *zap.Logger) *ExportHandler {
	return &ExportHandler{Entries: entries, Log: log}
}

// Export handles GET /:username/entry/export?format=csv|xlsx
func (h *ExportHandler) Export(c *gin.Context) {
	username := c.Param("username")

	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "format must be 'csv' or 'xlsx'")
		return
	}

	entries, err := h.Entries.List(c.Request.Context(), username, "", "")
	if err != nil {
		h.Log.Error("export query failed", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to list entries")
		return
	}

	if format == "csv" {
		h.writeCSV(c, entries)
		return
	}
	h.writeXLSX(c, entries)
}

func entryRow(e *models.Entry) []string {
	return []string{
		e.ID,
		e.Name,
		e.Description,
		e.Type,
		e.Amount.String(),
		e.Date.Format(time.RFC3339),
		e.CreatedAt.Format(time.RFC3339),
	}
}

func (h *ExportHandler) writeCSV(c *gin.Context, entries []models.Entry) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"entries_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	_ = writer.Write(exportHeader)
	for i := range entries {
		_ = writer.Write(entryRow(&entries[i]))
	}
}

func (h *ExportHandler) writeXLSX(c *gin.Context, entries []models.Entry) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Entries"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		h.Log.Error("export sheet failed", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to build workbook")
		return
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	for col, name := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, name)
	}
	for row := range entries {
		for col, val := range entryRow(&entries[row]) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, val)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"entries_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		h.Log.Error("export write failed", zap.Error(err))
	}
}
