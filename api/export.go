package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"

	"cotizaciones/database"
	"cotizaciones/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出处理器
type ExportHandler struct{}

// NewExportHandler 创建导出处理器
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

var exportHeaders = []string{"ID", "Fecha", "Categoría", "Concepto", "Proveedor", "Estado", "Monto", "Descripción"}

// queryExportRows 按 estado/desde/hasta 查询全部支出（不分页）
func queryExportRows(c *gin.Context) ([]ExpenseDetail, bool) {
	filter, errs := parseExpenseFilter(c)
	if errs != nil {
		InvalidInput(c, errs)
		return nil, false
	}

	q := expenseDetailQuery(database.DB)
	if filter.Estado != "" {
		q = q.Where("g.estado = ?", filter.Estado)
	}
	if filter.Desde != "" {
		q = q.Where("g.fecha >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("g.fecha <= ?", filter.Hasta)
	}
	if filter.CategoriaID != nil {
		q = q.Where("cp.categoria_id = ?", *filter.CategoriaID)
	}

	rows := []ExpenseDetail{}
	if err := q.Order("g.fecha DESC, g.id DESC").Scan(&rows).Error; err != nil {
		serverError(c, err, "Error al consultar los gastos")
		return nil, false
	}
	formatExpenseDetails(rows)
	return rows, true
}

func exportRecord(e ExpenseDetail) []string {
	return []string{
		fmt.Sprintf("%d", e.ID),
		e.FechaFormateada,
		deref(e.Categoria),
		deref(e.Concepto),
		deref(e.Proveedor),
		e.Estado,
		e.Monto.Fixed(),
		deref(e.Descripcion),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func exportFilename(c *gin.Context, ext string) string {
	parts := []string{"gastos"}
	for _, k := range []string{"desde", "hasta"} {
		if v := strings.TrimSpace(c.Query(k)); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "_") + "." + ext
}

// ExportExcel 导出支出为 Excel
// @Summary 导出支出 Excel
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param estado query string false "状态"
// @Param desde query string false "起始日期 (2024-01-01)"
// @Param hasta query string false "结束日期 (2024-12-31)"
// @Param categoria_id query int false "类别ID"
// @Success 200 {file} file "Excel 文件"
// @Failure 400 {object} Response "筛选参数无效"
// @Router /api/expenses/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	rows, ok := queryExportRows(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := writeExpenseWorkbook(rows, &buf); err != nil {
		serverError(c, err, "Error al generar el archivo Excel")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exportFilename(c, "xlsx")))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportCSV 导出支出为 CSV
// @Summary 导出支出 CSV
// @Tags 导出
// @Produce text/csv
// @Param estado query string false "状态"
// @Param desde query string false "起始日期 (2024-01-01)"
// @Param hasta query string false "结束日期 (2024-12-31)"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} Response "筛选参数无效"
// @Router /api/expenses/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	rows, ok := queryExportRows(c)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	// BOM，Excel 打开时正确识别 UTF-8
	buf.WriteString("\xEF\xBB\xBF")
	writer := csv.NewWriter(buf)
	if err := writer.Write(exportHeaders); err != nil {
		serverError(c, err, "Error al generar el archivo CSV")
		return
	}
	for _, e := range rows {
		if err := writer.Write(exportRecord(e)); err != nil {
			serverError(c, err, "Error al generar el archivo CSV")
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		serverError(c, err, "Error al generar el archivo CSV")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exportFilename(c, "csv")))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// writeExpenseWorkbook 生成带表头样式和合计行的工作簿
func writeExpenseWorkbook(rows []ExpenseDetail, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Gastos"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"1A5276"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return err
	}
	dataStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return err
	}

	widths := []float64{8, 12, 18, 22, 24, 12, 14, 40}
	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	f.SetCellStyle(sheet, "A1", "H1", headerStyle)

	total := models.Money{}
	for i, e := range rows {
		row := i + 2
		record := exportRecord(e)
		for col, v := range record {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		// 金额与 ID 写为数字
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), e.ID)
		amount, _ := e.Monto.Float64()
		f.SetCellFloat(sheet, fmt.Sprintf("G%d", row), amount, 2, 64)
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("H%d", row), dataStyle)
		total = total.Add(e.Monto)
	}

	totalRow := len(rows) + 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow), "Total")
	f.MergeCell(sheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("F%d", totalRow))
	totalAmount, _ := total.Float64()
	f.SetCellFloat(sheet, fmt.Sprintf("G%d", totalRow), totalAmount, 2, 64)
	f.SetCellValue(sheet, fmt.Sprintf("H%d", totalRow), fmt.Sprintf("%d registros", len(rows)))
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("H%d", totalRow), totalStyle)

	return f.Write(w)
}
