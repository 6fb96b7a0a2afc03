package api

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func exportRouter() *gin.Engine {
	h := NewExportHandler()
	r := gin.New()
	r.GET("/export/excel", h.ExportExcel)
	r.GET("/export/csv", h.ExportCSV)
	return r
}

const exportSQL = "SELECT g.\\*, .* FROM gastos AS g LEFT JOIN proveedores p .* ORDER BY g.fecha DESC, g.id DESC"

func TestExportHandler_ExportExcel(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery(exportSQL).WillReturnRows(expenseDetailRows())

	w := performJSON(exportRouter(), http.MethodGet, "/export/excel?desde=2024-01-01", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "gastos_2024-01-01.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Gastos", "A1")
	require.NoError(t, err)
	assert.Equal(t, "ID", header)
	provider, _ := f.GetCellValue("Gastos", "E2")
	assert.Equal(t, "Papelería Central", provider)
	label, _ := f.GetCellValue("Gastos", "A3")
	assert.Equal(t, "Total", label)
	count, _ := f.GetCellValue("Gastos", "H3")
	assert.Equal(t, "1 registros", count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_ExportCSV(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("FROM gastos AS g .* WHERE g.estado = \\?").
		WithArgs("pendiente").
		WillReturnRows(expenseDetailRows())

	w := performJSON(exportRouter(), http.MethodGet, "/export/csv?estado=pendiente", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "\xEF\xBB\xBFID,Fecha,Categoría"))
	assert.Contains(t, body, "1,09-03-2024,Oficina,Tóner,Papelería Central,pendiente,150.50,Compra de tóner")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_InvalidFilter(t *testing.T) {
	w := performJSON(exportRouter(), http.MethodGet, "/export/csv?desde=01-01-2024", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
