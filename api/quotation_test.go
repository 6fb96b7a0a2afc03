package api

import (
	"bytes"
	"net/http"
	"testing"
	"time"

	"cotizaciones/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quotationRouter() *gin.Engine {
	h := NewQuotationHandler(&config.Config{
		Company: config.CompanyConfig{Name: "LARANA, INC."},
		PDF:     config.PDFConfig{LogoPlaceholder: "TU LOGO AQUÍ"},
	})
	r := gin.New()
	r.GET("/quotations", h.List)
	r.POST("/quotations", h.Create)
	r.PUT("/quotations/:id/estado", h.UpdateStatus)
	r.GET("/quotations/:id/pdf", h.PDF)
	r.POST("/quotations/:id/send", h.Send)
	return r
}

func documentRows() *sqlmock.Rows {
	fecha := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "fecha", "estado", "cliente_nombre", "cliente_email", "cliente_telefono", "cliente_direccion",
		"servicio", "descripcion", "cantidad", "precio_unitario",
	}).AddRow(12, fecha, "pendiente", "Acme", "a@acme.com", "5512345678", "Centro", "Web", "Sitio", 2, "100.00")
}

func TestQuotationHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `cotizaciones`").
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec("INSERT INTO `detalle_cotizacion`").
		WillReturnResult(sqlmock.NewResult(30, 2))
	mock.ExpectCommit()

	body := `{"cliente_id":1,"detalle":[
		{"servicio_productos_id":1,"cantidad":2,"precio_unitario":"100"},
		{"servicio_productos_id":2,"cantidad":1,"precio_unitario":"20.5"}]}`
	w := performJSON(quotationRouter(), http.MethodPost, "/quotations", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, float64(12), data["cotizacion_id"])
	assert.Equal(t, "220.50", data["total"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuotationHandler_Create_Invalid(t *testing.T) {
	w := performJSON(quotationRouter(), http.MethodPost, "/quotations",
		`{"detalle":[{"servicio_productos_id":1,"cantidad":0,"precio_unitario":"10"}]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{
		"cliente_id es requerido y debe ser un número",
		"detalle[0].cantidad debe ser un entero positivo",
	}, decodeResponse(t, w).Errors)
}

func TestQuotationHandler_Create_MismatchedTypes(t *testing.T) {
	body := `{"cliente_id":"x","estado":"abierta","detalle":[{"servicio_productos_id":"1","cantidad":2,"precio_unitario":"abc"}]}`
	w := performJSON(quotationRouter(), http.MethodPost, "/quotations", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{
		"cliente_id es requerido y debe ser un número",
		"estado no es válido",
		"detalle[0].precio_unitario debe ser un número positivo",
	}, decodeResponse(t, w).Errors)
}

func TestQuotationHandler_Create_MalformedBody(t *testing.T) {
	w := performJSON(quotationRouter(), http.MethodPost, "/quotations", `"cotizacion"`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"cuerpo de la solicitud inválido: se esperaba un objeto JSON"}, decodeResponse(t, w).Errors)
}

func TestQuotationHandler_List_InvalidEstado(t *testing.T) {
	w := performJSON(quotationRouter(), http.MethodGet, "/quotations?estado=cerrada", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuotationHandler_UpdateStatus_Invalid(t *testing.T) {
	w := performJSON(quotationRouter(), http.MethodPut, "/quotations/3/estado", `{"estado":"pagada"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuotationHandler_PDF(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("FROM cotizaciones AS c .* WHERE c.id = \\?").
		WithArgs(12).
		WillReturnRows(documentRows())

	w := performJSON(quotationRouter(), http.MethodGet, "/quotations/12/pdf", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=cotizacion_12.pdf", w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuotationHandler_PDF_NotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("FROM cotizaciones AS c").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := performJSON(quotationRouter(), http.MethodGet, "/quotations/99/pdf", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuotationHandler_Send_EmailDisabled(t *testing.T) {
	w := performJSON(quotationRouter(), http.MethodPost, "/quotations/12/send", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
