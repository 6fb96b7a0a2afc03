package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"cotizaciones/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expenseRouter() *gin.Engine {
	h := NewExpenseHandler(1)
	r := gin.New()
	r.GET("/expenses", h.Grouped)
	r.POST("/expenses", h.Create)
	r.GET("/expenses/concepts/:categoryId", h.Concepts)
	r.GET("/expenses/:id", h.Get)
	r.PUT("/expenses/:id", h.Update)
	r.DELETE("/expenses/:id", h.Delete)
	return r
}

var expenseDetailColumns = []string{"id", "proveedor_id", "concepto_pago_id", "monto", "descripcion", "fecha", "estado", "proveedor", "concepto", "categoria"}

func expenseDetailRows() *sqlmock.Rows {
	fecha := time.Date(2024, 3, 9, 0, 0, 0, 0, time.Local)
	return sqlmock.NewRows(expenseDetailColumns).
		AddRow(1, 2, 3, "150.50", "Compra de tóner", fecha, "pendiente", "Papelería Central", "Tóner", "Oficina")
}

func TestExpenseHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `gastos`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT g.\\*, p.nombre AS proveedor, .* FROM gastos AS g .* WHERE g.id = \\?").
		WithArgs(1).
		WillReturnRows(expenseDetailRows())

	body := `{"proveedor_id":"2","concepto_pago_id":3,"monto":"150.50","descripcion":"Compra de tóner","fecha":"2024-03-09"}`
	w := performJSON(expenseRouter(), http.MethodPost, "/expenses", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "Gasto creado con éxito", resp.Message)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "150.50", data["monto"])
	assert.Equal(t, "09-03-2024", data["fecha_formateada"])
	assert.Equal(t, "Oficina", data["categoria"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Create_ReturnsEveryError(t *testing.T) {
	body := `{"proveedor_id":"abc","monto":"-5","fecha":"09/03/2024","estado":"archivado","fecha_pago":"mañana"}`
	w := performJSON(expenseRouter(), http.MethodPost, "/expenses", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, []string{
		"proveedor_id es requerido y debe ser un número",
		"concepto_pago_id es requerido y debe ser un número",
		"monto es requerido y debe ser un número positivo",
		"fecha es requerida y debe ser una fecha válida",
		"estado no es válido",
		"fecha_pago debe ser una fecha válida",
	}, resp.Errors)
}

func TestExpenseRequest_Validate_DefaultsEstado(t *testing.T) {
	expense, errs := ExpenseRequest{
		ProveedorID:    json.RawMessage(`"1"`),
		ConceptoPagoID: json.RawMessage(`1`),
		Monto:          json.RawMessage(`10`),
		Fecha:          json.RawMessage(`"2024-01-31"`),
		Descripcion:    json.RawMessage(`"  "`),
		SolicitanteID:  json.RawMessage(`null`),
	}.Validate()

	require.Nil(t, errs)
	assert.Equal(t, "pendiente", expense.Estado)
	assert.Nil(t, expense.Descripcion)
	assert.Nil(t, expense.SolicitanteID)
	assert.Equal(t, "10.00", expense.Monto.Fixed())
	assert.Equal(t, 31, expense.Fecha.Day())
}

func TestExpenseHandler_Create_MismatchedTypesReportRules(t *testing.T) {
	body := `{"proveedor_id":2,"concepto_pago_id":3,"monto":"abc","fecha":"bad","estado":"x"}`
	w := performJSON(expenseRouter(), http.MethodPost, "/expenses", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, []string{
		"monto es requerido y debe ser un número positivo",
		"fecha es requerida y debe ser una fecha válida",
		"estado no es válido",
	}, resp.Errors)
}

func TestExpenseHandler_Create_NonStringAndNonNumericFields(t *testing.T) {
	body := `{"proveedor_id":true,"concepto_pago_id":{},"monto":"","fecha":20240309,"estado":5,` +
		`"descripcion":[1],"solicitante_id":"uno","fecha_aprobacion":false}`
	w := performJSON(expenseRouter(), http.MethodPost, "/expenses", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, []string{
		"proveedor_id es requerido y debe ser un número",
		"concepto_pago_id es requerido y debe ser un número",
		"monto es requerido y debe ser un número positivo",
		"fecha es requerida y debe ser una fecha válida",
		"estado no es válido",
		"descripcion debe ser texto",
		"solicitante_id debe ser un número",
		"fecha_aprobacion debe ser una fecha válida",
	}, resp.Errors)
	for _, msg := range resp.Errors {
		assert.NotContains(t, msg, "json:")
		assert.NotContains(t, msg, "decimal")
	}
}

func TestExpenseHandler_Create_MalformedBody(t *testing.T) {
	w := performJSON(expenseRouter(), http.MethodPost, "/expenses", `{"monto":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, []string{"cuerpo de la solicitud inválido: se esperaba un objeto JSON"}, resp.Errors)
}

func TestExpenseHandler_Get_NotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("FROM gastos AS g .* WHERE g.id = \\?").
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows(expenseDetailColumns))

	w := performJSON(expenseRouter(), http.MethodGet, "/expenses/9", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Update_NotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `gastos` SET .* WHERE id = \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	body := `{"proveedor_id":2,"concepto_pago_id":3,"monto":"99","fecha":"2024-03-09","estado":"pagado"}`
	w := performJSON(expenseRouter(), http.MethodPut, "/expenses/77", body)

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Delete(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("FROM gastos AS g .* WHERE g.id = \\?").
		WithArgs(1).
		WillReturnRows(expenseDetailRows())
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `gastos` WHERE `gastos`.`id` = \\?").
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := performJSON(expenseRouter(), http.MethodDelete, "/expenses/1", "")

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["id"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Delete_NotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("FROM gastos AS g .* WHERE g.id = \\?").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(expenseDetailColumns))

	w := performJSON(expenseRouter(), http.MethodDelete, "/expenses/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Grouped(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT \\* FROM `categorias_gastos` WHERE id = \\? ORDER BY nombre ASC").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nombre"}).AddRow(1, "Oficina"))
	mock.ExpectQuery("SELECT g.id, g.monto, .* FROM gastos AS g .* WHERE cp.categoria_id = \\? AND g.estado = \\? ORDER BY g.fecha DESC LIMIT 2").
		WithArgs(1, "pendiente").
		WillReturnRows(sqlmock.NewRows([]string{"id", "monto", "descripcion", "fecha", "estado", "proveedor", "concepto"}).
			AddRow(4, "20.00", nil, time.Date(2024, 5, 2, 0, 0, 0, 0, time.Local), "pendiente", "Papelería Central", "Tóner").
			AddRow(3, "10.25", "Hojas", time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local), "pendiente", "Papelería Central", "Papel"))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM gastos AS g .* WHERE cp.categoria_id = \\? AND g.estado = \\?").
		WithArgs(1, "pendiente").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(g.monto\\), 0\\) FROM gastos AS g").
		WithArgs(1, "pendiente").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("45.25"))

	w := performJSON(expenseRouter(), http.MethodGet, "/expenses?limit=2&estado=pendiente&categoria_id=1", "")

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]interface{})
	groups := data["data"].([]interface{})
	require.Len(t, groups, 1)
	office := groups[0].(map[string]interface{})
	assert.Equal(t, "Oficina", office["categoria"])
	assert.Equal(t, "45.25", office["total"])
	assert.Equal(t, float64(3), office["cantidad"])
	assert.Len(t, office["gastos"], 2)
	assert.Equal(t, float64(2), office["pagination"].(map[string]interface{})["totalPages"])

	pagination := data["pagination"].(map[string]interface{})
	assert.Equal(t, float64(3), pagination["totalItems"])
	assert.Equal(t, float64(2), pagination["totalPages"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Grouped_FailureMessageByMode(t *testing.T) {
	defer func() { config.GlobalConfig = nil }()

	run := func() Response {
		mock, cleanup := setupMockDB(t)
		defer cleanup()
		mock.ExpectQuery("FROM `categorias_gastos`").
			WillReturnError(errors.New("dial tcp 10.0.0.5:3306: connection refused"))

		w := performJSON(expenseRouter(), http.MethodGet, "/expenses", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		require.NoError(t, mock.ExpectationsWereMet())
		return decodeResponse(t, w)
	}

	// release 模式只返回固定提示，原因只写日志
	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "release"}}
	resp := run()
	assert.Equal(t, "error al obtener los gastos por categoría", resp.Message)
	assert.NotContains(t, resp.Message, "10.0.0.5")

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	resp = run()
	assert.Contains(t, resp.Message, "error al obtener los gastos por categoría")
	assert.Contains(t, resp.Message, "connection refused")
}

func TestExpenseHandler_Grouped_InvalidFilters(t *testing.T) {
	w := performJSON(expenseRouter(), http.MethodGet,
		"/expenses?estado=archivado&desde=2024-05-01&hasta=2024-04-01&categoria_id=x", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, []string{
		"estado no es válido",
		"desde no puede ser posterior a hasta",
		"categoria_id debe ser un número positivo",
	}, resp.Errors)
}

func TestExpenseHandler_Concepts(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT id, descripcion FROM `conceptos_pago` WHERE categoria_id = \\? ORDER BY descripcion ASC").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "descripcion"}).AddRow(5, "Hotel").AddRow(4, "Vuelo"))

	w := performJSON(expenseRouter(), http.MethodGet, "/expenses/concepts/2", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeResponse(t, w).Data, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}
