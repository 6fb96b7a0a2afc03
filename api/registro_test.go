package api

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registroRouter() *gin.Engine {
	h := NewRegistroHandler()
	r := gin.New()
	r.GET("/registros", h.Bootstrap)
	r.POST("/registros", h.Create)
	return r
}

func TestRegistroHandler_Bootstrap(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT id, nombre, precio FROM `servicios_productos` ORDER BY nombre ASC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nombre", "precio"}).AddRow(1, "Web", "1500.00"))
	mock.ExpectQuery("SELECT id, nombre FROM `clientes` ORDER BY nombre ASC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nombre"}).AddRow(1, "Acme"))
	mock.ExpectQuery("SELECT id, nombre FROM `proveedores` ORDER BY nombre ASC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nombre"}))

	w := performJSON(registroRouter(), http.MethodGet, "/registros", "")

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Len(t, data["servicios"], 1)
	assert.Len(t, data["clientes"], 1)
	assert.Empty(t, data["proveedores"])
	assert.Len(t, data["tiposRegistro"], 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistroHandler_Create_InvalidTipo(t *testing.T) {
	w := performJSON(registroRouter(), http.MethodPost, "/registros", `{"tipo":"factura","datos":{}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Tipo de registro no válido", decodeResponse(t, w).Message)
}

func TestRegistroHandler_Create_MissingDatos(t *testing.T) {
	w := performJSON(registroRouter(), http.MethodPost, "/registros", `{"tipo":"gasto"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"datos es requerido"}, decodeResponse(t, w).Errors)
}

func TestRegistroHandler_Create_Gasto(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `gastos`").
		WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectCommit()

	body := `{"tipo":"gasto","datos":{"proveedor_id":1,"concepto_pago_id":2,"monto":"80","fecha":"2024-06-01"}}`
	w := performJSON(registroRouter(), http.MethodPost, "/registros", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, float64(21), data["registro_id"])
	assert.Equal(t, "gasto", data["tipo"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistroHandler_Create_CotizacionValidation(t *testing.T) {
	w := performJSON(registroRouter(), http.MethodPost, "/registros", `{"tipo":"cotizacion","datos":{"cliente_id":1,"detalle":[]}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"detalle debe contener al menos un servicio o producto"}, decodeResponse(t, w).Errors)
}

func TestRegistroHandler_Create_NonStringTipo(t *testing.T) {
	w := performJSON(registroRouter(), http.MethodPost, "/registros", `{"tipo":5,"datos":{}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Tipo de registro no válido", decodeResponse(t, w).Message)
}

func TestRegistroHandler_Create_CotizacionMismatchedTypes(t *testing.T) {
	body := `{"tipo":"cotizacion","datos":{"cliente_id":"x","detalle":[{"servicio_productos_id":1,"cantidad":"dos","precio_unitario":"10"}]}}`
	w := performJSON(registroRouter(), http.MethodPost, "/registros", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{
		"cliente_id es requerido y debe ser un número",
		"detalle[0].cantidad debe ser un entero positivo",
	}, decodeResponse(t, w).Errors)
}

func TestRegistroHandler_Create_GastoMismatchedTypes(t *testing.T) {
	body := `{"tipo":"gasto","datos":{"proveedor_id":2,"concepto_pago_id":3,"monto":"abc","fecha":"bad","estado":"x"}}`
	w := performJSON(registroRouter(), http.MethodPost, "/registros", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{
		"monto es requerido y debe ser un número positivo",
		"fecha es requerida y debe ser una fecha válida",
		"estado no es válido",
	}, decodeResponse(t, w).Errors)
}

func TestRegistroHandler_Create_DatosNotObject(t *testing.T) {
	w := performJSON(registroRouter(), http.MethodPost, "/registros", `{"tipo":"gasto","datos":[1,2]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"datos inválidos: se esperaba un objeto JSON"}, decodeResponse(t, w).Errors)
}
