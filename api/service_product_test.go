package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serviceProductRouter() *gin.Engine {
	h := NewServiceProductHandler()
	r := gin.New()
	r.GET("/services-products", h.List)
	r.POST("/services-products", h.Create)
	return r
}

func TestServiceProductHandler_Create_InvalidTipoAndPrecio(t *testing.T) {
	w := performJSON(serviceProductRouter(), http.MethodPost, "/services-products",
		`{"nombre":"Diseño web","descripcion":"Sitio","precio":"0","tipo":"paquete"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeResponse(t, w)
	assert.ElementsMatch(t, []string{
		"precio es obligatorio",
		"tipo debe ser uno de: servicio, producto",
	}, resp.Errors)
}

func TestServiceProductHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT nombre FROM `servicios_productos` WHERE nombre = \\?").
		WithArgs("Diseño web").
		WillReturnRows(sqlmock.NewRows([]string{"nombre"}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `servicios_productos`").
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectCommit()

	w := performJSON(serviceProductRouter(), http.MethodPost, "/services-products",
		`{"nombre":"Diseño web","descripcion":"Sitio","precio":"1500.5","tipo":"servicio"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, "1500.50", data["precio"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceProductHandler_List_FilterByTipo(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `servicios_productos` WHERE tipo = \\?").
		WithArgs("producto").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
	mock.ExpectQuery("SELECT \\* FROM `servicios_productos` WHERE tipo = \\? ORDER BY id ASC LIMIT 5 OFFSET 10").
		WithArgs("producto").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nombre", "descripcion", "precio", "tipo", "created_at", "updated_at"}).
			AddRow(11, "Tóner", "Cartucho negro", "850.00", "producto", time.Now(), time.Now()))

	w := performJSON(serviceProductRouter(), http.MethodGet, "/services-products?tipo=producto&page=3&limit=5", "")

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Pagination)
	assert.Equal(t, Pagination{Page: 3, Limit: 5, TotalItems: 11, TotalPages: 3}, *resp.Pagination)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceProductHandler_List_InvalidTipo(t *testing.T) {
	w := performJSON(serviceProductRouter(), http.MethodGet, "/services-products?tipo=paquete", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
