package api

import (
	"encoding/json"

	"cotizaciones/database"
	"cotizaciones/models"
	"cotizaciones/service"

	"github.com/gin-gonic/gin"
)

// 记录类型
const (
	RegistroTipoCotizacion = "cotizacion"
	RegistroTipoGasto      = "gasto"
)

// RegistroHandler 组合"新建记录"处理器
type RegistroHandler struct{}

// NewRegistroHandler 创建处理器
func NewRegistroHandler() *RegistroHandler {
	return &RegistroHandler{}
}

// ServiceOption 服务/产品下拉选项
type ServiceOption struct {
	ID     uint         `json:"id"`
	Nombre string       `json:"nombre"`
	Precio models.Money `json:"precio"`
}

// TipoRegistro 记录类型选项
type TipoRegistro struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

// RegistroBootstrap 表单初始化数据
type RegistroBootstrap struct {
	Servicios     []ServiceOption `json:"servicios"`
	Clientes      []NamedOption   `json:"clientes"`
	Proveedores   []NamedOption   `json:"proveedores"`
	TiposRegistro []TipoRegistro  `json:"tiposRegistro"`
}

// RegistroRequest 新建记录请求，datos 的结构取决于 tipo
type RegistroRequest struct {
	Tipo  json.RawMessage `json:"tipo" swaggertype:"string" example:"gasto"`
	Datos json.RawMessage `json:"datos" swaggertype:"object"`
}

// RegistroCreated 新建结果
type RegistroCreated struct {
	RegistroID uint   `json:"registro_id"`
	Tipo       string `json:"tipo"`
}

// Bootstrap 获取新建记录表单所需的下拉数据
// @Summary 新建记录表单数据
// @Tags 记录
// @Produce json
// @Success 200 {object} Response{data=RegistroBootstrap} "获取成功"
// @Router /api/registros [get]
func (h *RegistroHandler) Bootstrap(c *gin.Context) {
	data := RegistroBootstrap{
		Servicios: []ServiceOption{},
		TiposRegistro: []TipoRegistro{
			{ID: RegistroTipoCotizacion, Nombre: "Cotización"},
			{ID: RegistroTipoGasto, Nombre: "Gasto"},
		},
	}

	if err := database.DB.Model(&models.ServiceProduct{}).
		Select("id, nombre, precio").
		Order("nombre ASC").
		Scan(&data.Servicios).Error; err != nil {
		serverError(c, err, "Error al obtener datos para nuevo registro")
		return
	}
	var err error
	if data.Clientes, err = namedOptions(database.DB, &models.Client{}); err != nil {
		serverError(c, err, "Error al obtener datos para nuevo registro")
		return
	}
	if data.Proveedores, err = namedOptions(database.DB, &models.Provider{}); err != nil {
		serverError(c, err, "Error al obtener datos para nuevo registro")
		return
	}

	Success(c, data)
}

// Create 按 tipo 创建报价单或支出，校验与对应接口一致
// @Summary 新建记录
// @Tags 记录
// @Accept json
// @Produce json
// @Param request body RegistroRequest true "tipo: cotizacion / gasto"
// @Success 201 {object} Response{data=RegistroCreated} "创建成功"
// @Failure 400 {object} Response "类型或数据无效"
// @Router /api/registros [post]
func (h *RegistroHandler) Create(c *gin.Context) {
	var req RegistroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidInput(c, []string{invalidBodyMessage})
		return
	}

	tipo, _ := models.ParseRawString(req.Tipo)
	switch tipo {
	case RegistroTipoCotizacion:
		h.createQuotation(c, req.Datos)
	case RegistroTipoGasto:
		h.createExpense(c, req.Datos)
	default:
		BadRequest(c, "Tipo de registro no válido")
	}
}

func decodeDatos(c *gin.Context, raw json.RawMessage, v interface{}) bool {
	if len(raw) == 0 {
		InvalidInput(c, []string{"datos es requerido"})
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		InvalidInput(c, []string{invalidDatosMessage})
		return false
	}
	return true
}

func (h *RegistroHandler) createQuotation(c *gin.Context, raw json.RawMessage) {
	var in service.QuotationInput
	if !decodeDatos(c, raw, &in) {
		return
	}
	if errs := in.Validate(); errs != nil {
		InvalidInput(c, errs)
		return
	}

	q, err := service.CreateQuotation(c.Request.Context(), database.DB, in)
	if err != nil {
		serverError(c, err, "Error al crear el registro de tipo cotizacion")
		return
	}
	Created(c, "Cotización creada con éxito", RegistroCreated{RegistroID: q.ID, Tipo: RegistroTipoCotizacion})
}

func (h *RegistroHandler) createExpense(c *gin.Context, raw json.RawMessage) {
	var req ExpenseRequest
	if !decodeDatos(c, raw, &req) {
		return
	}
	expense, errs := req.Validate()
	if errs != nil {
		InvalidInput(c, errs)
		return
	}

	if err := database.DB.Create(expense).Error; err != nil {
		serverError(c, err, "Error al crear el registro de tipo gasto")
		return
	}
	Created(c, "Gasto creado con éxito", RegistroCreated{RegistroID: expense.ID, Tipo: RegistroTipoGasto})
}
