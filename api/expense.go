package api

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"cotizaciones/database"
	"cotizaciones/models"
	"cotizaciones/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ExpenseHandler 支出处理器
type ExpenseHandler struct {
	groupConcurrency int
}

// NewExpenseHandler 创建支出处理器，groupConcurrency 为分组查询的并发类别数
func NewExpenseHandler(groupConcurrency int) *ExpenseHandler {
	return &ExpenseHandler{groupConcurrency: groupConcurrency}
}

// ExpenseRequest 创建/更新支出请求
// 字段保留原始 JSON，类型不符不会中断解码，统一在 Validate 中报告
type ExpenseRequest struct {
	ProveedorID     json.RawMessage `json:"proveedor_id" swaggertype:"integer" example:"1"`
	ConceptoPagoID  json.RawMessage `json:"concepto_pago_id" swaggertype:"integer" example:"2"`
	Monto           json.RawMessage `json:"monto" swaggertype:"string" example:"150.50"`
	Descripcion     json.RawMessage `json:"descripcion" swaggertype:"string" example:"Compra de tóner"`
	Fecha           json.RawMessage `json:"fecha" swaggertype:"string" example:"2024-03-09"`
	Estado          json.RawMessage `json:"estado" swaggertype:"string" example:"pendiente"`
	SolicitanteID   json.RawMessage `json:"solicitante_id" swaggertype:"integer"`
	AprobadorID     json.RawMessage `json:"aprobador_id" swaggertype:"integer"`
	FechaAprobacion json.RawMessage `json:"fecha_aprobacion" swaggertype:"string"`
	FechaPago       json.RawMessage `json:"fecha_pago" swaggertype:"string"`
}

// parseDate 接受 YYYY-MM-DD 或 RFC3339
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(models.DateLayout, s, time.Local); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func optionalDate(raw json.RawMessage, field string, errs *[]string) *time.Time {
	s, ok := models.ParseRawString(raw)
	if ok && strings.TrimSpace(s) == "" {
		return nil
	}
	t, err := parseDate(s)
	if !ok || err != nil {
		*errs = append(*errs, field+" debe ser una fecha válida")
		return nil
	}
	return &t
}

func optionalID(raw json.RawMessage, field string, errs *[]string) *uint {
	if s, ok := models.ParseRawString(raw); ok && strings.TrimSpace(s) == "" {
		return nil
	}
	id, ok := models.ParseRawID(raw)
	if !ok {
		*errs = append(*errs, field+" debe ser un número")
		return nil
	}
	return &id
}

// Validate 校验全部规则并返回待写入的支出；有错误时返回全部错误信息
func (r ExpenseRequest) Validate() (*models.Expense, []string) {
	var errs []string
	expense := &models.Expense{}

	if id, ok := models.ParseRawID(r.ProveedorID); ok {
		expense.ProveedorID = id
	} else {
		errs = append(errs, "proveedor_id es requerido y debe ser un número")
	}
	if id, ok := models.ParseRawID(r.ConceptoPagoID); ok {
		expense.ConceptoPagoID = id
	} else {
		errs = append(errs, "concepto_pago_id es requerido y debe ser un número")
	}
	if monto, ok := models.ParseRawMoney(r.Monto); ok && monto.IsPositive() {
		expense.Monto = monto
	} else {
		errs = append(errs, "monto es requerido y debe ser un número positivo")
	}
	fechaStr, ok := models.ParseRawString(r.Fecha)
	if fecha, err := parseDate(fechaStr); !ok || strings.TrimSpace(fechaStr) == "" || err != nil {
		errs = append(errs, "fecha es requerida y debe ser una fecha válida")
	} else {
		expense.Fecha = fecha
	}
	estado, ok := models.ParseRawString(r.Estado)
	switch {
	case !ok:
		errs = append(errs, "estado no es válido")
	case estado == "":
		expense.Estado = models.ExpenseStatusPending
	case models.IsValidExpenseStatus(estado):
		expense.Estado = estado
	default:
		errs = append(errs, "estado no es válido")
	}
	descripcion, ok := models.ParseRawString(r.Descripcion)
	if !ok {
		errs = append(errs, "descripcion debe ser texto")
	}
	expense.SolicitanteID = optionalID(r.SolicitanteID, "solicitante_id", &errs)
	expense.AprobadorID = optionalID(r.AprobadorID, "aprobador_id", &errs)
	expense.FechaAprobacion = optionalDate(r.FechaAprobacion, "fecha_aprobacion", &errs)
	expense.FechaPago = optionalDate(r.FechaPago, "fecha_pago", &errs)

	if len(errs) > 0 {
		return nil, errs
	}
	if d := strings.TrimSpace(descripcion); d != "" {
		expense.Descripcion = &d
	}
	return expense, nil
}

// ExpenseDetail 支出及其供应商、科目、类别名称
type ExpenseDetail struct {
	ID              uint         `json:"id"`
	ProveedorID     uint         `json:"proveedor_id"`
	ConceptoPagoID  uint         `json:"concepto_pago_id"`
	Monto           models.Money `json:"monto"`
	Descripcion     *string      `json:"descripcion"`
	Fecha           time.Time    `json:"fecha"`
	Estado          string       `json:"estado"`
	SolicitanteID   *uint        `json:"solicitante_id"`
	AprobadorID     *uint        `json:"aprobador_id"`
	FechaAprobacion *time.Time   `json:"fecha_aprobacion"`
	FechaPago       *time.Time   `json:"fecha_pago"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
	Proveedor       *string      `json:"proveedor"`
	Concepto        *string      `json:"concepto"`
	Categoria       *string      `json:"categoria"`
	FechaFormateada string       `json:"fecha_formateada" gorm:"-"`
}

func expenseDetailQuery(db *gorm.DB) *gorm.DB {
	return db.Table("gastos AS g").
		Select("g.*, p.nombre AS proveedor, cp.descripcion AS concepto, cg.nombre AS categoria").
		Joins("LEFT JOIN proveedores p ON p.id = g.proveedor_id").
		Joins("LEFT JOIN conceptos_pago cp ON cp.id = g.concepto_pago_id").
		Joins("LEFT JOIN categorias_gastos cg ON cg.id = cp.categoria_id")
}

func formatExpenseDetails(rows []ExpenseDetail) {
	for i := range rows {
		rows[i].FechaFormateada = rows[i].Fecha.Format(models.DisplayDateLayout)
	}
}

// loadExpenseDetail 不存在时返回 nil, nil
func loadExpenseDetail(db *gorm.DB, id uint) (*ExpenseDetail, error) {
	var rows []ExpenseDetail
	if err := expenseDetailQuery(db).Where("g.id = ?", id).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	formatExpenseDetails(rows)
	return &rows[0], nil
}

// bindExpense 绑定并校验，失败时已写入响应
func bindExpense(c *gin.Context) (*models.Expense, bool) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidInput(c, []string{invalidBodyMessage})
		return nil, false
	}
	expense, errs := req.Validate()
	if errs != nil {
		InvalidInput(c, errs)
		return nil, false
	}
	return expense, true
}

// createExpense 写入支出并返回联表后的记录
func createExpense(db *gorm.DB, expense *models.Expense) (*ExpenseDetail, error) {
	if err := db.Create(expense).Error; err != nil {
		return nil, err
	}
	detail, err := loadExpenseDetail(db, expense.ID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, errors.New("gasto creado no encontrado")
	}
	return detail, nil
}

// Create 创建支出
// @Summary 创建支出
// @Description 校验全部字段，返回所有错误；estado 缺省为 pendiente
// @Tags 支出
// @Accept json
// @Produce json
// @Param request body ExpenseRequest true "支出信息"
// @Success 201 {object} Response{data=ExpenseDetail} "创建成功"
// @Failure 400 {object} Response "参数校验失败"
// @Router /api/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	expense, ok := bindExpense(c)
	if !ok {
		return
	}

	detail, err := createExpense(database.DB, expense)
	if err != nil {
		serverError(c, err, "Error al crear el gasto")
		return
	}
	Created(c, "Gasto creado con éxito", detail)
}

// Get 获取单条支出
// @Summary 获取单条支出
// @Tags 支出
// @Produce json
// @Param id path int true "支出ID"
// @Success 200 {object} Response{data=ExpenseDetail} "获取成功"
// @Failure 404 {object} Response "支出不存在"
// @Router /api/expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		BadRequest(c, "ID inválido")
		return
	}

	detail, err := loadExpenseDetail(database.DB, id)
	if err != nil {
		serverError(c, err, "Error al obtener el gasto")
		return
	}
	if detail == nil {
		NotFound(c, "Gasto no encontrado")
		return
	}
	Success(c, detail)
}

// Update 全量更新支出
// @Summary 更新支出
// @Tags 支出
// @Accept json
// @Produce json
// @Param id path int true "支出ID"
// @Param request body ExpenseRequest true "支出信息"
// @Success 200 {object} Response{data=ExpenseDetail} "更新成功"
// @Failure 400 {object} Response "参数校验失败"
// @Failure 404 {object} Response "支出不存在"
// @Router /api/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		BadRequest(c, "ID inválido")
		return
	}
	expense, ok := bindExpense(c)
	if !ok {
		return
	}

	result := database.DB.Model(&models.Expense{}).Where("id = ?", id).Updates(map[string]interface{}{
		"proveedor_id":     expense.ProveedorID,
		"concepto_pago_id": expense.ConceptoPagoID,
		"monto":            expense.Monto,
		"descripcion":      expense.Descripcion,
		"fecha":            expense.Fecha,
		"estado":           expense.Estado,
		"aprobador_id":     expense.AprobadorID,
		"fecha_aprobacion": expense.FechaAprobacion,
		"fecha_pago":       expense.FechaPago,
	})
	if result.Error != nil {
		serverError(c, result.Error, "Error al actualizar el gasto")
		return
	}
	if result.RowsAffected == 0 {
		NotFound(c, "Gasto no encontrado")
		return
	}

	detail, err := loadExpenseDetail(database.DB, id)
	if err != nil || detail == nil {
		serverError(c, err, "Error al actualizar el gasto")
		return
	}
	SuccessWithMessage(c, "Gasto actualizado correctamente", detail)
}

// Delete 删除支出，返回删除前的内容
// @Summary 删除支出
// @Tags 支出
// @Produce json
// @Param id path int true "支出ID"
// @Success 200 {object} Response{data=ExpenseDetail} "删除成功"
// @Failure 404 {object} Response "支出不存在"
// @Router /api/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		BadRequest(c, "ID inválido")
		return
	}

	detail, err := loadExpenseDetail(database.DB, id)
	if err != nil {
		serverError(c, err, "Error al eliminar el gasto")
		return
	}
	if detail == nil {
		NotFound(c, "Gasto no encontrado")
		return
	}

	if err := database.DB.Delete(&models.Expense{}, id).Error; err != nil {
		serverError(c, err, "Error al eliminar el gasto")
		return
	}
	SuccessWithMessage(c, "Gasto eliminado correctamente", detail)
}

// parseExpenseFilter 解析 estado/desde/hasta/categoria_id；非法值全部列出
func parseExpenseFilter(c *gin.Context) (service.ExpenseGroupFilter, []string) {
	var errs []string
	filter := service.ExpenseGroupFilter{
		Page:  positiveQuery(c, "page", defaultPage),
		Limit: positiveQuery(c, "limit", defaultLimit),
	}

	if estado := strings.TrimSpace(c.Query("estado")); estado != "" {
		if models.IsValidExpenseStatus(estado) {
			filter.Estado = estado
		} else {
			errs = append(errs, "estado no es válido")
		}
	}

	var desde, hasta time.Time
	if s := strings.TrimSpace(c.Query("desde")); s != "" {
		t, err := time.Parse(models.DateLayout, s)
		if err != nil {
			errs = append(errs, "desde debe tener el formato YYYY-MM-DD")
		} else {
			desde, filter.Desde = t, s
		}
	}
	if s := strings.TrimSpace(c.Query("hasta")); s != "" {
		t, err := time.Parse(models.DateLayout, s)
		if err != nil {
			errs = append(errs, "hasta debe tener el formato YYYY-MM-DD")
		} else {
			hasta, filter.Hasta = t, s
		}
	}
	if !desde.IsZero() && !hasta.IsZero() && desde.After(hasta) {
		errs = append(errs, "desde no puede ser posterior a hasta")
	}

	if s := strings.TrimSpace(c.Query("categoria_id")); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil || id == 0 {
			errs = append(errs, "categoria_id debe ser un número positivo")
		} else {
			cid := uint(id)
			filter.CategoriaID = &cid
		}
	}
	return filter, errs
}

// Grouped 按类别分组的支出
// @Summary 按类别分组的支出
// @Description 每个类别返回当前页支出、数量、金额合计与分页信息
// @Tags 支出
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Param estado query string false "pendiente / aprobado / pagado / rechazado"
// @Param desde query string false "起始日期 (2024-01-01)"
// @Param hasta query string false "结束日期 (2024-12-31)"
// @Param categoria_id query int false "类别ID"
// @Success 200 {object} Response{data=service.ExpenseGroupResult} "获取成功"
// @Failure 400 {object} Response "筛选参数无效"
// @Router /api/expenses [get]
func (h *ExpenseHandler) Grouped(c *gin.Context) {
	filter, errs := parseExpenseFilter(c)
	if errs != nil {
		InvalidInput(c, errs)
		return
	}

	result, err := service.NewExpenseGrouper(database.DB, h.groupConcurrency).Group(c.Request.Context(), filter)
	if err != nil {
		serverError(c, err, service.ErrGroupExpenses.Error())
		return
	}
	Success(c, result)
}

// Paginated 平铺分页的支出列表
// @Summary 支出分页列表
// @Tags 支出
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} Response{data=[]ExpenseDetail} "获取成功"
// @Router /api/expenses/paginated [get]
func (h *ExpenseHandler) Paginated(c *gin.Context) {
	page, limit := parsePagination(c)

	var total int64
	if err := database.DB.Model(&models.Expense{}).Count(&total).Error; err != nil {
		serverError(c, err, "Error al obtener gastos")
		return
	}

	rows := []ExpenseDetail{}
	if err := expenseDetailQuery(database.DB).
		Order("g.fecha DESC, g.id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Scan(&rows).Error; err != nil {
		serverError(c, err, "Error al obtener gastos")
		return
	}
	formatExpenseDetails(rows)

	SuccessWithPagination(c, rows, newPagination(page, limit, total))
}

// CategoryOption 支出类别及其科目数量
type CategoryOption struct {
	ID                uint   `json:"id"`
	Nombre            string `json:"nombre"`
	CantidadConceptos int64  `json:"cantidad_conceptos"`
}

// ConceptOption 付款科目
type ConceptOption struct {
	ID          uint   `json:"id"`
	Descripcion string `json:"descripcion"`
}

// NamedOption id + 名称
type NamedOption struct {
	ID     uint   `json:"id"`
	Nombre string `json:"nombre"`
}

// Categories 支出类别列表
// @Summary 支出类别列表
// @Tags 支出
// @Produce json
// @Success 200 {object} Response{data=[]CategoryOption} "获取成功"
// @Router /api/expenses/categories [get]
func (h *ExpenseHandler) Categories(c *gin.Context) {
	categories := []CategoryOption{}
	err := database.DB.Table("categorias_gastos AS cg").
		Select("cg.id, cg.nombre, (SELECT COUNT(*) FROM conceptos_pago cp WHERE cp.categoria_id = cg.id) AS cantidad_conceptos").
		Order("cg.nombre ASC").
		Scan(&categories).Error
	if err != nil {
		serverError(c, err, "Error al obtener categorías")
		return
	}
	Success(c, categories)
}

// Concepts 某类别下的付款科目
// @Summary 付款科目列表
// @Tags 支出
// @Produce json
// @Param categoryId path int true "类别ID"
// @Success 200 {object} Response{data=[]ConceptOption} "获取成功"
// @Router /api/expenses/concepts/{categoryId} [get]
func (h *ExpenseHandler) Concepts(c *gin.Context) {
	categoryID, ok := parseID(c, "categoryId")
	if !ok {
		BadRequest(c, "categoria_id inválido")
		return
	}

	concepts := []ConceptOption{}
	err := database.DB.Model(&models.PaymentConcept{}).
		Select("id, descripcion").
		Where("categoria_id = ?", categoryID).
		Order("descripcion ASC").
		Scan(&concepts).Error
	if err != nil {
		serverError(c, err, "Error al obtener conceptos")
		return
	}
	Success(c, concepts)
}

// Providers 供应商下拉选项
// @Summary 供应商选项
// @Tags 支出
// @Produce json
// @Success 200 {object} Response{data=[]NamedOption} "获取成功"
// @Router /api/expenses/providers [get]
func (h *ExpenseHandler) Providers(c *gin.Context) {
	providers, err := namedOptions(database.DB, &models.Provider{})
	if err != nil {
		serverError(c, err, "Error al obtener proveedores")
		return
	}
	Success(c, providers)
}

func namedOptions(db *gorm.DB, model interface{}) ([]NamedOption, error) {
	options := []NamedOption{}
	err := db.Model(model).Select("id, nombre").Order("nombre ASC").Scan(&options).Error
	return options, err
}
