package api

import (
	"strings"

	"cotizaciones/database"
	"cotizaciones/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ServiceProductHandler 服务/产品处理器
type ServiceProductHandler struct{}

// NewServiceProductHandler 创建服务/产品处理器
func NewServiceProductHandler() *ServiceProductHandler {
	return &ServiceProductHandler{}
}

// ServiceProductRequest 服务/产品请求
type ServiceProductRequest struct {
	Nombre      string       `json:"nombre" binding:"required,notblank,max=150" example:"Diseño web"`
	Descripcion string       `json:"descripcion" binding:"required,notblank" example:"Sitio de 5 secciones"`
	Precio      models.Money `json:"precio" binding:"required,gt=0" swaggertype:"string" example:"1500.00"`
	Tipo        string       `json:"tipo" binding:"required,oneof=servicio producto" example:"servicio"`
}

func bindServiceProduct(c *gin.Context) (*ServiceProductRequest, bool) {
	var req ServiceProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if msgs := validationMessages(err); msgs != nil {
			ValidationFailed(c, msgs)
			return nil, false
		}
		BadRequest(c, SafeErrorMessage(err, "cuerpo de la solicitud inválido"))
		return nil, false
	}
	req.Nombre = strings.TrimSpace(req.Nombre)
	req.Descripcion = strings.TrimSpace(req.Descripcion)
	return &req, true
}

func serviceUniqueFields(nombre string) []uniqueField {
	return []uniqueField{{Key: "nombre", Column: "nombre", Value: nombre}}
}

// Create 创建服务/产品
// @Summary 创建服务/产品
// @Tags 服务产品
// @Accept json
// @Produce json
// @Param request body ServiceProductRequest true "服务/产品信息"
// @Success 201 {object} Response{data=models.ServiceProduct} "创建成功"
// @Failure 409 {object} Response "名称已存在"
// @Failure 422 {object} Response "参数校验失败"
// @Router /api/services-products [post]
func (h *ServiceProductHandler) Create(c *gin.Context) {
	req, ok := bindServiceProduct(c)
	if !ok {
		return
	}

	dup, exists, err := findDuplicates(database.DB, "servicios_productos", 0, serviceUniqueFields(req.Nombre))
	if err != nil {
		serverError(c, err, "Error al crear el servicio/producto")
		return
	}
	if exists {
		Conflict(c, "El servicio/producto ya existe", dup)
		return
	}

	item := models.ServiceProduct{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Precio:      req.Precio,
		Tipo:        req.Tipo,
	}
	if err := database.DB.Create(&item).Error; err != nil {
		serverError(c, err, "Error al crear el servicio/producto")
		return
	}

	Created(c, "Servicio/producto creado correctamente", item)
}

// List 获取服务/产品列表
// @Summary 获取服务/产品列表
// @Tags 服务产品
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Param tipo query string false "servicio / producto"
// @Success 200 {object} Response{data=[]models.ServiceProduct} "获取成功"
// @Failure 400 {object} Response "类型无效"
// @Router /api/services-products [get]
func (h *ServiceProductHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)

	tipo := strings.TrimSpace(c.Query("tipo"))
	if tipo != "" && !models.IsValidServiceType(tipo) {
		InvalidInput(c, []string{"tipo debe ser servicio o producto"})
		return
	}
	query := func() *gorm.DB {
		q := database.DB.Model(&models.ServiceProduct{})
		if tipo != "" {
			q = q.Where("tipo = ?", tipo)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		serverError(c, err, "Error al obtener los servicios/productos")
		return
	}

	items := []models.ServiceProduct{}
	if err := query().Order("id ASC").Offset((page - 1) * limit).Limit(limit).Find(&items).Error; err != nil {
		serverError(c, err, "Error al obtener los servicios/productos")
		return
	}

	SuccessWithPagination(c, items, newPagination(page, limit, total))
}

// Update 更新服务/产品
// @Summary 更新服务/产品
// @Tags 服务产品
// @Accept json
// @Produce json
// @Param id path int true "服务/产品ID"
// @Param request body ServiceProductRequest true "服务/产品信息"
// @Success 200 {object} Response{data=models.ServiceProduct} "更新成功"
// @Failure 404 {object} Response "不存在"
// @Failure 409 {object} Response "名称已存在"
// @Router /api/services-products/{id} [put]
func (h *ServiceProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		BadRequest(c, "ID inválido")
		return
	}
	req, ok := bindServiceProduct(c)
	if !ok {
		return
	}

	dup, exists, err := findDuplicates(database.DB, "servicios_productos", id, serviceUniqueFields(req.Nombre))
	if err != nil {
		serverError(c, err, "Error al actualizar el servicio/producto")
		return
	}
	if exists {
		Conflict(c, "Ya existe otro servicio/producto con ese nombre", dup)
		return
	}

	result := database.DB.Model(&models.ServiceProduct{}).Where("id = ?", id).Updates(map[string]interface{}{
		"nombre":      req.Nombre,
		"descripcion": req.Descripcion,
		"precio":      req.Precio,
		"tipo":        req.Tipo,
	})
	if result.Error != nil {
		serverError(c, result.Error, "Error al actualizar el servicio/producto")
		return
	}
	if result.RowsAffected == 0 {
		NotFound(c, "Servicio/producto no encontrado")
		return
	}

	var item models.ServiceProduct
	if err := database.DB.First(&item, id).Error; err != nil {
		serverError(c, err, "Error al actualizar el servicio/producto")
		return
	}
	SuccessWithMessage(c, "Servicio/producto actualizado correctamente", item)
}

// Delete 删除服务/产品
// @Summary 删除服务/产品
// @Tags 服务产品
// @Produce json
// @Param id path int true "服务/产品ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "不存在"
// @Failure 409 {object} Response "仍被报价单引用"
// @Router /api/services-products/{id} [delete]
func (h *ServiceProductHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		BadRequest(c, "ID inválido")
		return
	}
	deleteByID(c, &models.ServiceProduct{}, id, "Servicio/producto")
}

// Check 检查名称是否已存在
// @Summary 检查服务/产品是否存在
// @Tags 服务产品
// @Produce json
// @Param nombre query string false "名称（别名 name）"
// @Success 200 {object} Response{data=CheckResult} "检查结果"
// @Failure 400 {object} Response "缺少参数"
// @Router /api/services-products/check [get]
func (h *ServiceProductHandler) Check(c *gin.Context) {
	nombre := queryAlias(c, "nombre", "name")
	if nombre == "" {
		BadRequest(c, "Se requiere un nombre para la verificación")
		return
	}
	checkDuplicates(c, "servicios_productos", serviceUniqueFields(nombre))
}
