package api

import (
	"cotizaciones/database"
	"cotizaciones/models"

	"github.com/gin-gonic/gin"
)

// ProviderHandler 供应商处理器
type ProviderHandler struct{}

// NewProviderHandler 创建供应商处理器
func NewProviderHandler() *ProviderHandler {
	return &ProviderHandler{}
}

func providerUniqueFields(nombre, email, telefono string) []uniqueField {
	return []uniqueField{
		{Key: "nombre", Column: "nombre", Value: nombre},
		{Key: "email", Column: "email", Value: email},
		{Key: "telefono", Column: "telefono", Value: telefono},
	}
}

// Create 创建供应商
// @Summary 创建供应商
// @Tags 供应商
// @Accept json
// @Produce json
// @Param request body ContactRequest true "供应商信息"
// @Success 201 {object} Response{data=models.Provider} "创建成功"
// @Failure 409 {object} Response "名称、邮箱或电话已存在"
// @Failure 422 {object} Response "参数校验失败"
// @Router /api/providers [post]
func (h *ProviderHandler) Create(c *gin.Context) {
	req, ok := bindContact(c)
	if !ok {
		return
	}

	dup, exists, err := findDuplicates(database.DB, "proveedores", 0,
		providerUniqueFields(req.Nombre, req.Email, req.Telefono))
	if err != nil {
		serverError(c, err, "Error al crear el proveedor")
		return
	}
	if exists {
		Conflict(c, "El proveedor ya existe", dup)
		return
	}

	provider := models.Provider{
		Nombre:    req.Nombre,
		Email:     req.Email,
		Telefono:  req.Telefono,
		Direccion: req.Direccion,
	}
	if err := database.DB.Create(&provider).Error; err != nil {
		serverError(c, err, "Error al crear el proveedor")
		return
	}

	Created(c, "Proveedor creado correctamente", provider)
}

// List 获取供应商列表
// @Summary 获取供应商列表
// @Tags 供应商
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} Response{data=[]models.Provider} "获取成功"
// @Router /api/providers [get]
func (h *ProviderHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)

	var total int64
	if err := database.DB.Model(&models.Provider{}).Count(&total).Error; err != nil {
		serverError(c, err, "Error al obtener los proveedores")
		return
	}

	providers := []models.Provider{}
	if err := database.DB.Order("id ASC").Offset((page - 1) * limit).Limit(limit).Find(&providers).Error; err != nil {
		serverError(c, err, "Error al obtener los proveedores")
		return
	}

	SuccessWithPagination(c, providers, newPagination(page, limit, total))
}

// Update 更新供应商
// @Summary 更新供应商
// @Tags 供应商
// @Accept json
// @Produce json
// @Param id path int true "供应商ID"
// @Param request body ContactRequest true "供应商信息"
// @Success 200 {object} Response{data=models.Provider} "更新成功"
// @Failure 404 {object} Response "供应商不存在"
// @Failure 409 {object} Response "名称、邮箱或电话已存在"
// @Router /api/providers/{id} [put]
func (h *ProviderHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		BadRequest(c, "ID inválido")
		return
	}
	req, ok := bindContact(c)
	if !ok {
		return
	}

	dup, exists, err := findDuplicates(database.DB, "proveedores", id,
		providerUniqueFields(req.Nombre, req.Email, req.Telefono))
	if err != nil {
		serverError(c, err, "Error al actualizar el proveedor")
		return
	}
	if exists {
		Conflict(c, "Ya existe otro proveedor con esos datos", dup)
		return
	}

	result := database.DB.Model(&models.Provider{}).Where("id = ?", id).Updates(map[string]interface{}{
		"nombre":    req.Nombre,
		"email":     req.Email,
		"telefono":  req.Telefono,
		"direccion": req.Direccion,
	})
	if result.Error != nil {
		serverError(c, result.Error, "Error al actualizar el proveedor")
		return
	}
	if result.RowsAffected == 0 {
		NotFound(c, "Proveedor no encontrado")
		return
	}

	var provider models.Provider
	if err := database.DB.First(&provider, id).Error; err != nil {
		serverError(c, err, "Error al actualizar el proveedor")
		return
	}
	SuccessWithMessage(c, "Proveedor actualizado correctamente", provider)
}

// Delete 删除供应商
// @Summary 删除供应商
// @Tags 供应商
// @Produce json
// @Param id path int true "供应商ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "供应商不存在"
// @Failure 409 {object} Response "供应商仍被支出引用"
// @Router /api/providers/{id} [delete]
func (h *ProviderHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		BadRequest(c, "ID inválido")
		return
	}
	deleteByID(c, &models.Provider{}, id, "Proveedor")
}

// Check 检查名称/邮箱/电话是否已存在
// @Summary 检查供应商是否存在
// @Tags 供应商
// @Produce json
// @Param nombre query string false "名称（别名 name）"
// @Param email query string false "邮箱"
// @Param telefono query string false "电话（别名 phone）"
// @Success 200 {object} Response{data=CheckResult} "检查结果"
// @Failure 400 {object} Response "缺少参数"
// @Router /api/providers/check [get]
func (h *ProviderHandler) Check(c *gin.Context) {
	nombre := queryAlias(c, "nombre", "name")
	email := queryAlias(c, "email")
	telefono := queryAlias(c, "telefono", "phone")
	if nombre == "" && email == "" && telefono == "" {
		BadRequest(c, "Se requiere al menos un nombre, email o teléfono para la verificación")
		return
	}
	checkDuplicates(c, "proveedores", providerUniqueFields(nombre, email, telefono))
}
