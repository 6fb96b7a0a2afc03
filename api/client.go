package api

import (
	"net/http"
	"strings"

	"cotizaciones/database"
	"cotizaciones/models"

	"github.com/gin-gonic/gin"
)

// ClientHandler 客户处理器
type ClientHandler struct{}

// NewClientHandler 创建客户处理器
func NewClientHandler() *ClientHandler {
	return &ClientHandler{}
}

// ContactRequest 客户/供应商请求
type ContactRequest struct {
	Nombre    string `json:"nombre" binding:"required,notblank,max=100" example:"Acme S.A."`
	Email     string `json:"email" binding:"required,email,max=100" example:"contacto@acme.com"`
	Telefono  string `json:"telefono" binding:"required,phone10" example:"5512345678"`
	Direccion string `json:"direccion" binding:"required,notblank,max=255" example:"Av. Reforma 100"`
}

func (r *ContactRequest) trim() {
	r.Nombre = strings.TrimSpace(r.Nombre)
	r.Email = strings.TrimSpace(r.Email)
	r.Telefono = strings.TrimSpace(r.Telefono)
	r.Direccion = strings.TrimSpace(r.Direccion)
}

// bindContact 绑定并校验，失败时已写入响应
func bindContact(c *gin.Context) (*ContactRequest, bool) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if msgs := validationMessages(err); msgs != nil {
			ValidationFailed(c, msgs)
			return nil, false
		}
		BadRequest(c, SafeErrorMessage(err, "cuerpo de la solicitud inválido"))
		return nil, false
	}
	req.trim()
	return &req, true
}

func clientUniqueFields(nombre, email string) []uniqueField {
	return []uniqueField{
		{Key: "nombre", Column: "nombre", Value: nombre},
		{Key: "email", Column: "email", Value: email},
	}
}

// Create 创建客户
// @Summary 创建客户
// @Tags 客户
// @Accept json
// @Produce json
// @Param request body ContactRequest true "客户信息"
// @Success 201 {object} Response{data=models.Client} "创建成功"
// @Failure 409 {object} Response "名称或邮箱已存在"
// @Failure 422 {object} Response "参数校验失败"
// @Router /api/clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	req, ok := bindContact(c)
	if !ok {
		return
	}

	dup, exists, err := findDuplicates(database.DB, "clientes", 0, clientUniqueFields(req.Nombre, req.Email))
	if err != nil {
		serverError(c, err, "Error al crear el cliente")
		return
	}
	if exists {
		Conflict(c, "El cliente ya existe", dup)
		return
	}

	client := models.Client{
		Nombre:    req.Nombre,
		Email:     req.Email,
		Telefono:  req.Telefono,
		Direccion: req.Direccion,
	}
	if err := database.DB.Create(&client).Error; err != nil {
		serverError(c, err, "Error al crear el cliente")
		return
	}

	Created(c, "Cliente creado correctamente", client)
}

// List 获取客户列表
// @Summary 获取客户列表
// @Tags 客户
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} Response{data=[]models.Client} "获取成功"
// @Router /api/clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)

	var total int64
	if err := database.DB.Model(&models.Client{}).Count(&total).Error; err != nil {
		serverError(c, err, "Error al obtener los clientes")
		return
	}

	clients := []models.Client{}
	if err := database.DB.Order("id ASC").Offset((page - 1) * limit).Limit(limit).Find(&clients).Error; err != nil {
		serverError(c, err, "Error al obtener los clientes")
		return
	}

	SuccessWithPagination(c, clients, newPagination(page, limit, total))
}

// Update 更新客户
// @Summary 更新客户
// @Tags 客户
// @Accept json
// @Produce json
// @Param id path int true "客户ID"
// @Param request body ContactRequest true "客户信息"
// @Success 200 {object} Response{data=models.Client} "更新成功"
// @Failure 404 {object} Response "客户不存在"
// @Failure 409 {object} Response "名称或邮箱已存在"
// @Failure 422 {object} Response "参数校验失败"
// @Router /api/clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		BadRequest(c, "ID inválido")
		return
	}
	req, ok := bindContact(c)
	if !ok {
		return
	}

	dup, exists, err := findDuplicates(database.DB, "clientes", id, clientUniqueFields(req.Nombre, req.Email))
	if err != nil {
		serverError(c, err, "Error al actualizar el cliente")
		return
	}
	if exists {
		Conflict(c, "Ya existe otro cliente con esos datos", dup)
		return
	}

	result := database.DB.Model(&models.Client{}).Where("id = ?", id).Updates(map[string]interface{}{
		"nombre":    req.Nombre,
		"email":     req.Email,
		"telefono":  req.Telefono,
		"direccion": req.Direccion,
	})
	if result.Error != nil {
		serverError(c, result.Error, "Error al actualizar el cliente")
		return
	}
	if result.RowsAffected == 0 {
		NotFound(c, "Cliente no encontrado")
		return
	}

	var client models.Client
	if err := database.DB.First(&client, id).Error; err != nil {
		serverError(c, err, "Error al actualizar el cliente")
		return
	}
	SuccessWithMessage(c, "Cliente actualizado correctamente", client)
}

// Delete 删除客户
// @Summary 删除客户
// @Tags 客户
// @Produce json
// @Param id path int true "客户ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "客户不存在"
// @Failure 409 {object} Response "客户仍被报价单引用"
// @Router /api/clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		BadRequest(c, "ID inválido")
		return
	}
	deleteByID(c, &models.Client{}, id, "Cliente")
}

// Check 检查名称/邮箱是否已存在
// @Summary 检查客户是否存在
// @Tags 客户
// @Produce json
// @Param nombre query string false "名称（别名 name）"
// @Param email query string false "邮箱"
// @Success 200 {object} Response{data=CheckResult} "检查结果"
// @Failure 400 {object} Response "缺少参数"
// @Router /api/clients/check [get]
func (h *ClientHandler) Check(c *gin.Context) {
	nombre := queryAlias(c, "nombre", "name")
	email := strings.TrimSpace(c.Query("email"))
	if nombre == "" && email == "" {
		BadRequest(c, "Se requiere al menos un nombre o email para la verificación")
		return
	}
	checkDuplicates(c, "clientes", clientUniqueFields(nombre, email))
}

// CheckResult 唯一性检查结果
type CheckResult struct {
	Exists          bool            `json:"exists"`
	DuplicateFields map[string]bool `json:"duplicateFields"`
}

func checkDuplicates(c *gin.Context, table string, fields []uniqueField) {
	dup, exists, err := findDuplicates(database.DB, table, 0, fields)
	if err != nil {
		serverError(c, err, "Error interno al verificar duplicados")
		return
	}
	Success(c, CheckResult{Exists: exists, DuplicateFields: dup})
}

// queryAlias 读取第一个非空的查询参数
func queryAlias(c *gin.Context, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(c.Query(k)); v != "" {
			return v
		}
	}
	return ""
}

// deleteByID 删除记录；不存在返回 404，被引用返回 409
func deleteByID(c *gin.Context, model interface{}, id uint, entity string) {
	result := database.DB.Delete(model, id)
	if result.Error != nil {
		if isRowReferenced(result.Error) {
			Error(c, http.StatusConflict, entity+" en uso por otros registros, no se puede eliminar")
			return
		}
		serverError(c, result.Error, "Error al eliminar: "+strings.ToLower(entity))
		return
	}
	if result.RowsAffected == 0 {
		NotFound(c, entity+" no encontrado")
		return
	}
	SuccessWithMessage(c, entity+" eliminado correctamente", nil)
}
