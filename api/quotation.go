package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cotizaciones/config"
	"cotizaciones/database"
	"cotizaciones/models"
	"cotizaciones/service"

	"github.com/gin-gonic/gin"
)

// QuotationHandler 报价单处理器
type QuotationHandler struct {
	pdf   *service.QuotationPDF
	email *service.EmailService
}

// NewQuotationHandler 创建报价单处理器
func NewQuotationHandler(cfg *config.Config) *QuotationHandler {
	return &QuotationHandler{
		pdf:   service.NewQuotationPDF(cfg.Company, cfg.PDF),
		email: service.NewEmailService(&cfg.Email, cfg.Company),
	}
}

// QuotationStatusRequest 更新状态请求
type QuotationStatusRequest struct {
	Estado string `json:"estado" example:"aprobada"`
}

// QuotationCreated 创建结果
type QuotationCreated struct {
	CotizacionID uint         `json:"cotizacion_id"`
	Total        models.Money `json:"total"`
}

// bindQuotation 绑定并校验，失败时已写入响应
func bindQuotation(c *gin.Context) (*service.QuotationInput, bool) {
	var in service.QuotationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		InvalidInput(c, []string{invalidBodyMessage})
		return nil, false
	}
	if errs := in.Validate(); errs != nil {
		InvalidInput(c, errs)
		return nil, false
	}
	return &in, true
}

// List 报价单列表
// @Summary 报价单列表
// @Tags 报价单
// @Produce json
// @Param estado query string false "pendiente / aprobada / rechazada"
// @Success 200 {object} Response{data=[]service.QuotationSummary} "获取成功"
// @Failure 400 {object} Response "状态无效"
// @Router /api/quotations [get]
func (h *QuotationHandler) List(c *gin.Context) {
	estado := strings.TrimSpace(c.Query("estado"))
	if estado != "" && !models.IsValidQuotationStatus(estado) {
		InvalidInput(c, []string{"estado no es válido"})
		return
	}

	list, err := service.ListQuotations(c.Request.Context(), database.DB, estado)
	if err != nil {
		serverError(c, err, "Error al obtener las cotizaciones")
		return
	}
	Success(c, list)
}

// Get 报价单详情
// @Summary 报价单详情
// @Tags 报价单
// @Produce json
// @Param id path int true "报价单ID"
// @Success 200 {object} Response{data=service.QuotationSummary} "获取成功"
// @Failure 404 {object} Response "报价单不存在"
// @Router /api/quotations/{id} [get]
func (h *QuotationHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		BadRequest(c, "ID inválido")
		return
	}

	q, err := service.GetQuotation(c.Request.Context(), database.DB, id)
	if errors.Is(err, service.ErrQuotationNotFound) {
		NotFound(c, "Cotización no encontrada")
		return
	}
	if err != nil {
		serverError(c, err, "Error al obtener la cotización")
		return
	}
	Success(c, q)
}

// Create 创建报价单（含明细，单事务）
// @Summary 创建报价单
// @Description total 由明细计算
// @Tags 报价单
// @Accept json
// @Produce json
// @Param request body service.QuotationInput true "报价单"
// @Success 201 {object} Response{data=QuotationCreated} "创建成功"
// @Failure 400 {object} Response "参数校验失败"
// @Router /api/quotations [post]
func (h *QuotationHandler) Create(c *gin.Context) {
	in, ok := bindQuotation(c)
	if !ok {
		return
	}

	q, err := service.CreateQuotation(c.Request.Context(), database.DB, *in)
	if err != nil {
		serverError(c, err, "Error al crear la cotización")
		return
	}
	Created(c, "Cotización creada con éxito", QuotationCreated{CotizacionID: q.ID, Total: q.Total})
}

// UpdateStatus 更新报价单状态
// @Summary 更新报价单状态
// @Tags 报价单
// @Accept json
// @Produce json
// @Param id path int true "报价单ID"
// @Param request body QuotationStatusRequest true "新状态"
// @Success 200 {object} Response "更新成功"
// @Failure 400 {object} Response "状态无效"
// @Failure 404 {object} Response "报价单不存在"
// @Router /api/quotations/{id}/estado [put]
func (h *QuotationHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		BadRequest(c, "ID inválido")
		return
	}
	var req QuotationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !models.IsValidQuotationStatus(req.Estado) {
		InvalidInput(c, []string{"estado no es válido"})
		return
	}

	err := service.UpdateQuotationStatus(c.Request.Context(), database.DB, id, req.Estado)
	if errors.Is(err, service.ErrQuotationNotFound) {
		NotFound(c, "Cotización no encontrada")
		return
	}
	if err != nil {
		serverError(c, err, "Error al actualizar el estado de la cotización")
		return
	}
	SuccessWithMessage(c, "Estado de la cotización actualizado", gin.H{"id": id, "estado": req.Estado})
}

// renderPDF 加载并渲染到内存；失败时已写入响应
func (h *QuotationHandler) renderPDF(c *gin.Context, id uint) (*service.QuotationDocument, []byte, bool) {
	doc, err := service.LoadQuotationDocument(c.Request.Context(), database.DB, id)
	if errors.Is(err, service.ErrQuotationNotFound) {
		NotFound(c, "Cotización no encontrada")
		return nil, nil, false
	}
	if err != nil {
		serverError(c, err, "Error al generar PDF")
		return nil, nil, false
	}

	var buf bytes.Buffer
	if err := h.pdf.Render(doc, &buf); err != nil {
		serverError(c, err, "Error al generar PDF")
		return nil, nil, false
	}
	return doc, buf.Bytes(), true
}

// PDF 下载报价单 PDF
// @Summary 下载报价单 PDF
// @Tags 报价单
// @Produce application/pdf
// @Param id path int true "报价单ID"
// @Success 200 {file} file "PDF 文件"
// @Failure 404 {object} Response "报价单不存在"
// @Router /api/quotations/{id}/pdf [get]
func (h *QuotationHandler) PDF(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		BadRequest(c, "ID inválido")
		return
	}

	_, pdf, ok := h.renderPDF(c, id)
	if !ok {
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", service.QuotationAttachmentName(id)))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Send 将报价单 PDF 发送到客户邮箱
// @Summary 邮件发送报价单
// @Tags 报价单
// @Produce json
// @Param id path int true "报价单ID"
// @Success 200 {object} Response "发送成功"
// @Failure 404 {object} Response "报价单不存在"
// @Failure 429 {object} Response "请求过于频繁"
// @Failure 503 {object} Response "邮件服务未启用"
// @Router /api/quotations/{id}/send [post]
func (h *QuotationHandler) Send(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		BadRequest(c, "ID inválido")
		return
	}
	if !h.email.Enabled() {
		ServiceUnavailable(c, service.ErrEmailDisabled.Error())
		return
	}

	doc, pdf, ok := h.renderPDF(c, id)
	if !ok {
		return
	}
	if err := h.email.SendQuotation(doc.Client.Email, doc.Client.Nombre, id, pdf); err != nil {
		serverError(c, err, "Error al enviar la cotización")
		return
	}
	SuccessWithMessage(c, "Cotización enviada a "+doc.Client.Email, nil)
}
