package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 通用响应结构
type Response struct {
	Code            int             `json:"code"`
	Message         string          `json:"message"`
	Data            interface{}     `json:"data,omitempty"`
	Errors          []string        `json:"errors,omitempty"`
	DuplicateFields map[string]bool `json:"duplicateFields,omitempty"`
	Pagination      *Pagination     `json:"pagination,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 带消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: message,
		Data:    data,
	})
}

// SuccessWithPagination 列表 + 分页信息
func SuccessWithPagination(c *gin.Context, data interface{}, p Pagination) {
	c.JSON(http.StatusOK, Response{
		Code:       200,
		Message:    "success",
		Data:       data,
		Pagination: &p,
	})
}

// Created 201 响应
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: message,
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 400 错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// InvalidInput 400，附带全部校验错误
func InvalidInput(c *gin.Context, errs []string) {
	c.JSON(http.StatusBadRequest, Response{
		Code:    http.StatusBadRequest,
		Message: "datos inválidos",
		Errors:  errs,
	})
}

// ValidationFailed 422，附带全部校验错误
func ValidationFailed(c *gin.Context, errs []string) {
	c.JSON(http.StatusUnprocessableEntity, Response{
		Code:    http.StatusUnprocessableEntity,
		Message: "datos inválidos",
		Errors:  errs,
	})
}

// Conflict 409，duplicateFields 标明每个字段是否冲突
func Conflict(c *gin.Context, message string, duplicateFields map[string]bool) {
	c.JSON(http.StatusConflict, Response{
		Code:            http.StatusConflict,
		Message:         message,
		DuplicateFields: duplicateFields,
	})
}

// InternalError 500 错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// NotFound 404 错误响应
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// ServiceUnavailable 503 错误响应
func ServiceUnavailable(c *gin.Context, message string) {
	Error(c, http.StatusServiceUnavailable, message)
}

// 请求体无法解析为 JSON 对象时的固定提示，不回显解码器错误
const (
	invalidBodyMessage  = "cuerpo de la solicitud inválido: se esperaba un objeto JSON"
	invalidDatosMessage = "datos inválidos: se esperaba un objeto JSON"
)

// serverError 记录内部错误并返回 500，release 模式下只返回 message
func serverError(c *gin.Context, err error, message string) {
	slog.Error(message, "path", c.FullPath(), "error", err)
	InternalError(c, SafeErrorMessage(err, message))
}
