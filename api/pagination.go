package api

import (
	"strconv"

	"cotizaciones/service"

	"github.com/gin-gonic/gin"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// Pagination 分页信息
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

// positiveQuery 非数字或 <=0 时返回默认值
func positiveQuery(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// parsePagination 读取 page/limit，默认 1/10
func parsePagination(c *gin.Context) (page, limit int) {
	return positiveQuery(c, "page", defaultPage), positiveQuery(c, "limit", defaultLimit)
}

func newPagination(page, limit int, total int64) Pagination {
	return Pagination{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: service.TotalPages(total, limit),
	}
}

// parseID 解析路径参数 id
func parseID(c *gin.Context, key string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
