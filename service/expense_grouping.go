package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cotizaciones/models"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ErrGroupExpenses 分组查询失败，不返回部分结果
var ErrGroupExpenses = errors.New("error al obtener los gastos por categoría")

const (
	defaultGroupPage  = 1
	defaultGroupLimit = 10
)

// ExpenseGroupFilter 分组查询条件
// Desde/Hasta 为 YYYY-MM-DD，闭区间
type ExpenseGroupFilter struct {
	Page        int
	Limit       int
	Estado      string
	Desde       string
	Hasta       string
	CategoriaID *uint
}

// Normalize 填充默认分页参数
func (f ExpenseGroupFilter) Normalize() ExpenseGroupFilter {
	if f.Page <= 0 {
		f.Page = defaultGroupPage
	}
	if f.Limit <= 0 {
		f.Limit = defaultGroupLimit
	}
	return f
}

// Offset 当前页偏移量
func (f ExpenseGroupFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// GroupedExpense 分组中的单条支出
type GroupedExpense struct {
	ID          uint         `json:"id"`
	Monto       models.Money `json:"monto"`
	Descripcion *string      `json:"descripcion"`
	Fecha       string       `json:"fecha"`
	Estado      string       `json:"estado"`
	Proveedor   string       `json:"proveedor"`
	Concepto    string       `json:"concepto"`
}

// CategoryPagination 单个类别的分页信息
type CategoryPagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// CategoryExpenses 一个类别及其当前页的支出
type CategoryExpenses struct {
	ID         uint               `json:"id"`
	Categoria  string             `json:"categoria"`
	Gastos     []GroupedExpense   `json:"gastos"`
	Total      models.Money       `json:"total"`
	Cantidad   int64              `json:"cantidad"`
	Pagination CategoryPagination `json:"pagination"`
}

// GroupPagination 全局分页信息
type GroupPagination struct {
	Page             int   `json:"page"`
	Limit            int   `json:"limit"`
	TotalItems       int64 `json:"totalItems"`
	TotalPages       int   `json:"totalPages"`
	MaxCategoryPages int   `json:"maxCategoryPages"`
}

// ExpenseGroupResult 分组查询结果
type ExpenseGroupResult struct {
	Data       []CategoryExpenses `json:"data"`
	Pagination GroupPagination    `json:"pagination"`
}

// ExpenseGrouper 按类别分组查询支出
type ExpenseGrouper struct {
	db          *gorm.DB
	concurrency int
}

// NewExpenseGrouper concurrency 为同时查询的类别数上限，<=0 时按 1 处理
func NewExpenseGrouper(db *gorm.DB, concurrency int) *ExpenseGrouper {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &ExpenseGrouper{db: db, concurrency: concurrency}
}

type groupedExpenseRow struct {
	ID          uint
	Monto       models.Money
	Descripcion *string
	Fecha       time.Time
	Estado      string
	Proveedor   string
	Concepto    string
}

// Group 查询所有（或指定）类别，每个类别返回当前页支出、总数、金额合计
func (g *ExpenseGrouper) Group(ctx context.Context, filter ExpenseGroupFilter) (*ExpenseGroupResult, error) {
	filter = filter.Normalize()

	categories, err := g.categories(ctx, filter.CategoriaID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGroupExpenses, err)
	}

	data := make([]CategoryExpenses, len(categories))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)
	for i, cat := range categories {
		i, cat := i, cat
		eg.Go(func() error {
			group, err := g.categoryExpenses(egCtx, cat, filter)
			if err != nil {
				return fmt.Errorf("categoría %d: %w", cat.ID, err)
			}
			data[i] = group
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGroupExpenses, err)
	}

	result := &ExpenseGroupResult{
		Data: data,
		Pagination: GroupPagination{
			Page:  filter.Page,
			Limit: filter.Limit,
		},
	}
	for _, c := range data {
		result.Pagination.TotalItems += c.Cantidad
		if c.Pagination.TotalPages > result.Pagination.MaxCategoryPages {
			result.Pagination.MaxCategoryPages = c.Pagination.TotalPages
		}
	}
	result.Pagination.TotalPages = TotalPages(result.Pagination.TotalItems, filter.Limit)

	return result, nil
}

func (g *ExpenseGrouper) categories(ctx context.Context, categoryID *uint) ([]models.ExpenseCategory, error) {
	var categories []models.ExpenseCategory
	q := g.db.WithContext(ctx).Model(&models.ExpenseCategory{})
	if categoryID != nil {
		q = q.Where("id = ?", *categoryID)
	}
	if err := q.Order("nombre ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// filtered 每次调用构建新的查询，切片、计数、求和互不共享条件
func (g *ExpenseGrouper) filtered(ctx context.Context, categoryID uint, filter ExpenseGroupFilter) *gorm.DB {
	q := g.db.WithContext(ctx).
		Table("gastos AS g").
		Joins("JOIN conceptos_pago cp ON cp.id = g.concepto_pago_id").
		Where("cp.categoria_id = ?", categoryID)
	if filter.Estado != "" {
		q = q.Where("g.estado = ?", filter.Estado)
	}
	if filter.Desde != "" {
		q = q.Where("g.fecha >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("g.fecha <= ?", filter.Hasta)
	}
	return q
}

func (g *ExpenseGrouper) categoryExpenses(ctx context.Context, cat models.ExpenseCategory, filter ExpenseGroupFilter) (CategoryExpenses, error) {
	var rows []groupedExpenseRow
	err := g.filtered(ctx, cat.ID, filter).
		Joins("JOIN proveedores p ON p.id = g.proveedor_id").
		Select("g.id, g.monto, g.descripcion, g.fecha, g.estado, p.nombre AS proveedor, cp.descripcion AS concepto").
		Order("g.fecha DESC").
		Limit(filter.Limit).
		Offset(filter.Offset()).
		Scan(&rows).Error
	if err != nil {
		return CategoryExpenses{}, err
	}

	var count int64
	if err := g.filtered(ctx, cat.ID, filter).Count(&count).Error; err != nil {
		return CategoryExpenses{}, err
	}

	var total models.Money
	if err := g.filtered(ctx, cat.ID, filter).
		Select("COALESCE(SUM(g.monto), 0)").
		Row().Scan(&total); err != nil {
		return CategoryExpenses{}, err
	}

	gastos := make([]GroupedExpense, 0, len(rows))
	for _, r := range rows {
		gastos = append(gastos, GroupedExpense{
			ID:          r.ID,
			Monto:       r.Monto,
			Descripcion: r.Descripcion,
			Fecha:       r.Fecha.Format(models.DisplayDateLayout),
			Estado:      r.Estado,
			Proveedor:   r.Proveedor,
			Concepto:    r.Concepto,
		})
	}

	return CategoryExpenses{
		ID:        cat.ID,
		Categoria: cat.Nombre,
		Gastos:    gastos,
		Total:     total,
		Cantidad:  count,
		Pagination: CategoryPagination{
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalPages: TotalPages(count, filter.Limit),
		},
	}, nil
}

// TotalPages ceil(count/limit)，count 为 0 时返回 0
func TotalPages(count int64, limit int) int {
	if count <= 0 || limit <= 0 {
		return 0
	}
	return int((count + int64(limit) - 1) / int64(limit))
}
