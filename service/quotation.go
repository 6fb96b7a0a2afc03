package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cotizaciones/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrQuotationNotFound 报价单不存在
var ErrQuotationNotFound = errors.New("cotización no encontrada")

// QuotationItemInput 报价单明细输入
type QuotationItemInput struct {
	ServicioProductosID *uint         `json:"servicio_productos_id"`
	Cantidad            *int          `json:"cantidad"`
	PrecioUnitario      *models.Money `json:"precio_unitario" swaggertype:"string"`
}

// UnmarshalJSON 类型不符的字段保持为空，交由 Validate 报告
func (item *QuotationItemInput) UnmarshalJSON(data []byte) error {
	var raw struct {
		ServicioProductosID json.RawMessage `json:"servicio_productos_id"`
		Cantidad            json.RawMessage `json:"cantidad"`
		PrecioUnitario      json.RawMessage `json:"precio_unitario"`
	}
	*item = QuotationItemInput{}
	if err := json.Unmarshal(data, &raw); err != nil {
		// 非对象的明细按全部字段缺失处理
		return nil
	}
	if id, ok := models.ParseRawID(raw.ServicioProductosID); ok {
		item.ServicioProductosID = &id
	}
	if qty, ok := models.ParseRawInt(raw.Cantidad); ok {
		item.Cantidad = &qty
	}
	if price, ok := models.ParseRawMoney(raw.PrecioUnitario); ok {
		item.PrecioUnitario = &price
	}
	return nil
}

// QuotationInput 创建报价单输入，total 由明细计算，不接受客户端传值
type QuotationInput struct {
	ClienteID *uint                `json:"cliente_id"`
	Estado    string               `json:"estado"`
	Detalle   []QuotationItemInput `json:"detalle"`

	estadoInvalid bool
}

// UnmarshalJSON 仅在请求体不是 JSON 对象时返回错误
func (in *QuotationInput) UnmarshalJSON(data []byte) error {
	var raw struct {
		ClienteID json.RawMessage `json:"cliente_id"`
		Estado    json.RawMessage `json:"estado"`
		Detalle   json.RawMessage `json:"detalle"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*in = QuotationInput{}
	if id, ok := models.ParseRawID(raw.ClienteID); ok {
		in.ClienteID = &id
	}
	estado, ok := models.ParseRawString(raw.Estado)
	in.Estado, in.estadoInvalid = estado, !ok
	var items []json.RawMessage
	if json.Unmarshal(raw.Detalle, &items) == nil {
		in.Detalle = make([]QuotationItemInput, len(items))
		for i, item := range items {
			_ = in.Detalle[i].UnmarshalJSON(item)
		}
	}
	return nil
}

// Validate 返回全部校验错误，无错误时返回 nil
func (in QuotationInput) Validate() []string {
	var errs []string
	if in.ClienteID == nil || *in.ClienteID == 0 {
		errs = append(errs, "cliente_id es requerido y debe ser un número")
	}
	if in.estadoInvalid || (in.Estado != "" && !models.IsValidQuotationStatus(in.Estado)) {
		errs = append(errs, "estado no es válido")
	}
	if len(in.Detalle) == 0 {
		errs = append(errs, "detalle debe contener al menos un servicio o producto")
	}
	for i, item := range in.Detalle {
		if item.ServicioProductosID == nil || *item.ServicioProductosID == 0 {
			errs = append(errs, fmt.Sprintf("detalle[%d].servicio_productos_id es requerido y debe ser un número", i))
		}
		if item.Cantidad == nil || *item.Cantidad <= 0 {
			errs = append(errs, fmt.Sprintf("detalle[%d].cantidad debe ser un entero positivo", i))
		}
		if item.PrecioUnitario == nil || !item.PrecioUnitario.IsPositive() {
			errs = append(errs, fmt.Sprintf("detalle[%d].precio_unitario debe ser un número positivo", i))
		}
	}
	return errs
}

// Total Σ cantidad × precio_unitario，仅对已校验的输入调用
func (in QuotationInput) Total() models.Money {
	total := models.Money{}
	for _, item := range in.Detalle {
		total = total.Add(item.PrecioUnitario.Mul(decimal.NewFromInt(int64(*item.Cantidad))))
	}
	return total
}

// CreateQuotation 在同一事务中写入报价单及全部明细，任一明细失败则整体回滚
func CreateQuotation(ctx context.Context, db *gorm.DB, in QuotationInput) (*models.Quotation, error) {
	estado := in.Estado
	if estado == "" {
		estado = models.QuotationStatusPending
	}
	now := time.Now()
	quotation := models.Quotation{
		ClienteID: *in.ClienteID,
		Fecha:     time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		Total:     in.Total(),
		Estado:    estado,
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&quotation).Error; err != nil {
			return err
		}
		details := make([]models.QuotationDetail, 0, len(in.Detalle))
		for _, item := range in.Detalle {
			details = append(details, models.QuotationDetail{
				CotizacionID:        quotation.ID,
				ServicioProductosID: *item.ServicioProductosID,
				Cantidad:            *item.Cantidad,
				PrecioUnitario:      *item.PrecioUnitario,
			})
		}
		return tx.Create(&details).Error
	})
	if err != nil {
		return nil, fmt.Errorf("crear cotización: %w", err)
	}
	return &quotation, nil
}

// QuotationLine 报价单中的一行明细（列表/详情展示用）
type QuotationLine struct {
	CotizacionID   uint         `json:"-"`
	Servicio       string       `json:"servicio"`
	Descripcion    string       `json:"descripcion"`
	Cantidad       int          `json:"cantidad"`
	PrecioUnitario models.Money `json:"precio_unitario"`
}

// QuotationSummary 报价单及客户信息
type QuotationSummary struct {
	ID            uint            `json:"id"`
	Fecha         time.Time       `json:"fecha"`
	Total         models.Money    `json:"total"`
	Estado        string          `json:"estado"`
	ClienteNombre string          `json:"cliente_nombre"`
	ClienteEmail  string          `json:"cliente_email,omitempty"`
	Detalle       []QuotationLine `json:"detalle" gorm:"-"`
}

// ListQuotations 查询报价单列表，明细用一次 IN 查询加载
func ListQuotations(ctx context.Context, db *gorm.DB, estado string) ([]QuotationSummary, error) {
	var list []QuotationSummary
	q := db.WithContext(ctx).
		Table("cotizaciones AS c").
		Select("c.id, c.fecha, c.total, c.estado, cli.nombre AS cliente_nombre").
		Joins("JOIN clientes cli ON c.cliente_id = cli.id")
	if estado != "" {
		q = q.Where("c.estado = ?", estado)
	}
	if err := q.Order("c.id DESC").Scan(&list).Error; err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return []QuotationSummary{}, nil
	}

	ids := make([]uint, len(list))
	for i := range list {
		ids[i] = list[i].ID
	}
	lines, err := quotationLines(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Detalle = lines[list[i].ID]
		if list[i].Detalle == nil {
			list[i].Detalle = []QuotationLine{}
		}
	}
	return list, nil
}

// GetQuotation 查询单个报价单（含客户邮箱与明细）
func GetQuotation(ctx context.Context, db *gorm.DB, id uint) (*QuotationSummary, error) {
	var list []QuotationSummary
	err := db.WithContext(ctx).
		Table("cotizaciones AS c").
		Select("c.id, c.fecha, c.total, c.estado, cli.nombre AS cliente_nombre, cli.email AS cliente_email").
		Joins("JOIN clientes cli ON c.cliente_id = cli.id").
		Where("c.id = ?", id).
		Scan(&list).Error
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrQuotationNotFound
	}

	lines, err := quotationLines(ctx, db, []uint{id})
	if err != nil {
		return nil, err
	}
	q := list[0]
	q.Detalle = lines[id]
	if q.Detalle == nil {
		q.Detalle = []QuotationLine{}
	}
	return &q, nil
}

func quotationLines(ctx context.Context, db *gorm.DB, ids []uint) (map[uint][]QuotationLine, error) {
	var lines []QuotationLine
	err := db.WithContext(ctx).
		Table("detalle_cotizacion AS dc").
		Select("dc.cotizacion_id, sp.nombre AS servicio, sp.descripcion, dc.cantidad, dc.precio_unitario").
		Joins("JOIN servicios_productos sp ON sp.id = dc.servicio_productos_id").
		Where("dc.cotizacion_id IN ?", ids).
		Order("dc.id ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	byQuotation := make(map[uint][]QuotationLine, len(ids))
	for _, l := range lines {
		byQuotation[l.CotizacionID] = append(byQuotation[l.CotizacionID], l)
	}
	return byQuotation, nil
}

// UpdateQuotationStatus 更新报价单状态，无匹配行时返回 ErrQuotationNotFound
func UpdateQuotationStatus(ctx context.Context, db *gorm.DB, id uint, estado string) error {
	result := db.WithContext(ctx).
		Model(&models.Quotation{}).
		Where("id = ?", id).
		Update("estado", estado)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrQuotationNotFound
	}
	return nil
}

// DocumentClient 报价单文档中的客户信息
type DocumentClient struct {
	Nombre    string
	Email     string
	Telefono  string
	Direccion string
}

// DocumentItem 报价单文档中的一行
type DocumentItem struct {
	Servicio       string
	Descripcion    string
	Cantidad       int
	PrecioUnitario models.Money
}

// Subtotal 渲染时计算，不读取存储值
func (i DocumentItem) Subtotal() models.Money {
	return i.PrecioUnitario.Mul(decimal.NewFromInt(int64(i.Cantidad)))
}

// QuotationDocument 生成 PDF 所需的完整数据
type QuotationDocument struct {
	ID     uint
	Fecha  time.Time
	Estado string
	Client DocumentClient
	Items  []DocumentItem
}

// Total Σ 明细小计
func (d QuotationDocument) Total() models.Money {
	total := models.Money{}
	for _, item := range d.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

type quotationDocumentRow struct {
	ID               uint
	Fecha            time.Time
	Estado           string
	ClienteNombre    string
	ClienteEmail     string
	ClienteTelefono  string
	ClienteDireccion string
	Servicio         string
	Descripcion      string
	Cantidad         int
	PrecioUnitario   models.Money
}

const quotationDocumentColumns = `c.id, c.fecha, c.estado,
	cli.nombre AS cliente_nombre, cli.email AS cliente_email, cli.telefono AS cliente_telefono, cli.direccion AS cliente_direccion,
	sp.nombre AS servicio, sp.descripcion, dc.cantidad, dc.precio_unitario`

// LoadQuotationDocument 一次联表查询加载报价单、客户与明细
// 没有任何行（报价单不存在或没有明细）时返回 ErrQuotationNotFound
func LoadQuotationDocument(ctx context.Context, db *gorm.DB, id uint) (*QuotationDocument, error) {
	var rows []quotationDocumentRow
	err := db.WithContext(ctx).
		Table("cotizaciones AS c").
		Select(quotationDocumentColumns).
		Joins("JOIN clientes cli ON cli.id = c.cliente_id").
		Joins("JOIN detalle_cotizacion dc ON dc.cotizacion_id = c.id").
		Joins("JOIN servicios_productos sp ON sp.id = dc.servicio_productos_id").
		Where("c.id = ?", id).
		Order("dc.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrQuotationNotFound
	}

	first := rows[0]
	doc := &QuotationDocument{
		ID:     first.ID,
		Fecha:  first.Fecha,
		Estado: first.Estado,
		Client: DocumentClient{
			Nombre:    first.ClienteNombre,
			Email:     first.ClienteEmail,
			Telefono:  first.ClienteTelefono,
			Direccion: first.ClienteDireccion,
		},
		Items: make([]DocumentItem, 0, len(rows)),
	}
	for _, r := range rows {
		doc.Items = append(doc.Items, DocumentItem{
			Servicio:       r.Servicio,
			Descripcion:    r.Descripcion,
			Cantidad:       r.Cantidad,
			PrecioUnitario: r.PrecioUnitario,
		})
	}
	return doc, nil
}
