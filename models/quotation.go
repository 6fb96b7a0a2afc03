package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// 报价单状态
const (
	QuotationStatusPending  = "pendiente"
	QuotationStatusApproved = "aprobada"
	QuotationStatusRejected = "rechazada"
)

// Quotation 报价单（cotizaciones）
type Quotation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ClienteID uint      `json:"cliente_id" gorm:"not null;index"`
	Fecha     time.Time `json:"fecha" gorm:"type:date;not null"`
	Total     Money     `json:"total" gorm:"type:decimal(10,2);not null"`
	Estado    string    `json:"estado" gorm:"type:enum('pendiente','aprobada','rechazada');default:pendiente;not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Cliente  *Client           `json:"-" gorm:"foreignKey:ClienteID"`
	Detalles []QuotationDetail `json:"-" gorm:"foreignKey:CotizacionID;constraint:OnDelete:CASCADE"`
}

func (Quotation) TableName() string {
	return "cotizaciones"
}

// QuotationDetail 报价单明细（detalle_cotizacion）
type QuotationDetail struct {
	ID                  uint  `json:"id" gorm:"primaryKey"`
	CotizacionID        uint  `json:"cotizacion_id" gorm:"not null;index"`
	ServicioProductosID uint  `json:"servicio_productos_id" gorm:"not null;index"`
	Cantidad            int   `json:"cantidad" gorm:"not null"`
	PrecioUnitario      Money `json:"precio_unitario" gorm:"type:decimal(10,2);not null"`

	ServicioProducto *ServiceProduct `json:"-" gorm:"foreignKey:ServicioProductosID"`
}

func (QuotationDetail) TableName() string {
	return "detalle_cotizacion"
}

// Subtotal 明细小计 = 数量 × 单价
func (d QuotationDetail) Subtotal() Money {
	return d.PrecioUnitario.Mul(decimal.NewFromInt(int64(d.Cantidad)))
}

// QuotationStatuses 所有合法的报价单状态
func QuotationStatuses() []string {
	return []string{QuotationStatusPending, QuotationStatusApproved, QuotationStatusRejected}
}

// IsValidQuotationStatus 判断报价单状态是否合法
func IsValidQuotationStatus(s string) bool {
	for _, v := range QuotationStatuses() {
		if v == s {
			return true
		}
	}
	return false
}
