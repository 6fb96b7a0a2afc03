package models

import (
	"time"
)

// 支出状态
const (
	ExpenseStatusPending  = "pendiente"
	ExpenseStatusApproved = "aprobado"
	ExpenseStatusPaid     = "pagado"
	ExpenseStatusRejected = "rechazado"
)

// DateLayout 日期字段格式
const DateLayout = "2006-01-02"

// DisplayDateLayout 前端展示用的日期格式（日-月-年）
const DisplayDateLayout = "02-01-2006"

// Expense 支出（gasto），物理删除
type Expense struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	ProveedorID     uint       `json:"proveedor_id" gorm:"not null;index"`
	ConceptoPagoID  uint       `json:"concepto_pago_id" gorm:"not null;index"`
	Monto           Money      `json:"monto" gorm:"type:decimal(10,2);not null"`
	Descripcion     *string    `json:"descripcion" gorm:"size:255"`
	Fecha           time.Time  `json:"fecha" gorm:"type:date;not null;index"`
	Estado          string     `json:"estado" gorm:"type:enum('pendiente','aprobado','pagado','rechazado');default:pendiente;not null;index"`
	SolicitanteID   *uint      `json:"solicitante_id"`
	AprobadorID     *uint      `json:"aprobador_id"`
	FechaAprobacion *time.Time `json:"fecha_aprobacion" gorm:"type:date"`
	FechaPago       *time.Time `json:"fecha_pago" gorm:"type:date"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Proveedor    *Provider       `json:"-" gorm:"foreignKey:ProveedorID"`
	ConceptoPago *PaymentConcept `json:"-" gorm:"foreignKey:ConceptoPagoID"`
}

// TableName 设置表名
func (Expense) TableName() string {
	return "gastos"
}

// ExpenseStatuses 所有合法的支出状态
func ExpenseStatuses() []string {
	return []string{
		ExpenseStatusPending,
		ExpenseStatusApproved,
		ExpenseStatusPaid,
		ExpenseStatusRejected,
	}
}

// IsValidExpenseStatus 判断支出状态是否合法
func IsValidExpenseStatus(s string) bool {
	for _, v := range ExpenseStatuses() {
		if v == s {
			return true
		}
	}
	return false
}
