package models

import "time"

// 服务/产品类型
const (
	ServiceTypeService = "servicio"
	ServiceTypeProduct = "producto"
)

// ServiceProduct 服务或产品（servicios_productos）
type ServiceProduct struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Nombre      string    `json:"nombre" gorm:"size:150;not null;index"`
	Descripcion string    `json:"descripcion" gorm:"type:text;not null"`
	Precio      Money     `json:"precio" gorm:"type:decimal(10,2);not null"`
	Tipo        string    `json:"tipo" gorm:"type:enum('servicio','producto');not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ServiceProduct) TableName() string {
	return "servicios_productos"
}

// IsValidServiceType 判断类型是否为 servicio 或 producto
func IsValidServiceType(t string) bool {
	return t == ServiceTypeService || t == ServiceTypeProduct
}
