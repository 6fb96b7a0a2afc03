package models

import "time"

// Client 客户（clientes）
type Client struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Nombre    string    `json:"nombre" gorm:"size:100;not null;index"`
	Email     string    `json:"email" gorm:"size:100;not null;index"`
	Telefono  string    `json:"telefono" gorm:"size:20;not null"`
	Direccion string    `json:"direccion" gorm:"size:255;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Client) TableName() string {
	return "clientes"
}

// Provider 供应商（proveedores）
type Provider struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Nombre    string    `json:"nombre" gorm:"size:100;not null;index"`
	Email     string    `json:"email" gorm:"size:100;not null;index"`
	Telefono  string    `json:"telefono" gorm:"size:20;not null;index"`
	Direccion string    `json:"direccion" gorm:"size:255;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Provider) TableName() string {
	return "proveedores"
}
