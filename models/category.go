package models

// ExpenseCategory 支出类别（categorias_gastos）
type ExpenseCategory struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Nombre string `json:"nombre" gorm:"size:100;not null;uniqueIndex"`
}

func (ExpenseCategory) TableName() string {
	return "categorias_gastos"
}

// PaymentConcept 付款科目（conceptos_pago），隶属于一个支出类别
type PaymentConcept struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Descripcion string `json:"descripcion" gorm:"size:150;not null"`
	CategoriaID uint   `json:"categoria_id" gorm:"not null;index"`

	Categoria *ExpenseCategory `json:"-" gorm:"foreignKey:CategoriaID"`
}

func (PaymentConcept) TableName() string {
	return "conceptos_pago"
}

// DefaultExpenseCategories 默认支出类别及其付款科目（空表时初始化）
func DefaultExpenseCategories() map[string][]string {
	return map[string][]string{
		"Oficina":   {"Papelería", "Mobiliario", "Limpieza"},
		"Servicios": {"Electricidad", "Internet", "Agua", "Telefonía"},
		"Nómina":    {"Sueldos", "Honorarios"},
		"Viáticos":  {"Transporte", "Hospedaje", "Alimentación"},
		"Impuestos": {"IVA", "ISR"},
		"Marketing": {"Publicidad digital", "Impresos"},
	}
}
