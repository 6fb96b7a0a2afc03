package models

import (
	"database/sql/driver"
	"strconv"

	"github.com/shopspring/decimal"
)

// Money 金额，JSON 输出固定两位小数的字符串（如 "150.50"）
// 反序列化同时接受数字和数字字符串
type Money struct {
	decimal.Decimal
}

// NewMoney 从浮点数创建金额
func NewMoney(f float64) Money {
	return Money{decimal.NewFromFloat(f)}
}

// NewMoneyFromString 从字符串创建金额
func NewMoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// Fixed 两位小数字符串
func (m Money) Fixed() string {
	return m.StringFixed(2)
}

// Mul 乘以数量
func (m Money) Mul(qty decimal.Decimal) Money {
	return Money{m.Decimal.Mul(qty)}
}

// Add 相加
func (m Money) Add(other Money) Money {
	return Money{m.Decimal.Add(other.Decimal)}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.Fixed())), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	return m.Decimal.UnmarshalJSON(data)
}

// Scan 实现 sql.Scanner，NULL 视为 0
func (m *Money) Scan(value interface{}) error {
	if value == nil {
		m.Decimal = decimal.Zero
		return nil
	}
	return m.Decimal.Scan(value)
}

// Value 实现 driver.Valuer
func (m Money) Value() (driver.Value, error) {
	return m.Fixed(), nil
}
