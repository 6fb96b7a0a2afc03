package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidExpenseStatus(t *testing.T) {
	for _, s := range []string{"pendiente", "aprobado", "pagado", "rechazado"} {
		assert.True(t, IsValidExpenseStatus(s), s)
	}
	assert.False(t, IsValidExpenseStatus("aprobada"))
	assert.False(t, IsValidExpenseStatus(""))
}

func TestIsValidQuotationStatus(t *testing.T) {
	assert.True(t, IsValidQuotationStatus("aprobada"))
	assert.False(t, IsValidQuotationStatus("pagado"))
}

func TestIsValidServiceType(t *testing.T) {
	assert.True(t, IsValidServiceType("servicio"))
	assert.True(t, IsValidServiceType("producto"))
	assert.False(t, IsValidServiceType("otro"))
}

func TestQuotationDetail_Subtotal(t *testing.T) {
	d := QuotationDetail{Cantidad: 3, PrecioUnitario: NewMoney(19.99)}
	assert.Equal(t, "59.97", d.Subtotal().Fixed())
}
