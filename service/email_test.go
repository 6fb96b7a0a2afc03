package service

import (
	"bytes"
	"errors"
	"mime"
	"testing"

	"cotizaciones/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func newTestEmailService(enabled bool) *EmailService {
	return NewEmailService(&config.EmailConfig{
		Enabled:  enabled,
		Username: "ventas@larana.test",
		From:     "Cotizaciones",
	}, config.CompanyConfig{
		Name:         "LARANA, INC.",
		Phone:        "(123) 456-7890",
		ContactEmail: "contacto@tuempresa.com",
	})
}

func TestQuotationAttachmentName(t *testing.T) {
	assert.Equal(t, "cotizacion_42.pdf", QuotationAttachmentName(42))
}

func TestGenerateQuotationEmailBody(t *testing.T) {
	s := newTestEmailService(true)
	body := s.generateQuotationEmailBody("Acme <Corp>", 42)
	assert.Contains(t, body, "Acme &lt;Corp&gt;")
	assert.Contains(t, body, "No. 000042")
	assert.Contains(t, body, "LARANA, INC.")
	assert.Contains(t, body, "contacto@tuempresa.com")
}

func TestSendQuotation_Disabled(t *testing.T) {
	s := newTestEmailService(false)
	err := s.SendQuotation("cliente@example.com", "Acme", 1, []byte("%PDF-"))
	assert.ErrorIs(t, err, ErrEmailDisabled)
}

func TestSendQuotation_BuildsMessageWithAttachment(t *testing.T) {
	s := newTestEmailService(true)
	var sent *gomail.Message
	s.send = func(m *gomail.Message) error {
		sent = m
		return nil
	}

	require.NoError(t, s.SendQuotation("cliente@example.com", "Acme", 7, []byte("%PDF-1.3 fake")))
	require.NotNil(t, sent)
	assert.Equal(t, []string{"cliente@example.com"}, sent.GetHeader("To"))
	// gomail 以 RFC 2047 编码非 ASCII 主题
	encoded := sent.GetHeader("Subject")
	require.Len(t, encoded, 1)
	subject, err := new(mime.WordDecoder).DecodeHeader(encoded[0])
	require.NoError(t, err)
	assert.Equal(t, "Cotización No. 000007 - LARANA, INC.", subject)

	var raw bytes.Buffer
	_, err = sent.WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), `filename="cotizacion_7.pdf"`)
}

func TestSendQuotation_WrapsTransportError(t *testing.T) {
	s := newTestEmailService(true)
	s.send = func(*gomail.Message) error { return errors.New("smtp down") }

	err := s.SendQuotation("cliente@example.com", "Acme", 7, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
}
