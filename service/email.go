package service

import (
	"errors"
	"fmt"
	"html"
	"io"

	"cotizaciones/config"

	"gopkg.in/gomail.v2"
)

// ErrEmailDisabled 未启用邮件服务
var ErrEmailDisabled = errors.New("el servicio de correo no está habilitado")

// EmailService 邮件服务
type EmailService struct {
	cfg     *config.EmailConfig
	company config.CompanyConfig
	send    func(*gomail.Message) error
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig, company config.CompanyConfig) *EmailService {
	s := &EmailService{cfg: cfg, company: company}
	s.send = s.dialAndSend
	return s
}

// Enabled 是否启用
func (s *EmailService) Enabled() bool {
	return s.cfg != nil && s.cfg.Enabled
}

// QuotationAttachmentName 报价单附件文件名
func QuotationAttachmentName(id uint) string {
	return fmt.Sprintf("cotizacion_%d.pdf", id)
}

// SendQuotation 将报价单 PDF 作为附件发送给客户
func (s *EmailService) SendQuotation(toEmail, clientName string, quotationID uint, pdf []byte) error {
	if !s.Enabled() {
		return ErrEmailDisabled
	}

	subject := fmt.Sprintf("Cotización No. %06d - %s", quotationID, s.company.Name)
	body := s.generateQuotationEmailBody(clientName, quotationID)

	m := s.newMessage(toEmail, subject, body)
	m.Attach(QuotationAttachmentName(quotationID),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(pdf)
			return err
		}),
	)
	return s.deliver(m)
}

// generateQuotationEmailBody 生成报价单邮件内容
func (s *EmailService) generateQuotationEmailBody(clientName string, quotationID uint) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; }
        .header { background: #1a5276; color: white; padding: 24px; text-align: center; }
        .content { padding: 32px 30px; color: #333; line-height: 1.8; }
        .footer { background: #f8f9fa; padding: 16px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>%s</h1></div>
        <div class="content">
            <p>Estimado(a) <strong>%s</strong>:</p>
            <p>Adjuntamos la cotización <strong>No. %06d</strong> solicitada.</p>
            <p>Quedamos atentos a cualquier duda o comentario.</p>
        </div>
        <div class="footer">
            <p>Gracias por su preferencia</p>
            <p>%s · %s</p>
        </div>
    </div>
</body>
</html>
`, html.EscapeString(s.company.Name), html.EscapeString(clientName), quotationID,
		html.EscapeString(s.company.Phone), html.EscapeString(s.company.ContactEmail))
}

func (s *EmailService) newMessage(to, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return m
}

func (s *EmailService) deliver(m *gomail.Message) error {
	if err := s.send(m); err != nil {
		return fmt.Errorf("enviar correo: %w", err)
	}
	return nil
}

// dialAndSend 通过 SMTP 发送
func (s *EmailService) dialAndSend(m *gomail.Message) error {
	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	return d.DialAndSend(m)
}
