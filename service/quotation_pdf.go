package service

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"cotizaciones/config"
	"cotizaciones/models"

	"github.com/go-pdf/fpdf"
)

// 版面坐标（pt，A4 = 595.28 × 841.89）
const (
	pdfLeft         = 50.0
	pdfContentWidth = 500.0
	pdfClientTop    = 150.0
	pdfTableTop     = pdfClientTop + 120
	pdfTableBottom  = 730.0
	pdfFooterTop    = 750.0
	pdfRowHeight    = 20.0
	pdfDescHeight   = 15.0
)

type rgb struct{ r, g, b int }

var (
	pdfPrimary   = rgb{51, 51, 51}
	pdfSecondary = rgb{102, 102, 102}
	pdfAccent    = rgb{26, 82, 118}
	pdfApproved  = rgb{0, 128, 0}
)

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// SpanishLongDate 如 "5 de marzo de 2024"
func SpanishLongDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}

// QuotationPDF 报价单 PDF 生成器
type QuotationPDF struct {
	company  config.CompanyConfig
	cfg      config.PDFConfig
	now      func() time.Time
	compress bool
}

// NewQuotationPDF 创建 PDF 生成器
func NewQuotationPDF(company config.CompanyConfig, cfg config.PDFConfig) *QuotationPDF {
	return &QuotationPDF{
		company:  company,
		cfg:      cfg,
		now:      time.Now,
		compress: true,
	}
}

type pdfWriter struct {
	*fpdf.Fpdf
	tr func(string) string
}

func (w *pdfWriter) color(c rgb) {
	w.SetTextColor(c.r, c.g, c.b)
}

func (w *pdfWriter) textAt(x, y, width float64, align, txt string) {
	w.SetXY(x, y)
	w.CellFormat(width, 12, w.tr(txt), "", 0, align, false, 0, "")
}

// Render 将报价单渲染为 PDF 写入 w
// 调用方应先写入内存缓冲区，成功后再输出响应
func (p *QuotationPDF) Render(doc *QuotationDocument, w io.Writer) error {
	f := fpdf.New("P", "pt", "A4", "")
	f.SetCompression(p.compress)
	f.SetMargins(pdfLeft, pdfLeft, pdfLeft)
	f.SetAutoPageBreak(false, 0)
	f.AliasNbPages("")

	pw := &pdfWriter{Fpdf: f, tr: f.UnicodeTranslatorFromDescriptor("")}
	f.SetFooterFunc(func() { p.footer(pw) })

	f.AddPage()
	p.header(pw, doc)

	y := p.tableHeader(pw, pdfTableTop)
	for _, item := range doc.Items {
		needed := pdfRowHeight
		if item.Descripcion != "" {
			needed += pdfDescHeight
		}
		if y+needed > pdfTableBottom {
			f.AddPage()
			y = p.tableHeader(pw, pdfLeft)
		}
		y = p.row(pw, item, y)
	}

	totalY := y + 20
	if totalY+80 > pdfTableBottom {
		f.AddPage()
		totalY = pdfLeft
	}
	p.total(pw, doc.Total(), totalY)

	if doc.Estado == models.QuotationStatusApproved {
		pw.SetFont("Helvetica", "", 12)
		pw.color(pdfApproved)
		pw.textAt(pdfLeft, totalY+40, pdfContentWidth, "L", "COTIZACIÓN APROBADA POR EL CLIENTE")
		pw.SetTextColor(0, 0, 0)
		pw.textAt(pdfLeft, totalY+60, pdfContentWidth, "L",
			"Fecha de aprobación: "+p.now().Format("02/01/2006"))
	}

	return f.Output(w)
}

func (p *QuotationPDF) header(pw *pdfWriter, doc *QuotationDocument) {
	p.logo(pw)

	pw.SetFont("Helvetica", "BU", 20)
	pw.color(pdfAccent)
	pw.SetXY(pdfLeft, 100)
	pw.CellFormat(pdfContentWidth, 24, pw.tr("COTIZACIÓN"), "", 0, "C", false, 0, "")

	pw.SetFont("Helvetica", "", 12)
	pw.color(pdfPrimary)
	pw.textAt(pdfLeft, pdfClientTop, 240, "L", strings.ToUpper(doc.Client.Nombre))
	pw.textAt(300, pdfClientTop, 250, "L", fmt.Sprintf("No. %06d", doc.ID))
	pw.textAt(300, pdfClientTop+20, 250, "L", "Fecha: "+SpanishLongDate(doc.Fecha))

	pw.SetFont("Helvetica", "", 10)
	pw.color(pdfSecondary)
	pw.textAt(pdfLeft, pdfClientTop+50, 240, "L", p.company.Name)
	pw.textAt(pdfLeft, pdfClientTop+65, 240, "L", p.company.Address)
	pw.textAt(pdfLeft, pdfClientTop+80, 240, "L", "Teléfono: "+p.company.Phone)
}

// logo 配置的图片不存在或无法读取时输出占位文字
func (p *QuotationPDF) logo(pw *pdfWriter) {
	if p.cfg.LogoPath != "" {
		if _, err := os.Stat(p.cfg.LogoPath); err == nil {
			pw.Image(p.cfg.LogoPath, pdfLeft, 40, 100, 0, false, "", 0, "")
			if !pw.Ok() {
				slog.Warn("no se pudo cargar el logo", "path", p.cfg.LogoPath, "error", pw.Error())
				pw.ClearError()
			} else {
				return
			}
		}
	}
	pw.SetFont("Helvetica", "", 16)
	pw.color(pdfAccent)
	pw.textAt(pdfLeft, 60, 200, "L", p.cfg.LogoPlaceholder)
}

// tableHeader 绘制表头，返回第一行的 y
func (p *QuotationPDF) tableHeader(pw *pdfWriter, top float64) float64 {
	pw.SetFillColor(pdfAccent.r, pdfAccent.g, pdfAccent.b)
	pw.Rect(pdfLeft, top, pdfContentWidth, 20, "F")

	pw.SetFont("Helvetica", "", 12)
	pw.SetTextColor(255, 255, 255)
	pw.textAt(60, top+4, 280, "L", "DESCRIPCIÓN")
	pw.textAt(350, top+4, 50, "C", "CANT.")
	pw.textAt(400, top+4, 70, "R", "PRECIO")
	pw.textAt(470, top+4, 80, "R", "SUBTOTAL")
	return top + 25
}

func (p *QuotationPDF) row(pw *pdfWriter, item DocumentItem, y float64) float64 {
	pw.SetFont("Helvetica", "", 10)
	pw.color(pdfPrimary)
	pw.textAt(60, y, 280, "L", strings.ToUpper(item.Servicio))
	pw.textAt(350, y, 50, "C", fmt.Sprintf("%d", item.Cantidad))
	pw.textAt(400, y, 70, "R", "$"+item.PrecioUnitario.Fixed())
	pw.textAt(470, y, 80, "R", "$"+item.Subtotal().Fixed())

	if item.Descripcion != "" {
		y += pdfDescHeight
		pw.SetFont("Helvetica", "", 8)
		pw.color(pdfSecondary)
		pw.textAt(65, y, 450, "L", item.Descripcion)
	}
	return y + pdfRowHeight
}

func (p *QuotationPDF) total(pw *pdfWriter, total models.Money, y float64) {
	pw.SetFont("Helvetica", "", 12)
	pw.color(pdfPrimary)
	pw.textAt(400, y, 70, "R", "TOTAL:")
	pw.SetFont("Helvetica", "BU", 12)
	pw.textAt(470, y, 80, "R", "$"+total.Fixed())
}

func (p *QuotationPDF) footer(pw *pdfWriter) {
	pw.SetFont("Helvetica", "", 10)
	pw.color(pdfSecondary)
	pw.textAt(pdfLeft, pdfFooterTop, pdfContentWidth, "C", "Gracias por su preferencia")
	pw.textAt(pdfLeft, pdfFooterTop+15, pdfContentWidth, "C",
		"Para cualquier duda, contactar a: "+p.company.ContactEmail)
	pw.SetFont("Helvetica", "", 8)
	pw.textAt(pdfLeft, pdfFooterTop+35, pdfContentWidth, "C",
		fmt.Sprintf("Página %d/{nb}", pw.PageNo()))
}
