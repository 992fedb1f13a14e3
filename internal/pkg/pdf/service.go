// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"

	"github.com/your-org/eventhub-storefront/internal/config"
	"github.com/your-org/eventhub-storefront/internal/domain/checkout"
)

// Service renders order receipts
type Service struct {
	config *config.Config
	tmpl   *template.Template
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		tmpl: template.Must(template.New("receipt").Funcs(template.FuncMap{
			"clp": FormatCLP,
		}).Parse(receiptTemplate)),
	}
}

// ReceiptData is passed to the receipt template
type ReceiptData struct {
	StoreName string
	IssuedAt  string
	Order     *checkout.Order
}

// GenerateReceipt renders the order receipt as a PDF
func (s *Service) GenerateReceipt(order *checkout.Order) (*bytes.Buffer, error) {
	htmlContent, err := s.ReceiptHTML(order)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	// Convert HTML to PDF
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

	page := wkhtmltopdf.NewPageReader(strings.NewReader(htmlContent))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// ReceiptHTML renders the receipt HTML that GenerateReceipt converts
func (s *Service) ReceiptHTML(order *checkout.Order) (string, error) {
	data := ReceiptData{
		StoreName: s.config.App.Name,
		IssuedAt:  order.CreatedAt.Format("02-01-2006 15:04"),
		Order:     order,
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// FormatCLP formats an amount of Chilean pesos the way es-CL does: "$45.000"
func FormatCLP(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String()
}

const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Comprobante {{.Order.ID}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 24px; color: #1f2937; }
        .header { border-bottom: 2px solid #e5e7eb; padding-bottom: 16px; margin-bottom: 24px; }
        .store { font-size: 24px; font-weight: bold; color: #1e3a8a; }
        .order-id { font-size: 14px; color: #6b7280; }
        table { width: 100%; border-collapse: collapse; margin-bottom: 24px; }
        th { text-align: left; background: #f3f4f6; padding: 8px; font-size: 12px; }
        td { padding: 8px; border-bottom: 1px solid #e5e7eb; font-size: 12px; }
        .num { text-align: right; }
        .totals td { border: none; }
        .grand-total td { font-size: 16px; font-weight: bold; }
        .section-title { font-size: 14px; font-weight: bold; margin: 16px 0 8px; }
    </style>
</head>
<body>
    <div class="header">
        <div class="store">{{.StoreName}}</div>
        <div class="order-id">Orden {{.Order.ID}} · {{.IssuedAt}}</div>
    </div>

    <div class="section-title">Cliente</div>
    <div>{{.Order.Customer.FullName}} · {{.Order.Customer.Email}} · {{.Order.Customer.Phone}}</div>
    <div>{{.Order.Billing.Address}}, {{.Order.Billing.City}}, {{.Order.Billing.Region}} {{.Order.Billing.ZipCode}}</div>

    <div class="section-title">Entradas</div>
    <table>
        <thead>
            <tr><th>Evento</th><th>Fecha</th><th>Lugar</th><th class="num">Cantidad</th><th class="num">Precio</th><th class="num">Subtotal</th></tr>
        </thead>
        <tbody>
        {{range .Order.Items}}
            <tr>
                <td>{{.Title}}</td>
                <td>{{.Date}} {{.Time}}</td>
                <td>{{.Location}}</td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">{{clp .Price}}</td>
                <td class="num">{{clp .Subtotal}}</td>
            </tr>
        {{end}}
        </tbody>
    </table>

    <table class="totals">
        <tr><td class="num">Subtotal</td><td class="num">{{clp .Order.Subtotal}}</td></tr>
        <tr><td class="num">Cargo por servicio</td><td class="num">{{clp .Order.ServiceFee}}</td></tr>
        <tr class="grand-total"><td class="num">Total</td><td class="num">{{clp .Order.Total}}</td></tr>
    </table>

    <div class="section-title">Pago</div>
    <div>{{.Order.Payment.CardName}} · **** {{.Order.Payment.CardLast4}} · {{.Order.Payment.ExpiryDate}}</div>
</body>
</html>
`
