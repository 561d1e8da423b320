package export

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/aurum-erp/aurum-erp/internal/customer"
	"github.com/aurum-erp/aurum-erp/internal/voucher"
)

// VoucherPayload aggregates everything rendered onto a voucher document.
type VoucherPayload struct {
	ShopName    string
	ShopAddress string
	Customer    customer.Customer
	Voucher     voucher.Voucher
}

// PDFExporter wraps Gotenberg interactions for voucher exports.
type PDFExporter struct {
	Endpoint string
	Client   *http.Client
}

// RenderVoucher sends the voucher HTML to Gotenberg and returns PDF bytes.
func (p *PDFExporter) RenderVoucher(ctx context.Context, payload VoucherPayload) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("pdf exporter not initialised")
	}
	endpoint := strings.TrimRight(p.Endpoint, "/")
	if endpoint == "" {
		return nil, fmt.Errorf("gotenberg endpoint required")
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	htmlDoc := buildVoucherHTML(payload)
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("files", "voucher.html")
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(part, htmlDoc); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/forms/chromium/convert/html", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("gotenberg response %d: %s", resp.StatusCode, string(data))
	}

	return io.ReadAll(resp.Body)
}

// Ping checks whether the Gotenberg service is reachable.
func (p *PDFExporter) Ping(ctx context.Context) error {
	if p == nil || p.Endpoint == "" {
		return fmt.Errorf("pdf exporter not initialised")
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(p.Endpoint, "/")+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("gotenberg returned status %d", resp.StatusCode)
	}
	return nil
}

func buildVoucherHTML(payload VoucherPayload) string {
	v := &payload.Voucher
	title := "Invoice"
	if v.Type == voucher.TypeReceipt {
		title = "Receipt"
	}

	var b strings.Builder
	b.WriteString("<html><head><meta charset=\"utf-8\"><style>")
	b.WriteString("body{font-family:sans-serif;margin:24px;}h1{font-size:20px;}table{width:100%;border-collapse:collapse;margin-bottom:16px;}th,td{border:1px solid #ddd;padding:6px;text-align:right;}th{text-align:left;background:#f5f5f5;} .label{text-align:left;} .sig{display:inline-block;width:45%;margin-top:48px;border-top:1px solid #333;text-align:center;}")
	b.WriteString("</style></head><body>")

	b.WriteString("<h1>")
	b.WriteString(html.EscapeString(payload.ShopName))
	b.WriteString(" — ")
	b.WriteString(title)
	b.WriteString(" #")
	b.WriteString(strconv.FormatInt(v.ID, 10))
	b.WriteString("</h1>")
	if payload.ShopAddress != "" {
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(payload.ShopAddress))
		b.WriteString("</p>")
	}

	b.WriteString("<section><table><tbody>")
	writeLabelRow(&b, "Account", payload.Customer.AccountNo)
	writeLabelRow(&b, "Customer", payload.Customer.Name)
	writeLabelRow(&b, "Date", v.Date.Format("2006-01-02"))
	b.WriteString("</tbody></table></section>")

	b.WriteString("<section><table><thead><tr><th>Description</th><th>Weight (g)</th><th>Purity</th>")
	if v.Type == voucher.TypeReceipt {
		b.WriteString("<th>Discount %</th><th>After Discount</th>")
	} else {
		b.WriteString("<th>Making Rate</th>")
	}
	b.WriteString("<th>Net Weight</th><th>Amount (KWD)</th></tr></thead><tbody>")
	for i := range v.Rows {
		row := &v.Rows[i]
		b.WriteString("<tr><td class=\"label\">")
		b.WriteString(html.EscapeString(row.Description))
		b.WriteString("</td><td>")
		b.WriteString(formatFloat(row.Weight))
		b.WriteString("</td><td>")
		b.WriteString(formatFloat(row.Purity))
		b.WriteString("</td><td>")
		if v.Type == voucher.TypeReceipt {
			b.WriteString(formatFloat(row.DiscountPct))
			b.WriteString("</td><td>")
			b.WriteString(formatFloat(row.AfterDiscount))
			b.WriteString("</td><td>")
		} else {
			b.WriteString(formatFloat(row.MakingRate))
			b.WriteString("</td><td>")
		}
		b.WriteString(formatFloat(row.NetWeight))
		b.WriteString("</td><td>")
		b.WriteString(formatFloat(row.Amount))
		b.WriteString("</td></tr>")
	}
	b.WriteString("</tbody></table></section>")

	b.WriteString("<section><table><tbody>")
	writeLabelRow(&b, "Total Net Weight", formatFloat(v.TotalNet))
	writeLabelRow(&b, "Total KWD", formatFloat(v.TotalKWD))
	b.WriteString("</tbody></table></section>")

	b.WriteString("<div class=\"sig\">Customer Signature</div> <div class=\"sig\">Shop Signature</div>")
	b.WriteString("</body></html>")
	return b.String()
}

func writeLabelRow(b *strings.Builder, label, value string) {
	b.WriteString("<tr><td class=\"label\">")
	b.WriteString(html.EscapeString(label))
	b.WriteString("</td><td>")
	b.WriteString(html.EscapeString(value))
	b.WriteString("</td></tr>")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
