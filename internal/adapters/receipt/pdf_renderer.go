package receipt

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/maglieria/storefront/internal/domain"
)

// PDFRenderer draws an A4 order receipt with an item table and a QR code
// that encodes a signed order reference.
type PDFRenderer struct {
	storeName  string
	signingKey []byte
}

func NewPDFRenderer(storeName, signingKey string) *PDFRenderer {
	if storeName == "" {
		storeName = "Storefront"
	}
	return &PDFRenderer{storeName: storeName, signingKey: []byte(signingKey)}
}

// Reference returns the QR payload: order id, total and, when a key is set, an HMAC signature.
func (r *PDFRenderer) Reference(order domain.Order) string {
	data := fmt.Sprintf("order:%d|%s", order.ID, order.TotalAmount.StringFixed(2))
	if len(r.signingKey) == 0 {
		return data
	}
	h := hmac.New(sha256.New, r.signingKey)
	h.Write([]byte(data))
	return data + "|" + base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

func (r *PDFRenderer) Render(order domain.Order) ([]byte, error) {
	qrPNG, err := qrcode.Encode(r.Reference(order), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("Ordine #%d", order.ID), true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, tr(r.storeName))
	pdf.Ln(12)
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, fmt.Sprintf("Ricevuta ordine #%d", order.ID))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, "Data: "+order.CreatedAt.Format("02/01/2006 15:04"))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Stato: "+string(order.Status))
	pdf.Ln(6)
	if order.PaymentMethod != "" {
		pdf.Cell(0, 6, tr("Pagamento: "+order.PaymentMethod))
		pdf.Ln(6)
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 12, 35, 35, false, imageOpts, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, "Spedizione")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 10)
	s := order.Shipping
	for _, line := range []string{
		s.FirstName + " " + s.LastName,
		s.Address,
		joinNonEmpty(" ", s.ZipCode, s.City, s.Province),
		s.Country,
		s.Email,
		s.Phone,
	} {
		if line == "" {
			continue
		}
		pdf.Cell(0, 5, tr(line))
		pdf.Ln(5)
	}

	pdf.Ln(6)
	widths := []float64{70, 20, 20, 15, 30, 30}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range []string{"Prodotto", "Taglia", "Lingua", "Q.tà", "Prezzo", "Subtotale"} {
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, item := range order.Items {
		pdf.CellFormat(widths[0], 6, tr(item.ProductName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, tr(item.Size), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 6, tr(item.Language), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 6, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, "EUR "+item.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 6, "EUR "+item.LineTotal().StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(widths[0]+widths[1]+widths[2]+widths[3]+widths[4], 8, "Totale", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[5], 8, "EUR "+order.TotalAmount.StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

func joinNonEmpty(sep string, parts ...string) string {
	var out string
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += p
	}
	return out
}
