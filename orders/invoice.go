package orders

import (
	"bytes"
	"fmt"
	"net/http"

	"smartkop/apperr"
	"smartkop/middleware"
	"smartkop/models"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// GET /api/v1/order/:id/invoice
//
// Renders the order as a PDF invoice with a QR reference. Only the order
// owner or an admin may download it.
func (h *Handler) Invoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	user := middleware.UserFrom(r.Context())

	order, err := h.findOrder(r.Context(), ps.ByName("id"))
	if err != nil {
		return err
	}
	if order.UserID != user.UserID && user.Role != models.RoleAdmin {
		return apperr.New(apperr.Forbidden, "You may only download your own invoices")
	}

	qrPNG, err := qrcode.Encode(order.OrderID, qrcode.Medium, 256)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "SmartKop Invoice")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Order: %s", order.OrderID))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", order.PaidAt.Format("2006-01-02")))
	pdf.Ln(6)
	ship := order.ShippingInfo
	pdf.Cell(0, 8, fmt.Sprintf("Ship to: %s, %s %s, %s", ship.Address, ship.City, ship.PostalCode, ship.Country))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(100, 8, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Price", "B", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	for _, item := range order.OrderItems {
		pdf.CellFormat(100, 8, item.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", item.Price), "", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.Cell(0, 8, fmt.Sprintf("Items: %.2f", order.ItemsPrice))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Tax: %.2f", order.TaxPrice))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Shipping: %.2f", order.ShippingPrice))
	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %.2f", order.TotalPrice))

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 30, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+order.OrderID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
	return nil
}
