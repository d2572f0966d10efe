package ports

import (
	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// ReceiptPDFGenerator genera el comprobante PDF de un pedido.
type ReceiptPDFGenerator interface {
	GenerateOrderReceipt(order *entity.Order, customer *entity.User) ([]byte, error)
}
