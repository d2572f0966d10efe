package ports

import "context"

// Mailer puerto de salida para correo transaccional (reset de contraseña).
type Mailer interface {
	// Send entrega un correo HTML a un único destinatario.
	Send(ctx context.Context, to, subject, html string) error
}
