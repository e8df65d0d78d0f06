package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso los envuelven con fmt.Errorf("%w: ...") para añadir detalle;
// la capa HTTP los clasifica con errors.Is.
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrUserNotFound    = errors.New("usuario no encontrado")
	ErrProductNotFound = errors.New("producto no encontrado")
	ErrOrderNotFound   = errors.New("orden no encontrada")
	// ErrVersionMismatch se trata como NotFound: la versión enviada ya no existe.
	ErrVersionMismatch = errors.New("orden no encontrada por diferencia de versión")

	ErrQuantityMismatch        = errors.New("cantidad inválida")
	ErrInvalidStatusTransition = errors.New("transición de estado inválida")
	ErrOrderNotDeletable       = errors.New("la orden no está en un estado eliminable")

	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
)

// IsNotFound indica si err pertenece a la familia NotFound (usuario, producto, orden o versión).
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrVersionMismatch)
}

// IsBusinessRule indica si err es una violación de regla de negocio (stock, estado).
func IsBusinessRule(err error) bool {
	return errors.Is(err, ErrQuantityMismatch) ||
		errors.Is(err, ErrInvalidStatusTransition) ||
		errors.Is(err, ErrOrderNotDeletable)
}
