package entity

import "time"

// User representa un usuario registrado; las órdenes referencian a su dueño.
// Inmutable para este servicio (no hay ruta de modificación).
type User struct {
	ID           string
	Name         string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano
	CreatedAt    time.Time
}
