package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier lo que comparten *pgxpool.Pool y pgx.Tx; los repos aceptan cualquiera de los dos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == "23505"
}

// isForeignKeyViolation 23503: la fila referenciada no existe.
func isForeignKeyViolation(err error) bool {
	return pgCode(err) == "23503"
}

// isInvalidText 22P02: p. ej. un id que no es UUID; se trata como "no existe".
func isInvalidText(err error) bool {
	return pgCode(err) == "22P02"
}

// noRow indica que la consulta no encontró nada utilizable.
func noRow(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || isInvalidText(err)
}

// validID evita consultar con ids que no son UUID: el error 22P02 abortaría la transacción en curso.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
