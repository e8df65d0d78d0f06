package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ordenes-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// parseBody decodifica el JSON y aplica las reglas `validate`.
// Los errores de validación se devuelven como "campo: regla " concatenados.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: cuerpo inválido: %s", domain.ErrInvalidInput, err.Error())
	}
	return validateStruct(out)
}

func validateStruct(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}
	var sb strings.Builder
	for _, fe := range fieldErrs {
		sb.WriteString(fieldPath(fe.Namespace()))
		sb.WriteString(": ")
		sb.WriteString(ruleMessage(fe))
		sb.WriteString(" ")
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, sb.String())
}

// fieldPath quita el nombre del struct raíz: "CreateOrderRequest.products[0].id" -> "products[0].id".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es requerido"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "debe tener al menos " + fe.Param() + " elemento(s)"
		}
		return "debe ser mayor o igual a " + fe.Param()
	case "max":
		return "debe ser menor o igual a " + fe.Param()
	default:
		return "no cumple " + fe.Tag()
	}
}
