package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Nombres de campo según el tag json para que el cliente reconozca el error.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// RequestValidationError cuerpo o query con campos inválidos. Coincide con domain.ErrInvalidInput.
type RequestValidationError struct {
	Fields []dto.FieldErrorDTO
}

func (e *RequestValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "datos inválidos"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return strings.Join(parts, "; ")
}

func (e *RequestValidationError) Is(target error) bool { return target == domain.ErrInvalidInput }

func invalidField(field, message string) error {
	return &RequestValidationError{Fields: []dto.FieldErrorDTO{{Field: field, Message: message}}}
}

// bindJSON decodifica el body en dst rechazando campos desconocidos y datos sobrantes, y lo valida.
func bindJSON(c *fiber.Ctx, dst any) error {
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return invalidField("body", "cuerpo vacío")
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return invalidField("body", "se esperaba un único objeto JSON")
	}
	return validateStruct(dst)
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr):
		return invalidField(typeErr.Field, fmt.Sprintf("tipo inválido, se esperaba %s", typeErr.Type))
	case errors.As(err, &syntaxErr):
		return invalidField("body", "JSON mal formado")
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return invalidField(field, "campo desconocido")
	}
	return invalidField("body", "cuerpo inválido")
}

// validateStruct aplica los tags validate y devuelve TODOS los campos inválidos.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return invalidField("body", err.Error())
	}
	out := &RequestValidationError{Fields: make([]dto.FieldErrorDTO, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, dto.FieldErrorDTO{Field: fieldPath(fe), Message: fieldMessage(fe)})
	}
	return out
}

// fieldPath "CreateSaleRequest.items[0].quantity" -> "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "uuid":
		return "debe ser un UUID"
	case "gt":
		return "debe ser mayor que " + fe.Param()
	case "gte", "min":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.String {
			return "longitud mínima " + fe.Param()
		}
		return "debe ser mayor o igual que " + fe.Param()
	case "max":
		return "máximo " + fe.Param()
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "alphanum":
		return "solo letras y números"
	}
	return "inválido (" + fe.Tag() + ")"
}

// pathID lee el parámetro :id y exige un UUID.
func pathID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if id == "" {
		return "", invalidField("id", "es obligatorio")
	}
	canonical, ok := canonicalUUID(id)
	if !ok {
		return "", invalidField("id", "debe ser un UUID")
	}
	return canonical, nil
}

// canonicalUUID acepta solo la forma de 36 caracteres (sin llaves ni urn:uuid:) y la devuelve en minúsculas.
func canonicalUUID(v string) (string, bool) {
	if len(v) != 36 {
		return "", false
	}
	u, err := uuid.Parse(v)
	if err != nil {
		return "", false
	}
	return u.String(), true
}
