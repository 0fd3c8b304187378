package frame

import (
	"errors"
	"fmt"
)

// Errores base del codificador. Usar errors.Is para distinguirlos.
var (
	// ErrInvalidInput indica entrada vacía, símbolos no binarios o un ancho de bloque no soportado.
	ErrInvalidInput = errors.New("entrada inválida")

	// ErrUnsupportedScheme indica un algoritmo desconocido.
	ErrUnsupportedScheme = errors.New("esquema no soportado")
)

// InputError describe qué parte de la entrada fue rechazada.
type InputError struct {
	Field  string // "bits" o "width"
	Value  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s inválido (%s): %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("%s inválido: %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// SchemeError se devuelve cuando el nombre del algoritmo no corresponde a ningún esquema.
type SchemeError struct {
	Name string
}

func (e *SchemeError) Error() string {
	return fmt.Sprintf("algoritmo no soportado: %q", e.Name)
}

func (e *SchemeError) Unwrap() error {
	return ErrUnsupportedScheme
}

func invalidBits(reason string) error {
	return &InputError{Field: "bits", Reason: reason}
}

func invalidWidth(width int) error {
	return &InputError{
		Field:  "width",
		Value:  fmt.Sprintf("%d", width),
		Reason: "el tamaño de bloque debe ser 4, 8, 16 o 32 bits",
	}
}
