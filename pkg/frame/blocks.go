package frame

import "strings"

// PaddingPolicy define qué hacer con el último bloque incompleto.
type PaddingPolicy int

const (
	// PadZero completa el último bloque con ceros al final.
	PadZero PaddingPolicy = iota
	// DropPartial descarta el último bloque si no está completo.
	DropPartial
)

func (p PaddingPolicy) String() string {
	switch p {
	case PadZero:
		return "padzero"
	case DropPartial:
		return "droppartial"
	default:
		return "unknown"
	}
}

// Block es un grupo de bits de ancho fijo leído como entero, MSB primero.
type Block struct {
	Bits  BitString
	Value uint64
}

// ValidWidth indica si width es un ancho de bloque soportado.
func ValidWidth(width int) bool {
	switch width {
	case 4, 8, 16, 32:
		return true
	}
	return false
}

// ToBlocks divide bits en bloques de width bits según la política.
// Devuelve los bloques, los bits efectivamente cubiertos por ellos y la
// cantidad de ceros agregados (siempre 0 con DropPartial).
func ToBlocks(bits BitString, width int, policy PaddingPolicy) ([]Block, BitString, int, error) {
	if !ValidWidth(width) {
		return nil, "", 0, invalidWidth(width)
	}

	padding := 0
	switch policy {
	case PadZero:
		if rem := len(bits) % width; rem != 0 {
			padding = width - rem
			bits += BitString(strings.Repeat("0", padding))
		}
	case DropPartial:
		bits = bits[:len(bits)-len(bits)%width]
	default:
		return nil, "", 0, &InputError{Field: "policy", Value: policy.String(), Reason: "política de padding desconocida"}
	}

	blocks := make([]Block, 0, len(bits)/width)
	for i := 0; i < len(bits); i += width {
		chunk := bits[i : i+width]
		blocks = append(blocks, Block{Bits: chunk, Value: parseBlock(chunk)})
	}
	return blocks, bits, padding, nil
}
