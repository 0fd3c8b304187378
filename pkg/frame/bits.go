package frame

import (
	"fmt"
	"strconv"
	"strings"
)

// BitString es una cadena de símbolos '0' y '1'.
// Nunca se modifica; cada transformación devuelve una nueva.
type BitString string

// ParseBits valida que s sea no vacía y contenga solo '0' y '1'.
func ParseBits(s string) (BitString, error) {
	if s == "" {
		return "", invalidBits("la cadena de bits no puede estar vacía")
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '0' && s[i] != '1' {
			return "", invalidBits(fmt.Sprintf("carácter inválido %q en posición %d", s[i], i))
		}
	}
	return BitString(s), nil
}

// Len devuelve la cantidad de bits.
func (b BitString) Len() int {
	return len(b)
}

// Bit devuelve el bit i como 0 o 1.
func (b BitString) Bit(i int) byte {
	return b[i] - '0'
}

func (b BitString) String() string {
	return string(b)
}

// formatBits renderiza v en width bits, MSB primero, con ceros a la izquierda.
func formatBits(v uint64, width int) BitString {
	s := strconv.FormatUint(v, 2)
	if len(s) >= width {
		return BitString(s[len(s)-width:])
	}
	return BitString(strings.Repeat("0", width-len(s)) + s)
}

// parseBlock interpreta bits (width <= 32) como entero sin signo, MSB primero.
func parseBlock(bits BitString) uint64 {
	var v uint64
	for i := 0; i < len(bits); i++ {
		v = v<<1 | uint64(bits[i]-'0')
	}
	return v
}

func joinBits(parts []byte) BitString {
	var sb strings.Builder
	sb.Grow(len(parts))
	for _, p := range parts {
		sb.WriteByte('0' + p)
	}
	return BitString(sb.String())
}
