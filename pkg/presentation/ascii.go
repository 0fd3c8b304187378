package presentation

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/frame"
)

// PresentationLayer maneja la codificación/decodificación de mensajes
type PresentationLayer struct{}

// NewPresentationLayer crea una nueva instancia
func NewPresentationLayer() *PresentationLayer {
	return &PresentationLayer{}
}

// TextToBits convierte texto ASCII a una cadena de bits, 8 por carácter, MSB primero.
func (p *PresentationLayer) TextToBits(texto string) (frame.BitString, error) {
	if err := p.ValidarTexto(texto); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.Grow(len(texto) * 8)
	for i := 0; i < len(texto); i++ {
		fmt.Fprintf(&sb, "%08b", texto[i])
	}
	return frame.BitString(sb.String()), nil
}

// BitsToText convierte una cadena de bits a texto ASCII.
func (p *PresentationLayer) BitsToText(bits frame.BitString) (string, error) {
	if len(bits)%8 != 0 {
		return "", fmt.Errorf("la longitud de bits (%d) no es múltiplo de 8", len(bits))
	}
	if !IsBinary(string(bits)) {
		return "", fmt.Errorf("la cadena contiene símbolos distintos de 0 y 1")
	}

	resultado := make([]byte, 0, len(bits)/8)
	for i := 0; i < len(bits); i += 8 {
		var charCode byte
		for j := 0; j < 8; j++ {
			charCode |= bits.Bit(i+j) << (7 - j)
		}

		if charCode > 127 {
			return "", fmt.Errorf("código de carácter inválido: %d (mayor que 127)", charCode)
		}
		if charCode < 32 && charCode != 9 && charCode != 10 && charCode != 13 {
			return "", fmt.Errorf("carácter de control no permitido: código %d", charCode)
		}

		resultado = append(resultado, charCode)
	}

	return string(resultado), nil
}

// ValidarTexto verifica que el texto sea válido para transmisión
func (p *PresentationLayer) ValidarTexto(texto string) error {
	if texto == "" {
		return fmt.Errorf("el texto no puede estar vacío")
	}

	if !utf8.ValidString(texto) {
		return fmt.Errorf("el texto contiene caracteres no válidos UTF-8")
	}

	for i, r := range texto {
		if r > 127 {
			return fmt.Errorf("carácter no-ASCII en posición %d: '%c' (código %d)", i, r, r)
		}
		if r < 32 && r != 9 && r != 10 && r != 13 { // tab, newline, carriage return
			return fmt.Errorf("carácter de control no permitido en posición %d: código %d", i, r)
		}
	}

	return nil
}

// IsBinary indica si s es no vacía y contiene solo '0' y '1'.
func IsBinary(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '0' && s[i] != '1' {
			return false
		}
	}
	return true
}

// Input es una entrada ya resuelta a bits.
type Input struct {
	Source   string // ruta del archivo, o vacío si fue una cadena directa
	Content  string // contenido leído, sin espacios al final
	Bits     frame.BitString
	FromText bool // true si Content era texto ASCII y se convirtió
}

// ResolveInput interpreta arg como archivo si existe; si no, como cadena
// directa. Un contenido no binario se trata como texto ASCII.
func (p *PresentationLayer) ResolveInput(arg string) (*Input, error) {
	in := &Input{Content: strings.TrimSpace(arg)}

	if info, err := os.Stat(arg); err == nil && info.Mode().IsRegular() {
		data, err := os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("leyendo %s: %w", arg, err)
		}
		in.Source = arg
		in.Content = strings.TrimSpace(string(data))
	}

	if IsBinary(in.Content) {
		in.Bits = frame.BitString(in.Content)
		return in, nil
	}

	bits, err := p.TextToBits(in.Content)
	if err != nil {
		return nil, err
	}
	in.Bits = bits
	in.FromText = true
	return in, nil
}

// RandomMessage genera un mensaje de letras minúsculas con largo entre
// minLen y maxLen, ambos incluidos.
func RandomMessage(rng *rand.Rand, minLen, maxLen int) string {
	if maxLen < minLen {
		maxLen = minLen
	}
	n := minLen + rng.Intn(maxLen-minLen+1)
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('a' + rng.Intn(26))
	}
	return string(b)
}

// ObtenerEstadisticas devuelve información sobre la codificación
func (p *PresentationLayer) ObtenerEstadisticas(texto string) map[string]int {
	stats := map[string]int{
		"caracteres": len(texto),
		"bits":       len(texto) * 8,
	}

	for _, char := range texto {
		switch {
		case char >= 'a' && char <= 'z' || char >= 'A' && char <= 'Z':
			stats["letras"]++
		case char >= '0' && char <= '9':
			stats["numeros"]++
		case char == ' ' || char == '\t' || char == '\n' || char == '\r':
			stats["espacios"]++
		default:
			stats["especiales"]++
		}
	}

	return stats
}
