package frame

import (
	"fmt"
	"strings"
)

// Scheme es el conjunto cerrado de esquemas de codificación.
// Solo los tipos de este paquete lo implementan.
type Scheme interface {
	// Name es el nombre usado en la CLI y en los archivos de salida.
	Name() string
	// WireName es el valor del campo "algo" que espera el receptor.
	WireName() string
	isScheme()
}

// CRC32Scheme agrega un CRC-32 de 32 bits.
type CRC32Scheme struct{}

func (CRC32Scheme) Name() string     { return "crc32" }
func (CRC32Scheme) WireName() string { return "crc" }
func (CRC32Scheme) isScheme()        {}

// FletcherScheme agrega un checksum Fletcher de 2*Width bits.
type FletcherScheme struct {
	Width   int
	Variant FletcherVariant
}

func (s FletcherScheme) Name() string {
	if s.Variant == FletcherDropPartial {
		return "fletcher-droppartial"
	}
	return "fletcher-padzero"
}
func (FletcherScheme) WireName() string { return "fletcher" }
func (FletcherScheme) isScheme()        {}

// HammingScheme intercala bits de paridad Hamming SEC.
type HammingScheme struct{}

func (HammingScheme) Name() string     { return "hamming" }
func (HammingScheme) WireName() string { return "hamming" }
func (HammingScheme) isScheme()        {}

// Result es la salida uniforme de Encode para todos los esquemas.
type Result struct {
	Scheme       Scheme
	OriginalBits BitString
	PaddedData   BitString // datos con padding (o sin el bloque descartado)
	TrailerBits  BitString // vacío en Hamming
	Codeword     BitString
	Trace        Trace
}

// Trace contiene los valores intermedios del cálculo. Solo es informativo.
type Trace struct {
	PaddingBits int
	DroppedBits int
	Blocks      []Block

	CRC uint32

	Modulus       uint64
	FletcherSteps []FletcherStep
	Sum1, Sum2    uint64

	Hamming *HammingTrace
}

// Encode valida bits y los codifica con scheme.
func Encode(bits string, scheme Scheme) (*Result, error) {
	b, err := ParseBits(bits)
	if err != nil {
		return nil, err
	}

	switch s := scheme.(type) {
	case CRC32Scheme:
		return EncodeCRC32(b)
	case FletcherScheme:
		return EncodeFletcher(b, s.Width, s.Variant)
	case HammingScheme:
		return EncodeHamming(b)
	case nil:
		return nil, &SchemeError{Name: "<nil>"}
	default:
		return nil, &SchemeError{Name: fmt.Sprintf("%T", scheme)}
	}
}

// ParseScheme traduce un nombre de algoritmo a su esquema. width solo se
// usa en Fletcher.
func ParseScheme(name string, width int) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "crc", "crc32", "crc-32":
		return CRC32Scheme{}, nil
	case "fletcher", "fletcher-padzero":
		if !ValidWidth(width) {
			return nil, invalidWidth(width)
		}
		return FletcherScheme{Width: width, Variant: FletcherPadZero}, nil
	case "fletcher-droppartial":
		if !ValidWidth(width) {
			return nil, invalidWidth(width)
		}
		return FletcherScheme{Width: width, Variant: FletcherDropPartial}, nil
	case "hamming":
		return HammingScheme{}, nil
	default:
		return nil, &SchemeError{Name: name}
	}
}

// ParseVariant traduce "padzero" o "droppartial".
func ParseVariant(name string) (FletcherVariant, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "padzero":
		return FletcherPadZero, nil
	case "droppartial":
		return FletcherDropPartial, nil
	default:
		return 0, &SchemeError{Name: "fletcher-" + name}
	}
}

// OutputSuffix es el sufijo del archivo de salida para este esquema,
// por ejemplo "crc32", "fletcher16" o "trama".
func OutputSuffix(s Scheme) string {
	switch v := s.(type) {
	case CRC32Scheme:
		return "crc32"
	case FletcherScheme:
		if v.Variant == FletcherDropPartial {
			return fmt.Sprintf("fletcher%d_droppartial", v.Width)
		}
		return fmt.Sprintf("fletcher%d", v.Width)
	case HammingScheme:
		return "trama"
	default:
		return "out"
	}
}
