package frame

// FletcherVariant selecciona el orden del trailer y la política de padding.
// Hay dos emisores en uso que no coinciden; se exponen ambos con nombre.
type FletcherVariant int

const (
	// FletcherPadZero completa con ceros y emite sum1‖sum2.
	FletcherPadZero FletcherVariant = iota
	// FletcherDropPartial descarta el bloque incompleto y emite sum2‖sum1.
	FletcherDropPartial
)

func (v FletcherVariant) String() string {
	switch v {
	case FletcherPadZero:
		return "padzero"
	case FletcherDropPartial:
		return "droppartial"
	default:
		return "unknown"
	}
}

// Policy devuelve la política de padding de la variante.
func (v FletcherVariant) Policy() PaddingPolicy {
	if v == FletcherDropPartial {
		return DropPartial
	}
	return PadZero
}

// FletcherModulus devuelve 2^width - 1.
func FletcherModulus(width int) uint64 {
	return (uint64(1) << uint(width)) - 1
}

// FletcherStep registra las sumas después de procesar un bloque.
type FletcherStep struct {
	Value uint64
	Sum1  uint64
	Sum2  uint64
}

// Fletcher acumula las dos sumas sobre blocks con módulo 2^width - 1.
func Fletcher(blocks []Block, width int) (sum1, sum2 uint64, steps []FletcherStep, err error) {
	if !ValidWidth(width) {
		return 0, 0, nil, invalidWidth(width)
	}
	m := FletcherModulus(width)
	steps = make([]FletcherStep, 0, len(blocks))
	for _, b := range blocks {
		sum1 = (sum1 + b.Value) % m
		sum2 = (sum2 + sum1) % m
		steps = append(steps, FletcherStep{Value: b.Value, Sum1: sum1, Sum2: sum2})
	}
	return sum1, sum2, steps, nil
}

// EncodeFletcher arma la trama [datos][checksum] para la variante dada.
func EncodeFletcher(bits BitString, width int, variant FletcherVariant) (*Result, error) {
	if variant != FletcherPadZero && variant != FletcherDropPartial {
		return nil, &SchemeError{Name: "fletcher-" + variant.String()}
	}
	if _, err := ParseBits(string(bits)); err != nil {
		return nil, err
	}

	blocks, padded, padding, err := ToBlocks(bits, width, variant.Policy())
	if err != nil {
		return nil, err
	}
	sum1, sum2, steps, err := Fletcher(blocks, width)
	if err != nil {
		return nil, err
	}

	s1 := formatBits(sum1, width)
	s2 := formatBits(sum2, width)
	trailer := s1 + s2
	if variant == FletcherDropPartial {
		trailer = s2 + s1
	}

	return &Result{
		Scheme:       FletcherScheme{Width: width, Variant: variant},
		OriginalBits: bits,
		PaddedData:   padded,
		TrailerBits:  trailer,
		Codeword:     padded + trailer,
		Trace: Trace{
			PaddingBits:   padding,
			DroppedBits:   len(bits) - len(padded) + padding,
			Blocks:        blocks,
			Modulus:       FletcherModulus(width),
			FletcherSteps: steps,
			Sum1:          sum1,
			Sum2:          sum2,
		},
	}, nil
}
