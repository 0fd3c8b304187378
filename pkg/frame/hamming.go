package frame

// ParityBits devuelve el mínimo r tal que m + r + 1 <= 2^r.
func ParityBits(m int) int {
	r := 0
	for m+r+1 > 1<<r {
		r++
	}
	return r
}

func isPow2(x int) bool {
	return x&(x-1) == 0
}

// ParityTrace describe el cálculo de un bit de paridad.
type ParityTrace struct {
	Position int   // posición 1-based (potencia de 2)
	Covered  []int // posiciones cubiertas, incluida la propia
	Value    byte
}

// HammingTrace guarda las dimensiones del código y el mapa de paridades.
type HammingTrace struct {
	M, R, N int
	Layout  BitString // mapa inicial: 'P' en paridades, el dato en el resto
	Parity  []ParityTrace
}

// EncodeHamming construye la trama Hamming SEC para dataBits. Los bits de
// paridad quedan intercalados en las posiciones potencia de 2, no hay trailer.
func EncodeHamming(dataBits BitString) (*Result, error) {
	if _, err := ParseBits(string(dataBits)); err != nil {
		return nil, err
	}

	m := len(dataBits)
	r := ParityBits(m)
	n := m + r

	// code[0] no se usa; las posiciones van de 1 a n.
	code := make([]byte, n+1)
	layout := make([]byte, n)
	idx := 0
	for pos := 1; pos <= n; pos++ {
		if isPow2(pos) {
			layout[pos-1] = 'P'
			continue
		}
		code[pos] = dataBits.Bit(idx)
		layout[pos-1] = dataBits[idx]
		idx++
	}

	parity := make([]ParityTrace, 0, r)
	for i := 0; i < r; i++ {
		p := 1 << i
		var v byte
		covered := make([]int, 0, n/2+1)
		for pos := 1; pos <= n; pos++ {
			if pos&p != 0 {
				v ^= code[pos]
				covered = append(covered, pos)
			}
		}
		code[p] = v
		parity = append(parity, ParityTrace{Position: p, Covered: covered, Value: v})
	}

	return &Result{
		Scheme:       HammingScheme{},
		OriginalBits: dataBits,
		PaddedData:   dataBits,
		Codeword:     joinBits(code[1:]),
		Trace: Trace{
			Hamming: &HammingTrace{M: m, R: r, N: n, Layout: BitString(layout), Parity: parity},
		},
	}, nil
}
