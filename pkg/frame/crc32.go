package frame

import "sync"

// CRC32Poly es el polinomio generador reflejado de CRC-32/ISO-HDLC.
const CRC32Poly uint32 = 0xEDB88320

// crcTable se construye una sola vez por proceso y después solo se lee.
var crcTable = sync.OnceValue(func() *[256]uint32 {
	var t [256]uint32
	for i := range t {
		c := uint32(i)
		for j := 0; j < 8; j++ {
			if c&1 == 1 {
				c = CRC32Poly ^ (c >> 1)
			} else {
				c >>= 1
			}
		}
		t[i] = c
	}
	return &t
})

// CRC32Table devuelve una copia de la tabla de reducción.
func CRC32Table() [256]uint32 {
	return *crcTable()
}

// CRC32 calcula el CRC-32 estándar (init y xor final 0xFFFFFFFF, entrada y salida reflejadas).
func CRC32(data []byte) uint32 {
	t := crcTable()
	acc := uint32(0xFFFFFFFF)
	for _, b := range data {
		acc = (acc >> 8) ^ t[(acc^uint32(b))&0xFF]
	}
	return acc ^ 0xFFFFFFFF
}

// EncodeCRC32 completa bits a múltiplo de 8, calcula el CRC sobre los bytes
// resultantes y lo agrega como trailer de 32 bits.
func EncodeCRC32(bits BitString) (*Result, error) {
	if _, err := ParseBits(string(bits)); err != nil {
		return nil, err
	}
	blocks, padded, padding, err := ToBlocks(bits, 8, PadZero)
	if err != nil {
		return nil, err
	}

	data := make([]byte, len(blocks))
	for i, b := range blocks {
		data[i] = byte(b.Value)
	}
	crc := CRC32(data)
	trailer := formatBits(uint64(crc), 32)

	return &Result{
		Scheme:       CRC32Scheme{},
		OriginalBits: bits,
		PaddedData:   padded,
		TrailerBits:  trailer,
		Codeword:     padded + trailer,
		Trace: Trace{
			PaddingBits: padding,
			Blocks:      blocks,
			CRC:         crc,
		},
	}, nil
}
