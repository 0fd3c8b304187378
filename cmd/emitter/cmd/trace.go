package cmd

import (
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/frame"
)

// renderTrace imprime los valores intermedios de res según su esquema.
func renderTrace(w io.Writer, res *frame.Result) {
	fmt.Fprintf(w, "Algoritmo: %s\n", res.Scheme.Name())
	fmt.Fprintf(w, "Datos (%d bits): %s\n", res.OriginalBits.Len(), res.OriginalBits)

	switch s := res.Scheme.(type) {
	case frame.CRC32Scheme:
		if res.Trace.PaddingBits > 0 {
			fmt.Fprintf(w, "Padding: %d ceros → %s\n", res.Trace.PaddingBits, res.PaddedData)
		}
		renderBlocks(w, res.Trace.Blocks)
		fmt.Fprintf(w, "CRC-32: 0x%08X\n", res.Trace.CRC)
		fmt.Fprintf(w, "Trailer (32 bits): %s\n", res.TrailerBits)

	case frame.FletcherScheme:
		fmt.Fprintf(w, "Fletcher-%d (%s), módulo %d\n", s.Width, s.Variant, res.Trace.Modulus)
		if res.Trace.PaddingBits > 0 {
			fmt.Fprintf(w, "Padding: %d ceros\n", res.Trace.PaddingBits)
		}
		if res.Trace.DroppedBits > 0 {
			fmt.Fprintf(w, "Descartados: %d bits del bloque incompleto\n", res.Trace.DroppedBits)
		}
		for i, step := range res.Trace.FletcherSteps {
			fmt.Fprintf(w, "  bloque %d: %s (%d) → sum1=%d sum2=%d\n",
				i+1, res.Trace.Blocks[i].Bits, step.Value, step.Sum1, step.Sum2)
		}
		fmt.Fprintf(w, "sum1=%d sum2=%d\n", res.Trace.Sum1, res.Trace.Sum2)
		fmt.Fprintf(w, "Trailer (%d bits): %s\n", res.TrailerBits.Len(), res.TrailerBits)

	case frame.HammingScheme:
		h := res.Trace.Hamming
		fmt.Fprintf(w, "m=%d r=%d n=%d\n", h.M, h.R, h.N)
		fmt.Fprintf(w, "Mapa inicial: %s\n", h.Layout)
		for _, p := range h.Parity {
			fmt.Fprintf(w, "  P%d cubre %s → %d\n", p.Position, joinInts(p.Covered), p.Value)
		}
	}

	fmt.Fprintf(w, "Trama (%d bits): %s\n", res.Codeword.Len(), res.Codeword)
}

// traceFields resume la traza de res como campos de log.
func traceFields(res *frame.Result) log.Fields {
	fields := log.Fields{
		"scheme":   res.Scheme.Name(),
		"data":     res.OriginalBits.String(),
		"trailer":  res.TrailerBits.String(),
		"codeword": res.Codeword.String(),
		"padding":  res.Trace.PaddingBits,
		"blocks":   len(res.Trace.Blocks),
	}
	switch res.Scheme.(type) {
	case frame.CRC32Scheme:
		fields["crc"] = fmt.Sprintf("0x%08X", res.Trace.CRC)
	case frame.FletcherScheme:
		fields["dropped"] = res.Trace.DroppedBits
		fields["modulus"] = res.Trace.Modulus
		fields["sum1"] = res.Trace.Sum1
		fields["sum2"] = res.Trace.Sum2
	case frame.HammingScheme:
		h := res.Trace.Hamming
		fields["m"], fields["r"], fields["n"] = h.M, h.R, h.N
		fields["layout"] = h.Layout.String()
	}
	return fields
}

func renderBlocks(w io.Writer, blocks []frame.Block) {
	for i, b := range blocks {
		fmt.Fprintf(w, "  byte %d: %s (0x%02X)\n", i+1, b.Bits, b.Value)
	}
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = fmt.Sprint(n)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
