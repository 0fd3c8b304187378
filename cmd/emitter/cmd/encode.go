package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/frame"
	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/logging"
	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/presentation"
)

type encodeOptions struct {
	algo      string
	blockSize int
	verbose   bool
	outDir    string
	stdout    bool
}

func newEncodeCmd(root *rootOptions) *cobra.Command {
	opts := &encodeOptions{}

	cmd := &cobra.Command{
		Use:   "encode <archivo|bits>...",
		Short: "Codifica archivos o cadenas binarias",
		Long: `Codifica cada argumento con el algoritmo elegido.

Si el argumento es un archivo existente se lee su contenido y la trama se
guarda en <out-dir>/<nombre>_<sufijo>.txt. Si no, el argumento se toma
como cadena directa y la trama se imprime. Un contenido que no es binario
se convierte primero a bits ASCII.

Ejemplo:
  emitter encode --algo crc32 1011
  emitter encode --algo fletcher --block-size 8 mensaje.txt
  emitter encode --algo hamming --verbose 1011`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("block-size") {
				opts.blockSize = root.cfg.Fletcher.BlockSize
			}
			if !cmd.Flags().Changed("out-dir") {
				opts.outDir = root.cfg.Output.Dir
			}
			scheme, err := resolveScheme(opts.algo, opts.blockSize, root.cfg.Fletcher.Variant)
			if err != nil {
				return err
			}

			p := presentation.NewPresentationLayer()
			for _, arg := range args {
				if err := encodeArg(cmd.OutOrStdout(), p, arg, scheme, opts); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.algo, "algo", "a", "crc32", "Algoritmo: crc32, fletcher, fletcher-droppartial o hamming")
	cmd.Flags().IntVarP(&opts.blockSize, "block-size", "b", 16, "Tamaño de bloque de Fletcher: 4, 8, 16 o 32")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Mostrar los pasos intermedios")
	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "o", "out", "Directorio de salida para archivos")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "Imprimir también las tramas de archivos")
	return cmd
}

// resolveScheme traduce --algo. "fletcher" sin sufijo usa la variante
// configurada.
func resolveScheme(algo string, blockSize int, variant string) (frame.Scheme, error) {
	if strings.EqualFold(strings.TrimSpace(algo), "fletcher") && variant != "" {
		algo = "fletcher-" + variant
	}
	return frame.ParseScheme(algo, blockSize)
}

func encodeArg(w io.Writer, p *presentation.PresentationLayer, arg string, scheme frame.Scheme, opts *encodeOptions) error {
	logger := logging.NewLogger("encode")

	in, err := p.ResolveInput(arg)
	if err != nil {
		return err
	}
	if in.FromText {
		logger.WithField("chars", len(in.Content)).Debug("entrada convertida de ASCII a bits")
	}

	res, err := frame.Encode(string(in.Bits), scheme)
	if err != nil {
		return fmt.Errorf("codificando %q: %w", displayName(in), err)
	}

	if opts.verbose {
		fmt.Fprintf(w, "Entrada: %s\n", displayName(in))
		renderTrace(w, res)
		logger.WithFields(traceFields(res)).Debug("traza de codificación")
	}

	if in.Source == "" || opts.stdout {
		fmt.Fprintln(w, res.Codeword)
	}
	if in.Source == "" {
		return nil
	}

	path, err := writeOutput(opts.outDir, in.Source, scheme, res.Codeword)
	if err != nil {
		return err
	}
	logger.WithFields(log.Fields{
		"input":  in.Source,
		"output": path,
		"bits":   res.Codeword.Len(),
	}).Info("trama guardada")
	fmt.Fprintf(w, "Guardado en %s\n", path)
	return nil
}

// outputPath es <dir>/<nombre sin extensión>_<sufijo>.txt.
func outputPath(dir, source string, scheme frame.Scheme) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+"_"+frame.OutputSuffix(scheme)+".txt")
}

func writeOutput(dir, source string, scheme frame.Scheme, codeword frame.BitString) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creando directorio de salida: %w", err)
	}
	path := outputPath(dir, source, scheme)
	if err := os.WriteFile(path, []byte(codeword.String()+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("escribiendo %s: %w", path, err)
	}
	return path, nil
}

func displayName(in *presentation.Input) string {
	if in.Source != "" {
		return in.Source
	}
	return in.Content
}
