package cmd

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/emitter"
	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/frame"
	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/report"
	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/transport"
)

const defaultTestMessages = 100

func newTestCmd(root *rootOptions) *cobra.Command {
	var reportPath string

	cmd := &cobra.Command{
		Use:   "test [N]",
		Short: "Envía N mensajes aleatorios y genera el reporte",
		Long: `Envía N mensajes aleatorios (por defecto 100) repartidos entre Hamming,
Fletcher y CRC, y entre las probabilidades de ruido configuradas. Cada
mensaje queda registrado en el reporte CSV antes de enviarse.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg := root.cfg

			total := defaultTestMessages
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("cantidad de mensajes inválida: %q", args[0])
				}
				total = n
			}
			if !cmd.Flags().Changed("report") {
				reportPath = cfg.Output.ClientReport
			}

			schemes, err := testSchemes(cfg.TransportFletcherScheme)
			if err != nil {
				return err
			}
			sender, err := transport.New(cfg.Receiver)
			if err != nil {
				return err
			}

			rep, err := report.Create(reportPath)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := rep.Close(); cerr != nil && err == nil {
					err = fmt.Errorf("cerrando reporte %s: %w", reportPath, cerr)
				}
			}()

			res, err := emitter.New(sender, cfg.Noise.Seed).RunTest(cmd.Context(), total, schemes, cfg.Noise.TestProbabilities, rep)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n¡Test de %d mensajes completado! (%s)\n", res.Requested, res.RunID)
			fmt.Fprintf(out, "   Enviados: %d en %v\n", res.Sent, res.TotalTime)
			names := make([]string, 0, len(res.PerScheme))
			for name := range res.PerScheme {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(out, "   %s: %d\n", name, res.PerScheme[name])
			}
			fmt.Fprintf(out, "   Bits invertidos: %d\n", res.TotalBitsFlipped)
			fmt.Fprintf(out, "   Reporte: %s\n", reportPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&reportPath, "report", "r", "client_report.csv", "Archivo CSV del reporte")
	return cmd
}

// testSchemes devuelve los algoritmos del modo test en orden: Hamming,
// Fletcher y CRC.
func testSchemes(fletcher func() (frame.FletcherScheme, error)) ([]frame.Scheme, error) {
	f, err := fletcher()
	if err != nil {
		return nil, err
	}
	return []frame.Scheme{frame.HammingScheme{}, f, frame.CRC32Scheme{}}, nil
}
