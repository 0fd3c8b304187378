package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/frame"
	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/noise"
	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/presentation"
)

func newChannelCmd(root *rootOptions) *cobra.Command {
	var (
		algo       string
		prob       float64
		iterations int
	)

	cmd := &cobra.Command{
		Use:   "channel <archivo|bits|texto>",
		Short: "Simula el canal ruidoso sin enviar",
		Long: `Codifica la entrada y le aplica ruido varias veces para estimar cómo se
comporta el canal con la probabilidad dada.

Ejemplo:
  emitter channel --algo hamming --prob 0.05 --iterations 1000 hola`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			if !cmd.Flags().Changed("prob") {
				prob = cfg.Noise.Probability
			}
			scheme, err := resolveScheme(algo, cfg.Fletcher.BlockSize, cfg.Fletcher.Variant)
			if err != nil {
				return err
			}

			in, err := presentation.NewPresentationLayer().ResolveInput(args[0])
			if err != nil {
				return err
			}
			res, err := frame.Encode(string(in.Bits), scheme)
			if err != nil {
				return err
			}

			n := noise.NewNoiseLayer()
			if cfg.Noise.Seed != 0 {
				n = noise.NewNoiseLayerWithSeed(cfg.Noise.Seed)
			}
			stats, err := n.SimulateChannel(res.Codeword, prob, iterations)
			if err != nil {
				return err
			}
			_, err = stats.WriteTo(cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().StringVarP(&algo, "algo", "a", "crc32", "Algoritmo: crc32, fletcher, fletcher-droppartial o hamming")
	cmd.Flags().Float64VarP(&prob, "prob", "p", 0.01, "Probabilidad de error por bit")
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 1000, "Cantidad de transmisiones simuladas")
	return cmd
}
