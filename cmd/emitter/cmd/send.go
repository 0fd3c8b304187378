package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/application"
	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/emitter"
	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/transport"
)

func newSendCmd(root *rootOptions) *cobra.Command {
	var prob float64

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Envía mensajes de forma interactiva",
		Long: `Pide un mensaje y un algoritmo (Hamming/Fletcher/CRC), aplica ruido
y envía la trama al receptor. Escriba 'salir' para terminar.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			if !cmd.Flags().Changed("prob") {
				prob = cfg.Noise.Probability
			}

			sender, err := transport.New(cfg.Receiver)
			if err != nil {
				return err
			}
			fletcher, err := cfg.TransportFletcherScheme()
			if err != nil {
				return err
			}

			e := emitter.New(sender, cfg.Noise.Seed)
			app := application.NewApplicationLayer(cmd.InOrStdin(), cmd.OutOrStdout(), fletcher)
			return app.Run(cmd.Context(), e, prob)
		},
	}

	cmd.Flags().Float64VarP(&prob, "prob", "p", 0.001, "Probabilidad de error por bit")
	return cmd
}
