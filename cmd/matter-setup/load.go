package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/backkem/matter-setup/pkg/commissioning/payload"
	"github.com/backkem/matter-setup/pkg/factorydata"
)

func (a *app) newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Build a setup payload from device logs or factory data",
	}

	pf := cmd.PersistentFlags()
	pf.String("discovery", "", "discovery capabilities, e.g. ble|onnetwork (default: ble)")
	pf.String("flow", "standard", "commissioning flow: standard, user-intent, custom")
	pf.String("image", "", "write the QR code as a PNG image to this path")
	pf.Int("image-size", 0, "PNG width and height in pixels (default: 512)")

	logsCmd := &cobra.Command{
		Use:   "logs <path|->",
		Short: "Extract setup fields from device console logs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			l := a.loader(cmd)
			p, err := l.FromLogs(string(text))
			if err != nil {
				return err
			}
			return a.printLoaded(cmd, p, nil)
		},
	}

	jsonCmd := &cobra.Command{
		Use:   "json <path>",
		Short: "Load a factory data JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := a.loader(cmd)
			r, err := l.RecordFromJSON(args[0])
			if err != nil {
				return err
			}
			return a.printLoaded(cmd, l.Payload(r), r)
		},
	}

	cborHexCmd := &cobra.Command{
		Use:   "cbor-hex <path>",
		Short: "Load factory data CBOR from an Intel HEX partition image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := a.loader(cmd)
			r, err := l.RecordFromCBORHex(args[0])
			if err != nil {
				return err
			}
			return a.printLoaded(cmd, l.Payload(r), r)
		},
	}

	for _, c := range []*cobra.Command{jsonCmd, cborHexCmd} {
		c.Flags().Bool("verify-spake2", false, "check the stored SPAKE2+ verifier against the passcode")
	}

	cmd.AddCommand(logsCmd, jsonCmd, cborHexCmd)
	return cmd
}

func (a *app) loader(cmd *cobra.Command) *factorydata.Loader {
	return factorydata.NewLoader(factorydata.LoaderConfig{
		Discovery:     a.cfg.Discovery,
		Flow:          a.cfg.Flow,
		LoggerFactory: a.cfg.LoggerFactory(cmd.ErrOrStderr()),
	})
}

func (a *app) printLoaded(cmd *cobra.Command, p *payload.SetupPayload, r *factorydata.Record) error {
	out, err := newPayloadOutput(p)
	if err != nil {
		return err
	}
	out.Record = r

	if r != nil && a.v.GetBool("verify-spake2") {
		if err := r.VerifySpake2(); err != nil {
			return err
		}
		out.Spake2 = "valid"
	}

	if err := a.writeImage(out); err != nil {
		return err
	}
	return printOutputs(cmd.OutOrStdout(), a.cfg.Output, []*PayloadOutput{out})
}

// readInput reads path, or standard input for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
