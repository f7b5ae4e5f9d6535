package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/backkem/matter-setup/pkg/commissioning/payload"
)

var errManualCodeRejected = errors.New("manual pairing code rejected")

func (a *app) newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <code>",
		Short: "Decode a QR code (MT:...) or manual pairing code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lf := a.cfg.LoggerFactory(cmd.ErrOrStderr())
			payloads, err := parseCode(payload.NewDecoder(payload.DecoderConfig{LoggerFactory: lf}), args[0])
			if err != nil {
				return err
			}

			outs := make([]*PayloadOutput, 0, len(payloads))
			for _, p := range payloads {
				out, err := newPayloadOutput(p)
				if err != nil {
					return err
				}
				outs = append(outs, out)
			}
			return printOutputs(cmd.OutOrStdout(), a.cfg.Output, outs)
		},
	}
}

func parseCode(d *payload.Decoder, code string) ([]*payload.SetupPayload, error) {
	code = strings.TrimSpace(code)
	if strings.HasPrefix(code, payload.QRCodePrefix) && strings.ContainsRune(code, payload.PayloadDelimiter) {
		return payload.ParseQRCodes(code)
	}

	p, err := d.Parse(code)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errManualCodeRejected
	}
	return []*payload.SetupPayload{p}, nil
}
