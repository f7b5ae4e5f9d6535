package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/backkem/matter-setup/pkg/commissioning/payload"
	"github.com/backkem/matter-setup/pkg/qrimage"
)

func (a *app) newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Encode a QR code and manual pairing code from setup fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.payloadFromFlags()
			if err != nil {
				return err
			}
			if err := payload.ValidatePasscode(p.Passcode); err != nil {
				lf := a.cfg.LoggerFactory(cmd.ErrOrStderr())
				lf.NewLogger("generate").Warnf("passcode %d is not allowed in production devices", p.Passcode)
			}

			out, err := newPayloadOutput(p)
			if err != nil {
				return err
			}
			if err := a.writeImage(out); err != nil {
				return err
			}
			return printOutputs(cmd.OutOrStdout(), a.cfg.Output, []*PayloadOutput{out})
		},
	}

	f := cmd.Flags()
	f.String("discriminator", "", "12-bit discriminator (required)")
	f.String("passcode", "", "27-bit setup passcode (required)")
	f.String("vendor", "0", "vendor ID")
	f.String("product", "0", "product ID")
	f.String("discovery", "", "discovery capabilities, e.g. ble|onnetwork (default: onnetwork)")
	f.String("flow", "standard", "commissioning flow: standard, user-intent, custom")
	addImageFlags(cmd)
	return cmd
}

func (a *app) payloadFromFlags() (*payload.SetupPayload, error) {
	disc, err := a.requiredUint("discriminator", 12)
	if err != nil {
		return nil, err
	}
	pin, err := a.requiredUint("passcode", payload.PasscodeBits)
	if err != nil {
		return nil, err
	}
	vendor, err := parseUintFlag("vendor", a.v.GetString("vendor"), 16)
	if err != nil {
		return nil, err
	}
	product, err := parseUintFlag("product", a.v.GetString("product"), 16)
	if err != nil {
		return nil, err
	}

	p := payload.NewSetupPayload(uint16(disc), uint32(pin))
	if a.cfg.Discovery != nil {
		p.DiscoveryCapabilities = *a.cfg.Discovery
	}
	p.CommissioningFlow = a.cfg.Flow
	p.VendorID = uint16(vendor)
	p.ProductID = uint16(product)
	return p, nil
}

func (a *app) requiredUint(name string, bits int) (uint64, error) {
	s := a.v.GetString(name)
	if s == "" {
		return 0, fmt.Errorf("--%s is required", name)
	}
	return parseUintFlag(name, s, bits)
}

func parseUintFlag(name, s string, bits int) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("invalid --%s %q: must fit in %d bits", name, s, bits)
	}
	return n, nil
}

func addImageFlags(cmd *cobra.Command) {
	cmd.Flags().String("image", "", "write the QR code as a PNG image to this path")
	cmd.Flags().Int("image-size", 0, "PNG width and height in pixels (default: 512)")
}

func (a *app) writeImage(out *PayloadOutput) error {
	path := a.v.GetString("image")
	if path == "" {
		return nil
	}
	opts := qrimage.DefaultOptions()
	opts.Size = a.cfg.ImageSize
	written, err := qrimage.NewRenderer(opts).WriteFile(out.payload, path)
	if err != nil {
		return err
	}
	out.Image = written
	return nil
}
