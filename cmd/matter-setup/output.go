package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/backkem/matter-setup/pkg/commissioning/payload"
	"github.com/backkem/matter-setup/pkg/factorydata"
)

// PayloadOutput is the printable form of a setup payload.
type PayloadOutput struct {
	Discriminator      uint16 `json:"discriminator" yaml:"discriminator"`
	ShortDiscriminator uint8  `json:"short_discriminator" yaml:"short_discriminator"`
	Passcode           uint32 `json:"passcode" yaml:"passcode"`
	Discovery          string `json:"discovery" yaml:"discovery"`
	Flow               string `json:"flow" yaml:"flow"`
	VendorID           uint16 `json:"vendor_id" yaml:"vendor_id"`
	ProductID          uint16 `json:"product_id" yaml:"product_id"`
	QRCode             string `json:"qr_code" yaml:"qr_code"`
	ManualCode         string `json:"manual_code" yaml:"manual_code"`
	Image              string `json:"image,omitempty" yaml:"image,omitempty"`
	Spake2             string `json:"spake2,omitempty" yaml:"spake2,omitempty"`

	Record  *factorydata.Record `json:"record,omitempty" yaml:"record,omitempty"`
	payload *payload.SetupPayload
}

func newPayloadOutput(p *payload.SetupPayload) (*PayloadOutput, error) {
	qr, err := payload.EncodeQRCode(p)
	if err != nil {
		return nil, err
	}
	manual, err := payload.EncodeManualCode(p)
	if err != nil {
		return nil, err
	}
	return &PayloadOutput{
		Discriminator:      p.Discriminator.Long(),
		ShortDiscriminator: p.Discriminator.Short(),
		Passcode:           p.Passcode,
		Discovery:          p.DiscoveryCapabilities.String(),
		Flow:               p.CommissioningFlow.String(),
		VendorID:           p.VendorID,
		ProductID:          p.ProductID,
		QRCode:             qr,
		ManualCode:         payload.FormatManualCode(manual),
		payload:            p,
	}, nil
}

func printOutputs(w io.Writer, format string, outs []*PayloadOutput) error {
	switch format {
	case outputJSON:
		var v any = outs
		if len(outs) == 1 {
			v = outs[0]
		}
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case outputYAML:
		var v any = outs
		if len(outs) == 1 {
			v = outs[0]
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	for i, o := range outs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprint(w, o.payload.PrettyString())
		fmt.Fprintf(w, "QR code:              %s\n", o.QRCode)
		fmt.Fprintf(w, "Manual code:          %s\n", o.ManualCode)
		if o.Image != "" {
			fmt.Fprintf(w, "Image:                %s\n", o.Image)
		}
		if o.Spake2 != "" {
			fmt.Fprintf(w, "SPAKE2+ verifier:     %s\n", o.Spake2)
		}
		if o.Record != nil && o.Record.SerialNumber != "" {
			fmt.Fprintf(w, "Serial number:        %s\n", o.Record.SerialNumber)
		}
	}
	return nil
}
