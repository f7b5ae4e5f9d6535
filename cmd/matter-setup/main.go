// matter-setup encodes, decodes and extracts Matter onboarding payloads.
//
// Usage:
//
//	matter-setup generate --discriminator 3840 --passcode 20202021 [--vendor 0xFFF1 --product 0x8001] [--image qr.png]
//	matter-setup parse MT:-24J0AFN00KA0648G00
//	matter-setup parse 3497-011-2332
//	matter-setup load logs device.log
//	matter-setup load json factory_data.json --verify-spake2
//	matter-setup load cbor-hex factory_data.hex
//
// Global options:
//
//	--config     YAML config file
//	--log-level  disabled, error, warn, info, debug or trace (default: warn)
//	--output     text, yaml or json (default: text)
//
// Every flag can also be set as MATTER_SETUP_<FLAG> in the environment,
// e.g. MATTER_SETUP_OUTPUT=json.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
