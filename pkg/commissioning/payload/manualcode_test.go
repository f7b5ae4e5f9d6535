package payload

import (
	"errors"
	"regexp"
	"testing"
)

// Test vectors derived from C++ TestManualCode.cpp
// Default payload: passcode=12345679, discriminator=2560 (0xA00)
// Short discriminator = 0xA (MSBs of 0xA00)

func TestDecodeManualCode(t *testing.T) {
	tests := []struct {
		name                   string
		input                  string
		wantPasscode           uint32
		wantShortDiscriminator uint8
		wantVendorID           uint16
		wantProductID          uint16
		wantCustomFlow         bool
		wantErr                error
	}{
		{
			name:                   "short code",
			input:                  "24129507533", // 2412950753 + check '3'
			wantPasscode:           12345679,
			wantShortDiscriminator: 0xA,
		},
		{
			name:                   "long code with vid/pid 1",
			input:                  "641295075300001000017", // + check '7'
			wantPasscode:           12345679,
			wantShortDiscriminator: 0xA,
			wantVendorID:           1,
			wantProductID:          1,
			wantCustomFlow:         true,
		},
		{
			name:                   "long code full",
			input:                  "641295075345367145262", // + check '2'
			wantPasscode:           12345679,
			wantShortDiscriminator: 0xA,
			wantVendorID:           45367,
			wantProductID:          14526,
			wantCustomFlow:         true,
		},
		{
			name:                   "chip default",
			input:                  "34970112332",
			wantPasscode:           20202021,
			wantShortDiscriminator: 15,
		},

		// Formatting
		{
			name:                   "with dashes",
			input:                  "2412-950-7533",
			wantPasscode:           12345679,
			wantShortDiscriminator: 0xA,
		},
		{
			name:                   "with spaces",
			input:                  "2412 950 7533",
			wantPasscode:           12345679,
			wantShortDiscriminator: 0xA,
		},

		// Error cases
		{name: "invalid check digit", input: "24129507530", wantErr: ErrManualCodeInvalidChecksum},
		{name: "too short", input: "12345", wantErr: ErrManualCodeInvalidLength},
		{name: "empty", input: "", wantErr: ErrManualCodeInvalidLength},
		{name: "12 digits", input: "241295075331", wantErr: ErrManualCodeInvalidLength},
		{name: "chunk1 reserved value 8", input: "84129507534", wantErr: ErrManualCodeInvalidChunk1},
		{name: "chunk1 reserved value 9", input: "94129507534", wantErr: ErrManualCodeInvalidChunk1},
		{name: "letter", input: "2412950753A", wantErr: ErrManualCodeInvalidChecksum},
		{name: "letter in data", input: "24129A07533", wantErr: ErrManualCodeInvalidDigit},
		{name: "leading letter", input: "A4129507533", wantErr: ErrManualCodeInvalidDigit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := DecodeManualCode(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("DecodeManualCode(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeManualCode(%q) unexpected error: %v", tt.input, err)
			}

			if payload.Passcode != tt.wantPasscode {
				t.Errorf("Passcode = %d, want %d", payload.Passcode, tt.wantPasscode)
			}
			if !payload.Discriminator.IsShort() {
				t.Error("expected short discriminator")
			}
			if payload.Discriminator.Short() != tt.wantShortDiscriminator {
				t.Errorf("Short() = %d, want %d", payload.Discriminator.Short(), tt.wantShortDiscriminator)
			}
			if want := uint16(tt.wantShortDiscriminator) << 8; payload.Discriminator.Long() != want {
				t.Errorf("Long() = %d, want %d", payload.Discriminator.Long(), want)
			}
			if payload.VendorID != tt.wantVendorID {
				t.Errorf("VendorID = %d, want %d", payload.VendorID, tt.wantVendorID)
			}
			if payload.ProductID != tt.wantProductID {
				t.Errorf("ProductID = %d, want %d", payload.ProductID, tt.wantProductID)
			}
			wantFlow := CommissioningFlowStandard
			if tt.wantCustomFlow {
				wantFlow = CommissioningFlowCustom
			}
			if payload.CommissioningFlow != wantFlow {
				t.Errorf("CommissioningFlow = %v, want %v", payload.CommissioningFlow, wantFlow)
			}
		})
	}
}

func TestDecodeManualCodeVIDPIDFlag(t *testing.T) {
	withCheck := func(data string) string {
		check, err := VerhoeffCompute(data)
		if err != nil {
			t.Fatal(err)
		}
		return data + string(check)
	}

	t.Run("flag set in short code", func(t *testing.T) {
		_, err := DecodeManualCode(withCheck("6412950753"))
		if !errors.Is(err, ErrManualCodeVIDPIDMismatch) {
			t.Errorf("error = %v, want %v", err, ErrManualCodeVIDPIDMismatch)
		}
	})

	t.Run("flag clear in long code", func(t *testing.T) {
		code := withCheck("3497011233" + "6552132769")
		if code != "349701123365521327696" {
			t.Fatalf("code = %q, want 349701123365521327696", code)
		}

		p, err := DecodeManualCode(code)
		if err != nil {
			t.Fatalf("DecodeManualCode(%q) unexpected error: %v", code, err)
		}
		if p.Passcode != 20202021 {
			t.Errorf("Passcode = %d, want 20202021", p.Passcode)
		}
		if p.Discriminator.Short() != 15 {
			t.Errorf("Short() = %d, want 15", p.Discriminator.Short())
		}
		if p.VendorID != 0 || p.ProductID != 0 {
			t.Errorf("VID/PID = %d/%d, want 0/0", p.VendorID, p.ProductID)
		}
		if p.CommissioningFlow != CommissioningFlowStandard {
			t.Errorf("CommissioningFlow = %v, want Standard", p.CommissioningFlow)
		}

		d := NewDecoder(DecoderConfig{})
		if got, err := d.Parse(code); err != nil || got == nil {
			t.Errorf("Decoder.Parse(%q) = %v, %v; want a payload", code, got, err)
		}
	})
}

func TestEncodeManualCode(t *testing.T) {
	tests := []struct {
		name    string
		payload *SetupPayload
		want    string
	}{
		{
			name: "short code",
			payload: &SetupPayload{
				Discriminator: NewLongDiscriminator(2560),
				Passcode:      12345679,
			},
			want: "24129507533",
		},
		{
			name: "long code",
			payload: &SetupPayload{
				Discriminator:     NewLongDiscriminator(2560),
				Passcode:          12345679,
				CommissioningFlow: CommissioningFlowCustom,
				VendorID:          1,
				ProductID:         1,
			},
			want: "641295075300001000017",
		},
		{
			name: "standard flow drops vid/pid",
			payload: &SetupPayload{
				Discriminator: NewLongDiscriminator(3840),
				Passcode:      20202021,
				VendorID:      65521,
				ProductID:     32774,
			},
			want: "34970112332",
		},
		{
			name: "user intent flow carries vid/pid",
			payload: &SetupPayload{
				Discriminator:     NewLongDiscriminator(3840),
				Passcode:          20202021,
				CommissioningFlow: CommissioningFlowUserIntent,
				VendorID:          65521,
				ProductID:         32774,
			},
			want: "749701123365521327747",
		},
		{
			name: "short discriminator",
			payload: &SetupPayload{
				Discriminator: NewShortDiscriminator(0xA),
				Passcode:      12345679,
			},
			want: "24129507533",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeManualCode(tt.payload)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("EncodeManualCode() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("passcode exceeds 27 bits", func(t *testing.T) {
		_, err := EncodeManualCode(NewSetupPayload(1, 1<<27))
		if !errors.Is(err, ErrInvalidPasscode) {
			t.Errorf("error = %v, want %v", err, ErrInvalidPasscode)
		}
	})
}

func TestManualCodeRoundtrip(t *testing.T) {
	short := regexp.MustCompile(`^\d{11}$`)
	long := regexp.MustCompile(`^\d{21}$`)

	for _, flow := range []CommissioningFlow{CommissioningFlowStandard, CommissioningFlowUserIntent, CommissioningFlowCustom} {
		for _, disc := range []uint16{0, 255, 256, 2560, 3840, 4095} {
			for _, pin := range []uint32{1, 16383, 16384, 20202021, PasscodeMask} {
				in := &SetupPayload{
					Discriminator:     NewLongDiscriminator(disc),
					Passcode:          pin,
					CommissioningFlow: flow,
					VendorID:          65521,
					ProductID:         32774,
				}
				code, err := EncodeManualCode(in)
				if err != nil {
					t.Fatalf("EncodeManualCode(%+v) error: %v", in, err)
				}

				pattern := short
				if flow != CommissioningFlowStandard {
					pattern = long
				}
				if !pattern.MatchString(code) {
					t.Fatalf("EncodeManualCode(%+v) = %q, wrong shape", in, code)
				}

				out, err := DecodeManualCode(code)
				if err != nil {
					t.Fatalf("DecodeManualCode(%q) error: %v", code, err)
				}
				if out.Passcode != pin {
					t.Errorf("%q: Passcode = %d, want %d", code, out.Passcode, pin)
				}
				if out.Discriminator.Short() != uint8(disc>>8) {
					t.Errorf("%q: Short() = %d, want %d", code, out.Discriminator.Short(), disc>>8)
				}
				if flow == CommissioningFlowStandard {
					if out.VendorID != 0 || out.ProductID != 0 || out.CommissioningFlow != CommissioningFlowStandard {
						t.Errorf("%q: got VID/PID %d/%d flow %v, want none", code, out.VendorID, out.ProductID, out.CommissioningFlow)
					}
				} else {
					if out.VendorID != 65521 || out.ProductID != 32774 {
						t.Errorf("%q: VID/PID = %d/%d, want 65521/32774", code, out.VendorID, out.ProductID)
					}
					if out.CommissioningFlow != CommissioningFlowCustom {
						t.Errorf("%q: flow = %v, want Custom", code, out.CommissioningFlow)
					}
				}
			}
		}
	}
}

func TestManualCodeTamperDetection(t *testing.T) {
	for _, valid := range []string{"34970112332", "749701123365521327747"} {
		for pos := 0; pos < len(valid); pos++ {
			for digit := byte('0'); digit <= '9'; digit++ {
				if digit == valid[pos] {
					continue
				}
				modified := []byte(valid)
				modified[pos] = digit
				if p, err := DecodeManualCode(string(modified)); err == nil {
					t.Errorf("DecodeManualCode(%s) = %+v, want error", modified, p)
				}
			}
		}
	}
}

func TestFormatManualCode(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"34970112332", "3497-011-2332"},
		{"749701123365521327747", "7497-011-2336-55213-27747"},
		{"123", "123"},
	}
	for _, tt := range tests {
		if got := FormatManualCode(tt.input); got != tt.want {
			t.Errorf("FormatManualCode(%q) = %q, want %q", tt.input, got, tt.want)
		}
		if got := StripFormatting(FormatManualCode(tt.input)); got != tt.input {
			t.Errorf("StripFormatting(FormatManualCode(%q)) = %q", tt.input, got)
		}
	}
}
