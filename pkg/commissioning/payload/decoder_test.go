package payload

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pion/logging"
)

func newBufferedDecoder() (*Decoder, *bytes.Buffer) {
	var buf bytes.Buffer
	lf := logging.NewDefaultLoggerFactory()
	lf.Writer = &buf
	lf.DefaultLogLevel = logging.LogLevelDebug
	return NewDecoder(DecoderConfig{LoggerFactory: lf}), &buf
}

func TestDecoderParse(t *testing.T) {
	d, _ := newBufferedDecoder()

	t.Run("qr code", func(t *testing.T) {
		p, err := d.Parse(allClustersQRCode)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p == nil || p.Discriminator.Long() != 3840 {
			t.Fatalf("Parse() = %+v, want discriminator 3840", p)
		}
	})

	t.Run("manual code", func(t *testing.T) {
		p, err := d.Parse("3497-011-2332")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p == nil || p.Passcode != 20202021 {
			t.Fatalf("Parse() = %+v, want passcode 20202021", p)
		}
	})

	t.Run("rejected manual code", func(t *testing.T) {
		p, err := d.Parse("34970112333")
		if err != nil || p != nil {
			t.Fatalf("Parse() = %+v, %v; want nil, nil", p, err)
		}
	})

	t.Run("bad qr code", func(t *testing.T) {
		if _, err := d.Parse("MT:!!"); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestDecoderParseManualCodeLogsRejection(t *testing.T) {
	d, buf := newBufferedDecoder()

	if p := d.ParseManualCode("84129507534"); p != nil {
		t.Fatalf("ParseManualCode() = %+v, want nil", p)
	}
	if !strings.Contains(buf.String(), "rejected manual pairing code") {
		t.Errorf("log output %q does not mention the rejection", buf.String())
	}
	if !strings.Contains(buf.String(), ErrManualCodeInvalidChunk1.Error()) {
		t.Errorf("log output %q does not carry the reason", buf.String())
	}
}

func TestDecoderWithoutLogger(t *testing.T) {
	d := NewDecoder(DecoderConfig{})
	if p := d.ParseManualCode("1"); p != nil {
		t.Fatalf("ParseManualCode() = %+v, want nil", p)
	}
	if p := d.ParseManualCode("34970112332"); p == nil {
		t.Fatal("ParseManualCode() = nil for a valid code")
	}
}
