package format

import (
	"errors"
	"strings"
	"testing"

	"github.com/oisee/modscope/pkg/tracker"
)

func TestDetectMODSignatures(t *testing.T) {
	cases := []struct {
		sig      string
		channels int
		warn     bool
	}{
		{"M.K.", 4, false},
		{"M!K!", 4, false},
		{"FLT4", 4, false},
		{"4CHN", 4, false},
		{"6CHN", 6, false},
		{"8CHN", 8, false},
		{"FLT8", 8, false},
		{"OKTA", 8, false},
		{"CD81", 8, false},
		{"2CHN", 2, false},
		{"10CH", 10, false},
		{"16CN", 16, false},
		{"32CH", 32, false},
		{"ZZZZ", 4, true},
		{"\x00\x00\x00\x00", 4, true},
	}
	for _, tc := range cases {
		data := make([]byte, modHeaderSize)
		copy(data[modSignatureOff:], tc.sig)

		d, err := Detect(data)
		if err != nil {
			t.Fatalf("Detect(%q): %v", tc.sig, err)
		}
		if d.Kind != tracker.KindMOD {
			t.Errorf("Detect(%q) kind = %v, want MOD", tc.sig, d.Kind)
		}
		if d.Channels != tc.channels {
			t.Errorf("Detect(%q) channels = %d, want %d", tc.sig, d.Channels, tc.channels)
		}
		if got := d.Warning != ""; got != tc.warn {
			t.Errorf("Detect(%q) warning = %q", tc.sig, d.Warning)
		}
		if tc.warn && !strings.Contains(d.Warning, "defaulting to 4 channels") {
			t.Errorf("Detect(%q) warning = %q", tc.sig, d.Warning)
		}
	}
}

func TestDetectXMPrecedesMOD(t *testing.T) {
	data := make([]byte, 2000)
	copy(data, xmMagic)
	copy(data[modSignatureOff:], "M.K.")

	d, err := Detect(data)
	if err != nil || d.Kind != tracker.KindXM {
		t.Fatalf("Detect = %+v, %v; want XM", d, err)
	}

	d, err = Detect([]byte(xmMagic))
	if err != nil || d.Kind != tracker.KindXM {
		t.Fatalf("Detect(magic only) = %+v, %v; want XM", d, err)
	}
}

func TestDetectUnknown(t *testing.T) {
	inputs := [][]byte{
		nil,
		{0x00, 0x01, 0x02},
		[]byte("Extended Module"),
		make([]byte, modHeaderSize-1),
	}
	for _, data := range inputs {
		if _, err := Detect(data); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("Detect(%d bytes) = %v, want unknown format", len(data), err)
		}
	}
}
