package format

import (
	"bytes"
	"fmt"

	"go.uber.org/zap"

	"github.com/oisee/modscope/pkg/tracker"
)

// Layout constants shared by the detector and the header parsers
const (
	xmMagic          = "Extended Module: "
	modSignatureOff  = 1080
	modHeaderSize    = 1084
	modDefaultChans  = 4
	modSignatureSize = 4
)

// Detection is the outcome of format detection
type Detection struct {
	Kind      tracker.Kind
	Channels  int    // MOD only
	Signature string // MOD only
	Warning   string
}

var modSignatures = map[string]int{
	"M.K.": 4, "M!K!": 4, "FLT4": 4, "4CHN": 4,
	"6CHN": 6,
	"FLT8": 8, "8CHN": 8, "OKTA": 8, "CD81": 8,
}

// modChannels maps a MOD signature to its channel count, 0 when unknown
func modChannels(sig []byte) int {
	if n, ok := modSignatures[string(sig)]; ok {
		return n
	}
	isDigit := func(b byte) bool { return b >= '0' && b <= '9' }

	// xxCH, xxCN
	if isDigit(sig[0]) && isDigit(sig[1]) && sig[2] == 'C' && (sig[3] == 'H' || sig[3] == 'N') {
		return int(sig[0]-'0')*10 + int(sig[1]-'0')
	}
	// xCHN, xCHx
	if isDigit(sig[0]) && sig[1] == 'C' && (sig[2] == 'H' || sig[2] == 'N') {
		return int(sig[0] - '0')
	}
	return 0
}

// Detect classifies a buffer as XM or MOD. Buffers that are too short for
// either format return an UnknownFormat error.
func Detect(data []byte) (Detection, error) {
	if len(data) >= len(xmMagic) && bytes.Equal(data[:len(xmMagic)], []byte(xmMagic)) {
		Logger().Debug("detected format", zap.Stringer("kind", tracker.KindXM))
		return Detection{Kind: tracker.KindXM}, nil
	}

	if len(data) >= modHeaderSize {
		sig := data[modSignatureOff : modSignatureOff+modSignatureSize]
		d := Detection{Kind: tracker.KindMOD, Signature: decodeText(sig)}
		d.Channels = modChannels(sig)
		if d.Channels == 0 {
			d.Channels = modDefaultChans
			d.Warning = fmt.Sprintf("unknown MOD signature %q, defaulting to 4 channels", string(sig))
		}
		Logger().Debug("detected format",
			zap.Stringer("kind", d.Kind),
			zap.ByteString("signature", sig),
			zap.Int("channels", d.Channels))
		return d, nil
	}

	return Detection{}, unknownFormat(len(data))
}
