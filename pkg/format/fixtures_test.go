package format

import (
	"bytes"
	"encoding/binary"

	"github.com/oisee/modscope/pkg/tracker"
)

func padded(s string, n int) []byte {
	b := make([]byte, n)
	copy(b, s)
	return b
}

func le16(b *bytes.Buffer, v uint16) {
	_ = binary.Write(b, binary.LittleEndian, v)
}

func le32(b *bytes.Buffer, v uint32) {
	_ = binary.Write(b, binary.LittleEndian, v)
}

// modFixture describes a synthetic ProTracker module
type modFixture struct {
	title     string
	signature string
	channels  int // pattern data layout; normally matches the signature
	order     []uint8
	songLen   int // defaults to len(order)
	patterns  int // defaults to max(order)+1
	sample1   string
}

func buildMOD(f modFixture) []byte {
	if f.channels == 0 {
		f.channels = 4
	}
	if f.songLen == 0 {
		f.songLen = len(f.order)
	}
	if f.patterns == 0 {
		for _, o := range f.order {
			f.patterns = max(f.patterns, int(o)+1)
		}
		f.patterns = max(f.patterns, 1)
	}

	data := make([]byte, modHeaderSize+f.patterns*64*f.channels*4)
	copy(data, padded(f.title, 20))
	copy(data[20:], padded(f.sample1, 22))
	data[950] = byte(f.songLen)
	copy(data[952:952+128], f.order)
	copy(data[1080:], f.signature)
	return data
}

// modCellOffset returns the file offset of a ProTracker cell
func modCellOffset(pattern, row, ch, channels int) int {
	return modHeaderSize + ((pattern*64+row)*channels+ch)*4
}

type xmPatternFixture struct {
	rows   uint16
	packed []byte
}

// xmFixture describes a synthetic FastTracker II module
type xmFixture struct {
	title       string
	version     uint16
	channels    uint16
	order       []uint8
	tempo, bpm  uint16
	patterns    []xmPatternFixture
	instruments []string
	songLen     int    // defaults to len(order)
	headerSize  uint32 // defaults to 276; the order table fills the rest after 20 bytes
}

func buildXM(f xmFixture) []byte {
	if f.version == 0 {
		f.version = 0x0104
	}
	if f.songLen == 0 {
		f.songLen = len(f.order)
	}
	if f.headerSize == 0 {
		f.headerSize = 276
	}
	var b bytes.Buffer
	b.WriteString(xmMagic)
	b.Write(padded(f.title, 20))
	b.WriteByte(0x1A)
	b.Write(padded("FastTracker v2.00", 20))
	le16(&b, f.version)
	le32(&b, f.headerSize)
	le16(&b, uint16(f.songLen))
	le16(&b, 0)
	le16(&b, f.channels)
	le16(&b, uint16(len(f.patterns)))
	le16(&b, uint16(len(f.instruments)))
	le16(&b, 1)
	le16(&b, f.tempo)
	le16(&b, f.bpm)
	b.Write(padded(string(f.order), int(f.headerSize)-20))

	for _, p := range f.patterns {
		le32(&b, 9)
		b.WriteByte(0)
		le16(&b, p.rows)
		le16(&b, uint16(len(p.packed)))
		b.Write(p.packed)
	}
	for _, name := range f.instruments {
		le32(&b, 29)
		b.Write(padded(name, 22))
		b.WriteByte(0)
		le16(&b, 0)
	}
	return b.Bytes()
}

// emptyXMPattern packs rows×channels empty cells the way FastTracker II does
func emptyXMPattern(rows, channels int) []byte {
	return bytes.Repeat([]byte{xmPacked}, rows*channels)
}

// packXMPattern encodes a grid with the XM cell compression: a full cell
// whose note fits in seven bits is stored raw, anything else is packed.
func packXMPattern(p *tracker.Pattern) []byte {
	var out []byte
	for _, row := range p.Notes {
		for _, n := range row {
			f := [xmCellFields]uint8{n.Pitch, n.Instrument, n.Volume, n.Effect.Type, n.Effect.Param}
			var mask uint8
			present := 0
			for i, v := range f {
				if v != 0 {
					mask |= xmFieldBits[i]
					present++
				}
			}
			if present == xmCellFields && f[0] < xmPacked {
				out = append(out, f[:]...)
				continue
			}
			out = append(out, xmPacked|mask)
			for _, v := range f {
				if v != 0 {
					out = append(out, v)
				}
			}
		}
	}
	return out
}

// minimalXM is the reference module used across tests: two patterns, the
// first carrying a full cell at row 0 channel 0.
func minimalXM() []byte {
	first := append([]byte{48, 1, 64, 15, 6}, emptyXMPattern(64, 4)[1:]...)
	return buildXM(xmFixture{
		title:    "TEST XM",
		channels: 4,
		order:    []uint8{0, 1, 0},
		tempo:    6,
		bpm:      125,
		patterns: []xmPatternFixture{
			{rows: 64, packed: first},
			{rows: 32, packed: nil},
		},
		instruments: []string{"Lead"},
	})
}

func minimalMOD() []byte {
	return buildMOD(modFixture{
		title:     "TEST MOD",
		signature: "M.K.",
		order:     []uint8{0},
		sample1:   "KICK",
	})
}
