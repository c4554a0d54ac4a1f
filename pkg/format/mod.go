package format

import (
	"fortio.org/safecast"
	"go.uber.org/zap"

	"github.com/oisee/modscope/pkg/tracker"
)

// ProTracker layout
const (
	modTitleSize      = 20
	modSampleOff      = 20
	modSampleCount    = 31
	modSampleSize     = 30
	modSampleNameSize = 22
	modSongLengthOff  = 950
	modRestartOff     = 951
	modOrderOff       = 952
	modOrderSize      = 128
	modMaxPatterns    = 128
	modRows           = 64
	modCellSize       = 4
)

// modPeriods holds the ProTracker periods (finetune 0) for five octaves,
// highest period first. Index 0 maps to modFirstPitch.
var modPeriods = [...]int{
	1712, 1616, 1525, 1440, 1357, 1281, 1209, 1141, 1077, 1017, 961, 907,
	856, 808, 762, 720, 678, 640, 604, 570, 538, 508, 480, 453,
	428, 404, 381, 360, 339, 320, 302, 285, 269, 254, 240, 226,
	214, 202, 190, 180, 170, 160, 151, 143, 135, 127, 120, 113,
	107, 101, 95, 90, 85, 80, 76, 71, 67, 63, 60, 57,
}

// Period 856 (ProTracker C-1) lands on pitch 37 (C-3).
const modFirstPitch = 25

// periodToPitch maps an Amiga period to the nearest pitch, 0 for no note
func periodToPitch(period int) uint8 {
	if period == 0 {
		return tracker.PitchNone
	}
	best, bestDiff := 0, -1
	for i, p := range modPeriods {
		diff := p - period
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return uint8(modFirstPitch + best)
}

// modNote decodes one 4-byte ProTracker cell
func modNote(b []byte) tracker.Note {
	period := int(b[0]&0x0F)<<8 | int(b[1])
	return tracker.Note{
		Pitch:      periodToPitch(period),
		Instrument: b[0]&0xF0 | b[2]>>4,
		Effect:     tracker.Effect{Type: b[2] & 0x0F, Param: b[3]},
	}
}

// finetune converts the low nibble of b to a signed value in -8..7
func finetune(b uint8) int8 {
	v := int8(b & 0x0F)
	if v >= 8 {
		v -= 16
	}
	return v
}

func (p *parser) parseMOD(det Detection) error {
	c := p.c
	info := &p.mod.Info
	channels := det.Channels
	if channels < 1 || channels > tracker.MaxChannels {
		return invalidData("MOD signature %q declares %d channels", det.Signature, channels)
	}

	title, err := c.String(0, modTitleSize)
	if err != nil {
		return asTruncated(err, "MOD title")
	}

	p.mod.Samples = make([]tracker.Sample, 0, modSampleCount)
	for i := 0; i < modSampleCount; i++ {
		s, err := p.readMODSample(modSampleOff + i*modSampleSize)
		if err != nil {
			return asTruncated(err, "MOD sample descriptor")
		}
		p.mod.Samples = append(p.mod.Samples, s)
	}

	songLength, err := c.U8(modSongLengthOff)
	if err != nil {
		return asTruncated(err, "MOD song length")
	}
	restart, err := c.U8(modRestartOff)
	if err != nil {
		return asTruncated(err, "MOD restart position")
	}
	orders, err := c.Slice(modOrderOff, modOrderSize)
	if err != nil {
		return asTruncated(err, "MOD order table")
	}

	entries := min(int(songLength), modOrderSize)
	info.OrderTable = append([]uint8(nil), orders[:entries]...)

	// A zero or oversized song length still leaves valid pattern numbers in
	// the full table, so the pattern count scans all of it.
	scan := int(songLength)
	if scan == 0 || scan > modOrderSize {
		scan = modOrderSize
	}
	highest := 0
	for _, o := range orders[:scan] {
		highest = max(highest, int(o))
	}
	patterns := highest + 1
	if patterns > modMaxPatterns {
		p.warnf("order table references pattern %d, limiting to %d patterns", highest, modMaxPatterns)
		patterns = modMaxPatterns
	}

	patternSize := modRows * channels * modCellSize
	if need := modHeaderSize + patterns*patternSize; need > c.Len() {
		return truncated(c.Len(), "MOD declares %d patterns needing %d bytes, file has %d", patterns, need, c.Len())
	}

	numChannels, err := safecast.Conv[uint16](channels)
	if err != nil {
		return invalidData("MOD channel count %d: %v", channels, err)
	}

	info.Title = title
	info.Signature = det.Signature
	info.Channels = numChannels
	info.Patterns = uint16(patterns)
	info.Instruments = modSampleCount
	info.SongLength = uint16(songLength)
	info.RestartPosition = uint16(restart)
	info.FirstInstrumentName = p.mod.Samples[0].Name

	p.mod.Patterns = make([]*tracker.Pattern, 0, patterns)
	for i := 0; i < patterns; i++ {
		pat, err := p.decodeMODPattern(i, channels, modHeaderSize+i*patternSize)
		if err != nil {
			return err
		}
		p.mod.Patterns = append(p.mod.Patterns, pat)
		info.PatternRowCounts = append(info.PatternRowCounts, modRows)
	}

	Logger().Debug("parsed MOD header",
		zap.String("title", title),
		zap.Int("channels", channels),
		zap.Int("patterns", patterns),
		zap.Int("song_length", int(songLength)))
	return nil
}

func (p *parser) readMODSample(off int) (tracker.Sample, error) {
	c := p.c
	name, err := c.String(off, modSampleNameSize)
	if err != nil {
		return tracker.Sample{}, err
	}
	length, err := c.U16BE(off + 22)
	if err != nil {
		return tracker.Sample{}, err
	}
	tune, err := c.U8(off + 24)
	if err != nil {
		return tracker.Sample{}, err
	}
	vol, err := c.U8(off + 25)
	if err != nil {
		return tracker.Sample{}, err
	}
	loopStart, err := c.U16BE(off + 26)
	if err != nil {
		return tracker.Sample{}, err
	}
	loopLength, err := c.U16BE(off + 28)
	if err != nil {
		return tracker.Sample{}, err
	}
	return tracker.Sample{
		Name:       name,
		Length:     uint32(length) * 2,
		Finetune:   finetune(tune),
		Volume:     vol,
		LoopStart:  uint32(loopStart) * 2,
		LoopLength: uint32(loopLength) * 2,
	}, nil
}

func (p *parser) decodeMODPattern(index, channels, off int) (*tracker.Pattern, error) {
	pat := tracker.NewPattern(index, modRows, channels)
	for row := 0; row < modRows; row++ {
		for ch := 0; ch < channels; ch++ {
			cell, err := p.c.Slice(off, modCellSize)
			if err != nil {
				return nil, asTruncated(err, "MOD pattern data")
			}
			pat.Notes[row][ch] = modNote(cell)
			off += modCellSize
		}
	}
	return pat, nil
}
