package format

import (
	"fmt"

	"fortio.org/safecast"
	"go.uber.org/zap"

	"github.com/oisee/modscope/pkg/tracker"
)

// FastTracker II layout. Header fields are little-endian and relative to
// the start of the file.
const (
	xmTitleOff        = 17
	xmTitleSize       = 20
	xmMarkerOff       = 37
	xmMarker          = 0x1A
	xmTrackerOff      = 38
	xmTrackerSize     = 20
	xmVersionOff      = 58
	xmHeaderSizeOff   = 60
	xmSongLengthOff   = 64
	xmRestartOff      = 66
	xmChannelsOff     = 68
	xmPatternsOff     = 70
	xmInstrumentsOff  = 72
	xmFlagsOff        = 74
	xmTempoOff        = 76
	xmBPMOff          = 78
	xmOrderOff        = 80
	xmMinSize         = 80
	xmMinHeaderSize   = 20
	xmPatternHdrMin   = 9
	xmPatternRowsOff  = 5
	xmPatternSizeOff  = 7
	xmInstrHdrMin     = 29
	xmInstrNameOff    = 4
	xmInstrNameSize   = 22
	xmInstrSamplesOff = 27
	xmSampleHdrOff    = 29
	xmSampleHdrSize   = 40
	xmDefaultRows     = 64
)

func (p *parser) parseXM() error {
	c := p.c
	info := &p.mod.Info

	if c.Len() < xmMinSize {
		return truncated(c.Len(), "XM header needs %d bytes, file has %d", xmMinSize, c.Len())
	}
	marker, err := c.U8(xmMarkerOff)
	if err != nil {
		return asTruncated(err, "XM marker")
	}
	if marker != xmMarker {
		return invalidData("XM marker byte is 0x%02X, want 0x1A", marker)
	}

	headerSize, err := c.U32LE(xmHeaderSizeOff)
	if err != nil {
		return asTruncated(err, "XM header size")
	}
	if headerSize < xmMinHeaderSize {
		return truncated(xmHeaderSizeOff, "XM header size %d is smaller than %d", headerSize, xmMinHeaderSize)
	}
	if uint64(headerSize) > uint64(c.Len()-xmHeaderSizeOff) {
		return truncated(xmHeaderSizeOff, "XM header size %d exceeds file size %d", headerSize, c.Len())
	}
	size := int(headerSize)
	totalHeader := xmHeaderSizeOff + size

	h, err := p.readXMHeader()
	if err != nil {
		return asTruncated(err, "XM header")
	}
	if int(h.channels) > tracker.MaxChannels {
		return invalidData("XM declares %d channels, limit is %d", h.channels, tracker.MaxChannels)
	}

	// the order table lives inside the header block
	entries := min(int(h.songLength), tracker.MaxOrderEntries, max(0, size-xmMinHeaderSize))
	orders, err := c.Slice(xmOrderOff, entries)
	if err != nil {
		return asTruncated(err, "XM order table")
	}

	*info = tracker.ModuleInfo{
		Title:           h.title,
		Tracker:         h.tracker,
		Channels:        h.channels,
		Patterns:        h.patterns,
		Instruments:     h.instruments,
		SongLength:      h.songLength,
		RestartPosition: h.restart,
		VersionMajor:    h.version >> 8,
		VersionMinor:    h.version & 0xFF,
		Flags:           h.flags,
		DefaultTempo:    h.tempo,
		DefaultBPM:      h.bpm,
		OrderTable:      append([]uint8(nil), orders...),
	}

	off := totalHeader
	for i := 0; i < int(h.patterns); i++ {
		next, err := p.readXMPattern(i, off, int(h.channels))
		if err != nil {
			return err
		}
		off = next
	}

	if err := p.readXMInstruments(off, int(h.instruments)); err != nil {
		return err
	}
	if len(p.mod.Instruments) > 0 {
		info.FirstInstrumentName = p.mod.Instruments[0].Name
	}

	Logger().Debug("parsed XM header",
		zap.String("title", h.title),
		zap.Uint16("version", h.version),
		zap.Uint16("channels", h.channels),
		zap.Uint16("patterns", h.patterns),
		zap.Uint16("instruments", h.instruments))
	return nil
}

type xmHeader struct {
	title, tracker string
	version        uint16
	songLength     uint16
	restart        uint16
	channels       uint16
	patterns       uint16
	instruments    uint16
	flags          uint16
	tempo, bpm     uint16
}

func (p *parser) readXMHeader() (xmHeader, error) {
	c := p.c
	var h xmHeader
	var err error
	if h.title, err = c.String(xmTitleOff, xmTitleSize); err != nil {
		return h, err
	}
	if h.tracker, err = c.String(xmTrackerOff, xmTrackerSize); err != nil {
		return h, err
	}

	fields := []struct {
		off int
		dst *uint16
	}{
		{xmVersionOff, &h.version},
		{xmSongLengthOff, &h.songLength},
		{xmRestartOff, &h.restart},
		{xmChannelsOff, &h.channels},
		{xmPatternsOff, &h.patterns},
		{xmInstrumentsOff, &h.instruments},
		{xmFlagsOff, &h.flags},
		{xmTempoOff, &h.tempo},
		{xmBPMOff, &h.bpm},
	}
	for _, f := range fields {
		if *f.dst, err = c.U16LE(f.off); err != nil {
			return h, err
		}
	}
	return h, nil
}

// readXMPattern reads the pattern header at off, decodes its packed data
// and returns the offset of the next pattern header.
func (p *parser) readXMPattern(index, off, channels int) (int, error) {
	c := p.c
	what := fmt.Sprintf("pattern %d header", index)

	hdrLen, err := c.U32LE(off)
	if err != nil {
		return 0, asTruncated(err, what)
	}
	if hdrLen < xmPatternHdrMin {
		return 0, truncated(off, "pattern %d header length %d is smaller than %d", index, hdrLen, xmPatternHdrMin)
	}
	if uint64(hdrLen) > uint64(c.Len()-off) {
		return 0, truncated(off, "pattern %d header length %d runs past the end of the file", index, hdrLen)
	}
	rawRows, err := c.U16LE(off + xmPatternRowsOff)
	if err != nil {
		return 0, asTruncated(err, what)
	}
	packedSize, err := c.U16LE(off + xmPatternSizeOff)
	if err != nil {
		return 0, asTruncated(err, what)
	}

	rows := int(rawRows)
	if rows == 0 || rows > tracker.MaxRows {
		p.warnf("pattern %d: row count %d out of range, using %d", index, rows, xmDefaultRows)
		rows = xmDefaultRows
	}

	dataOff := off + int(hdrLen)
	packed, err := c.Slice(dataOff, int(packedSize))
	if err != nil {
		return 0, asTruncated(err, fmt.Sprintf("pattern %d packed data (%d bytes)", index, packedSize))
	}

	pat, used, err := DecodePattern(index, rows, channels, packed)
	if err != nil {
		return 0, rebase(err, dataOff)
	}
	if used < len(packed) {
		p.warnf("pattern %d: %d unused bytes after packed data", index, len(packed)-used)
	}

	if index < tracker.MaxPatterns {
		rowCount, err := safecast.Conv[uint16](rows)
		if err != nil {
			return 0, invalidData("pattern %d: row count %d: %v", index, rows, err)
		}
		info := &p.mod.Info
		info.PatternRowCounts = append(info.PatternRowCounts, rowCount)
		info.PatternPackedSizes = append(info.PatternPackedSizes, packedSize)
		p.mod.Patterns = append(p.mod.Patterns, pat)
	}

	Logger().Debug("decoded XM pattern",
		zap.Int("index", index),
		zap.Int("rows", rows),
		zap.Uint16("packed_size", packedSize),
		zap.Int("consumed", used))
	return dataOff + int(packedSize), nil
}

// readXMInstruments walks the instrument headers that follow the patterns.
// Header damage is fatal; sample data running past the end of the file
// stops the walk with a warning since the headers read so far are intact.
func (p *parser) readXMInstruments(off, count int) error {
	c := p.c
	for i := 0; i < count; i++ {
		what := fmt.Sprintf("instrument %d header", i+1)

		size, err := c.U32LE(off)
		if err != nil {
			return asTruncated(err, what)
		}
		if size < xmInstrHdrMin {
			return truncated(off, "instrument %d header size %d is smaller than %d", i+1, size, xmInstrHdrMin)
		}
		if uint64(size) > uint64(c.Len()-off) {
			return truncated(off, "instrument %d header size %d runs past the end of the file", i+1, size)
		}
		name, err := c.String(off+xmInstrNameOff, xmInstrNameSize)
		if err != nil {
			return asTruncated(err, what)
		}
		numSamples, err := c.U16LE(off + xmInstrSamplesOff)
		if err != nil {
			return asTruncated(err, what)
		}

		if i < tracker.MaxInstruments {
			p.mod.Instruments = append(p.mod.Instruments, tracker.Instrument{Name: name, Samples: int(numSamples)})
		}

		next := off + int(size)
		if numSamples > 0 {
			var ok bool
			next, ok, err = p.skipXMSamples(i+1, off, next, int(numSamples))
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}
		off = next
	}
	return nil
}

// skipXMSamples skips the sample headers at next and the sample data that
// follows them. A declared sample header size of 0 means the standard 40
// bytes. It reports false when the sample data is cut short.
func (p *parser) skipXMSamples(inst, hdrOff, next, numSamples int) (int, bool, error) {
	c := p.c
	what := fmt.Sprintf("instrument %d sample headers", inst)

	shSize, err := c.U32LE(hdrOff + xmSampleHdrOff)
	if err != nil {
		return 0, false, asTruncated(err, what)
	}
	if shSize == 0 {
		shSize = xmSampleHdrSize
	}
	if uint64(numSamples)*uint64(shSize) > uint64(c.Len()-next) {
		return 0, false, truncated(next, "instrument %d: %d sample headers of %d bytes run past the end of the file", inst, numSamples, shSize)
	}

	var dataLen uint64
	for s := 0; s < numSamples; s++ {
		length, err := c.U32LE(next + s*int(shSize))
		if err != nil {
			return 0, false, asTruncated(err, what)
		}
		dataLen += uint64(length)
	}
	next += numSamples * int(shSize)

	if dataLen > uint64(c.Len()-next) {
		p.warnf("instrument %d: sample data truncated (%d bytes declared, %d available)", inst, dataLen, c.Len()-next)
		return next, false, nil
	}
	return next + int(dataLen), true, nil
}
