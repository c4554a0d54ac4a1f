package format

import (
	"errors"
	"testing"
)

func TestCursorReads(t *testing.T) {
	c := newCursor([]byte{0x01, 0x02, 0x03, 0x04, 0x05})

	if v, err := c.U8(4); err != nil || v != 0x05 {
		t.Fatalf("U8(4) = %#x, %v", v, err)
	}
	if v, err := c.U16LE(0); err != nil || v != 0x0201 {
		t.Fatalf("U16LE(0) = %#x, %v", v, err)
	}
	if v, err := c.U16BE(0); err != nil || v != 0x0102 {
		t.Fatalf("U16BE(0) = %#x, %v", v, err)
	}
	if v, err := c.U32LE(1); err != nil || v != 0x05040302 {
		t.Fatalf("U32LE(1) = %#x, %v", v, err)
	}
	if s, err := c.Slice(5, 0); err != nil || len(s) != 0 {
		t.Fatalf("Slice(5, 0) = %v, %v", s, err)
	}
}

func TestCursorBounds(t *testing.T) {
	c := newCursor([]byte{0x01, 0x02, 0x03})

	checks := []struct {
		name string
		err  error
	}{
		{"U8 past end", func() error { _, err := c.U8(3); return err }()},
		{"U8 negative", func() error { _, err := c.U8(-1); return err }()},
		{"U16LE straddling end", func() error { _, err := c.U16LE(2); return err }()},
		{"U32LE too long", func() error { _, err := c.U32LE(0); return err }()},
		{"Slice too long", func() error { _, err := c.Slice(1, 3); return err }()},
		{"Slice negative length", func() error { _, err := c.Slice(0, -1); return err }()},
		{"Slice huge offset", func() error { _, err := c.Slice(1<<30, 1); return err }()},
		{"Seek past end", c.Seek(4)},
	}
	for _, tc := range checks {
		if !errors.Is(tc.err, ErrOutOfBounds) {
			t.Errorf("%s: got %v, want out of bounds", tc.name, tc.err)
		}
	}
}

func TestCursorSequential(t *testing.T) {
	c := newCursor([]byte{0xAA, 0xBB})
	if v, err := c.ReadU8(); err != nil || v != 0xAA {
		t.Fatalf("ReadU8 = %#x, %v", v, err)
	}
	if v, err := c.ReadU8(); err != nil || v != 0xBB {
		t.Fatalf("ReadU8 = %#x, %v", v, err)
	}
	if _, err := c.ReadU8(); err == nil {
		t.Fatalf("ReadU8 past end succeeded")
	}
	if c.Pos() != 2 || c.Remaining() != 0 {
		t.Fatalf("failed read moved cursor: pos %d remaining %d", c.Pos(), c.Remaining())
	}
	if err := c.Seek(0); err != nil || c.Remaining() != 2 {
		t.Fatalf("Seek(0) = %v, remaining %d", err, c.Remaining())
	}
}

func TestCursorString(t *testing.T) {
	c := newCursor([]byte("KICK\x00\x00  \x00"))
	s, err := c.String(0, 9)
	if err != nil || s != "KICK" {
		t.Fatalf("String = %q, %v", s, err)
	}

	// 0x81 is u-umlaut in CP437
	c = newCursor([]byte{'M', 0x81, 'h', 'l', 0x00})
	if s, _ := c.String(0, 5); s != "Mühl" {
		t.Fatalf("String = %q, want CP437 decoding", s)
	}
}

func TestAsTruncated(t *testing.T) {
	_, err := newCursor(nil).U8(10)
	err = asTruncated(err, "title")
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("asTruncated = %v, want truncated", err)
	}
	var e *Error
	if !errors.As(err, &e) || e.Offset != 10 || !errors.Is(e.Cause, ErrOutOfBounds) {
		t.Fatalf("asTruncated lost offset or cause: %#v", err)
	}
	if asTruncated(nil, "x") != nil {
		t.Fatalf("asTruncated(nil) should be nil")
	}
	inv := invalidData("bad")
	if asTruncated(inv, "x") != error(inv) {
		t.Fatalf("asTruncated should pass through other kinds")
	}
}
