package eventstream

import (
	"bytes"
	"errors"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const readSize = 4 * 1024

// Summary describes how a decoded stream ended
type Summary struct {
	Fragments int
	SawDone   bool
}

// Decoder turns a chat completion event stream into ordered text fragments.
//
// Reads may end anywhere, including inside a multi-byte rune or in the middle of
// a data line. A data line that does not parse is left at the head of the buffer
// and retried once more bytes arrive; at EOF it is dropped.
type Decoder struct {
	r   io.Reader
	buf []byte
	sum Summary
}

// NewDecoder decodes r as UTF-8, stripping a leading byte order mark and
// replacing invalid sequences with U+FFFD.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r: transform.NewReader(r, unicode.UTF8BOM.NewDecoder()),
	}
}

// Decode reads until EOF or the termination line, calling emit for every
// non-empty fragment in arrival order. A read error other than EOF is returned
// as is; fragments emitted before it stand.
func (d *Decoder) Decode(emit func(fragment string)) (Summary, error) {
	chunk := make([]byte, readSize)
	for {
		n, err := d.r.Read(chunk)
		if n > 0 {
			d.buf = append(d.buf, chunk[:n]...)
			if d.drain(emit) {
				d.sum.SawDone = true
				return d.sum, nil
			}
		}

		if errors.Is(err, io.EOF) {
			d.flush(emit)
			return d.sum, nil
		}
		if err != nil {
			return d.sum, err
		}
	}
}

// drain consumes complete lines from the buffer and reports whether the
// termination line was seen.
func (d *Decoder) drain(emit func(string)) bool {
	for {
		idx := bytes.IndexByte(d.buf, '\n')
		if idx < 0 {
			return false
		}

		frame := ParseLine(string(d.buf[:idx]))
		switch frame.Kind {
		case FrameUnparseable:
			// keep the line where it is and wait for the next read
			return false
		case FrameDone:
			d.buf = d.buf[idx+1:]
			return true
		case FrameFragment:
			d.emit(frame.Text, emit)
		}
		d.buf = d.buf[idx+1:]
	}
}

// flush applies the line rules to whatever is left once the source is exhausted.
func (d *Decoder) flush(emit func(string)) {
	rest := d.buf
	d.buf = nil
	if len(bytes.TrimSpace(rest)) == 0 {
		return
	}

	for _, raw := range bytes.Split(rest, []byte("\n")) {
		frame := ParseLine(string(raw))
		switch frame.Kind {
		case FrameDone:
			d.sum.SawDone = true
			return
		case FrameFragment:
			d.emit(frame.Text, emit)
		}
	}
}

func (d *Decoder) emit(text string, emit func(string)) {
	if text == "" {
		return
	}
	d.sum.Fragments++
	emit(text)
}
