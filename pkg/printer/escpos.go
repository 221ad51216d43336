package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ESC/POS control bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Character size
const (
	FontNormal = 0x00
	FontDouble = 0x11
	FontWide   = 0x10
	FontTall   = 0x01
)

// Paper widths in characters
const (
	Width58mm = 32
	Width80mm = 48
)

// codePage858 is the ESC t table number of PC858 (Latin-1 plus euro sign)
const codePage858 = 19

// Document builds an ESC/POS byte stream. Text is encoded to PC858 so accented
// menu names print correctly; unmappable runes become '?'.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument starts a document for a printer with the given line width
func NewDocument(width int) *Document {
	if width <= 0 {
		width = Width58mm
	}
	d := &Document{width: width}
	d.Init()
	return d
}

// Width is the number of characters per line
func (d *Document) Width() int {
	return d.width
}

// Init resets the printer and selects the PC858 code page
func (d *Document) Init() *Document {
	d.buf.Write([]byte{ESC, '@', ESC, 't', codePage858})
	return d
}

func (d *Document) LineFeed() *Document {
	d.buf.WriteByte(LF)
	return d
}

func (d *Document) FeedLines(n int) *Document {
	if n > 0 {
		d.buf.Write(bytes.Repeat([]byte{LF}, n))
	}
	return d
}

func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

func (d *Document) SetBold(on bool) *Document {
	var b byte
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes one line
func (d *Document) Text(s string) *Document {
	d.write(s)
	d.buf.WriteByte(LF)
	return d
}

// TextF writes one formatted line
func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// Wrap writes s over as many lines as needed, breaking on spaces
func (d *Document) Wrap(s string) *Document {
	line := ""
	for _, word := range strings.Fields(s) {
		switch {
		case line == "":
			line = word
		case utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) <= d.width:
			line += " " + word
		default:
			d.Text(line)
			line = word
		}
	}
	if line != "" {
		d.Text(line)
	}
	return d
}

// Separator fills one line with char
func (d *Document) Separator(char rune) *Document {
	return d.Text(strings.Repeat(string(char), d.width))
}

// KeyValue prints key on the left and value flush right on the same line
func (d *Document) KeyValue(key, value string) *Document {
	return d.Text(d.columns(key, value))
}

// ItemLine prints "qty x name" with the line total flush right. Names that do
// not fit are cut to leave room for the total.
func (d *Document) ItemLine(qty int, name, total string) *Document {
	return d.Text(d.columns(fmt.Sprintf("%dx %s", qty, name), total))
}

// Cut performs a full paper cut
func (d *Document) Cut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x00})
	return d
}

// PartialCut leaves a small hinge uncut
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the encoded stream
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// Reset discards the content and reinitialises the printer
func (d *Document) Reset() *Document {
	d.buf.Reset()
	return d.Init()
}

func (d *Document) columns(left, right string) string {
	rw := utf8.RuneCountInString(right)
	room := d.width - rw - 1
	if room < 1 {
		return left + " " + right
	}
	left = truncate(left, room)
	pad := d.width - utf8.RuneCountInString(left) - rw
	return left + strings.Repeat(" ", pad) + right
}

func (d *Document) write(s string) {
	encoded, err := charmap.CodePage858.NewEncoder().String(s)
	if err != nil {
		encoded = asciiFallback(s)
	}
	d.buf.WriteString(encoded)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

func asciiFallback(s string) string {
	var b strings.Builder
	for _, r := range s {
		if enc, ok := charmap.CodePage858.EncodeRune(r); ok {
			b.WriteByte(enc)
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}
