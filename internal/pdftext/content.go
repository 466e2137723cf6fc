// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
)

// contentText recovers the text shown by a page content stream. It follows
// the text-showing operators (Tj, TJ, ', ") and turns line moves (T*, Td/TD
// with a vertical offset, Tm, ET) into line breaks. Strings are decoded as
// UTF-16BE when they carry a byte order mark and as Windows-1252 otherwise;
// composite (CID) fonts are not mapped.
func contentText(data []byte) string {
	s := &contentScanner{data: data}
	var out textBuilder
	var stack []operand
	var arrays [][]operand
	dictDepth := 0

	push := func(v operand) {
		switch {
		case len(arrays) > 0:
			arrays[len(arrays)-1] = append(arrays[len(arrays)-1], v)
		case dictDepth > 0:
		default:
			stack = append(stack, v)
		}
	}

	for {
		tok, ok := s.next()
		if !ok {
			break
		}
		switch tok.kind {
		case tokArrayStart:
			arrays = append(arrays, nil)
		case tokArrayEnd:
			if len(arrays) == 0 {
				continue
			}
			items := arrays[len(arrays)-1]
			arrays = arrays[:len(arrays)-1]
			push(operand{kind: opArray, items: items})
		case tokDictStart:
			dictDepth++
		case tokDictEnd:
			if dictDepth > 0 {
				dictDepth--
			}
		case tokOperand:
			push(tok.val)
		case tokKeyword:
			switch {
			case tok.word == "true" || tok.word == "false" || tok.word == "null":
				push(operand{kind: opOther})
			case dictDepth > 0 || len(arrays) > 0:
			case tok.word == "ID":
				s.skipInlineImage()
				stack = stack[:0]
			default:
				out.apply(tok.word, stack)
				stack = stack[:0]
			}
		}
	}

	return strings.TrimLeft(out.String(), "\n")
}

type operandKind int

const (
	opOther operandKind = iota
	opNumber
	opString
	opName
	opArray
)

type operand struct {
	kind  operandKind
	num   float64
	str   []byte
	items []operand
}

type tokenKind int

const (
	tokOperand tokenKind = iota
	tokKeyword
	tokArrayStart
	tokArrayEnd
	tokDictStart
	tokDictEnd
)

type token struct {
	kind tokenKind
	val  operand
	word string
}

type contentScanner struct {
	data []byte
	pos  int
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (s *contentScanner) skipSpace() {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch {
		case isSpace(c):
			s.pos++
		case c == '%':
			for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
				s.pos++
			}
		default:
			return
		}
	}
}

func (s *contentScanner) next() (token, bool) {
	s.skipSpace()
	if s.pos >= len(s.data) {
		return token{}, false
	}

	c := s.data[s.pos]
	switch c {
	case '[':
		s.pos++
		return token{kind: tokArrayStart}, true
	case ']':
		s.pos++
		return token{kind: tokArrayEnd}, true
	case '(':
		s.pos++
		return token{kind: tokOperand, val: operand{kind: opString, str: s.literalString()}}, true
	case '<':
		if s.pos+1 < len(s.data) && s.data[s.pos+1] == '<' {
			s.pos += 2
			return token{kind: tokDictStart}, true
		}
		s.pos++
		return token{kind: tokOperand, val: operand{kind: opString, str: s.hexString()}}, true
	case '>':
		s.pos++
		if s.pos < len(s.data) && s.data[s.pos] == '>' {
			s.pos++
			return token{kind: tokDictEnd}, true
		}
		return token{kind: tokOperand, val: operand{kind: opOther}}, true
	case '/':
		s.pos++
		return token{kind: tokOperand, val: operand{kind: opName, str: s.regular()}}, true
	case ')', '{', '}':
		s.pos++
		return token{kind: tokOperand, val: operand{kind: opOther}}, true
	}

	word := s.regular()
	if f, err := strconv.ParseFloat(string(word), 64); err == nil {
		return token{kind: tokOperand, val: operand{kind: opNumber, num: f}}, true
	}
	return token{kind: tokKeyword, word: string(word)}, true
}

func (s *contentScanner) regular() []byte {
	start := s.pos
	for s.pos < len(s.data) && !isSpace(s.data[s.pos]) && !isDelim(s.data[s.pos]) {
		s.pos++
	}
	return s.data[start:s.pos]
}

// literalString reads a (...) string body; the opening paren is consumed.
func (s *contentScanner) literalString() []byte {
	var b []byte
	depth := 1
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return b
			}
		case '\r':
			// Unescaped EOL in a string is a single newline.
			if s.pos < len(s.data) && s.data[s.pos] == '\n' {
				s.pos++
			}
			b = append(b, '\n')
			continue
		case '\\':
			if s.pos >= len(s.data) {
				return b
			}
			e := s.data[s.pos]
			s.pos++
			switch e {
			case 'n':
				b = append(b, '\n')
			case 'r':
				b = append(b, '\r')
			case 't':
				b = append(b, '\t')
			case 'b':
				b = append(b, '\b')
			case 'f':
				b = append(b, '\f')
			case '\r':
				if s.pos < len(s.data) && s.data[s.pos] == '\n' {
					s.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for k := 0; k < 2 && s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '7'; k++ {
						v = v*8 + int(s.data[s.pos]-'0')
						s.pos++
					}
					b = append(b, byte(v))
				} else {
					b = append(b, e)
				}
			}
			continue
		}
		b = append(b, c)
	}
	return b
}

// hexString reads a <...> string body; the opening bracket is consumed.
func (s *contentScanner) hexString() []byte {
	var b []byte
	var hi byte
	half := false
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++
		if c == '>' {
			break
		}
		v, ok := hexValue(c)
		if !ok {
			continue
		}
		if half {
			b = append(b, hi<<4|v)
		} else {
			hi = v
		}
		half = !half
	}
	if half {
		b = append(b, hi<<4)
	}
	return b
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// skipInlineImage moves past inline image data up to and including EI.
func (s *contentScanner) skipInlineImage() {
	d := s.data
	for i := s.pos; i+1 < len(d); i++ {
		if d[i] != 'E' || d[i+1] != 'I' {
			continue
		}
		if i > 0 && !isSpace(d[i-1]) {
			continue
		}
		if i+2 < len(d) && !isSpace(d[i+2]) && !isDelim(d[i+2]) {
			continue
		}
		s.pos = i + 2
		return
	}
	s.pos = len(d)
}

// tjSpace is the TJ adjustment, in thousandths of text space, treated as a
// word gap.
const tjSpace = -250

type textBuilder struct {
	b strings.Builder
}

func (t *textBuilder) String() string { return t.b.String() }

func (t *textBuilder) last() byte {
	s := t.b.String()
	if s == "" {
		return 0
	}
	return s[len(s)-1]
}

func (t *textBuilder) newline() {
	if t.b.Len() > 0 && t.last() != '\n' {
		t.b.WriteByte('\n')
	}
}

func (t *textBuilder) space() {
	if c := t.last(); c != 0 && c != ' ' && c != '\n' {
		t.b.WriteByte(' ')
	}
}

func (t *textBuilder) show(v operand) {
	if v.kind == opString {
		t.b.WriteString(decodeString(v.str))
	}
}

func (t *textBuilder) apply(op string, args []operand) {
	switch op {
	case "Tj":
		if len(args) > 0 {
			t.show(args[len(args)-1])
		}
	case "'":
		t.newline()
		if len(args) > 0 {
			t.show(args[len(args)-1])
		}
	case "\"":
		t.newline()
		if len(args) >= 3 {
			t.show(args[2])
		}
	case "TJ":
		if len(args) == 0 || args[len(args)-1].kind != opArray {
			return
		}
		for _, it := range args[len(args)-1].items {
			switch it.kind {
			case opString:
				t.show(it)
			case opNumber:
				if it.num <= tjSpace {
					t.space()
				}
			}
		}
	case "T*", "ET", "Tm":
		t.newline()
	case "Td", "TD":
		if len(args) < 2 {
			return
		}
		if args[1].num != 0 {
			t.newline()
		} else if args[0].num > 0 {
			t.space()
		}
	}
}

var (
	utf16Decoder  = xunicode.UTF16(xunicode.BigEndian, xunicode.ExpectBOM)
	winAnsiDecode = charmap.Windows1252
)

// decodeString converts a shown string to UTF-8, dropping control bytes.
func decodeString(b []byte) string {
	var s string
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		out, err := utf16Decoder.NewDecoder().Bytes(b)
		if err != nil {
			return ""
		}
		s = string(out)
	} else {
		out, err := winAnsiDecode.NewDecoder().Bytes(b)
		if err != nil {
			return ""
		}
		s = string(out)
	}
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
}
