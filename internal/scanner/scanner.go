// Package scanner provides the buffered byte reader used by the JSON decoder.
// It keeps track of the line, column and byte offset of the read position so
// that syntax errors in a stream can be located precisely.
package scanner

import (
	"io"
	"slices"
)

// Pos is a zero-based line and column.  Columns count UTF-8 encoded code
// points, not bytes.
type Pos struct {
	Line int
	Col  int
}

type Scanner struct {
	reader io.Reader
	buf    []byte

	// The first unfilled position in buf
	// 0 <= fillIndex <= len(buf)
	fillIndex int

	// Current position in buf
	// 0 <= currentIndex <= fillIndex
	currentIndex int

	// Number of input bytes that were shifted out of buf.  The byte offset
	// of the current position in the input is baseOffset + currentIndex.
	baseOffset int64

	// Records lineno and colno of current position (from when the scanning
	// started)
	currentPos, prevPos Pos

	// Position in buf of the currently recorded token.
	// -1 means not recording a token
	// 0 means there may be token parts no longer in the buffer
	// tokenStartIndex <= currentIndex
	tokenStartIndex int

	// Parts of a token that no longer fit in the read buffer.
	tokenParts [][]byte

	err error

	// Tracks how many EOFs have been read.  This is required to make
	// Back() work after an EOF has been read.
	eofCount int

	// Set when the last byte returned by Read, Peek or SkipSpaceAndPeek was
	// the end of input marker rather than an input byte.
	atEOF bool
}

func NewScanner(reader io.Reader) *Scanner {
	return NewScannerSize(reader, defaultBufSize)
}

func NewScannerSize(reader io.Reader, size int) *Scanner {
	return &Scanner{
		reader:          reader,
		buf:             make([]byte, size),
		tokenStartIndex: -1,
		prevPos:         Pos{Line: -1},
	}
}

func (s *Scanner) fillBuf() {
	if s.fillIndex == len(s.buf) {
		var baseIndex int
		// If we are recording a token then we try to shift the buffer so the token
		// remains wholly in the buffer.
		if s.tokenStartIndex > 0 {
			baseIndex = s.tokenStartIndex
			s.tokenStartIndex = 0
		} else if s.currentIndex >= lookBackSize {
			baseIndex = s.currentIndex - lookBackSize
			if s.tokenStartIndex >= 0 {
				// At this point s.tokenStartIndex is 0
				s.tokenParts = append(s.tokenParts, slices.Clone(s.buf[:baseIndex]))
			}
		}
		if baseIndex > 0 {
			copy(s.buf, s.buf[baseIndex:s.fillIndex])
			s.fillIndex -= baseIndex
			s.currentIndex -= baseIndex
			s.baseOffset += int64(baseIndex)
		}
	}
	for i := maxConsecutiveEmptyReads; i > 0; i-- {
		n, err := s.reader.Read(s.buf[s.fillIndex:])
		s.fillIndex += n
		if err != nil {
			s.err = err
			return
		}
		if n > 0 {
			return
		}
	}
	s.err = io.ErrNoProgress
}

// Read returns the next byte, or EOF with a nil error when the input is
// exhausted.  As EOF is also a valid input byte, use AtEOF to tell them apart.
func (s *Scanner) Read() (byte, error) {
	if s.currentIndex >= s.fillIndex {
		s.fillBuf()
	}
	s.atEOF = false
	if s.currentIndex < s.fillIndex {
		b := s.buf[s.currentIndex]
		s.prevPos = s.currentPos
		switch {
		case b == '\n':
			s.currentPos.Line++
			s.currentPos.Col = 0
		case b < 0x80 || b >= 0xC0:
			// First byte of an utf8-encoded codepoint
			s.currentPos.Col++
		}
		s.currentIndex++
		return b, nil
	}
	if s.err == io.EOF {
		s.eofCount++
		s.atEOF = true
		return EOF, nil
	}
	return 0, s.err
}

// AtEOF reports whether the last byte returned by Read, Peek or
// SkipSpaceAndPeek marks the end of input.
func (s *Scanner) AtEOF() bool {
	return s.atEOF
}

func (s *Scanner) StartToken() Pos {
	if s.tokenStartIndex >= 0 {
		panic("already in record mode")
	}
	s.tokenStartIndex = s.currentIndex
	return s.currentPos
}

func (s *Scanner) CurrentPos() Pos {
	return s.currentPos
}

// Offset returns the number of bytes consumed from the input so far.
func (s *Scanner) Offset() int64 {
	return s.baseOffset + int64(s.currentIndex)
}

func (s *Scanner) EndToken() []byte {
	if s.tokenStartIndex < 0 {
		panic("not in record mode")
	}
	if s.tokenParts == nil {
		tokBytes := slices.Clone(s.buf[s.tokenStartIndex:s.currentIndex])
		s.tokenStartIndex = -1
		return tokBytes
	}
	tokLen := s.currentIndex - s.tokenStartIndex
	for _, p := range s.tokenParts {
		tokLen += len(p)
	}
	tokBytes := make([]byte, 0, tokLen)
	for _, c := range s.tokenParts {
		tokBytes = append(tokBytes, c...)
	}
	tokBytes = append(tokBytes, s.buf[s.tokenStartIndex:s.currentIndex]...)
	s.tokenStartIndex = -1
	s.tokenParts = nil
	return tokBytes
}

// AbortToken leaves record mode without collecting the token bytes.
func (s *Scanner) AbortToken() {
	s.tokenStartIndex = -1
	s.tokenParts = nil
}

// Back moves the read position one byte backwards.  It can only be called
// once after a call to Read.
func (s *Scanner) Back() {
	s.atEOF = false
	if s.eofCount > 0 {
		s.eofCount--
		return
	}
	if s.currentIndex <= 0 || s.currentIndex <= s.tokenStartIndex {
		panic("cannot go back from start")
	}
	if s.prevPos.Line < 0 {
		panic("cannot go back twice")
	}
	s.currentIndex--
	s.currentPos = s.prevPos
	s.prevPos.Line = -1
}

func (s *Scanner) Peek() (byte, error) {
	if s.currentIndex >= s.fillIndex {
		s.fillBuf()
	}
	s.atEOF = false
	if s.currentIndex < s.fillIndex {
		return s.buf[s.currentIndex], nil
	}
	return s.errOrEOF()
}

func (s *Scanner) errOrEOF() (byte, error) {
	if s.err == io.EOF {
		s.atEOF = true
		return EOF, nil
	}
	return 0, s.err
}

// SkipSpaceAndPeek skips JSON whitespace and returns the next byte without
// consuming it.
func (s *Scanner) SkipSpaceAndPeek() (byte, error) {
	s.atEOF = false
	for {
		for i, b := range s.buf[s.currentIndex:s.fillIndex] {
			switch {
			case b == '\n':
				s.currentPos.Line++
				s.currentPos.Col = 0
			case IsSpace(b):
				s.currentPos.Col++
			default:
				s.currentIndex += i
				return b, nil
			}
		}
		s.currentIndex = s.fillIndex
		s.fillBuf()
		if s.currentIndex >= s.fillIndex {
			return s.errOrEOF()
		}
	}
}

const (
	lookBackSize             = 1
	maxConsecutiveEmptyReads = 100
	defaultBufSize           = 8192
)

// EOF is returned by the read methods at the end of input.  0xFF should not
// appear in a UTF-8 encoded stream of bytes, but it can, so AtEOF is the
// authoritative check.
const EOF byte = 0xFF
