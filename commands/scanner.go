package commands

import (
	"bytes"

	"github.com/luckyfish-tu/camservo"
)

// MaxFrameLen bounds a single frame. Longer frames are dropped whole.
const MaxFrameLen = 64

// Scanner assembles frames one byte at a time so the caller never blocks waiting
// for a complete command.
type Scanner struct {
	buf      []byte
	overflow bool
}

// Feed adds b to the current frame. It returns the frame without its terminator
// once b completes it. CR and LF are ignored and empty frames are skipped.
func (s *Scanner) Feed(b byte) (string, bool) {
	switch b {
	case '\r', '\n':
		return "", false
	case camservo.Terminator:
		defer s.reset()
		if s.overflow || len(s.buf) == 0 {
			return "", false
		}
		return string(s.buf), true
	}

	if len(s.buf) >= MaxFrameLen {
		s.overflow = true
		return "", false
	}
	s.buf = append(s.buf, b)
	return "", false
}

func (s *Scanner) reset() {
	s.buf = s.buf[:0]
	s.overflow = false
}

// SplitFrames is a bufio.SplitFunc yielding terminator-delimited frames with
// surrounding whitespace removed. Frames never span lines, so anything before the last
// line break is debug output and is dropped. Tokens may be empty.
func SplitFrames(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, camservo.Terminator); i >= 0 {
		return i + 1, lastLine(data[:i]), nil
	}
	if atEOF {
		return len(data), lastLine(data), nil
	}
	return 0, nil, nil
}

func lastLine(b []byte) []byte {
	b = bytes.TrimSpace(b)
	if i := bytes.LastIndexByte(b, '\n'); i >= 0 {
		b = b[i+1:]
	}
	return bytes.TrimSpace(b)
}
