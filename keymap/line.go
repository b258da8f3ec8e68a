package keymap

import (
	"bufio"
	"errors"
	"io"
)

// MaxLineLength bounds one line of a table or key definition file. Longer
// lines are skipped as malformed; the lines after them are still read.
const MaxLineLength = 1 << 20

// LineReader reads newline-terminated lines of any length, unlike
// [bufio.Scanner] which stops at its token limit. Only the first
// [MaxLineLength] bytes of a line are kept.
type LineReader struct {
	r    *bufio.Reader
	line int
	text string
	long bool
	err  error
}

// NewLineReader returns a LineReader reading from r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReader(r)}
}

// Next advances to the next line. It returns false at the end of input or
// after a read error, which is then reported by [LineReader.Err].
func (l *LineReader) Next() bool {
	if l.err != nil {
		return false
	}

	var (
		buf     []byte
		started bool
	)

	l.text, l.long = "", false

	for {
		frag, more, err := l.r.ReadLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				l.err = err
			}

			if !started {
				return false
			}

			break
		}

		started = true

		if !l.long {
			if len(buf)+len(frag) > MaxLineLength {
				l.long, buf = true, nil
			} else {
				buf = append(buf, frag...)
			}
		}

		if !more {
			break
		}
	}

	l.line++
	l.text = string(buf)

	return true
}

// Line returns the number of the current line, starting at 1.
func (l *LineReader) Line() int { return l.line }

// Text returns the current line without its line ending. It is empty for a
// line longer than [MaxLineLength].
func (l *LineReader) Text() string { return l.text }

// TooLong reports whether the current line exceeded [MaxLineLength].
func (l *LineReader) TooLong() bool { return l.long }

// Err returns the first read error other than [io.EOF].
func (l *LineReader) Err() error { return l.err }
