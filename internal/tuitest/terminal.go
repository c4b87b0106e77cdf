package tuitest

import (
	"bytes"
	"io"
)

// terminalQueries maps the capability probes the renderer sends on startup to
// canned answers: cursor position, foreground and background colour.
var terminalQueries = []struct {
	query  []byte
	answer []byte
}{
	{[]byte("\x1b[6n"), []byte("\x1b[1;1R")},
	{[]byte("\x1b]10;?\x07"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{[]byte("\x1b]10;?\x1b\\"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{[]byte("\x1b]11;?\x07"), []byte("\x1b]11;rgb:0000/0000/0000\x07")},
	{[]byte("\x1b]11;?\x1b\\"), []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
}

// tailKeep bytes survive between reads so a query split across chunks is
// still recognised.
const tailKeep = 64

type terminalResponder struct {
	w   io.Writer
	buf []byte
}

func newTerminalResponder(w io.Writer) *terminalResponder {
	return &terminalResponder{w: w, buf: make([]byte, 0, 128)}
}

func (tr *terminalResponder) Process(chunk []byte) {
	tr.buf = append(tr.buf, chunk...)
	for tr.answerNext() {
	}
	if len(tr.buf) > 4*tailKeep {
		tr.buf = tr.buf[len(tr.buf)-tailKeep:]
	}
}

// answerNext replies to the earliest pending query and drops it from the buffer.
func (tr *terminalResponder) answerNext() bool {
	best, bestIdx := -1, -1
	for i, q := range terminalQueries {
		if idx := bytes.Index(tr.buf, q.query); idx >= 0 && (bestIdx < 0 || idx < bestIdx) {
			best, bestIdx = i, idx
		}
	}
	if best < 0 {
		return false
	}
	q := terminalQueries[best]
	tr.buf = tr.buf[bestIdx+len(q.query):]
	_, _ = tr.w.Write(q.answer)
	return true
}
