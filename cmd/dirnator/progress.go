package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/jamesainslie/dirnator/pkg/dirnator/report"
	"github.com/jamesainslie/dirnator/pkg/dirnator/scanner"
	"github.com/jamesainslie/dirnator/pkg/dirnator/types"
)

// maxStatusPath bounds the path shown so the line fits a normal terminal.
const maxStatusPath = 48

// statusLine redraws a single line on a terminal while a scan runs.
// A nil statusLine is valid and does nothing.
type statusLine struct {
	mu     sync.Mutex
	w      io.Writer
	active bool
}

// newStatusLine returns nil unless w is a terminal.
func newStatusLine(w io.Writer) *statusLine {
	if !isTerminal(w) {
		return nil
	}
	return &statusLine{w: w}
}

// update redraws the line with the latest counters.
func (s *statusLine) update(p scanner.Progress) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	line := fmt.Sprintf("scanning workers=%d dirs=%s files=%s %s",
		p.Workers, types.FormatCount(p.Dirs), types.FormatCount(p.Files), shortenPath(p.CurrentPath))
	fmt.Fprint(s.w, "\r\x1b[K"+report.MutedStyle.Render(line))
	s.active = true
}

// clear erases the line so regular output starts at column zero.
func (s *statusLine) clear() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return
	}
	fmt.Fprint(s.w, "\r\x1b[K")
	s.active = false
}

// shortenPath keeps the tail of long paths.
func shortenPath(path string) string {
	r := []rune(path)
	if len(r) <= maxStatusPath {
		return path
	}
	return "..." + string(r[len(r)-maxStatusPath+3:])
}
