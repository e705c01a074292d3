// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package reply

import (
	"bufio"
	"io"

	"github.com/siemens/liveping/types"
)

// Scanner reads probe output line by line and yields only the replies,
// skipping all other lines. Scanner works like a [bufio.Scanner]: call Scan
// until it returns false, picking up each reply using Reply, and finally check
// Err for a read error. A Scanner cannot be restarted.
type Scanner struct {
	sc      *bufio.Scanner
	parser  *Parser
	reply   types.Reply
	skipped int
}

// NewScanner returns a new Scanner reading probe output from r.
func NewScanner(r io.Reader, options ...ParserOption) *Scanner {
	return &Scanner{
		sc:     bufio.NewScanner(r),
		parser: NewParser(options...),
	}
}

// Scan advances to the next reply, blocking until a reply line has been read.
// It returns false when the probe output ends or a read error occurs.
func (s *Scanner) Scan() bool {
	for s.sc.Scan() {
		if r, ok := s.parser.Parse(s.sc.Text()); ok {
			s.reply = r
			return true
		}
		s.skipped++
	}
	return false
}

// Reply returns the most recent reply found by Scan.
func (s *Scanner) Reply() types.Reply { return s.reply }

// Skipped returns the number of lines that weren't replies.
func (s *Scanner) Skipped() int { return s.skipped }

// Err returns the first non-EOF error encountered while reading.
func (s *Scanner) Err() error { return s.sc.Err() }
