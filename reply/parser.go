// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package reply

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/siemens/liveping/types"
)

// DefaultSeqToken is the sequence number token of the reply grammar.
const DefaultSeqToken = "icmp_req"

// Parser turns probe output lines into [types.Reply] values. A Parser is
// immutable and thus can be shared.
type Parser struct {
	seqTokens []string
	rgx       *regexp.Regexp
}

// ParserOption can be passed to NewParser when creating new Parser objects.
type ParserOption func(*Parser)

// WithSeqToken additionally accepts the specified sequence number token, such
// as "icmp_seq" as used by newer iputils ping versions.
func WithSeqToken(token string) ParserOption {
	return func(p *Parser) {
		if token == "" {
			return
		}
		for _, known := range p.seqTokens {
			if known == token {
				return
			}
		}
		p.seqTokens = append(p.seqTokens, token)
	}
}

// NewParser returns a new Parser accepting lines of the form
//
//	<size> bytes from <address>: icmp_req=<seq> ttl=<ttl> time=<rtt> ms
//
// The parser can be configured during creation using [WithSeqToken].
func NewParser(options ...ParserOption) *Parser {
	p := &Parser{
		seqTokens: []string{DefaultSeqToken},
	}
	for _, opt := range options {
		opt(p)
	}
	quoted := make([]string, 0, len(p.seqTokens))
	for _, token := range p.seqTokens {
		quoted = append(quoted, regexp.QuoteMeta(token))
	}
	p.rgx = regexp.MustCompile(
		`^(\d+) bytes from ([^\s:]+): (?:` + strings.Join(quoted, "|") +
			`)=(\d+) ttl=(\d+) time=(\d+(?:\.\d+)?) ms$`)
	return p
}

var defaultParser = NewParser()

// Parse a single line using the default grammar. See [Parser.Parse] for
// details.
func Parse(line string) (types.Reply, bool) {
	return defaultParser.Parse(line)
}

// Parse a single line of probe output and return the corresponding reply and
// true. Any trailing white space (including CR) is ignored, but otherwise the
// line must match the reply grammar in full. If the line doesn't match, such
// as banner, summary, and error lines, Parse returns false.
//
// Parse panics if a matching line carries a number that cannot be
// represented, as then the grammar and the record construction have parted
// ways.
func (p *Parser) Parse(line string) (types.Reply, bool) {
	m := p.rgx.FindStringSubmatch(strings.TrimRight(line, " \t\r\n"))
	if m == nil {
		return types.Reply{}, false
	}
	return types.Reply{
		Size:    mustAtoi("size", m[1]),
		Address: m[2],
		Seq:     mustAtoi("sequence number", m[3]),
		TTL:     mustAtoi("ttl", m[4]),
		RTT:     mustParseFloat("round-trip time", m[5]),
	}, true
}

func mustAtoi(field string, s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		panic(fmt.Errorf("reply: invalid %s %q in matching line: %w", field, s, err))
	}
	return i
}

func mustParseFloat(field string, s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		panic(fmt.Errorf("reply: invalid %s %q in matching line: %w", field, s, err))
	}
	return f
}
