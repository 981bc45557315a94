// Package strategy implements the competing per-line extraction
// strategies and best-of selection between them.
package strategy

import (
	"github.com/ledgerline/ledgerline/parser/patterns"
	"github.com/ledgerline/ledgerline/parser/txn"
)

// Strategy names, also the declared tie-break order for equal confidence.
const (
	NamePattern    = "pattern"
	NameContextual = "contextual"
	NameFuzzy      = "fuzzy"
	NameMultiline  = "multiline"
	NameCSV        = "csv"
)

// Context carries everything a strategy may inspect beyond the line itself.
type Context struct {
	Lines        []string
	Index        int
	Patterns     *patterns.Config
	FallbackYear int
}

// Line returns the line under extraction.
func (c *Context) Line() string {
	return c.Lines[c.Index]
}

// Strategy attempts to derive one transaction candidate from a line.
type Strategy interface {
	Name() string
	Extract(line string, ctx *Context) (txn.Candidate, bool)
}

// PerLine returns the per-line strategies in tie-break order: a later
// strategy only wins with strictly higher confidence.
func PerLine() []Strategy {
	return []Strategy{Pattern{}, Contextual{}, Fuzzy{}}
}

// Best runs every strategy over the line and keeps the single
// highest-confidence candidate. Ties go to the earlier strategy.
func Best(line string, ctx *Context, strategies []Strategy) (txn.Candidate, bool) {
	var best txn.Candidate
	found := false
	for _, s := range strategies {
		cand, ok := s.Extract(line, ctx)
		if !ok {
			continue
		}
		if !found || cand.Confidence > best.Confidence {
			best = cand
			found = true
		}
	}
	return best, found
}

// excise removes two half-open index ranges from a line. Ranges may appear
// in either order but must not overlap.
func excise(line string, aStart, aEnd, bStart, bEnd int) string {
	if aStart > bStart {
		aStart, aEnd, bStart, bEnd = bStart, bEnd, aStart, aEnd
	}
	if aEnd > bStart {
		aEnd = bStart
	}
	return line[:aStart] + " " + line[aEnd:bStart] + " " + line[bEnd:]
}
