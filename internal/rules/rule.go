// Package rules decides which worksheets take part in a merge and how their
// columns are keyed.
package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// Naming is the policy used to derive a column identifier from a header cell.
type Naming int

const (
	// NamingIndex keys a column by its title plus its position relative to
	// the rule's starting column, e.g. "Likes [2]".
	NamingIndex Naming = iota
	// NamingTitle keys a column by its header text alone.
	NamingTitle
)

func (n Naming) String() string {
	switch n {
	case NamingIndex:
		return "index"
	case NamingTitle:
		return "title"
	}
	return "Naming(" + strconv.Itoa(int(n)) + ")"
}

// ParseNaming accepts "index" or "title" in any case.
func ParseNaming(s string) (Naming, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "index":
		return NamingIndex, nil
	case "title":
		return NamingTitle, nil
	}
	return 0, fmt.Errorf("unknown column naming mode %q (must be index or title)", s)
}

// Start is the 0-based offset where real header/data begins in a worksheet.
type Start struct {
	Column int
	Row    int
}

// Rule selects worksheets by a case-insensitive substring of their name.
type Rule struct {
	NameMatch string
	Start     Start
	Naming    Naming
}

// ColumnID returns the merged-table column identifier for a header cell.
// index counts from 0 at the rule's starting column.
func (r Rule) ColumnID(title string, index int) string {
	if r.Naming == NamingTitle {
		return title
	}
	return fmt.Sprintf("%s [%d]", title, index)
}

// Matches reports whether sheet contains the rule's name match, ignoring case.
func (r Rule) Matches(sheet string) bool {
	return strings.Contains(strings.ToLower(sheet), strings.ToLower(r.NameMatch))
}

func (r Rule) String() string {
	return fmt.Sprintf("%s:%d:%d:%s", r.NameMatch, r.Start.Column, r.Start.Row, r.Naming)
}

// Validate checks a single rule in isolation.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.NameMatch) == "" {
		return fmt.Errorf("rule %q: empty name match", r.String())
	}
	if r.Start.Column < 0 || r.Start.Row < 0 {
		return fmt.Errorf("rule %q: starting point must not be negative", r.String())
	}
	if r.Naming != NamingIndex && r.Naming != NamingTitle {
		return fmt.Errorf("rule %q: unknown naming mode", r.String())
	}
	return nil
}

// ParseRule parses the command-line form "<name>:<column>:<row>:<naming>".
// The name may itself contain colons; the last three fields are positional.
func ParseRule(s string) (Rule, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 4 {
		return Rule{}, fmt.Errorf("invalid rule %q: want <name>:<column>:<row>:<naming>", s)
	}
	n := len(parts)
	name := strings.Join(parts[:n-3], ":")
	col, err := strconv.Atoi(strings.TrimSpace(parts[n-3]))
	if err != nil {
		return Rule{}, fmt.Errorf("invalid rule %q: column: %w", s, err)
	}
	row, err := strconv.Atoi(strings.TrimSpace(parts[n-2]))
	if err != nil {
		return Rule{}, fmt.Errorf("invalid rule %q: row: %w", s, err)
	}
	naming, err := ParseNaming(parts[n-1])
	if err != nil {
		return Rule{}, fmt.Errorf("invalid rule %q: %w", s, err)
	}
	r := Rule{NameMatch: name, Start: Start{Column: col, Row: row}, Naming: naming}
	return r, r.Validate()
}
