package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/giuliocaccin/excel-csv-merger/internal/workbook"
)

var (
	// ErrNoMatch is matched by a MatchError of kind NoMatch.
	ErrNoMatch = errors.New("no merge rule matches")
	// ErrAmbiguousMatch is matched by a MatchError of kind AmbiguousMatch.
	ErrAmbiguousMatch = errors.New("more than one merge rule matches")
)

// MatchKind classifies a failed rule resolution.
type MatchKind int

const (
	NoMatch MatchKind = iota
	AmbiguousMatch
)

// MatchError reports a worksheet name that resolves to zero or several rules.
type MatchError struct {
	Sheet      string
	Kind       MatchKind
	Candidates []Rule
}

func (e *MatchError) Error() string {
	if e.Kind == NoMatch {
		return fmt.Sprintf("worksheet %q: %v", e.Sheet, ErrNoMatch)
	}
	names := make([]string, len(e.Candidates))
	for i, r := range e.Candidates {
		names[i] = fmt.Sprintf("%q", r.NameMatch)
	}
	return fmt.Sprintf("worksheet %q: %v (%s)", e.Sheet, ErrAmbiguousMatch, strings.Join(names, ", "))
}

func (e *MatchError) Is(target error) bool {
	switch target {
	case ErrNoMatch:
		return e.Kind == NoMatch
	case ErrAmbiguousMatch:
		return e.Kind == AmbiguousMatch
	}
	return false
}

// Resolve returns the single rule whose name match is contained in sheet.
func Resolve(sheet string, rules []Rule) (Rule, error) {
	var found []Rule
	for _, r := range rules {
		if r.Matches(sheet) {
			found = append(found, r)
		}
	}
	switch len(found) {
	case 0:
		return Rule{}, &MatchError{Sheet: sheet, Kind: NoMatch}
	case 1:
		return found[0], nil
	}
	return Rule{}, &MatchError{Sheet: sheet, Kind: AmbiguousMatch, Candidates: found}
}

// Group is every occurrence of one worksheet name across the input files,
// together with the rule that governs it.
type Group struct {
	Sheet string
	Rule  Rule
	// Files lists the origin of each occurrence in discovery order.
	Files []string
}

// Plan filters descriptors down to worksheets matched by any rule, groups
// them by exact worksheet name in first-seen order and resolves one rule per
// group. Every resolution failure is reported together, before any merging.
func Plan(descriptors []workbook.Descriptor, rules []Rule) ([]Group, error) {
	var (
		groups []Group
		index  = make(map[string]int)
	)
	for _, d := range descriptors {
		if !anyMatches(d.Name, rules) {
			continue
		}
		i, ok := index[d.Name]
		if !ok {
			i = len(groups)
			index[d.Name] = i
			groups = append(groups, Group{Sheet: d.Name})
		}
		groups[i].Files = append(groups[i].Files, d.OriginFile)
	}

	var errs []error
	for i := range groups {
		r, err := Resolve(groups[i].Sheet, rules)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		groups[i].Rule = r
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return groups, nil
}

func anyMatches(sheet string, rules []Rule) bool {
	for _, r := range rules {
		if r.Matches(sheet) {
			return true
		}
	}
	return false
}
