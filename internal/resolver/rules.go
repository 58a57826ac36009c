package resolver

import (
	"fmt"
	"strings"
)

// MatchKind is the precondition a similarity rule checks on a class name
type MatchKind int

const (
	MatchExact MatchKind = iota
	MatchSuffix
	MatchPrefix
	MatchContains
)

// SimilarityRule derives the name of a class that probably shares an entity with className.
// Pattern is replaced everywhere in the name, not only at the tested position.
type SimilarityRule struct {
	Kind        MatchKind
	Pattern     string
	Replacement string
}

// Candidate returns the transformed name when the rule's precondition holds
func (r SimilarityRule) Candidate(className string) (string, bool) {
	switch r.Kind {
	case MatchExact:
		return className, true
	case MatchSuffix:
		if !strings.HasSuffix(className, r.Pattern) {
			return "", false
		}
	case MatchPrefix:
		if !strings.HasPrefix(className, r.Pattern) {
			return "", false
		}
	case MatchContains:
		if !strings.Contains(className, r.Pattern) {
			return "", false
		}
	default:
		return "", false
	}
	return strings.ReplaceAll(className, r.Pattern, r.Replacement), true
}

func (r SimilarityRule) String() string {
	switch r.Kind {
	case MatchExact:
		return "exact"
	case MatchSuffix:
		return fmt.Sprintf("suffix %s->%s", r.Pattern, r.Replacement)
	case MatchPrefix:
		return fmt.Sprintf("prefix -%s", r.Pattern)
	case MatchContains:
		return fmt.Sprintf("contains -%s", r.Pattern)
	}
	return "unknown"
}

// DefaultRules are probed in order; the first one that finds a resolved class wins
var DefaultRules = []SimilarityRule{
	{Kind: MatchExact},
	{Kind: MatchSuffix, Pattern: "EditList", Replacement: "List"},
	{Kind: MatchSuffix, Pattern: "Module", Replacement: "List"},
	{Kind: MatchSuffix, Pattern: "Module", Replacement: "Detail"},
	{Kind: MatchSuffix, Pattern: "SwitchModule", Replacement: "List"},
	{Kind: MatchSuffix, Pattern: "CommonModule", Replacement: "Module"},
	{Kind: MatchSuffix, Pattern: "BaseModule", Replacement: "Module"},
	{Kind: MatchSuffix, Pattern: "CrossModule", Replacement: "Module"},
	{Kind: MatchSuffix, Pattern: "CrossModule", Replacement: "List"},
	{Kind: MatchSuffix, Pattern: "SwitchModule", Replacement: "Detail"},
	{Kind: MatchSuffix, Pattern: "DetailSwitch", Replacement: "Detail"},
	{Kind: MatchPrefix, Pattern: "Common"},
	{Kind: MatchPrefix, Pattern: "Custom"},
	{Kind: MatchContains, Pattern: "Base"},
}

// DefaultEntityNames are matched against the upper-cased class name in list order
var DefaultEntityNames = []string{
	"TECHINFO", "RESALLOC", "SUBJSUBTYPE", "REFERENCE", "REPORT", "COMPPFL", "COMPCFG", "XCOMP", "CONFOBJ",
	"COMMORDER", "COMMBLOCK", "TXEVENT", "TXSLOT", "PRODUSAGE", "VODREQ",
}
