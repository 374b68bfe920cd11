package search

import (
	"strings"

	lderr "github.com/linkden/linkden/internal/errors"
)

// Expr is a node in an FTS5 MATCH expression. Building queries as a tree
// keeps escaping in one place instead of scattered string concatenation.
type Expr interface {
	// String renders the node as FTS5 query syntax.
	String() string
}

// Phrase is a literal phrase term. Embedded double quotes are escaped by
// doubling, per FTS5 string syntax, so untrusted text cannot alter the
// query structure.
type Phrase string

func (p Phrase) String() string {
	return `"` + strings.ReplaceAll(string(p), `"`, `""`) + `"`
}

// Prefix is a phrase with prefix matching, used for completion queries.
type Prefix string

func (p Prefix) String() string {
	return Phrase(p).String() + "*"
}

// Or is a disjunction of sub-expressions.
type Or []Expr

func (o Or) String() string {
	parts := make([]string, len(o))
	for i, e := range o {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// And is a conjunction of sub-expressions.
type And []Expr

func (a And) String() string {
	parts := make([]string, len(a))
	for i, e := range a {
		parts[i] = e.String()
	}
	return strings.Join(parts, " AND ")
}

// BuildIndexQuery normalizes free text plus an optional tag list into an
// escaped index expression: the text as a single phrase, AND-ed with the
// tag disjunction when tags are present. The tag terms are a relevance
// hint only; exact tag filtering happens in the facet predicate.
func BuildIndexQuery(text string, tags []string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", lderr.New(lderr.ErrCodeQueryEmpty, "query text is required", nil)
	}

	expr := Expr(Phrase(text))

	var tagTerms Or
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tagTerms = append(tagTerms, Phrase(tag))
		}
	}
	if len(tagTerms) > 0 {
		expr = And{expr, tagTerms}
	}

	return expr.String(), nil
}

// ParseTags splits a comma-separated tag string, trimming whitespace and
// dropping empty entries.
func ParseTags(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(csv, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
