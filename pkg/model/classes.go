package model

import "strings"

// Reserved class tokens of the markup convention.
const (
	ClassParent    = "parent"
	ClassExpanded  = "expanded"
	ClassCollapsed = "collapsed"
	ChildOfPrefix  = "child-of-"
)

// ChildMarker returns the class token that marks a row as a child of id.
func ChildMarker(id string) string {
	return ChildOfPrefix + id
}

// ParseClasses applies class tokens to r. Reserved tokens set ParentID, Kind
// and Tag; every other token is appended to r.Classes in order.
//
// When both expanded and collapsed are present, collapsed wins.
func ParseClasses(r *Row, tokens []string) {
	var expanded, collapsed bool
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		switch {
		case tok == "":
			continue
		case tok == ClassParent:
			r.Kind = KindParent
		case tok == ClassExpanded:
			expanded = true
		case tok == ClassCollapsed:
			collapsed = true
		case strings.HasPrefix(tok, ChildOfPrefix) && len(tok) > len(ChildOfPrefix):
			r.ParentID = strings.TrimPrefix(tok, ChildOfPrefix)
		default:
			r.Classes = append(r.Classes, tok)
		}
	}
	switch {
	case collapsed:
		r.Tag = TagCollapsed
	case expanded:
		r.Tag = TagExpanded
	}
}

// ClassTokens is the inverse of ParseClasses: the row's own class tokens
// followed by the reserved tokens for its current state.
func (r *Row) ClassTokens() []string {
	tokens := make([]string, 0, len(r.Classes)+3)
	tokens = append(tokens, r.Classes...)
	if r.ParentID != "" {
		tokens = append(tokens, ChildMarker(r.ParentID))
	}
	if r.Kind == KindParent {
		tokens = append(tokens, ClassParent)
	}
	if r.Tag != TagNone {
		tokens = append(tokens, string(r.Tag))
	}
	return tokens
}

// ClassAttr renders ClassTokens as a space separated attribute value.
func (r *Row) ClassAttr() string {
	return strings.Join(r.ClassTokens(), " ")
}
