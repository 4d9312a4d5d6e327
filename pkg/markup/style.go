package markup

import (
	"strconv"
	"strings"

	"github.com/gorilla/css/scanner"
)

// declaration is one property: value pair of an inline style attribute.
type declaration struct {
	prop  string
	value string
}

// style is an ordered inline style. Unknown declarations are kept so that
// rewriting one property leaves the rest untouched.
type style []declaration

// parseStyle tokenizes an inline style attribute. Malformed declarations are
// dropped.
func parseStyle(attr string) style {
	var (
		out   style
		prop  string
		value strings.Builder
		inVal bool
	)
	flush := func() {
		if prop != "" {
			out = append(out, declaration{prop: prop, value: strings.TrimSpace(value.String())})
		}
		prop, inVal = "", false
		value.Reset()
	}

	s := scanner.New(attr)
	for {
		tok := s.Next()
		if tok.Type == scanner.TokenEOF || tok.Type == scanner.TokenError {
			break
		}
		switch {
		case tok.Type == scanner.TokenChar && tok.Value == ";":
			flush()
		case tok.Type == scanner.TokenChar && tok.Value == ":" && !inVal:
			inVal = true
		case tok.Type == scanner.TokenComment:
		case inVal:
			if tok.Type == scanner.TokenS {
				value.WriteByte(' ')
			} else {
				value.WriteString(tok.Value)
			}
		case tok.Type == scanner.TokenIdent:
			prop = strings.ToLower(tok.Value)
		}
	}
	if inVal {
		flush()
	}
	return out
}

func (s style) get(prop string) (string, bool) {
	for _, d := range s {
		if d.prop == prop {
			return d.value, true
		}
	}
	return "", false
}

func (s style) set(prop, value string) style {
	for i := range s {
		if s[i].prop == prop {
			s[i].value = value
			return s
		}
	}
	return append(s, declaration{prop: prop, value: value})
}

func (s style) remove(prop string) style {
	out := s[:0]
	for _, d := range s {
		if d.prop != prop {
			out = append(out, d)
		}
	}
	return out
}

func (s style) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = d.prop + ": " + d.value
	}
	return strings.Join(parts, "; ")
}

// pixels parses a length in px. Unitless zero is accepted; other units are
// not understood and report false.
func pixels(value string) (int, bool) {
	v := strings.TrimSpace(strings.ToLower(value))
	if v == "0" {
		return 0, true
	}
	if !strings.HasSuffix(v, "px") {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(v, "px"), 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}
