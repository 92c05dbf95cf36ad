package diag

import (
	"strconv"
	"strings"
)

// Code is a composite diagnostic code: a policy prefix followed by a
// numeric sub-code, e.g. "BRACE1". Engine-level checks may use a bare prefix.
type Code string

const (
	// UnknownCode is used for diagnostics without an owner.
	UnknownCode Code = ""
	// CodeBOM is raised by the engine itself, not by a policy.
	CodeBOM Code = "BOM"
)

// Compose joins a policy prefix and a sub-code.
func Compose(prefix string, sub int) Code {
	return Code(prefix + strconv.Itoa(sub))
}

// ID returns the stable string form of the code.
func (c Code) ID() string {
	if c == UnknownCode {
		return "UNKNOWN"
	}
	return string(c)
}

func (c Code) String() string {
	return c.ID()
}

// Split separates the policy prefix from the numeric sub-code. Codes without
// a trailing number return ok == false and the whole code as prefix.
func (c Code) Split() (prefix string, sub int, ok bool) {
	s := string(c)
	i := strings.LastIndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if i == len(s)-1 {
		return s, 0, false
	}
	n, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return s, 0, false
	}
	return s[:i+1], n, true
}

// Prefix returns the policy part of the code.
func (c Code) Prefix() string {
	p, _, _ := c.Split()
	return p
}
