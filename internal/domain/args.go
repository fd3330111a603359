package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxTokenLength is the hard cap on a single command token, in bytes.
const MaxTokenLength = 128

type FlagType string

const (
	FlagInteger FlagType = "integer"
	FlagFloat   FlagType = "float"
	FlagBoolean FlagType = "boolean"
	FlagText    FlagType = "text"
)

func (t FlagType) Valid() bool {
	switch t {
	case FlagInteger, FlagFloat, FlagBoolean, FlagText:
		return true
	}
	return false
}

// FlagSpec describes one recognized flag. Bit is the position the flag
// occupies in the packed options mask; it is -1 for flags that take a value.
// Required is declared by the schema but not yet enforced against the
// positional count.
type FlagSpec struct {
	Name     string
	Type     FlagType
	Bit      int
	Required bool
}

// ArgumentSchema is an ordered set of flag specs. It carries no behavior
// beyond lookup.
type ArgumentSchema struct {
	order []string
	specs map[string]FlagSpec
}

// NewArgumentSchema builds a schema from specs in declaration order.
// Flag names must be unique, bit positions must be unique and may only be
// set on boolean flags.
func NewArgumentSchema(specs ...FlagSpec) (*ArgumentSchema, error) {
	s := &ArgumentSchema{specs: make(map[string]FlagSpec, len(specs))}
	bits := make(map[int]string, len(specs))

	for _, spec := range specs {
		if strings.TrimSpace(spec.Name) == "" {
			return nil, fmt.Errorf("flag name is required")
		}
		if !spec.Type.Valid() {
			return nil, fmt.Errorf("flag %q: unsupported type %q", spec.Name, spec.Type)
		}
		if _, ok := s.specs[spec.Name]; ok {
			return nil, fmt.Errorf("flag %q: duplicate name", spec.Name)
		}
		if spec.Bit >= 0 {
			if spec.Type != FlagBoolean {
				return nil, fmt.Errorf("flag %q: bit position on non-boolean flag", spec.Name)
			}
			if spec.Bit > 63 {
				return nil, fmt.Errorf("flag %q: bit position %d out of range", spec.Name, spec.Bit)
			}
			if other, ok := bits[spec.Bit]; ok {
				return nil, fmt.Errorf("flag %q: bit position %d already used by %q", spec.Name, spec.Bit, other)
			}
			bits[spec.Bit] = spec.Name
		}
		s.order = append(s.order, spec.Name)
		s.specs[spec.Name] = spec
	}

	return s, nil
}

func (s *ArgumentSchema) Lookup(name string) (FlagSpec, bool) {
	spec, ok := s.specs[name]
	return spec, ok
}

// Flags returns the specs in declaration order.
func (s *ArgumentSchema) Flags() []FlagSpec {
	out := make([]FlagSpec, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.specs[name])
	}
	return out
}

// Value is a typed command value: an integer, a float, or a bare word.
type Value struct {
	Type  FlagType
	Int   int64
	Float float64
	Text  string
}

func (v Value) String() string {
	switch v.Type {
	case FlagInteger:
		return strconv.FormatInt(v.Int, 10)
	case FlagFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	default:
		return v.Text
	}
}

// ParsedCommand is the result of validating a token sequence: standalone
// positionals in encounter order, values bound to single-dash flags, and
// the packed options mask from boolean double-dash flags.
type ParsedCommand struct {
	Positionals []Value
	Flags       map[string]Value
	Options     uint64
}

// HasOption reports whether the named boolean flag's bit is set.
func (c ParsedCommand) HasOption(schema *ArgumentSchema, name string) bool {
	spec, ok := schema.Lookup(name)
	if !ok || spec.Bit < 0 {
		return false
	}
	return c.Options&(1<<uint(spec.Bit)) != 0
}

type ValidationCode int

const (
	TokenTooLarge ValidationCode = iota + 1
	NonASCIIToken
	MalformedToken
	FlagTypeMismatch
)

func (c ValidationCode) String() string {
	switch c {
	case TokenTooLarge:
		return "token too large"
	case NonASCIIToken:
		return "non-ascii token"
	case MalformedToken:
		return "malformed token"
	case FlagTypeMismatch:
		return "flag type mismatch"
	default:
		return "validation error"
	}
}

// ValidationError reports one offending token together with its byte offset
// in the reconstructed command line (tokens joined by single spaces).
// Flag holds the associated flag token when the error is FlagTypeMismatch.
type ValidationError struct {
	Code   ValidationCode
	Token  string
	Offset int
	Flag   string
	Line   string
}

func (e *ValidationError) Error() string {
	if e.Code == FlagTypeMismatch && e.Flag != "" {
		return fmt.Sprintf("%s: flag %q does not accept %q at offset %d", e.Code, e.Flag, e.Token, e.Offset)
	}
	return fmt.Sprintf("%s: %q at offset %d", e.Code, e.Token, e.Offset)
}

// Diagnostic renders the command line with a caret underline beneath the
// offending token.
func (e *ValidationError) Diagnostic() string {
	width := len(e.Token)
	if width == 0 {
		width = 1
	}

	var b strings.Builder
	b.WriteString(e.Line)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", e.Offset))
	b.WriteString(strings.Repeat("^", width))
	b.WriteByte('\n')
	b.WriteString(e.Error())
	return b.String()
}

// Token classes for the one-lookback association state machine.
type tokenClass int

const (
	classNone tokenClass = iota
	classValue
	classSingleDash
	classDoubleDash
)

// Validate turns a pre-split token sequence into a ParsedCommand.
//
// Per-token rules, in order: the length guard, the ASCII guard, then
// classification as numeric, bare word, or flag. A value token is a
// standalone positional unless the previous token was a single-dash flag,
// in which case it binds to that flag and must match its declared type.
// Boolean double-dash flags set their bit in the options mask; unknown
// double-dash flags are ignored. The schema's positional arity is not
// checked.
//
// Validate is pure: it never mutates the schema or the token slice.
func Validate(schema *ArgumentSchema, tokens []string) (ParsedCommand, error) {
	line := strings.Join(tokens, " ")
	cmd := ParsedCommand{Flags: make(map[string]Value)}

	offset := 0
	prev := classNone
	var prevFlagToken, prevFlagName string

	for _, tok := range tokens {
		if len(tok) > MaxTokenLength {
			return ParsedCommand{}, &ValidationError{Code: TokenTooLarge, Token: tok, Offset: offset, Line: line}
		}
		if !isASCII(tok) {
			return ParsedCommand{}, &ValidationError{Code: NonASCIIToken, Token: tok, Offset: offset, Line: line}
		}

		class := classNone
		var val Value
		var flagName string

		if v, ok := parseNumeric(tok); ok {
			class, val = classValue, v
		} else if isBareWord(tok) {
			class, val = classValue, Value{Type: FlagText, Text: tok}
		} else if name, double, ok := parseFlagToken(tok); ok {
			flagName = name
			if double {
				class = classDoubleDash
			} else {
				class = classSingleDash
			}
		} else {
			return ParsedCommand{}, &ValidationError{Code: MalformedToken, Token: tok, Offset: offset, Line: line}
		}

		switch class {
		case classValue:
			if prev == classSingleDash {
				spec, known := schema.Lookup(prevFlagName)
				if !known || !typeMatches(spec.Type, val.Type) {
					return ParsedCommand{}, &ValidationError{
						Code:   FlagTypeMismatch,
						Token:  tok,
						Offset: offset,
						Flag:   prevFlagToken,
						Line:   line,
					}
				}
				cmd.Flags[prevFlagName] = coerce(spec.Type, val)
			} else {
				cmd.Positionals = append(cmd.Positionals, val)
			}
		case classDoubleDash:
			if spec, known := schema.Lookup(flagName); known && spec.Type == FlagBoolean && spec.Bit >= 0 {
				cmd.Options |= 1 << uint(spec.Bit)
			}
		case classSingleDash:
			prevFlagToken, prevFlagName = tok, flagName
		}

		prev = class
		offset += len(tok) + 1
	}

	return cmd, nil
}

func isASCII(tok string) bool {
	for i := 0; i < len(tok); i++ {
		if tok[i] > 127 {
			return false
		}
	}
	return true
}

// parseNumeric accepts at most one leading minus sign and at most one
// decimal point; everything else must be a digit. A decimal point makes the
// value a float.
func parseNumeric(tok string) (Value, bool) {
	body := strings.TrimPrefix(tok, "-")
	if body == "" {
		return Value{}, false
	}

	dots := 0
	digits := 0
	for i := 0; i < len(body); i++ {
		switch {
		case body[i] >= '0' && body[i] <= '9':
			digits++
		case body[i] == '.':
			dots++
		default:
			return Value{}, false
		}
	}
	if digits == 0 || dots > 1 {
		return Value{}, false
	}

	if dots == 1 {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return Value{}, false
		}
		return Value{Type: FlagFloat, Float: f}, true
	}

	i, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return Value{}, false
	}
	return Value{Type: FlagInteger, Int: i}, true
}

func isBareWord(tok string) bool {
	if tok == "" {
		return false
	}
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

// parseFlagToken matches one or two leading dashes, a lowercase letter,
// then lowercase letters or single non-repeated internal dashes.
func parseFlagToken(tok string) (name string, double bool, ok bool) {
	body := tok
	if strings.HasPrefix(body, "--") {
		double = true
		body = body[2:]
	} else if strings.HasPrefix(body, "-") {
		body = body[1:]
	} else {
		return "", false, false
	}

	if body == "" || body[0] < 'a' || body[0] > 'z' {
		return "", false, false
	}

	prevDash := false
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c >= 'a' && c <= 'z':
			prevDash = false
		case c == '-':
			if prevDash {
				return "", false, false
			}
			prevDash = true
		default:
			return "", false, false
		}
	}
	if prevDash {
		return "", false, false
	}

	return body, double, true
}

// typeMatches checks a bound value against the flag's declared type.
// Integer values satisfy a float declaration; the reverse does not hold.
func typeMatches(declared, got FlagType) bool {
	switch declared {
	case FlagInteger:
		return got == FlagInteger
	case FlagFloat:
		return got == FlagInteger || got == FlagFloat
	case FlagText:
		return got == FlagText
	default:
		return false
	}
}

func coerce(declared FlagType, val Value) Value {
	if declared == FlagFloat && val.Type == FlagInteger {
		return Value{Type: FlagFloat, Float: float64(val.Int)}
	}
	return val
}
