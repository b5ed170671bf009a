// FILE: lixenwraith/beacon/sanitizer/sanitizer.go
// Package sanitizer provides a fluent and composable interface for sanitizing
// strings based on configurable rules using bitwise filter flags and transforms.
package sanitizer

import (
	"encoding/hex"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/davecgh/go-spew/spew"
)

// Filter flags for character matching
const (
	FilterNonPrintable uint64 = 1 << iota // Matches runes not classified as printable by strconv.IsPrint
	FilterControl                         // Matches control characters (unicode.IsControl)
	FilterWhitespace                      // Matches whitespace characters (unicode.IsSpace)
)

// Transform flags for character transformation
const (
	TransformStrip     uint64 = 1 << iota // Removes the character
	TransformHexEncode                    // Encodes the character's UTF-8 bytes as "<XXYY>"
)

// PolicyPreset defines pre-configured sanitization policies
type PolicyPreset string

const (
	PolicyRaw   PolicyPreset = "raw"   // Raw is a no-op (passthrough)
	PolicyTxt   PolicyPreset = "txt"   // Policy for diagnostic text lines
	PolicyField PolicyPreset = "field" // Policy for tab separated record fields
)

// rule represents a single sanitization rule
type rule struct {
	filter    uint64
	transform uint64
}

// policyRules contains pre-configured rules for each policy
var policyRules = map[PolicyPreset][]rule{
	PolicyRaw: {},
	PolicyTxt: {{filter: FilterNonPrintable, transform: TransformHexEncode}},
	// Tab and newline are control characters, encoding them keeps one record on one line with fixed columns
	PolicyField: {{filter: FilterControl | FilterNonPrintable, transform: TransformHexEncode}},
}

// filterCheckers maps individual filter flags to their check functions
var filterCheckers = map[uint64]func(rune) bool{
	FilterNonPrintable: func(r rune) bool { return !strconv.IsPrint(r) },
	FilterControl:      unicode.IsControl,
	FilterWhitespace:   unicode.IsSpace,
}

// Sanitizer provides chainable text sanitization
type Sanitizer struct {
	rules []rule
	buf   []byte
}

// New creates a new Sanitizer instance
func New() *Sanitizer {
	return &Sanitizer{
		rules: []rule{},
		buf:   make([]byte, 0, 256),
	}
}

// Rule adds a custom rule to the sanitizer (appended, earliest rule applies first)
func (s *Sanitizer) Rule(filter uint64, transform uint64) *Sanitizer {
	s.rules = append(s.rules, rule{filter: filter, transform: transform})
	return s
}

// Policy applies a pre-configured policy to the sanitizer (appended)
func (s *Sanitizer) Policy(preset PolicyPreset) *Sanitizer {
	if rules, ok := policyRules[preset]; ok {
		s.rules = append(s.rules, rules...)
	}
	return s
}

// Sanitize applies all configured rules to the input string
func (s *Sanitizer) Sanitize(data string) string {
	if len(s.rules) == 0 {
		return data
	}
	s.buf = s.AppendSanitized(s.buf[:0], data)
	return string(s.buf)
}

// AppendSanitized applies all configured rules to data and appends the result to dst.
// A byte that is not valid UTF-8 matches the non-printable and control filters and is transformed as is.
func (s *Sanitizer) AppendSanitized(dst []byte, data string) []byte {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRuneInString(data[i:])
		raw := data[i : i+size]
		i += size

		invalid := r == utf8.RuneError && size == 1
		matched := false
		// Check rules in order (first match wins)
		for _, rl := range s.rules {
			if (invalid && rl.filter&(FilterNonPrintable|FilterControl) != 0) || (!invalid && matchesFilter(r, rl.filter)) {
				dst = applyTransform(dst, raw, rl.transform)
				matched = true
				break
			}
		}
		if !matched {
			dst = append(dst, raw...)
		}
	}
	return dst
}

// matchesFilter checks if a rune matches any filter in the mask
func matchesFilter(r rune, filterMask uint64) bool {
	for flag, checker := range filterCheckers {
		if (filterMask&flag) != 0 && checker(r) {
			return true
		}
	}
	return false
}

// applyTransform applies the specified transform to the encoded character and returns the grown buffer
func applyTransform(buf []byte, raw string, transformMask uint64) []byte {
	switch {
	case (transformMask & TransformStrip) != 0:
		// Do nothing (strip)

	case (transformMask & TransformHexEncode) != 0:
		buf = append(buf, '<')
		buf = hex.AppendEncode(buf, []byte(raw))
		buf = append(buf, '>')
	}
	return buf
}

// Serializer writes values into diagnostic lines
type Serializer struct {
	sanitizer *Sanitizer
}

// NewSerializer creates a serializer bound to san
func NewSerializer(san *Sanitizer) *Serializer {
	return &Serializer{sanitizer: san}
}

// WriteString writes a sanitized string, quoted when it would not read as one token
func (se *Serializer) WriteString(buf *[]byte, s string) {
	sanitized := se.sanitizer.Sanitize(s)
	if !se.NeedsQuotes(sanitized) {
		*buf = append(*buf, sanitized...)
		return
	}
	*buf = append(*buf, '"')
	for i := 0; i < len(sanitized); i++ {
		if sanitized[i] == '"' || sanitized[i] == '\\' {
			*buf = append(*buf, '\\')
		}
		*buf = append(*buf, sanitized[i])
	}
	*buf = append(*buf, '"')
}

// WriteNumber writes a number value
func (se *Serializer) WriteNumber(buf *[]byte, n string) {
	*buf = append(*buf, n...)
}

// WriteBool writes a boolean value
func (se *Serializer) WriteBool(buf *[]byte, b bool) {
	*buf = strconv.AppendBool(*buf, b)
}

// WriteNil writes a nil value
func (se *Serializer) WriteNil(buf *[]byte) {
	*buf = append(*buf, "nil"...)
}

// complexDumper renders structs, maps and pointers inline
var complexDumper = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                10,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// WriteComplex writes complex types on a single line
func (se *Serializer) WriteComplex(buf *[]byte, v any) {
	se.WriteString(buf, complexDumper.Sprintf("%+v", v))
}

// NeedsQuotes determines if quoting is needed
func (se *Serializer) NeedsQuotes(s string) bool {
	if len(s) == 0 {
		return true
	}
	for _, r := range s {
		if unicode.IsSpace(r) {
			return true
		}
		switch r {
		case '"', '\'', '\\', '=', '#':
			return true
		}
	}
	return false
}
