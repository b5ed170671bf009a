// FILE: lixenwraith/beacon/sanitizer/sanitizer_test.go
package sanitizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizerPolicies(t *testing.T) {
	testCases := []struct {
		name     string
		policy   PolicyPreset
		input    string
		expected string
	}{
		// Raw
		{
			name:     "raw passes through",
			policy:   PolicyRaw,
			input:    "hello\x00world\n",
			expected: "hello\x00world\n",
		},

		// Field
		{
			name:     "field encodes tab",
			policy:   PolicyField,
			input:    "B1\tB2",
			expected: "B1<09>B2",
		},
		{
			name:     "field encodes line breaks",
			policy:   PolicyField,
			input:    "a\r\nb",
			expected: "a<0d><0a>b",
		},
		{
			name:     "field keeps spaces",
			policy:   PolicyField,
			input:    "beacon one",
			expected: "beacon one",
		},
		{
			name:     "field keeps UTF-8",
			policy:   PolicyField,
			input:    "Hello 世界 ✓",
			expected: "Hello 世界 ✓",
		},
		{
			name:     "field encodes multi-byte control",
			policy:   PolicyField,
			input:    "line1\u0085line2",
			expected: "line1<c285>line2",
		},
		{
			name:     "field encodes invalid UTF-8 byte",
			policy:   PolicyField,
			input:    "B\xff1",
			expected: "B<ff>1",
		},
		{
			name:     "field keeps replacement character",
			policy:   PolicyField,
			input:    "B\uFFFD1",
			expected: "B\uFFFD1",
		},
		{
			name:     "raw keeps invalid UTF-8 byte",
			policy:   PolicyRaw,
			input:    "B\xff1",
			expected: "B\xff1",
		},

		// Txt
		{
			name:     "txt encodes null byte",
			policy:   PolicyTxt,
			input:    "test\x00data",
			expected: "test<00>data",
		},
		{
			name:     "txt keeps printable",
			policy:   PolicyTxt,
			input:    "Hello World 123!@#",
			expected: "Hello World 123!@#",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := New().Policy(tc.policy)
			assert.Equal(t, tc.expected, s.Sanitize(tc.input))
		})
	}
}

func TestSanitizerRules(t *testing.T) {
	t.Run("strip control", func(t *testing.T) {
		s := New().Rule(FilterControl, TransformStrip)
		assert.Equal(t, "cleantxt", s.Sanitize("clean\x00\x07\ntxt"))
	})

	t.Run("strip invalid byte", func(t *testing.T) {
		s := New().Rule(FilterControl, TransformStrip)
		assert.Equal(t, "ab", s.Sanitize("a\xc3b"))
	})

	t.Run("whitespace rule ignores invalid byte", func(t *testing.T) {
		s := New().Rule(FilterWhitespace, TransformStrip)
		assert.Equal(t, "a\xc3b", s.Sanitize("a\xc3b"))
	})

	t.Run("strip whitespace", func(t *testing.T) {
		s := New().Rule(FilterWhitespace, TransformStrip)
		assert.Equal(t, "abc", s.Sanitize("a b\tc"))
	})

	t.Run("first matching rule wins", func(t *testing.T) {
		s := New().
			Rule(FilterWhitespace, TransformStrip).
			Rule(FilterControl, TransformHexEncode)
		// Tab is both whitespace and control, the strip rule was added first
		assert.Equal(t, "ab<00>", s.Sanitize("a\tb\x00"))
	})

	t.Run("no rules is passthrough", func(t *testing.T) {
		s := New()
		assert.Equal(t, "a\tb", s.Sanitize("a\tb"))
	})

	t.Run("unknown policy adds nothing", func(t *testing.T) {
		s := New().Policy(PolicyPreset("nope"))
		assert.Equal(t, "a\tb", s.Sanitize("a\tb"))
	})
}

func TestAppendSanitized(t *testing.T) {
	s := New().Policy(PolicyField)
	dst := []byte("prefix:")
	dst = s.AppendSanitized(dst, "x\ty")
	assert.Equal(t, "prefix:x<09>y", string(dst))
}

func TestSerializer(t *testing.T) {
	se := NewSerializer(New().Policy(PolicyTxt))

	t.Run("bare token", func(t *testing.T) {
		var buf []byte
		se.WriteString(&buf, "token")
		assert.Equal(t, "token", string(buf))
	})

	t.Run("quotes on space and escapes", func(t *testing.T) {
		var buf []byte
		se.WriteString(&buf, `say "hi"`)
		assert.Equal(t, `"say \"hi\""`, string(buf))
	})

	t.Run("empty string quoted", func(t *testing.T) {
		var buf []byte
		se.WriteString(&buf, "")
		assert.Equal(t, `""`, string(buf))
	})

	t.Run("scalars", func(t *testing.T) {
		var buf []byte
		se.WriteNumber(&buf, "42")
		buf = append(buf, ' ')
		se.WriteBool(&buf, true)
		buf = append(buf, ' ')
		se.WriteNil(&buf)
		assert.Equal(t, "42 true nil", string(buf))
	})

	t.Run("complex value stays on one line", func(t *testing.T) {
		var buf []byte
		se.WriteComplex(&buf, map[string]int{"b": 2, "a": 1})
		out := string(buf)
		assert.NotContains(t, out, "\n")
		require.Contains(t, out, "a:1")
		require.Contains(t, out, "b:2")
		assert.Less(t, strings.Index(out, "a:1"), strings.Index(out, "b:2"))
	})
}

func TestNeedsQuotes(t *testing.T) {
	se := NewSerializer(New())
	for input, want := range map[string]bool{
		"plain":   false,
		"":        true,
		"a b":     true,
		"k=v":     true,
		"#tag":    true,
		"it's":    true,
		"-42.5":   false,
		"世界":      false,
		"tab\tin": true,
	} {
		assert.Equal(t, want, se.NeedsQuotes(input), "input %q", input)
	}
}
