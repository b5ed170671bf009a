// Package formatter encodes beacon records and diagnostic lines.
package formatter

import (
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/lixenwraith/beacon/sanitizer"
)

// FieldSeparator separates the columns of a record line
const FieldSeparator = '\t'

// Formatter manages the buffered writing and formatting of lines.
// The returned slices alias an internal buffer valid until the next call, a Formatter is not safe for concurrent use.
type Formatter struct {
	fieldSanitizer  *sanitizer.Sanitizer
	textSanitizer   *sanitizer.Sanitizer
	timestampFormat string
	buf             []byte
}

// New creates a formatter, an optional sanitizer replaces the default record field policy
func New(s ...*sanitizer.Sanitizer) *Formatter {
	var san *sanitizer.Sanitizer
	if len(s) > 0 && s[0] != nil {
		san = s[0]
	} else {
		san = sanitizer.New().Policy(sanitizer.PolicyField)
	}
	return &Formatter{
		fieldSanitizer:  san,
		textSanitizer:   sanitizer.New().Policy(sanitizer.PolicyTxt),
		timestampFormat: time.RFC3339Nano,
		buf:             make([]byte, 0, 256),
	}
}

// TimestampFormat sets the timestamp format string
func (f *Formatter) TimestampFormat(format string) *Formatter {
	if format != "" {
		f.timestampFormat = format
	}
	return f
}

// Record formats one record line: timestamp and fields separated by tabs, newline terminated.
// Field content never contains a separator or a line break after sanitizing.
func (f *Formatter) Record(timestamp time.Time, fields ...string) []byte {
	f.Reset()
	f.buf = timestamp.AppendFormat(f.buf, f.timestampFormat)
	for _, field := range fields {
		f.buf = append(f.buf, FieldSeparator)
		f.buf = f.fieldSanitizer.AppendSanitized(f.buf, field)
	}
	f.buf = append(f.buf, '\n')
	return f.buf
}

// Diagnostic formats a txt line: timestamp, level, channel name and space separated args
func (f *Formatter) Diagnostic(timestamp time.Time, level int64, name string, args []any) []byte {
	f.Reset()
	serializer := sanitizer.NewSerializer(f.textSanitizer)

	f.buf = timestamp.AppendFormat(f.buf, f.timestampFormat)
	f.buf = append(f.buf, ' ')
	f.buf = append(f.buf, LevelToString(level)...)
	if name != "" {
		f.buf = append(f.buf, ' ', '[')
		f.buf = f.textSanitizer.AppendSanitized(f.buf, name)
		f.buf = append(f.buf, ']')
	}

	for _, arg := range args {
		f.convertValue(&f.buf, arg, serializer, true)
	}

	f.buf = append(f.buf, '\n')
	return f.buf
}

// Reset clears the formatter buffer for reuse
func (f *Formatter) Reset() {
	f.buf = f.buf[:0]
}

// LevelToString converts integer level values to string
func LevelToString(level int64) string {
	switch level {
	case -4:
		return "DEBUG"
	case 0:
		return "INFO"
	case 4:
		return "WARN"
	case 8:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", level)
	}
}

// convertValue provides unified type conversion
func (f *Formatter) convertValue(buf *[]byte, v any, serializer *sanitizer.Serializer, needsSpace bool) {
	if needsSpace && len(*buf) > 0 {
		*buf = append(*buf, ' ')
	}

	switch val := v.(type) {
	case string:
		serializer.WriteString(buf, val)

	case []byte:
		serializer.WriteString(buf, string(val))

	case rune:
		var runeStr [utf8.UTFMax]byte
		n := utf8.EncodeRune(runeStr[:], val)
		serializer.WriteString(buf, string(runeStr[:n]))

	case int:
		serializer.WriteNumber(buf, strconv.Itoa(val))

	case int64:
		serializer.WriteNumber(buf, strconv.FormatInt(val, 10))

	case uint:
		serializer.WriteNumber(buf, strconv.FormatUint(uint64(val), 10))

	case uint64:
		serializer.WriteNumber(buf, strconv.FormatUint(val, 10))

	case float32:
		serializer.WriteNumber(buf, strconv.FormatFloat(float64(val), 'f', -1, 32))

	case float64:
		serializer.WriteNumber(buf, strconv.FormatFloat(val, 'f', -1, 64))

	case bool:
		serializer.WriteBool(buf, val)

	case nil:
		serializer.WriteNil(buf)

	case time.Time:
		serializer.WriteString(buf, val.Format(f.timestampFormat))

	case time.Duration:
		serializer.WriteString(buf, val.String())

	case error:
		serializer.WriteString(buf, val.Error())

	case fmt.Stringer:
		serializer.WriteString(buf, val.String())

	default:
		serializer.WriteComplex(buf, val)
	}
}
