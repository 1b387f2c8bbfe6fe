package crypto

import (
	"fmt"
	"strconv"
	"strings"
)

// BytesToDecimalList renders data as comma-separated decimal byte values,
// e.g. []byte{1, 2, 255} becomes "1,2,255". An empty slice renders as "".
func BytesToDecimalList(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(len(data) * 4)
	for i, v := range data {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(v)))
	}
	return b.String()
}

// DecimalListToBytes parses the output of BytesToDecimalList.
// Every element must be a decimal integer in 0..255 with no padding or sign.
func DecimalListToBytes(s string) ([]byte, error) {
	if s == "" {
		return []byte{}, nil
	}

	parts := strings.Split(s, ",")
	out := make([]byte, len(parts))
	for i, part := range parts {
		if part == "" || len(part) > 3 || strings.TrimLeft(part, "0123456789") != "" {
			return nil, fmt.Errorf("%w: element %d is %q", ErrInvalidEncoding, i, part)
		}
		v, err := strconv.ParseUint(part, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrInvalidEncoding, i, err)
		}
		out[i] = byte(v)
	}
	return out, nil
}
