/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2022 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

package size

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var reSize = regexp.MustCompile(`^\+?(\d+(?:\.\d+)?)\s*([A-Za-z]{1,2})$`)

var unitSingle = map[byte]Size{
	'B': SizeUnit,
	'K': SizeKilo,
	'M': SizeMega,
	'G': SizeGiga,
	'T': SizeTera,
	'P': SizePeta,
}

var unitDouble = map[string]Size{
	"KB": SizeKilo,
	"MB": SizeMega,
	"GB": SizeGiga,
	"TB": SizeTera,
	"PB": SizePeta,
	"EB": SizeExa,
}

// Parse converts a free-form size string ("5MB", "1.5KB", "0B", ...) to a Size.
func Parse(s string) (Size, error) {
	s = strings.TrimSpace(s)
	s = unquote(s)
	s = strings.TrimSpace(s)

	if s == "" {
		return SizeNul, fmt.Errorf("size: invalid size: empty input")
	}

	if strings.HasPrefix(s, "-") {
		return SizeNul, fmt.Errorf("size: negative sizes are not supported: %q", s)
	}

	m := reSize.FindStringSubmatch(s)
	if m == nil {
		if _, err := strconv.ParseFloat(s, 64); err == nil {
			return SizeNul, fmt.Errorf("size: missing unit in %q", s)
		}
		return SizeNul, fmt.Errorf("size: invalid size %q", s)
	}

	unit := strings.ToUpper(m[2])

	var mul Size
	switch len(unit) {
	case 1:
		u, ok := unitSingle[unit[0]]
		if !ok {
			return SizeNul, fmt.Errorf("size: unknown unit %q", m[2])
		}
		mul = u
	case 2:
		u, ok := unitDouble[unit]
		if !ok {
			return SizeNul, fmt.Errorf("size: unknown unit %q", m[2])
		}
		mul = u
	default:
		return SizeNul, fmt.Errorf("size: unknown unit %q", m[2])
	}

	val, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return SizeNul, fmt.Errorf("size: invalid numeric value %q: %w", m[1], err)
	}

	total := val * float64(mul)
	if total > float64(math.MaxUint64) {
		return SizeNul, fmt.Errorf("size: value too large: %q", s)
	}

	return Size(uint64(total)), nil
}

// ParseByte behaves like Parse but accepts a byte slice.
func ParseByte(p []byte) (Size, error) {
	return Parse(string(p))
}

// ParseSize is a deprecated alias of Parse.
func ParseSize(s string) (Size, error) {
	return Parse(s)
}

// ParseByteAsSize is a deprecated alias of ParseByte.
func ParseByteAsSize(p []byte) (Size, error) {
	return ParseByte(p)
}

// GetSize is a deprecated helper returning a boolean instead of an error.
func GetSize(s string) (Size, bool) {
	v, err := Parse(s)
	if err != nil {
		return SizeNul, false
	}
	return v, true
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// ParseInt64 converts i to a Size, taking the absolute value of negative inputs.
func ParseInt64(i int64) Size {
	if i < 0 {
		return Size(uint64(-i))
	}
	return Size(uint64(i))
}

// SizeFromInt64 is an alias of ParseInt64.
func SizeFromInt64(i int64) Size {
	return ParseInt64(i)
}

// ParseUint64 converts i to a Size.
func ParseUint64(i uint64) Size {
	return Size(i)
}

// ParseFloat64 floors f, then takes the absolute value of the floored
// result, clamping to the representable range of Size.
func ParseFloat64(f float64) Size {
	f = math.Floor(f)
	if f < 0 {
		f = -f
	}

	if f >= float64(math.MaxUint64) {
		return Size(uint64(math.MaxUint64))
	}

	return Size(uint64(f))
}

// SizeFromFloat64 is an alias of ParseFloat64.
func SizeFromFloat64(f float64) Size {
	return ParseFloat64(f)
}
