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
)

// unitPrefix returns the divisor and magnitude prefix ("", "K", "M", ...)
// matching the largest unit not exceeding s.
func unitPrefix(s Size) (Size, string) {
	switch {
	case s >= SizeExa:
		return SizeExa, "E"
	case s >= SizePeta:
		return SizePeta, "P"
	case s >= SizeTera:
		return SizeTera, "T"
	case s >= SizeGiga:
		return SizeGiga, "G"
	case s >= SizeMega:
		return SizeMega, "M"
	case s >= SizeKilo:
		return SizeKilo, "K"
	default:
		return SizeUnit, ""
	}
}

// Unit returns the magnitude suffix for s ("B", "KB", "MB", ...). A non-zero
// rune replaces the trailing unit letter (e.g. Unit('i') on a kilobyte value
// returns "Ki").
func (s Size) Unit(r rune) string {
	_, prefix := unitPrefix(s)

	if prefix == "" {
		return "B"
	}

	if r == 0 {
		r = defaultUnit
	}

	return prefix + string(r)
}

// Code is an alias of Unit, kept for API compatibility with callers that
// configured a package-wide default unit via SetDefaultUnit.
func (s Size) Code(r rune) string {
	return s.Unit(r)
}

// Format renders s, scaled to its natural unit, using fmtVerb (e.g. FormatRound2).
func (s Size) Format(fmtVerb string) string {
	divisor, _ := unitPrefix(s)
	return fmt.Sprintf(fmtVerb, float64(s)/float64(divisor))
}

// String renders s with two decimals and its natural unit suffix.
func (s Size) String() string {
	return s.Format(FormatRound2) + s.Unit(0)
}

func (s Size) KiloBytes() uint64 { return uint64(s) / uint64(SizeKilo) }
func (s Size) MegaBytes() uint64 { return uint64(s) / uint64(SizeMega) }
func (s Size) GigaBytes() uint64 { return uint64(s) / uint64(SizeGiga) }
func (s Size) TeraBytes() uint64 { return uint64(s) / uint64(SizeTera) }
func (s Size) PetaBytes() uint64 { return uint64(s) / uint64(SizePeta) }
func (s Size) ExaBytes() uint64  { return uint64(s) / uint64(SizeExa) }

func (s Size) Uint64() uint64 { return uint64(s) }

func (s Size) Uint32() uint32 {
	if uint64(s) > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(s)
}

func (s Size) Uint() uint {
	if uint64(s) > uint64(math.MaxUint) {
		return math.MaxUint
	}
	return uint(s)
}

func (s Size) Int64() int64 {
	if uint64(s) > uint64(math.MaxInt64) {
		return math.MaxInt64
	}
	return int64(s)
}

func (s Size) Int32() int32 {
	if uint64(s) > uint64(math.MaxInt32) {
		return math.MaxInt32
	}
	return int32(s)
}

func (s Size) Int() int {
	if uint64(s) > uint64(math.MaxInt) {
		return math.MaxInt
	}
	return int(s)
}

func (s Size) Float64() float64 {
	return float64(s)
}

func (s Size) Float32() float32 {
	return float32(s)
}
