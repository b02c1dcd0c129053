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
	"reflect"
)

var sizeType = reflect.TypeOf(Size(0))

// ViperDecoderHook returns a mapstructure.DecodeHookFuncType usable with
// viper.Unmarshal to decode config fields into a Size.
func ViperDecoderHook() func(reflect.Type, reflect.Type, interface{}) (interface{}, error) {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != sizeType {
			return data, nil
		}

		switch f.Kind() {
		case reflect.String:
			v, ok := data.(string)
			if !ok {
				return data, nil
			}
			return Parse(v)

		case reflect.Slice:
			v, ok := data.([]byte)
			if !ok {
				return data, nil
			}
			return ParseByte(v)

		case reflect.Int:
			v, ok := data.(int)
			if !ok {
				return data, nil
			}
			return ParseInt64(int64(v)), nil
		case reflect.Int8:
			v, ok := data.(int8)
			if !ok {
				return data, nil
			}
			return ParseInt64(int64(v)), nil
		case reflect.Int16:
			v, ok := data.(int16)
			if !ok {
				return data, nil
			}
			return ParseInt64(int64(v)), nil
		case reflect.Int32:
			v, ok := data.(int32)
			if !ok {
				return data, nil
			}
			return ParseInt64(int64(v)), nil
		case reflect.Int64:
			v, ok := data.(int64)
			if !ok {
				return data, nil
			}
			return ParseInt64(v), nil

		case reflect.Uint:
			v, ok := data.(uint)
			if !ok {
				return data, nil
			}
			return ParseUint64(uint64(v)), nil
		case reflect.Uint8:
			v, ok := data.(uint8)
			if !ok {
				return data, nil
			}
			return ParseUint64(uint64(v)), nil
		case reflect.Uint16:
			v, ok := data.(uint16)
			if !ok {
				return data, nil
			}
			return ParseUint64(uint64(v)), nil
		case reflect.Uint32:
			v, ok := data.(uint32)
			if !ok {
				return data, nil
			}
			return ParseUint64(uint64(v)), nil
		case reflect.Uint64:
			v, ok := data.(uint64)
			if !ok {
				return data, nil
			}
			return ParseUint64(v), nil

		case reflect.Float32:
			v, ok := data.(float32)
			if !ok {
				return data, nil
			}
			return ParseFloat64(float64(v)), nil
		case reflect.Float64:
			v, ok := data.(float64)
			if !ok {
				return data, nil
			}
			return ParseFloat64(v), nil

		default:
			return data, nil
		}
	}
}
