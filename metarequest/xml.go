/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package metarequest

import (
	"bytes"
	"encoding/xml"
)

// topLevelTagValue returns the text content of the first child of body's
// root element named tag. It does not recurse into grandchildren: a tag
// of the same name nested deeper than the root's immediate children is
// never matched.
//
// UploadId extraction requires a top-level match against the document
// root's immediate children: the matching primitive stops at the first
// match at nesting depth 1 without recursing into deeper children, which
// is what this function implements.
func topLevelTagValue(body []byte, tag string) (string, bool) {
	dec := xml.NewDecoder(bytes.NewReader(body))

	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", false
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 && t.Name.Local == tag {
				var val string
				if e := dec.DecodeElement(&val, &t); e != nil {
					return "", false
				}
				return val, true
			}
		case xml.EndElement:
			depth--
		}
	}
}

// completedPartXML is the wire shape of one <Part> element inside a
// CompleteMultipartUpload request body.
type completedPartXML struct {
	PartNumber int32  `xml:"PartNumber"`
	ETag       string `xml:"ETag"`
}

// completeMultipartUploadXML is the request body for CompleteMultipartUpload,
// parts listed in ascending order.
type completeMultipartUploadXML struct {
	XMLName xml.Name           `xml:"CompleteMultipartUpload"`
	Part    []completedPartXML `xml:"Part"`
}
