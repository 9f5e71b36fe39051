// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pattern

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔤 token maps an operator-facing template token to its Go reference layout.
// Every token has the same width as the text it matches.
type token struct {
	template string
	layout   string
}

// longest tokens first so "yyyy" wins over "yy"
var tokens = []token{
	{"yyyy", "2006"},
	{"yy", "06"}, // pivot at 69: 00-68 are 20xx, 69-99 are 19xx
	{"MM", "01"},
	{"dd", "02"},
	{"HH", "15"},
	{"hh", "03"},
	{"mm", "04"},
	{"ss", "05"},
	{"tt", "PM"},
}

// 🔄 toLayout converts a template such as "yyyy-MM-dd_HH-mm-ss" into a Go
// time layout. Letters outside the known tokens and digits are rejected, the
// rest is copied as literal text.
func toLayout(template string) (string, error) {
	var b strings.Builder
	hasDate := false

	for i := 0; i < len(template); {
		c := template[i]

		switch {
		case isLetter(c):
			tok, ok := matchToken(template[i:])
			if !ok {
				return "", errors.Errorf("unsupported token at %q", template[i:])
			}
			if tok.template == "yyyy" || tok.template == "yy" || tok.template == "MM" || tok.template == "dd" {
				hasDate = true
			}
			b.WriteString(tok.layout)
			i += len(tok.template)
		case c >= '0' && c <= '9':
			return "", errors.Errorf("digit %q is not allowed as a literal", c)
		default:
			b.WriteByte(c)
			i++
		}
	}

	if !hasDate {
		return "", errors.Errorf("template %q has no date component", template)
	}

	return b.String(), nil
}

func matchToken(s string) (token, bool) {
	for _, tok := range tokens {
		if strings.HasPrefix(s, tok.template) {
			return tok, true
		}
	}
	return token{}, false
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
