// Copyright 2025 Finsight Labs
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


package openai

import "strings"

// repairJSON fixes the one malformed shape the analyst models actually
// produce: an object key that lost its opening quote.
// Example: `{"company_name": "TCS", kind": "DIRECT"}` gets the quote back
// before `kind`. Valid JSON passes through unchanged.
func repairJSON(s string) string {
	runes := []rune(s)
	var out strings.Builder
	out.Grow(len(s) + 8)

	i := 0
	for i < len(runes) {
		ch := runes[i]
		out.WriteRune(ch)
		i++

		// Only the position after an object opener or separator can
		// start a key
		if ch != '{' && ch != ',' {
			continue
		}

		for i < len(runes) && isJSONSpace(runes[i]) {
			out.WriteRune(runes[i])
			i++
		}

		start := i
		for i < len(runes) && isKeyRune(runes[i]) {
			i++
		}
		word := string(runes[start:i])

		// A bare word running into `":` is a key missing its opening
		// quote; anything else is copied untouched
		if word != "" && i+1 < len(runes) && runes[i] == '"' && runes[i+1] == ':' {
			out.WriteRune('"')
			out.WriteString(strings.TrimRight(word, " "))
		} else {
			out.WriteString(word)
		}
	}

	return out.String()
}

func isJSONSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isKeyRune(r rune) bool {
	return isLetter(r) || r == '_' || r == ' '
}
