// Copyright 2026 The wgtund Authors
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

package device

import "strings"

// validUTunName reports whether name is acceptable to the Apple utun
// driver: the literal "utun" (kernel assigns the unit) or "utun" followed
// by a decimal unit number.
func validUTunName(name string) bool {
	if name == "utun" {
		return true
	}
	unit, ok := strings.CutPrefix(name, "utun")
	if !ok || unit == "" {
		return false
	}
	for _, r := range unit {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
