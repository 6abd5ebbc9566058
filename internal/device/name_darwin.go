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

//go:build darwin

package device

import "fmt"

// CheckName validates the tunnel interface name. The utun driver names its
// devices; anything else cannot be created.
func CheckName(name string) error {
	if !validUTunName(name) {
		return fmt.Errorf("tunnel name must be utunN; use %q for automatic assignment", "utun")
	}
	return nil
}
