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

//go:build linux

package device

import (
	"os"

	"golang.zx2c4.com/wireguard/ipc"
)

// controlFile returns the socket file backing the configuration API,
// preferring a descriptor inherited from the launching process.
func controlFile(name string, cfg Config) (*os.File, error) {
	if cfg.UAPIFD != nil {
		return os.NewFile(uintptr(*cfg.UAPIFD), "uapi"), nil
	}
	return ipc.UAPIOpen(name)
}
