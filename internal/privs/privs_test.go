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

package privs

import (
	"os"
	"testing"

	"golang.org/x/sys/unix"
)

func TestCallerIDs_Sudo(t *testing.T) {
	t.Setenv("SUDO_UID", "1000")
	t.Setenv("SUDO_GID", "1000")

	uid, gid, err := callerIDs()
	if err != nil {
		t.Fatalf("callerIDs() error = %v", err)
	}
	if uid != 1000 || gid != 1000 {
		t.Errorf("callerIDs() = (%d, %d), want (1000, 1000)", uid, gid)
	}
}

func TestCallerIDs_InvalidSudo(t *testing.T) {
	t.Setenv("SUDO_UID", "not-a-number")
	t.Setenv("SUDO_GID", "1000")

	if _, _, err := callerIDs(); err == nil {
		t.Error("callerIDs() = nil error for unparsable SUDO_UID")
	}
}

func TestCallerIDs_Fallback(t *testing.T) {
	t.Setenv("SUDO_UID", "")
	t.Setenv("SUDO_GID", "")
	t.Setenv("LOGNAME", "")

	uid, gid, err := callerIDs()
	if err != nil {
		t.Fatalf("callerIDs() error = %v", err)
	}
	if uid != unix.Getuid() || gid != unix.Getgid() {
		t.Errorf("callerIDs() = (%d, %d), want real IDs (%d, %d)", uid, gid, unix.Getuid(), unix.Getgid())
	}
}

func TestDrop_NoElevation(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("skipping: running as root would genuinely drop privileges for the test process")
	}
	t.Setenv("SUDO_UID", "")
	t.Setenv("SUDO_GID", "")
	t.Setenv("LOGNAME", "")

	// Without elevation Drop resolves to the current identity and the
	// syscalls succeed as no-ops.
	if err := Drop(); err != nil {
		t.Fatalf("Drop() error = %v", err)
	}
}
