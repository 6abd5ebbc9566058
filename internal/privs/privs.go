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

// Package privs returns the process to the identity of the user who
// launched it, discarding the elevation a tunnel daemon only needs to
// create its network device.
package privs

import (
	"fmt"
	"os"
	"os/user"
	"strconv"

	"golang.org/x/sys/unix"
)

// Drop switches the process to the launching user's group and user IDs.
// Under sudo these come from SUDO_UID/SUDO_GID, falling back to a
// login-name lookup; outside sudo the IDs already match and the calls are
// no-ops. The group is dropped first, while doing so is still permitted.
func Drop() error {
	uid, gid, err := callerIDs()
	if err != nil {
		return err
	}
	if err := unix.Setgid(gid); err != nil {
		return fmt.Errorf("failed to drop group privileges: %w", err)
	}
	if err := unix.Setuid(uid); err != nil {
		return fmt.Errorf("failed to drop user privileges: %w", err)
	}
	return nil
}

// callerIDs resolves the user and group of whoever launched the process.
func callerIDs() (uid, gid int, err error) {
	uidStr, gidStr := os.Getenv("SUDO_UID"), os.Getenv("SUDO_GID")
	if uidStr != "" && gidStr != "" {
		uid, err = strconv.Atoi(uidStr)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid SUDO_UID %q", uidStr)
		}
		gid, err = strconv.Atoi(gidStr)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid SUDO_GID %q", gidStr)
		}
		return uid, gid, nil
	}

	if name := os.Getenv("LOGNAME"); name != "" {
		if u, lookupErr := user.Lookup(name); lookupErr == nil {
			uid, uidErr := strconv.Atoi(u.Uid)
			gid, gidErr := strconv.Atoi(u.Gid)
			if uidErr == nil && gidErr == nil {
				return uid, gid, nil
			}
		}
	}

	return unix.Getuid(), unix.Getgid(), nil
}
