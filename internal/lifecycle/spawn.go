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

package lifecycle

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// daemonFD is the descriptor number the readiness endpoint lands on in the
// daemon process: the first ExtraFiles entry, after stdin/stdout/stderr.
const daemonFD = 3

// Spawner handles detached daemon spawning for background mode.
type Spawner struct {
	// Env is the base environment for the daemon process.
	Env []string

	// Dir is the working directory of the daemon. It defaults to /tmp so
	// the daemon never pins the launcher's directory.
	Dir string
}

// NewSpawner creates a spawner inheriting the current environment.
func NewSpawner() *Spawner {
	return &Spawner{
		Env: os.Environ(),
		Dir: "/tmp",
	}
}

// SpawnDaemon re-executes binary with args as a detached daemon. The
// process:
//   - runs in its own session (Setsid), fully detached from the terminal
//   - has stdin closed and stdout/stderr redirected to output
//   - inherits the readiness endpoint at a fixed descriptor, announced
//     through ReadyFDEnv
//
// Returns the PID of the spawned process. The caller keeps its own copy
// of ready and must close it after the spawn.
func (s *Spawner) SpawnDaemon(binary string, args []string, output, ready *os.File, launchID string) (int, error) {
	cmd := exec.Command(binary, args...)
	cmd.Dir = s.Dir
	cmd.Env = append(append([]string{}, s.Env...),
		fmt.Sprintf("%s=%d", ReadyFDEnv, daemonFD),
		LaunchIDEnv+"="+launchID,
	)

	cmd.Stdin = nil
	cmd.Stdout = output
	cmd.Stderr = output
	cmd.ExtraFiles = []*os.File{ready}

	// Setsid alone: adding Setpgid on top fails with EPERM, since setsid
	// already made the process a session (and group) leader.
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start daemon process: %w", err)
	}

	pid := cmd.Process.Pid

	// Don't wait for it; the readiness channel carries the outcome.
	if err := cmd.Process.Release(); err != nil {
		return pid, fmt.Errorf("daemon started but failed to release: %w", err)
	}

	return pid, nil
}
