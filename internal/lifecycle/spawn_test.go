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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// skipOnSpawnError skips the test when the environment forbids spawning
// processes (sandboxed test runners, locked-down containers).
func skipOnSpawnError(t *testing.T, err error) {
	t.Helper()
	if err != nil && strings.Contains(err.Error(), "operation not permitted") {
		t.Skipf("Skipping: spawn not permitted in this environment: %v", err)
	}
}

// spawnShell spawns /bin/sh as a stand-in daemon running script, wired to
// a fresh readiness channel, and returns the launcher endpoint.
func spawnShell(t *testing.T, script string, extraEnv ...string) *ParentEndpoint {
	t.Helper()

	parent, child, err := NewReadinessChannel()
	if err != nil {
		t.Fatalf("NewReadinessChannel() error = %v", err)
	}
	t.Cleanup(func() { parent.Close() })

	output, err := os.Create(filepath.Join(t.TempDir(), "daemon.out"))
	if err != nil {
		t.Fatalf("create output: %v", err)
	}
	defer output.Close()

	spawner := NewSpawner()
	spawner.Env = append(spawner.Env, extraEnv...)

	pid, err := spawner.SpawnDaemon("/bin/sh", []string{"-c", script}, output, child.File(), "test-launch")
	child.Close()
	skipOnSpawnError(t, err)
	if err != nil {
		t.Fatalf("SpawnDaemon() error = %v", err)
	}
	if pid <= 0 {
		t.Fatalf("SpawnDaemon() pid = %d", pid)
	}
	return parent
}

func TestSpawnDaemon_SuccessHandshake(t *testing.T) {
	// The shell stands in for the daemon: it writes the success byte on
	// the inherited descriptor, exactly what the daemon does after
	// bringing the device up.
	parent := spawnShell(t, `printf '\001' >&3`)

	if err := parent.Wait(); err != nil {
		t.Errorf("Wait() error = %v, want success handshake", err)
	}
}

func TestSpawnDaemon_FailureHandshake(t *testing.T) {
	parent := spawnShell(t, `printf '\000' >&3`)

	if err := parent.Wait(); !errors.Is(err, ErrDaemonFailed) {
		t.Errorf("Wait() error = %v, want ErrDaemonFailed", err)
	}
}

func TestSpawnDaemon_ExitWithoutSignal(t *testing.T) {
	parent := spawnShell(t, `exit 1`)

	if err := parent.Wait(); !errors.Is(err, ErrDaemonFailed) {
		t.Errorf("Wait() error = %v, want ErrDaemonFailed when the daemon dies silently", err)
	}
}

func TestSpawnDaemon_EnvironmentAndWorkingDirectory(t *testing.T) {
	reportPath := filepath.Join(t.TempDir(), "report")

	// The spawned process reports what the launcher promised it: the
	// readiness descriptor number, the launch ID, and the working
	// directory.
	parent := spawnShell(t,
		`printf '%s %s %s' "$WGTUND_READY_FD" "$WGTUND_LAUNCH_ID" "$PWD" > "$REPORT" && printf '\001' >&3`,
		"REPORT="+reportPath,
	)

	if err := parent.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	var report []byte
	for time.Now().Before(deadline) {
		var err error
		report, err = os.ReadFile(reportPath)
		if err == nil && len(report) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	fields := strings.Fields(string(report))
	if len(fields) != 3 {
		t.Fatalf("report = %q, want three fields", report)
	}
	if fields[0] != "3" {
		t.Errorf("readiness descriptor = %s, want 3", fields[0])
	}
	if fields[1] != "test-launch" {
		t.Errorf("launch ID = %s, want test-launch", fields[1])
	}
	if fields[2] != "/tmp" {
		t.Errorf("working directory = %s, want /tmp", fields[2])
	}
}
