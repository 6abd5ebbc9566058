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

package cli

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/arver/wgtund/internal/config"
	"github.com/arver/wgtund/internal/lifecycle"
	"github.com/arver/wgtund/internal/log"
)

// run dispatches the resolved settings to one of the three process roles.
// The daemon role is recognized first: a readiness descriptor in the
// environment overrides everything, including -f, because the launcher
// re-executes this binary with the original arguments.
func run(settings config.Settings) error {
	ready, err := lifecycle.ChildEndpointFromEnv()
	if err != nil {
		return err
	}
	if ready != nil {
		return runDaemon(settings, ready)
	}
	if settings.Foreground {
		return runForeground(settings)
	}
	return runLauncher(settings)
}

// runDaemon is the spawned half of a background start. Its stdout and
// stderr already point at the log file the launcher opened, so logging to
// stderr lands in the right place.
func runDaemon(settings config.Settings, ready *lifecycle.ChildEndpoint) error {
	defer ready.Close()

	logger := log.New(&log.Config{
		Level:  settings.Verbosity,
		Format: log.FormatJSON,
	})
	logger = log.WithLaunchID(logger, os.Getenv(lifecycle.LaunchIDEnv))

	return lifecycle.NewSupervisor(logger, settings).RunDaemon(ready)
}

// runForeground runs the device in the invoking process, logging to the
// console. Text output on a terminal, JSON when redirected.
func runForeground(settings config.Settings) error {
	format := log.FormatJSON
	if term.IsTerminal(int(os.Stderr.Fd())) {
		format = log.FormatText
	}
	logger := log.New(&log.Config{
		Level:  settings.Verbosity,
		Format: format,
	})

	return lifecycle.NewSupervisor(logger, settings).RunForeground()
}

// runLauncher spawns the daemon and waits for its startup report. The log
// file is opened here, before the spawn, so both processes share the sink
// from the first line; the launch ID ties their entries together.
func runLauncher(settings config.Settings) error {
	logFile, err := log.OpenLogFile(settings.LogFile)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", settings.LogFile, err)
	}
	defer logFile.Close()

	launchID := uuid.NewString()
	logger := log.New(&log.Config{
		Level:  settings.Verbosity,
		Format: log.FormatJSON,
		Output: logFile,
	})
	logger = log.WithLaunchID(logger, launchID)

	return lifecycle.NewSupervisor(logger, settings).Launch(logFile, launchID)
}
