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
	"log/slog"
	"os"

	"github.com/arver/wgtund/internal/config"
	"github.com/arver/wgtund/internal/device"
	"github.com/arver/wgtund/internal/log"
	"github.com/arver/wgtund/internal/privs"
)

// Waiter is the running tunnel device as the supervisor sees it: something
// that blocks until the device shuts down.
type Waiter interface {
	Wait()
}

// ConstructFunc builds the tunnel device from its name and configuration.
type ConstructFunc func(name string, cfg device.Config, logger *slog.Logger) (Waiter, error)

// Supervisor drives the tunnel daemon through startup: privilege drop,
// device construction, and the launcher handshake in background mode. It
// owns the startup settings and the device configuration derived from
// them.
type Supervisor struct {
	Logger   *slog.Logger
	Settings config.Settings
	Config   device.Config

	// Construct and DropPrivileges are replaceable seams for tests; they
	// default to the real device constructor and privilege drop.
	Construct      ConstructFunc
	DropPrivileges func() error
}

// NewSupervisor builds a supervisor for the given startup settings. The
// device configuration is derived here, once, and never changes.
func NewSupervisor(logger *slog.Logger, settings config.Settings) *Supervisor {
	return &Supervisor{
		Logger:   logger,
		Settings: settings,
		Config:   config.Translate(settings),
		Construct: func(name string, cfg device.Config, logger *slog.Logger) (Waiter, error) {
			return device.New(name, cfg, logger)
		},
		DropPrivileges: privs.Drop,
	}
}

// bringUp performs the startup sequence shared by foreground and daemon
// mode: privilege drop (unless disabled), then device construction. A
// failed privilege drop prevents device construction. Failures are logged
// here, once, with their diagnostic.
func (s *Supervisor) bringUp() (Waiter, error) {
	if !s.Settings.DisableDropPrivileges {
		if err := s.DropPrivileges(); err != nil {
			s.Logger.Error("failed to drop privileges", "error", err)
			return nil, err
		}
	}

	handle, err := s.Construct(s.Settings.InterfaceName, s.Config, s.Logger)
	if err != nil {
		s.Logger.Error("failed to construct tunnel device",
			"error", err, log.InterfaceKey, s.Settings.InterfaceName)
		return nil, err
	}
	return handle, nil
}

// RunForeground runs the device in the current process and blocks until it
// shuts down. There is no handshake: the process exit code is the outcome.
func (s *Supervisor) RunForeground() error {
	handle, err := s.bringUp()
	if err != nil {
		return err
	}

	s.Logger.Info("running in the foreground", log.InterfaceKey, s.Settings.InterfaceName)
	handle.Wait()
	return nil
}

// RunDaemon runs the spawned daemon branch: bring the device up, report
// the outcome to the waiting launcher, then serve until shutdown. Failure
// signals are best-effort; the daemon exits regardless, and its exit
// closes the channel, which the launcher reads as failure.
func (s *Supervisor) RunDaemon(ready *ChildEndpoint) error {
	handle, err := s.bringUp()
	if err != nil {
		if sigErr := ready.Signal(false); sigErr != nil {
			s.Logger.Error("failed to signal launcher", "error", sigErr)
		}
		return err
	}

	if err := ready.Signal(true); err != nil {
		s.Logger.Error("failed to signal launcher", "error", err)
	}
	s.Logger.Info("daemon running",
		log.InterfaceKey, s.Settings.InterfaceName, log.PIDKey, os.Getpid())

	handle.Wait()
	return nil
}

// Launch runs the launcher branch of a background start: spawn the daemon
// and block until it reports its startup outcome. logOutput is the
// already-open daemon log file the spawned process inherits as
// stdout/stderr. The launcher never touches privileges, configuration, or
// the device itself.
func (s *Supervisor) Launch(logOutput *os.File, launchID string) error {
	parent, child, err := NewReadinessChannel()
	if err != nil {
		s.Logger.Error("failed to create readiness channel", "error", err)
		return err
	}
	defer parent.Close()

	binary, err := os.Executable()
	if err != nil {
		child.Close()
		s.Logger.Error("failed to resolve executable path", "error", err)
		return err
	}

	pid, err := NewSpawner().SpawnDaemon(binary, os.Args[1:], logOutput, child.File(), launchID)
	// The launcher's copy closes either way: after this the daemon holds
	// the last reference, and its exit unblocks the wait below.
	child.Close()
	if err != nil {
		s.Logger.Error("failed to spawn daemon", "error", err)
		return err
	}

	if err := parent.Wait(); err != nil {
		s.Logger.Error("daemon failed to start", "error", err, log.PIDKey, pid)
		return err
	}

	s.Logger.Info("daemon started successfully", log.PIDKey, pid)
	return nil
}
