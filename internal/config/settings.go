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

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Flag names shared between the CLI definition and the resolver.
const (
	FlagForeground            = "foreground"
	FlagThreads               = "threads"
	FlagVerbosity             = "verbosity"
	FlagUAPIFD                = "uapi-fd"
	FlagTunFD                 = "tun-fd"
	FlagUDPFD                 = "udp-fd"
	FlagLogFile               = "log-file"
	FlagDisableDropPrivileges = "disable-drop-privileges"
	FlagDisableConnectedUDP   = "disable-connected-udp"
	FlagDisableMultiQueue     = "disable-multi-queue"
)

// Environment variables honored when the corresponding flag is not given
// explicitly. The names are shared with other userspace WireGuard daemons
// so existing service units keep working.
const (
	EnvThreads               = "WG_THREADS"
	EnvVerbosity             = "WG_LOG_LEVEL"
	EnvUAPIFD                = "WG_UAPI_FD"
	EnvTunFD                 = "WG_TUN_FD"
	EnvUDPFD                 = "WG_SOCKET_FD"
	EnvLogFile               = "WG_LOG_FILE"
	EnvDisableDropPrivileges = "WG_SUDO"
)

// UnsetFD is the sentinel descriptor value meaning "not supplied". Any
// negative value counts as unset; this is the canonical default.
const UnsetFD = -1

// Settings is the immutable snapshot of startup inputs, assembled once from
// flags, environment, and the optional settings file, and read-only after
// that.
type Settings struct {
	// InterfaceName is the name of the tunnel interface to create.
	InterfaceName string

	// Foreground runs the daemon in the current process, logging to the
	// console instead of the log file.
	Foreground bool

	// Threads is the number of OS threads the tunnel engine may use.
	Threads int

	// Verbosity is the minimum log level (error, info, debug, trace).
	Verbosity string

	// UAPIFD, TunFD and UDPFD are raw descriptors inherited from the
	// launching process; negative means the daemon opens its own.
	UAPIFD int
	TunFD  int
	UDPFD  int

	// LogFile receives all output in background mode.
	LogFile string

	// DisableDropPrivileges keeps root privileges after device creation.
	DisableDropPrivileges bool

	// DisableConnectedUDP disables connected UDP sockets to each peer.
	DisableConnectedUDP bool

	// DisableMultiQueue disables multi-queue TUN on Linux. Ignored
	// elsewhere.
	DisableMultiQueue bool
}

// Defaults returns the settings used when neither flags, environment, nor
// the settings file override them.
func Defaults() Settings {
	return Settings{
		Threads:   4,
		Verbosity: "error",
		UAPIFD:    UnsetFD,
		TunFD:     UnsetFD,
		UDPFD:     UnsetFD,
		LogFile:   "/tmp/wgtund.out",
	}
}

// File is the optional YAML settings file. Pointer fields distinguish "not
// present" from a zero value so the file only overrides what it names.
type File struct {
	Threads               *int    `yaml:"threads"`
	Verbosity             *string `yaml:"verbosity"`
	LogFile               *string `yaml:"log_file"`
	DisableDropPrivileges *bool   `yaml:"disable_drop_privileges"`
	DisableConnectedUDP   *bool   `yaml:"disable_connected_udp"`
	DisableMultiQueue     *bool   `yaml:"disable_multi_queue"`
}

// LoadFile reads a YAML settings file. A nil File with a nil error means
// the file does not exist, which is fine for the default location.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return &f, nil
}

// Resolve applies the configuration precedence to s: an explicit flag wins,
// then the environment, then the settings file, then the built-in default
// already present in s. flagSet reports whether the named flag was given on
// the command line; getenv is os.Getenv in production.
func Resolve(s *Settings, file *File, flagSet func(name string) bool, getenv func(key string) string) error {
	if err := applyEnv(s, flagSet, getenv); err != nil {
		return err
	}
	applyFile(s, file, flagSet, getenv)
	return nil
}

func applyEnv(s *Settings, flagSet func(string) bool, getenv func(string) string) error {
	intVars := []struct {
		flag string
		env  string
		dst  *int
	}{
		{FlagThreads, EnvThreads, &s.Threads},
		{FlagUAPIFD, EnvUAPIFD, &s.UAPIFD},
		{FlagTunFD, EnvTunFD, &s.TunFD},
		{FlagUDPFD, EnvUDPFD, &s.UDPFD},
	}
	for _, v := range intVars {
		if flagSet(v.flag) {
			continue
		}
		raw := getenv(v.env)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", v.env, raw, err)
		}
		*v.dst = n
	}

	if !flagSet(FlagVerbosity) {
		if raw := getenv(EnvVerbosity); raw != "" {
			s.Verbosity = raw
		}
	}
	if !flagSet(FlagLogFile) {
		if raw := getenv(EnvLogFile); raw != "" {
			s.LogFile = raw
		}
	}
	if !flagSet(FlagDisableDropPrivileges) {
		if raw := getenv(EnvDisableDropPrivileges); raw != "" {
			s.DisableDropPrivileges = envBool(raw)
		}
	}
	return nil
}

// envBool interprets an environment toggle. Values strconv understands are
// parsed; any other non-empty value counts as enabled.
func envBool(raw string) bool {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw != ""
}

func applyFile(s *Settings, f *File, flagSet func(string) bool, getenv func(string) string) {
	if f == nil {
		return
	}

	if f.Threads != nil && !flagSet(FlagThreads) && getenv(EnvThreads) == "" {
		s.Threads = *f.Threads
	}
	if f.Verbosity != nil && !flagSet(FlagVerbosity) && getenv(EnvVerbosity) == "" {
		s.Verbosity = *f.Verbosity
	}
	if f.LogFile != nil && !flagSet(FlagLogFile) && getenv(EnvLogFile) == "" {
		s.LogFile = *f.LogFile
	}
	if f.DisableDropPrivileges != nil && !flagSet(FlagDisableDropPrivileges) && getenv(EnvDisableDropPrivileges) == "" {
		s.DisableDropPrivileges = *f.DisableDropPrivileges
	}
	if f.DisableConnectedUDP != nil && !flagSet(FlagDisableConnectedUDP) {
		s.DisableConnectedUDP = *f.DisableConnectedUDP
	}
	if f.DisableMultiQueue != nil && !flagSet(FlagDisableMultiQueue) {
		s.DisableMultiQueue = *f.DisableMultiQueue
	}
}
