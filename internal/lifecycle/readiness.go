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
	"fmt"
	"net"
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

const (
	// ReadyFDEnv names the inherited descriptor carrying the readiness
	// endpoint in the spawned daemon process. Its presence is what marks a
	// process as the daemon half of a background launch.
	ReadyFDEnv = "WGTUND_READY_FD"

	// LaunchIDEnv carries the launcher's correlation ID into the daemon.
	LaunchIDEnv = "WGTUND_LAUNCH_ID"
)

// ErrDaemonFailed is returned when the daemon reports a failed startup or
// dies before reporting anything.
var ErrDaemonFailed = errors.New("daemon failed to start")

const (
	readyByteOK     = 1
	readyByteFailed = 0
)

// ParentEndpoint is the launcher-held end of the readiness channel.
type ParentEndpoint struct {
	conn net.Conn
}

// ChildEndpoint is the daemon-held end of the readiness channel.
type ChildEndpoint struct {
	file *os.File
}

// NewReadinessChannel creates the connected datagram pair used for the
// one-shot startup handshake. The parent end is switched to non-blocking
// so the runtime poller can serve its single read; the child end stays a
// plain file so it can be inherited across exec.
func NewReadinessChannel() (*ParentEndpoint, *ChildEndpoint, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create readiness socketpair: %w", err)
	}

	parentFile := os.NewFile(uintptr(fds[0]), "readiness|parent")
	conn, err := net.FileConn(parentFile)
	parentFile.Close() // FileConn duplicated the descriptor
	if err != nil {
		unix.Close(fds[1])
		return nil, nil, fmt.Errorf("failed to wrap readiness socket: %w", err)
	}

	child := os.NewFile(uintptr(fds[1]), "readiness|child")
	return &ParentEndpoint{conn: conn}, &ChildEndpoint{file: child}, nil
}

// Wait blocks until the daemon reports its startup outcome. It returns nil
// only when the daemon sent the success byte; a failure byte, an empty
// datagram, or a closed peer all map to ErrDaemonFailed. No timeout
// applies: the daemon either reports once or exits, and its exit closes
// the peer end, which unblocks the read.
func (p *ParentEndpoint) Wait() error {
	buf := make([]byte, 1)
	n, err := p.conn.Read(buf)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDaemonFailed, err)
	}
	if n != 1 || buf[0] != readyByteOK {
		return ErrDaemonFailed
	}
	return nil
}

// Close releases the launcher end of the channel.
func (p *ParentEndpoint) Close() error {
	return p.conn.Close()
}

// Signal reports the startup outcome to the waiting launcher. At most one
// byte ever crosses the channel; callers signal once.
func (c *ChildEndpoint) Signal(ok bool) error {
	b := byte(readyByteFailed)
	if ok {
		b = readyByteOK
	}
	if _, err := c.file.Write([]byte{b}); err != nil {
		return fmt.Errorf("failed to signal launcher: %w", err)
	}
	return nil
}

// File exposes the endpoint for descriptor inheritance when spawning.
func (c *ChildEndpoint) File() *os.File {
	return c.file
}

// Close releases the daemon end of the channel. In the launcher this drops
// its copy of the inherited descriptor so that the daemon's exit is the
// last close.
func (c *ChildEndpoint) Close() error {
	return c.file.Close()
}

// ChildEndpointFromEnv recovers the daemon-held endpoint from the
// descriptor number announced by the launcher. It returns (nil, nil) when
// the process was not spawned as a daemon.
func ChildEndpointFromEnv() (*ChildEndpoint, error) {
	raw := os.Getenv(ReadyFDEnv)
	if raw == "" {
		return nil, nil
	}
	fd, err := strconv.Atoi(raw)
	if err != nil || fd < 0 {
		return nil, fmt.Errorf("invalid readiness descriptor %q in %s", raw, ReadyFDEnv)
	}
	return &ChildEndpoint{file: os.NewFile(uintptr(fd), "readiness|child")}, nil
}
