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

//go:build unix

package device

import (
	"fmt"
	"log/slog"
	"net"
	"os"

	wgconn "golang.zx2c4.com/wireguard/conn"
	wgdevice "golang.zx2c4.com/wireguard/device"
	"golang.zx2c4.com/wireguard/ipc"
	"golang.zx2c4.com/wireguard/tun"
)

// Handle owns a running tunnel device: the engine, its TUN interface, and
// the configuration socket peers are managed through.
type Handle struct {
	dev  *wgdevice.Device
	uapi net.Listener
	errs chan error
}

// New constructs the tunnel device from its interface name and
// configuration. Supplied descriptors are adopted; missing ones are opened
// by name. A descriptor that is not usable for its purpose fails here with
// a diagnostic, never earlier.
func New(name string, cfg Config, logger *slog.Logger) (*Handle, error) {
	tdev, err := openTUN(name, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open TUN device: %w", err)
	}

	bind, err := newBind(cfg)
	if err != nil {
		tdev.Close()
		return nil, err
	}

	wglog := &wgdevice.Logger{
		Verbosef: func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		},
		Errorf: func(format string, args ...any) {
			logger.Error(fmt.Sprintf(format, args...))
		},
	}

	dev := wgdevice.NewDevice(tdev, bind, wglog)

	uapiFile, err := controlFile(name, cfg)
	if err != nil {
		dev.Close()
		return nil, fmt.Errorf("failed to open configuration socket: %w", err)
	}

	uapi, err := ipc.UAPIListen(name, uapiFile)
	if err != nil {
		dev.Close()
		return nil, fmt.Errorf("failed to listen on configuration socket: %w", err)
	}

	logger.Debug("tunnel device constructed",
		"threads", cfg.NumThreads,
		"connected_socket", cfg.UseConnectedSocket)

	h := &Handle{dev: dev, uapi: uapi, errs: make(chan error, 1)}
	go h.serveControl()
	return h, nil
}

// openTUN adopts the supplied TUN descriptor or creates a fresh interface.
func openTUN(name string, cfg Config) (tun.Device, error) {
	if cfg.TunFD != nil {
		f := os.NewFile(uintptr(*cfg.TunFD), "/dev/net/tun")
		return tun.CreateTUNFromFile(f, wgdevice.DefaultMTU)
	}
	return tun.CreateTUN(name, wgdevice.DefaultMTU)
}

// newBind selects the packet transport: inherited sockets when descriptors
// were supplied, the engine's own otherwise.
func newBind(cfg Config) (wgconn.Bind, error) {
	if cfg.UDP4FD == nil && cfg.UDP6FD == nil {
		return wgconn.NewDefaultBind(), nil
	}
	return newFileBind(cfg.UDP4FD, cfg.UDP6FD)
}

// serveControl accepts configuration clients until the listener closes.
func (h *Handle) serveControl() {
	for {
		conn, err := h.uapi.Accept()
		if err != nil {
			select {
			case h.errs <- err:
			default:
			}
			return
		}
		go h.dev.IpcHandle(conn)
	}
}

// Wait blocks until the device shuts down, either because the engine
// stopped or because the configuration listener failed, then releases the
// device's resources. Under normal operation it does not return.
func (h *Handle) Wait() {
	select {
	case <-h.dev.Wait():
	case <-h.errs:
	}
	h.uapi.Close()
	h.dev.Close()
}

// Close stops the device without waiting for it.
func (h *Handle) Close() {
	h.uapi.Close()
	h.dev.Close()
}
