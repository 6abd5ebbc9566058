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
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"sync"

	wgconn "golang.zx2c4.com/wireguard/conn"
)

// fileBind is a conn.Bind over UDP sockets inherited from the launching
// process. The engine's stock bind opens its own sockets; this one adopts
// already-bound descriptors so an init system can hold the port. Adopted
// sockets cannot be reopened: bringing the device down discards them for
// good.
type fileBind struct {
	mu    sync.Mutex
	conns []*net.UDPConn
	open  bool
}

// newFileBind adopts the supplied descriptors, v4 first. The same
// descriptor given for both families is adopted once and serves both.
func newFileBind(fd4, fd6 *int) (wgconn.Bind, error) {
	fds := make([]int, 0, 2)
	if fd4 != nil {
		fds = append(fds, *fd4)
	}
	if fd6 != nil && (fd4 == nil || *fd6 != *fd4) {
		fds = append(fds, *fd6)
	}

	b := &fileBind{}
	for _, fd := range fds {
		f := os.NewFile(uintptr(fd), fmt.Sprintf("udp fd %d", fd))
		pc, err := net.FilePacketConn(f)
		f.Close() // FilePacketConn duplicated the descriptor
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to adopt UDP socket %d: %w", fd, err)
		}
		uc, ok := pc.(*net.UDPConn)
		if !ok {
			pc.Close()
			b.Close()
			return nil, fmt.Errorf("descriptor %d is not a UDP socket", fd)
		}
		b.conns = append(b.conns, uc)
	}
	if len(b.conns) == 0 {
		return nil, errors.New("no UDP sockets supplied")
	}
	return b, nil
}

// Open registers one receive path per adopted socket. The requested port
// is ignored: inherited sockets are already bound.
func (b *fileBind) Open(_ uint16) ([]wgconn.ReceiveFunc, uint16, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.open {
		return nil, 0, errors.New("bind is already open")
	}
	if len(b.conns) == 0 {
		return nil, 0, errors.New("adopted sockets are closed and cannot be reopened")
	}
	b.open = true

	var port uint16
	fns := make([]wgconn.ReceiveFunc, 0, len(b.conns))
	for _, c := range b.conns {
		if addr, ok := c.LocalAddr().(*net.UDPAddr); ok {
			port = uint16(addr.Port)
		}
		fns = append(fns, receiveFrom(c))
	}
	return fns, port, nil
}

func receiveFrom(c *net.UDPConn) wgconn.ReceiveFunc {
	return func(packets [][]byte, sizes []int, eps []wgconn.Endpoint) (int, error) {
		n, addr, err := c.ReadFromUDPAddrPort(packets[0])
		if err != nil {
			return 0, err
		}
		sizes[0] = n
		eps[0] = &wgconn.StdNetEndpoint{AddrPort: addr}
		return 1, nil
	}
}

func (b *fileBind) Send(bufs [][]byte, ep wgconn.Endpoint) error {
	end, ok := ep.(*wgconn.StdNetEndpoint)
	if !ok {
		return wgconn.ErrWrongEndpointType
	}

	c := b.connFor(end.AddrPort.Addr())
	if c == nil {
		return net.ErrClosed
	}
	for _, buf := range bufs {
		if _, err := c.WriteToUDPAddrPort(buf, end.AddrPort); err != nil {
			return err
		}
	}
	return nil
}

// connFor picks the socket serving the destination's address family. A
// single adopted socket is assumed dual-stack and serves everything.
func (b *fileBind) connFor(addr netip.Addr) *net.UDPConn {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case len(b.conns) == 0:
		return nil
	case len(b.conns) == 1:
		return b.conns[0]
	case addr.Is4() || addr.Is4In6():
		return b.conns[0]
	default:
		return b.conns[1]
	}
}

// SetMark is a no-op: inherited sockets keep whatever mark the launching
// process configured on them.
func (b *fileBind) SetMark(uint32) error { return nil }

func (b *fileBind) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	var firstErr error
	for _, c := range b.conns {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	b.conns = nil
	b.open = false
	return firstErr
}

// BatchSize is 1: adopted sockets use plain per-packet reads and writes.
func (b *fileBind) BatchSize() int { return 1 }

func (b *fileBind) ParseEndpoint(s string) (wgconn.Endpoint, error) {
	ap, err := netip.ParseAddrPort(s)
	if err != nil {
		return nil, err
	}
	return &wgconn.StdNetEndpoint{AddrPort: ap}, nil
}
