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
	"github.com/arver/wgtund/internal/device"
)

// Translate derives the device configuration from the startup settings.
// It is total and side-effect-free: descriptors are converted by sign
// alone, and malformed values surface later when the device rejects them.
func Translate(s Settings) device.Config {
	cfg := device.Config{
		NumThreads:         s.Threads,
		UseConnectedSocket: !s.DisableConnectedUDP,
		TunFD:              optionalFD(s.TunFD),
		// One raw descriptor serves both address families; a dual-stack
		// socket is the only way to pass an existing UDP socket in.
		UDP4FD: optionalFD(s.UDPFD),
		UDP6FD: optionalFD(s.UDPFD),
	}
	applyPlatform(s, &cfg)
	return cfg
}

// optionalFD converts the negative-sentinel descriptor encoding into an
// explicit optional value. Nothing downstream re-interprets sign bits.
func optionalFD(fd int) *int {
	if fd < 0 {
		return nil
	}
	v := fd
	return &v
}
