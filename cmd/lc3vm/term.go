// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// termGuard is the scoped terminal-raw-mode guard §4.7/§9 call for:
// whichever exit path fires (normal HALT, illegal opcode, or SIGINT)
// calls Restore exactly once, and Restore after the first call is a
// no-op so both the deferred caller and the signal handler can invoke
// it safely.
type termGuard struct {
	saved unix.Termios
	once  sync.Once
}

// enterRawTerm saves the current terminal attributes and installs a
// copy with canonical input buffering and local echo disabled, so
// TRAP GETC/IN can read unechoed characters straight off stdin.
//
// VMIN/VTIME are deliberately left as the terminal already has them.
// Forcing VMIN=0 (as a naive port of a guest-polls-KBSR design would)
// would make *every* read on this fd return immediately, including
// the blocking GETC/IN reads in internal/machine/trap.go — those need
// a real blocking read, since this machine implements GETC/IN as
// native host reads rather than guest code spinning on KBSR. The
// non-blocking KBSR poll instead goes through keyReady's select(2)
// call below, which asks without consuming.
func enterRawTerm() *termGuard {
	fd := int(os.Stdin.Fd())

	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		panic(err)
	}

	g := &termGuard{saved: *termios}

	raw := *termios
	raw.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR
	raw.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	raw.Cflag &^= unix.CSIZE | unix.PARENB
	raw.Cflag |= unix.CS8

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, &raw); err != nil {
		panic(err)
	}

	return g
}

// Restore puts the terminal back the way enterRawTerm found it.
func (g *termGuard) Restore() {
	g.once.Do(func() {
		saved := g.saved
		_ = unix.IoctlSetTermios(int(os.Stdin.Fd()), unix.TCSETS, &saved)
	})
}

// keyReady reports whether a byte is waiting on stdin without
// consuming it and without blocking, via a zero-timeout select(2).
// This is machine.DeviceHandler's KeyReady hook: it is what lets KBSR
// polling stay non-blocking while stdin itself stays in blocking mode
// for GETC/IN.
func keyReady() bool {
	fd := int(os.Stdin.Fd())

	var readfds unix.FdSet
	readfds.Set(fd)

	timeout := unix.Timeval{Sec: 0, Usec: 0}

	n, err := unix.Select(fd+1, &readfds, nil, nil, &timeout)
	if err != nil {
		return false
	}

	return n != 0
}
