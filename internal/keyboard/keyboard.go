// Copyright 2025 UMH Systems GmbH
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

// Package keyboard turns stdin into a non-blocking command source for the
// control loop. On a terminal it switches stdin to raw mode so single
// keystrokes arrive without a newline; piped input works as well.
package keyboard

import (
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Reader reads single bytes from stdin on a background goroutine and hands
// them out through a non-blocking Poll. Bytes arriving while the buffer is
// full are discarded.
type Reader struct {
	events   chan byte
	fd       int
	oldState *term.State
}

// NewReader creates a reader and starts consuming stdin. When stdin is a
// terminal it is put into raw mode; call Restore before the process exits.
func NewReader() (*Reader, error) {
	r := &Reader{
		events: make(chan byte, 16),
		fd:     int(os.Stdin.Fd()),
	}

	if term.IsTerminal(r.fd) {
		oldState, err := term.MakeRaw(r.fd)
		if err != nil {
			return nil, err
		}

		r.oldState = oldState

		// MakeRaw clears ISIG as well; Ctrl+C must keep raising SIGINT
		// rather than arrive as a command byte.
		if termios, err := unix.IoctlGetTermios(r.fd, unix.TCGETS); err == nil {
			termios.Lflag |= unix.ISIG
			_ = unix.IoctlSetTermios(r.fd, unix.TCSETS, termios)
		}
	}

	go r.readLoop()

	return r, nil
}

// Poll returns the next pending keystroke and true, or false when none is
// pending. It never blocks.
func (r *Reader) Poll() (byte, bool) {
	select {
	case b := <-r.events:
		return b, true
	default:
		return 0, false
	}
}

// Restore puts the terminal back into its previous mode. It is a no-op when
// stdin was not a terminal.
func (r *Reader) Restore() {
	if r.oldState != nil {
		_ = term.Restore(r.fd, r.oldState)
	}
}

func (r *Reader) readLoop() {
	buf := make([]byte, 1)

	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return
		}

		if n == 0 {
			continue
		}

		select {
		case r.events <- buf[0]:
		default:
			// Buffer full, keystroke dropped.
		}
	}
}
