//go:build linux

package serial

import "golang.org/x/sys/unix"

// setSpeed stores the baud rate in the termios struct. Linux speed
// fields are 32-bit.
func setSpeed(termios *unix.Termios, speed uint32) {
	termios.Ispeed = speed
	termios.Ospeed = speed
}
