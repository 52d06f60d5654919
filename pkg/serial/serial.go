// Package serial provides the serial connection to the printer.
package serial

import (
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"excluderegion-go/pkg/errors"
)

// Config holds serial port configuration.
type Config struct {
	// Device path (e.g., /dev/ttyUSB0, /dev/ttyACM0)
	Device string

	// Baud rate (default: 115200)
	BaudRate int

	// Read timeout for individual operations (default: 5 seconds)
	ReadTimeout time.Duration

	// RTS/DTR control on connect
	RTSOnConnect bool
	DTROnConnect bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		BaudRate:     115200,
		ReadTimeout:  5 * time.Second,
		RTSOnConnect: true,
		DTROnConnect: true,
	}
}

// Port is an open serial connection to the printer.
type Port struct {
	mu         sync.Mutex
	fd         int
	device     string
	config     Config
	closed     bool
	oldTermios *unix.Termios
}

// Open opens the printer port in raw 8N1 mode at the configured baud
// rate.
func Open(cfg Config) (*Port, error) {
	if cfg.Device == "" {
		return nil, errors.New(errors.ErrSerial, "device path required")
	}
	if cfg.BaudRate == 0 {
		cfg.BaudRate = 115200
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 5 * time.Second
	}

	fd, err := unix.Open(cfg.Device, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrSerial, "open "+cfg.Device)
	}

	oldTermios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		unix.Close(fd)
		return nil, errors.Wrap(err, errors.ErrSerial, "get termios")
	}

	termios := *oldTermios

	// Raw mode: no input or output processing, 8N1, no echo.
	termios.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON | unix.IXOFF | unix.IXANY
	termios.Oflag &^= unix.OPOST
	termios.Cflag &^= unix.CSIZE | unix.PARENB | unix.PARODD | unix.CSTOPB
	termios.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL
	termios.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN

	speed, customBaud, err := baudRateToSpeed(cfg.BaudRate)
	if err != nil {
		unix.Close(fd)
		return nil, err
	}
	setSpeed(&termios, speed)

	termios.Cc[unix.VMIN] = 0
	termios.Cc[unix.VTIME] = 1

	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &termios); err != nil {
		unix.Close(fd)
		return nil, errors.Wrap(err, errors.ErrSerial, "set termios")
	}

	// macOS needs IOSSIOSPEED for rates without a Bxxx constant.
	if customBaud > 0 && runtime.GOOS == "darwin" {
		if err := setCustomBaudRate(fd, customBaud); err != nil {
			unix.Close(fd)
			return nil, errors.Wrap(err, errors.ErrSerial, "set custom baud rate")
		}
	}

	if err := unix.SetNonblock(fd, false); err != nil {
		unix.Close(fd)
		return nil, errors.Wrap(err, errors.ErrSerial, "set blocking")
	}

	port := &Port{
		fd:         fd,
		device:     cfg.Device,
		config:     cfg,
		oldTermios: oldTermios,
	}

	if err := port.setModemControl(cfg.RTSOnConnect, cfg.DTROnConnect); err != nil {
		port.Close()
		return nil, errors.Wrap(err, errors.ErrSerial, "set modem control")
	}

	return port, nil
}

// Read reads up to len(buf) bytes, waiting at most the configured read
// timeout. A timeout returns (0, nil).
func (p *Port) Read(buf []byte) (int, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return 0, errors.New(errors.ErrSerial, "port closed")
	}
	fd := p.fd
	timeout := p.config.ReadTimeout
	p.mu.Unlock()

	pfd := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	n, err := unix.Poll(pfd, int(timeout.Milliseconds()))
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, errors.Wrap(err, errors.ErrSerial, "poll")
	}
	if n == 0 {
		return 0, nil
	}
	if pfd[0].Revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
		return 0, io.EOF
	}

	n, err = unix.Read(fd, buf)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrSerial, "read")
	}
	return n, nil
}

// Write writes buf to the port.
func (p *Port) Write(buf []byte) (int, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return 0, errors.New(errors.ErrSerial, "port closed")
	}
	fd := p.fd
	p.mu.Unlock()

	n, err := unix.Write(fd, buf)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrSerial, "write")
	}
	return n, nil
}

// WriteCommand writes one G-code command followed by a newline.
func (p *Port) WriteCommand(cmd string) error {
	_, err := p.Write([]byte(cmd + "\n"))
	return err
}

// Close closes the port, restoring the saved termios settings.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	if p.oldTermios != nil {
		_ = unix.IoctlSetTermios(p.fd, ioctlSetTermios, p.oldTermios)
	}
	return unix.Close(p.fd)
}

// Device returns the device path.
func (p *Port) Device() string {
	return p.device
}

// Flush discards any pending input and output.
func (p *Port) Flush() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return errors.New(errors.ErrSerial, "port closed")
	}
	fd := p.fd
	p.mu.Unlock()

	return unix.IoctlSetInt(fd, ioctlTCFlush, unix.TCIOFLUSH)
}

// SetDTR sets the DTR signal. Toggling DTR resets most printer boards.
func (p *Port) SetDTR(on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errors.New(errors.ErrSerial, "port closed")
	}

	status, err := unix.IoctlGetInt(p.fd, unix.TIOCMGET)
	if err != nil {
		return err
	}
	if on {
		status |= unix.TIOCM_DTR
	} else {
		status &^= unix.TIOCM_DTR
	}
	return unix.IoctlSetInt(p.fd, unix.TIOCMSET, status)
}

// setModemControl sets RTS and DTR together. Adapters without modem
// control lines report an ioctl error, which is ignored.
func (p *Port) setModemControl(rts, dtr bool) error {
	var status int32
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(p.fd), uintptr(unix.TIOCMGET), uintptr(unsafe.Pointer(&status)))
	if errno != 0 {
		return nil
	}

	if rts {
		status |= unix.TIOCM_RTS
	} else {
		status &^= unix.TIOCM_RTS
	}
	if dtr {
		status |= unix.TIOCM_DTR
	} else {
		status &^= unix.TIOCM_DTR
	}

	_, _, errno = unix.Syscall(unix.SYS_IOCTL, uintptr(p.fd), uintptr(unix.TIOCMSET), uintptr(unsafe.Pointer(&status)))
	if errno != 0 {
		return nil
	}
	return nil
}

// setCustomBaudRate sets an arbitrary baud rate on macOS via IOSSIOSPEED.
func setCustomBaudRate(fd int, baud int) error {
	const IOSSIOSPEED = 0x80045402
	return unix.IoctlSetPointerInt(fd, IOSSIOSPEED, baud)
}

// baudRateToSpeed converts a baud rate to a termios speed constant.
// customBaud > 0 means the rate must be applied via IOSSIOSPEED on
// macOS.
func baudRateToSpeed(baud int) (uint32, int, error) {
	speeds := map[int]uint32{
		9600:   unix.B9600,
		19200:  unix.B19200,
		38400:  unix.B38400,
		57600:  unix.B57600,
		115200: unix.B115200,
		230400: unix.B230400,
	}

	if runtime.GOOS == "linux" {
		// Marlin's common high rates need the Bxxx values above B230400.
		speeds[250000] = 0x1003  // B250000
		speeds[460800] = 0x1004  // B460800
		speeds[500000] = 0x1005  // B500000
		speeds[921600] = 0x1007  // B921600
		speeds[1000000] = 0x1008 // B1000000
	}

	if speed, ok := speeds[baud]; ok {
		return speed, 0, nil
	}
	if runtime.GOOS == "linux" {
		return 0x1000 | uint32(baud), 0, nil // BOTHER
	}
	if runtime.GOOS == "darwin" {
		return unix.B9600, baud, nil
	}
	return 0, 0, fmt.Errorf("serial: unsupported baud rate %d", baud)
}
