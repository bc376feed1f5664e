// Package retarget provides the minimal C runtime style I/O calls of a bare-metal
// program. Only standard output goes anywhere: it is forwarded to the console
// writer chosen at construction, every other descriptor is rejected with EBADF.
package retarget

import (
	"fmt"
	"io"

	"golang.org/x/sys/unix"
)

const (
	STDIN_FILENO  = 0
	STDOUT_FILENO = 1
	STDERR_FILENO = 2
)

type Stubs struct {
	stdout io.Writer
}

// NewStubs binds standard output to stdout. A nil stdout rejects every write.
func NewStubs(stdout io.Writer) *Stubs {
	return &Stubs{stdout: stdout}
}

// Write forwards p to the console when fd is standard output.
func (obj *Stubs) Write(fd int, p []byte) (int, error) {
	if fd != STDOUT_FILENO || obj.stdout == nil {
		return -1, unix.EBADF
	}
	n, err := obj.stdout.Write(p)
	if err != nil {
		return n, fmt.Errorf("failed to write to console: %w", err)
	}
	return n, nil
}

// Read always fails, there is no input stream.
func (obj *Stubs) Read(fd int, p []byte) (int, error) {
	return -1, unix.EBADF
}

// IsATTY reports the three standard streams as terminals.
func (obj *Stubs) IsATTY(fd int) (bool, error) {
	switch fd {
	case STDIN_FILENO, STDOUT_FILENO, STDERR_FILENO:
		return true, nil
	default:
		return false, unix.EBADF
	}
}

func (obj *Stubs) Close(fd int) error {
	return unix.EBADF
}

// Fstat reports every descriptor as a character device.
func (obj *Stubs) Fstat(fd int) (uint32, error) {
	return unix.S_IFCHR, nil
}

func (obj *Stubs) Lseek(fd int, offset int64, whence int) (int64, error) {
	return 0, nil
}

func (obj *Stubs) Getpid() int {
	return -1
}

func (obj *Stubs) Kill(pid int, sig int) error {
	return unix.EINVAL
}

// File returns an io.Writer that writes through Write on fd.
func (obj *Stubs) File(fd int) io.Writer {
	return &file{stubs: obj, fd: fd}
}

type file struct {
	stubs *Stubs
	fd    int
}

func (f *file) Write(p []byte) (int, error) {
	n, err := f.stubs.Write(f.fd, p)
	if n < 0 {
		n = 0
	}
	return n, err
}
