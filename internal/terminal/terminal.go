// Package terminal provides the minimal capability surface the popup engine
// renders through, plus the tty-backed implementation used by the CLI. All
// escape-sequence construction for the popup box itself lives with the
// renderer; a Terminal only moves bytes and answers geometry questions.
package terminal

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"golang.org/x/term"
)

// Terminal is the output sink and geometry source for the popup engine.
type Terminal interface {
	// WriteString emits bytes to the terminal in order.
	WriteString(s string)
	// Size returns the terminal dimensions in cells.
	Size() (cols, rows int)
	// CursorPos reports the current cursor position, zero-based.
	// ok is false when the position cannot be determined.
	CursorPos() (col, row int, ok bool)
}

// TTY is the real terminal. Input and output share one device: stdin when it
// is a terminal, otherwise /dev/tty so the popup stays usable when candidate
// lines arrive on a pipe.
type TTY struct {
	in  *os.File
	out *os.File
	fd  int
}

// Open returns a TTY bound to the controlling terminal.
func Open() (*TTY, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return &TTY{in: os.Stdin, out: os.Stdout, fd: int(os.Stdin.Fd())}, nil
	}
	f, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("no controlling terminal: %w", err)
	}
	return &TTY{in: f, out: f, fd: int(f.Fd())}, nil
}

// MakeRaw switches the terminal to raw mode and returns a restore function.
func (t *TTY) MakeRaw() (func(), error) {
	old, err := term.MakeRaw(t.fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	return func() { term.Restore(t.fd, old) }, nil
}

func (t *TTY) WriteString(s string) {
	t.out.WriteString(s)
}

func (t *TTY) Size() (int, int) {
	w, h, err := term.GetSize(t.fd)
	if err != nil || w <= 0 || h <= 0 {
		return 80, 25
	}
	return w, h
}

// CursorPos queries the cursor position with a DSR report. The terminal must
// already be in raw mode; the reply is read from the input device.
func (t *TTY) CursorPos() (int, int, bool) {
	t.out.WriteString("\x1b[6n")

	// Reply has the form ESC [ row ; col R.
	var reply []byte
	buf := make([]byte, 32)
	deadline := time.Now().Add(250 * time.Millisecond)
	for time.Now().Before(deadline) {
		n, _ := t.ReadInput(buf, 50*time.Millisecond)
		if n == 0 {
			continue
		}
		reply = append(reply, buf[:n]...)
		if reply[len(reply)-1] == 'R' {
			break
		}
	}

	var row, col int
	for i := 0; i < len(reply); i++ {
		if reply[i] == '[' {
			if _, err := fmt.Sscanf(string(reply[i:]), "[%d;%dR", &row, &col); err == nil && row > 0 && col > 0 {
				return col - 1, row - 1, true
			}
		}
	}
	return 0, 0, false
}

// ReadInput reads available input bytes, waiting at most timeout. A zero
// count means the timeout expired without input.
func (t *TTY) ReadInput(buf []byte, timeout time.Duration) (int, error) {
	syscall.SetNonblock(t.fd, true)
	defer syscall.SetNonblock(t.fd, false)

	deadline := time.Now().Add(timeout)
	for {
		n, err := t.in.Read(buf)
		if n > 0 {
			return n, nil
		}
		if err != nil && !errors.Is(err, syscall.EAGAIN) && !os.IsTimeout(err) {
			return 0, err
		}
		if !time.Now().Before(deadline) {
			return 0, nil
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// HideCursor hides the terminal cursor while a popup is on screen.
func (t *TTY) HideCursor() { t.out.WriteString("\x1b[?25l") }

// ShowCursor restores the terminal cursor.
func (t *TTY) ShowCursor() { t.out.WriteString("\x1b[?25h") }
