package popup

import "github.com/atotto/clipboard"

// Clipboard is the sink for the copy action. Copy never ends or disturbs an
// activation, so failures are logged rather than surfaced.
type Clipboard interface {
	SetText(text string) error
}

// SystemClipboard writes through to the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) SetText(text string) error {
	return clipboard.WriteAll(text)
}
