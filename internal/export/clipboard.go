package export

import (
	"errors"
	"fmt"
	"sync"

	"golang.design/x/clipboard"
)

// ErrClipboardDenied is returned when the system clipboard is unavailable or
// access was refused. It is logged and not retried.
var ErrClipboardDenied = errors.New("export: clipboard unavailable")

// Clipboard writes the payload text and the raster image to the system
// clipboard.
type Clipboard interface {
	WriteText(s string) error
	WriteImage(pngData []byte) error
}

// SystemClipboard backs Clipboard with the OS clipboard. Initialization
// happens once on first use and its failure is sticky.
type SystemClipboard struct {
	once    sync.Once
	initErr error
}

func NewSystemClipboard() *SystemClipboard { return &SystemClipboard{} }

func (c *SystemClipboard) ensure() error {
	c.once.Do(func() {
		if err := clipboard.Init(); err != nil {
			c.initErr = fmt.Errorf("%w: %v", ErrClipboardDenied, err)
		}
	})
	return c.initErr
}

func (c *SystemClipboard) WriteText(s string) error {
	if err := c.ensure(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(s))
	return nil
}

func (c *SystemClipboard) WriteImage(pngData []byte) error {
	if err := c.ensure(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtImage, pngData)
	return nil
}
