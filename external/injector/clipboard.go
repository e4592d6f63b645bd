package injector

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"

	internalinjector "github.com/foxseedlab/kakitori/internal/injector"
)

const (
	clipboardSettleDelay = 80 * time.Millisecond
	pasteRegisterDelay   = 120 * time.Millisecond
)

// ClipboardInjector delivers text through a clipboard round trip: save the
// prior contents, place the text, synthesize Ctrl+V, restore.
type ClipboardInjector struct{}

func NewClipboardInjector() internalinjector.Injector {
	return &ClipboardInjector{}
}

func (j *ClipboardInjector) Deliver(text string) error {
	orig, _ := clipboard.ReadAll()
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	time.Sleep(clipboardSettleDelay)

	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return fmt.Errorf("init key synthesis: %w", err)
	}
	kb.HasCTRL(true)
	kb.SetKeys(keybd_event.VK_V)
	if err := kb.Launching(); err != nil {
		return fmt.Errorf("send paste keystroke: %w", err)
	}

	time.Sleep(pasteRegisterDelay)
	_ = clipboard.WriteAll(orig)
	return nil
}
