package injector

import (
	"fmt"
	"unicode"

	"github.com/micmonay/keybd_event"

	internalinjector "github.com/foxseedlab/kakitori/internal/injector"
)

// TypeInjector delivers text as synthetic per-character keystrokes with no
// delay between characters. Key synthesis only covers letters, digits and
// spaces; anything else falls back to the clipboard round trip so the exact
// string still arrives once.
type TypeInjector struct {
	fallback internalinjector.Injector
}

func NewTypeInjector(fallback internalinjector.Injector) internalinjector.Injector {
	return &TypeInjector{fallback: fallback}
}

func (j *TypeInjector) Deliver(text string) error {
	if !typeable(text) {
		return j.fallback.Deliver(text)
	}

	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return fmt.Errorf("init key synthesis: %w", err)
	}
	for _, r := range text {
		key, shift := keyFor(r)
		kb.Clear()
		kb.HasSHIFT(shift)
		kb.SetKeys(key)
		if err := kb.Launching(); err != nil {
			return fmt.Errorf("type %q: %w", r, err)
		}
	}
	return nil
}

func typeable(text string) bool {
	for _, r := range text {
		if _, ok := letterKeys[unicode.ToLower(r)]; ok {
			continue
		}
		if _, ok := digitKeys[r]; ok {
			continue
		}
		if r != ' ' {
			return false
		}
	}
	return true
}

func keyFor(r rune) (key int, shift bool) {
	if r == ' ' {
		return keybd_event.VK_SPACE, false
	}
	if key, ok := digitKeys[r]; ok {
		return key, false
	}
	lower := unicode.ToLower(r)
	return letterKeys[lower], r != lower
}

var letterKeys = map[rune]int{
	'a': keybd_event.VK_A, 'b': keybd_event.VK_B, 'c': keybd_event.VK_C,
	'd': keybd_event.VK_D, 'e': keybd_event.VK_E, 'f': keybd_event.VK_F,
	'g': keybd_event.VK_G, 'h': keybd_event.VK_H, 'i': keybd_event.VK_I,
	'j': keybd_event.VK_J, 'k': keybd_event.VK_K, 'l': keybd_event.VK_L,
	'm': keybd_event.VK_M, 'n': keybd_event.VK_N, 'o': keybd_event.VK_O,
	'p': keybd_event.VK_P, 'q': keybd_event.VK_Q, 'r': keybd_event.VK_R,
	's': keybd_event.VK_S, 't': keybd_event.VK_T, 'u': keybd_event.VK_U,
	'v': keybd_event.VK_V, 'w': keybd_event.VK_W, 'x': keybd_event.VK_X,
	'y': keybd_event.VK_Y, 'z': keybd_event.VK_Z,
}

var digitKeys = map[rune]int{
	'0': keybd_event.VK_0, '1': keybd_event.VK_1, '2': keybd_event.VK_2,
	'3': keybd_event.VK_3, '4': keybd_event.VK_4, '5': keybd_event.VK_5,
	'6': keybd_event.VK_6, '7': keybd_event.VK_7, '8': keybd_event.VK_8,
	'9': keybd_event.VK_9,
}
