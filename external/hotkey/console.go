package hotkey

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/foxseedlab/kakitori/internal/hotkey"
)

// ConsoleSource reads trigger events from a line stream, standing in for the
// OS global-hotkey hook: an empty line (or "t") toggles recording, "lang <code>"
// or a configured quick-switch binding selects a language, "q" exits.
type ConsoleSource struct {
	reader           io.Reader
	languageBindings map[string]string
}

func NewConsoleSource(r io.Reader, languageBindings map[string]string) hotkey.Source {
	if languageBindings == nil {
		languageBindings = map[string]string{}
	}
	return &ConsoleSource{reader: r, languageBindings: languageBindings}
}

func (s *ConsoleSource) Events(ctx context.Context) (<-chan hotkey.Event, error) {
	events := make(chan hotkey.Event)
	go func() {
		defer close(events)
		scanner := bufio.NewScanner(s.reader)
		for scanner.Scan() {
			ev, ok := s.parseLine(scanner.Text())
			if !ok {
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
			if ev.Kind == hotkey.EventExit {
				return
			}
		}
	}()
	return events, nil
}

func (s *ConsoleSource) parseLine(line string) (hotkey.Event, bool) {
	line = strings.TrimSpace(strings.ToLower(line))
	switch line {
	case "", "t", "toggle":
		return hotkey.Event{Kind: hotkey.EventToggle}, true
	case "q", "quit", "exit":
		return hotkey.Event{Kind: hotkey.EventExit}, true
	}
	if language, ok := strings.CutPrefix(line, "lang "); ok {
		language = strings.TrimSpace(language)
		if language == "" {
			return hotkey.Event{}, false
		}
		return hotkey.Event{Kind: hotkey.EventSetLanguage, Language: language}, true
	}
	if language, ok := s.languageBindings[line]; ok {
		return hotkey.Event{Kind: hotkey.EventSetLanguage, Language: language}, true
	}
	return hotkey.Event{}, false
}
