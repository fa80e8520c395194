package runner

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/retroenv/retrochip8/chip8"
)

// KeyEvent is a scripted key state change applied at the start of a frame.
// A restart event resets the machine and reloads the ROM instead.
type KeyEvent struct {
	Frame   int
	Key     uint8
	Pressed bool
	Restart bool
}

func (e KeyEvent) String() string {
	if e.Restart {
		return fmt.Sprintf("%d:R", e.Frame)
	}
	state := "-"
	if e.Pressed {
		state = "+"
	}
	return fmt.Sprintf("%d:%X%s", e.Frame, e.Key, state)
}

// ParseKeyEvents parses a comma separated list of key events in the format
// frame:key+ for a key press and frame:key- for a key release, the key is
// a hexadecimal keypad digit. frame:R restarts the program at that frame.
// The events are returned sorted by frame.
func ParseKeyEvents(s string) ([]KeyEvent, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	events := make([]KeyEvent, 0, len(parts))
	for _, part := range parts {
		event, err := parseKeyEvent(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("parsing key event '%s': %w", part, err)
		}
		events = append(events, event)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Frame < events[j].Frame
	})
	return events, nil
}

func parseKeyEvent(s string) (KeyEvent, error) {
	frame, key, ok := strings.Cut(s, ":")
	if !ok {
		return KeyEvent{}, errors.New("expected format frame:key+, frame:key- or frame:R")
	}

	var event KeyEvent
	f, err := strconv.Atoi(frame)
	if err != nil || f < 0 {
		return KeyEvent{}, fmt.Errorf("invalid frame '%s'", frame)
	}
	event.Frame = f

	if strings.EqualFold(key, "r") {
		event.Restart = true
		return event, nil
	}
	if len(key) < 2 {
		return KeyEvent{}, errors.New("expected format frame:key+, frame:key- or frame:R")
	}

	switch key[len(key)-1] {
	case '+':
		event.Pressed = true
	case '-':
	default:
		return KeyEvent{}, errors.New("missing key state suffix + or -")
	}

	k, err := strconv.ParseUint(key[:len(key)-1], 16, 8)
	if err != nil || k >= chip8.KeyCount {
		return KeyEvent{}, fmt.Errorf("invalid key '%s'", key[:len(key)-1])
	}
	event.Key = uint8(k)

	return event, nil
}
