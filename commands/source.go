package commands

import (
	"errors"
	"strings"

	"github.com/luckyfish-tu/camservo"
)

// FrameSource yields complete frames without blocking. ok is false when no frame is ready.
type FrameSource interface {
	Poll() (frame string, ok bool)
}

// Next reads at most one frame from src and decodes it with Accept. A nil command means
// nothing is pending for the controller.
func Next(src FrameSource) (Command, error) {
	frame, ok := src.Poll()
	if !ok {
		return nil, nil
	}
	return Accept(frame)
}

// Accept decodes a frame the way the firmware consumes it. Frames that are dropped without
// a diagnostic return a nil command and a nil error: unknown names, so newer hosts can talk
// to older firmware, and set-inversion with an argument that does not decode.
func Accept(frame string) (Command, error) {
	cmd, err := Parse(frame)
	if err == nil {
		return cmd, nil
	}
	if errors.Is(err, ErrUnknownCommand) {
		return nil, nil
	}

	name, _, _ := strings.Cut(strings.TrimSpace(frame), string(camservo.Separator))
	if name == NameSetInversion {
		return nil, nil
	}
	return nil, err
}
