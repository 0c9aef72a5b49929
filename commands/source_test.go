package commands

import (
	"errors"
	"testing"
)

type fakeSource struct {
	frames []string
}

func (s *fakeSource) Poll() (string, bool) {
	if len(s.frames) == 0 {
		return "", false
	}
	frame := s.frames[0]
	s.frames = s.frames[1:]
	return frame, true
}

func TestAccept(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		expected    Command
		expectedErr error
	}{
		{"Valid", "set-speed:7", SetSpeed{Raw: 7}, nil},
		{"InversionOutOfRangeStillDecodes", "set-inversion:2", SetInversion{Value: 2}, nil},
		{"UnknownDropped", "lights:1", nil, nil},
		{"InversionOverflowDropped", "set-inversion:99999999999", nil, nil},
		{"InversionNotANumberDropped", "set-inversion:yes", nil, nil},
		{"InversionMissingArgumentDropped", "set-inversion", nil, nil},
		{"MalformedTargetReported", "set-target-position:99999999999", nil, ErrMalformed},
		{"NoSeparatorReported", "set-speed", nil, ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Accept(tt.in)
			if !errors.Is(err, tt.expectedErr) {
				t.Errorf("expected=%v, got=%v", tt.expectedErr, err)
			}
			if cmd != tt.expected {
				t.Errorf("expected=%#v, got=%#v", tt.expected, cmd)
			}
		})
	}
}

func TestNext(t *testing.T) {
	src := &fakeSource{frames: []string{"set-inversion:99999999999", "set-target-position:1500", "set-speed:x"}}

	cmd, err := Next(src)
	if cmd != nil || err != nil {
		t.Errorf("expected silent drop, got=%#v, %v", cmd, err)
	}

	cmd, err = Next(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd != (SetTargetPosition{Raw: 1500}) {
		t.Errorf("expected=%#v, got=%#v", SetTargetPosition{Raw: 1500}, cmd)
	}

	_, err = Next(src)
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected=%v, got=%v", ErrMalformed, err)
	}

	cmd, err = Next(src)
	if cmd != nil || err != nil {
		t.Errorf("expected nothing pending, got=%#v, %v", cmd, err)
	}
}
