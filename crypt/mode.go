package crypt

import (
	"errors"
	"fmt"
)

type Mode int

const (
	ModeNone Mode = iota
	ModeCTR
	ModeCBC
	ModeCTRIV
)

var ErrBadMode = errors.New("bad cipher mode")

func ParseMode(v string) (Mode, error) {
	m, ok := map[string]Mode{
		"":       ModeNone,
		"none":   ModeNone,
		"ctr":    ModeCTR,
		"cbc":    ModeCBC,
		"ctr-iv": ModeCTRIV,
		"ctriv":  ModeCTRIV,
	}[v]
	if ok {
		return m, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadMode, v)
}

func (m Mode) String() string {
	d, err := m.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (m Mode) MarshalText() ([]byte, error) {
	switch m {
	case ModeNone:
		return []byte("none"), nil
	case ModeCTR:
		return []byte("ctr"), nil
	case ModeCBC:
		return []byte("cbc"), nil
	case ModeCTRIV:
		return []byte("ctr-iv"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a cipher mode>", m)
	}
}

func (m *Mode) UnmarshalText(d []byte) error {
	pm, err := ParseMode(string(d))
	if err != nil {
		return err
	}
	*m = pm
	return nil
}

func AllModes() []Mode {
	return []Mode{ModeNone, ModeCTR, ModeCBC, ModeCTRIV}
}
