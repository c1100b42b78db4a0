package packet

import (
	"errors"
	"fmt"

	"github.com/signadot/go-packet/codec"
	"github.com/signadot/go-packet/gomap"
	"github.com/signadot/go-packet/parse"
)

var (
	// ErrNotSerializable is returned by Dumps for values the codec cannot
	// carry.
	ErrNotSerializable = codec.ErrNotSerializable
	// ErrUnknownPacket is returned by Loads for bytes which do not decode
	// to a tagged envelope.
	ErrUnknownPacket = codec.ErrUnknownPacket
	// ErrInvalidData is returned by Loads for envelopes which do not fit
	// the packet: wrong tag, attributes or types.
	ErrInvalidData = gomap.ErrInvalidData
	// ErrMalformed is the literal parser error; Loads reports it wrapped in
	// ErrUnknownPacket.
	ErrMalformed = parse.ErrMalformed

	ErrUnknownEncryption = fmt.Errorf("%w: unknown encryption", codec.ErrUnknownPacket)
	ErrUnknownAttribute  = errors.New("unknown attribute")
	ErrNoChannel         = errors.New("no channel")
)
