package host

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// pointerTagNumber is the CBOR tag wrapping an encoded Pointer ("semv").
const pointerTagNumber = 0x73656d76

var (
	// ErrNotPointer is returned when a blob is not an encoded Pointer.
	ErrNotPointer = errors.New("host: value is not an encoded pointer")
	// ErrTagMismatch is returned when an encoded Pointer carries another tag.
	ErrTagMismatch = errors.New("host: pointer tag mismatch")
)

// envelope is the wire form of a Pointer for engines that can only pass
// plain blobs between functions.
type envelope struct {
	_       struct{} `cbor:",toarray"`
	Tag     string
	Payload cbor.RawMessage
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	tags := cbor.NewTagSet()
	opts := cbor.TagOptions{EncTag: cbor.EncTagRequired, DecTag: cbor.DecTagRequired}
	if err := tags.Add(opts, reflect.TypeOf(envelope{}), pointerTagNumber); err != nil {
		panic(fmt.Sprintf("host: register pointer tag: %v", err))
	}

	var err error
	if encMode, err = (cbor.CoreDetEncOptions()).EncModeWithTags(tags); err != nil {
		panic(fmt.Sprintf("host: cbor encode mode: %v", err))
	}
	if decMode, err = (cbor.DecOptions{}).DecModeWithTags(tags); err != nil {
		panic(fmt.Sprintf("host: cbor decode mode: %v", err))
	}
}

// EncodePointer serializes p into a tagged blob. p.Value must be CBOR
// encodable; types implementing encoding.BinaryMarshaler encode through it.
func EncodePointer(p Pointer) ([]byte, error) {
	payload, err := encMode.Marshal(p.Value)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", p.Tag, err)
	}
	b, err := encMode.Marshal(envelope{Tag: p.Tag, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("encode %s envelope: %w", p.Tag, err)
	}
	return b, nil
}

// PointerTag returns the tag of an encoded Pointer.
func PointerTag(b []byte) (string, bool) {
	env, err := decodeEnvelope(b)
	if err != nil {
		return "", false
	}
	return env.Tag, true
}

// DecodePointer decodes the payload of an encoded Pointer carrying tag into
// dst, which must be a non-nil pointer.
func DecodePointer(b []byte, tag string, dst any) error {
	env, err := decodeEnvelope(b)
	if err != nil {
		return err
	}
	if env.Tag != tag {
		return fmt.Errorf("%w: got %q, want %q", ErrTagMismatch, env.Tag, tag)
	}
	if err := decMode.Unmarshal(env.Payload, dst); err != nil {
		return fmt.Errorf("decode %s payload: %w", tag, err)
	}
	return nil
}

func decodeEnvelope(b []byte) (envelope, error) {
	var env envelope
	if len(b) == 0 {
		return env, ErrNotPointer
	}
	if err := decMode.Unmarshal(b, &env); err != nil {
		return env, fmt.Errorf("%w: %v", ErrNotPointer, err)
	}
	return env, nil
}
