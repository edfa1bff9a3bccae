package image

import (
	"errors"

	"github.com/ezrec/avrsim/translate"
)

var f = translate.From

var (
	ErrRecordSyntax = errors.New(f("record syntax"))
	ErrAddressRange = errors.New(f("address beyond program memory"))
	ErrOddLength    = errors.New(f("image is not a whole number of words"))
)

// ErrRecord is a malformed Intel HEX image. The HEX reader's own error,
// which names the failing line, is joined into Err.
type ErrRecord struct {
	Err error
}

func (err *ErrRecord) Error() string {
	return f("image: %v", err.Err)
}

func (err *ErrRecord) Unwrap() error {
	return err.Err
}
