package mp4

import (
	"fmt"

	"github.com/joshuapare/mp4kit/pkg/types"
)

// PayloadAs returns p as T, or an error matching types.ErrBoxNotFound when p
// holds a different kind.
//
// Example:
//
//	ftyp, err := mp4.PayloadAs[*mp4.FtypBox](p)
func PayloadAs[T Payload](p Payload) (T, error) {
	if t, ok := p.(T); ok {
		return t, nil
	}
	var zero T
	got := "none"
	if p != nil {
		got = p.Kind().String()
	}
	return zero, types.BoxNotFound(fmt.Sprintf("%T", zero), got)
}

// As returns the payload of b as T, or an error matching types.ErrBoxNotFound
// when b holds a different kind or no payload.
//
// Example:
//
//	mvhd, err := mp4.As[*mp4.MvhdBox](&tree.Box)
func As[T Payload](b *Box) (T, error) {
	if b == nil {
		var zero T
		return zero, types.BoxNotFound(fmt.Sprintf("%T", zero), "none")
	}
	return PayloadAs[T](b.Payload)
}
