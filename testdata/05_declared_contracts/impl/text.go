package impl

import (
	"fmt"
	"io"
)

type (
	// Text registers under Codec only.
	//
	//spi:provide example.com/plugins/api.Codec
	Text struct{}

	// Plain is not marked.
	Plain struct{}
)

func (Text) Name() string { return "text" }

func (Text) Encode(w io.Writer, v any) error {
	_, err := fmt.Fprint(w, v)
	return err
}

func (Text) Decode(r io.Reader, v any) error {
	_, err := fmt.Fscan(r, v)
	return err
}
