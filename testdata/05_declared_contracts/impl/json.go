package impl

import (
	"encoding/json"
	"io"

	"example.com/plugins/api"
)

// JSON registers under both contracts, naming one through its import.
//
//spi:provide api.Codec example.com/plugins/api.Named
type JSON struct{}

func (JSON) Name() string { return "json" }

func (JSON) Encode(w io.Writer, v any) error { return json.NewEncoder(w).Encode(v) }

func (JSON) Decode(r io.Reader, v any) error { return json.NewDecoder(r).Decode(v) }

var _ api.Codec = JSON{}
