package api_test

import (
	"io"

	"github.com/abya-university/ABYA-Ecosystem-sub001/jsonx"
)

func decode(r io.Reader, out interface{}) error {
	return jsonx.NewDecoder(r).Decode(out)
}
