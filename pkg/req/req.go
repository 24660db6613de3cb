package req

import (
	"errors"
	"io"

	jsoniter "github.com/json-iterator/go"
)

const maxBody = 1 << 16

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrEmptyBody = errors.New("empty request body")

// Decode читает JSON тело запроса в T, неизвестные поля запрещены
func Decode[T any](body io.Reader) (T, error) {
	var payload T
	if body == nil {
		return payload, ErrEmptyBody
	}
	dec := json.NewDecoder(io.LimitReader(body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return payload, ErrEmptyBody
		}
		return payload, err
	}
	return payload, nil
}
