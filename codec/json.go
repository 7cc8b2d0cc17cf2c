package codec

import "encoding/json"

// JSON is the default codec. Published documents are served as JSON, so the
// network payload can be cached and decoded without transcoding.
type JSON[V any] struct{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}
