package load

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	jsonfmt "github.com/reoring/typemix/format/json"
)

// ErrNoMatch is returned by Query when the path selects nothing.
var ErrNoMatch = errors.New("query matched nothing")

// Query selects a subtree of data with a gjson path such as "items.0" or
// "items.#.name". An empty path returns data unchanged.
func Query(data any, path string) (any, error) {
	if path == "" {
		return data, nil
	}
	doc, err := jsonfmt.Encode(data, jsonfmt.EncodeOptions{})
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", path, err)
	}
	res := gjson.GetBytes(doc, path)
	if !res.Exists() {
		return nil, fmt.Errorf("query %s: %w", path, ErrNoMatch)
	}
	v, err := jsonfmt.Decode([]byte(res.Raw), jsonfmt.DecodeOptions{})
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", path, err)
	}
	return v, nil
}
