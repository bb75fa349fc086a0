package formz

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Codec decodes the raw bytes of a watched feed into a source value.
type Codec interface {
	// Unmarshal deserializes bytes into a value.
	Unmarshal(data []byte, v any) error

	// ContentType returns the MIME type for observability and debugging.
	ContentType() string
}

// JSONCodec implements Codec using encoding/json.
type JSONCodec struct{}

// Unmarshal deserializes JSON bytes into v.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// ContentType returns the JSON MIME type.
func (JSONCodec) ContentType() string {
	return "application/json"
}

// YAMLCodec implements Codec using gopkg.in/yaml.v3.
type YAMLCodec struct{}

// Unmarshal deserializes YAML bytes into v.
func (YAMLCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// ContentType returns the YAML MIME type.
func (YAMLCodec) ContentType() string {
	return "application/x-yaml"
}

// TextCodec passes the bytes through as a string with surrounding
// whitespace trimmed.
type TextCodec struct{}

// Unmarshal stores the trimmed text in v, which must be a *any or *string.
func (TextCodec) Unmarshal(data []byte, v any) error {
	text := strings.TrimSpace(string(data))
	switch p := v.(type) {
	case *any:
		*p = text
	case *string:
		*p = text
	default:
		return fmt.Errorf("text codec: unsupported target %T", v)
	}
	return nil
}

// ContentType returns the plain text MIME type.
func (TextCodec) ContentType() string {
	return "text/plain"
}

// CodecFor picks a codec from a file extension: .json, .yaml/.yml, or
// plain text for anything else.
func CodecFor(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSONCodec{}
	case ".yaml", ".yml":
		return YAMLCodec{}
	default:
		return TextCodec{}
	}
}

// Ensure the codecs implement Codec.
var (
	_ Codec = JSONCodec{}
	_ Codec = YAMLCodec{}
	_ Codec = TextCodec{}
)
