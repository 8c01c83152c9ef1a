package inline

import (
	"encoding/json"
	"io"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/streamplay-cli/streamplay/stream"
)

// Item is the outcome for a single URL.
type Item struct {
	Result  stream.Result `json:"result"`
	OK      bool          `json:"ok" jsonschema:"description=Whether the stream may be played."`
	Message string        `json:"message,omitempty" jsonschema:"description=User facing error for rejected streams."`
	// Manifest is present when inspection was requested and succeeded.
	Manifest     *stream.Manifest `json:"manifest,omitempty"`
	InspectError string           `json:"inspect_error,omitempty"`
}

// Output is the document written by check --json.
type Output struct {
	Protocol stream.Protocol `json:"protocol" jsonschema:"enum=hls,enum=dash"`
	Results  []*Item         `json:"results"`
}

func writeJson(out io.Writer, output *Output) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// Schema describes the JSON output of check.
func Schema() *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Namer = func(t reflect.Type) string {
		name := t.Name()
		switch strings.ToLower(name) {
		case "result", "request", "manifest", "variant", "output", "item":
			return filepath.Base(t.PkgPath()) + "." + name
		}
		return name
	}
	return reflector.Reflect(&Output{})
}
