package inline

import (
	"io"
	"net/http"

	"github.com/streamplay-cli/streamplay/form"
)

// Options configures a non-interactive check.
type Options struct {
	Out       io.Writer
	URLs      []string
	Protocol  string
	Json      bool
	Inspect   bool
	Validator form.Validator
	// Client downloads manifests when Inspect is set.
	Client *http.Client
	// Parallel bounds concurrent validations.
	Parallel int
}
