package runtime

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"

	"github.com/baml-go/baml-runtime/errors"
)

// Config describes the runtime to construct inside the library.
//
// SrcFiles maps the project-relative path of each BAML source file to its
// contents; Env supplies the variables the runtime reads for provider
// credentials and the like. Both cross the boundary as JSON the library
// parses itself — their contents are opaque to the bindings.
type Config struct {
	RootPath string            `validate:"required"`
	SrcFiles map[string]string `validate:"required,min=1"`
	Env      map[string]string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// encode validates the config and renders the three boundary strings.
func (c Config) encode() (rootPath, srcFilesJSON, envVarsJSON string, err error) {
	if err := validate.Struct(c); err != nil {
		return "", "", "", errors.Validation(err)
	}

	src, err := json.Marshal(c.SrcFiles)
	if err != nil {
		return "", "", "", errors.Validation(err)
	}

	env := c.Env
	if env == nil {
		env = map[string]string{}
	}
	envJSON, err := json.Marshal(env)
	if err != nil {
		return "", "", "", errors.Validation(err)
	}

	return c.RootPath, string(src), string(envJSON), nil
}
