package catalog

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// ValidateYAML checks a catalog document against the CUE schema.
// Returns a positioned, multi-line error listing every violation, or
// nil if the document conforms.
func ValidateYAML(data []byte, source string) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("catalog: %s is not valid YAML: %w", source, err)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("catalog: internal schema error: %w", err)
	}
	catalogDef := schema.LookupPath(cue.ParsePath("#Catalog"))
	if err := catalogDef.Err(); err != nil {
		return fmt.Errorf("catalog: internal schema error: %w", err)
	}

	value := ctx.Encode(doc)
	if err := value.Err(); err != nil {
		return fmt.Errorf("catalog: %s: %w", source, err)
	}

	unified := catalogDef.Unify(value)
	if err := unified.Validate(cue.Concrete(true), cue.Final()); err != nil {
		var msgs []string
		for _, e := range cueerrors.Errors(err) {
			msgs = append(msgs, e.Error())
		}
		return &ValidationError{Source: source, Problems: msgs}
	}
	return nil
}

// ValidationError reports schema violations in a catalog file.
type ValidationError struct {
	Source   string
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("catalog: %s: %s", e.Source, e.Problems[0])
	}
	msg := fmt.Sprintf("catalog: %s: %d schema violations:", e.Source, len(e.Problems))
	for _, p := range e.Problems {
		msg += "\n  " + p
	}
	return msg
}
