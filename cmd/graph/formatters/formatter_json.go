package formatters

import (
	"encoding/json"

	"github.com/LegacyCodeHQ/ctxmap/bundler"
)

// JSONFormatter formats compilations as JSON.
type JSONFormatter struct{}

type jsonContext struct {
	ID         string   `json:"id"`
	Request    string   `json:"request"`
	Overridden bool     `json:"overridden"`
	Elements   []string `json:"elements"`
	Critical   []string `json:"critical,omitempty"`
}

type jsonCompilation struct {
	Modules      []string            `json:"modules"`
	Dependencies map[string][]string `json:"dependencies"`
	Contexts     []jsonContext       `json:"contexts"`
	Errors       []string            `json:"errors,omitempty"`
	Warnings     []string            `json:"warnings,omitempty"`
}

// Format converts the compilation to JSON.
// The opts parameter is accepted for interface compatibility but not used.
func (f *JSONFormatter) Format(comp *bundler.Compilation, _ FormatOptions) (string, error) {
	adjacency, err := comp.AdjacencyList()
	if err != nil {
		return "", err
	}

	out := jsonCompilation{
		Modules:      comp.Modules(),
		Dependencies: adjacency,
		Contexts:     make([]jsonContext, 0, len(comp.Contexts)),
		Errors:       errorStrings(comp.Errors),
		Warnings:     errorStrings(comp.Warnings),
	}

	for _, m := range comp.Contexts {
		ctx := jsonContext{
			ID:         m.Identifier(),
			Request:    m.Request,
			Overridden: m.Overridden,
			Elements:   make([]string, 0, len(m.Elements)),
		}
		for _, el := range m.Elements {
			ctx.Elements = append(ctx.Elements, el.Request)
		}
		for _, edge := range m.Dependencies {
			if edge.Critical {
				ctx.Critical = append(ctx.Critical, edge.Request)
			}
		}
		out.Contexts = append(out.Contexts, ctx)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func errorStrings(errs []error) []string {
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		out = append(out, err.Error())
	}
	return out
}
