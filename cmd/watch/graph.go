package watch

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/LegacyCodeHQ/ctxmap/bundler"
	"github.com/LegacyCodeHQ/ctxmap/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/ctxmap/cmd/graph/formatters/dot"
	"github.com/LegacyCodeHQ/ctxmap/cmd/project"
)

// rebuilder recompiles the project and publishes the result. The project is
// reopened on every build so edits to the configuration file take effect.
type rebuilder struct {
	opts      project.Options
	args      []string
	formatter formatters.Formatter
	out       io.Writer
	logOut    io.Writer
	broker    *broker

	mu     sync.Mutex
	builds int64
}

func (r *rebuilder) rebuild(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := project.Open(r.opts, r.logOut)
	if err != nil {
		return err
	}

	comp, err := p.Compile(ctx, r.args)
	if err != nil {
		return err
	}

	output, err := r.formatter.Format(comp, formatters.FormatOptions{})
	if err != nil {
		return fmt.Errorf("failed to format graph: %w", err)
	}
	fmt.Fprintln(r.out, output)

	r.builds++
	snapshot, err := newSnapshot(r.builds, comp)
	if err != nil {
		return err
	}
	r.broker.publish(snapshot)

	p.Logger.Info("rebuilt", "build", r.builds, "modules", len(comp.Modules()),
		"contexts", len(comp.Contexts), "errors", len(comp.Errors), "warnings", len(comp.Warnings))
	return nil
}

func newSnapshot(id int64, comp *bundler.Compilation) (graphSnapshot, error) {
	dotOutput, err := (&dot.Formatter{}).Format(comp, formatters.FormatOptions{})
	if err != nil {
		return graphSnapshot{}, fmt.Errorf("failed to render DOT: %w", err)
	}

	snapshot := graphSnapshot{
		ID:        id,
		Timestamp: time.Now(),
		DOT:       dotOutput,
	}
	for _, e := range comp.Errors {
		snapshot.Errors = append(snapshot.Errors, e.Error())
	}
	for _, w := range comp.Warnings {
		snapshot.Warnings = append(snapshot.Warnings, w.Error())
	}
	return snapshot, nil
}
