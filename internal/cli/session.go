package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/aretw0/journey"
	"github.com/aretw0/journey/internal/presentation/mermaid"
	"github.com/aretw0/journey/internal/presentation/tui"
	"github.com/aretw0/journey/pkg/format/codec"
)

// withEngine loads the config, builds an engine and runs fn with it.
func withEngine(ctx context.Context, opts Options, fn func(eng *journey.Engine) error) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	eng, closeStore, err := createEngine(ctx, cfg, cfg.Logger())
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(eng)
}

// ListSessions prints the stored session IDs, sorted.
func ListSessions(ctx context.Context, opts Options, w io.Writer) error {
	return withEngine(ctx, opts, func(eng *journey.Engine) error {
		ids, err := eng.List(ctx)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Fprintln(w, "No sessions found.")
			return nil
		}
		slices.Sort(ids)
		for _, id := range ids {
			fmt.Fprintln(w, "- "+id)
		}
		return nil
	})
}

// InspectSession prints the session's exploration as indented JSON.
func InspectSession(ctx context.Context, opts Options, sessionID string, w io.Writer) error {
	return withEngine(ctx, opts, func(eng *journey.Engine) error {
		x, err := eng.Snapshot(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("load session %q: %w", sessionID, err)
		}
		data, err := codec.MarshalIndent(x)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	})
}

// ShowSession prints a readable history of the session. Markdown skips the
// terminal styling.
func ShowSession(ctx context.Context, opts Options, sessionID string, markdown bool, w io.Writer) error {
	return withEngine(ctx, opts, func(eng *journey.Engine) error {
		x, err := eng.Snapshot(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("load session %q: %w", sessionID, err)
		}
		report := tui.SessionReport(sessionID, x)
		if !markdown {
			render, err := tui.NewRenderer()
			if err != nil {
				return err
			}
			if report, err = render(report); err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, report)
		return err
	})
}

// RemoveSessions deletes every session in ids, reporting each failure.
func RemoveSessions(ctx context.Context, opts Options, ids []string, w io.Writer) error {
	return withEngine(ctx, opts, func(eng *journey.Engine) error {
		var errs []error
		for _, id := range ids {
			if err := eng.Delete(ctx, id); err != nil {
				errs = append(errs, fmt.Errorf("remove %q: %w", id, err))
				continue
			}
			fmt.Fprintf(w, "Removed session '%s'\n", id)
		}
		return errors.Join(errs...)
	})
}

// GraphOptions selects the step and format for ExportGraph.
type GraphOptions struct {
	Options
	SessionID string
	// Step indexes the history; negative values count from the end.
	Step   int
	Format string
}

// ExportGraph writes the graph of one step of a session. Mermaid output
// highlights the decisions visited up to that step.
func ExportGraph(ctx context.Context, opts GraphOptions, w io.Writer) error {
	return withEngine(ctx, opts.Options, func(eng *journey.Engine) error {
		x, err := eng.Snapshot(ctx, opts.SessionID)
		if err != nil {
			return fmt.Errorf("load session %q: %w", opts.SessionID, err)
		}
		sit, err := x.Situation(opts.Step)
		if err != nil {
			return err
		}
		if opts.Format == FormatMermaid {
			idx := opts.Step
			if idx < 0 {
				idx += x.Len()
			}
			overlay := mermaid.OverlayOf(x.Steps()[:idx+1])
			_, err := io.WriteString(w, mermaid.Generate(sit.Graph, overlay))
			return err
		}
		return WriteGraph(w, sit.Graph, opts.Format)
	})
}
