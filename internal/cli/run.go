package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/journey"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/exploration"
	"github.com/aretw0/journey/pkg/format/codec"
	"github.com/aretw0/journey/pkg/graph"
)

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	Options
	// SessionID names the session; a fresh UUID is used when empty.
	SessionID string
	// Decision starts a new session; empty leaves it unstarted.
	Decision string
	Exits    []string
	Zone     string
	// MapPath is a graph file (json or dot) a new session starts on.
	MapPath string
	// Script is the command text to execute, possibly empty.
	Script string
	// Fresh deletes the session first.
	Fresh bool
	JSON  bool
	Out   io.Writer
}

// RunReport is printed in JSON mode.
type RunReport struct {
	Session  string          `json:"session"`
	Created  bool            `json:"created"`
	Steps    int             `json:"steps"`
	Position string          `json:"position,omitempty"`
	Value    json.RawMessage `json:"value,omitempty"`
	Output   string          `json:"output,omitempty"`
}

// Execute handles the 'run' command: it opens or starts the session and
// runs the script against it.
func Execute(ctx context.Context, opts RunOptions) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	cfg, err := loadConfig(opts.Options)
	if err != nil {
		return err
	}
	logger := cfg.Logger()
	eng, closeStore, err := createEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	report, err := runScript(ctx, eng, opts)
	if err != nil {
		return err
	}
	logger.Info("Run finished", "session_id", report.Session, "steps", report.Steps)

	if opts.JSON {
		enc := json.NewEncoder(opts.Out)
		return enc.Encode(report)
	}
	fmt.Fprint(opts.Out, report.Output)
	if report.Created {
		printSystemMessage(opts.Out, "Session '%s' created.", report.Session)
	}
	if report.Position != "" {
		printSystemMessage(opts.Out, "At '%s' after %d steps.", report.Position, report.Steps)
	} else {
		printSystemMessage(opts.Out, "Session '%s' has %d steps.", report.Session, report.Steps)
	}
	return nil
}

func runScript(ctx context.Context, eng *journey.Engine, opts RunOptions) (*RunReport, error) {
	report := &RunReport{Session: opts.SessionID}

	if opts.Fresh && opts.SessionID != "" {
		if err := eng.Delete(ctx, opts.SessionID); err != nil {
			return nil, fmt.Errorf("reset session: %w", err)
		}
	}

	var x *exploration.Exploration
	if opts.SessionID != "" {
		var err error
		x, err = eng.Snapshot(ctx, opts.SessionID)
		if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
	}
	if x == nil {
		start := exploration.StartOptions{Exits: opts.Exits, Zone: opts.Zone}
		if opts.MapPath != "" {
			m, err := readMap(opts.MapPath)
			if err != nil {
				return nil, err
			}
			start.Map = m
		}
		var err error
		report.Session, x, err = eng.Start(ctx, opts.SessionID, opts.Decision, start)
		if err != nil {
			return nil, err
		}
		report.Created = true
	}

	report.Steps = x.Len()
	if x.Len() > 0 {
		report.Position, _ = x.Position()
	}
	if opts.Script == "" {
		return report, nil
	}

	res, err := eng.Exec(ctx, report.Session, opts.Script)
	if err != nil {
		return nil, err
	}
	report.Steps, report.Position, report.Output = res.Steps, res.Position, res.Output
	if report.Value, err = codec.Marshal(res.Value); err != nil {
		return nil, err
	}
	return report, nil
}

func readMap(path string) (*graph.DecisionGraph, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := ReadGraph(f, format)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", path, err)
	}
	return m, nil
}
