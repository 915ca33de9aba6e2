// Package command implements the Command Dispatcher and the argument
// schemas and orchestration for RECORD and CLASSIFY.
package command

import (
	"context"
	"time"

	"github.com/arnegrid/simidx/argdecode"
	"github.com/arnegrid/simidx/core"
	"github.com/arnegrid/simidx/storage"
)

// reservedCommands are the command tokens the dispatcher recognizes but does
// not implement: reserved extension points that return core.NotImplemented.
// RECORD and CLASSIFY are handled directly in Execute.
var reservedCommands = map[string]struct{}{
	"MERGE":   {},
	"DELETE":  {},
	"COMPARE": {},
}

// Dispatcher parses a positional argument vector, builds the request
// Configuration, and routes to RECORD or CLASSIFY.
type Dispatcher struct {
	adapter storage.Adapter
	opts    options
}

// NewDispatcher builds a Dispatcher over adapter.
func NewDispatcher(adapter storage.Adapter, opts ...Option) *Dispatcher {
	return &Dispatcher{adapter: adapter, opts: applyOptions(opts)}
}

// Result is the outcome of one Execute call. RECORD invocations leave Items
// nil; CLASSIFY invocations populate it.
type Result struct {
	Items []ClassifyItem
}

// Execute parses argv and runs the named command. The leading positional
// arguments (scope, bands, window, retention, timestamp) form the
// Configuration; the next token names the command.
func (d *Dispatcher) Execute(ctx context.Context, argv []string) (Result, error) {
	if d.opts.resources != nil {
		if err := d.opts.resources.AcquireBackground(ctx); err != nil {
			return Result{}, err
		}
		defer d.opts.resources.ReleaseBackground()
	}

	c := argdecode.NewCursor(argv)
	cfg, err := decodeConfig(c)
	if err != nil {
		return Result{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	commandTok, err := argdecode.String(c)
	if err != nil {
		return Result{}, err
	}

	logger := d.opts.logger.WithScope(cfg.Scope).WithCommand(commandTok)

	switch commandTok {
	case "RECORD":
		start := time.Now()
		count, err := d.executeRecord(ctx, cfg, c)
		logger.LogRecord(ctx, count, time.Since(start), err)
		d.opts.metrics.RecordRecord(count, time.Since(start), err)
		if err != nil {
			return Result{}, err
		}
		return Result{}, nil
	case "CLASSIFY":
		start := time.Now()
		items, queries, err := d.executeClassify(ctx, cfg, c)
		logger.LogClassify(ctx, queries, len(items), time.Since(start), err)
		d.opts.metrics.RecordClassify(queries, len(items), time.Since(start), err)
		if err != nil {
			return Result{}, err
		}
		return Result{Items: items}, nil
	default:
		if _, reserved := reservedCommands[commandTok]; reserved {
			return Result{}, &core.NotImplemented{Command: commandTok}
		}
		return Result{}, &core.ArgumentError{Pos: c.Pos() - 1, Msg: "unknown command: " + commandTok}
	}
}

func decodeConfig(c *argdecode.Cursor) (core.Config, error) {
	scope, err := argdecode.String(c)
	if err != nil {
		return core.Config{}, err
	}
	bands, err := argdecode.Int(c)
	if err != nil {
		return core.Config{}, err
	}
	window, err := argdecode.Int64(c)
	if err != nil {
		return core.Config{}, err
	}
	retention, err := argdecode.Int64(c)
	if err != nil {
		return core.Config{}, err
	}
	timestamp, err := argdecode.Int64(c)
	if err != nil {
		return core.Config{}, err
	}
	return core.Config{
		Scope:     scope,
		Bands:     bands,
		Window:    window,
		Retention: retention,
		Timestamp: timestamp,
	}, nil
}
