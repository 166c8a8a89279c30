package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/service"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Preset     string
	Seed       int64
	Iterations int
	Params     []string
	DepthMode  string
	JSON       bool
	// Pretty renders the report through glamour with a banner.
	Pretty bool
}

// Generator is the part of the service the run command needs.
type Generator interface {
	Generate(ctx context.Context, req service.Request) (*domain.Result, error)
}

// Run generates one result and writes it to out.
func Run(ctx context.Context, gen Generator, opts RunOptions, out io.Writer) error {
	params, err := ParseParams(opts.Params)
	if err != nil {
		return err
	}

	res, err := gen.Generate(ctx, service.Request{
		Preset:     opts.Preset,
		Seed:       opts.Seed,
		Iterations: opts.Iterations,
		Params:     params,
		DepthMode:  opts.DepthMode,
	})
	if err != nil {
		return err
	}

	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	report := tui.Report(res)
	if !opts.Pretty {
		_, err := fmt.Fprint(out, report)
		return err
	}

	tui.PrintBanner(out)
	rendered, err := tui.NewRenderer()(report)
	if err != nil {
		rendered = report
	}
	_, err = fmt.Fprint(out, rendered)
	return err
}
