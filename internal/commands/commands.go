// Package commands implements the CLI subcommands.
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"pagebuilder/internal/config"
	"pagebuilder/internal/domain"
	"pagebuilder/internal/export"
	"pagebuilder/internal/schema"
	"pagebuilder/internal/state"
)

var errNoSource = errors.New("nothing to do, no source specified")

// writeOutput writes data to fname, or to STDOUT when fname is empty.
func writeOutput(env *state.LocalEnv, fname string, data []byte) error {
	if fname == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fname), 0755); err != nil {
		return fmt.Errorf("unable to create destination directory: %w", err)
	}
	if err := os.WriteFile(fname, data, 0644); err != nil {
		return fmt.Errorf("unable to write '%s': %w", fname, err)
	}
	env.Log.Info("Output written", zap.String("file", fname), zap.Int("bytes", len(data)))
	return nil
}

func writeJSON(env *state.LocalEnv, fname string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeOutput(env, fname, append(data, '\n'))
}

func readSource(cmd *cli.Command) (string, []byte, error) {
	src := cmd.Args().Get(0)
	if src == "" {
		return "", nil, errNoSource
	}
	if src == "-" {
		data, err := io.ReadAll(os.Stdin)
		return "STDIN", data, err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return src, nil, fmt.Errorf("unable to read source: %w", err)
	}
	return src, data, nil
}

// ─────────────────────────────────────────────────────────────
// new, detect, convert
// ─────────────────────────────────────────────────────────────

// New creates an empty page and prints it.
func New(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	name := strings.Join(cmd.Args().Slice(), " ")
	if name == "" {
		return errors.New("page name is required")
	}
	a, err := env.OpenApp()
	if err != nil {
		return err
	}
	p, err := a.Pages.CreatePage(ctx, name)
	if err != nil {
		return err
	}
	env.Log.Info("Page created", zap.String("id", p.ID), zap.String("slug", p.Slug))
	return writeJSON(env, "", map[string]string{"id": p.ID, "name": p.Name, "slug": p.Slug})
}

// Detect prints the schema of a JSON file.
func Detect(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	src, data, err := readSource(cmd)
	if err != nil {
		return err
	}
	det := schema.Detect(data)
	env.Log.Debug("Schema detected", zap.String("source", src), zap.String("type", string(det.Type)))
	return writeJSON(env, "", det)
}

// Convert turns a JSON file into a native page document. With --store the
// result is imported into the database instead.
func Convert(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	src, data, err := readSource(cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("store") {
		a, err := env.OpenApp()
		if err != nil {
			return err
		}
		res, err := a.Pages.Import(ctx, data, cmd.String("target"))
		if err != nil {
			return fmt.Errorf("unable to import '%s' (%s): %w", src, res.SchemaType, err)
		}
		env.Log.Info("Page imported", zap.String("source", src), zap.String("schema", string(res.SchemaType)),
			zap.String("id", res.Page.ID), zap.String("slug", res.Page.Slug))
		return writeJSON(env, "", map[string]any{"id": res.Page.ID, "slug": res.Page.Slug, "schemaType": res.SchemaType})
	}

	res, err := schema.AutoConvert(data, domain.UUIDGenerator{})
	if err != nil {
		return fmt.Errorf("unable to convert '%s' (%s): %w", src, res.SchemaType, err)
	}
	env.Log.Debug("Converted", zap.String("source", src), zap.String("schema", string(res.SchemaType)),
		zap.Int("sections", len(res.Page.Sections)), zap.Int("blocks", res.Page.BlockCount()))
	return writeJSON(env, cmd.Args().Get(1), res.Page)
}

// ─────────────────────────────────────────────────────────────
// export, publish
// ─────────────────────────────────────────────────────────────

// Export renders a stored page, or a JSON file when SOURCE names one.
func Export(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	src := cmd.Args().Get(0)
	if src == "" {
		return errNoSource
	}
	dest := cmd.Args().Get(1)

	if strings.HasSuffix(strings.ToLower(src), ".json") {
		_, data, err := readSource(cmd)
		if err != nil {
			return err
		}
		res, err := schema.AutoConvert(data, domain.UUIDGenerator{})
		if err != nil {
			return fmt.Errorf("unable to convert '%s': %w", src, err)
		}
		r := export.New(export.Options{
			Annotate: cmd.Bool("annotate"),
			Minify:   env.Cfg.Export.Minify || cmd.Bool("minify"),
			Log:      env.Log,
		})
		return writeOutput(env, dest, []byte(r.Render(res.Page)))
	}

	a, err := env.OpenApp()
	if err != nil {
		return err
	}
	render := a.Pages.Export
	if cmd.Bool("annotate") {
		render = a.Pages.Preview
	}
	doc, err := render(src)
	if err != nil {
		return err
	}
	return writeOutput(env, dest, []byte(doc))
}

// Publish publishes the named pages, or every page with --all.
func Publish(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	a, err := env.OpenApp()
	if err != nil {
		return err
	}

	if cmd.Bool("all") {
		results, err := a.Pages.PublishAll(ctx)
		env.Log.Info("Published", zap.Int("pages", len(results)))
		return err
	}
	if cmd.Args().Len() == 0 {
		return errNoSource
	}
	var errs error
	for _, id := range cmd.Args().Slice() {
		res, err := a.Pages.Publish(ctx, id)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		env.Log.Info("Published", zap.String("id", id), zap.String("path", res.Path))
	}
	return errs
}

// ─────────────────────────────────────────────────────────────
// mcp, serve, dumpconfig
// ─────────────────────────────────────────────────────────────

// MCP serves the MCP protocol on stdin/stdout.
func MCP(version string) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		env := state.EnvFromContext(ctx)
		a, err := env.OpenApp()
		if err != nil {
			return err
		}
		return a.ServeMCP(ctx, os.Stdin, os.Stdout, version)
	}
}

// Serve runs the HTTP server until interrupted.
func Serve(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if listen := cmd.String("listen"); listen != "" {
		env.Cfg.HTTP.Listen = listen
	}
	a, err := env.OpenApp()
	if err != nil {
		return err
	}
	return a.ServeHTTP(ctx)
}

// DumpConfig outputs either the default or the actual configuration.
func DumpConfig(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	var (
		data []byte
		err  error
		what string
	)
	if cmd.Bool("default") {
		what = "default"
		data = config.Prepare()
	} else {
		what = "actual"
		if data, err = config.Dump(env.Cfg); err != nil {
			return fmt.Errorf("unable to get configuration: %w", err)
		}
	}
	fname := cmd.Args().Get(0)
	env.Log.Info("Outputing configuration", zap.String("state", what), zap.String("file", fname))
	return writeOutput(env, fname, data)
}
