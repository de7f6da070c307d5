// Command speechkit runs speech and image tasks against SiliconFlow, either
// once from the command line or behind an HTTP server.
//
//	speechkit run audio-to-text --params params.json
//	speechkit run text-to-audio --params - < params.json
//	speechkit tasks
//	speechkit serve --config config.yml
package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/kbukum/speechkit/bootstrap"
	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/server"
	"github.com/kbukum/speechkit/task"
	"github.com/kbukum/speechkit/version"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type cli struct {
	configFile  string
	envFile     string
	params      string
	showVersion bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}

	fs := pflag.NewFlagSet(serviceName, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&c.configFile, "config", "c", "", "path to config.yml (searched in standard locations when empty)")
	fs.StringVar(&c.envFile, "env-file", "", "path to a .env file")
	fs.StringVarP(&c.params, "params", "p", "", "task parameters as a JSON file, or - for stdin")
	fs.BoolVarP(&c.showVersion, "version", "v", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage:\n  %[1]s run <task> [--params file.json]\n  %[1]s tasks\n  %[1]s serve\n\nFlags:\n", serviceName)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if stderrors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if c.showVersion {
		fmt.Fprintf(stdout, "%s %s\n", serviceName, version.Get())
		return exitOK
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return exitUsage
	}

	switch rest[0] {
	case "run":
		if len(rest) != 2 {
			fs.Usage()
			return exitUsage
		}
		return c.runTask(ctx, rest[1])
	case "tasks":
		return c.listTasks()
	case "serve":
		return c.serve(ctx)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", rest[0])
		fs.Usage()
		return exitUsage
	}
}

// newApp loads configuration and builds the application with its task services.
func (c *cli) newApp() (*bootstrap.App[*AppConfig], *services, error) {
	cfg, err := loadConfig(c.configFile, c.envFile)
	if err != nil {
		return nil, nil, err
	}
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return nil, nil, err
	}

	// The telemetry component installs the meter provider only at Start; the
	// global meter forwards these instruments to it once installed.
	metrics, err := observability.NewMetrics(observability.Meter(serviceName))
	if err != nil {
		return nil, nil, err
	}
	svc, err := buildServices(app.Cfg, metrics)
	if err != nil {
		return nil, nil, err
	}

	if err := app.RegisterComponent(telemetryComponent(app.Cfg)); err != nil {
		return nil, nil, err
	}
	if err := app.RegisterComponent(svc.component()); err != nil {
		return nil, nil, err
	}
	return app, svc, nil
}

// taskOutput is what `run` prints on success.
type taskOutput struct {
	Result   map[string]any `json:"result"`
	Previews []task.Preview `json:"previews"`
}

func (c *cli) runTask(ctx context.Context, name string) int {
	params, err := c.readParams()
	if err != nil {
		return c.fail(err)
	}
	app, svc, err := c.newApp()
	if err != nil {
		return c.fail(err)
	}

	err = app.RunTask(ctx, func(ctx context.Context) error {
		rec := &task.Recorder{}
		result, err := svc.runner.Run(ctx, name, rec, params)
		if err != nil {
			return err
		}
		return c.printJSON(c.stdout, taskOutput{Result: result, Previews: rec.Previews()})
	})
	if err != nil {
		return c.fail(err)
	}
	return exitOK
}

func (c *cli) listTasks() int {
	_, svc, err := c.newApp()
	if err != nil {
		return c.fail(err)
	}
	for _, name := range svc.runner.Registry().Names() {
		fmt.Fprintln(c.stdout, name)
	}
	return exitOK
}

func (c *cli) serve(ctx context.Context) int {
	app, svc, err := c.newApp()
	if err != nil {
		return c.fail(err)
	}

	srv := server.New(app.Cfg.Server, app.Logger)
	srv.ApplyMiddleware()
	srv.RegisterRoutes(svc.runner, app.Components)
	if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
		return c.fail(err)
	}

	if err := app.Run(ctx); err != nil {
		return c.fail(err)
	}
	return exitOK
}

// readParams reads the JSON parameter object from --params. No flag means
// an empty object.
func (c *cli) readParams() (map[string]any, error) {
	var (
		data []byte
		err  error
	)
	switch c.params {
	case "":
		return map[string]any{}, nil
	case "-":
		data, err = io.ReadAll(c.stdin)
	default:
		data, err = os.ReadFile(c.params)
	}
	if err != nil {
		return nil, errors.InvalidInput("params", err.Error()).WithCause(err)
	}

	params := map[string]any{}
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, errors.InvalidInput("params", "must be a JSON object: "+err.Error()).WithCause(err)
	}
	return params, nil
}

// fail prints err as an error envelope on stderr.
func (c *cli) fail(err error) int {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.Internal(err)
		appErr.Message = err.Error()
	}
	_ = c.printJSON(c.stderr, appErr.ToResponse())
	return exitError
}

func (c *cli) printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
