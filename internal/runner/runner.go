// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"io"
	"os"
	"time"

	"uvipack/internal/container"
	"uvipack/internal/recipe"
	"uvipack/pkg/types"
)

const (
	// maxStartAttempts bounds retries on transient engine failures.
	maxStartAttempts = 3
	// startRetryBackoff is the base backoff between start attempts.
	startRetryBackoff = 500 * time.Millisecond
)

type (
	// Runner launches a packaged application image in the foreground and
	// reports the server's exit code unchanged.
	Runner struct {
		engine container.Engine
		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer
	}

	// Option configures a Runner.
	Option func(*Runner)

	// RunOptions controls a single Run invocation.
	RunOptions struct {
		// Image is the image to launch.
		Image container.ImageTag
		// HostPort is the host port the server is published on.
		// Zero publishes on the recipe's own port.
		HostPort types.ListenPort
		// Env contains explicit environment overrides. They take precedence
		// over values loaded from EnvFiles.
		Env map[string]string
		// EnvFiles are dotenv files merged into the environment in order.
		// A trailing '?' marks a file as optional.
		EnvFiles []string
		// Name is an optional container name.
		Name container.ContainerName
	}
)

// WithStdio sets the stdio streams wired into the container.
// Defaults to the process's own streams.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdin = stdin
		r.stdout = stdout
		r.stderr = stderr
	}
}

// NewRunner creates a Runner backed by the given engine.
func NewRunner(engine container.Engine, opts ...Option) *Runner {
	r := &Runner{
		engine: engine,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run launches the image in the foreground and blocks until the server exits.
// The returned exit code is the server process's own exit status; a non-zero
// code is not an error. Errors are reserved for infrastructure failures
// (invalid options, engine missing, start failure).
func (r *Runner) Run(ctx context.Context, rec recipe.Recipe, opts RunOptions) (types.ExitCode, error) {
	// Reject out-of-range host ports before the narrowing conversion in
	// portMapping can wrap them into a different, valid-looking port.
	if err := opts.HostPort.Validate(); err != nil {
		return 1, err
	}

	env, err := r.buildEnv(opts)
	if err != nil {
		return 1, err
	}

	runOpts := container.RunOptions{
		Image:  opts.Image,
		Env:    env,
		Ports:  []container.PortMapping{r.portMapping(rec, opts)},
		Remove: true,
		Name:   opts.Name,
		Stdin:  r.stdin,
		Stdout: r.stdout,
		Stderr: r.stderr,
	}

	var exitCode types.ExitCode
	err = container.RetryWithBackoff(ctx, maxStartAttempts, startRetryBackoff,
		func(_ int) (bool, error) {
			result, runErr := r.engine.Run(ctx, runOpts)
			if runErr != nil {
				// Invalid options; never retryable.
				return false, runErr
			}
			if result.Error != nil {
				return container.IsTransientError(result.Error), result.Error
			}
			exitCode = result.ExitCode
			return false, nil
		})
	if err != nil {
		return 1, err
	}

	return exitCode, nil
}

// portMapping publishes the server's port on the host. The container side
// always comes from the recipe, so the published port and the port uvicorn
// binds cannot diverge.
func (r *Runner) portMapping(rec recipe.Recipe, opts RunOptions) container.PortMapping {
	containerPort := container.NetworkPort(rec.ResolvedPort())
	hostPort := containerPort
	if opts.HostPort != 0 {
		hostPort = container.NetworkPort(opts.HostPort)
	}
	return container.PortMapping{HostPort: hostPort, ContainerPort: containerPort}
}

// buildEnv merges dotenv files (in order) and then explicit overrides.
func (r *Runner) buildEnv(opts RunOptions) (map[string]string, error) {
	if len(opts.EnvFiles) == 0 && len(opts.Env) == 0 {
		return nil, nil
	}

	env := make(map[string]string)
	for _, file := range opts.EnvFiles {
		if err := LoadEnvFile(env, file, ""); err != nil {
			return nil, err
		}
	}
	for k, v := range opts.Env {
		env[k] = v
	}
	return env, nil
}
