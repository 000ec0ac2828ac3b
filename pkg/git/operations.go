package git

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// If true, every git invocation will be echoed to stdout (with the exception of those added to `exemptedTraceCommands`)
const trace = false

// Whilst debugging or developing, you may wish to filter certain git commands out of the logs when tracing is on.
var exemptedTraceCommands = []string{
	// To filter out a certain git subcommand add it here, e.g.:
	// "config",
}

// Env vars that are allowed to be inherited from the OS
var allowedEnvVars = []string{
	// these are for people using (no) proxies. Git follows the curl conventions, so HTTP_PROXY
	// is intentionally missing
	"http_proxy", "https_proxy", "no_proxy", "HTTPS_PROXY", "NO_PROXY", "GIT_PROXY_COMMAND",
	// needed to find the user's git config, credentials and keys
	"HOME", "XDG_CONFIG_HOME", "GIT_SSH_COMMAND", "SSH_AUTH_SOCK",
	"PATH",
}

type gitCmdConfig struct {
	dir     string
	env     []string
	out     io.Writer
	timeout time.Duration
}

func config(ctx context.Context, cfg gitCmdConfig, key, value string) error {
	args := []string{"config", key, value}
	if err := execGitCmd(ctx, args, cfg); err != nil {
		return errors.Wrap(err, "setting git config "+key)
	}
	return nil
}

func add(ctx context.Context, cfg gitCmdConfig, path string) error {
	args := []string{"add", "--", path}
	if err := execGitCmd(ctx, args, cfg); err != nil {
		return errors.Wrap(err, "adding file to git")
	}
	return nil
}

func commit(ctx context.Context, cfg gitCmdConfig, message string) error {
	args := []string{"commit", "--no-verify", "-m", message}
	if err := execGitCmd(ctx, args, cfg); err != nil {
		return errors.Wrap(err, "git commit")
	}
	return nil
}

func tag(ctx context.Context, cfg gitCmdConfig, name, message string) error {
	args := []string{"tag", "-a", name, "-m", message}
	if err := execGitCmd(ctx, args, cfg); err != nil {
		return errors.Wrap(err, "creating tag "+name)
	}
	return nil
}

func push(ctx context.Context, cfg gitCmdConfig, upstream string, refs []string) error {
	args := append([]string{"push", upstream}, refs...)
	if err := execGitCmd(ctx, args, cfg); err != nil {
		return errors.Wrap(err, fmt.Sprintf("git push %s %s", upstream, refs))
	}
	return nil
}

func pushTag(ctx context.Context, cfg gitCmdConfig, upstream, name string) error {
	args := []string{"push", upstream, "tag", name}
	if err := execGitCmd(ctx, args, cfg); err != nil {
		return errors.Wrap(err, "pushing tag "+name)
	}
	return nil
}

func refRevision(ctx context.Context, cfg gitCmdConfig, ref string) (string, error) {
	out := &bytes.Buffer{}
	cfg.out = out
	args := []string{"rev-list", "--max-count", "1", ref, "--"}
	if err := execGitCmd(ctx, args, cfg); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.String()), nil
}

// traceGitCommand returns a log line that can be useful when debugging and developing git activity
func traceGitCommand(args []string, config gitCmdConfig, stdOutAndStdErr string) string {
	for _, exemptedCommand := range exemptedTraceCommands {
		if exemptedCommand == args[0] {
			return ""
		}
	}

	prepare := func(input string) string {
		output := strings.Trim(input, "\x00")
		output = strings.TrimSuffix(output, "\n")
		output = strings.Replace(output, "\n", "\\n", -1)
		return output
	}

	command := `git ` + strings.Join(args, " ")
	out := prepare(stdOutAndStdErr)

	return fmt.Sprintf(
		"TRACE: command=%q out=%q dir=%q env=%q",
		command,
		out,
		config.dir,
		strings.Join(config.env, ","),
	)
}

type threadSafeBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (b *threadSafeBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *threadSafeBuffer) Read(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Read(p)
}

func (b *threadSafeBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Bytes()
}

func (b *threadSafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// execGitCmd runs a `git` command with the supplied arguments. A
// non-zero config.timeout bounds this one invocation.
func execGitCmd(ctx context.Context, args []string, config gitCmdConfig) (err error) {
	if config.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		commandDuration.With(
			LabelCommand, args[0],
			LabelSuccess, strconv.FormatBool(err == nil),
		).Observe(time.Since(start).Seconds())
	}()

	c := exec.CommandContext(ctx, "git", args...)

	if config.dir != "" {
		c.Dir = config.dir
	}
	c.Env = append(env(), config.env...)
	stdOutAndStdErr := &threadSafeBuffer{}
	c.Stdout = stdOutAndStdErr
	c.Stderr = stdOutAndStdErr
	if config.out != nil {
		c.Stdout = io.MultiWriter(c.Stdout, config.out)
	}

	err = c.Run()
	if err != nil {
		if len(stdOutAndStdErr.Bytes()) > 0 {
			err = errors.New(stdOutAndStdErr.String())
			msg := findErrorMessage(stdOutAndStdErr)
			if msg != "" {
				err = fmt.Errorf("%s, full output:\n %s", msg, err.Error())
			}
		}
	}

	if trace {
		if traceCommand := traceGitCommand(args, config, stdOutAndStdErr.String()); traceCommand != "" {
			println(traceCommand)
		}
	}

	if ctx.Err() == context.DeadlineExceeded {
		return errors.Wrap(ctx.Err(), fmt.Sprintf("running git command: %s %v", "git", args))
	} else if ctx.Err() == context.Canceled {
		return errors.Wrap(ctx.Err(), fmt.Sprintf("context was unexpectedly cancelled when running git command: %s %v", "git", args))
	}
	return err
}

func env() []string {
	env := []string{"GIT_TERMINAL_PROMPT=0"}

	// include allowed env vars from os
	for _, k := range allowedEnvVars {
		if v, ok := os.LookupEnv(k); ok {
			env = append(env, k+"="+v)
		}
	}

	return env
}

func findErrorMessage(output io.Reader) string {
	sc := bufio.NewScanner(output)
	for sc.Scan() {
		switch {
		case strings.HasPrefix(sc.Text(), "fatal: "):
			return sc.Text()
		case strings.HasPrefix(sc.Text(), "ERROR fatal: "): // Saw this error on ubuntu systems
			return sc.Text()
		case strings.HasPrefix(sc.Text(), "error:"):
			return strings.TrimPrefix(sc.Text(), "error: ")
		}
	}
	return ""
}
