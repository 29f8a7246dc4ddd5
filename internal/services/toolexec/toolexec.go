// Package toolexec runs external media tools with line-streamed output.
//
// Every tool client in recut funnels through the Executor interface so tests
// can script command behaviour without spawning processes.
package toolexec

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"sync"
)

// Command describes one external tool invocation.
type Command struct {
	Binary string
	Args   []string
	// Dir sets the working directory; empty means inherit.
	Dir string
	// OkExit lists exit statuses accepted in addition to zero. Some tools
	// signal success with a nonzero status (ccextractor returns 232).
	OkExit []int
	// OnLine receives each output line (stdout and stderr interleaved).
	OnLine func(string)
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, cmd Command) error
}

// RunFunc adapts a function to the Executor interface.
type RunFunc func(ctx context.Context, cmd Command) error

func (f RunFunc) Run(ctx context.Context, cmd Command) error { return f(ctx, cmd) }

// NewCommandExecutor returns the production executor backed by os/exec.
func NewCommandExecutor() Executor { return commandExecutor{} }

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, spec Command) error {
	if spec.Binary == "" {
		return errors.New("toolexec: binary required")
	}
	cmd := exec.CommandContext(ctx, spec.Binary, spec.Args...) //nolint:gosec
	cmd.Dir = spec.Dir
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", spec.Binary, err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	forward := func(line string) {
		if spec.OnLine != nil {
			spec.OnLine(line)
		}
	}

	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		scanner.Split(scanToolLines)
		for scanner.Scan() {
			forward(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() { scanErr = err })
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	err = cmd.Wait()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		for _, ok := range spec.OkExit {
			if code == ok {
				return nil
			}
		}
		return fmt.Errorf("%s exited with status %d", spec.Binary, code)
	}
	return fmt.Errorf("wait %s: %w", spec.Binary, err)
}

// scanToolLines splits on \n and lone \r so carriage-return progress output
// from ffmpeg-style tools still arrives line by line.
func scanToolLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		advance = i + 1
		if data[i] == '\r' && len(data) > advance && data[advance] == '\n' {
			advance++
		}
		return advance, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Version runs a probe command and returns the first capture group of expr
// matched against its output. The exit status is ignored; many tools print a
// banner and exit nonzero when given no work. The boolean reports whether the
// binary ran and the expression matched.
func Version(ctx context.Context, executor Executor, binary string, args []string, expr string) (string, bool) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return "", false
	}
	if executor == nil {
		executor = NewCommandExecutor()
	}
	var found string
	_ = executor.Run(ctx, Command{
		Binary: binary,
		Args:   args,
		OnLine: func(line string) {
			if found != "" {
				return
			}
			if m := re.FindStringSubmatch(line); m != nil {
				if len(m) > 1 {
					found = m[1]
				} else {
					found = m[0]
				}
			}
		},
	})
	return found, found != ""
}
