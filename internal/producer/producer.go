// Package producer runs the external tree producer and turns its output into
// syntax forests.
//
// The producer is a separate executable that parses one C# file and prints
// the JSON mapping of file path to root node on stdout. Each file is an
// independent job; Runner fans jobs out with a bounded worker pool and hands
// results back in completion order.
package producer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"cstyle/internal/syntax"
)

var (
	// ErrUnavailable means the producer executable cannot be found. Nothing
	// can be analyzed without it.
	ErrUnavailable = errors.New("tree producer is not available")
	// ErrEmptyOutput means the producer exited cleanly but printed nothing.
	ErrEmptyOutput = errors.New("tree producer wrote no output")
)

// Tree is a decoded producer result: the forest and the wire form it was
// built from, kept for the disk cache.
type Tree struct {
	Forest syntax.Forest
	Wire   syntax.WireForest
}

// Source produces the trees of one file.
type Source interface {
	Produce(ctx context.Context, path string, content []byte) (Tree, error)
}

// RunError is a failed producer process.
type RunError struct {
	Path   string
	Stderr string
	Err    error
}

func (e *RunError) Error() string {
	msg := fmt.Sprintf("tree producer failed on %s: %v", e.Path, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *RunError) Unwrap() error { return e.Err }

// ExecSource runs `<command> <args...> <path>` per file.
type ExecSource struct {
	bin     string
	args    []string
	timeout time.Duration
}

// NewExecSource resolves command on PATH. A missing executable is reported
// as ErrUnavailable.
func NewExecSource(command string, args []string, timeout time.Duration) (*ExecSource, error) {
	bin, err := exec.LookPath(command)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, command, err)
	}
	return &ExecSource{
		bin:     bin,
		args:    append([]string(nil), args...),
		timeout: timeout,
	}, nil
}

// Identity names the resolved producer invocation, used in cache keys.
func (s *ExecSource) Identity() string {
	return strings.Join(append([]string{s.bin}, s.args...), "\x00")
}

// Produce runs the producer once. content is not piped in: the producer
// reads the file itself.
func (s *ExecSource) Produce(ctx context.Context, path string, _ []byte) (Tree, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	args := append(append([]string(nil), s.args...), path)
	cmd := exec.CommandContext(ctx, s.bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return Tree{}, &RunError{Path: path, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	return Decode(stdout.Bytes())
}

// Decode parses producer stdout.
func Decode(out []byte) (Tree, error) {
	if len(bytes.TrimSpace(out)) == 0 {
		return Tree{}, ErrEmptyOutput
	}
	forest, wf, err := syntax.DecodeJSON(bytes.NewReader(out))
	if err != nil {
		return Tree{}, err
	}
	return Tree{Forest: forest, Wire: wf}, nil
}
