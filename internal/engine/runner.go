// Package engine drives the external probabilistic inference engine as a
// subprocess and persists its output so an unchanged KB can skip
// re-running it (§6, SPEC_FULL supplemented features 1-3).
package engine

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"xproblog/internal/logging"
	"xproblog/internal/model"
)

// OutFileName is the persisted trace file the orchestrator reloads on an
// unchanged KB instead of re-invoking the engine.
const OutFileName = "~xproblog.out"

// tracePrefix and answerPrefix are the line tags read back from
// OutFileName, mirroring the "problog:"/"xproblog:" tagging the original
// persists (original_source/xproblog.py::_run_problog).
const (
	answerPrefix = "problog:"
	tracePrefix  = "xproblog:"
)

// Result is one engine invocation's output: query-answer lines (plain
// "<query>:<prob>" text, untagged) and the xproblog: trace payload lines
// handed to the Trace Parser.
type Result struct {
	Answers []string
	Trace   []string
}

// Run invokes the configured engine command against kbFile and returns
// its split output. It never returns a partial Result on error.
func Run(ctx context.Context, dir, kbFile, command string, args []string) (*Result, error) {
	kbPath := filepath.Join(dir, kbFile)
	fullArgs := append(append([]string{}, args...), kbPath)

	cmd := exec.CommandContext(ctx, command, fullArgs...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("engine stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("engine stderr pipe: %w", err)
	}

	start := time.Now()
	logging.Engine("running engine: %s %s", command, strings.Join(fullArgs, " "))
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting engine %s: %w", command, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			logging.EngineWarn("[engine stderr] %s", scanner.Text())
		}
	}()

	result := &Result{}
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, tracePrefix) {
			result.Trace = append(result.Trace, strings.TrimRight(line[len(tracePrefix):], "\r\n"))
			continue
		}
		result.Answers = append(result.Answers, collapseWhitespace(strings.TrimSpace(line)))
	}
	if err := scanner.Err(); err != nil {
		logging.EngineError("reading engine stdout: %v", err)
	}
	<-done

	waitErr := cmd.Wait()
	elapsed := time.Since(start)
	logging.Engine("engine finished in %s (%d answers, %d trace lines)", elapsed, len(result.Answers), len(result.Trace))
	if waitErr != nil {
		return nil, fmt.Errorf("engine %s exited: %w", command, waitErr)
	}

	return result, nil
}

// collapseWhitespace removes all whitespace from an engine answer line,
// matching the original's re.sub(r'\s+', '', line) normalization of
// plain (non-trace) output (original_source/xproblog.py::_run_problog).
func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SaveResult persists a Result to OutFileName under dir so a subsequent
// unchanged-KB run can reload it instead of re-invoking the engine.
func SaveResult(dir string, result *Result) error {
	path := filepath.Join(dir, OutFileName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, l := range result.Answers {
		fmt.Fprintf(w, "%s%s\n", answerPrefix, l)
	}
	for _, l := range result.Trace {
		fmt.Fprintf(w, "%s%s\n", tracePrefix, l)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logging.Engine("persisted engine output to %s", path)
	return nil
}

// LoadPersisted reads OutFileName back, if present. ok is false when the
// file does not exist or lacks either answer lines or trace lines.
func LoadPersisted(dir string) (result *Result, ok bool, err error) {
	path := filepath.Join(dir, OutFileName)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	result = &Result{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, answerPrefix):
			result.Answers = append(result.Answers, line[len(answerPrefix):])
		case strings.HasPrefix(line, tracePrefix):
			result.Trace = append(result.Trace, line[len(tracePrefix):])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	}

	ok = len(result.Answers) > 0 && len(result.Trace) > 0
	return result, ok, nil
}

// Obtain runs the engine unless the KB is unchanged and a usable
// persisted result already exists, implementing the orchestrator's
// skip-if-unchanged policy (§6, supplemented feature 1).
func Obtain(ctx context.Context, dir, kbFile, command string, args []string, kbUnchanged bool) (*Result, error) {
	if kbUnchanged {
		if persisted, ok, err := LoadPersisted(dir); err != nil {
			return nil, err
		} else if ok {
			logging.Engine("KB unchanged, reusing persisted output from %s", filepath.Join(dir, OutFileName))
			return persisted, nil
		}
	}

	result, err := Run(ctx, dir, kbFile, command, args)
	if err != nil {
		return nil, err
	}
	if err := SaveResult(dir, result); err != nil {
		return nil, err
	}
	return result, nil
}

// SplitAnswer splits an engine answer line "<query>:<prob>" into its
// query predicate and probability text (supplemented feature 2). ok is
// false if the line contains no ':'.
func SplitAnswer(line string) (query model.Predicate, probability string, ok bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", "", false
	}
	return model.Predicate(line[:idx]), line[idx+1:], true
}
