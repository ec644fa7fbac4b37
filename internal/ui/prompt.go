package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
)

// NewSpinner returns an indeterminate progress indicator written to w.
func NewSpinner(w io.Writer, description string) *progressbar.ProgressBar {
	if description == "" {
		description = "Working..."
	}
	return progressbar.NewOptions(
		-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
	)
}

// TerminalPrompter implements onenote.Prompter on a terminal. Prompts and
// spinners go to Out so they never mix with command output on stdout.
type TerminalPrompter struct {
	In  io.Reader
	Out io.Writer
}

// NewTerminalPrompter prompts on stdin and stderr.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{In: os.Stdin, Out: os.Stderr}
}

// ShowDeviceCode prints the device code instructions.
func (p *TerminalPrompter) ShowDeviceCode(verificationURI, userCode, message string) {
	if message != "" {
		fmt.Fprintln(p.Out, message)
		return
	}
	fmt.Fprintf(p.Out, "To sign in, visit %s and enter the code: %s\n", verificationURI, userCode)
}

// RedirectURL asks the user to open authURL and paste back the URL the
// browser landed on.
func (p *TerminalPrompter) RedirectURL(ctx context.Context, authURL string) (string, error) {
	fmt.Fprintf(p.Out, "Open this URL in your browser and sign in:\n\n  %s\n\n", authURL)
	fmt.Fprint(p.Out, "Paste the full URL of the page you were redirected to: ")

	type result struct {
		line string
		err  error
	}
	lines := make(chan result, 1)
	go func() {
		line, err := bufio.NewReader(p.In).ReadString('\n')
		lines <- result{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-lines:
		line := strings.TrimSpace(r.line)
		if r.err != nil && !(errors.Is(r.err, io.EOF) && line != "") {
			return "", fmt.Errorf("reading redirect URL: %w", r.err)
		}
		if line == "" {
			return "", errors.New("no redirect URL entered")
		}
		return line, nil
	}
}

// Waiting shows a spinner until the returned function is called.
func (p *TerminalPrompter) Waiting(description string) func() {
	bar := NewSpinner(p.Out, description)
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				_ = bar.Finish()
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()
	return func() {
		close(done)
		<-stopped
	}
}
