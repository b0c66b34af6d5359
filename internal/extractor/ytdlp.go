package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"

	"tubefeed/internal/notify"
)

// YTDLP extracts payloads by executing the yt-dlp binary in simulate mode
// and decoding its single-line JSON dump. Failures are classified from the
// process's stderr; anything unrecognized raises an operator alert.
type YTDLP struct {
	binary   string
	cookies  string
	notifier notify.Notifier
}

// NewYTDLP builds a client around the given binary path ("yt-dlp" when
// empty). A cookies file, when set, is passed along on every extraction.
func NewYTDLP(binary, cookiesFile string, notifier notify.Notifier) *YTDLP {
	if binary == "" {
		binary = "yt-dlp"
	}
	if notifier == nil {
		notifier = notify.Noop{}
	}

	return &YTDLP{binary: binary, cookies: cookiesFile, notifier: notifier}
}

func (y *YTDLP) Extract(ctx context.Context, url string, opts Options) (Payload, error) {
	if opts.CookiesFile == "" {
		opts.CookiesFile = y.cookies
	}
	args := buildArgs(url, opts)

	var stdout []byte
	// Transient launch failures (the binary is there but the site hiccuped)
	// are retried briefly; typed provider conditions are not.
	backoff := retry.WithMaxRetries(2, retry.NewFibonacci(time.Second))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		out, stderr, err := y.run(ctx, args)
		if err == nil {
			stdout = out
			return nil
		}

		if typed := ClassifyError(stderr); typed != nil {
			return typed
		}

		return retry.RetryableError(fmt.Errorf("error running %s: %s: %w", y.binary, stderr, err))
	})
	if err != nil {
		if typed := ClassifyError(err.Error()); typed != nil {
			return Payload{}, typed
		}

		// Unrecognized failure: alert the operator and surface a generic
		// provider error.
		alert := fmt.Sprintf("extractor failed for %s: %v", url, err)
		if alertErr := y.notifier.Alert(ctx, alert); alertErr != nil {
			slog.Error("error sending extractor alert", "error", alertErr)
		}

		return Payload{}, fmt.Errorf("provider error extracting %q: %w", url, err)
	}

	var payload Payload
	if err := json.Unmarshal(stdout, &payload); err != nil {
		return Payload{}, fmt.Errorf("error decoding extractor payload: %w", err)
	}

	if payload.IsLive {
		return Payload{}, fmt.Errorf("%w: %s", ErrLiveEvent, url)
	}

	return payload, nil
}

func (y *YTDLP) run(ctx context.Context, args []string) (stdout []byte, stderr string, err error) {
	cmd := exec.CommandContext(ctx, y.binary, args...)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errBuf.String(), err
	}

	return outBuf.Bytes(), "", nil
}

func buildArgs(url string, opts Options) []string {
	args := []string{"-J", "--skip-download", "--no-warnings"}

	if opts.ExtractFlat {
		args = append(args, "--flat-playlist")
	}
	if opts.PlaylistEnd > 0 {
		args = append(args, "--playlist-end", strconv.Itoa(opts.PlaylistEnd))
	}
	if opts.PlaylistReverse {
		args = append(args, "--playlist-reverse")
	}
	if opts.CookiesFile != "" {
		args = append(args, "--cookies", opts.CookiesFile)
	}
	if opts.MaxDuration > 0 {
		args = append(args, "--match-filter", fmt.Sprintf("duration < %d", int(opts.MaxDuration.Seconds())))
	}

	return append(args, url)
}
