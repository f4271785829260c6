// Command veritas is a terminal client for the verification API.
//
//	veritas [flags] verify [text...]
//	veritas [flags] search <question...>
//	veritas [flags] rephrase [text...]
//	veritas [flags] rankings
//
// verify and rephrase read stdin when no text is given.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Harshitk-cp/veritas/internal/apiclient"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const usage = `usage: veritas [flags] <verify|search|rephrase|rankings> [text...]

flags:
`

type options struct {
	addr     string
	timeout  time.Duration
	attempts int
	source   string
	verbose  bool
}

func main() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr, sig))
}

func parseFlags(args []string, stderr io.Writer) (options, []string, error) {
	var o options
	fs := flag.NewFlagSet("veritas", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.addr, "addr", envOr("VERITAS_ADDR", "http://localhost:8080"), "API base URL")
	fs.DurationVar(&o.timeout, "timeout", apiclient.DefaultTimeout, "per-attempt request timeout")
	fs.IntVar(&o.attempts, "attempts", apiclient.DefaultMaxAttempts, "attempts per request, including the first")
	fs.StringVar(&o.source, "source", "", "AI the text came from; a successful verify is added to the rankings")
	fs.BoolVar(&o.verbose, "v", false, "log requests to stderr")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return o, nil, err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return o, nil, errors.New("missing command")
	}
	return o, fs.Args(), nil
}

// run returns the process exit code: 0 on success, 1 on a failed request,
// 2 on bad usage and 130 when interrupted.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, sig <-chan os.Signal) int {
	o, rest, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	logger := zap.NewNop()
	if o.verbose {
		enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		logger = zap.New(zapcore.NewCore(enc, zapcore.AddSync(stderr), zap.DebugLevel))
	}
	defer func() { _ = logger.Sync() }()

	c := &cli{
		client: apiclient.New(o.addr,
			apiclient.WithTimeout(o.timeout),
			apiclient.WithMaxAttempts(o.attempts),
		),
		out:    stdout,
		errOut: stderr,
		sig:    sig,
		tick:   time.Second,
		logger: logger.With(zap.String("addr", o.addr)),
	}

	cmd, words := rest[0], rest[1:]
	switch cmd {
	case "verify":
		text, err := textArg(words, stdin)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitUsage
		}
		return c.verify(ctx, text, o.source)
	case "search":
		if len(words) == 0 {
			fmt.Fprintln(stderr, "search needs a question")
			return exitUsage
		}
		return c.search(ctx, strings.Join(words, " "))
	case "rephrase":
		text, err := textArg(words, stdin)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitUsage
		}
		return c.rephrase(ctx, text)
	case "rankings":
		return c.rankings(ctx)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		return exitUsage
	}
}

func textArg(words []string, stdin io.Reader) (string, error) {
	if len(words) > 0 && !(len(words) == 1 && words[0] == "-") {
		return strings.Join(words, " "), nil
	}
	b, err := io.ReadAll(io.LimitReader(stdin, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
