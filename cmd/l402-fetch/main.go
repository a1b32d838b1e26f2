// Command l402-fetch retrieves a URL, paying for it by hand when the
// server answers with an L402 challenge.
//
//	L402_URL=https://example.com/premium l402-fetch
//	l402-fetch -config l402.yaml https://example.com/premium
//
// The invoice is printed to stderr and the preimage is read from stdin.
// The response body is written to stdout.
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/lmittmann/tint"

	buyer "github.com/selesy/l402-buyer"
	"github.com/selesy/l402-buyer/pkg/api"
	"github.com/selesy/l402-buyer/pkg/payer"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("l402-fetch", flag.ContinueOnError)
	flags.SetOutput(stderr)
	path := flags.String("config", "", "YAML configuration file (or L402_CONFIG)")

	if err := flags.Parse(args); err != nil {
		return 2
	}

	if *path == "" {
		*path = os.Getenv(envPrefix + "CONFIG")
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		slog.New(tint.NewHandler(stderr, nil)).Error("failed to load configuration", tint.Err(err))

		return 1
	}

	if flags.NArg() > 0 {
		cfg.URL = flags.Arg(0)
	}

	log := slog.New(tint.NewHandler(stderr, &tint.Options{
		Level: cfg.level(),
	}))

	if err := cfg.validate(); err != nil {
		log.Error("invalid configuration", tint.Err(err))

		return 1
	}

	pp, err := payer.NewPreimagePayer(
		payer.Prompt(stdin, stderr),
		payer.WithScheme(api.Scheme(strings.ToUpper(cfg.Scheme))),
		payer.WithProofHeader(cfg.ProofHeader),
	)
	if err != nil {
		log.Error("failed to create payer", tint.Err(err))

		return 1
	}

	client, err := buyer.ClientForPayer(pp,
		buyer.WithLogger(log),
		buyer.WithProofHeader(cfg.ProofHeader),
		buyer.WithMaxRetries(cfg.MaxRetries),
	)
	if err != nil {
		log.Error("failed to create client", tint.Err(err))

		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(cfg.Method), cfg.URL, nil)
	if err != nil {
		log.Error("failed to create HTTP request", tint.Err(err))

		return 1
	}

	resp, err := client.Do(req)
	if err != nil {
		log.Error("failed to make HTTP request", tint.Err(err))

		return 1
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Error("failed to close response body", tint.Err(err))
		}
	}()

	for k, vs := range resp.Header {
		for _, v := range vs {
			log.Debug("HTTP response header", slog.String("key", k), slog.String("value", v))
		}
	}

	if _, err := io.Copy(stdout, resp.Body); err != nil {
		log.Error("failed to read response body", tint.Err(err))

		return 1
	}

	log.Info("HTTP response", slog.Int("code", resp.StatusCode))

	if resp.StatusCode >= http.StatusBadRequest {
		return 1
	}

	return 0
}
