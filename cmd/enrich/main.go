// Command enrich runs the contact waterfall or a bulk heir search from the
// command line using operator credentials from the environment.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"heirfinder/internal/enrichment/attempts"
	"heirfinder/internal/enrichment/attempts/store/memory"
	"heirfinder/internal/enrichment/bootstrap"
	"heirfinder/internal/enrichment/credentials"
	"heirfinder/internal/enrichment/models"
	"heirfinder/internal/enrichment/waterfall"
	"heirfinder/internal/heirsearch"
	jwttoken "heirfinder/internal/jwt_token"
	"heirfinder/internal/platform/config"
	"heirfinder/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	switch os.Args[1] {
	case "help", "-h", "--help":
		usage(os.Stdout)
	case "contact":
		os.Exit(runContact(ctx, os.Args[2:], os.Stdout))
	case "heirs":
		os.Exit(runHeirs(ctx, os.Args[2:], os.Stdout))
	case "token":
		os.Exit(runToken(os.Args[2:], os.Stdout))
	default:
		_, _ = fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		usage(os.Stderr)
		os.Exit(2)
	}
}

func usage(w io.Writer) {
	_, _ = fmt.Fprint(w, `usage: enrich <command> [flags]

commands:
  contact   find an email and phone for one person
  heirs     search for potential heirs of a decedent
  token     print a development access token

provider keys are read from APOLLO_API_KEY, PDL_API_KEY,
ENDATO_PROFILE_NAME and ENDATO_PROFILE_PASSWORD.
`)
}

func runContact(ctx context.Context, args []string, out io.Writer) int {
	fs := flag.NewFlagSet("contact", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var req models.EnrichmentRequest
	var providersFile, logLevel string
	fs.StringVar(&req.FullName, "name", "", "Full name of the person to enrich (required)")
	fs.StringVar(&req.LastName, "last-name", "", "Last name, when it differs from the last token of -name")
	fs.StringVar(&req.County, "county", "", "County hint")
	fs.StringVar(&req.State, "state", "", "Two-letter state hint")
	fs.StringVar(&req.DecedentName, "decedent", "", "Decedent name, for context only")
	fs.StringVar(&req.PossibleRelation, "relation", "", "Possible relation to the decedent")
	fs.StringVar(&providersFile, "providers", os.Getenv("PROVIDERS_FILE"), "Provider YAML file (env: PROVIDERS_FILE)")
	fs.StringVar(&logLevel, "log-level", "warn", "Log level")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	file, err := config.LoadProviders(providersFile)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return 2
	}
	log := logger.NewWithWriter(os.Stderr, logLevel, "text")
	reg, err := bootstrap.Registry(file, credentials.Static(credentials.FromEnv()), log)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return 2
	}

	store := memory.NewInMemoryStore()
	orchestrator := waterfall.New(reg, append(bootstrap.WaterfallOptions(file),
		waterfall.WithLogger(log),
		waterfall.WithAttemptLogger(attempts.NewPublisher(store, attempts.WithLogger(log))),
	)...)

	result, err := orchestrator.Enrich(ctx, "cli", req)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	if err := writeJSON(out, result); err != nil {
		return 1
	}
	if !result.Success {
		return 1
	}
	return 0
}

func runHeirs(ctx context.Context, args []string, out io.Writer) int {
	fs := flag.NewFlagSet("heirs", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var req models.BulkSearchRequest
	var providersFile, logLevel string
	var pageLimit int
	fs.StringVar(&req.DecedentName, "decedent", "", "Decedent full name (required)")
	fs.StringVar(&req.County, "county", "", "County of death or residence")
	fs.StringVar(&req.LastKnownAddress, "address", "", "Last known street address")
	fs.IntVar(&req.MaxResults, "max", models.DefaultMaxResults, "Maximum candidates to return")
	fs.IntVar(&pageLimit, "pages", 5, "Maximum pages fetched per query")
	fs.StringVar(&providersFile, "providers", os.Getenv("PROVIDERS_FILE"), "Provider YAML file (env: PROVIDERS_FILE)")
	fs.StringVar(&logLevel, "log-level", "warn", "Log level")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	file, err := config.LoadProviders(providersFile)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return 2
	}
	log := logger.NewWithWriter(os.Stderr, logLevel, "text")
	reg, err := bootstrap.Registry(file, credentials.Static(credentials.FromEnv()), log)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return 2
	}

	result := heirsearch.New(reg,
		heirsearch.WithLogger(log),
		heirsearch.WithPageLimit(pageLimit),
	).Search(ctx, req)
	if err := writeJSON(out, result); err != nil {
		return 1
	}
	if !result.Success {
		return 1
	}
	return 0
}

func runToken(args []string, out io.Writer) int {
	cfg := config.FromEnv()
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var requesterID, accountID string
	var ttl time.Duration
	fs.StringVar(&requesterID, "requester", "", "Requester id placed in the token (required)")
	fs.StringVar(&accountID, "account", "", "Account id; defaults to the requester id")
	fs.DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if requesterID == "" {
		_, _ = fmt.Fprintln(os.Stderr, "-requester is required")
		return 2
	}
	if accountID == "" {
		accountID = requesterID
	}

	svc := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	token, err := svc.GenerateAccessToken(requesterID, accountID, ttl)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, token)
	return 0
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "encode output: %v\n", err)
		return err
	}
	return nil
}
