// Licensed to Andrew Kroh under one or more agreements.
// Andrew Kroh licenses this file to you under the Apache 2.0 License.
// See the LICENSE file in the project root for more information.

// Package main implements ghapi, a command line client for the GitHub
// users, followers, keys, repositories and gists APIs.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/andrewkroh/go-github-api/api"
	"github.com/andrewkroh/go-github-api/api/user"
	"github.com/andrewkroh/go-github-api/internal/otelsetup"
)

// version is set at build time via -ldflags "-X main.version=v1.0.0".
var version = "dev"

const usage = `Usage: ghapi [flags] <command> [args]

Commands:
  user [USERNAME]          show a profile (authenticated user when omitted)
  followers [USERNAME]     list followers
  following [USERNAME]     list followed users
  follow USERNAME          follow a user
  unfollow USERNAME        unfollow a user
  is-following USERNAME    check whether you follow a user
  emails                   list your email addresses
  keys [USERNAME]          list public keys
  repos [USERNAME]         list repositories
  gists [USERNAME]         list gists

Flags:
`

// Config holds the client configuration merged from CLI flags, GHAPI_*
// environment variables and an optional config file.
type Config struct {
	// BaseURL is the GitHub API base URL.
	BaseURL string

	// Username and Password enable basic authentication.
	Username string
	Password string

	// Token enables OAuth token authentication.
	Token string

	// Output is the result format: json or yaml.
	Output string

	// LogLevel is the minimum level written to stderr.
	LogLevel slog.Level

	// RuntimeMetrics enables Go runtime metrics export.
	RuntimeMetrics bool

	// HostMetrics enables host CPU, memory and network metrics export.
	HostMetrics bool

	// Command and Args are the positional arguments.
	Command string
	Args    []string
}

// parseFlags parses CLI flags from the given arguments into a Config.
// Values not given on the command line fall back to GHAPI_* environment
// variables, then to the --config file, then to the flag defaults.
func parseFlags(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("ghapi", pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}

	fs.String("config", "", "Path to a config file (yaml, toml or json)")
	fs.String("base-url", "https://api.github.com", "GitHub API base URL")
	fs.String("username", "", "Username for basic authentication")
	fs.String("password", "", "Password for basic authentication")
	fs.String("token", "", "OAuth token")
	fs.StringP("output", "o", "json", "Output format: json or yaml")
	fs.String("log-level", "warn", "Log level: debug, info, warn or error")
	fs.Bool("runtime-metrics", false, "Export Go runtime metrics")
	fs.Bool("host-metrics", false, "Export host CPU, memory and network metrics")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("ghapi")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{
		BaseURL:        v.GetString("base-url"),
		Username:       v.GetString("username"),
		Password:       v.GetString("password"),
		Token:          v.GetString("token"),
		Output:         v.GetString("output"),
		RuntimeMetrics: v.GetBool("runtime-metrics"),
		HostMetrics:    v.GetBool("host-metrics"),
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("log-level"))); err != nil {
		return nil, fmt.Errorf("invalid log level %q", v.GetString("log-level"))
	}
	if rest := fs.Args(); len(rest) > 0 {
		cfg.Command = rest[0]
		cfg.Args = rest[1:]
	}

	if err := cfg.validate(); err != nil {
		// Print usage to stderr when validation fails.
		fmt.Fprintf(fs.Output(), "Error: %v\n\n", err)
		fs.Usage()
		return nil, err
	}

	return cfg, nil
}

// validate checks that the Config is complete and consistent.
func (c *Config) validate() error {
	if c.Command == "" {
		return errors.New("a command is required")
	}
	if c.BaseURL == "" {
		return errors.New("flag --base-url must not be empty")
	}
	if (c.Username == "") != (c.Password == "") {
		return errors.New("flags --username and --password must be set together")
	}
	if c.Token != "" && c.Username != "" {
		return errors.New("flags --token and --username are mutually exclusive")
	}
	if c.Output != "json" && c.Output != "yaml" {
		return fmt.Errorf("flag --output must be json or yaml, got %q", c.Output)
	}
	return nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	// Set up slog with trace context injection.
	logger := otelsetup.NewLogger(os.Stderr, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := otelsetup.Setup(ctx, otelsetup.Config{
		ServiceName:    "ghapi",
		ServiceVersion: version,
		RuntimeMetrics: cfg.RuntimeMetrics,
		HostMetrics:    cfg.HostMetrics,
	})
	if err != nil {
		slog.Error("failed to set up OpenTelemetry", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.Error("OpenTelemetry shutdown error", slog.String("error", err.Error()))
		}
	}()

	if err := run(ctx, cfg, logger, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "ghapi: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// run builds the client from cfg, executes the command and writes the
// result to w.
func run(ctx context.Context, cfg *Config, logger *slog.Logger, w io.Writer) error {
	transport := api.NewHTTPTransport(
		api.WithBaseURL(cfg.BaseURL),
		api.WithLogger(logger),
		api.WithUserAgent("ghapi/"+version),
	)
	session := api.NewSession(transport, api.WithSessionLogger(logger))

	var err error
	switch {
	case cfg.Token != "":
		err = session.SetToken(cfg.Token)
	case cfg.Username != "":
		err = session.SetCredentials(cfg.Username, cfg.Password)
	}
	if err != nil {
		return err
	}
	if session.State() == api.StateReady {
		if err := session.Login(); err != nil {
			return err
		}
	}

	result, err := execute(ctx, user.New(session), cfg.Command, cfg.Args)
	if err != nil {
		return err
	}
	return writeResult(w, cfg.Output, result)
}

// execute runs a single command. Commands that take an optional username
// use the authenticated variant when it is omitted.
func execute(ctx context.Context, u *user.User, command string, args []string) (any, error) {
	username, hasUsername := "", len(args) > 0
	if hasUsername {
		username = args[0]
	}
	requireUsername := func() error {
		if !hasUsername {
			return fmt.Errorf("command %q requires a USERNAME argument", command)
		}
		return nil
	}

	switch command {
	case "user":
		if hasUsername {
			return u.Get(ctx, username)
		}
		return u.GetAuthenticated(ctx)
	case "followers":
		if hasUsername {
			return u.Followers(ctx, username)
		}
		return u.AuthenticatedFollowers(ctx)
	case "following":
		if hasUsername {
			return u.Following(ctx, username)
		}
		return u.AuthenticatedFollowing(ctx)
	case "follow":
		if err := requireUsername(); err != nil {
			return nil, err
		}
		return u.Follow(ctx, username)
	case "unfollow":
		if err := requireUsername(); err != nil {
			return nil, err
		}
		return u.Unfollow(ctx, username)
	case "is-following":
		if err := requireUsername(); err != nil {
			return nil, err
		}
		return u.IsFollowing(ctx, username)
	case "emails":
		return u.Emails().List(ctx)
	case "keys":
		if hasUsername {
			return u.Keys().ListForUser(ctx, username)
		}
		return u.Keys().List(ctx)
	case "repos":
		if hasUsername {
			return u.Repos().List(ctx, username, user.RepoListOptions{})
		}
		return u.Repos().ListAuthenticated(ctx, user.RepoListOptions{})
	case "gists":
		if hasUsername {
			return u.Gists().List(ctx, username)
		}
		return u.Gists().ListAuthenticated(ctx)
	default:
		return nil, fmt.Errorf("unknown command %q", command)
	}
}

// writeResult renders v as indented JSON or as YAML. YAML output goes
// through the JSON encoding so both formats share the API field names.
func writeResult(w io.Writer, format string, v any) error {
	encoded, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	// Numbers stay json.Number so 64-bit ids are not rounded through float64.
	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(generic)
	}
}
