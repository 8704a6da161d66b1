package loadtest

import (
	"flag"
	"fmt"
	"io"
)

// ParseFlags builds a Config from command-line arguments.
func ParseFlags(args []string, out io.Writer) (*Config, error) {
	cfg := &Config{}
	fs := flag.NewFlagSet("loadtest", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&cfg.BaseURL, "url", DefaultBaseURL, "Base URL of the service")
	fs.IntVar(&cfg.Students, "students", DefaultStudents, "Number of synthetic students to sign up")
	fs.IntVar(&cfg.Workers, "workers", DefaultWorkers, "Number of concurrent workers")
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "HTTP request timeout")
	fs.BoolVar(&cfg.Cleanup, "cleanup", true, "Unregister synthetic students afterwards")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Log every request")
	fs.Usage = func() {
		fmt.Fprintf(out, `Mergington roster load test

Signs up synthetic students concurrently, retries a share of them to provoke
duplicates, then checks that every roster holds each accepted email exactly once.

Usage:
  loadtest [options]

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.Students < 1 {
		return nil, fmt.Errorf("students must be positive, got %d", cfg.Students)
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be positive, got %d", cfg.Workers)
	}
	return cfg, nil
}
