package internal

import "io"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	command string
	output  io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithCommand selects the pipeline to run: CommandIngest, CommandRebuild or
// CommandWatch.
func WithCommand(name string) Option {
	return func(a *application) {
		a.command = name
	}
}

// WithOutput redirects log output. It defaults to stderr.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.output = w
	}
}
