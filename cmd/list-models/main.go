package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/charlespascoe/openai-list-models/pkg/models"
	"github.com/charlespascoe/openai-list-models/pkg/props"
)

type Context struct {
	context.Context
	Log    zerolog.Logger
	Stdout io.Writer
	CLI    *CLI
}

type CLI struct {
	Verbose bool   `kong:"short='v',help='Log diagnostics to stderr.'"`
	Config  string `kong:"default='${config}',placeholder='PATH',help='Properties file holding the API key.'"`
	Key     string `kong:"default='${key}',placeholder='NAME',help='Name of the API key entry in the properties file.'"`
	BaseURL string `kong:"hidden,env='OPENAI_BASE_URL'"`

	ListModels ListModelsCmd `kong:"cmd,default='1',help='Fetch and list all available models.'"`
}

const (
	exitUsage            = 1
	exitConfigUnreadable = 2
	exitCredential       = 3
	exitRequestFailed    = 4
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var cli CLI

	parser, err := kong.New(
		&cli,
		kong.Name("list-models"),
		kong.Description("Print the models available to an OpenAI API key."),
		kong.Writers(stdout, stderr),
		kong.Vars{
			"config": props.DefaultPath,
			"key":    props.DefaultKey,
		},
	)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "list-models: error: %s\n", err)
		return exitUsage
	}

	err = ctx.Run(&Context{
		Context: context.Background(),
		Log:     newLogger(stderr, cli.Verbose),
		Stdout:  stdout,
		CLI:     &cli,
	})
	if err != nil {
		fmt.Fprintf(stderr, "list-models: error: %s\n", err)
		return exitCode(err)
	}

	return 0
}

func exitCode(err error) int {
	var (
		cfgErr  *props.ConfigUnreadableError
		credErr *props.CredentialMissingError
		reqErr  *models.RequestFailedError
	)

	switch {
	case errors.As(err, &cfgErr):
		return exitConfigUnreadable
	case errors.As(err, &credErr):
		return exitCredential
	case errors.As(err, &reqErr):
		return exitRequestFailed
	default:
		return exitUsage
	}
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	}

	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()
}
