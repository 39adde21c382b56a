package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// Globals are shared by every command.
type Globals struct {
	Config   string `help:"Board config file (.yaml or .toml). Defaults to ./turbolights.yaml or ./turbolights.toml when present." short:"c" type:"path" env:"TURBOLIGHTS_CONFIG"`
	LogLevel string `help:"Log level" default:"info" enum:"trace,debug,info,warn,error" env:"TURBOLIGHTS_LOG_LEVEL"`
}

type CLI struct {
	Globals

	Run  RunCmd  `cmd:"" default:"1" help:"Drive the LEDs (keyboard input with --driver term)"`
	Play PlayCmd `cmd:"" help:"Drive the LEDs from an input script"`
	Init InitCmd `cmd:"" help:"Write a board config with every default filled in"`
}

func main() {
	var cli CLI
	parser, ctx, err := parse(&cli, os.Args[1:])
	parser.FatalIfErrorf(err)

	ctx.Bind(setupLogger(cli.LogLevel))
	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

// parse reads args into cli. Flag defaults come from the same board config
// the command loads; flags still win.
func parse(cli *CLI, args []string) (*kong.Kong, *kong.Context, error) {
	opts := []kong.Option{
		kong.Name("turbolights"),
		kong.Description("Reactive LED effects for a two-knob rhythm controller"),
		kong.UsageOnError(),
		kong.Bind(&cli.Globals),
	}
	parser := kong.Must(cli, opts...)
	ctx, err := parser.Parse(args)
	if err != nil {
		return parser, nil, err
	}
	path := cli.configPath()
	if path == "" {
		return parser, ctx, nil
	}

	res, err := flagResolver(path)
	if err != nil {
		return parser, nil, err
	}
	*cli = CLI{}
	parser = kong.Must(cli, append(opts, kong.Resolvers(res))...)
	ctx, err = parser.Parse(args)
	return parser, ctx, err
}

// flagResolver reads flag defaults from a board config file.
func flagResolver(path string) (kong.Resolver, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return kongtoml.Loader(f)
	}
	return kongyaml.Loader(f)
}

func setupLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	return log.Logger
}
