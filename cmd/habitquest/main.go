// Command habitquest is a local CLI over a JSON-file profile store. It is
// meant for personal use and quick smoke runs without the HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	jsonfileAdapter "habitquest/adapters/jsonfile"
	"habitquest/engine"
	"habitquest/habit"
)

var (
	dataPath = flag.String("data", defaultDataPath(), "path to the JSON profile store")
	profile  = flag.String("profile", "default", "profile id to operate on")
)

func defaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "habitquest.json"
	}
	return home + "/.habitquest.json"
}

func newService() (*engine.Service, error) {
	store, err := jsonfileAdapter.New(*dataPath)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", *dataPath, err)
	}
	return habit.New(habit.WithStore(store)), nil
}

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&logCmd{}, "")
	subcommands.Register(&statusCmd{}, "")
	subcommands.Register(&addActivityCmd{}, "")
	subcommands.Register(&achievementsCmd{}, "")
	subcommands.Register(&catalogCmd{}, "")
	subcommands.Register(&exportCmd{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
