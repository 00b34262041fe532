package main

import (
	"log"
	"os"

	"github.com/alecthomas/kong"

	"github.com/sudorandom/pr-globe/pkg/sources"
	"github.com/sudorandom/pr-globe/pkg/utils"
)

type Globals struct {
	Config kong.ConfigFlag `help:"Load flags from a JSON file." placeholder:"FILE"`

	Cache     bool   `help:"Cache downloads under --cache-dir." default:"true" negatable:""`
	CacheDir  string `help:"Download cache directory." default:"data/cache" type:"path"`
	Snapshots string `help:"Badger directory keeping the last good copy of every dataset." type:"path"`
}

// loader returns a loader for the global flags and a func that releases it.
func (g *Globals) loader() (sources.Loader, func(), error) {
	utils.CacheDir = g.CacheDir
	l := sources.Loader{UseCache: g.Cache}
	if g.Snapshots == "" {
		return l, func() {}, nil
	}
	store, err := utils.OpenSnapshotStore(g.Snapshots)
	if err != nil {
		return l, nil, err
	}
	l.Store = store
	return l, func() {
		if err := store.Close(); err != nil {
			log.Printf("Error closing snapshot store: %v", err)
		}
	}, nil
}

type CLI struct {
	Globals

	Stats   StatsCmd     `cmd:"" help:"Build the globe headless and report what it contains."`
	Watch   WatchCmd     `cmd:"" help:"Follow the event feed of a running viewer."`
	Sources SourcesCmd   `cmd:"" help:"List the built-in land masks and check they are reachable."`
	Snaps   SnapshotsCmd `cmd:"" name:"snapshots" help:"List or delete the dataset snapshots kept in --snapshots."`
}

func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("globe-inspect"),
		kong.Description("Inspect pull request globe datasets and viewers."),
		kong.Configuration(kong.JSON),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(&cli.Globals))
}
