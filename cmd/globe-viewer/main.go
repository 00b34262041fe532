package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/hajimehoshi/ebiten/v2"
	_ "github.com/silbinarywolf/preferdiscretegpu"

	"github.com/sudorandom/pr-globe/pkg/feed"
	"github.com/sudorandom/pr-globe/pkg/globeengine"
	"github.com/sudorandom/pr-globe/pkg/sources"
	"github.com/sudorandom/pr-globe/pkg/utils"
)

type CLI struct {
	Config kong.ConfigFlag `help:"Load flags from a JSON file." placeholder:"FILE"`

	Data       string `help:"Pull request dataset, a file path or URL." required:"" env:"GLOBE_DATA"`
	Mask       string `help:"Land mask: a PNG, a GeoJSON file or URL, or one of: countries, natural-earth." default:"natural-earth" env:"GLOBE_MASK"`
	MaskWidth  int    `help:"Width of a rasterised land mask." default:"1440"`
	MaskHeight int    `help:"Height of a rasterised land mask." default:"720"`

	Width        int     `help:"Internal rendering width." default:"1920"`
	Height       int     `help:"Internal rendering height." default:"1080"`
	Scale        float64 `help:"Text and card scale." default:"1"`
	WindowWidth  int     `help:"Initial window width (non-headless only)." default:"1280"`
	WindowHeight int     `help:"Initial window height (non-headless only)." default:"720"`
	TPS          int     `help:"Ticks per second (engine updates)." default:"60"`
	Headless     bool    `help:"Run without a local window (Xvfb rendering active)."`

	FeedAddr        string `help:"Serve the websocket event feed on this address, e.g. :8080." env:"GLOBE_FEED_ADDR"`
	CaptureDir      string `help:"Directory for PNG frame captures (press P)." type:"path"`
	CaptureInterval int    `help:"Also capture every N frames." default:"0"`

	Cache     bool   `help:"Cache downloads under --cache-dir." default:"true" negatable:""`
	CacheDir  string `help:"Download cache directory." default:"data/cache" type:"path"`
	Snapshots string `help:"Badger directory keeping the last good copy of every dataset." type:"path"`
}

func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	var cli CLI
	kong.Parse(&cli,
		kong.Name("globe-viewer"),
		kong.Description("Spin a globe of pull requests opened and merged around the world."),
		kong.Configuration(kong.JSON),
		kong.UsageOnError(),
	)

	utils.CacheDir = cli.CacheDir
	loader := sources.Loader{UseCache: cli.Cache}
	if cli.Snapshots != "" {
		store, err := utils.OpenSnapshotStore(cli.Snapshots)
		if err != nil {
			log.Fatalf("Failed to open snapshot store: %v", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("Error closing snapshot store: %v", err)
			}
		}()
		loader.Store = store
	}

	engine := globeengine.NewEngine(cli.Width, cli.Height, cli.Scale)
	engine.FPS = cli.TPS
	engine.FrameCaptureDir = cli.CaptureDir
	engine.CaptureInterval = cli.CaptureInterval

	engine.InitTextures()
	if err := engine.LoadData(loader, cli.Data, cli.Mask, cli.MaskWidth, cli.MaskHeight); err != nil {
		log.Fatalf("Failed to initialize engine data: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cli.FeedAddr != "" {
		hub := feed.NewHub(256)
		engine.Publisher = hub
		go hub.Run(ctx)
		go serveFeed(ctx, cli.FeedAddr, hub)
	}

	ebiten.SetTPS(cli.TPS)
	if cli.Headless {
		log.Println("Running in HEADLESS mode (Rendering active).")
	} else {
		ebiten.SetWindowSize(cli.WindowWidth, cli.WindowHeight)
		ebiten.SetWindowTitle("Pull Request Globe")
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if err := ebiten.RunGame(engine); err != nil {
		log.Fatal(err)
	}
}

func serveFeed(ctx context.Context, addr string, hub *feed.Hub) {
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[FEED] Serving events on ws://%s/ws", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[FEED] Server error: %v", err)
	}
}
