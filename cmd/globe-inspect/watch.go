package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/sudorandom/pr-globe/pkg/feed"
)

type WatchCmd struct {
	URL     string        `help:"Feed of a running globe-viewer." default:"ws://localhost:8080/ws"`
	Timeout time.Duration `help:"How long to run before exiting (0 for infinite)." default:"0"`
	JSON    bool          `help:"Dump raw events instead of showing stats." name:"json"`
}

type watchStats struct {
	mu        sync.Mutex
	startTime time.Time
	byType    map[feed.EventType]int
	repos     map[string]int
	languages map[string]int
	last      feed.Event
}

func newWatchStats() *watchStats {
	return &watchStats{
		startTime: time.Now(),
		byType:    make(map[feed.EventType]int),
		repos:     make(map[string]int),
		languages: make(map[string]int),
	}
}

func (s *watchStats) Record(ev feed.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byType[ev.Type]++
	if ev.Type == feed.EventActivate {
		s.repos[ev.Info.NameWithOwner]++
		if ev.Info.Language != "" {
			s.languages[ev.Info.Language]++
		}
	}
	s.last = ev
}

type counted struct {
	Name  string
	Count int
}

// top returns the n largest entries of m, ties broken by name.
func top(m map[string]int, n int) []counted {
	list := make([]counted, 0, len(m))
	for name, c := range m {
		list = append(list, counted{name, c})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Count != list[j].Count {
			return list[i].Count > list[j].Count
		}
		return list[i].Name < list[j].Name
	})
	if len(list) > n {
		list = list[:n]
	}
	return list
}

func (s *watchStats) Report() {
	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed := time.Since(s.startTime).Seconds()
	if elapsed <= 0 {
		elapsed = 1
	}
	activations := s.byType[feed.EventActivate]

	fmt.Printf("\033[H\033[2J") // Clear screen
	fmt.Printf("Pull Request Globe Feed (Running for %.1fs)\n", elapsed)
	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Arcs launched: %s (%.2f/s)\n", humanize.Comma(int64(activations)), float64(activations)/elapsed)
	fmt.Printf("Arc hovers:    %s\n", humanize.Comma(int64(s.byType[feed.EventHighlight])))
	fmt.Printf("Spike hovers:  %s\n", humanize.Comma(int64(s.byType[feed.EventSpike])))
	fmt.Printf("--------------------------------------------------\n")

	if repos := top(s.repos, 5); len(repos) > 0 {
		fmt.Printf("Top %d Repositories:\n", len(repos))
		for _, r := range repos {
			fmt.Printf("  %s: %d\n", r.Name, r.Count)
		}
	}
	if langs := top(s.languages, 5); len(langs) > 0 {
		fmt.Printf("Top %d Languages:\n", len(langs))
		for _, l := range langs {
			fmt.Printf("  %s: %d\n", l.Name, l.Count)
		}
	}
	if s.last.ID != "" {
		fmt.Printf("--------------------------------------------------\n")
		fmt.Printf("Last: %s %s\n", s.last.Type, s.last.Info.Header())
	}
}

func (c *WatchCmd) Run(g *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	stats := newWatchStats()
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	done := make(chan error, 1)
	go func() {
		done <- feed.Subscribe(ctx, c.URL, func(ev feed.Event) {
			stats.Record(ev)
			if c.JSON {
				_ = enc.Encode(ev)
			}
		})
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case err := <-done:
			log.Println("Exiting...")
			if !c.JSON {
				stats.Report()
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		case <-ticker.C:
			if !c.JSON {
				stats.Report()
			}
		}
	}
}
