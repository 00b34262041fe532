package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sudorandom/pr-globe/pkg/sources"
	"github.com/sudorandom/pr-globe/pkg/utils"
)

type SourcesCmd struct {
	Offline bool   `help:"Do not check whether the URLs are reachable."`
	Data    string `help:"Also check a dataset URL." env:"GLOBE_DATA"`
}

func (c *SourcesCmd) Run(g *Globals) error {
	names := make([]string, 0, len(sources.LandMaskURLs))
	for name := range sources.LandMaskURLs {
		names = append(names, name)
	}
	sort.Strings(names)

	check := func(label, url string) {
		status := ""
		if !c.Offline && (strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")) {
			status = "unreachable"
			if utils.Exists(url) {
				status = "ok"
			}
		}
		fmt.Printf("%-14s %-12s %s\n", label, status, url)
	}
	for _, name := range names {
		check(name, sources.LandMaskURLs[name])
	}
	if c.Data != "" {
		check("data", c.Data)
	}
	return nil
}
