package main

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/sudorandom/pr-globe/pkg/sources"
)

type SnapshotsCmd struct {
	Delete []string `help:"Forget these snapshots." placeholder:"NAME"`
}

func (c *SnapshotsCmd) Run(g *Globals) error {
	if g.Snapshots == "" {
		return errors.New("--snapshots is required")
	}
	l, release, err := g.loader()
	if err != nil {
		return err
	}
	defer release()

	for _, name := range c.Delete {
		if err := sources.DeleteSnapshot(l.Store, name); err != nil {
			return fmt.Errorf("deleting %s: %w", name, err)
		}
		fmt.Printf("Deleted %s\n", name)
	}

	snaps, err := sources.Snapshots(l.Store)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Println("No snapshots.")
		return nil
	}
	for _, s := range snaps {
		fetched := "unknown"
		if !s.Fetched.IsZero() {
			fetched = humanize.Time(s.Fetched)
		}
		fmt.Printf("%-40s %10s  fetched %s\n", s.Name, humanize.Bytes(uint64(s.Size)), fetched)
	}
	return nil
}
