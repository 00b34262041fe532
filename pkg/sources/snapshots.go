package sources

import (
	"strings"
	"time"

	"github.com/sudorandom/pr-globe/pkg/utils"
)

const (
	snapshotPrefix = "snapshot:"
	fetchedPrefix  = "fetched:"
)

// Snapshot describes one dataset kept in a snapshot store.
type Snapshot struct {
	Name    string
	Size    int
	Fetched time.Time
}

func snapshotName(src, logPrefix string) string {
	return utils.GetCacheFileName(src, logPrefix)
}

// saveSnapshot stores data together with the time it was fetched.
func saveSnapshot(store *utils.SnapshotStore, name string, data []byte, fetched time.Time) error {
	return store.BatchPut(map[string][]byte{
		snapshotPrefix + name: data,
		fetchedPrefix + name:  []byte(fetched.UTC().Format(time.RFC3339)),
	})
}

// Snapshots lists every dataset kept in store, in name order.
func Snapshots(store *utils.SnapshotStore) ([]Snapshot, error) {
	var out []Snapshot
	err := store.ForEach(snapshotPrefix, func(k, v []byte) error {
		out = append(out, Snapshot{
			Name: strings.TrimPrefix(string(k), snapshotPrefix),
			Size: len(v),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	for i := range out {
		ts, err := store.Get(fetchedPrefix + out[i].Name)
		if err != nil || ts == nil {
			continue
		}
		out[i].Fetched, _ = time.Parse(time.RFC3339, string(ts))
	}
	return out, nil
}

// DeleteSnapshot forgets the snapshot called name.
func DeleteSnapshot(store *utils.SnapshotStore, name string) error {
	if err := store.Delete(snapshotPrefix + name); err != nil {
		return err
	}
	return store.Delete(fetchedPrefix + name)
}
