// Package sources loads the pull request dataset and the land mask the globe
// is built from.
package sources

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/sudorandom/pr-globe/pkg/globe"
	"github.com/sudorandom/pr-globe/pkg/utils"
)

var ErrNoRecords = errors.New("dataset has no records")

// Degrees decodes a latitude or longitude given either as a JSON number or a
// string. Anything else decodes to NaN, which the globe treats as invalid.
type Degrees float64

func (d *Degrees) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(strings.TrimSpace(s))
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		v = math.NaN()
	}
	*d = Degrees(v)
	return nil
}

type Location struct {
	Lat Degrees `json:"lat"`
	Lon Degrees `json:"lon"`
}

// Coordinate converts a possibly missing location. A nil location is NaN.
func (l *Location) Coordinate() globe.GeoCoordinate {
	if l == nil {
		return globe.GeoCoordinate{Lat: math.NaN(), Lon: math.NaN()}
	}
	return globe.GeoCoordinate{Lat: float64(l.Lat), Lon: float64(l.Lon)}
}

// Record is one pull request as published in the dataset. Merged pull
// requests carry both locations; open ones only the opening location.
type Record struct {
	GeoOpened          *Location `json:"gop"`
	GeoMerged          *Location `json:"gm"`
	UserOpenedLocation string    `json:"uol"`
	UserMergedLocation string    `json:"uml"`
	Language           *string   `json:"l"`
	NameWithOwner      string    `json:"nwo"`
	PR                 int       `json:"pr"`
	MergedAt           string    `json:"ma"`
	OpenedAt           string    `json:"oa"`
}

func (r Record) Merged() bool {
	return r.GeoMerged != nil
}

type RecordType string

const (
	TypeMerged RecordType = "PR_MERGED"
	TypeOpened RecordType = "PR_OPENED"
)

// Info is what an info card shows for a picked arc or spike.
type Info struct {
	Type               RecordType `json:"type"`
	NameWithOwner      string     `json:"name_with_owner"`
	PR                 int        `json:"pr_id"`
	Language           string     `json:"language,omitempty"`
	LanguageColor      string     `json:"language_color,omitempty"`
	UserOpenedLocation string     `json:"user_opened_location"`
	UserMergedLocation string     `json:"user_merged_location,omitempty"`
}

func (r Record) Info() Info {
	info := Info{
		Type:               TypeOpened,
		NameWithOwner:      r.NameWithOwner,
		PR:                 r.PR,
		UserOpenedLocation: r.UserOpenedLocation,
	}
	if r.Merged() {
		info.Type = TypeMerged
		info.UserMergedLocation = r.UserMergedLocation
	}
	if r.Language != nil {
		info.Language = *r.Language
		info.LanguageColor = LanguageColors[*r.Language]
	}
	return info
}

// Header is the card title, e.g. "#42 owner/repo".
func (i Info) Header() string {
	return fmt.Sprintf("#%d %s", i.PR, i.NameWithOwner)
}

// Body is the card text under the header.
func (i Info) Body() string {
	body := "Opened in " + i.UserOpenedLocation
	if i.Type == TypeMerged {
		body += ",\nmerged in " + i.UserMergedLocation
	}
	return body
}

// Pairs returns one pair per record, in record order, so that arc data
// indices are record indices. Open pull requests get a NaN merge location
// and are skipped by the arc builder.
func Pairs(records []Record) []globe.Pair {
	pairs := make([]globe.Pair, len(records))
	for i, r := range records {
		pairs[i] = globe.Pair{Origin: r.GeoOpened.Coordinate(), Merge: r.GeoMerged.Coordinate()}
	}
	return pairs
}

// Origins returns the opening location of every open pull request, in record
// order. Merged records get a NaN coordinate so spike data indices are
// record indices.
func Origins(records []Record) []globe.GeoCoordinate {
	origins := make([]globe.GeoCoordinate, len(records))
	for i, r := range records {
		if r.Merged() {
			origins[i] = (*Location)(nil).Coordinate()
			continue
		}
		origins[i] = r.GeoOpened.Coordinate()
	}
	return origins
}

func DecodeRecords(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

// Loader fetches datasets from files or URLs. When Store is set every
// successful fetch is kept as a snapshot and used when a later fetch fails.
type Loader struct {
	UseCache bool
	Store    *utils.SnapshotStore
}

func isURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// fetch reads src fully. logPrefix tags log lines and names the snapshot.
func (l Loader) fetch(src, logPrefix string) ([]byte, error) {
	var rc io.ReadCloser
	var err error
	if isURL(src) {
		rc, err = utils.GetCachedReader(src, l.UseCache, logPrefix)
	} else {
		rc, err = os.Open(src)
	}
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rc.Close(); err != nil {
			log.Printf("%s Error closing %s: %v", logPrefix, src, err)
		}
	}()
	return io.ReadAll(rc)
}

// load fetches src and runs decode on it, falling back to the last snapshot
// that decoded successfully.
func (l Loader) load(src, logPrefix string, decode func([]byte) error) error {
	data, err := l.fetch(src, logPrefix)
	if err == nil {
		if err = decode(data); err == nil {
			log.Printf("%s Loaded %s from %s", logPrefix, humanize.Bytes(uint64(len(data))), src)
			if l.Store != nil {
				if perr := saveSnapshot(l.Store, snapshotName(src, logPrefix), data, time.Now()); perr != nil {
					log.Printf("%s Failed to save snapshot: %v", logPrefix, perr)
				}
			}
			return nil
		}
	}
	if l.Store == nil {
		return err
	}

	snap, serr := l.Store.Get(snapshotPrefix + snapshotName(src, logPrefix))
	if serr != nil || snap == nil {
		return err
	}
	log.Printf("%s Fetch failed (%v), using snapshot of %s", logPrefix, err, humanize.Bytes(uint64(len(snap))))
	if derr := decode(snap); derr != nil {
		return fmt.Errorf("%w (snapshot: %v)", err, derr)
	}
	return nil
}

// Records loads the pull request dataset from a file path or URL.
func (l Loader) Records(src string) ([]Record, error) {
	var records []Record
	err := l.load(src, "[DATA]", func(b []byte) error {
		var err error
		records, err = DecodeRecords(bytes.NewReader(b))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src, err)
	}

	merged := 0
	for _, r := range records {
		if r.Merged() {
			merged++
		}
	}
	log.Printf("[DATA] %s pull requests, %s merged", humanize.Comma(int64(len(records))), humanize.Comma(int64(merged)))
	return records, nil
}
