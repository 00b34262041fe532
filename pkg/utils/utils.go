// Package utils holds the download cache and the on-disk snapshot store used
// by the dataset loaders.
package utils

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

var ErrNotFound = errors.New("file not found on server")

// CacheDir is where GetCachedReader keeps downloaded files.
var CacheDir = "data/cache"

var client = &http.Client{Timeout: 5 * time.Minute}

// progressLogStep is how many bytes a download advances between log lines.
const progressLogStep = 8 << 20

type progressWriter struct {
	io.Writer
	prefix string
	total  uint64
	next   uint64
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.total += uint64(n)
	if pw.total >= pw.next {
		log.Printf("%s %s so far", pw.prefix, humanize.Bytes(pw.total))
		pw.next = pw.total + progressLogStep
	}
	return n, err
}

// get issues a GET and maps a missing file to ErrNotFound. The caller closes
// the body.
func get(url string) (io.ReadCloser, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusOK {
		return resp.Body, nil
	}
	closeBody(resp.Body)
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
}

func closeBody(rc io.Closer) {
	if err := rc.Close(); err != nil {
		log.Printf("Error closing response body: %v", err)
	}
}

// DownloadFile writes url to dst through a temp file in the same directory,
// so dst only ever holds a complete download.
func DownloadFile(url, dst, logPrefix string) error {
	body, err := get(url)
	if err != nil {
		return err
	}
	defer closeBody(body)

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".download-*")
	if err != nil {
		return err
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil && !os.IsNotExist(err) {
			log.Printf("%s Error removing %s: %v", logPrefix, tmp.Name(), err)
		}
	}()

	pw := &progressWriter{Writer: tmp, prefix: logPrefix, next: progressLogStep}
	if _, err := io.Copy(pw, body); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	log.Printf("%s Saved %s (%s)", logPrefix, filepath.Base(dst), humanize.Bytes(pw.total))
	return os.Rename(tmp.Name(), dst)
}

// Exists reports whether a HEAD request for url succeeds.
func Exists(url string) bool {
	resp, err := client.Head(url)
	if err != nil {
		return false
	}
	closeBody(resp.Body)
	return resp.StatusCode == http.StatusOK
}

// GetCacheFileName is the cache file for url. The log prefix, without its
// brackets, is prepended so datasets that share a file name stay apart.
func GetCacheFileName(url, logPrefix string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	name := path.Base(url)
	tag := strings.ReplaceAll(strings.Trim(logPrefix, "[]"), " ", "_")
	if tag == "" {
		return name
	}
	return tag + "_" + name
}

// GetCachedReader opens url. With useCache the file is downloaded into
// CacheDir once and read from disk afterwards.
func GetCachedReader(url string, useCache bool, logPrefix string) (io.ReadCloser, error) {
	if !useCache {
		log.Printf("%s Streaming from %s", logPrefix, url)
		return get(url)
	}

	if err := os.MkdirAll(CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	local := filepath.Join(CacheDir, GetCacheFileName(url, logPrefix))
	if _, err := os.Stat(local); errors.Is(err, os.ErrNotExist) {
		log.Printf("%s Downloading %s", logPrefix, url)
		if err := DownloadFile(url, local, logPrefix); err != nil {
			return nil, err
		}
	} else {
		log.Printf("%s Using cached file %s", logPrefix, local)
	}
	f, err := os.Open(local)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return f, nil
}
