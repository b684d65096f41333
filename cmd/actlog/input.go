package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/time/rate"

	"github.com/actlog/actlog-go/internal/logfinder"
	"github.com/actlog/actlog-go/internal/safefile"
	"github.com/actlog/actlog-go/internal/store"
	"github.com/actlog/actlog-go/pkg/actlog"
	"github.com/actlog/actlog-go/pkg/actlog/classify"
)

// logInput is a log file read into memory.
type logInput struct {
	path string
	info os.FileInfo
	text string
}

// resolveLogPath returns args[0], or the newest log in the log directory.
func resolveLogPath(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	finder, err := logfinder.New(cfg.General.LogGlob)
	if err != nil {
		return "", err
	}
	dir := logDir
	if dir == "" {
		dir = cfg.General.LogDir
	}
	dir, err = finder.FindLogDir(dir)
	if err != nil {
		return "", err
	}
	path, err := finder.FindLatestLogFile(dir)
	if err != nil {
		return "", err
	}
	logger.Debug("using newest log", "path", path)
	return path, nil
}

// readLog resolves and reads the log named by args.
func readLog(args []string) (*logInput, error) {
	path, err := resolveLogPath(args)
	if err != nil {
		return nil, err
	}
	data, info, err := safefile.ReadLimited(path, cfg.MaxFileBytes())
	if err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	logger.Debug("log read", "path", path, "size", humanize.Bytes(uint64(info.Size())))
	return &logInput{path: path, info: info, text: string(data)}, nil
}

// classifier returns the profile's classifier, or the default one.
func classifier() *classify.Classifier {
	return prof.Classifier()
}

// baseOptions are the scan options shared by every command.
func baseOptions(stderr io.Writer, label string) []actlog.Option {
	opts := []actlog.Option{
		actlog.WithMaxEvents(cfg.Scan.MaxEvents),
		actlog.WithMaxStatusEvents(cfg.Scan.MaxStatusEvents),
		actlog.WithIncludeStatus(cfg.Scan.IncludeStatus),
		actlog.WithWindowSize(cfg.Scan.WindowKB << 10),
		actlog.WithClassifier(classifier()),
		actlog.WithLogger(logger),
	}
	if !quiet {
		opts = append(opts, actlog.WithProgress(newProgress(stderr, label)))
	}
	return opts
}

// newProgress returns a ProgressFunc that redraws a percentage line at most
// every 100ms. The final 1.0 is always drawn.
func newProgress(w io.Writer, label string) actlog.ProgressFunc {
	every := &rate.Sometimes{Interval: 100 * time.Millisecond}
	return func(f float64) error {
		if f >= 1 {
			fmt.Fprintf(w, "\r  %s 100%%\n", label)
			return nil
		}
		every.Do(func() {
			fmt.Fprintf(w, "\r  %s %3.0f%%", label, f*100)
		})
		return nil
	}
}

// cacheFingerprint identifies the settings a structure index depends on.
func cacheFingerprint() string {
	if prof == nil || len(prof.PetNames) == 0 {
		return "default"
	}
	names := make([]string, len(prof.PetNames))
	for i, n := range prof.PetNames {
		names[i] = strings.ToLower(strings.TrimSpace(n))
	}
	sort.Strings(names)
	sum := sha256.Sum256([]byte(strings.Join(names, "\x00")))
	return "pets:" + hex.EncodeToString(sum[:8])
}

// loadZones returns the structure index of in, using the cache unless
// --no-cache or cache.enabled=false. Cache failures fall back to a scan.
func loadZones(ctx context.Context, in *logInput, stderr io.Writer) ([]actlog.ZoneSession, error) {
	useCache := !noCache && cfg.Cache.Enabled
	var cache *store.Cache
	var key store.Key
	if useCache {
		var err error
		cache, err = store.Open(cfg.CachePath())
		if err != nil {
			logger.Debug("cache unavailable", "error", err)
		} else {
			defer cache.Close()
			key = store.KeyFor(in.path, in.info, cacheFingerprint())
			zones, ok, err := cache.Lookup(key)
			switch {
			case err != nil:
				logger.Debug("cache lookup failed", "error", err)
			case ok:
				logger.Debug("index loaded from cache", "zones", len(zones))
				return zones, nil
			}
		}
	}

	zones, err := actlog.ScanStructure(ctx, in.text, baseOptions(stderr, "indexing")...)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		if err := cache.Save(key, zones); err != nil {
			logger.Debug("cache save failed", "error", err)
		}
	}
	return zones, nil
}
