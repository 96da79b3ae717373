// Package bundle downloads every resource of an application to disk
package bundle

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/brettbedarf/stshell"
	"github.com/brettbedarf/stshell/fs"
	"github.com/brettbedarf/stshell/internal/util"
	"github.com/brettbedarf/stshell/tree"
)

// Item failure classes, see [Result.Err]
var (
	ErrResolve = errors.New("unable to get details of item")
	ErrFetch   = errors.New("unable to download item")
	ErrWrite   = errors.New("unable to write item")
)

// Result is the outcome of one item of a bundle
type Result struct {
	ID   string
	Name string // display name, "" when the id didn't resolve
	Path string // branch path inside the application
	File string // destination file, set once it's known
	Size int
	Err  error // wraps ErrResolve, ErrFetch or ErrWrite
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Reporter is called with each item's result as soon as it finishes
type Reporter func(Result)

// Report collects every [Result] of one bundle in download order
type Report struct {
	Owner   string
	Dest    string
	Results []Result
}

func (r *Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.OK() {
			n++
		}
	}
	return n
}

func (r *Report) Failed() int {
	return len(r.Results) - r.Succeeded()
}

// Failures returns the failed results only
func (r *Report) Failures() []Result {
	var failed []Result
	for _, res := range r.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}

// Downloader fetches resources one at a time and writes them below a
// destination root as <dest>/<path>/<name>
type Downloader struct {
	fs       fs.FS
	reporter Reporter
	logger   zerolog.Logger
}

type Option func(*Downloader)

// WithReporter registers a callback for per-item results
func WithReporter(r Reporter) Option {
	return func(d *Downloader) {
		d.reporter = r
	}
}

// New creates a Downloader writing through fsys
func New(fsys fs.FS, opts ...Option) *Downloader {
	d := &Downloader{
		fs:     fsys,
		logger: util.GetLogger("bundle"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DownloadApp fetches owner's resource tree and downloads every leaf of it.
// Failing to fetch the tree is the only error that aborts the bundle.
func (d *Downloader) DownloadApp(ctx context.Context, src stshell.BundleSource, owner, dest string) (*Report, error) {
	d.logger.Info().Str("owner", owner).Str("dest", dest).Msg("Downloading bundle")

	nodes, err := src.FetchTree(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resource tree of %s: %w", owner, err)
	}
	if err := tree.Validate(nodes); err != nil {
		d.logger.Warn().Err(err).Str("owner", owner).Msg("Resource tree has duplicate ids, first match wins")
	}
	if err := d.fs.MkdirAll(dest); err != nil {
		d.logger.Warn().Err(err).Str("dest", dest).Msg("Failed to create destination")
	}

	return d.Download(ctx, src, owner, nodes, tree.Flatten(nodes), dest)
}

// Download fetches and writes each id of flat, in order. Item failures are
// recorded in the report and never stop the bundle. The returned error is
// only set when ctx is done, in which case the report holds the items
// finished so far.
func (d *Downloader) Download(ctx context.Context, fetcher stshell.ItemFetcher, owner string,
	nodes []stshell.ResourceNode, flat []string, dest string,
) (*Report, error) {
	report := &Report{Owner: owner, Dest: dest, Results: make([]Result, 0, len(flat))}

	for _, id := range flat {
		if err := ctx.Err(); err != nil {
			d.logger.Warn().Err(err).Int("done", len(report.Results)).Int("total", len(flat)).Msg("Bundle download stopped")
			return report, err
		}

		res := d.downloadItem(ctx, fetcher, owner, nodes, id, dest)
		report.Results = append(report.Results, res)

		if res.OK() {
			d.logger.Info().Str("id", id).Str("file", res.File).Int("size", res.Size).Msg("Downloaded item")
		} else {
			d.logger.Error().Err(res.Err).Str("id", id).Msg("Failed to download item")
		}
		if d.reporter != nil {
			d.reporter(res)
		}
	}

	d.logger.Info().
		Str("owner", owner).
		Int("ok", report.Succeeded()).
		Int("failed", report.Failed()).
		Msg("Bundle downloaded")
	return report, nil
}

func (d *Downloader) downloadItem(ctx context.Context, fetcher stshell.ItemFetcher, owner string,
	nodes []stshell.ResourceNode, id, dest string,
) Result {
	res := Result{ID: id}

	item, ok := tree.Resolve(nodes, id)
	if !ok {
		res.Err = fmt.Errorf("%w %s: %w", ErrResolve, id, tree.ErrNotFound)
		return res
	}
	res.Name, res.Path = item.Name, item.Path

	if err := fs.ValidateName(item.Name); err != nil {
		res.Err = fmt.Errorf("%w: %w", ErrWrite, err)
		return res
	}
	dir, err := fs.SafeJoin(dest, item.Path)
	if err != nil {
		res.Err = fmt.Errorf("%w: %w", ErrWrite, err)
		return res
	}
	res.File, err = fs.SafeJoin(dest, item.Path, item.Name)
	if err != nil {
		res.Err = fmt.Errorf("%w: %w", ErrWrite, err)
		return res
	}

	item.Data, err = fetcher.FetchItem(ctx, owner, id, item.ResourceType)
	if err != nil {
		res.Err = fmt.Errorf("%w %s: %w", ErrFetch, id, err)
		return res
	}
	res.Size = len(item.Data)

	if err := d.fs.MkdirAll(dir); err != nil {
		res.Err = fmt.Errorf("%w: %w", ErrWrite, err)
		return res
	}
	if err := d.fs.WriteFile(res.File, item.Data); err != nil {
		res.Err = fmt.Errorf("%w: %w", ErrWrite, err)
		return res
	}
	return res
}
