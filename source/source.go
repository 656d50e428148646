// Package source loads CVRF advisories and advisory indexes from local
// files, HTTP servers and remote archives.
package source

import (
	"bufio"
	"bytes"
	"context"
	"log"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/cvrf-eval/cvrf"
	"github.com/aquasecurity/cvrf-eval/utils"
	"github.com/aquasecurity/cvrf-eval/xmlcursor"
)

var (
	retry       = 5
	concurrency = 20
	wait        = 1

	// same link pattern as the SUSE CVRF feed listing
	defaultPattern = regexp.MustCompile(`^cvrf-.*\.xml(\.(bz2|xz|zst))?$`)

	archiveExts = []string{".tar.gz", ".tgz", ".tar.bz2", ".tbz2", ".tar.xz", ".txz", ".zip"}

	// go-getter forced getter, e.g. s3::https://bucket/cvrf-rhsa-2017-3263.xml.xz
	forcedGetter = regexp.MustCompile(`^[A-Za-z0-9]+::`)
)

type options struct {
	fs          afero.Fs
	retry       int
	concurrency int
	wait        int
	pattern     *regexp.Regexp
}

type option func(*options)

func WithFs(fs afero.Fs) option {
	return func(opts *options) {
		opts.fs = fs
	}
}

func WithRetry(retry int) option {
	return func(opts *options) {
		opts.retry = retry
	}
}

func WithConcurrency(concurrency int) option {
	return func(opts *options) {
		opts.concurrency = concurrency
	}
}

// WithWait sets the pause in seconds between two downloads of a worker.
func WithWait(wait int) option {
	return func(opts *options) {
		opts.wait = wait
	}
}

// WithPattern sets which links of an HTML listing are advisories.
func WithPattern(pattern *regexp.Regexp) option {
	return func(opts *options) {
		opts.pattern = pattern
	}
}

type Config struct {
	*options
}

func NewConfig(opts ...option) Config {
	o := &options{
		fs:          afero.NewOsFs(),
		retry:       retry,
		concurrency: concurrency,
		wait:        wait,
		pattern:     defaultPattern,
	}
	for _, opt := range opts {
		opt(o)
	}
	return Config{options: o}
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func isArchive(location string) bool {
	lower := strings.ToLower(location)
	for _, ext := range archiveExts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Load reads a local file or fetches a URL and decompresses the content
// according to its extension. Locations naming a go-getter getter are
// downloaded by go-getter, which also decompresses them.
func (c Config) Load(location string) ([]byte, error) {
	var (
		b   []byte
		err error
	)
	switch {
	case forcedGetter.MatchString(location):
		if b, err = download(location); err != nil {
			return nil, xerrors.Errorf("failed to load %s: %w", location, err)
		}
		return decode(utils.TrimExt(location), b)
	case isRemote(location):
		b, err = utils.FetchURL(location, c.retry)
	default:
		b, err = utils.NewFs(c.fs).ReadFile(location)
	}
	if err != nil {
		return nil, xerrors.Errorf("failed to load %s: %w", location, err)
	}
	return decode(location, b)
}

func download(location string) ([]byte, error) {
	log.Printf("Downloading %s...", location)
	file, err := utils.DownloadToTempFile(context.Background(), location)
	if err != nil {
		return nil, err
	}
	defer os.Remove(file)

	return utils.NewFs(afero.NewOsFs()).ReadFile(file)
}

func decode(name string, b []byte) ([]byte, error) {
	b, err := utils.Decompress(name, b)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(b) {
		log.Printf("invalid UTF-8: %s", name)
		b = bytes.ToValidUTF8(b, nil)
	}
	return b, nil
}

// LoadModel loads and parses a single advisory. Recoverable parse errors are
// logged.
func (c Config) LoadModel(location string) (*cvrf.Model, error) {
	b, err := c.Load(location)
	if err != nil {
		return nil, err
	}
	return parseModel(location, b)
}

func parseModel(name string, b []byte) (*cvrf.Model, error) {
	cur, err := xmlcursor.FromBytes(b)
	if err != nil {
		return nil, xerrors.Errorf("%s: %w", name, err)
	}
	p := cvrf.NewParser()
	m, err := p.ParseModel(cur)
	if err != nil {
		return nil, xerrors.Errorf("%s: %w", name, err)
	}
	if errs := p.Errors(); errs != nil {
		log.Printf("%s: %s", name, errs)
	}
	return m, nil
}

// LoadIndex loads a set of advisories. location is one of
//   - a directory, every *.xml file below it is an advisory
//   - an Index XML document holding cvrfdoc elements
//   - a .txt listing with one advisory path or URL per line
//   - a remote archive, downloaded and read like a directory
//   - a remote HTML directory listing whose links match the pattern
func (c Config) LoadIndex(location string) (*cvrf.Index, error) {
	switch {
	case isRemote(location) && isArchive(location):
		return c.loadArchive(location)
	case !isRemote(location):
		ok, err := afero.IsDir(c.fs, location)
		if err != nil {
			return nil, xerrors.Errorf("failed to stat %s: %w", location, err)
		}
		if ok {
			return c.loadDir(c.fs, location, location)
		}
	}

	name := utils.TrimExt(location)
	switch {
	case strings.HasSuffix(name, ".xml"):
		b, err := c.Load(location)
		if err != nil {
			return nil, err
		}
		index, err := cvrf.ParseIndexBytes(b)
		if err != nil {
			return nil, xerrors.Errorf("%s: %w", location, err)
		}
		index.SourceURL = location
		return index, nil
	case strings.HasSuffix(name, ".txt"):
		return c.loadListing(location)
	case isRemote(location):
		return c.loadHTMLListing(location)
	}
	return nil, xerrors.Errorf("unsupported index location: %s", location)
}

func (c Config) loadDir(fs afero.Fs, dir, sourceURL string) (*cvrf.Index, error) {
	var files []string
	err := afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(strings.ToLower(utils.TrimExt(path)), ".xml") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, xerrors.Errorf("failed to walk %s: %w", dir, err)
	}

	index := cvrf.NewIndex(sourceURL, "")
	for _, file := range files {
		b, err := utils.NewFs(fs).ReadFile(file)
		if err != nil {
			return nil, err
		}
		if b, err = decode(file, b); err != nil {
			return nil, xerrors.Errorf("%s: %w", file, err)
		}
		c.add(index, file, b)
	}
	return index, nil
}

func (c Config) loadArchive(location string) (*cvrf.Index, error) {
	log.Printf("Downloading %s...", location)
	dir, err := utils.DownloadToTempDir(context.Background(), location)
	if err != nil {
		return nil, xerrors.Errorf("failed to download %s: %w", location, err)
	}
	defer os.RemoveAll(dir)

	return c.loadDir(afero.NewOsFs(), dir, location)
}

func (c Config) loadListing(location string) (*cvrf.Index, error) {
	b, err := c.Load(location)
	if err != nil {
		return nil, err
	}

	var entries []string
	scanner := bufio.NewScanner(bytes.NewReader(b))
	for scanner.Scan() {
		line := utils.TrimSpaceNewline(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, err := resolve(location, line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err = scanner.Err(); err != nil {
		return nil, xerrors.Errorf("failed to read %s: %w", location, err)
	}

	index := cvrf.NewIndex(baseOf(location), filepathBase(location))
	c.loadEntries(index, entries)
	return index, nil
}

func (c Config) loadHTMLListing(location string) (*cvrf.Index, error) {
	b, err := utils.FetchURL(location, c.retry)
	if err != nil {
		return nil, xerrors.Errorf("failed to fetch CVRF list: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(b))
	if err != nil {
		return nil, xerrors.Errorf("failed to read CVRF list: %w", err)
	}

	var entries []string
	var resolveErr error
	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !c.pattern.MatchString(path.Base(href)) || resolveErr != nil {
			return
		}
		entry, err := resolve(location, href)
		if err != nil {
			resolveErr = err
			return
		}
		entries = append(entries, entry)
	})
	if resolveErr != nil {
		return nil, resolveErr
	}
	if len(entries) == 0 {
		return nil, xerrors.Errorf("no advisories listed in %s", location)
	}

	index := cvrf.NewIndex(location, "")
	c.loadEntries(index, entries)
	return index, nil
}

// loadEntries fetches remote entries concurrently and reads local ones in
// order. Entries that cannot be fetched or parsed are logged and skipped.
func (c Config) loadEntries(index *cvrf.Index, entries []string) {
	var remote []string
	for _, e := range entries {
		if isRemote(e) {
			remote = append(remote, e)
		}
	}

	fetched := map[string][]byte{}
	if len(remote) > 0 {
		log.Printf("Fetching %d advisories...", len(remote))
		bodies, err := utils.FetchConcurrently(remote, c.concurrency, c.wait, c.retry)
		if err != nil {
			log.Printf("failed to fetch CVRF data. err: %s", err)
		}
		for i, body := range bodies {
			fetched[remote[i]] = body
		}
	}

	for _, e := range entries {
		var (
			b   []byte
			err error
		)
		if isRemote(e) {
			if b = fetched[e]; len(b) == 0 {
				log.Printf("empty CVRF xml: %s", e)
				continue
			}
			b, err = decode(e, b)
		} else {
			b, err = c.Load(e)
		}
		if err != nil {
			log.Printf("skip %s: %s", e, err)
			continue
		}
		c.add(index, e, b)
	}
}

func (Config) add(index *cvrf.Index, name string, b []byte) {
	m, err := parseModel(name, b)
	if err != nil {
		log.Printf("skip %s: %s", name, err)
		return
	}
	index.Add(m)
}

// resolve turns a listing entry into a URL or a path relative to the listing.
func resolve(location, entry string) (string, error) {
	if isRemote(entry) {
		return entry, nil
	}
	if isRemote(location) {
		base, err := url.Parse(location)
		if err != nil {
			return "", xerrors.Errorf("invalid URL %s: %w", location, err)
		}
		ref, err := url.Parse(entry)
		if err != nil {
			return "", xerrors.Errorf("invalid link %s: %w", entry, err)
		}
		return base.ResolveReference(ref).String(), nil
	}
	if filepath.IsAbs(entry) {
		return entry, nil
	}
	return filepath.Join(filepath.Dir(location), entry), nil
}

func baseOf(location string) string {
	if isRemote(location) {
		if i := strings.LastIndex(location, "/"); i >= 0 {
			return location[:i+1]
		}
		return location
	}
	return filepath.Dir(location)
}

func filepathBase(location string) string {
	if isRemote(location) {
		return path.Base(location)
	}
	return filepath.Base(location)
}
