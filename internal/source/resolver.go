// Package source resolves dataset references to local CSV files.
//
// A reference is a local file, a directory (its first *.csv in lexical
// order), a Kaggle dataset handle (kaggle:owner/dataset) or an http(s) URL.
// Remote sources are downloaded once into a cache directory and reused on
// later runs.
package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// DefaultKaggleBaseURL is the Kaggle API host.
const DefaultKaggleBaseURL = "https://www.kaggle.com"

// Config configures a Resolver.
type Config struct {
	// CacheDir holds downloaded datasets. Required for remote references.
	CacheDir string
	// Kaggle authenticates Kaggle downloads.
	Kaggle Credentials
	// KaggleBaseURL overrides DefaultKaggleBaseURL.
	KaggleBaseURL string
	// HTTPClient is used for downloads. Nil uses a client with a 10 minute timeout.
	HTTPClient *http.Client
	// UserAgent is sent with every request.
	UserAgent string
	Logger    *slog.Logger
}

// Resolver maps source references to local files.
type Resolver struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(cfg Config) *Resolver {
	if cfg.KaggleBaseURL == "" {
		cfg.KaggleBaseURL = DefaultKaggleBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "leapetl"
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Minute}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{cfg: cfg, client: client, logger: logger}
}

// Resolve returns the local CSV file for ref. Failures are *AcquireError.
func (r *Resolver) Resolve(ctx context.Context, ref string) (string, error) {
	parsed, err := ParseRef(ref)
	if err != nil {
		return "", &AcquireError{Ref: ref, Err: err}
	}

	var file string
	switch parsed.Kind {
	case KindKaggle:
		file, err = r.resolveKaggle(ctx, parsed)
	case KindURL:
		file, err = r.resolveURL(ctx, parsed)
	default:
		file, err = resolvePath(parsed.Raw)
	}
	if err != nil {
		return "", &AcquireError{Ref: ref, Err: err}
	}

	r.logger.Debug("resolved source", slog.String("ref", ref), slog.String("kind", parsed.Kind.String()), slog.String("file", file))
	return file, nil
}

// resolvePath returns p itself, or the first *.csv in p when p is a directory.
func resolvePath(p string) (string, error) {
	info, err := os.Stat(p)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return FirstCSV(p)
	}
	return p, nil
}

// FirstCSV returns the first *.csv file in dir in lexical order.
func FirstCSV(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		return filepath.Join(dir, e.Name()), nil
	}
	return "", fmt.Errorf("%w in %s", ErrNoCSV, dir)
}

func (r *Resolver) cacheDir() (string, error) {
	if r.cfg.CacheDir == "" {
		return "", errors.New("no cache directory configured")
	}
	return r.cfg.CacheDir, nil
}

// resolveKaggle downloads and unpacks a Kaggle dataset into
// <cache>/<owner>/<dataset>, unless that directory already has a CSV.
func (r *Resolver) resolveKaggle(ctx context.Context, ref Ref) (string, error) {
	cache, err := r.cacheDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(cache, ref.Owner, ref.Dataset)
	if file, err := FirstCSV(dir); err == nil {
		r.logger.Debug("using cached dataset", slog.String("dataset", ref.Handle()), slog.String("dir", dir))
		return file, nil
	}

	if r.cfg.Kaggle.IsZero() {
		return "", ErrMissingCredentials
	}

	endpoint, err := url.JoinPath(r.cfg.KaggleBaseURL, "api/v1/datasets/download", ref.Owner, ref.Dataset)
	if err != nil {
		return "", err
	}

	r.logger.Info("downloading dataset", slog.String("dataset", ref.Handle()))
	if err := r.download(ctx, endpoint, dir, "", true); err != nil {
		return "", err
	}
	return FirstCSV(dir)
}

// resolveURL downloads url into <cache>/http/<hash>/. Zip archives are
// unpacked; anything else is stored under the URL's base name.
func (r *Resolver) resolveURL(ctx context.Context, ref Ref) (string, error) {
	cache, err := r.cacheDir()
	if err != nil {
		return "", err
	}
	u, err := url.Parse(ref.Raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRef, err)
	}

	sum := sha256.Sum256([]byte(ref.Raw))
	dir := filepath.Join(cache, "http", hex.EncodeToString(sum[:8]))
	if file, err := FirstCSV(dir); err == nil {
		r.logger.Debug("using cached download", slog.String("url", ref.Raw), slog.String("dir", dir))
		return file, nil
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		name = "data.csv"
	}
	if !strings.EqualFold(filepath.Ext(name), ".csv") && !strings.EqualFold(filepath.Ext(name), ".zip") {
		name += ".csv"
	}

	r.logger.Info("downloading source", slog.String("url", ref.Raw))
	if err := r.download(ctx, ref.Raw, dir, name, false); err != nil {
		return "", err
	}
	return FirstCSV(dir)
}

// download fetches endpoint into dir. The body is written to a staging
// directory first so an interrupted download never looks cached.
func (r *Resolver) download(ctx context.Context, endpoint, dir, name string, kaggle bool) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", r.cfg.UserAgent)
	if kaggle {
		req.SetBasicAuth(r.cfg.Kaggle.Username, r.cfg.Kaggle.Key)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{URL: endpoint, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if err := os.MkdirAll(filepath.Dir(dir), 0o750); err != nil {
		return err
	}
	staging, err := os.MkdirTemp(filepath.Dir(dir), ".download-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.RemoveAll(staging) }()

	body := filepath.Join(staging, ".body")
	if err := writeBody(body, resp.Body); err != nil {
		return err
	}

	out := filepath.Join(staging, "out")
	if err := os.Mkdir(out, 0o750); err != nil {
		return err
	}

	isZip, err := isZipFile(body)
	if err != nil {
		return err
	}
	switch {
	case isZip:
		if err := extractZip(body, out); err != nil {
			return fmt.Errorf("unpack %s: %w", endpoint, err)
		}
	case name != "":
		if err := os.Rename(body, filepath.Join(out, strings.TrimSuffix(name, ".zip"))); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unpack %s: response is not a zip archive", endpoint)
	}

	_ = os.RemoveAll(dir)
	return os.Rename(out, dir)
}

func writeBody(dst string, src io.Reader) error {
	f, err := os.Create(dst) //nolint:gosec // dst is inside a fresh temp dir
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, src); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
