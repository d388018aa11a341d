// Package avatar inlines remote entrant images as data URIs.
//
// Browsers load image references from the HTML stage themselves, but an SVG
// handed to rsvg-convert or opened offline cannot. [Fetcher.Embed] downloads
// each http(s) reference once, caches the encoded result, and substitutes a
// data: URI. Any failure leaves the original reference in place.
package avatar

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/skijump/pkg/cache"
	"github.com/matzehuels/skijump/pkg/httputil"
	"github.com/matzehuels/skijump/pkg/leaderboard"
	"github.com/matzehuels/skijump/pkg/observability"
)

// DefaultConcurrency is the number of parallel image fetches.
const DefaultConcurrency = 8

// Fetcher downloads and encodes avatar images.
type Fetcher struct {
	Client      *httputil.Client
	Cache       cache.Cache
	Keyer       cache.Keyer
	Logger      *log.Logger
	Concurrency int
}

// NewFetcher creates a Fetcher backed by c. A nil cache disables caching.
func NewFetcher(c cache.Cache, logger *log.Logger) *Fetcher {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Fetcher{
		Client:      httputil.NewClient(map[string]string{"Accept": "image/*"}),
		Cache:       c,
		Keyer:       cache.NewDefaultKeyer(),
		Logger:      logger,
		Concurrency: DefaultConcurrency,
	}
}

// Embed returns a copy of placed with remote image references replaced by
// data URIs. Order and all other fields are unchanged. It returns the
// number of references that were embedded.
func (f *Fetcher) Embed(ctx context.Context, placed []leaderboard.PlacedRecord) ([]leaderboard.PlacedRecord, int) {
	out := make([]leaderboard.PlacedRecord, len(placed))
	copy(out, placed)

	embedded := make([]bool, len(out))
	var g errgroup.Group
	g.SetLimit(max(f.Concurrency, 1))

	for i := range out {
		if !IsRemote(out[i].ImageRef) {
			continue
		}
		g.Go(func() error {
			uri, err := f.DataURI(ctx, out[i].ImageRef)
			if err != nil {
				f.logger().Warn("avatar not embedded", "name", out[i].Name, "err", err)
				return nil
			}
			out[i].ImageRef = uri
			embedded[i] = true
			return nil
		})
	}
	_ = g.Wait()

	n := 0
	for _, ok := range embedded {
		if ok {
			n++
		}
	}
	return out, n
}

// DataURI returns the data: URI for the image at rawURL, using the cache
// when possible.
func (f *Fetcher) DataURI(ctx context.Context, rawURL string) (string, error) {
	key := f.Keyer.ImageKey(rawURL)
	if data, ok, _ := f.Cache.Get(ctx, key); ok {
		observability.Cache().OnCacheHit(ctx, "image")
		return string(data), nil
	}
	observability.Cache().OnCacheMiss(ctx, "image")

	body, contentType, err := f.Client.GetBytes(ctx, rawURL)
	if err != nil {
		return "", err
	}
	mediaType, err := imageType(contentType)
	if err != nil {
		return "", err
	}

	uri := "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(body)
	if err := f.Cache.Set(ctx, key, []byte(uri), cache.TTLImage); err == nil {
		observability.Cache().OnCacheSet(ctx, "image", len(uri))
	}
	return uri, nil
}

// IsRemote reports whether ref is an http(s) URL.
func IsRemote(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func imageType(contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return "", fmt.Errorf("not an image: %q", contentType)
	}
	return mediaType, nil
}

func (f *Fetcher) logger() *log.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return log.Default()
}
