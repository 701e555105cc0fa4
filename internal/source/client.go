// Package source fetches media items and their streams from YouTube.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kkdai/youtube/v2"
	"golang.org/x/net/proxy"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"mediagrab/internal/domain/errs"
	"mediagrab/internal/media"
	"mediagrab/internal/utils/logging"
)

// Config configures the HTTP side of a Client.
type Config struct {
	Timeout time.Duration
	// Proxy is an http, https or socks5 URL.
	Proxy string
	// RateLimit caps the combined transfer rate in bytes per second. Zero
	// means unlimited.
	RateLimit int64
}

// Client fetches videos and playlists.
type Client struct {
	yt      *youtube.Client
	limiter *rate.Limiter

	// failed holds playlist URLs that could not be expanded, so that Fetch
	// reports them per item.
	mu     sync.Mutex
	failed map[string]error
}

// NewClient builds a client from cfg.
func NewClient(cfg Config) (*Client, error) {
	transport, err := newTransport(cfg.Proxy)
	if err != nil {
		return nil, err
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	httpClient := &http.Client{
		Transport: transport,
		Jar:       jar,
	}
	// Transfers are long-lived, so the timeout only bounds the wait for headers.
	if cfg.Timeout > 0 {
		transport.ResponseHeaderTimeout = cfg.Timeout
	}

	return &Client{
		yt:      &youtube.Client{HTTPClient: httpClient},
		limiter: newLimiter(cfg.RateLimit),
		failed:  make(map[string]error),
	}, nil
}

func newTransport(proxyURL string) (*http.Transport, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxyURL == "" {
		return transport, nil
	}

	u, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL %q: %w", proxyURL, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		transport.Proxy = http.ProxyURL(u)

	case "socks5", "socks5h":
		dialer, err := proxy.FromURL(u, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("invalid SOCKS proxy %q: %w", proxyURL, err)
		}
		transport.Proxy = nil
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = cd.DialContext
		} else {
			transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}

	default:
		return nil, fmt.Errorf("unsupported proxy scheme %q", u.Scheme)
	}

	logging.D(1, "Routing requests through proxy %s://%s", u.Scheme, u.Host)
	return transport, nil
}

// Fetch loads the video at rawURL.
func (c *Client) Fetch(ctx context.Context, rawURL string) (media.Source, error) {
	c.mu.Lock()
	err, ok := c.failed[rawURL]
	c.mu.Unlock()
	if ok {
		return nil, err
	}

	normalized, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	v, err := c.yt.GetVideoContext(ctx, normalized)
	if err != nil {
		return nil, wrapFetchError(err, normalized)
	}

	logging.D(1, "Fetched %q (%s) with %d formats", v.Title, v.ID, len(v.Formats))
	return &video{
		client: c,
		url:    normalized,
		v:      v,
		infos:  streamsOf(v),
	}, nil
}

// Expand replaces playlist URLs with the watch URLs of their entries.
// Other URLs pass through unchanged, even when invalid, so that they are
// reported per item later. So do playlists that cannot be read; Fetch
// returns their error.
func (c *Client) Expand(ctx context.Context, urls []string) ([]string, error) {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		normalized, err := ValidateURL(u)
		if err != nil || !IsPlaylist(normalized) {
			out = append(out, u)
			continue
		}

		entries, err := c.Playlist(ctx, normalized)
		if err != nil {
			if !errs.ItemScoped(err) {
				return nil, err
			}
			logging.W("Could not expand playlist %q: %v", u, err)
			c.mu.Lock()
			c.failed[u] = err
			c.mu.Unlock()
			out = append(out, u)
			continue
		}
		out = append(out, entries...)
	}
	return out, nil
}

// Playlist returns the watch URLs of the videos in a playlist.
func (c *Client) Playlist(ctx context.Context, playlistURL string) ([]string, error) {
	p, err := c.yt.GetPlaylistContext(ctx, playlistURL)
	if err != nil {
		return nil, wrapFetchError(err, playlistURL)
	}

	urls := make([]string, 0, len(p.Videos))
	for _, entry := range p.Videos {
		if entry == nil || entry.ID == "" {
			continue
		}
		urls = append(urls, WatchURL(entry.ID))
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("playlist %q: %w", playlistURL, errs.ErrEmptyPlaylist)
	}

	logging.I("Expanded playlist %q into %d videos", p.Title, len(urls))
	return urls, nil
}

func wrapFetchError(err error, u string) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	switch {
	case errors.Is(err, youtube.ErrInvalidPlaylist),
		errors.Is(err, youtube.ErrInvalidCharactersInVideoID),
		errors.Is(err, youtube.ErrVideoIDMinLength):
		return fmt.Errorf("%w %q: %v", errs.ErrInvalidURL, u, err)
	}
	return fmt.Errorf("failed to fetch %q: %w: %w", u, errs.ErrSourceUnavailable, err)
}

// video is a fetched YouTube video.
type video struct {
	client *Client
	url    string
	v      *youtube.Video
	infos  []media.StreamInfo
}

func (v *video) URL() string                 { return v.url }
func (v *video) Title() string               { return v.v.Title }
func (v *video) Duration() time.Duration     { return v.v.Duration }
func (v *video) Streams() []media.StreamInfo { return v.infos }

// Download writes stream s to path, reporting the bytes left after each write.
func (v *video) Download(ctx context.Context, s media.StreamInfo, path string, report func(media.Progress)) (err error) {
	f := v.format(s)
	if f == nil {
		return fmt.Errorf("format %s (%s) of %q: %w", s.ID, s.MimeType, v.v.Title, errs.ErrSourceUnavailable)
	}

	stream, size, err := v.client.yt.GetStreamContext(ctx, v.v, f)
	if err != nil {
		return fmt.Errorf("failed to open stream %s: %w", s.ID, err)
	}
	defer stream.Close()

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", path, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %q: %w", path, closeErr)
		}
	}()

	var reader io.Reader = stream
	if v.client.limiter != nil {
		reader = &rateLimitedReader{ctx: ctx, reader: stream, limiter: v.client.limiter}
	}

	if size <= 0 {
		size = s.Size
	}
	pw := &progressWriter{track: s.Track, remaining: size, report: report}

	if _, err := io.Copy(io.MultiWriter(out, pw), reader); err != nil {
		return fmt.Errorf("transfer of stream %s interrupted: %w", s.ID, err)
	}
	return nil
}

func (v *video) format(s media.StreamInfo) *youtube.Format {
	for i := range v.v.Formats {
		f := &v.v.Formats[i]
		if strconv.Itoa(f.ItagNo) == s.ID && f.MimeType == s.MimeType {
			return f
		}
	}
	return nil
}
