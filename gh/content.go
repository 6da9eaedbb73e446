package gh

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	rawHost   = "raw.githubusercontent.com"
	mediaHost = "media.githubusercontent.com"
	lfsPrefix = "version https://git-lfs.github.com/spec/v1"
)

// isLfsResponse checks if the HTTP response potentially contains a Git LFS response.
// It peeks at the response body without consuming it, resetting it for subsequent reads.
func isLfsResponse(res *http.Response) bool {
	contentLength, err := strconv.Atoi(res.Header.Get("Content-Length"))
	if err != nil || contentLength < 128 || contentLength > 140 {
		return false
	}

	bufr := make([]byte, 40)
	n, err := io.ReadFull(res.Body, bufr)
	if err != nil && err != io.ErrUnexpectedEOF {
		return false
	}

	restOfBody, err := io.ReadAll(res.Body)
	if err != nil {
		return false
	}

	isLfs := strings.HasPrefix(string(bufr[:n]), lfsPrefix)

	res.Body.Close()
	fullBody := append(bufr[:n], restOfBody...)
	res.Body = io.NopCloser(bytes.NewReader(fullBody))

	return isLfs
}

// lfsMediaURL rewrites a raw.githubusercontent.com URL to the LFS media
// endpoint. ok is false for any other host.
func lfsMediaURL(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || !strings.EqualFold(u.Host, rawHost) {
		return "", false
	}
	u.Host = mediaHost
	u.Path = "/media" + u.Path
	u.RawPath = ""
	return u.String(), true
}

// FetchRaw downloads the bytes behind a download_url. LFS pointer files
// served by raw.githubusercontent.com are resolved to the real object.
func (c *Client) FetchRaw(ctx context.Context, downloadURL string) ([]byte, error) {
	if downloadURL == "" {
		return nil, fmt.Errorf("%w: empty download URL", ErrNetworkFailure)
	}

	resp, err := c.get(ctx, downloadURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if isLfsResponse(resp) {
		if mediaURL, ok := lfsMediaURL(downloadURL); ok {
			lfsResp, err := c.get(ctx, mediaURL)
			if err != nil {
				return nil, fmt.Errorf("LFS %w", err)
			}
			defer lfsResp.Body.Close()
			resp = lfsResp
		}
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrNetworkFailure, downloadURL, err)
	}
	return content, nil
}

func (c *Client) get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request for %s: %w", ErrNetworkFailure, target, err)
	}

	// The go-github client's http.Client carries the auth and retry transports.
	resp, err := c.gh.Client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: HTTP error for %s: %w", ErrNetworkFailure, target, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: HTTP %s for %s", ErrNetworkFailure, resp.Status, target)
	}
	return resp, nil
}
