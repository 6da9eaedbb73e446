package gh

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gogithub "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"

	"repo-grab/model"
)

// Error constants
var (
	ErrNetworkFailure    = errors.New("could not obtain repository data from the GitHub API")
	ErrParseFailure      = errors.New("unexpected response body from the GitHub API")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrNotFound          = errors.New("not found")
	ErrInvalidToken      = errors.New("invalid token")
)

const defaultAPIURL = "https://api.github.com"

// Options configures a Client. The zero value talks to api.github.com
// anonymously with the default retry policy.
type Options struct {
	Token      string
	BaseURL    string
	MaxRetries int
	// Transport is the innermost round tripper. Defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

// Client wraps a go-github client and the authenticated http.Client behind it.
type Client struct {
	gh *gogithub.Client
}

// Contents is the result of a contents API call. Exactly one of File and
// Listing is set; Listing is non-nil (possibly empty) for directories.
type Contents struct {
	File    *model.FileContent
	Listing []model.ContentEntry
}

func (c *Contents) IsDir() bool {
	return c.File == nil
}

// NewClient builds a Client. Requests are retried on transient failures and,
// when a token is set, authenticated with a static oauth2 token source.
func NewClient(opts Options) *Client {
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	httpClient := &http.Client{Transport: newRetryTransport(base, opts.MaxRetries)}
	if opts.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, ts)
	}

	c := gogithub.NewClient(httpClient)
	applyBaseURL(c, opts.BaseURL)
	return &Client{gh: c}
}

func applyBaseURL(c *gogithub.Client, baseURL string) {
	if baseURL == "" || baseURL == defaultAPIURL {
		return
	}
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return
	}
	c.BaseURL = u
}

// GetContents calls GET /repos/{owner}/{repo}/contents/{path}. The response
// shape decides the result: an array is a directory listing, anything else
// is returned as a FileContent whose Type the caller must check.
func (c *Client) GetContents(ctx context.Context, req model.ContentRequest) (*Contents, error) {
	what := fmt.Sprintf("%s/%s/contents/%s", req.Owner, req.Repository, req.Path)
	if strings.Contains(req.Path, "..") {
		return nil, fmt.Errorf("%s: %w: %w", what, model.ErrInvalidRequest, gogithub.ErrPathForbidden)
	}

	escapedPath := (&url.URL{Path: strings.TrimSuffix(req.Path, "/")}).String()
	u := fmt.Sprintf("repos/%s/%s/contents/%s", url.PathEscape(req.Owner), url.PathEscape(req.Repository), escapedPath)
	if req.Ref != "" {
		u += "?ref=" + url.QueryEscape(req.Ref)
	}

	httpReq, err := c.gh.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", what, ErrNetworkFailure, err)
	}

	var raw json.RawMessage
	resp, err := c.gh.Do(ctx, httpReq, &raw)
	if err != nil {
		return nil, classify(err, resp, what)
	}

	contents, err := decodeContents(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", what, ErrParseFailure, err)
	}
	return contents, nil
}

// decodeContents splits a parsed body by shape. Arrays are listings, and
// elements that are not objects become entries without a type. Any other
// JSON value, including scalars and null, yields an untyped FileContent.
func decodeContents(raw json.RawMessage) (*Contents, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("empty body")
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		listing := make([]model.ContentEntry, 0, len(items))
		for _, item := range items {
			var rc gogithub.RepositoryContent
			if err := json.Unmarshal(item, &rc); err != nil {
				listing = append(listing, model.ContentEntry{})
				continue
			}
			listing = append(listing, toEntry(&rc))
		}
		return &Contents{Listing: listing}, nil
	case '{':
		var rc gogithub.RepositoryContent
		if err := json.Unmarshal(trimmed, &rc); err != nil {
			return nil, err
		}
		return &Contents{File: toFileContent(&rc)}, nil
	default:
		return &Contents{File: &model.FileContent{}}, nil
	}
}

// classify maps go-github and transport errors onto the package sentinels.
func classify(err error, resp *gogithub.Response, what string) error {
	var rateErr *gogithub.RateLimitError
	var abuseErr *gogithub.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return fmt.Errorf("%s: %w: %w", what, ErrNetworkFailure, ErrRateLimitExceeded)
	}

	var errResp *gogithub.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		switch errResp.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w", what, ErrNotFound)
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w: %w", what, ErrNetworkFailure, ErrInvalidToken)
		}
		return fmt.Errorf("%s: %w: HTTP %d", what, ErrNetworkFailure, errResp.Response.StatusCode)
	}

	if isSyntaxError(err) || (resp != nil && resp.StatusCode >= 200 && resp.StatusCode < 300) {
		return fmt.Errorf("%s: %w: %v", what, ErrParseFailure, err)
	}

	return fmt.Errorf("%s: %w: %w", what, ErrNetworkFailure, err)
}

func isSyntaxError(err error) bool {
	var syntaxErr *json.SyntaxError
	return errors.As(err, &syntaxErr)
}

func toFileContent(rc *gogithub.RepositoryContent) *model.FileContent {
	return &model.FileContent{
		Name:        rc.GetName(),
		Path:        rc.GetPath(),
		Type:        rc.GetType(),
		Content:     deref(rc.Content),
		Encoding:    rc.GetEncoding(),
		Size:        int64(rc.GetSize()),
		DownloadURL: rc.GetDownloadURL(),
	}
}

func toEntry(rc *gogithub.RepositoryContent) model.ContentEntry {
	return model.ContentEntry{
		Name:        rc.GetName(),
		Path:        rc.GetPath(),
		Type:        rc.GetType(),
		SHA:         rc.GetSHA(),
		Size:        int64(rc.GetSize()),
		DownloadURL: rc.GetDownloadURL(),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
