package helpers

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"repo-grab/model"
)

var (
	// /owner/repo or /owner/repo/ - repository root
	rootRegex = regexp.MustCompile(`^/([^/]+)/([^/]+?)(?:\.git)?/?$`)
	// /owner/repo/tree/ref[/path] - directory URL
	treeRegex = regexp.MustCompile(`^/([^/]+)/([^/]+)/tree/([^/]+)/?(.*)`)
	// /owner/repo/blob/ref/path - single file URL
	blobRegex = regexp.MustCompile(`^/([^/]+)/([^/]+)/blob/([^/]+)/(.+)`)
	// /owner/repo/ref/path - raw.githubusercontent.com URL format
	rawRegex = regexp.MustCompile(`^/([^/]+)/([^/]+)/([^/]+)/(.+)`)
)

// ParseRepoURL splits a github.com or raw.githubusercontent.com URL into
// owner, repository, ref and path.
func ParseRepoURL(urlStr string) (urlComponents model.RepoURLComponents, err error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Host == "" {
		err = fmt.Errorf("invalid URL: %s", urlStr)
		return
	}

	host := strings.ToLower(parsedURL.Host)
	// Matched against the escaped form so each segment is decoded exactly once.
	urlPath := parsedURL.EscapedPath()

	switch host {
	case "raw.githubusercontent.com":
		return parseRawURL(urlPath, urlStr)
	case "github.com", "www.github.com":
		return parseGitHubURL(urlPath, urlStr)
	default:
		err = fmt.Errorf("unsupported host: %s\nSupported: github.com, raw.githubusercontent.com", host)
		return
	}
}

// ParseRequest parses a GitHub URL straight into a ContentRequest.
func ParseRequest(urlStr string, action model.Action) (model.ContentRequest, error) {
	components, err := ParseRepoURL(urlStr)
	if err != nil {
		return model.ContentRequest{}, err
	}
	return model.RequestFromComponents(components, action), nil
}

func unescape(p string) string {
	decoded, err := url.PathUnescape(p)
	if err != nil {
		return p
	}
	return decoded
}

func parseGitHubURL(urlPath, originalURL string) (model.RepoURLComponents, error) {
	if match := blobRegex.FindStringSubmatch(urlPath); len(match) == 5 {
		decodedPath := unescape(match[4])
		return model.RepoURLComponents{
			Owner:      match[1],
			Repository: match[2],
			Ref:        unescape(match[3]),
			Dir:        path.Dir(decodedPath),
			FilePath:   decodedPath,
			IsFile:     true,
		}, nil
	}

	if match := treeRegex.FindStringSubmatch(urlPath); len(match) == 5 {
		return model.RepoURLComponents{
			Owner:      match[1],
			Repository: match[2],
			Ref:        unescape(match[3]),
			Dir:        strings.TrimSuffix(unescape(match[4]), "/"),
		}, nil
	}

	if match := rootRegex.FindStringSubmatch(urlPath); len(match) == 3 {
		return model.RepoURLComponents{
			Owner:      match[1],
			Repository: match[2],
		}, nil
	}

	return model.RepoURLComponents{}, fmt.Errorf(
		"invalid GitHub URL format: %s\nExpected formats:\n"+
			"  Repository: https://github.com/owner/repo\n"+
			"  Directory:  https://github.com/owner/repo/tree/branch/path/to/dir\n"+
			"  File:       https://github.com/owner/repo/blob/branch/path/to/file.ext",
		originalURL,
	)
}

func parseRawURL(urlPath, originalURL string) (model.RepoURLComponents, error) {
	match := rawRegex.FindStringSubmatch(urlPath)
	if len(match) != 5 {
		return model.RepoURLComponents{}, fmt.Errorf(
			"invalid raw URL format: %s\nExpected: https://raw.githubusercontent.com/owner/repo/ref/path/to/file",
			originalURL,
		)
	}

	decodedPath := unescape(match[4])
	return model.RepoURLComponents{
		Owner:      match[1],
		Repository: match[2],
		Ref:        match[3],
		Dir:        path.Dir(decodedPath),
		FilePath:   decodedPath,
		IsFile:     true,
	}, nil
}
