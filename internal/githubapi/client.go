// Package githubapi is a small GitHub REST client covering what CoDoc
// needs: repository metadata, the file tree, and raw file contents.
package githubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://api.github.com"

// RepoInfo holds basic repository metadata.
type RepoInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Stars       int      `json:"stars"`
	Forks       int      `json:"forks"`
	Language    string   `json:"language"`
	Topics      []string `json:"topics"`
}

// TreeEntry is one blob in the repository tree.
type TreeEntry struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	Type string `json:"type"`
	Size int64  `json:"size"`
	SHA  string `json:"sha"`
	URL  string `json:"url"`
}

// ImportantFile is a project file worth feeding to the analyzer
// (README, dependency manifests and the like).
type ImportantFile struct {
	Path        string `json:"path"`
	DownloadURL string `json:"download_url"`
	Size        int64  `json:"size"`
	SHA         string `json:"sha"`
}

// importantNames lists the files that shape a repository's
// documentation: READMEs and dependency manifests.
var importantNames = map[string]bool{
	"README":           true,
	"README.md":        true,
	"README.rst":       true,
	"requirements.txt": true,
	"pyproject.toml":   true,
	"setup.py":         true,
	"Pipfile":          true,
	"Pipfile.lock":     true,
	"package.json":     true,
	"go.mod":           true,
	"Cargo.toml":       true,
	"pom.xml":          true,
	"build.gradle":     true,
	"composer.json":    true,
	"Gemfile":          true,
}

// Client talks to the GitHub REST API with a personal access token.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a GitHub API client. The token is taken from the
// GITHUB_TOKEN environment variable when not passed explicitly.
func NewClient(baseURL, token string) (*Client, error) {
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN is not set; add it to your environment or .env file")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		httpClient: &http.Client{
			Transport: tr,
			Timeout:   15 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}, nil
}

// ParseURL extracts owner and repo from a GitHub repository URL.
func ParseURL(githubURL string) (owner, repo string, err error) {
	parsed, err := url.Parse(githubURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid URL %q: %w", githubURL, err)
	}
	if !strings.Contains(parsed.Host, "github.com") {
		return "", "", fmt.Errorf("not a GitHub URL: %s", githubURL)
	}

	var parts []string
	for _, p := range strings.Split(parsed.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return "", "", fmt.Errorf("could not parse owner/repo from URL: %s", githubURL)
	}

	owner = parts[0]
	repo = strings.TrimSuffix(parts[1], ".git")
	return owner, repo, nil
}

// get performs a GET against the API (or an absolute URL) and decodes
// the JSON response into out. A nil out discards the body.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	target := path
	if !strings.HasPrefix(target, "http") {
		target = c.baseURL + "/" + strings.TrimLeft(path, "/")
	}
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("building GitHub request: %w", err)
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "codoc-github-fetcher")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("network error while calling GitHub API: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("GitHub resource not found: %s", target)
	case http.StatusUnauthorized:
		return fmt.Errorf("unauthorized: check that your GITHUB_TOKEN is valid")
	case http.StatusForbidden:
		return fmt.Errorf("forbidden or rate-limited by GitHub")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GitHub API error (%d): %s", resp.StatusCode, string(body))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding GitHub response: %w", err)
	}
	return nil
}

type repoResponse struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	StargazersCount int      `json:"stargazers_count"`
	ForksCount      int      `json:"forks_count"`
	Language        string   `json:"language"`
	Topics          []string `json:"topics"`
	DefaultBranch   string   `json:"default_branch"`
}

// GetRepoInfo fetches basic repository metadata.
func (c *Client) GetRepoInfo(ctx context.Context, owner, repo string) (RepoInfo, error) {
	var data repoResponse
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s", owner, repo), nil, &data); err != nil {
		return RepoInfo{}, err
	}

	name := data.Name
	if name == "" {
		name = owner + "/" + repo
	}
	return RepoInfo{
		Name:        name,
		Description: data.Description,
		Stars:       data.StargazersCount,
		Forks:       data.ForksCount,
		Language:    data.Language,
		Topics:      data.Topics,
	}, nil
}

func (c *Client) getDefaultBranch(ctx context.Context, owner, repo string) (string, error) {
	var data repoResponse
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s", owner, repo), nil, &data); err != nil {
		return "", err
	}
	if data.DefaultBranch == "" {
		return "", fmt.Errorf("could not determine default branch for %s/%s", owner, repo)
	}
	return data.DefaultBranch, nil
}

type treeResponse struct {
	Tree []struct {
		Path string `json:"path"`
		Mode string `json:"mode"`
		Type string `json:"type"`
		Size int64  `json:"size"`
		SHA  string `json:"sha"`
		URL  string `json:"url"`
	} `json:"tree"`
	Truncated bool `json:"truncated"`
}

// GetFileTree lists all blobs in the repository, optionally restricted
// to a path prefix. Uses the git trees API on the default branch.
func (c *Client) GetFileTree(ctx context.Context, owner, repo, pathPrefix string) ([]TreeEntry, error) {
	branch, err := c.getDefaultBranch(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("recursive", "1")
	var data treeResponse
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/git/trees/%s", owner, repo, branch), params, &data); err != nil {
		return nil, err
	}
	if data.Truncated {
		logrus.Warnf("GitHub tree for %s/%s is truncated; documentation context may be partial", owner, repo)
	}

	prefix := strings.Trim(pathPrefix, "/")
	var files []TreeEntry
	for _, item := range data.Tree {
		if item.Type != "blob" {
			continue
		}
		if prefix != "" && item.Path != prefix && !strings.HasPrefix(item.Path, prefix+"/") {
			continue
		}
		files = append(files, TreeEntry{
			Path: item.Path,
			Mode: item.Mode,
			Type: item.Type,
			Size: item.Size,
			SHA:  item.SHA,
			URL:  item.URL,
		})
	}
	return files, nil
}

type contentsResponse struct {
	DownloadURL string `json:"download_url"`
}

// GetImportantFiles returns metadata for commonly important project files.
func (c *Client) GetImportantFiles(ctx context.Context, owner, repo string) ([]ImportantFile, error) {
	tree, err := c.GetFileTree(ctx, owner, repo, "")
	if err != nil {
		return nil, err
	}

	var matches []ImportantFile
	for _, item := range tree {
		parts := strings.Split(item.Path, "/")
		filename := parts[len(parts)-1]
		if !importantNames[filename] {
			continue
		}

		var content contentsResponse
		if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, item.Path), nil, &content); err != nil {
			logrus.Warnf("Could not resolve download URL for %s: %v", item.Path, err)
			continue
		}
		matches = append(matches, ImportantFile{
			Path:        item.Path,
			DownloadURL: content.DownloadURL,
			Size:        item.Size,
			SHA:         item.SHA,
		})
	}
	return matches, nil
}

// GetFileContent downloads a file. fileURL may be a download_url from
// the contents API or a regular GitHub blob URL, which is rewritten to
// its raw.githubusercontent.com form.
func (c *Client) GetFileContent(ctx context.Context, fileURL string) (string, error) {
	if raw, ok := blobToRawURL(fileURL); ok {
		fileURL = raw
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return "", fmt.Errorf("building download request: %w", err)
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("User-Agent", "codoc-github-fetcher")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("network error while downloading file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return "", fmt.Errorf("failed to download file (%d): %s", resp.StatusCode, string(body))
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading downloaded file: %w", err)
	}
	return string(content), nil
}

// blobToRawURL converts /owner/repo/blob/branch/path URLs to raw URLs.
func blobToRawURL(fileURL string) (string, bool) {
	parsed, err := url.Parse(fileURL)
	if err != nil || !strings.Contains(parsed.Host, "github.com") || !strings.Contains(parsed.Path, "/blob/") {
		return "", false
	}

	var parts []string
	for _, p := range strings.Split(parsed.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 5 || parts[2] != "blob" {
		return "", false
	}

	owner, repo, branch := parts[0], parts[1], parts[3]
	filePath := strings.Join(parts[4:], "/")
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s", owner, repo, branch, filePath), true
}
