package githubapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		owner   string
		repo    string
		wantErr bool
	}{
		{"basic", "https://github.com/golang/go", "golang", "go", false},
		{"trailing slash", "https://github.com/golang/go/", "golang", "go", false},
		{"git suffix", "https://github.com/golang/go.git", "golang", "go", false},
		{"subpath", "https://github.com/golang/go/tree/master/src", "golang", "go", false},
		{"not github", "https://gitlab.com/foo/bar", "", "", true},
		{"owner only", "https://github.com/golang", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := ParseURL(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if owner != tt.owner || repo != tt.repo {
				t.Errorf("Expected %s/%s, got %s/%s", tt.owner, tt.repo, owner, repo)
			}
		})
	}
}

func TestBlobToRawURL(t *testing.T) {
	raw, ok := blobToRawURL("https://github.com/golang/go/blob/master/README.md")
	if !ok {
		t.Fatal("Expected blob URL to convert")
	}
	want := "https://raw.githubusercontent.com/golang/go/master/README.md"
	if raw != want {
		t.Errorf("Expected %s, got %s", want, raw)
	}

	if _, ok := blobToRawURL("https://example.com/not/github"); ok {
		t.Error("Expected non-GitHub URL to be left alone")
	}
	if _, ok := blobToRawURL("https://github.com/golang/go"); ok {
		t.Error("Expected non-blob URL to be left alone")
	}
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, "test-token")
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return client
}

func TestNewClient_MissingToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	_, err := NewClient("", "")
	if err == nil {
		t.Error("Expected error without token")
	}
}

func TestGetRepoInfo(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/repos/golang/go" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"name":             "go",
			"description":      "The Go programming language",
			"stargazers_count": 120000,
			"forks_count":      17000,
			"language":         "Go",
			"topics":           []string{"language", "compiler"},
		})
	}))

	info, err := client.GetRepoInfo(context.Background(), "golang", "go")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if info.Name != "go" || info.Stars != 120000 || info.Language != "Go" {
		t.Errorf("Unexpected repo info: %+v", info)
	}
	if gotAuth != "token test-token" {
		t.Errorf("Expected token auth, got: %s", gotAuth)
	}
}

func TestGetRepoInfo_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))

	_, err := client.GetRepoInfo(context.Background(), "nobody", "nothing")
	if err == nil {
		t.Fatal("Expected error for 404")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected not-found error, got: %v", err)
	}
}

func TestGetFileTree(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/repos/golang/go":
			json.NewEncoder(w).Encode(map[string]any{"default_branch": "master"})
		case strings.HasPrefix(r.URL.Path, "/repos/golang/go/git/trees/master"):
			if r.URL.Query().Get("recursive") != "1" {
				t.Error("Expected recursive=1")
			}
			json.NewEncoder(w).Encode(map[string]any{
				"tree": []map[string]any{
					{"path": "README.md", "type": "blob", "size": 100, "sha": "abc"},
					{"path": "src", "type": "tree"},
					{"path": "src/main.go", "type": "blob", "size": 50, "sha": "def"},
				},
			})
		default:
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
	}))

	tree, err := client.GetFileTree(context.Background(), "golang", "go", "")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(tree) != 2 {
		t.Fatalf("Expected 2 blobs, got %d", len(tree))
	}
	if tree[0].Path != "README.md" {
		t.Errorf("Unexpected first entry: %+v", tree[0])
	}
}

func TestGetFileTree_PathPrefix(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/repos/golang/go" {
			json.NewEncoder(w).Encode(map[string]any{"default_branch": "master"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"tree": []map[string]any{
				{"path": "README.md", "type": "blob"},
				{"path": "src/main.go", "type": "blob"},
				{"path": "srcother/x.go", "type": "blob"},
			},
		})
	}))

	tree, err := client.GetFileTree(context.Background(), "golang", "go", "src")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(tree) != 1 || tree[0].Path != "src/main.go" {
		t.Errorf("Expected only src/main.go, got: %+v", tree)
	}
}

func TestGetImportantFiles(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/repos/golang/go":
			json.NewEncoder(w).Encode(map[string]any{"default_branch": "master"})
		case strings.HasPrefix(r.URL.Path, "/repos/golang/go/git/trees/"):
			json.NewEncoder(w).Encode(map[string]any{
				"tree": []map[string]any{
					{"path": "README.md", "type": "blob", "size": 100},
					{"path": "main.go", "type": "blob", "size": 10},
					{"path": "go.mod", "type": "blob", "size": 30},
				},
			})
		case strings.HasPrefix(r.URL.Path, "/repos/golang/go/contents/"):
			json.NewEncoder(w).Encode(map[string]any{
				"download_url": "https://raw.example.com" + strings.TrimPrefix(r.URL.Path, "/repos/golang/go/contents"),
			})
		default:
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
	}))

	files, err := client.GetImportantFiles(context.Background(), "golang", "go")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("Expected README.md and go.mod, got: %+v", files)
	}
	for _, f := range files {
		if f.DownloadURL == "" {
			t.Errorf("Expected download URL for %s", f.Path)
		}
	}
}

func TestGetFileContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("file body"))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "test-token")
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	content, err := client.GetFileContent(context.Background(), srv.URL+"/some/file.txt")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if content != "file body" {
		t.Errorf("Expected 'file body', got: %q", content)
	}
}
