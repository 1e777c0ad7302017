package template

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/oauth2"
)

func init() {
	Register("github", NewGitHub)
}

// 🎯 GitHub fetches a template from a repository. References look like
// github://owner/repo@ref/path/to/template.pptx; the ref segment is optional
// and defaults to the repository's default branch.
type GitHub struct {
	Owner string
	Repo  string
	Ref   string
	Path  string

	client *github.Client
}

// 🏭 NewGitHub parses a github:// reference. GITHUB_TOKEN is honored when set
// and optional for public repositories.
func NewGitHub(ref string) (Source, error) {
	src, err := parseGitHubRef(ref)
	if err != nil {
		return nil, err
	}

	client := github.NewClient(nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		client = github.NewClient(oauth2.NewClient(context.Background(), ts))
	}
	src.client = client

	return src, nil
}

// 🔍 parseGitHubRef splits github://owner/repo[@ref]/path into its parts
func parseGitHubRef(ref string) (*GitHub, error) {
	rest, ok := strings.CutPrefix(ref, "github://")
	if !ok {
		return nil, errors.Errorf("not a github reference: %s", ref)
	}

	parts := strings.SplitN(rest, "/", 3)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return nil, errors.Errorf("github reference must be github://owner/repo[@ref]/path: %s", ref)
	}

	src := &GitHub{Owner: parts[0], Path: parts[2]}
	src.Repo, src.Ref, _ = strings.Cut(parts[1], "@")
	if src.Repo == "" {
		return nil, errors.Errorf("github reference must be github://owner/repo[@ref]/path: %s", ref)
	}

	return src, nil
}

// 📥 Fetch implements Source: the file is downloaded into dir and its local
// path returned.
func (g *GitHub) Fetch(ctx context.Context, dir string) (string, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Str("owner", g.Owner).
		Str("repo", g.Repo).
		Str("ref", g.Ref).
		Str("path", g.Path).
		Msg("fetching template from github")

	opts := &github.RepositoryContentGetOptions{Ref: g.Ref}
	rc, _, err := g.client.Repositories.DownloadContents(ctx, g.Owner, g.Repo, g.Path, opts)
	if err != nil {
		return "", errors.Errorf("downloading %s: %w", g.Path, err)
	}
	defer rc.Close()

	local := filepath.Join(dir, path.Base(g.Path))
	f, err := os.Create(local)
	if err != nil {
		return "", errors.Errorf("creating %s: %w", local, err)
	}

	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		return "", errors.Errorf("writing %s: %w", local, err)
	}
	if err := f.Close(); err != nil {
		return "", errors.Errorf("closing %s: %w", local, err)
	}

	return local, nil
}
