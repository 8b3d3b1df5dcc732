// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"uvipack/internal/container"
	"uvipack/internal/issue"
	"uvipack/internal/recipe"
)

// DockerfileName is the file name the generated Dockerfile is written under
// inside the build context.
const DockerfileName = "Dockerfile"

// tagHashLen is how many hex digits of the cache key end up in the image tag.
const tagHashLen = 12

type (
	// ImageBuilder assembles container images from a recipe and an
	// application source directory.
	//
	// Built images are cached based on a hash of:
	// - The rendered Dockerfile
	// - The dependency manifest contents
	// - The source tree (names, sizes, modification times)
	//
	// This allows fast reuse when the application hasn't changed.
	ImageBuilder struct {
		engine   container.Engine
		progress io.Writer
	}

	// Option configures an ImageBuilder.
	Option func(*ImageBuilder)

	// BuildOptions controls a single Build invocation.
	BuildOptions struct {
		// SourceDir is the application source directory.
		SourceDir string
		// NoCache forces a rebuild even when a cached image exists and
		// disables the engine's layer cache.
		NoCache bool
		// TagSuffix is appended to the image tag when set.
		// This enables test isolation by making each test's images unique.
		TagSuffix string
	}

	// Result describes a built (or cache-reused) image.
	Result struct {
		// Tag is the content-addressed image tag.
		Tag container.ImageTag
		// CacheKey is the full hex cache key the tag was derived from.
		CacheKey string
		// Cached is true when an existing image was reused without building.
		Cached bool
	}
)

// WithProgressWriter sets where engine build output is streamed.
// Defaults to stderr so that stdout stays reserved for the application.
func WithProgressWriter(w io.Writer) Option {
	return func(b *ImageBuilder) { b.progress = w }
}

// NewImageBuilder creates a new ImageBuilder backed by the given engine.
func NewImageBuilder(engine container.Engine, opts ...Option) *ImageBuilder {
	b := &ImageBuilder{
		engine:   engine,
		progress: os.Stderr,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build produces the image for the recipe, reusing a cached image when the
// content-addressed tag already exists (unless NoCache is set).
func (b *ImageBuilder) Build(ctx context.Context, rec recipe.Recipe, opts BuildOptions) (*Result, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	// Field validation should make a malformed script unreachable; parsing
	// the rendered script is the backstop in case it does not.
	if err := rec.ValidateLaunchScript(); err != nil {
		return nil, err
	}
	if err := b.checkManifest(rec, opts.SourceDir); err != nil {
		return nil, err
	}

	cacheKey, err := b.calculateCacheKey(rec, opts.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate cache key: %w", err)
	}

	tag := b.buildImageTag(rec, cacheKey[:tagHashLen], opts.TagSuffix)

	if !opts.NoCache {
		exists, _ := b.engine.ImageExists(ctx, tag) //nolint:errcheck // Error treated as "not found"
		if exists {
			return &Result{Tag: tag, CacheKey: cacheKey, Cached: true}, nil
		}
	}

	if err := b.buildImage(ctx, rec, opts, tag); err != nil {
		return nil, err
	}

	return &Result{Tag: tag, CacheKey: cacheKey}, nil
}

// ImageTagFor returns the tag that would be used for the recipe and source
// tree without building anything. Useful for checking if an image is cached.
func (b *ImageBuilder) ImageTagFor(rec recipe.Recipe, sourceDir string) (container.ImageTag, error) {
	cacheKey, err := b.calculateCacheKey(rec, sourceDir)
	if err != nil {
		return "", err
	}
	return b.buildImageTag(rec, cacheKey[:tagHashLen], ""), nil
}

// IsImageBuilt checks if the image for the recipe and source tree already
// exists in the engine's local store.
func (b *ImageBuilder) IsImageBuilt(ctx context.Context, rec recipe.Recipe, sourceDir string) (bool, error) {
	tag, err := b.ImageTagFor(rec, sourceDir)
	if err != nil {
		return false, err
	}
	return b.engine.ImageExists(ctx, tag)
}

// checkManifest verifies the dependency manifest exists in the source tree.
// This runs before any source is copied into the build context, so a missing
// manifest fails immediately instead of after a full context preparation.
func (b *ImageBuilder) checkManifest(rec recipe.Recipe, sourceDir string) error {
	manifestPath := filepath.Join(sourceDir, rec.ResolvedManifest())
	if _, err := os.Stat(manifestPath); err != nil {
		return issue.NewErrorContext().
			WithOperation("read dependency manifest").
			WithResource(manifestPath).
			WithSuggestion(fmt.Sprintf("Create a %s listing the application's dependencies", rec.ResolvedManifest())).
			WithSuggestion("Or point the recipe at a different manifest file").
			Wrap(err).
			BuildError()
	}
	return nil
}

// buildImageTag constructs the image tag with optional suffix.
// When suffix is set, the tag format is "uvipack/<name>:<hash>-<suffix>".
func (b *ImageBuilder) buildImageTag(rec recipe.Recipe, hash, suffix string) container.ImageTag {
	name := sanitizeImageName(rec.Name)
	if suffix != "" {
		return container.ImageTag(fmt.Sprintf("uvipack/%s:%s-%s", name, hash, suffix))
	}
	return container.ImageTag(fmt.Sprintf("uvipack/%s:%s", name, hash))
}

// sanitizeImageName lowercases the application name and replaces characters
// that are not valid in an image repository component.
func sanitizeImageName(name string) string {
	if name == "" {
		return "app"
	}
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			sb.WriteRune(r)
		default:
			sb.WriteRune('-')
		}
	}
	out := strings.Trim(sb.String(), "-._")
	if out == "" {
		return "app"
	}
	return out
}

// calculateCacheKey generates a unique key covering everything that
// influences the built image.
func (b *ImageBuilder) calculateCacheKey(rec recipe.Recipe, sourceDir string) (string, error) {
	h := sha256.New()

	// Include the rendered Dockerfile: any recipe change (base image, system
	// packages, app ref, port) changes the rendering and therefore the key.
	h.Write([]byte("dockerfile:" + rec.Dockerfile()))

	// Include the manifest contents, hashed exactly; dependency changes must
	// always invalidate the cache.
	manifestHash, err := hashFile(filepath.Join(sourceDir, rec.ResolvedManifest()))
	if err != nil {
		return "", fmt.Errorf("failed to hash dependency manifest: %w", err)
	}
	h.Write([]byte("manifest:" + manifestHash))

	// Include the source tree hash
	srcHash, err := hashSourceTree(sourceDir)
	if err != nil {
		return "", fmt.Errorf("failed to hash source directory: %w", err)
	}
	h.Write([]byte("source:" + srcHash))

	return hex.EncodeToString(h.Sum(nil)), nil
}

// buildImage prepares the build context and runs the engine build.
func (b *ImageBuilder) buildImage(ctx context.Context, rec recipe.Recipe, opts BuildOptions, tag container.ImageTag) error {
	buildCtx, cleanup, err := b.prepareBuildContext(rec, opts.SourceDir)
	if err != nil {
		return err
	}
	defer cleanup()

	buildOpts := container.BuildOptions{
		ContextDir: buildCtx,
		Dockerfile: DockerfileName,
		Tag:        tag,
		NoCache:    opts.NoCache,
		Stdout:     b.progress, // Show build progress on stderr
		Stderr:     b.progress,
	}

	if err := b.engine.Build(ctx, buildOpts); err != nil {
		return issue.NewErrorContext().
			WithOperation("build image").
			WithResource(string(tag)).
			WithSuggestion("Inspect the generated Dockerfile with 'uvipack render'").
			WithSuggestion("Retry with --no-cache to rule out stale layers").
			Wrap(err).
			BuildError()
	}

	return nil
}

// prepareBuildContext creates a temporary directory containing the source
// tree and the generated Dockerfile.
//
// Note: Docker installed via Snap has limited filesystem access:
// - Cannot access /tmp (different namespace)
// - Cannot access hidden directories like ~/.cache (home interface restriction)
// - CAN access visible directories in $HOME like ~/uvipack-build
//
// We use a visible directory in the user's home as the build context location.
func (b *ImageBuilder) prepareBuildContext(rec recipe.Recipe, sourceDir string) (buildContextDir string, cleanup func(), err error) {
	var buildContextParent string

	// Try HOME first, but verify it actually exists (handles cases like
	// HOME=/no-home or misconfigured environments)
	if home, homeErr := os.UserHomeDir(); homeErr == nil {
		if _, statErr := os.Stat(home); statErr == nil {
			buildContextParent = filepath.Join(home, "uvipack-build")
		}
	}

	// Fallback if HOME is unavailable or doesn't exist
	if buildContextParent == "" {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			buildContextParent = filepath.Join(cwd, ".uvipack-build")
		} else {
			// Last resort: use system temp (may fail with Snap Docker)
			buildContextParent = filepath.Join(os.TempDir(), "uvipack-build")
		}
	}

	if mkdirErr := os.MkdirAll(buildContextParent, 0o755); mkdirErr != nil {
		return "", nil, fmt.Errorf("failed to create build context parent directory: %w", mkdirErr)
	}

	tmpDir, err := os.MkdirTemp(buildContextParent, "ctx-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	cleanup = func() {
		_ = os.RemoveAll(tmpDir) // Cleanup temp dir; error non-critical
	}

	// Copy the source tree verbatim; the image's COPY steps pick the
	// manifest and the rest of the sources out of it.
	if err := copySourceTree(sourceDir, tmpDir); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to copy source tree: %w", err)
	}

	// Generate Dockerfile. It overwrites any Dockerfile already present in
	// the source tree; the recipe is the single source of truth.
	dockerfilePath := filepath.Join(tmpDir, DockerfileName)
	if err := os.WriteFile(dockerfilePath, []byte(rec.Dockerfile()), 0o644); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to write Dockerfile: %w", err)
	}

	return tmpDir, cleanup, nil
}
