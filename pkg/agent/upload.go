package agent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harun/parley/internal/observability"
	"github.com/harun/parley/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// maxLocalArtifactSize bounds files read into memory by LocalUploader.
const maxLocalArtifactSize = 20 << 20

// LocalUploader "uploads" by reading the file into the artifact, for
// providers without a file service.
type LocalUploader struct{}

// Upload reads path into an Artifact with a file:// URI
func (LocalUploader) Upload(ctx context.Context, path, mimeType string) (*Artifact, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > maxLocalArtifactSize {
		return nil, fmt.Errorf("%s is too large (%d bytes, max %d)", filepath.Base(path), info.Size(), maxLocalArtifactSize)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}

	return &Artifact{
		URI:      "file://" + filepath.ToSlash(abs),
		MIMEType: mimeType,
		Name:     filepath.Base(abs),
		Data:     data,
	}, nil
}

// UploadArtifact uploads through the provider's file service when it has
// one, otherwise through LocalUploader. Readers are the other providers that
// will see the artifact: a file service reference is only usable by the
// backend that issued it, so any reader on another backend forces a local read.
func UploadArtifact(ctx context.Context, provider Provider, path, mimeType string, readers ...Provider) (*Artifact, error) {
	ctx, span := tracing.StartSpan(ctx, "parley.agent", "agent.upload",
		attribute.String("file", filepath.Base(path)),
		attribute.String("mime_type", mimeType),
	)
	defer span.End()

	var uploader Uploader = LocalUploader{}
	if u, ok := provider.(Uploader); ok && sameBackend(provider, readers) {
		uploader = u
	}

	artifact, err := uploader.Upload(ctx, path, mimeType)
	observability.RecordUpload(err == nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if artifact.MIMEType == "" {
		artifact.MIMEType = mimeType
	}
	return artifact, nil
}

func sameBackend(provider Provider, readers []Provider) bool {
	for _, r := range readers {
		if r != nil && r.Name() != provider.Name() {
			return false
		}
	}
	return true
}
