package service

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/njprem/Blog_APP_BackEnd/internal/media"
)

type preparedImage struct {
	reader      io.Reader
	size        int64
	contentType string
	extension   string
}

// prepareImageForUpload runs the upload through processor when one is set.
// Without a processor the original bytes are stored as-is.
func prepareImageForUpload(ctx context.Context, processor media.Processor, upload media.Upload, maxDimension int) (*preparedImage, error) {
	if processor == nil {
		ext := strings.ToLower(filepath.Ext(upload.FileName))
		if ext == "" {
			ext = extensionForContentType(upload.ContentType)
		}
		return &preparedImage{
			reader:      upload.Reader,
			size:        upload.Size,
			contentType: upload.ContentType,
			extension:   ext,
		}, nil
	}
	result, err := processor.Process(ctx, upload, maxDimension)
	if err != nil {
		return nil, err
	}
	return &preparedImage{
		reader:      bytes.NewReader(result.Bytes),
		size:        int64(len(result.Bytes)),
		contentType: result.ContentType,
		extension:   result.Extension,
	}, nil
}

func extensionForContentType(contentType string) string {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
