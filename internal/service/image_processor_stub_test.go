package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/njprem/Blog_APP_BackEnd/internal/media"
)

type stubImageProcessor struct {
	output      []byte
	contentType string
	extension   string
	err         error

	calls   int
	last    media.Upload
	lastMax int
}

func (s *stubImageProcessor) Process(ctx context.Context, upload media.Upload, maxDimension int) (*media.Result, error) {
	s.calls++
	s.last = upload
	s.lastMax = maxDimension
	if s.err != nil {
		return nil, s.err
	}
	ct := s.contentType
	if ct == "" {
		ct = upload.ContentType
	}
	return &media.Result{
		Bytes:       append([]byte(nil), s.output...),
		ContentType: ct,
		Extension:   s.extension,
		Resized:     true,
	}, nil
}

func TestPrepareImageForUploadWithoutProcessor(t *testing.T) {
	upload := media.Upload{Reader: bytes.NewReader([]byte("raw")), Size: 3, FileName: "Cover.PNG", ContentType: "image/png"}
	prepared, err := prepareImageForUpload(context.Background(), nil, upload, 100)
	if err != nil {
		t.Fatalf("prepareImageForUpload: %v", err)
	}
	if prepared.extension != ".png" || prepared.size != 3 || prepared.contentType != "image/png" {
		t.Fatalf("unexpected passthrough %+v", prepared)
	}

	upload.FileName = "blob"
	upload.ContentType = "image/webp"
	prepared, err = prepareImageForUpload(context.Background(), nil, upload, 100)
	if err != nil {
		t.Fatalf("prepareImageForUpload: %v", err)
	}
	if prepared.extension != ".webp" {
		t.Fatalf("expected extension from content type, got %q", prepared.extension)
	}
}

func TestPrepareImageForUploadWithProcessor(t *testing.T) {
	stub := &stubImageProcessor{output: []byte("resized"), contentType: "image/jpeg", extension: ".jpg"}
	upload := media.Upload{Reader: bytes.NewReader([]byte("raw")), Size: 3, FileName: "c.png", ContentType: "image/png"}

	prepared, err := prepareImageForUpload(context.Background(), stub, upload, 640)
	if err != nil {
		t.Fatalf("prepareImageForUpload: %v", err)
	}
	if stub.calls != 1 || stub.lastMax != 640 || stub.last.FileName != "c.png" {
		t.Fatalf("processor not invoked as expected: %+v", stub)
	}
	if prepared.size != int64(len("resized")) || prepared.contentType != "image/jpeg" || prepared.extension != ".jpg" {
		t.Fatalf("unexpected prepared image %+v", prepared)
	}
}
