package s3

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNewClientValidatesInputs(t *testing.T) {
	if _, err := NewClient("", false, "k", "s", "proofs", "", nil); err == nil {
		t.Error("expected error for empty endpoint")
	}
	if _, err := NewClient("localhost:9000", false, "k", "s", "  ", "", nil); err == nil {
		t.Error("expected error for empty bucket")
	}
}

func TestUploadRejectsUnsupportedContentType(t *testing.T) {
	client, err := NewClient("localhost:9000", false, "k", "s", "proofs", "", nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Upload(context.Background(), "revenue-proofs/x.bin", strings.NewReader("x"), 1, "application/octet-stream")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestNoopUploaderFails(t *testing.T) {
	if _, err := (NoopUploader{}).Upload(context.Background(), "k", strings.NewReader("x"), 1, "application/pdf"); err == nil {
		t.Error("noop uploader must refuse uploads")
	}
}
