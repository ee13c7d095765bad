package service

import (
	"context"
	"os"
	"strings"
	"testing"

	"mgtu_lab_backend/internal/repository"
)

// Минимальный валидный PNG-заголовок, достаточный для сниффинга типа.
var pngBytes = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, []byte("fake image body")...)

func newImageService(t *testing.T, dir string) *ImageService {
	t.Helper()
	db := newTestDB(t)
	provider := &LocalStorageProvider{Dir: dir, PublicURL: "http://localhost:8080"}
	return NewImageService(repository.NewImageRepository(db), provider)
}

func TestUpload_ContentAddressedDeduplication(t *testing.T) {
	dir := t.TempDir()
	svc := newImageService(t, dir)

	first, err := svc.Upload(context.Background(), pngBytes)
	if err != nil {
		t.Fatalf("first Upload: %v", err)
	}
	second, err := svc.Upload(context.Background(), pngBytes)
	if err != nil {
		t.Fatalf("second Upload: %v", err)
	}
	if first != second {
		t.Errorf("identical bytes resolved to different URLs: %q vs %q", first, second)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("images dir has %d files, want 1", len(entries))
	}
}

func TestUpload_DistinctContentGetsDistinctFiles(t *testing.T) {
	dir := t.TempDir()
	svc := newImageService(t, dir)

	first, err := svc.Upload(context.Background(), pngBytes)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	other := append([]byte{}, pngBytes...)
	other = append(other, '!')
	second, err := svc.Upload(context.Background(), other)
	if err != nil {
		t.Fatalf("Upload other: %v", err)
	}
	if first == second {
		t.Error("different content must get different URLs")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("images dir has %d files, want 2", len(entries))
	}
}

func TestUpload_PNGExtensionFromContent(t *testing.T) {
	svc := newImageService(t, t.TempDir())

	url, err := svc.Upload(context.Background(), pngBytes)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasSuffix(url, ".png") {
		t.Errorf("url = %q, want .png suffix", url)
	}
	if !strings.Contains(url, "/images/") {
		t.Errorf("url = %q, want /images/ path", url)
	}
}

func TestUpload_EmptyRejected(t *testing.T) {
	svc := newImageService(t, t.TempDir())
	if _, err := svc.Upload(context.Background(), nil); err == nil {
		t.Error("empty upload must fail")
	}
}
