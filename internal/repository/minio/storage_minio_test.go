package minio

import "testing"

func TestObjectURL(t *testing.T) {
	cases := []struct {
		base, bucket, object, want string
	}{
		{"https://cdn.example.com", "blog-covers", "posts/1/cover.png", "https://cdn.example.com/blog-covers/posts/1/cover.png"},
		{"https://cdn.example.com/", "blog-covers", "/posts/1/cover.png", "https://cdn.example.com/blog-covers/posts/1/cover.png"},
	}
	for _, tc := range cases {
		if got := ObjectURL(tc.base, tc.bucket, tc.object); got != tc.want {
			t.Fatalf("ObjectURL(%q, %q, %q) = %q, want %q", tc.base, tc.bucket, tc.object, got, tc.want)
		}
	}
}

func TestNewStorageDerivesPublicURL(t *testing.T) {
	client, err := NewClient("localhost:9000", "key", "secret", false)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	storage := NewStorage(client, "", false)
	if storage.publicURL != "http://localhost:9000" {
		t.Fatalf("expected derived public url, got %q", storage.publicURL)
	}

	storage = NewStorage(client, " https://cdn.example.com/ ", false)
	if storage.publicURL != "https://cdn.example.com" {
		t.Fatalf("expected configured public url, got %q", storage.publicURL)
	}
}
