package storage

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestPresignSignsPublicIDAndTimestamp(t *testing.T) {
	c, err := NewCloudinary("demo", "key-1", "secret-1")
	if err != nil {
		t.Fatalf("NewCloudinary: %v", err)
	}
	c.now = func() time.Time { return time.Unix(1700000000, 0) }

	up, err := c.Presign(context.Background(), "uploads/image/2026-10-18/u1/abc/cover", KindImage)
	if err != nil {
		t.Fatalf("Presign: %v", err)
	}
	if up.URL != "https://api.cloudinary.com/v1_1/demo/image/upload" {
		t.Fatalf("URL = %q", up.URL)
	}
	if up.Fields["timestamp"] != "1700000000" || up.Fields["api_key"] != "key-1" {
		t.Fatalf("fields = %v", up.Fields)
	}
	if len(up.Fields["signature"]) == 0 {
		t.Fatal("missing signature")
	}
	if !strings.Contains(up.PublicURL, "res.cloudinary.com/demo/image/upload") ||
		!strings.HasSuffix(up.PublicURL, "uploads/image/2026-10-18/u1/abc/cover") {
		t.Fatalf("PublicURL = %q", up.PublicURL)
	}
}

func TestPresignIsDeterministicForSameInput(t *testing.T) {
	c, _ := NewCloudinary("demo", "key-1", "secret-1")
	c.now = func() time.Time { return time.Unix(1700000000, 0) }

	a, _ := c.Presign(context.Background(), "k", KindVideo)
	b, _ := c.Presign(context.Background(), "k", KindVideo)
	if a.Fields["signature"] != b.Fields["signature"] {
		t.Fatal("signature should only depend on parameters and secret")
	}
	if !strings.Contains(a.URL, "/video/upload") {
		t.Fatalf("video uploads use the video endpoint, got %q", a.URL)
	}
}

func TestNewCloudinaryRequiresCredentials(t *testing.T) {
	if _, err := NewCloudinary("", "k", "s"); err != ErrNotConfigured {
		t.Fatalf("err = %v", err)
	}
}

func TestPublicURLHasNoQueryString(t *testing.T) {
	c, _ := NewCloudinary("demo", "key-1", "secret-1")
	for _, kind := range []Kind{KindImage, KindVideo} {
		u, err := c.PublicURL("uploads/video/2026-10-18/u1/abc/intro", kind)
		if err != nil {
			t.Fatalf("PublicURL(%s): %v", kind, err)
		}
		if strings.Contains(u, "?") {
			t.Fatalf("PublicURL(%s) = %q, want no query string", kind, u)
		}
	}
}
