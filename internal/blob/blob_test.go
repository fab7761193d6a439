package blob

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/config"
)

func TestPublicBase(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{
			"cdn wins",
			config.Config{S3PublicURL: "https://cdn.example.com/", S3Endpoint: "http://minio:9000", S3Bucket: "fotos"},
			"https://cdn.example.com",
		},
		{
			"path style endpoint",
			config.Config{S3Endpoint: "http://minio:9000/", S3Bucket: "fotos"},
			"http://minio:9000/fotos",
		},
		{
			"aws virtual host",
			config.Config{S3Bucket: "fotos", S3Region: "sa-east-1"},
			"https://fotos.s3.sa-east-1.amazonaws.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := publicBase(&tt.cfg); got != tt.want {
				t.Errorf("publicBase = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNew_DisabledWithoutCredentials(t *testing.T) {
	st, err := New(&config.Config{S3Bucket: "fotos"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := st.(Disabled); !ok {
		t.Fatalf("expected Disabled, got %T", st)
	}

	_, err = st.Put(context.Background(), "k", "image/webp", strings.NewReader("x"), 1)
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Put err = %v, want ErrDisabled", err)
	}
}

func TestS3_URL(t *testing.T) {
	st, err := NewS3(&config.Config{
		S3Bucket:          "fotos",
		S3Region:          "us-east-1",
		S3Endpoint:        "http://minio:9000",
		S3AccessKeyID:     "key",
		S3SecretAccessKey: "secret",
	})
	if err != nil {
		t.Fatalf("NewS3: %v", err)
	}

	if got := st.URL("/staff/1.webp"); got != "http://minio:9000/fotos/staff/1.webp" {
		t.Errorf("URL = %q", got)
	}
}
