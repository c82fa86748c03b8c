package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func TestAllowed(t *testing.T) {
	cases := []struct {
		name    string
		allowed []string
		want    bool
	}{
		{"curriculo.pdf", ResumeExtensions, true},
		{"CURRICULO.PDF", ResumeExtensions, true},
		{"curriculo.docx", ResumeExtensions, false},
		{"curriculo", ResumeExtensions, false},
		{"archive.pdf.exe", ResumeExtensions, false},
		{"foto.JPeG", ImageExtensions, true},
		{"foto.webp", ImageExtensions, true},
		{"foto.svg", ImageExtensions, false},
		{"foto.", ImageExtensions, false},
	}
	for _, tc := range cases {
		if got := Allowed(tc.name, tc.allowed); got != tc.want {
			t.Errorf("Allowed(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := [][2]string{
		{"Currículo João.pdf", "Curriculo_Joao.pdf"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\ana\cv final.pdf`, "cv_final.pdf"},
		{"  espaços   demais .png", "espacos_demais_.png"},
		{"...", ""},
		{"<script>.pdf", "script.pdf"},
	}
	for _, tc := range cases {
		if got := SanitizeFilename(tc[0]); got != tc[1] {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tc[0], got, tc[1])
		}
	}
}

func TestBuildName(t *testing.T) {
	at := time.Date(2025, 6, 7, 8, 9, 10, 0, time.UTC)

	name, err := BuildName(PrefixResume, 42, at, "Meu CV.pdf")
	if err != nil {
		t.Fatalf("BuildName: %v", err)
	}
	if name != "cv_42_20250607080910_Meu_CV.pdf" {
		t.Fatalf("name = %q", name)
	}

	name, err = BuildName(PrefixPost, 0, at, "capa.png")
	if err != nil || name != "post_20250607080910_capa.png" {
		t.Fatalf("name = %q, err = %v", name, err)
	}

	if _, err := BuildName(PrefixPost, 0, at, "..."); err == nil {
		t.Fatal("expected error for a name that sanitizes to nothing")
	}

	long := strings.Repeat("a", 400) + ".pdf"
	name, err = BuildName(PrefixResume, 1, at, long)
	if err != nil || len(name) != maxNameLength || !strings.HasSuffix(name, ".pdf") {
		t.Fatalf("long name not truncated correctly: len=%d err=%v", len(name), err)
	}
}

func TestValidateName(t *testing.T) {
	for _, bad := range []string{"", "../x.pdf", "a/b.pdf", `a\b.pdf`, ".env", "a..b", "x\x00.pdf"} {
		if ValidateName(bad) == nil {
			t.Errorf("ValidateName(%q) should fail", bad)
		}
	}
	if err := ValidateName("cv_1_20250101000000_cv.pdf"); err != nil {
		t.Errorf("valid name rejected: %v", err)
	}
	if !IsResume("cv_1_x.pdf") || IsResume("post_x.png") || IsResume("cvx.pdf") {
		t.Error("IsResume mismatch")
	}
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if err := s.Save(ctx, "post_1_a.png", strings.NewReader("png-bytes")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, "post_1_a.png", strings.NewReader("again")); err == nil {
		t.Fatal("second save with the same name must fail")
	}

	rc, err := s.Open(ctx, "post_1_a.png")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "png-bytes" {
		t.Fatalf("content = %q", data)
	}

	if err := s.Delete(ctx, "post_1_a.png"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "post_1_a.png"); err != nil {
		t.Fatalf("deleting a missing file should succeed: %v", err)
	}
	if _, err := s.Open(ctx, "post_1_a.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLocalStore(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	exerciseStore(t, s)

	if err := s.Save(context.Background(), "../escape.pdf", strings.NewReader("x")); err == nil {
		t.Fatal("path traversal must be rejected")
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

type fakeS3 struct {
	objects map[string][]byte
	puts    []*s3.PutObjectInput
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, _ := io.ReadAll(in.Body)
	f.objects[aws.ToString(in.Key)] = data
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(string(data)))}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	client := &fakeS3{objects: map[string][]byte{}}
	s := NewS3Store(client, "honoriel-uploads", "/site/")
	exerciseStore(t, s)

	if len(client.puts) != 1 {
		t.Fatalf("expected one put, got %d", len(client.puts))
	}
	put := client.puts[0]
	if aws.ToString(put.Key) != "site/post_1_a.png" || aws.ToString(put.Bucket) != "honoriel-uploads" {
		t.Fatalf("unexpected key/bucket %s/%s", aws.ToString(put.Bucket), aws.ToString(put.Key))
	}
	if aws.ToString(put.ContentType) != "image/png" {
		t.Fatalf("content type = %q", aws.ToString(put.ContentType))
	}
}
