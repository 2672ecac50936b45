package diff_test

import (
	"bytes"
	"testing"

	"github.com/packedfilearchive/pfa/diff"
	"github.com/packedfilearchive/pfa/reader"
	"github.com/packedfilearchive/pfa/shared"
	"github.com/packedfilearchive/pfa/writer"
)

func buildArchive(t *testing.T, name string, files map[string]string) *reader.Reader {
	t.Helper()
	b := writer.NewBuilder(name)
	for path, contents := range files {
		if err := b.AddFile(path, []byte(contents), shared.Options{Compression: shared.AutoCompression}); err != nil {
			t.Fatalf("AddFile %q: %v", path, err)
		}
	}
	archiveBytes, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	r, err := reader.Open(bytes.NewReader(archiveBytes), int64(len(archiveBytes)))
	if err != nil {
		t.Fatalf("reader.Open: %v", err)
	}
	return r
}

func TestCreateAndApplyRoundTrip(t *testing.T) {
	old := buildArchive(t, "project", map[string]string{
		"a.txt": "alpha unchanged",
		"b.txt": "beta original content, quite a bit longer so the patch has something to diff against",
		"c.txt": "gamma unchanged",
	})
	newArchive := buildArchive(t, "project", map[string]string{
		"b.txt": "beta original content, quite a bit longer so the patch has something to diff against, plus a tail",
		"c.txt": "gamma unchanged",
		"d.txt": "delta is brand new",
	})

	var diffBuf bytes.Buffer
	if err := diff.Create(old, newArchive, &diffBuf); err != nil {
		t.Fatalf("Create: %v", err)
	}

	diffArchive, err := reader.Open(bytes.NewReader(diffBuf.Bytes()), int64(diffBuf.Len()))
	if err != nil {
		t.Fatalf("reader.Open on diff archive: %v", err)
	}
	if got := diffArchive.Name(); got != "project_patch" {
		t.Fatalf("diff archive name = %q, want project_patch", got)
	}

	// Leaf names under /remove, /add, /change are the full original path
	// (including its leading "/") percent-encoded by shared.EscapeForDiff,
	// e.g. "/a.txt" -> "%2fa.txt".
	if _, err := diffArchive.GetPath("/remove/%2fa.txt"); err != nil {
		t.Fatalf("expected a.txt to be recorded as removed: %v", err)
	}
	if _, err := diffArchive.GetPath("/add/%2fd.txt"); err != nil {
		t.Fatalf("expected d.txt to be recorded as added: %v", err)
	}
	if _, err := diffArchive.GetPath("/change/%2fb.txt"); err != nil {
		t.Fatalf("expected b.txt to be recorded as changed: %v", err)
	}
	if _, err := diffArchive.GetPath("/remove/%2fc.txt"); err == nil {
		t.Fatal("c.txt is unchanged and should not be recorded at all")
	}
	if _, err := diffArchive.GetPath("/change/%2fc.txt"); err == nil {
		t.Fatal("c.txt is unchanged and should not be recorded as changed")
	}

	var patchedBuf bytes.Buffer
	if err := diff.Apply(old, diffArchive, &patchedBuf); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	patched, err := reader.Open(bytes.NewReader(patchedBuf.Bytes()), int64(patchedBuf.Len()))
	if err != nil {
		t.Fatalf("reader.Open on patched archive: %v", err)
	}

	want := map[string]string{
		"/b.txt": "beta original content, quite a bit longer so the patch has something to diff against, plus a tail",
		"/c.txt": "gamma unchanged",
		"/d.txt": "delta is brand new",
	}
	for path, contents := range want {
		got, err := patched.GetFile(path, nil)
		if err != nil {
			t.Fatalf("GetFile %q: %v", path, err)
		}
		if string(got) != contents {
			t.Fatalf("GetFile %q = %q, want %q", path, got, contents)
		}
	}
	if _, err := patched.GetPath("/a.txt"); err == nil {
		t.Fatal("expected a.txt to be removed from the patched archive")
	}
}

func TestCreateWithNoChangesProducesEmptyDiff(t *testing.T) {
	old := buildArchive(t, "same", map[string]string{"x.txt": "identical"})
	newArchive := buildArchive(t, "same", map[string]string{"x.txt": "identical"})

	var diffBuf bytes.Buffer
	if err := diff.Create(old, newArchive, &diffBuf); err != nil {
		t.Fatalf("Create: %v", err)
	}
	diffArchive, err := reader.Open(bytes.NewReader(diffBuf.Bytes()), int64(diffBuf.Len()))
	if err != nil {
		t.Fatalf("reader.Open: %v", err)
	}

	var patchedBuf bytes.Buffer
	if err := diff.Apply(old, diffArchive, &patchedBuf); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	patched, err := reader.Open(bytes.NewReader(patchedBuf.Bytes()), int64(patchedBuf.Len()))
	if err != nil {
		t.Fatalf("reader.Open on patched archive: %v", err)
	}
	got, err := patched.GetFile("/x.txt", nil)
	if err != nil {
		t.Fatalf("GetFile: %v", err)
	}
	if string(got) != "identical" {
		t.Fatalf("GetFile = %q, want identical", got)
	}
}
