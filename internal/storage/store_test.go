package storage_test

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskmarket/internal/storage"

	"github.com/stretchr/testify/assert"
)

// fileHeaders builds real multipart.FileHeader values by writing a form and
// parsing it back.
func fileHeaders(t *testing.T, files map[string]string) []*multipart.FileHeader {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, content := range files {
		part, err := writer.CreateFormFile("files", name)
		assert.NoError(t, err)
		_, err = part.Write([]byte(content))
		assert.NoError(t, err)
	}
	assert.NoError(t, writer.Close())

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	assert.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["files"]
}

func TestStore_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.New(dir, "/uploads/", 1<<20)
	assert.NoError(t, err)

	fhs := fileHeaders(t, map[string]string{"quote.PDF": "fake pdf bytes"})

	att, err := store.Save(fhs[0])
	assert.NoError(t, err)
	assert.Equal(t, "quote.PDF", att.OrigName)
	assert.True(t, strings.HasSuffix(att.StoredName, ".pdf"), "extension should be lowercased")
	assert.NotContains(t, att.StoredName, "quote", "stored name must not leak the original name")
	assert.Equal(t, "/uploads/"+att.StoredName, att.URL)

	data, err := os.ReadFile(filepath.Join(dir, att.StoredName))
	assert.NoError(t, err)
	assert.Equal(t, "fake pdf bytes", string(data))
}

func TestStore_Save_UniqueNames(t *testing.T) {
	store, err := storage.New(t.TempDir(), "/uploads", 1<<20)
	assert.NoError(t, err)

	fhs := fileHeaders(t, map[string]string{"a.txt": "first"})
	first, err := store.Save(fhs[0])
	assert.NoError(t, err)
	second, err := store.Save(fhs[0])
	assert.NoError(t, err)

	assert.NotEqual(t, first.StoredName, second.StoredName)
}

func TestStore_Save_SizeLimit(t *testing.T) {
	store, err := storage.New(t.TempDir(), "/uploads", 4)
	assert.NoError(t, err)

	fhs := fileHeaders(t, map[string]string{"big.bin": "way past the limit"})

	_, err = store.Save(fhs[0])
	assert.Error(t, err)
}

func TestStore_SaveAll_SkipsFailures(t *testing.T) {
	store, err := storage.New(t.TempDir(), "/uploads", 8)
	assert.NoError(t, err)

	fhs := fileHeaders(t, map[string]string{
		"ok.txt":  "small",
		"big.bin": "way past the limit",
	})

	saved, err := store.SaveAll(fhs)
	assert.NoError(t, err)
	assert.Len(t, saved, 1)
	assert.Equal(t, "ok.txt", saved[0].OrigName)
}

func TestStore_SaveAll_AllFailed(t *testing.T) {
	store, err := storage.New(t.TempDir(), "/uploads", 1)
	assert.NoError(t, err)

	fhs := fileHeaders(t, map[string]string{"big.bin": "way past the limit"})

	_, err = store.SaveAll(fhs)
	assert.ErrorIs(t, err, storage.ErrAllFilesFailed)
}

func TestStore_SaveAll_NoFiles(t *testing.T) {
	store, err := storage.New(t.TempDir(), "/uploads", 1<<20)
	assert.NoError(t, err)

	saved, err := store.SaveAll(nil)
	assert.NoError(t, err)
	assert.Empty(t, saved)
}
