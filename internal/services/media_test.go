package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, filename, contentType string, body []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

func TestLocalMediaStoreSave(t *testing.T) {
	root := t.TempDir()
	store := NewLocalMediaStore(root, "/media/")

	ref, err := store.Save(context.Background(), fileHeader(t, "cat.PNG", "image/png", []byte("png-bytes")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/media/posts/"))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	data, err := os.ReadFile(filepath.Join(root, "posts", filepath.Base(ref)))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestLocalMediaStoreRejectsNonImages(t *testing.T) {
	store := NewLocalMediaStore(t.TempDir(), "/media")

	_, err := store.Save(context.Background(), fileHeader(t, "notes.txt", "text/plain", []byte("hi")))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "image", ve.Field)
}

func TestLocalMediaStoreInfersExtension(t *testing.T) {
	store := NewLocalMediaStore(t.TempDir(), "/media")

	ref, err := store.Save(context.Background(), fileHeader(t, "blob", "image/webp", []byte("webp")))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, ".webp"))
}

func TestWriteFileRemovesPartialFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "broken.png")
	src := io.MultiReader(strings.NewReader("partial"), iotest.ErrReader(errors.New("connection reset")))

	err := writeFile(target, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")

	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteFileKeepsCompleteFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "ok.png")
	require.NoError(t, writeFile(target, strings.NewReader("complete")))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "complete", string(data))
}
