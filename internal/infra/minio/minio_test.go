package minio

import (
	"encoding/base64"
	"testing"

	"foodgram-go/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDataURI(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("\x89PNG fake"))

	img, err := DecodeDataURI("data:image/png;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "png", img.Ext)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, []byte("\x89PNG fake"), img.Data)

	jpeg, err := DecodeDataURI("data:image/jpeg;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "jpg", jpeg.Ext)

	svg, err := DecodeDataURI("data:image/svg+xml;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "svg", svg.Ext)
}

func TestDecodeDataURIRejects(t *testing.T) {
	for _, in := range []string{
		"",
		"http://example.com/a.png",
		"data:text/plain;base64,aGVsbG8=",
		"data:image/png,aGVsbG8=",
		"data:image/png;base64,%%%",
		"data:image/png;base64,",
	} {
		_, err := DecodeDataURI(in)
		assert.ErrorIs(t, err, ErrInvalidImage, in)
	}
}

func TestImageStoreURLs(t *testing.T) {
	store := NewImageStore(nil, &config.MinIOConfig{Endpoint: "minio:9000", ImageBucket: "recipe-images"})
	assert.Equal(t, "http://minio:9000/recipe-images", store.publicURL)

	name, ok := store.objectName("http://minio:9000/recipe-images/recipes/abc.png")
	assert.True(t, ok)
	assert.Equal(t, "recipes/abc.png", name)

	_, ok = store.objectName("http://elsewhere/recipes/abc.png")
	assert.False(t, ok)

	cdn := NewImageStore(nil, &config.MinIOConfig{Endpoint: "minio:9000", ImageBucket: "img", PublicURL: "https://cdn.example.com/"})
	assert.Equal(t, "https://cdn.example.com/img", cdn.publicURL)
}
