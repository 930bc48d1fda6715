package services_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"testing"

	"celenk/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	name string
	data []byte
}

func (m *memoryStore) Save(_ context.Context, name string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.name = name
	m.data = data
	return "/uploads/" + name + ".jpg", nil
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, G: 30, B: 30, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadService_DownscalesWideImages(t *testing.T) {
	store := &memoryStore{}
	svc := services.NewUploadService(store, nil)
	data := encodePNG(t, 2400, 60)

	url, err := svc.UploadImage(context.Background(), bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/"+store.name+".jpg", url)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(store.data))
	require.NoError(t, err)
	assert.Equal(t, 1600, cfg.Width)
	assert.Equal(t, 40, cfg.Height)
}

func TestUploadService_KeepsSmallImages(t *testing.T) {
	store := &memoryStore{}
	svc := services.NewUploadService(store, nil)
	data := encodePNG(t, 300, 200)

	_, err := svc.UploadImage(context.Background(), bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(store.data))
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Width)
}

func TestUploadService_Rejects(t *testing.T) {
	svc := services.NewUploadService(&memoryStore{}, nil)

	_, err := svc.UploadImage(context.Background(), bytes.NewReader([]byte("GIF89a not really")), 17)
	assert.ErrorIs(t, err, services.ErrUnsupportedImage)

	_, err = svc.UploadImage(context.Background(), bytes.NewReader(nil), services.MaxUploadBytes+1)
	assert.ErrorIs(t, err, services.ErrValidation)
}

// withDeclaredSize rewrites the IHDR dimensions of a PNG and fixes its CRC.
func withDeclaredSize(data []byte, w, h uint32) []byte {
	out := append([]byte(nil), data...)
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestUploadService_RejectsHugeDeclaredDimensions(t *testing.T) {
	store := &memoryStore{}
	svc := services.NewUploadService(store, nil)
	data := withDeclaredSize(encodePNG(t, 4, 4), 50000, 50000)

	_, err := svc.UploadImage(context.Background(), bytes.NewReader(data), int64(len(data)))
	require.ErrorIs(t, err, services.ErrValidation)
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields["file"], "50000x50000")
	assert.Nil(t, store.data)
}
