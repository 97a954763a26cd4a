package storage

import (
	"testing"

	"campusrun/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePhoto_AcceptsRasterImages(t *testing.T) {
	cases := []struct {
		name        string
		data        []byte
		contentType string
		ext         string
	}{
		{"png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, "image/png", "png"},
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F'}, "image/jpeg", "jpg"},
		{"gif", []byte("GIF89a"), "image/gif", "gif"},
		{"webp", append([]byte("RIFF\x00\x00\x00\x00WEBP"), make([]byte, 8)...), "image/webp", "webp"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			contentType, ext, err := validatePhoto(tc.data)
			require.NoError(t, err)
			assert.Equal(t, tc.contentType, contentType)
			assert.Equal(t, tc.ext, ext)
		})
	}
}

func TestValidatePhoto_RejectsEmpty(t *testing.T) {
	_, _, err := validatePhoto(nil)

	var validation *types.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "photo", validation.Field)
}

func TestValidatePhoto_RejectsOversize(t *testing.T) {
	data := make([]byte, MaxPhotoSizeBytes+1)
	data[0] = 0x89
	copy(data[1:], "PNG\r\n")

	_, _, err := validatePhoto(data)

	var validation *types.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Message, "5MB")
}

func TestValidatePhoto_RejectsNonImages(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"plain text", []byte("definitely not an image")},
		{"svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`)},
		{"html", []byte("<!DOCTYPE html><script>alert(1)</script>")},
		{"pdf", []byte("%PDF-1.4")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := validatePhoto(tc.data)

			var validation *types.ValidationError
			require.ErrorAs(t, err, &validation)
		})
	}
}
