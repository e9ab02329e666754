package testutil

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// PNGHeader is the signature of a PNG file, enough for upload tests
var PNGHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// MultipartFile is one file part of a multipart body
type MultipartFile struct {
	Field    string
	Filename string
	Content  []byte
}

func writeMultipart(t *testing.T, fields map[string]string, files ...MultipartFile) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, f := range files {
		part, err := writer.CreateFormFile(f.Field, f.Filename)
		require.NoError(t, err)
		_, err = part.Write(f.Content)
		require.NoError(t, err)
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

// NewMultipartRequest builds a multipart/form-data request
func NewMultipartRequest(t *testing.T, method, url string, fields map[string]string, files ...MultipartFile) *http.Request {
	t.Helper()

	body, contentType := writeMultipart(t, fields, files...)
	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", contentType)
	return req
}

// NewFileHeader returns the parsed header of a single uploaded file
func NewFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	req := NewMultipartRequest(t, http.MethodPost, "/", nil, MultipartFile{Field: "image", Filename: filename, Content: content})
	require.NoError(t, req.ParseMultipartForm(32<<20))
	headers := req.MultipartForm.File["image"]
	require.Len(t, headers, 1)
	return headers[0]
}
