package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// FormFile is a file part of a multipart request body.
type FormFile struct {
	Field   string
	Name    string
	Content []byte
}

// MultipartBody builds a multipart/form-data body from plain fields and
// files, returning the reader and its boundary-bearing content type.
func MultipartBody(fields map[string]string, files ...FormFile) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("write field %q: %w", k, err)
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err != nil {
			return nil, "", fmt.Errorf("create file part %q: %w", f.Field, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", fmt.Errorf("write file part %q: %w", f.Field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
