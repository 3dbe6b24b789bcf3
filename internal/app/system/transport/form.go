// internal/app/system/transport/form.go
package transport

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// FormPayload is a multipart/form-data request body, used by the
// registration flows that upload documents. A FormPayload passed to
// Client.Do is sent as-is: no JSON serialization and no content-type
// override, since the multipart writer owns the boundary.
type FormPayload struct {
	buf    bytes.Buffer
	writer *multipart.Writer
	closed bool
}

// NewFormPayload creates an empty multipart body.
func NewFormPayload() *FormPayload {
	f := &FormPayload{}
	f.writer = multipart.NewWriter(&f.buf)
	return f
}

// SetField adds a plain text field.
func (f *FormPayload) SetField(name, value string) error {
	if f.closed {
		return fmt.Errorf("form payload already finalized")
	}
	return f.writer.WriteField(name, value)
}

// AddFile adds a file part read from r.
func (f *FormPayload) AddFile(field, filename string, r io.Reader) error {
	if f.closed {
		return fmt.Errorf("form payload already finalized")
	}
	part, err := f.writer.CreateFormFile(field, filename)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, r)
	return err
}

// finalize writes the closing boundary once and returns the body reader and
// content type.
func (f *FormPayload) finalize() (io.Reader, string, error) {
	if !f.closed {
		if err := f.writer.Close(); err != nil {
			return nil, "", err
		}
		f.closed = true
	}
	return bytes.NewReader(f.buf.Bytes()), f.writer.FormDataContentType(), nil
}
