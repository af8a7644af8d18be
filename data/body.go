package data

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
)

// Blob is binary content with a MIME type, sent as-is.
type Blob struct {
	// Type is used as the default Content-Type when the request sets none.
	Type string
	Data []byte
}

// FormData is a multipart/form-data body. Fields are written first, in
// order, then files.
type FormData struct {
	Fields []FormField
	Files  []FileField
}

// FormField is a plain form field.
type FormField struct {
	Name  string
	Value string
}

// FileField is a file part of a multipart body.
type FileField struct {
	// FieldName is the form field name (e.g., "file", "avatar").
	FieldName string
	// FileName is the file name sent to the server.
	FileName string
	// ContentType is the MIME type. If empty, uses application/octet-stream.
	ContentType string
	// Data is the file content. Used if Reader is nil.
	Data []byte
	// Reader is an alternative to Data for large files.
	Reader io.Reader
}

// Add appends a plain field.
func (f *FormData) Add(name, value string) *FormData {
	f.Fields = append(f.Fields, FormField{Name: name, Value: value})
	return f
}

// AddFile appends a file part.
func (f *FormData) AddFile(file FileField) *FormData {
	f.Files = append(f.Files, file)
	return f
}

// Encode builds the multipart body and returns it with its content type.
func (f *FormData) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, field := range f.Fields {
		if err := w.WriteField(field.Name, field.Value); err != nil {
			return nil, "", err
		}
	}

	for _, file := range f.Files {
		var part io.Writer
		var err error
		if file.ContentType != "" {
			header := make(textproto.MIMEHeader)
			header.Set("Content-Disposition",
				`form-data; name="`+escapeQuotes(file.FieldName)+`"; filename="`+escapeQuotes(file.FileName)+`"`)
			header.Set("Content-Type", file.ContentType)
			part, err = w.CreatePart(header)
		} else {
			part, err = w.CreateFormFile(file.FieldName, file.FileName)
		}
		if err != nil {
			return nil, "", err
		}

		switch {
		case file.Data != nil:
			_, err = part.Write(file.Data)
		case file.Reader != nil:
			_, err = io.Copy(part, file.Reader)
		}
		if err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func escapeQuotes(s string) string {
	var buf bytes.Buffer
	for _, b := range []byte(s) {
		if b == '"' || b == '\\' {
			buf.WriteByte('\\')
		}
		buf.WriteByte(b)
	}
	return buf.String()
}
