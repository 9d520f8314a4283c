package api

import (
	"io"
	"mime"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseMultipart(t *testing.T, body io.Reader, contentType string) map[string][]byte {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	parts := map[string][]byte{}
	mr := multipart.NewReader(body, params["boundary"])
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(p)
		require.NoError(t, err)
		parts[p.FormName()] = data
	}
	return parts
}

func TestBuildMultipart_FieldsOnly(t *testing.T) {
	buf, contentType, err := BuildMultipart(map[string]string{
		"email_json_data": `{"sender":"a@b.c"}`,
	}, nil)
	require.NoError(t, err)

	parts := parseMultipart(t, buf, contentType)
	require.Len(t, parts, 1)
	assert.Equal(t, `{"sender":"a@b.c"}`, string(parts["email_json_data"]))
}

func TestBuildMultipart_WithFilePreservesContentType(t *testing.T) {
	buf, contentType, err := BuildMultipart(map[string]string{
		"email_json_data": `{}`,
	}, &FilePart{
		FieldName:   "attachment",
		FileName:    "report.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.7 data"),
	})
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	mr := multipart.NewReader(buf, params["boundary"])
	sawAttachment := false
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if p.FormName() != "attachment" {
			continue
		}
		sawAttachment = true
		assert.Equal(t, "report.pdf", p.FileName())
		assert.Equal(t, "application/pdf", p.Header.Get("Content-Type"))
		data, err := io.ReadAll(p)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.7 data", string(data))
	}
	assert.True(t, sawAttachment)
}
