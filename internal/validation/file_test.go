package validation

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	w, err := mw.CreateFormFile("upload", filename)
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/submit/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["upload"][0]
}

// zipMagic is the local file header signature every zip starts with.
var zipMagic = []byte("PK\x03\x04" + "rest of the archive")

func TestValidateFile_Package(t *testing.T) {
	header := uploadHeader(t, "app.zip", zipMagic)

	assert.NoError(t, ValidateFile(header, PackageConstraints))
}

func TestValidateFile_RejectsWrongContent(t *testing.T) {
	header := uploadHeader(t, "app.zip", []byte("<html>not a zip</html>"))

	assert.Error(t, ValidateFile(header, PackageConstraints))
}

func TestValidateFile_RejectsWrongExtension(t *testing.T) {
	header := uploadHeader(t, "app.exe", zipMagic)

	assert.Error(t, ValidateFile(header, PackageConstraints))
}
