package api

import (
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rootine/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingReader serves n bytes of a JSON data URL and records how many
// bytes were pulled from it.
type countingReader struct {
	prefix string
	size   int64
	read   int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	if r.read >= r.size {
		return 0, io.EOF
	}
	n := 0
	for n < len(p) && r.read < r.size {
		if r.read < int64(len(r.prefix)) {
			p[n] = r.prefix[r.read]
		} else {
			p[n] = 'A'
		}
		n++
		r.read++
	}
	return n, nil
}

func proofContext(body *http.Request) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = body
	return c
}

func TestReadProofImage_OversizedJSONIsCutOff(t *testing.T) {
	body := &countingReader{prefix: `{"dataUrl":"data:image/png;base64,`, size: 64 << 20}
	req := httptest.NewRequest(http.MethodPost, "/groups/1/proofs", body)
	req.Header.Set("Content-Type", "application/json")

	img, _, err := readProofImage(proofContext(req))
	require.ErrorIs(t, err, ErrUploadTooLarge)
	assert.Empty(t, img.Data)
	assert.Less(t, body.read, maxUploadBody+1<<20)
}

func TestReadProofImage_JSONErrors(t *testing.T) {
	t.Run("bad body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"description":"`+strings.Repeat("x", 600)+`","dataUrl":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		_, _, err := readProofImage(proofContext(req))
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("undecodable data url", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"dataUrl":"data:image/png;base64,@@@","description":"run"}`))
		req.Header.Set("Content-Type", "application/json")
		img, description, err := readProofImage(proofContext(req))
		require.NoError(t, err)
		assert.Equal(t, "run", description)
		assert.ErrorIs(t, img.Err, service.ErrInvalidImage)
	})

	t.Run("valid data url", func(t *testing.T) {
		dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"dataUrl":"`+dataURL+`"}`))
		req.Header.Set("Content-Type", "application/json")
		img, _, err := readProofImage(proofContext(req))
		require.NoError(t, err)
		assert.NoError(t, img.Err)
		assert.Equal(t, "image/png", img.ContentType)
		assert.Equal(t, pngBytes, img.Data)
	})
}
