package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/receiptsplit/internal/extraction"
	"github.com/mmynk/receiptsplit/internal/models"
)

func uploadBody(t *testing.T, contentType, model string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="receipt.jpg"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)

	if model != "" {
		require.NoError(t, mw.WriteField("model", model))
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestOCRUpload(t *testing.T) {
	env := setupTestServer(t)
	env.extractor.result = models.RawExtraction{
		Items: []models.RawItem{
			{Name: "Milk", Price: models.NewNumber(100), Quantity: models.NewNumber(1)},
			{Name: "Coupon", Price: models.NewNumber(15), Quantity: models.NewNumber(1)},
		},
		Total:    models.NewNumber(85),
		Currency: "INR",
	}

	body, ct := uploadBody(t, "application/octet-stream", "")
	resp, err := http.Post(env.server.URL+"/api/ocr", ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "gemini-2.0-flash", got["_modelUsed"])
	items := got["items"].([]any)
	coupon := items[1].(map[string]any)
	assert.Equal(t, -15.0, coupon["price"])
	assert.Equal(t, "image/jpeg", env.extractor.mime)
}

func TestOCRUploadFallsBack(t *testing.T) {
	env := setupTestServer(t)
	env.extractor.errs["gemini-2.5-flash"] = fmt.Errorf("%w: 429", extraction.ErrRateLimited)

	body, ct := uploadBody(t, "image/png", "gemini-2.5-flash")
	resp, err := http.Post(env.server.URL+"/api/ocr", ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "gemini-2.5-flash-lite", got["_modelUsed"])
	assert.Equal(t, []string{"gemini-2.5-flash", "gemini-2.5-flash-lite"}, env.extractor.calls)
}

func TestOCRUploadQuotaExhausted(t *testing.T) {
	env := setupTestServer(t)
	env.extractor.errs["gemma-3-27b-it"] = fmt.Errorf("%w: 429", extraction.ErrRateLimited)

	body, ct := uploadBody(t, "image/png", "gemma-3-27b-it")
	resp, err := http.Post(env.server.URL+"/api/ocr", ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	var got errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Contains(t, got.Error, "quota exceeded")
}

func TestOCRUploadErrors(t *testing.T) {
	env := setupTestServer(t)

	t.Run("missing image", func(t *testing.T) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		require.NoError(t, mw.WriteField("model", "gemini-2.0-flash"))
		require.NoError(t, mw.Close())

		resp, err := http.Post(env.server.URL+"/api/ocr", mw.FormDataContentType(), &body)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown model", func(t *testing.T) {
		body, ct := uploadBody(t, "image/png", "gpt-4")
		resp, err := http.Post(env.server.URL+"/api/ocr", ct, body)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestOCRHealth(t *testing.T) {
	env := setupTestServer(t)

	resp, err := http.Get(env.server.URL + "/api/ocr/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "OCR Service Running", string(b))
}

func TestModelRoutes(t *testing.T) {
	env := setupTestServer(t)

	resp, err := http.Post(env.server.URL+"/api/models/select", "application/json", strings.NewReader(`{"model":"gemini-2.5-flash","autoMode":false}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(env.server.URL + "/api/models/current")
	require.NoError(t, err)
	defer resp.Body.Close()

	var prefs models.Preferences
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&prefs))
	assert.Equal(t, models.Preferences{SelectedModel: "gemini-2.5-flash", AutoMode: false}, prefs)

	resp2, err := http.Post(env.server.URL+"/api/models/select", "application/json", strings.NewReader(`{"model":"nope"}`))
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}
