package detection

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferenceDetector_Detect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, _, err := r.FormFile("image")
		require.NoError(t, err)
		data, _ := io.ReadAll(file)
		assert.Equal(t, "jpeg-bytes", string(data))
		assert.Equal(t, "0.4", r.FormValue("conf"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"detections":[{"class":"apple","confidence":0.91,"bbox":[1,2,3,4]},{"class":"cup","confidence":0.5}]}`))
	}))
	defer server.Close()

	detector := NewInferenceDetector(server.URL, time.Second)

	raw, err := detector.Detect(context.Background(), []byte("jpeg-bytes"), 0.4)

	require.NoError(t, err)
	require.Len(t, raw, 2)
	assert.Equal(t, "apple", raw[0].Label)
	require.NotNil(t, raw[0].Box)
	assert.Equal(t, 4.0, raw[0].Box.Y2)
	assert.Nil(t, raw[1].Box)
}

func TestInferenceDetector_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	detector := NewInferenceDetector(server.URL, time.Second)

	_, err := detector.Detect(context.Background(), []byte("img"), 0.25)

	assert.ErrorContains(t, err, "model not loaded")
}

func TestInferenceDetector_CheckHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	detector := NewInferenceDetector(server.URL+"/", time.Second)
	checker, ok := detector.(HealthChecker)
	require.True(t, ok)

	assert.NoError(t, checker.CheckHealth(context.Background()))
}
