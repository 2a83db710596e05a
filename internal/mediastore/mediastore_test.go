package mediastore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	mp4Bytes = []byte("\x00\x00\x00\x1cftypisom\x00\x00\x02\x00isomiso2mp41\x00\x00\x00\x08free")
)

// writeTempFile writes content into a new file under t.TempDir
func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

// mockProber is a mock implementation of DurationProber
type mockProber struct {
	duration float64
	err      error
	calls    int
}

func (m *mockProber) Probe(ctx context.Context, path string) (float64, error) {
	m.calls++
	return m.duration, m.err
}

func TestLocalStore_Upload(t *testing.T) {
	tests := []struct {
		name                string
		fileName            string
		content             []byte
		prober              *mockProber
		expectedContentType string
		expectedKind        string
		expectedDuration    *float64
		expectedProbeCalls  int
	}{
		{
			name:                "image without duration",
			fileName:            "thumb.bin",
			content:             pngBytes,
			prober:              &mockProber{duration: 99},
			expectedContentType: "image/png",
			expectedKind:        "image",
			expectedProbeCalls:  0,
		},
		{
			name:                "video with measured duration",
			fileName:            "clip.bin",
			content:             mp4Bytes,
			prober:              &mockProber{duration: 12.5},
			expectedContentType: "video/mp4",
			expectedKind:        "video",
			expectedDuration:    func() *float64 { d := 12.5; return &d }(),
			expectedProbeCalls:  1,
		},
		{
			name:                "video with failed probe keeps uploading",
			fileName:            "clip.bin",
			content:             mp4Bytes,
			prober:              &mockProber{err: errors.New("ffprobe missing")},
			expectedContentType: "video/mp4",
			expectedKind:        "video",
			expectedProbeCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := t.TempDir()
			store := NewLocalStore(base, "http://localhost:8080/", tt.prober, zap.NewNop())
			src := writeTempFile(t, tt.fileName, tt.content)

			asset, err := store.Upload(context.Background(), src)

			require.NoError(t, err)
			require.NotNil(t, asset)
			assert.Equal(t, tt.expectedContentType, asset.ContentType)
			assert.Equal(t, int64(len(tt.content)), asset.Size)
			assert.Equal(t, tt.expectedDuration, asset.Duration)
			assert.Equal(t, tt.expectedProbeCalls, tt.prober.calls)
			assert.True(t, strings.HasPrefix(asset.URL, "http://localhost:8080/media/"+tt.expectedKind+"/"), asset.URL)

			stored := filepath.Join(base, tt.expectedKind, filepath.Base(asset.URL))
			data, err := os.ReadFile(stored)
			require.NoError(t, err)
			assert.Equal(t, tt.content, data)
		})
	}
}

func TestLocalStore_UploadErrors(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "http://localhost:8080", nil, zap.NewNop())

	_, err := store.Upload(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyPath)

	_, err = store.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"))
	assert.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = store.Upload(context.Background(), t.TempDir())
	assert.Error(t, err)
}

func TestLocalStore_Delete(t *testing.T) {
	base := t.TempDir()
	store := NewLocalStore(base, "http://localhost:8080", nil, zap.NewNop())
	src := writeTempFile(t, "thumb.png", pngBytes)

	asset, err := store.Upload(context.Background(), src)
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), asset.URL))
	_, err = os.Stat(filepath.Join(base, "image", filepath.Base(asset.URL)))
	assert.True(t, os.IsNotExist(err))

	// second delete reports the missing file
	assert.Error(t, store.Delete(context.Background(), asset.URL))

	tests := []struct {
		name string
		url  string
	}{
		{"other host", "http://cdn.example.com/media/image/a.png"},
		{"traversal", "http://localhost:8080/media/../secrets.txt"},
		{"prefix only", "http://localhost:8080/media/"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, store.Delete(context.Background(), tt.url), ErrForeignURL)
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		expected      float64
		expectedError bool
	}{
		{"plain", "12.345000\n", 12.345, false},
		{"integer", "60", 60, false},
		{"not available", "N/A\n", 0, true},
		{"empty", "", 0, true},
		{"garbage", "abc", 0, true},
		{"negative", "-1", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDuration(tt.raw)
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestFFProbe_MissingBinary(t *testing.T) {
	prober := NewFFProbe(filepath.Join(t.TempDir(), "no-ffprobe"))

	_, err := prober.Probe(context.Background(), "video.mp4")

	assert.Error(t, err)
	assert.Equal(t, "ffprobe", NewFFProbe("").binary)
}

func TestGenerateFileName(t *testing.T) {
	assert.True(t, strings.HasSuffix(GenerateFileName(".mp4"), ".mp4"))
	assert.True(t, strings.HasSuffix(GenerateFileName("png"), ".png"))
	assert.Len(t, GenerateFileName(""), 36)
	assert.NotEqual(t, GenerateFileName(".jpg"), GenerateFileName(".jpg"))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, "video", kindOf("video/webm"))
	assert.Equal(t, "image", kindOf("image/jpeg"))
	assert.Equal(t, "audio", kindOf("audio/mpeg"))
	assert.Equal(t, "raw", kindOf("application/pdf"))
	assert.Equal(t, "text/plain", baseContentType("text/plain; charset=utf-8"))
}

// mockObserver is a mock implementation of OperationObserver
type mockObserver struct {
	operations []string
	failures   int
}

func (m *mockObserver) ObserveMediaOperation(driver, operation string, err error, duration time.Duration) {
	m.operations = append(m.operations, driver+":"+operation)
	if err != nil {
		m.failures++
	}
}

// mockGateway is a mock implementation of Gateway
type mockGateway struct {
	asset     *Asset
	uploadErr error
	deleteErr error
}

func (m *mockGateway) Upload(ctx context.Context, localPath string) (*Asset, error) {
	return m.asset, m.uploadErr
}

func (m *mockGateway) Delete(ctx context.Context, remoteURL string) error {
	return m.deleteErr
}

func TestInstrument(t *testing.T) {
	observer := &mockObserver{}
	inner := &mockGateway{asset: &Asset{URL: "u"}, deleteErr: errors.New("gone")}
	gateway := Instrument(inner, "local", observer)

	asset, err := gateway.Upload(context.Background(), "/tmp/x")
	require.NoError(t, err)
	assert.Equal(t, "u", asset.URL)

	err = gateway.Delete(context.Background(), "u")
	assert.EqualError(t, err, "gone")

	assert.Equal(t, []string{"local:upload", "local:delete"}, observer.operations)
	assert.Equal(t, 1, observer.failures)
}
