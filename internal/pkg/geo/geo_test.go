package geo

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDataset = `[
  {"nome": "Milano", "sigla": "MI", "provincia": {"nome": "Milano"}, "cap": ["20121", "20122"]},
  {"nome": "Sesto San Giovanni", "sigla": "MI", "provincia": {"nome": "Milano"}, "cap": ["20099"]},
  {"nome": "Roma", "sigla": "RM", "provincia": {"nome": "Roma"}, "cap": ["00118"]},
  {"nome": "Romano di Lombardia", "sigla": "BG", "provincia": {"nome": "Bergamo"}, "cap": ["24058"]}
]`

func newTestService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, cacheFileName), []byte(testDataset), 0o644))
	return NewService(dir, "http://127.0.0.1:0/unused")
}

func TestSearchComuni(t *testing.T) {
	svc := newTestService(t)

	t.Run("prefix matches first", func(t *testing.T) {
		got, err := svc.SearchComuni("rom", 10)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Roma", got[0].Name)
		assert.Equal(t, "Romano di Lombardia", got[1].Name)
	})

	t.Run("substring match", func(t *testing.T) {
		got, err := svc.SearchComuni("giovanni", 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Sesto San Giovanni", got[0].Name)
		assert.Equal(t, "MI", got[0].ProvinceCode)
	})

	t.Run("case insensitive", func(t *testing.T) {
		got, err := svc.SearchComuni("MILANO", 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, []string{"20121", "20122"}, got[0].CAPs)
	})

	t.Run("short query returns nothing", func(t *testing.T) {
		got, err := svc.SearchComuni("r", 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("limit applies", func(t *testing.T) {
		got, err := svc.SearchComuni("ro", 1)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("no match yields empty slice", func(t *testing.T) {
		got, err := svc.SearchComuni("zzzz", 10)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestProvinces(t *testing.T) {
	svc := newTestService(t)

	province, err := svc.Provinces()
	require.NoError(t, err)
	require.Len(t, province, 3)

	// Sorted by name
	assert.Equal(t, Province{Name: "Bergamo", Code: "BG"}, province[0])
	assert.Equal(t, Province{Name: "Milano", Code: "MI"}, province[1])
	assert.Equal(t, Province{Name: "Roma", Code: "RM"}, province[2])
}

func TestFetchWhenCacheMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testDataset))
	}))
	defer srv.Close()

	dir := t.TempDir()
	svc := NewService(dir, srv.URL)

	got, err := svc.SearchComuni("milano", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)

	// The fetch leaves a disk cache behind
	_, err = os.Stat(filepath.Join(dir, cacheFileName))
	assert.NoError(t, err)
}

func TestInvalidateForcesRefetch(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write([]byte(testDataset))
	}))
	defer srv.Close()

	svc := NewService(t.TempDir(), srv.URL)

	_, err := svc.SearchComuni("roma", 10)
	require.NoError(t, err)
	require.Equal(t, 1, hits)

	require.NoError(t, svc.Invalidate())

	_, err = svc.SearchComuni("roma", 10)
	require.NoError(t, err)
	assert.Equal(t, 2, hits)
}

func TestConcurrentSearchAndInvalidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testDataset))
	}))
	defer srv.Close()

	svc := NewService(t.TempDir(), srv.URL)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := svc.SearchComuni("roma", 10); err != nil {
				t.Error(err)
			}
			if _, err := svc.Provinces(); err != nil {
				t.Error(err)
			}
		}()
		go func() {
			defer wg.Done()
			if err := svc.Invalidate(); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
}

func TestLoadErrorIsRetryable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, cacheFileName), []byte("not json"), 0o644))
	svc := NewService(dir, "http://127.0.0.1:0/unused")

	_, err := svc.SearchComuni("roma", 10)
	require.Error(t, err)

	// Fix the cache; the next call must reload instead of pinning the failure
	require.NoError(t, os.WriteFile(filepath.Join(dir, cacheFileName), []byte(testDataset), 0o644))
	got, err := svc.SearchComuni("roma", 10)
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}
