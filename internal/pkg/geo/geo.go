// Package geo provides lookup of Italian municipalities and provinces for
// instructor registration forms. The dataset is fetched once from a pinned
// URL, cached on disk and kept in memory for the process lifetime.
package geo

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/trainingops/trainingops/internal/pkg/logger"
)

const (
	minQueryLength = 2
	defaultLimit   = 10
	maxLimit       = 50

	cacheFileName = "comuni.json"
	fetchTimeout  = 15 * time.Second
)

// Comune is a single municipality entry as exposed to clients.
type Comune struct {
	Name         string   `json:"name"`
	Province     string   `json:"province"`
	ProvinceCode string   `json:"provinceCode"`
	CAPs         []string `json:"caps"`
}

// Province pairs a province name with its two-letter code.
type Province struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// sourceEntry mirrors the upstream dataset layout.
type sourceEntry struct {
	Nome      string `json:"nome"`
	Sigla     string `json:"sigla"`
	Provincia struct {
		Nome string `json:"nome"`
	} `json:"provincia"`
	CAP []string `json:"cap"`
}

// Service serves municipality and province lookups. Loading is lazy; the
// first lookup triggers the fetch, later calls reuse the cached dataset.
type Service struct {
	dataDir   string
	sourceURL string
	client    *http.Client

	mu       sync.Mutex
	loadOnce *sync.Once
	comuni   []Comune
	province []Province
	loadErr  error
}

// NewService creates a geo lookup service. Data is stored under dataDir and
// fetched from sourceURL when no disk cache exists.
func NewService(dataDir, sourceURL string) *Service {
	return &Service{
		dataDir:   dataDir,
		sourceURL: sourceURL,
		client:    &http.Client{Timeout: fetchTimeout},
		loadOnce:  new(sync.Once),
	}
}

// SearchComuni returns municipalities whose name contains the query,
// case-insensitively, prefix matches first. Queries shorter than two
// characters return an empty slice.
func (s *Service) SearchComuni(query string, limit int) ([]Comune, error) {
	query = strings.TrimSpace(strings.ToLower(query))
	if len([]rune(query)) < minQueryLength {
		return []Comune{}, nil
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	comuni, _, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	var prefix, contains []Comune
	for _, c := range comuni {
		name := strings.ToLower(c.Name)
		switch {
		case strings.HasPrefix(name, query):
			prefix = append(prefix, c)
		case strings.Contains(name, query):
			contains = append(contains, c)
		}
		if len(prefix) >= limit {
			break
		}
	}

	out := append(prefix, contains...)
	if len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []Comune{}
	}
	return out, nil
}

// Provinces returns every known province sorted by name.
func (s *Service) Provinces() ([]Province, error) {
	_, province, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return province, nil
}

// snapshot loads the dataset if needed and returns the current slices under
// the lock. The slices themselves are never mutated after load, so callers
// may iterate them freely even while Invalidate swaps in fresh ones.
func (s *Service) snapshot() ([]Comune, []Province, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comuni, s.province, nil
}

// Invalidate drops the in-memory dataset and deletes the disk cache so the
// next lookup fetches fresh data.
func (s *Service) Invalidate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadOnce = new(sync.Once)
	s.comuni = nil
	s.province = nil
	s.loadErr = nil

	cachePath := filepath.Join(s.dataDir, cacheFileName)
	if err := os.Remove(cachePath); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Str("path", cachePath).Msg("Failed to remove geo cache file")
		return err
	}
	logger.Info().Msg("Geo dataset cache invalidated")
	return nil
}

func (s *Service) ensureLoaded() error {
	s.mu.Lock()
	once := s.loadOnce
	s.mu.Unlock()

	once.Do(func() {
		comuni, province, err := s.load()
		s.mu.Lock()
		s.comuni, s.province, s.loadErr = comuni, province, err
		s.mu.Unlock()
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		// Allow a retry on the next call instead of pinning the failure.
		s.loadOnce = new(sync.Once)
	}
	return s.loadErr
}

func (s *Service) load() ([]Comune, []Province, error) {
	raw, err := s.readCache()
	if err != nil {
		raw, err = s.fetch()
		if err != nil {
			return nil, nil, err
		}
	}

	var entries []sourceEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, nil, fmt.Errorf("failed to parse geo dataset: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil, fmt.Errorf("geo dataset is empty")
	}

	comuni := make([]Comune, 0, len(entries))
	provinceSet := make(map[string]string)
	for _, e := range entries {
		comuni = append(comuni, Comune{
			Name:         e.Nome,
			Province:     e.Provincia.Nome,
			ProvinceCode: e.Sigla,
			CAPs:         e.CAP,
		})
		if e.Sigla != "" {
			provinceSet[e.Sigla] = e.Provincia.Nome
		}
	}

	sort.Slice(comuni, func(i, j int) bool { return comuni[i].Name < comuni[j].Name })

	province := make([]Province, 0, len(provinceSet))
	for code, name := range provinceSet {
		province = append(province, Province{Name: name, Code: code})
	}
	sort.Slice(province, func(i, j int) bool { return province[i].Name < province[j].Name })

	logger.Info().Int("comuni", len(comuni)).Int("province", len(province)).Msg("Geo dataset loaded")
	return comuni, province, nil
}

func (s *Service) readCache() ([]byte, error) {
	return os.ReadFile(filepath.Join(s.dataDir, cacheFileName))
}

func (s *Service) fetch() ([]byte, error) {
	logger.Info().Str("url", s.sourceURL).Msg("Fetching geo dataset")
	resp, err := s.client.Get(s.sourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch geo dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geo dataset fetch returned status %d", resp.StatusCode)
	}

	var entries []sourceEntry
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode geo dataset: %w", err)
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode geo dataset: %w", err)
	}

	if err := os.MkdirAll(s.dataDir, 0o755); err == nil {
		cachePath := filepath.Join(s.dataDir, cacheFileName)
		if err := os.WriteFile(cachePath, raw, 0o644); err != nil {
			logger.Warn().Err(err).Str("path", cachePath).Msg("Failed to write geo cache file")
		}
	}
	return raw, nil
}
