package cli

import (
	"bytes"
	"context"
	"sort"
	"testing"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
)

// mockIngestService implements driving.IngestService for testing.
type mockIngestService struct {
	item    domain.BatchItem
	report  *domain.BatchReport
	err     error
	events  []domain.BatchItem
	paths   []string
	uploads map[string][]byte
}

func (m *mockIngestService) IngestFile(_ context.Context, path string) domain.BatchItem {
	m.paths = append(m.paths, path)
	item := m.item
	item.Path = path
	return item
}

func (m *mockIngestService) IngestFolder(_ context.Context, folder string) (*domain.BatchReport, error) {
	m.paths = append(m.paths, folder)
	return m.report, m.err
}

func (m *mockIngestService) Upload(_ context.Context, filename string, data []byte) (*domain.UploadResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.uploads == nil {
		m.uploads = make(map[string][]byte)
	}
	m.uploads[filename] = data
	item := m.item
	item.Path = "scratch/" + filename
	return &domain.UploadResult{
		Filename:  filename,
		SavedPath: "scratch/" + filename,
		Length:    len(data),
		Item:      item,
	}, nil
}

func (m *mockIngestService) Watch(_ context.Context, folder string, onItem func(domain.BatchItem)) error {
	m.paths = append(m.paths, folder)
	if m.err != nil {
		return m.err
	}
	for _, e := range m.events {
		onItem(e)
	}
	return nil
}

// mockStoreService implements driving.StoreService for testing.
type mockStoreService struct {
	entries map[string]string
	err     error
	removed []string
}

func (m *mockStoreService) List(_ context.Context) ([]domain.StoreEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.StoreEntry
	for k, v := range m.entries {
		out = append(out, domain.StoreEntry{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *mockStoreService) Get(_ context.Context, path string) (string, error) {
	text, ok := m.entries[path]
	if !ok {
		return "", domain.ErrNotFound
	}
	return text, nil
}

func (m *mockStoreService) Remove(_ context.Context, path string) error {
	if _, ok := m.entries[path]; !ok {
		return domain.ErrNotFound
	}
	delete(m.entries, path)
	m.removed = append(m.removed, path)
	return nil
}

func (m *mockStoreService) Path() string {
	return "/data/folio_ingested.json"
}

// mockDoctorService implements driving.DoctorService for testing.
type mockDoctorService struct {
	statuses []driving.DependencyStatus
}

func (m *mockDoctorService) Check(_ context.Context) []driving.DependencyStatus {
	return m.statuses
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	values map[string]string
	setErr error
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	s := domain.DefaultSettings()
	return &s, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	if _, ok := m.values[key]; !ok {
		return domain.ErrInvalidInput
	}
	m.values[key] = value
	return nil
}

func (m *mockSettingsService) Value(key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", domain.ErrInvalidInput
	}
	return v, nil
}

func (m *mockSettingsService) Keys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *mockSettingsService) Path() string {
	return "/home/user/.folio/config.toml"
}

// setupServices swaps every service for the given fakes and restores
// them, and the command flags, when the test ends.
func setupServices(t *testing.T, s Services) {
	t.Helper()
	old := Services{
		Ingest:    ingestService,
		IngestFor: ingestFactory,
		Store:     storeService,
		Doctor:    doctorService,
		Settings:  settingsService,
	}
	oldSetup := setup

	ingestService = s.Ingest
	ingestFactory = s.IngestFor
	storeService = s.Store
	doctorService = s.Doctor
	settingsService = s.Settings
	setup = nil

	t.Cleanup(func() {
		ingestService = old.Ingest
		ingestFactory = old.IngestFor
		storeService = old.Store
		doctorService = old.Doctor
		settingsService = old.Settings
		setup = oldSetup
		ingestOCRMode = ""
		ingestNoStore = false
		uploadName = ""
		flagConfig = ""
		flagVerbose = false
		flagQuiet = false
	})
}

// run executes the root command with args and returns its combined output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}
