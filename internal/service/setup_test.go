package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/receiptsplit/internal/extraction"
	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/preferences"
	"github.com/mmynk/receiptsplit/internal/storage/sqlite"
)

// fakeExtractor returns a canned extraction, or an error per model.
type fakeExtractor struct {
	mu     sync.Mutex
	result models.RawExtraction
	errs   map[string]error
	calls  []string
	mime   string
}

func (f *fakeExtractor) Extract(_ context.Context, doc extraction.Document, modelID string) (*models.RawExtraction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, modelID)
	f.mime = doc.NormalizedMIMEType()
	if err, ok := f.errs[modelID]; ok {
		return nil, err
	}
	out := f.result.Clone()
	return &out, nil
}

type testEnv struct {
	server    *httptest.Server
	store     *sqlite.SQLiteStore
	prefs     *preferences.Store
	extractor *fakeExtractor

	people   *PeopleServiceClient
	receipts *ReceiptServiceClient
	splits   *SplitServiceClient
	models   *ModelServiceClient
}

// setupTestServer serves every service and the OCR routes from a temp
// sqlite database.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	store, err := sqlite.New(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	prefs := preferences.NewStore(filepath.Join(dir, "preferences.yaml"))
	fake := &fakeExtractor{errs: map[string]error{}}
	ext := extraction.NewService(fake, extraction.WithPreferences(prefs))

	receiptSvc := NewReceiptService(store)

	r := chi.NewRouter()
	for _, register := range []func() (string, http.Handler){
		func() (string, http.Handler) { return NewPeopleServiceHandler(NewPeopleService(store)) },
		func() (string, http.Handler) { return NewReceiptServiceHandler(receiptSvc) },
		func() (string, http.Handler) { return NewSplitServiceHandler(NewSplitService(store)) },
		func() (string, http.Handler) { return NewModelServiceHandler(NewModelService(ext, prefs)) },
	} {
		path, handler := register()
		r.Mount(path, handler)
	}
	r.Route("/api", NewOCRHandlers(ext, prefs, 0).Routes)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &testEnv{
		server:    server,
		store:     store,
		prefs:     prefs,
		extractor: fake,
		people:    NewPeopleServiceClient(http.DefaultClient, server.URL),
		receipts:  NewReceiptServiceClient(http.DefaultClient, server.URL),
		splits:    NewSplitServiceClient(http.DefaultClient, server.URL),
		models:    NewModelServiceClient(http.DefaultClient, server.URL),
	}
}

func (e *testEnv) addPerson(t *testing.T, name string) models.Person {
	t.Helper()
	resp, err := e.people.AddPerson.CallUnary(context.Background(), connect.NewRequest(&AddPersonRequest{Name: name}))
	require.NoError(t, err)
	return resp.Msg.Person
}

func (e *testEnv) addReceipt(t *testing.T, req *AddReceiptRequest) *AddReceiptResponse {
	t.Helper()
	resp, err := e.receipts.AddReceipt.CallUnary(context.Background(), connect.NewRequest(req))
	require.NoError(t, err)
	return resp.Msg
}
