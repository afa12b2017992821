package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/resource-sync/internal/config"
)

func newPatientServer(t *testing.T, status int) string {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/fhir/Patient", func(w http.ResponseWriter, _ *http.Request) {
		if status != http.StatusOK {
			http.Error(w, "unavailable", status)
			return
		}
		w.Header().Set("Content-Type", "application/fhir+json")
		_, _ = io.WriteString(w, `{"resourceType":"Bundle","type":"searchset","total":0}`)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL + "/fhir"
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newCommand(&out, io.Discard).Run(context.Background(), append([]string{"syncctl"}, args...))
	return out.String(), err
}

func engineArgs(baseURL, dsn string) []string {
	return []string{"-base-url", baseURL, "-d", dsn, "-resource", "Patient", "-job-id", "cli-test", "-backoff-delay", "1ms"}
}

func TestRun_Version(t *testing.T) {
	SetBuildInfo("1.2.3", "", " abc ")
	t.Cleanup(func() { SetBuildInfo("", "", "") })

	out, err := runCLI(t, "--no-color", "version")

	require.NoError(t, err)
	assert.Contains(t, out, "syncctl version 1.2.3")
	assert.Contains(t, out, "commit: abc")
	assert.Contains(t, out, "built: N/A")
	assert.Contains(t, out, "go: ")
}

func TestRun_SyncThenStatus(t *testing.T) {
	baseURL := newPatientServer(t, http.StatusOK)
	dsn := filepath.Join(t.TempDir(), "cli.db")

	out, err := runCLI(t, append([]string{"--no-color", "run"}, engineArgs(baseURL, dsn)...)...)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "sync started", lines[0])
	assert.Contains(t, out, "sync succeeded at ")
	assert.Equal(t, "result: success", lines[len(lines)-1])

	out, err = runCLI(t, append([]string{"--json", "status"}, engineArgs(baseURL, dsn)...)...)
	require.NoError(t, err)

	var state stateView
	require.NoError(t, json.Unmarshal([]byte(out), &state))
	assert.Equal(t, "cli-test", state.JobID)
	require.NotNil(t, state.LastStatus)
	assert.Equal(t, "Succeeded", state.LastStatus.Kind)
	assert.NotNil(t, state.LastSyncedAt)
	assert.Zero(t, state.Attempts)
}

func TestRun_FailedSyncReturnsError(t *testing.T) {
	baseURL := newPatientServer(t, http.StatusServiceUnavailable)
	dsn := filepath.Join(t.TempDir(), "cli.db")

	out, err := runCLI(t, append([]string{"--no-color", "run"}, engineArgs(baseURL, dsn)...)...)

	require.ErrorIs(t, err, ErrSyncFailed)
	assert.Contains(t, out, "sync failed at ")
	assert.Contains(t, out, "result: failure")

	out, err = runCLI(t, append([]string{"--no-color", "status"}, engineArgs(baseURL, dsn)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "last status: Failed")
	assert.Contains(t, out, "attempts: 0")
}

func TestRun_InvalidConfiguration(t *testing.T) {
	_, err := runCLI(t, "run", "-base-url", "not a url", "-d", filepath.Join(t.TempDir(), "cli.db"))

	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidAdapterConfigs)
}
