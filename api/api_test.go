package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matryer/is"

	"github.com/graphquality/rpcheck/constraints"
	"github.com/graphquality/rpcheck/memgraph"
	"github.com/graphquality/rpcheck/probe"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	m := memgraph.New()

	edges := []struct {
		from, to probe.NodeID
		label    string
	}{
		{"1", "2", "child_of"},
		{"2", "3", "child_of"},
		{"1", "3", "grandson_of"},
		{"2", "4", "brother_of"},
		{"1", "4", "nephew_of"},
	}

	for _, e := range edges {
		if err := m.AddEdge(e.from, e.to, e.label); err != nil {
			t.Fatalf("error building graph: %v", err)
		}
	}

	store, err := constraints.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("error creating store: %v", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(NewServer(m, store, log).Handler())
	t.Cleanup(srv.Close)

	return srv
}

func postJSON(t *testing.T, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("error encoding request: %v", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("error posting: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}

	return resp, decoded
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]interface{}) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("error getting: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}

	return resp, decoded
}

func TestHandleCheck(t *testing.T) {
	is := is.New(t)

	srv := newTestServer(t)

	resp, body := postJSON(t, srv.URL+"/api/rpq/check", map[string]string{
		"constraint": "C1 = child_of ⊆ son_of∣daughter_of",
	})

	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(body["name"], "C1")
	is.Equal(body["ok"], false)
	is.Equal(body["lhs_pairs"], float64(2))
	is.Equal(body["violations_count"], float64(2))
}

func TestHandleCheckBadConstraint(t *testing.T) {
	is := is.New(t)

	srv := newTestServer(t)

	resp, _ := postJSON(t, srv.URL+"/api/rpq/check", map[string]string{
		"constraint": "Cx = a b c",
	})

	is.Equal(resp.StatusCode, http.StatusBadRequest)
}

func TestHandleCheckBadJSON(t *testing.T) {
	is := is.New(t)

	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/rpq/check", "application/json", bytes.NewReader([]byte("{")))
	is.NoErr(err)
	defer resp.Body.Close()

	is.Equal(resp.StatusCode, http.StatusBadRequest)
}

func TestHandleMeasures(t *testing.T) {
	is := is.New(t)

	srv := newTestServer(t)

	resp, body := postJSON(t, srv.URL+"/api/measures/compute", map[string]interface{}{
		"constraints": []string{"C1 = child_of ⊆ son_of∣daughter_of"},
		"measures":    []string{"mu_drastic", "mu_violated_constraints", "problematic_pairs"},
	})

	is.Equal(resp.StatusCode, http.StatusOK)

	summary := body["summary"].(map[string]interface{})
	is.Equal(summary["mu_drastic"], float64(1))
	is.Equal(summary["mu_violated_constraints"], float64(1))
	is.Equal(summary["problematic_pairs"], float64(2))
}

func TestHandleMeasuresUnknownMeasure(t *testing.T) {
	is := is.New(t)

	srv := newTestServer(t)

	resp, _ := postJSON(t, srv.URL+"/api/measures/compute", map[string]interface{}{
		"constraints": []string{"C1 = child_of ⊆ son_of"},
		"measures":    []string{"bogus"},
	})

	is.Equal(resp.StatusCode, http.StatusBadRequest)
}

func TestHandleConstraintsRoundTrip(t *testing.T) {
	is := is.New(t)

	srv := newTestServer(t)

	resp, body := postJSON(t, srv.URL+"/api/constraints/save", map[string]interface{}{
		"constraints": []string{"C1 = a ⊆ b"},
	})
	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(body["ok"], true)

	name := body["file"].(string)

	resp, body = getJSON(t, srv.URL+"/api/constraints/files")
	is.Equal(resp.StatusCode, http.StatusOK)
	files := body["files"].([]interface{})
	is.Equal(files, []interface{}{name})

	resp, body = getJSON(t, srv.URL+"/api/constraints/file/"+name)
	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(body["constraints"], []interface{}{"C1 = a ⊆ b"})
}

func TestHandleSaveInvalidBundle(t *testing.T) {
	is := is.New(t)

	srv := newTestServer(t)

	resp, body := postJSON(t, srv.URL+"/api/constraints/save", map[string]interface{}{
		"constraints": []string{"broken"},
	})

	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(body["ok"], false)
}

func TestHandleValidate(t *testing.T) {
	is := is.New(t)

	srv := newTestServer(t)

	resp, body := postJSON(t, srv.URL+"/api/constraints/validate", map[string]interface{}{
		"constraints": []string{"C1 = a ⊆ b", "broken"},
	})

	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(body["ok"], false)
}

func TestHandleFileNotFound(t *testing.T) {
	is := is.New(t)

	srv := newTestServer(t)

	resp, _ := getJSON(t, srv.URL+"/api/constraints/file/constraints-19700101-000000.json")
	is.Equal(resp.StatusCode, http.StatusNotFound)
}

func TestHandleStats(t *testing.T) {
	is := is.New(t)

	srv := newTestServer(t)

	resp, body := getJSON(t, srv.URL+"/api/graph/stats")
	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(body["nodes"], float64(4))
	is.Equal(body["relationships"], float64(5))
}
