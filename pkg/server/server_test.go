package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/taxotree/pkg/config"
	"github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/graph"
	"github.com/matzehuels/taxotree/pkg/observability"
	"github.com/matzehuels/taxotree/pkg/pipeline"
	"github.com/matzehuels/taxotree/pkg/records"
	"github.com/matzehuels/taxotree/pkg/source"
)

type downSource struct{}

func (downSource) Name() string { return "down" }
func (downSource) Fetch(context.Context) (*records.Batch, error) {
	return nil, errors.NoData("down", fmt.Errorf("connection refused"))
}

func newTestServer(t *testing.T) (*httptest.Server, *observability.Counters) {
	t.Helper()
	t.Cleanup(observability.Reset)
	counters := &observability.Counters{}
	observability.SetPipelineHooks(counters)

	logger := log.New(io.Discard)
	catalog := StaticCatalog{
		"cells": source.NewStatic("cells", records.ShapeChildren,
			records.Row{EntityID: "A", Name: "alpha"},
			records.Row{EntityID: "B"},
			records.Row{EntityID: "X", Children: "A|B"},
		),
		"cyclic": source.NewStatic("cyclic", records.ShapeParent,
			records.Row{EntityID: "a", Parent: "b"},
			records.Row{EntityID: "b", Parent: "a"},
		),
		"down": downSource{},
	}
	srv := New(catalog, pipeline.NewRunner(nil, nil, logger), counters, logger)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts, counters
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, body
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	get(t, ts.URL+"/api/sources/cells/tree")

	resp, body := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var h healthResponse
	if err := json.Unmarshal(body, &h); err != nil {
		t.Fatal(err)
	}
	if h.Status != "ok" || h.Counters == nil || h.Counters.Runs != 1 {
		t.Errorf("health = %s", body)
	}
}

func TestSources(t *testing.T) {
	ts, _ := newTestServer(t)
	_, body := get(t, ts.URL+"/api/sources")
	if strings.TrimSpace(string(body)) != `{"sources":["cells","cyclic","down"]}` {
		t.Errorf("sources = %s", body)
	}
}

func TestTree(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, body := get(t, ts.URL+"/api/sources/cells/tree")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var tr treeResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		t.Fatal(err)
	}
	if tr.Source != "cells" || tr.RunID == "" || len(tr.Tree) != 1 {
		t.Fatalf("tree = %s", body)
	}
	root := tr.Tree[0]
	if root.ID != "X" || !root.Expanded || len(root.Children) != 2 || root.Children[0].Text != "alpha [A]" {
		t.Errorf("root = %+v", root)
	}
}

func TestHierarchy(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, body := get(t, ts.URL+"/api/sources/cells/hierarchy")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	g, err := graph.ReadGraph(strings.NewReader(string(body)))
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}
	if len(g.Edges) != 2 || len(g.Nodes) != 3 {
		t.Errorf("hierarchy = %s", body)
	}
}

func TestDiagram(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, body := get(t, ts.URL+"/api/sources/cells/diagram?format=dot")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/vnd.graphviz") {
		t.Errorf("Content-Type = %q", resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(string(body), `"X" -> "A";`) {
		t.Errorf("dot = %s", body)
	}

	resp, _ = get(t, ts.URL+"/api/sources/cells/diagram?format=pdf")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unsupported format status = %d", resp.StatusCode)
	}
}

func TestErrorStatus(t *testing.T) {
	ts, _ := newTestServer(t)
	tests := []struct {
		path   string
		status int
		code   errors.Code
	}{
		{"/api/sources/down/tree", http.StatusServiceUnavailable, errors.ErrCodeNoData},
		{"/api/sources/missing/tree", http.StatusNotFound, errors.ErrCodeNotFound},
		{"/api/sources/cyclic/hierarchy", http.StatusUnprocessableEntity, errors.ErrCodeCyclicHierarchy},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts.URL+tt.path)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var e errorResponse
			if err := json.Unmarshal(body, &e); err != nil {
				t.Fatalf("body %s: %v", body, err)
			}
			if e.Code != tt.code || e.Error == "" {
				t.Errorf("error body = %s", body)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.NoData("x", nil), http.StatusServiceUnavailable},
		{fmt.Errorf("wrapped: %w", errors.NoData("x", nil)), http.StatusServiceUnavailable},
		{errors.New(errors.ErrCodeNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeInvalidInput, "x"), http.StatusBadRequest},
		{&errors.AmbiguousHierarchyError{EntityID: "x"}, http.StatusUnprocessableEntity},
		{&errors.UnknownEntityError{EntityID: "x"}, http.StatusUnprocessableEntity},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestConfigCatalog(t *testing.T) {
	cfg, err := config.Decode(`
[[sources]]
name = "remote"
kind = "nomenclature"
url = "https://example.org/t.tsv"
`)
	if err != nil {
		t.Fatal(err)
	}
	c := ConfigCatalog{Config: cfg}
	if names := c.Names(); len(names) != 1 || names[0] != "remote" {
		t.Errorf("Names() = %v", names)
	}
	if _, _, err := c.Open(context.Background(), "nope"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Open(unknown) = %v", err)
	}
	src, release, err := c.Open(context.Background(), "remote")
	if err != nil || src.Name() != "remote" {
		t.Fatalf("Open(remote) = %v, %v", src, err)
	}
	if err := release(); err != nil {
		t.Errorf("release() = %v", err)
	}
}

// closableSource counts Close calls and refuses to fetch once closed.
type closableSource struct {
	*source.Static
	closes int
}

func (c *closableSource) Fetch(ctx context.Context) (*records.Batch, error) {
	if c.closes > 0 {
		return nil, fmt.Errorf("%s: source closed", c.Name())
	}
	return c.Static.Fetch(ctx)
}

func (c *closableSource) Close() error {
	c.closes++
	return nil
}

func TestStaticCatalogSourcesOutliveRequests(t *testing.T) {
	shared := &closableSource{Static: source.NewStatic("db", records.ShapeParent,
		records.Row{EntityID: "a"},
		records.Row{EntityID: "b", Parent: "a"},
	)}
	logger := log.New(io.Discard)
	srv := New(StaticCatalog{"db": shared}, pipeline.NewRunner(nil, nil, logger), &observability.Counters{}, logger)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	for i := range 2 {
		resp, body := get(t, ts.URL+"/api/sources/db/hierarchy")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d: status = %d, body = %s", i+1, resp.StatusCode, body)
		}
	}
	if shared.closes != 0 {
		t.Errorf("shared source closed %d times", shared.closes)
	}
}
