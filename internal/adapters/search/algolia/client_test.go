package algolia

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClient_Query(t *testing.T) {
	var gotPath, gotApp, gotKey string
	var gotParams url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotApp = r.Header.Get("X-Algolia-Application-Id")
		gotKey = r.Header.Get("X-Algolia-API-Key")
		var body queryReq
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotParams, _ = url.ParseQuery(body.Params)
		_, _ = w.Write([]byte(`{"hits":[{"objectID":"w1","brand":"Rolex","image":"a.jpg"},{"objectID":"w2","brand":"Rolex"}],"nbHits":2,"page":1,"nbPages":2}`))
	}))
	defer srv.Close()

	c := NewClient("APP", "key", "watches", 5).WithBaseURL(srv.URL)
	hits, err := c.Query(context.Background(), "rolex", 1)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	require.Equal(t, "w1", hits[0]["objectID"])

	require.Equal(t, "/1/indexes/watches/query", gotPath)
	require.Equal(t, "APP", gotApp)
	require.Equal(t, "key", gotKey)
	require.Equal(t, "rolex", gotParams.Get("query"))
	require.Equal(t, "5", gotParams.Get("hitsPerPage"))
	require.Equal(t, "1", gotParams.Get("page"))
}

func TestClient_ErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Invalid Application-ID or API key","status":403}`))
	}))
	defer srv.Close()

	c := NewClient("APP", "bad", "watches", 0).WithBaseURL(srv.URL)
	_, err := c.Query(context.Background(), "x", 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Invalid Application-ID")
}

func TestClient_MissingCredentials(t *testing.T) {
	_, err := NewClient("", "", "watches", 0).Query(context.Background(), "x", 0)
	require.Error(t, err)
}
