package warm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radiomon/internal/structures"
	"radiomon/internal/testutil"
)

func warmConfig(baseURL string) *structures.Config {
	return &structures.Config{
		Warm: structures.WarmConfig{
			BaseURL:        baseURL,
			Token:          "test-token",
			CountryCode:    "GB",
			RequestTimeout: 2 * time.Second,
		},
	}
}

func newTestClient(baseURL string) PlaySource {
	return NewClient(warmConfig(baseURL), &testutil.MockLogger{})
}

func TestPlaysForArtist_RequestShape(t *testing.T) {
	var gotQuery map[string]string
	var gotAuth, gotAgent string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"artistName":  q.Get("artistName"),
			"countryCode": q.Get("countryCode"),
			"fromDate":    q.Get("fromDate"),
			"untilDate":   q.Get("untilDate"),
		}
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		assert.Equal(t, "/plays", r.URL.Path)
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	_, err := client.PlaysForArtist(context.Background(), "Some Artist", from, until)
	require.NoError(t, err)

	assert.Equal(t, "Some Artist", gotQuery["artistName"])
	assert.Equal(t, "GB", gotQuery["countryCode"])
	assert.Equal(t, "20260801", gotQuery["fromDate"])
	assert.Equal(t, "20260815", gotQuery["untilDate"])
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, userAgent, gotAgent)
}

func TestPlaysForArtist_BareArrayResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"radioStationName":"Radio 1","date":"2026-08-05","time":"10:00"}]`))
	}))
	defer ts.Close()

	plays, err := newTestClient(ts.URL).PlaysForArtist(context.Background(), "Artist", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, plays, 1)
	assert.Equal(t, "Radio 1", plays[0].Station())
}

func TestPlaysForArtist_EnvelopeVariants(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"currentPagesEntities", `{"currentPagesEntities":[{"radioStationName":"A"}],"totalNumberOfEntities":1}`},
		{"plays", `{"plays":[{"radioStationName":"A"}]}`},
		{"data", `{"data":[{"radioStationName":"A"}],"total":1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer ts.Close()

			plays, err := newTestClient(ts.URL).PlaysForArtist(context.Background(), "Artist", time.Time{}, time.Time{})
			require.NoError(t, err)
			require.Len(t, plays, 1)
			assert.Equal(t, "A", plays[0].Station())
		})
	}
}

func TestPlaysForArtist_EmptyEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalNumberOfEntities":0}`))
	}))
	defer ts.Close()

	plays, err := newTestClient(ts.URL).PlaysForArtist(context.Background(), "Artist", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, plays)
}

func TestPlaysForArtist_Non200IsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).PlaysForArtist(context.Background(), "Artist", time.Time{}, time.Time{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestPlaysForArtist_MalformedJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{broken`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).PlaysForArtist(context.Background(), "Artist", time.Time{}, time.Time{})
	assert.Error(t, err)
}

func TestPlaysForArtist_NoTokenNoAuthHeader(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	conf := warmConfig(ts.URL)
	conf.Warm.Token = ""
	client := NewClient(conf, &testutil.MockLogger{})

	_, err := client.PlaysForArtist(context.Background(), "Artist", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestPing_AnyResponseIsReachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	assert.NoError(t, newTestClient(ts.URL).Ping(context.Background()))
}

func TestPing_TransportFailure(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")
	assert.Error(t, client.Ping(context.Background()))
}

func TestBreaker_OpensAfterRepeatedFailures(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	for i := 0; i < 10; i++ {
		_, err := client.PlaysForArtist(context.Background(), "Artist", time.Time{}, time.Time{})
		require.Error(t, err)
	}
	// After enough consecutive failures the breaker rejects without calling out.
	_, err := client.PlaysForArtist(context.Background(), "Artist", time.Time{}, time.Time{})
	assert.Error(t, err)
}
