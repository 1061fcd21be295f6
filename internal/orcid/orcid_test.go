package orcid

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/model"
	"portfolio/internal/upstream"
)

const worksFixture = `{
  "group": [
    {"work-summary": [{
      "put-code": 101,
      "title": {"title": {"value": "Zebrafish <i>in vivo</i> imaging"}},
      "publication-date": {"year": {"value": "2021"}},
      "external-ids": {"external-id": [
        {"external-id-type": "uri", "external-id-value": "x", "external-id-url": {"value": "https://example.org/paper"}},
        {"external-id-type": "DOI", "external-id-value": "10.1000/zf", "external-id-url": {"value": "https://doi.org/10.1000/zf"}}
      ]},
      "type": "JOURNAL_ARTICLE"
    }]},
    {"work-summary": [{
      "put-code": 102,
      "title": {"title": {"value": "Autophagy in hepatocellular carcinoma"}},
      "publication-date": {"year": {"value": "2023"}},
      "external-ids": {"external-id": [{"external-id-type": "doi", "external-id-value": "10.1000/ac"}]},
      "type": "preprint"
    }]},
    {"work-summary": [{
      "put-code": 103,
      "title": {"title": {"value": "Undated conference abstract"}},
      "url": {"value": "https://conf.example/abs"},
      "type": "conference_abstract"
    }]},
    {"work-summary": [{
      "put-code": 104,
      "title": {"title": {"value": "apoptosis markers"}},
      "publication-date": {"year": {"value": "2023"}}
    }]},
    {"work-summary": [{"put-code": 105, "publication-date": {"year": {"value": "2024"}}}]},
    {"work-summary": [{"put-code": 106, "title": {"title": {"value": ""}}}]}
  ]
}`

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func decode(t *testing.T, body string) Works {
	t.Helper()
	var w Works
	require.NoError(t, json.Unmarshal([]byte(body), &w))
	return w
}

func TestNormalize(t *testing.T) {
	got := Normalize(decode(t, worksFixture))

	want := []model.Publication{
		{ID: 104, Title: "apoptosis markers", Year: intp(2023)},
		{ID: 102, Title: "Autophagy in hepatocellular carcinoma", Year: intp(2023), Type: strp("preprint"), Link: strp("https://doi.org/10.1000/ac"), HasLink: true},
		{ID: 101, Title: "Zebrafish <i>in vivo</i> imaging", Year: intp(2021), Type: strp("journal article"), Link: strp("https://doi.org/10.1000/zf"), HasLink: true},
		{ID: 103, Title: "Undated conference abstract", Type: strp("conference abstract"), Link: strp("https://conf.example/abs"), HasLink: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_TitleUnchanged(t *testing.T) {
	got := Normalize(decode(t, `{"group": [{"work-summary": [{
	  "put-code": 7,
	  "title": {"title": {"value": "Effect size a<b and c>d in <i>E. coli</i>"}},
	  "publication-date": {"year": {"value": "2022"}}
	}]}]}`))

	require.Len(t, got, 1)
	assert.Equal(t, "Effect size a<b and c>d in <i>E. coli</i>", got[0].Title)
}

func TestNormalize_Empty(t *testing.T) {
	got := Normalize(Works{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		in   string
		want *int
	}{
		{"2023", intp(2023)},
		{" 2019 ", intp(2019)},
		{"2020-05", intp(2020)},
		{"", nil},
		{"n/a", nil},
		{"-", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseYear(tt.in), tt.in)
	}
}

func TestBestLink(t *testing.T) {
	url := func(s string) *Value { return &Value{Value: s} }

	tests := []struct {
		name    string
		ids     []ExternalID
		workURL string
		want    *string
	}{
		{
			name: "doi url wins over generic url",
			ids: []ExternalID{
				{Type: "uri", URL: url("https://a.example")},
				{Type: "doi", Value: "10.1/x", URL: url("https://doi.org/10.1/x")},
			},
			want: strp("https://doi.org/10.1/x"),
		},
		{
			name: "doi value without url",
			ids:  []ExternalID{{Type: "Doi", Value: "10.1/y"}},
			want: strp("https://doi.org/10.1/y"),
		},
		{
			name:    "empty doi falls through to other urls",
			ids:     []ExternalID{{Type: "doi"}, {Type: "pmid", URL: url("https://pubmed.example/1")}},
			workURL: "https://work.example",
			want:    strp("https://pubmed.example/1"),
		},
		{
			name:    "work url",
			ids:     []ExternalID{{Type: "pmid", Value: "1"}},
			workURL: "https://work.example",
			want:    strp("https://work.example"),
		},
		{name: "nothing", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BestLink(tt.ids, tt.workURL))
		})
	}
}

func TestFormatType(t *testing.T) {
	assert.Nil(t, FormatType(""))
	assert.Equal(t, "book chapter", *FormatType("BOOK_CHAPTER"))
}

func TestSort_UnknownYearLast(t *testing.T) {
	pubs := []model.Publication{
		{Title: "b", Year: nil},
		{Title: "a", Year: intp(2021)},
		{Title: "c", Year: intp(2023)},
	}
	Sort(pubs)
	assert.Equal(t, []string{"c", "a", "b"}, []string{pubs[0].Title, pubs[1].Title, pubs[2].Title})
}

func newClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{ID: "0009-0008-1174-3885", APIBase: srv.URL + "/v3.0/", Revalidate: time.Hour},
		upstream.New(upstream.Config{}, nil))
}

func TestClientPublications(t *testing.T) {
	var calls int32
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/v3.0/0009-0008-1174-3885/works", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(worksFixture))
	})

	res, err := c.Publications(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Stale)
	assert.Len(t, res.Value, 4)

	_, err = c.Publications(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestClientPublications_Failures(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		_, err := c.Publications(context.Background())
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusServiceUnavailable, se.Code)
	})

	t.Run("bad json", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>"))
		})
		_, err := c.Publications(context.Background())
		assert.ErrorContains(t, err, "decode works")
	})
}

func TestClientPublications_ServesStale(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) > 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(worksFixture))
	}))
	defer srv.Close()

	// A zero window makes every call a refresh.
	c := New(Config{ID: "id", APIBase: srv.URL}, upstream.New(upstream.Config{}, nil))

	first, err := c.Publications(context.Background())
	require.NoError(t, err)
	second, err := c.Publications(context.Background())
	require.NoError(t, err)
	assert.True(t, second.Stale)
	assert.Equal(t, first.Value, second.Value)
}

func TestWorksURL(t *testing.T) {
	c := New(Config{ID: "0000-0001", APIBase: "https://pub.orcid.org/v3.0/"}, nil)
	assert.Equal(t, "https://pub.orcid.org/v3.0/0000-0001/works", c.WorksURL())
}
