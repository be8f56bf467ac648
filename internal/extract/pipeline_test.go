package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfscan/pkg/models"
)

func TestSplitCandidates(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "commas and newlines",
			text: "Dune, Frank Herbert\nSapiens",
			want: []string{"Dune", "Frank Herbert", "Sapiens"},
		},
		{
			name: "junk chunks dropped",
			text: ",\na\nDune",
			want: []string{"Dune"},
		},
		{
			name: "duplicates collapse",
			text: "Dune\nDune, Dune",
			want: []string{"Dune"},
		},
		{
			name: "dedupe is case-sensitive",
			text: "Dune\nDUNE",
			want: []string{"DUNE", "Dune"},
		},
		{
			name: "whitespace trimmed before length check",
			text: "  ab  ,  abc  ",
			want: []string{"abc"},
		},
		{
			name: "empty text",
			text: "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitCandidates(tt.text)
			sort.Strings(got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func fastPipeline(vision *VisionClient) *Pipeline {
	p := NewPipeline(vision)
	p.FallbackDelay = 10 * time.Millisecond
	return p
}

func TestProcess_UnconfiguredUsesFallback(t *testing.T) {
	p := fastPipeline(nil)

	for i := 0; i < 5; i++ {
		drafts, usedFallback, err := p.Process(context.Background(), []byte("img"), "image/jpeg")
		require.NoError(t, err)
		assert.True(t, usedFallback)
		require.GreaterOrEqual(t, len(drafts), 1)
		require.LessOrEqual(t, len(drafts), 3)

		for _, d := range drafts {
			assert.NotEmpty(t, d.ID)
			assert.Equal(t, DataURI("image/jpeg", []byte("img")), d.CoverURL)
			assert.Len(t, d.Year, 4)

			// sample tables are index-aligned
			var found bool
			for ti, title := range sampleTitles {
				if d.Title == title {
					assert.Equal(t, sampleAuthors[ti], d.Author)
					found = true
				}
			}
			assert.True(t, found, "title %q not from the sample table", d.Title)
		}
	}
}

func TestProcess_FallbackSimulatesLatency(t *testing.T) {
	p := NewPipeline(nil)
	p.FallbackDelay = 50 * time.Millisecond

	start := time.Now()
	_, _, err := p.Process(context.Background(), []byte("img"), "image/png")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestProcess_FallbackHonorsCancellation(t *testing.T) {
	p := NewPipeline(nil)
	p.FallbackDelay = 10 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, _, err := p.Process(ctx, []byte("img"), "image/png")
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func visionStub(t *testing.T, status int, fullText string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NotEmpty(t, r.URL.Query().Get("key"))

		w.WriteHeader(status)
		if status == http.StatusOK {
			resp := `{"responses":[{"fullTextAnnotation":{"text":` + jsonString(fullText) + `}}]}`
			_, _ = w.Write([]byte(resp))
		} else {
			_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
		}
	}))
}

func jsonString(s string) string {
	return `"` + strings.ReplaceAll(s, "\n", `\n`) + `"`
}

func stubClient(srv *httptest.Server) *VisionClient {
	c := NewVisionClient("test-key", 2*time.Second)
	c.Endpoint = srv.URL
	return c
}

func TestProcess_RecognizedTextBecomesDrafts(t *testing.T) {
	srv := visionStub(t, http.StatusOK, "Dune, Frank Herbert\nSapiens")
	defer srv.Close()

	p := fastPipeline(stubClient(srv))
	drafts, usedFallback, err := p.Process(context.Background(), []byte("img"), "image/jpeg")
	require.NoError(t, err)
	assert.False(t, usedFallback)
	require.Len(t, drafts, 3)

	titles := make([]string, 0, len(drafts))
	ids := make(map[string]struct{})
	for _, d := range drafts {
		titles = append(titles, d.Title)
		ids[d.ID] = struct{}{}
		assert.Equal(t, models.UnknownAuthor, d.Author)
		assert.Equal(t, "", d.Year)
		assert.Equal(t, DataURI("image/jpeg", []byte("img")), d.CoverURL)
		assert.NotZero(t, d.AddedAt)
	}
	sort.Strings(titles)
	assert.Equal(t, []string{"Dune", "Frank Herbert", "Sapiens"}, titles)
	assert.Len(t, ids, 3, "draft ids must be unique")
}

func TestProcess_NoSurvivingChunksMeansNoDraftsNoError(t *testing.T) {
	srv := visionStub(t, http.StatusOK, ",\na,")
	defer srv.Close()

	p := fastPipeline(stubClient(srv))
	drafts, usedFallback, err := p.Process(context.Background(), []byte("img"), "image/jpeg")
	require.NoError(t, err)
	assert.False(t, usedFallback)
	assert.Empty(t, drafts)
}

func TestProcess_ServiceErrorFallsBack(t *testing.T) {
	srv := visionStub(t, http.StatusForbidden, "")
	defer srv.Close()

	p := fastPipeline(stubClient(srv))
	drafts, usedFallback, err := p.Process(context.Background(), []byte("img"), "image/jpeg")
	require.NoError(t, err)
	assert.True(t, usedFallback)
	assert.NotEmpty(t, drafts)
}

func TestProcess_TransportFaultFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	p := fastPipeline(stubClient(srv))
	drafts, usedFallback, err := p.Process(context.Background(), []byte("img"), "image/jpeg")
	require.NoError(t, err)
	assert.True(t, usedFallback)
	assert.NotEmpty(t, drafts)
}
