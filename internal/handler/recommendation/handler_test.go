package recommendation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"booknest/internal/model"
	feedRepository "booknest/internal/repository/feed"
	"booknest/internal/repository/filter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wellFormedReply = `Book Title: Piranesi
Author: Susanna Clarke
Genre: Fantasy
Summary: A man lives in an endless house of statues and tides.
Why this book: Quiet, strange and perfect for a rainy mood.`

type stubAI struct {
	reply string
	err   error
}

func (s stubAI) Complete(_ context.Context, _ string) (string, error) {
	return s.reply, s.err
}

type stubFeed struct {
	mu      sync.Mutex
	err     error
	entries []model.FeedEntry
}

func (s *stubFeed) Append(_ context.Context, _, _ string, entry model.FeedEntry) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubFeed) NotifyOnAdded(ctx context.Context, _, _ string, _ []filter.Where) <-chan feedRepository.FeedEvent {
	ch := make(chan feedRepository.FeedEvent)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch
}

type stubVerifier struct {
	uid string
	err error
}

func (s stubVerifier) VerifyUid(_ context.Context, _ string) (string, error) {
	return s.uid, s.err
}

func post(t *testing.T, h http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/generateBookRecommendation", bytes.NewReader(data))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func validBody() map[string]string {
	return map[string]string{
		"prompt": "something rainy and strange",
		"userId": "u-123",
		"appId":  "test-app",
	}
}

func TestRejectsNonPost(t *testing.T) {
	h := New(stubAI{reply: wellFormedReply}, &stubFeed{}, nil, 0)

	r := httptest.NewRequest(http.MethodGet, "/generateBookRecommendation", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Body.String(), "Method Not Allowed")
}

func TestRejectsMissingFields(t *testing.T) {
	h := New(stubAI{reply: wellFormedReply}, &stubFeed{}, nil, 0)

	for _, body := range []map[string]string{
		{},
		{"prompt": "x", "userId": "u"},
		{"prompt": "x", "appId": "a"},
		{"userId": "u", "appId": "a"},
	} {
		w := post(t, h, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Bad Request: Missing prompt, userId, or appId.")
	}
}

func TestSuccessfulRecommendation(t *testing.T) {
	feed := &stubFeed{}
	h := New(stubAI{reply: wellFormedReply}, feed, nil, 0)

	w := post(t, h, validBody())
	require.Equal(t, http.StatusOK, w.Code)

	var resp response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Recommendation)
	assert.Equal(t, "Piranesi", resp.Recommendation.BookTitle)
	assert.Equal(t, "Susanna Clarke", resp.Recommendation.Author)
	assert.Equal(t, wellFormedReply, resp.RawAIResponse)

	require.Len(t, feed.entries, 1)
	entry := feed.entries[0]
	assert.Equal(t, "ai_recommendation", entry.Type)
	assert.Equal(t, "something rainy and strange", entry.UserPrompt)
	assert.Equal(t, "Piranesi", entry.AiResponse.BookTitle)
}

func TestUpstreamFailure(t *testing.T) {
	h := New(stubAI{err: errors.New("model unavailable")}, &stubFeed{}, nil, 0)

	w := post(t, h, validBody())
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, msgUpstreamFailure, resp.Message)
	assert.Equal(t, "model unavailable", resp.Error)
}

func TestFeedFailureMapsToSameEnvelope(t *testing.T) {
	feed := &stubFeed{err: errors.New("write denied")}
	h := New(stubAI{reply: wellFormedReply}, feed, nil, 0)

	w := post(t, h, validBody())
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, msgUpstreamFailure, resp.Message)
	assert.Equal(t, "write denied", resp.Error)
}

func TestAuthRequiredWithoutToken(t *testing.T) {
	h := New(stubAI{reply: wellFormedReply}, &stubFeed{}, nil, 0).
		WithTokenVerifier(stubVerifier{uid: "u-123"}, true)

	w := post(t, h, validBody())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthOptionalWithoutToken(t *testing.T) {
	h := New(stubAI{reply: wellFormedReply}, &stubFeed{}, nil, 0).
		WithTokenVerifier(stubVerifier{uid: "u-123"}, false)

	w := post(t, h, validBody())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthTokenChecks(t *testing.T) {
	withToken := func(h http.Handler) *httptest.ResponseRecorder {
		data, _ := json.Marshal(validBody())
		r := httptest.NewRequest(http.MethodPost, "/generateBookRecommendation", bytes.NewReader(data))
		r.Header.Set("Authorization", "Bearer some-token")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	invalid := New(stubAI{reply: wellFormedReply}, &stubFeed{}, nil, 0).
		WithTokenVerifier(stubVerifier{err: errors.New("expired")}, false)
	assert.Equal(t, http.StatusUnauthorized, withToken(invalid).Code)

	mismatch := New(stubAI{reply: wellFormedReply}, &stubFeed{}, nil, 0).
		WithTokenVerifier(stubVerifier{uid: "someone-else"}, true)
	assert.Equal(t, http.StatusForbidden, withToken(mismatch).Code)

	match := New(stubAI{reply: wellFormedReply}, &stubFeed{}, nil, 0).
		WithTokenVerifier(stubVerifier{uid: "u-123"}, true)
	assert.Equal(t, http.StatusOK, withToken(match).Code)
}
