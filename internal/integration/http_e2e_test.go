package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	server "airline_assistant/internal/adapters/http_server"
	"airline_assistant/internal/adapters/ollama"
	"airline_assistant/internal/adapters/search"
	"airline_assistant/internal/app"
	mysqlrepo "airline_assistant/internal/storage/mysql"
)

type webhookResp struct {
	Events    []map[string]any `json:"events"`
	Responses []struct {
		Text string `json:"text"`
	} `json:"responses"`
}

// newStack wires the real adapters against sqlmock and fake upstreams.
func newStack(t *testing.T, searchH, chatH http.HandlerFunc) (*httptest.Server, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	searchSrv := httptest.NewServer(searchH)
	t.Cleanup(searchSrv.Close)
	chatSrv := httptest.NewServer(chatH)
	t.Cleanup(chatSrv.Close)

	sc, err := search.New(searchSrv.URL, "key", "cx", time.Second)
	require.NoError(t, err)

	reg, err := app.NewRegistry(
		app.NewReviewSubmissionAction(mysqlrepo.New(db, time.Second), 1000),
		app.NewAnswerLookupAction(sc, ollama.New(chatSrv.URL, time.Second), app.LookupOptions{Model: "gemma:2b", ResultsTaken: 2, MaxChars: 1000}),
	)
	require.NoError(t, err)

	srv := server.New(5 * time.Second)
	srv.MountHandlers(&server.Handlers{Actions: reg})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts, mock
}

func call(t *testing.T, url, body string) webhookResp {
	t.Helper()
	resp, err := http.Post(url+"/webhook", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out webhookResp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Responses, 1)
	return out
}

func unused(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected upstream call %s", r.URL.Path)
	}
}

func TestE2E_ReviewSubmission(t *testing.T) {
	ts, mock := newStack(t, unused(t), unused(t))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reviews")).
		WithArgs("Delta", "4.5", "Great service").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	out := call(t, ts.URL, `{"next_action":"action_review_summary","tracker":{"sender_id":"u1","slots":{"airline":"Delta","rating":"4.5","review":"Great service"}}}`)

	assert.Contains(t, out.Responses[0].Text, "- Airline: Delta\n- Rating: 4.5/5\n- Review: Great service\n")
	assert.Empty(t, out.Events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestE2E_ReviewInsertFailure(t *testing.T) {
	ts, mock := newStack(t, unused(t), unused(t))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reviews")).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	out := call(t, ts.URL, `{"next_action":"action_review_summary","tracker":{"slots":{"airline":"Delta","rating":"2","review":"Late"}}}`)

	assert.Equal(t, app.MsgSaveFail, out.Responses[0].Text)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestE2E_FetchAnswer(t *testing.T) {
	searchH := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pet policy", r.URL.Query().Get("q"))
		_ = json.NewEncoder(w).Encode(map[string]any{"items": []map[string]string{
			{"title": "Pets", "snippet": "Small pets in cabin"},
		}})
	}
	chatH := func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []struct{ Role, Content string } `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "Pets: Small pets in cabin", body.Messages[1].Content)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": map[string]string{"role": "assistant", "content": "Small pets may fly in the cabin."}})
	}
	ts, _ := newStack(t, searchH, chatH)

	out := call(t, ts.URL, `{"next_action":"action_fetch_answer","tracker":{"latest_message":{"text":"pet policy"}}}`)
	assert.Equal(t, "Small pets may fly in the cabin.", out.Responses[0].Text)
}

func TestE2E_FetchAnswerMalformedGeneration(t *testing.T) {
	searchH := func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"title":"t","snippet":"s"}]}`))
	}
	chatH := func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"unexpected"}`))
	}
	ts, _ := newStack(t, searchH, chatH)

	out := call(t, ts.URL, `{"next_action":"action_fetch_answer","tracker":{"latest_message":{"text":"q"}}}`)
	assert.Equal(t, app.MsgAnswerUnavailable, out.Responses[0].Text)
}

func TestE2E_FetchAnswerSearchDown(t *testing.T) {
	searchH := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusForbidden) }
	ts, _ := newStack(t, searchH, unused(t))

	out := call(t, ts.URL, `{"next_action":"action_fetch_answer","tracker":{"latest_message":{"text":"q"}}}`)
	assert.Equal(t, app.MsgLookupFailed, out.Responses[0].Text)
}
