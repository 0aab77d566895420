package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/therapyai/caseload/internal/core/assistant"
	"github.com/therapyai/caseload/internal/core/service"
	"github.com/therapyai/caseload/internal/infrastructure/db/memory"
	"github.com/therapyai/caseload/internal/infrastructure/realtime"
)

const testSecret = "router-test-secret"

type testServer struct {
	*httptest.Server
	t *testing.T
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zerolog.Nop()
	store := memory.New()
	tables := service.NewTables(store, "")

	_, err := service.NewSeeder(tables, log).SeedIfEmpty(context.Background())
	require.NoError(t, err)

	guard := service.NewGuard(tables)
	responder := assistant.NewResponder(nil)
	hub := realtime.NewHub(nil, log)

	e := NewRouter(Deps{
		Log:          log,
		JWTSecret:    testSecret,
		Registry:     prometheus.NewRegistry(),
		Store:        store,
		StoreBackend: "memory",
		Guard:        guard,
		Auth:         service.NewAuthService(tables, testSecret, time.Hour, log),
		Users:        service.NewUserService(tables, log),
		Therapists:   service.NewTherapistService(tables, log),
		Children:     service.NewChildService(tables, guard, responder, log),
		Chats:        service.NewChatService(tables, guard, responder, hub, log),
		Feed:         hub,
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, t: t}
}

func (s *testServer) do(method, path, token, body string) (int, []byte) {
	s.t.Helper()
	req, err := http.NewRequest(method, s.URL+path, strings.NewReader(body))
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return resp.StatusCode, out
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	code, body := s.do(http.MethodPost, "/auth/login", "", `{"email":"`+email+`","password":"`+password+`"}`)
	require.Equal(s.t, http.StatusOK, code, string(body))

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(body, &resp))
	require.NotEmpty(s.t, resp.Token)
	return resp.Token
}

func TestRouter_RequiresToken(t *testing.T) {
	srv := newTestServer(t)

	code, _ := srv.do(http.MethodGet, "/v1/children", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = srv.do(http.MethodGet, "/v1/children", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRouter_LoginRejectsBadPassword(t *testing.T) {
	srv := newTestServer(t)

	code, body := srv.do(http.MethodPost, "/auth/login", "", `{"email":"admin@demo.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Contains(t, string(body), "invalid email or password")
}

func TestRouter_AdminWorkspace(t *testing.T) {
	srv := newTestServer(t)
	admin := srv.login("admin@demo.com", "admin123")

	code, body := srv.do(http.MethodGet, "/v1/therapists", admin, "")
	require.Equal(t, http.StatusOK, code)
	var therapists []map[string]any
	require.NoError(t, json.Unmarshal(body, &therapists))
	assert.Len(t, therapists, 3)

	code, body = srv.do(http.MethodPost, "/v1/therapists", admin, `{"name":"New One","email":"new@demo.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, code, string(body))

	code, _ = srv.do(http.MethodPost, "/v1/therapists", admin, `{"name":"Dup","email":"new@demo.com","password":"secret1"}`)
	assert.Equal(t, http.StatusConflict, code)

	code, body = srv.do(http.MethodPost, "/v1/therapists", admin, `{"name":"Bad","email":"nope","password":"secret1"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), "email")

	// A seeded therapist with clients cannot be removed.
	var sarahID string
	for _, th := range therapists {
		if th["email"] == "therapist@demo.com" {
			sarahID, _ = th["id"].(string)
		}
	}
	require.NotEmpty(t, sarahID)
	code, _ = srv.do(http.MethodDelete, "/v1/therapists/"+sarahID, admin, "")
	assert.Equal(t, http.StatusConflict, code)

	code, _ = srv.do(http.MethodPost, "/v1/children", admin, `{"name":"X","dob":"2019-01-01","concern":"c"}`)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestRouter_TherapistCannotReachAdminRoutes(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login("therapist@demo.com", "therapist123")

	code, body := srv.do(http.MethodGet, "/v1/therapists", token, "")
	require.Equal(t, http.StatusForbidden, code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "therapist", resp["redirect"])
}

func TestRouter_TherapistWorkspaceAndChat(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login("therapist@demo.com", "therapist123")

	code, body := srv.do(http.MethodGet, "/auth/me", token, "")
	require.Equal(t, http.StatusOK, code)
	var me map[string]any
	require.NoError(t, json.Unmarshal(body, &me))
	myID, _ := me["user_id"].(string)

	code, body = srv.do(http.MethodGet, "/v1/children", token, "")
	require.Equal(t, http.StatusOK, code)
	var children []map[string]any
	require.NoError(t, json.Unmarshal(body, &children))
	require.NotEmpty(t, children)
	for _, c := range children {
		assert.Equal(t, myID, c["therapist_id"])
	}

	code, body = srv.do(http.MethodPost, "/v1/children", token, `{"name":"Noah","birth_year":2020,"concern":"motor skills"}`)
	require.Equal(t, http.StatusCreated, code, string(body))
	var child map[string]any
	require.NoError(t, json.Unmarshal(body, &child))
	childID, _ := child["id"].(string)
	assert.Equal(t, "2020-01-01", child["dob"])

	code, _ = srv.do(http.MethodPost, "/v1/children", token, `{"name":"Later","birth_year":2999,"concern":"speech"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = srv.do(http.MethodPost, "/v1/children/"+childID+"/regenerate/strategies", token, "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = srv.do(http.MethodPost, "/v1/children/"+childID+"/regenerate/bogus", token, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = srv.do(http.MethodPost, "/v1/children/"+childID+"/messages", token, `{"text":"any tips?"}`)
	require.Equal(t, http.StatusAccepted, code)

	code, body = srv.do(http.MethodGet, "/v1/children/"+childID+"/messages", token, "")
	require.Equal(t, http.StatusOK, code)
	var msgs []map[string]any
	require.NoError(t, json.Unmarshal(body, &msgs))
	require.Len(t, msgs, 2)
	assert.Equal(t, "therapist", msgs[0]["from"])
	assert.Equal(t, "ai", msgs[1]["from"])

	code, _ = srv.do(http.MethodDelete, "/v1/children/"+childID, token, "")
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = srv.do(http.MethodGet, "/v1/children/"+childID, token, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRouter_OtherTherapistIsForbidden(t *testing.T) {
	srv := newTestServer(t)
	sarah := srv.login("therapist@demo.com", "therapist123")
	michael := srv.login("michael.chen@demo.com", "therapist456")

	_, body := srv.do(http.MethodGet, "/v1/children", sarah, "")
	var children []map[string]any
	require.NoError(t, json.Unmarshal(body, &children))
	require.NotEmpty(t, children)
	childID, _ := children[0]["id"].(string)

	code, _ := srv.do(http.MethodGet, "/v1/children/"+childID+"/messages", michael, "")
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = srv.do(http.MethodPatch, "/v1/children/"+childID, michael, `{"notes":"x"}`)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestRouter_ChatSummaries(t *testing.T) {
	srv := newTestServer(t)

	code, _ := srv.do(http.MethodGet, "/v1/chats", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	sarah := srv.login("therapist@demo.com", "therapist123")
	code, body := srv.do(http.MethodGet, "/v1/chats", sarah, "")
	require.Equal(t, http.StatusOK, code)
	var summaries []struct {
		ChildName    string           `json:"child_name"`
		MessageCount int              `json:"message_count"`
		LastMessage  map[string]any   `json:"last_message"`
		Recent       []map[string]any `json:"recent"`
		More         bool             `json:"more"`
	}
	require.NoError(t, json.Unmarshal(body, &summaries))
	require.Len(t, summaries, 3)
	emma := summaries[0]
	assert.Equal(t, "Emma Johnson", emma.ChildName)
	assert.Equal(t, 10, emma.MessageCount)
	assert.Len(t, emma.Recent, 3)
	assert.True(t, emma.More)
	assert.Equal(t, emma.Recent[2]["id"], emma.LastMessage["id"])
	assert.Equal(t, "ai", emma.LastMessage["from"])

	jessica := srv.login("jessica.martinez@demo.com", "therapist789")
	code, body = srv.do(http.MethodGet, "/v1/chats", jessica, "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, "[]", string(body))

	admin := srv.login("admin@demo.com", "admin123")
	code, body = srv.do(http.MethodGet, "/v1/chats", admin, "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &summaries))
	assert.Len(t, summaries, 4)
}

func TestRouter_Feed(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login("therapist@demo.com", "therapist123")

	code, body := srv.do(http.MethodPost, "/v1/children", token, `{"name":"Ava","dob":"2019-05-05","concern":"speech"}`)
	require.Equal(t, http.StatusCreated, code)
	var child map[string]any
	require.NoError(t, json.Unmarshal(body, &child))
	childID, _ := child["id"].(string)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/children/" + childID + "/feed?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	code, _ = srv.do(http.MethodPost, "/v1/children/"+childID+"/messages", token, `{"text":"hello"}`)
	require.Equal(t, http.StatusAccepted, code)

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var first, second map[string]any
	require.NoError(t, conn.ReadJSON(&first))
	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, "therapist", first["from"])
	assert.Equal(t, "hello", first["text"])
	assert.Equal(t, "ai", second["from"])
}

func TestRouter_FeedRejectsQueryTokenOnPlainRequests(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login("therapist@demo.com", "therapist123")

	code, _ := srv.do(http.MethodGet, "/v1/children?token="+token, "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	code, _ := srv.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, code)

	code, body := srv.do(http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), `"memory"`)

	code, body = srv.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), "caseload_requests_total")
}
