package recipeserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/agent"
	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/chat"
	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/db"
	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/db/models"
)

type fakeAgent struct {
	response    *agent.ChatResponse
	err         error
	calls       int
	lastMessage string
	lastHistory []agent.HistoryMessage
}

func (f *fakeAgent) Chat(ctx context.Context, message string, history []agent.HistoryMessage) (*agent.ChatResponse, error) {
	f.calls++
	f.lastMessage = message
	f.lastHistory = history
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

type fakeTitler struct {
	title string
	err   error
	calls int
}

func (f *fakeTitler) GenerateTitle(ctx context.Context, firstUserMessage string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.title, nil
}

type testServer struct {
	server  *Server
	store   *chat.Store
	agent   *fakeAgent
	titler  *fakeTitler
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	// A named in-memory database with a shared cache: gorm pools
	// connections, and each plain :memory: connection would otherwise
	// see its own empty database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	dbc := &db.DB{DB: gormDB}
	require.NoError(t, dbc.UpdateSchema())

	store := chat.NewStore(dbc)
	fakeAgentClient := &fakeAgent{response: &agent.ChatResponse{Reply: "ok"}}
	titler := &fakeTitler{title: "Generated Title"}
	server := NewServer(":0", store, fakeAgentClient, titler)

	return &testServer{
		server:  server,
		store:   store,
		agent:   fakeAgentClient,
		titler:  titler,
		handler: server.Handler(),
	}
}

func (ts *testServer) newUser(t *testing.T, email string) *models.User {
	t.Helper()

	user, err := ts.store.CreateUser(context.Background(), email, "Test User", "hunter2hunter2")
	require.NoError(t, err)
	return user
}

func (ts *testServer) newConversation(t *testing.T, user *models.User, title string) *models.Conversation {
	t.Helper()

	conversation, err := ts.store.CreateConversation(context.Background(), user.ID, title)
	require.NoError(t, err)
	return conversation
}

// request drives the full router, identity header included.
func (ts *testServer) request(t *testing.T, method, target, email string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if email != "" {
		req.Header.Set(ForwardedUserHeader, email)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	ts.handler.ServeHTTP(recorder, req)
	return recorder
}

func decodeJSON(t *testing.T, recorder *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), into))
}
