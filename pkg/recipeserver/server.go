package recipeserver

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	metrics "github.com/slok/go-http-metrics/metrics/prometheus"
	"github.com/slok/go-http-metrics/middleware"
	"github.com/slok/go-http-metrics/middleware/std"

	log "github.com/sirupsen/logrus"

	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/agent"
	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/chat"
)

// Registered once: the recorder installs collectors in the default
// prometheus registry, and Handler may be called more than once.
var requestMetrics = middleware.New(middleware.Config{
	Recorder: metrics.NewRecorder(metrics.Config{}),
})

// AgentClient answers chat turns. Satisfied by *agent.Client.
type AgentClient interface {
	Chat(ctx context.Context, message string, history []agent.HistoryMessage) (*agent.ChatResponse, error)
}

// TitleGenerator derives conversation titles. Satisfied by
// *ai.LLMClient. May be nil, in which case conversations keep their
// default titles.
type TitleGenerator interface {
	GenerateTitle(ctx context.Context, firstUserMessage string) (string, error)
}

func NewServer(
	listenAddr string,
	store *chat.Store,
	agentClient AgentClient,
	titleGenerator TitleGenerator,
) *Server {
	return &Server{
		listenAddr: listenAddr,
		store:      store,
		agent:      agentClient,
		titles:     titleGenerator,
	}
}

type Server struct {
	listenAddr string
	store      *chat.Store
	agent      AgentClient
	titles     TitleGenerator
	httpServer *http.Server
}

// Handler builds the API router. Exposed separately from Serve so tests
// can drive it through httptest.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/conversation", s.jsonCreateConversation).Methods(http.MethodPost)
	api.HandleFunc("/conversation", s.jsonListConversations).Methods(http.MethodGet)
	api.HandleFunc("/conversation/{id}", s.jsonUpdateConversationTitle).Methods(http.MethodPatch)
	api.HandleFunc("/conversation/{id}", s.jsonDeleteConversation).Methods(http.MethodDelete)

	api.HandleFunc("/message", s.jsonListMessages).Methods(http.MethodGet)
	api.HandleFunc("/message", s.jsonCreateMessage).Methods(http.MethodPost)

	api.HandleFunc("/chat", s.jsonChat).Methods(http.MethodPost)
	api.HandleFunc("/generate-title", s.jsonGenerateTitle).Methods(http.MethodPost)

	api.HandleFunc("/user", s.jsonCreateUser).Methods(http.MethodPost)
	api.HandleFunc("/user", s.jsonGetUser).Methods(http.MethodGet)
	api.HandleFunc("/user", s.jsonDeleteUser).Methods(http.MethodDelete)
	api.HandleFunc("/user/check-password", s.jsonCheckPassword).Methods(http.MethodPost)

	return std.Handler("", requestMetrics, router)
}

func (s *Server) Serve() {
	s.httpServer = &http.Server{
		Addr:    s.listenAddr,
		Handler: s.Handler(),
	}

	log.Infof("Serving API on %s", s.listenAddr)

	if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.WithError(err).Fatal("server exited")
	}
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) GetHTTPServer() *http.Server {
	return s.httpServer
}
