package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/common/webapi"

	"github.com/xxxsen/codegen/internal/ai"
	"github.com/xxxsen/codegen/internal/config"
	"github.com/xxxsen/codegen/internal/handler"
	"github.com/xxxsen/codegen/internal/middleware"
	"github.com/xxxsen/codegen/internal/prompt"
	"github.com/xxxsen/codegen/internal/sample"
	"github.com/xxxsen/codegen/internal/service"
)

var testSamples = map[string]string{
	"samples/plsql-1.txt": "select name from employees where id = 1;",
	"samples/java-1.txt":  "repo.findName(1);",
	"samples/plsql-2.txt": "select name from employees where id = 2;",
	"samples/java-2.txt":  "repo.findName(2);",
	"samples/plsql-3.txt": "update employees set name = 'x' where id = 3;",
	"samples/java-3.txt":  "repo.rename(3, \"x\");",
	"samples/plsql-4.txt": "delete from audit where created < sysdate;",
	"samples/java-4.txt":  "audit.purge();",
	"context/repo.txt":    "interface Repo { String findName(int id); }",
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"message"`
	Data json.RawMessage `json:"data"`
}

type testEnv struct {
	router    http.Handler
	llmCalls  *atomic.Int32
	jwtSecret []byte
}

type setupOption func(*setupOptions)

type setupOptions struct {
	jwtSecret []byte
	llmStatus int
}

func withJWT(secret string) setupOption {
	return func(o *setupOptions) { o.jwtSecret = []byte(secret) }
}

func withLLMStatus(code int) setupOption {
	return func(o *setupOptions) { o.llmStatus = code }
}

func writeSamples(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for key, content := range testSamples {
		p := filepath.Join(root, filepath.FromSlash(key))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func newLLMServer(t *testing.T, status int, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":"bad request"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"deepseek-chat","choices":[{"index":0,"message":{"role":"assistant","content":"Here you go:\n\n` + "```java\\nrepo.findName(1);\\n```" + `"}}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setupRouter(t *testing.T, opts ...setupOption) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	o := &setupOptions{llmStatus: http.StatusOK}
	for _, opt := range opts {
		opt(o)
	}

	src, err := sample.New("local", map[string]interface{}{"dir": writeSamples(t)})
	require.NoError(t, err)
	loader := sample.NewLoader(src, sample.LoaderConfig{PairCount: 4, SourcePrefix: "plsql", TargetPrefix: "java"})
	corpus := service.NewCorpusService(loader, 2)
	require.NoError(t, corpus.Load(context.Background()))

	calls := &atomic.Int32{}
	llm := newLLMServer(t, o.llmStatus, calls)
	provider, err := ai.NewProvider("deepseek", map[string]interface{}{"api_key": "test", "base_url": llm.URL})
	require.NoError(t, err)
	chatter := ai.NewChatter(ai.WithRetry(provider, ai.RetryConfig{MaxAttempts: 2, InitialInterval: time.Millisecond, Multiplier: 2}), "deepseek-chat", 0)

	builder := prompt.NewBuilder(config.PromptConfig{
		System: config.SystemPromptConfig{Base: "Translate PL/SQL to Java.", ContextHeader: "APIs:"},
		User:   config.UserPromptConfig{ExampleFormat: "Example %d:\n%s\n=>\n%s", TargetHeader: "Snippet:"},
	})
	codegen := service.NewCodeGenService(corpus, builder, chatter, service.CodeGenConfig{Timeout: 5 * time.Second})

	deps := handler.RouterDeps{
		CodeGen:   handler.NewCodeGenHandler(codegen, corpus),
		JWTSecret: o.jwtSecret,
	}
	engine, err := webapi.NewEngine(
		"/api/v1",
		"",
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(nil),
		),
	)
	require.NoError(t, err)
	return &testEnv{router: engine, llmCalls: calls, jwtSecret: o.jwtSecret}
}

func (e *testEnv) get(t *testing.T, path string, headers ...string) envelope {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	var out envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}
