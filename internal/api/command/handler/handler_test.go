package commandHandler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	fastws "github.com/fasthttp/websocket"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CommandCore/database/sqlite"
	"CommandCore/internal/api/command"
	commandRepository "CommandCore/internal/api/command/repository"
	commandService "CommandCore/internal/api/command/service"
	"CommandCore/internal/catalog"
	"CommandCore/internal/middleware"
	"CommandCore/pkg/datatype"
	"CommandCore/pkg/handlerUtil"
	"CommandCore/pkg/history"
	"CommandCore/pkg/intent"
	"CommandCore/pkg/resolver"
	"CommandCore/pkg/utils"
)

func newTestApp(t *testing.T, opts ...commandService.Option) *fiber.App {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	registry := datatype.NewRegistry(datatype.DefaultConfig(), time.UTC)
	dispatcher := intent.NewDispatcher(log)
	engine := resolver.New(resolver.DefaultConfig(), resolver.WithLogger(log))

	apps, _, err := catalog.New(registry, dispatcher, nil, log).LoadDir(filepath.Join("..", "..", "..", "..", "configs", "apps"))
	require.NoError(t, err)
	for _, app := range apps {
		_, err := engine.Register(app)
		require.NoError(t, err)
	}

	svc := commandService.New(log, engine, registry, dispatcher, history.New(history.WithLogger(log)), opts...)
	mw := middleware.New(log)

	app := fiber.New(fiber.Config{
		JSONEncoder: jsoniter.Marshal,
		JSONDecoder: jsoniter.Unmarshal,
	})
	app.Use(mw.NewRequestIDMiddleware())
	New(log, validator.New(), mw, svc, utils.New()).Start(app.Group("/api/v1"))
	return app
}

func post(t *testing.T, app *fiber.App, path, body string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func get(t *testing.T, app *fiber.App, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestExecuteEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, body := post(t, app, "/api/v1/command/execute", `{"text":"play imagine"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	var executed command.ExecuteResponse
	require.NoError(t, jsoniter.Unmarshal(body, &executed))
	assert.Equal(t, "music/play", executed.Operation)
	assert.Equal(t, "Playing Imagine", executed.Reply)

	resp, body = get(t, app, "/api/v1/command/history")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var entries []command.HistoryEntryResponse
	require.NoError(t, jsoniter.Unmarshal(body, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, executed.ID, entries[0].ID)
}

func TestErrorsAreMapped(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"no match", "/api/v1/command/execute", `{"text":"asdkj qpwoe"}`, fiber.StatusUnprocessableEntity, "NO_TEMPLATE_MATCH"},
		{"unresolved parameter", "/api/v1/command/resolve", `{"text":"volume"}`, fiber.StatusUnprocessableEntity, "PARAMETER_UNRESOLVED"},
		{"missing text", "/api/v1/command/execute", `{}`, fiber.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad json", "/api/v1/command/explain", `{"text":`, fiber.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := post(t, app, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, string(body))

			var errResp handlerUtil.ErrorResponse
			require.NoError(t, jsoniter.Unmarshal(body, &errResp))
			assert.Equal(t, tt.code, errResp.Code)
			assert.NotEmpty(t, errResp.Error)
		})
	}
}

func TestReadEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp, body := post(t, app, "/api/v1/command/explain", `{"text":"please stop"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var explained command.ExplainResponse
	require.NoError(t, jsoniter.Unmarshal(body, &explained))
	assert.True(t, explained.Accepted)

	resp, body = get(t, app, "/api/v1/command/vocabulary")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var vocab command.VocabularyResponse
	require.NoError(t, jsoniter.Unmarshal(body, &vocab))
	assert.Contains(t, vocab.Terms, "Imagine")

	resp, body = get(t, app, "/api/v1/command/apps")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var apps []command.AppResponse
	require.NoError(t, jsoniter.Unmarshal(body, &apps))
	assert.Len(t, apps, 2)

	resp, _ = get(t, app, "/api/v1/command/stream")
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestStream(t *testing.T) {
	app := newTestApp(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	conn, _, err := fastws.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/api/v1/command/stream", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(fastws.TextMessage, []byte("play yesterday")))
	var executed command.ExecuteResponse
	require.NoError(t, conn.ReadJSON(&executed))
	assert.Equal(t, "music/play", executed.Operation)
	assert.Equal(t, "Playing Yesterday", executed.Reply)

	require.NoError(t, conn.WriteMessage(fastws.TextMessage, []byte("asdkj qpwoe")))
	var failed command.StreamError
	require.NoError(t, conn.ReadJSON(&failed))
	assert.Equal(t, "NO_TEMPLATE_MATCH", failed.Code)
	assert.Equal(t, "asdkj qpwoe", failed.Input)
}

type stubTranscriber struct {
	transcript string
}

func (s stubTranscriber) Transcribe(ctx context.Context, filename string, audio io.Reader, vocabulary []string) (string, error) {
	return s.transcript, nil
}

func voiceRequest(t *testing.T, field, filename string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("RIFF"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/command/voice", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func TestVoiceEndpoint(t *testing.T) {
	t.Run("executes transcript", func(t *testing.T) {
		app := newTestApp(t, commandService.WithTranscriber(stubTranscriber{transcript: "stop the music"}))

		resp, err := app.Test(voiceRequest(t, "audio", "clip.wav"))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var voice command.VoiceResponse
		require.NoError(t, jsoniter.NewDecoder(resp.Body).Decode(&voice))
		assert.Equal(t, "stop the music", voice.Transcript)
		assert.Equal(t, "Stopped.", voice.Result.Reply)
	})

	t.Run("reports transcript on failure", func(t *testing.T) {
		app := newTestApp(t, commandService.WithTranscriber(stubTranscriber{transcript: "asdkj qpwoe"}))

		resp, err := app.Test(voiceRequest(t, "audio", "clip.wav"))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

		var body handlerUtil.ErrorResponse
		require.NoError(t, jsoniter.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "NO_TEMPLATE_MATCH", body.Code)
		assert.Equal(t, "asdkj qpwoe", body.Transcript)
	})

	t.Run("unsupported file", func(t *testing.T) {
		app := newTestApp(t, commandService.WithTranscriber(stubTranscriber{transcript: "stop"}))

		resp, err := app.Test(voiceRequest(t, "audio", "notes.txt"))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing file", func(t *testing.T) {
		app := newTestApp(t, commandService.WithTranscriber(stubTranscriber{transcript: "stop"}))

		resp, err := app.Test(voiceRequest(t, "file", "clip.wav"))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("not configured", func(t *testing.T) {
		resp, err := newTestApp(t).Test(voiceRequest(t, "audio", "clip.wav"))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestLogEndpoints(t *testing.T) {
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)
	repo := commandRepository.New(db, log)
	require.NoError(t, repo.Migrate(context.Background()))

	app := newTestApp(t, commandService.WithRepository(repo))

	resp, body := post(t, app, "/api/v1/command/execute", `{"text":"volume 42"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	var executed command.ExecuteResponse
	require.NoError(t, jsoniter.Unmarshal(body, &executed))

	resp, body = get(t, app, "/api/v1/command/log?operation=music/volume&limit=10")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	var logs command.LogResponse
	require.NoError(t, jsoniter.Unmarshal(body, &logs))
	require.Equal(t, 1, logs.Total)
	assert.Equal(t, executed.ID, logs.Items[0].ID)
	assert.NotEqual(t, "unknown", logs.Items[0].RequestID)

	resp, _ = get(t, app, "/api/v1/command/log/"+executed.ID)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = get(t, app, "/api/v1/command/log/nope")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, body = get(t, app, "/api/v1/command/log?limit=1000")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, string(body))
}
