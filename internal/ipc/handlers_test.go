package ipc

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photodrift/photodrift/internal/sequencer"
)

type fakeSequencer struct {
	commands []sequencer.Command
	status   sequencer.Status
}

func (f *fakeSequencer) EnqueueCommand(cmd sequencer.Command) {
	f.commands = append(f.commands, cmd)
}

func (f *fakeSequencer) Status() sequencer.Status { return f.status }

func TestStatusHandler(t *testing.T) {
	seq := &fakeSequencer{status: sequencer.Status{
		CurrentImage: "/photos/a.jpg",
		Paused:       true,
		ImageCount:   42,
	}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()

	err := statusHandler(seq)(e.NewContext(req, rec))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var got StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "ok", got.Status)
	assert.Equal(t, "/photos/a.jpg", got.CurrentImage)
	assert.True(t, got.Paused)
	assert.Equal(t, 42, got.ImageCount)
	assert.NotEmpty(t, got.Version)
	assert.NotZero(t, got.PID)
}

func TestCommandHandlerEnqueues(t *testing.T) {
	for _, name := range []string{"stop", "next", "prev", "pause", "resume"} {
		t.Run(name, func(t *testing.T) {
			seq := &fakeSequencer{}

			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/"+name, nil)
			rec := httptest.NewRecorder()

			err := commandHandler(seq, name)(e.NewContext(req, rec))
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, rec.Code)

			require.Len(t, seq.commands, 1)
			assert.Equal(t, sequencer.CommandType(name), seq.commands[0].Type)
		})
	}
}

func TestRegisterRoutes(t *testing.T) {
	seq := &fakeSequencer{}
	e := echo.New()
	RegisterRoutes(e, seq)

	req := httptest.NewRequest(http.MethodPost, "/next", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, seq.commands, 1)
	assert.Equal(t, sequencer.CommandNext, seq.commands[0].Type)
}
