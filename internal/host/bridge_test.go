package host

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/mobboss/internal/dependencies/mocks"
	"github.com/mcoot/mobboss/internal/model"
	"github.com/mcoot/mobboss/internal/storage/memory"
	"github.com/mcoot/mobboss/internal/testutil"
)

type BridgeSuite struct {
	suite.Suite
	store   *memory.Storage
	clock   *mocks.MockClock
	bridge  *Bridge
	handler http.Handler
	ctx     context.Context
}

func TestBridgeSuite(t *testing.T) {
	suite.Run(t, new(BridgeSuite))
}

func (s *BridgeSuite) SetupTest() {
	s.store = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	cfg := DefaultBridgeConfig()
	cfg.InitialProof = "user=1&hash=abc"
	cfg.BufferSize = 2
	s.bridge = NewBridge(s.store, s.clock, cfg, testutil.NopLogger())
	s.handler = s.bridge.Handler()
	s.ctx = context.Background()
}

func (s *BridgeSuite) TearDownTest() {
	s.bridge.Close()
}

func (s *BridgeSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *BridgeSuite) next() model.HostNotification {
	select {
	case n := <-s.bridge.Notifications():
		return n
	default:
		s.FailNow("expected a queued notification")
		return model.HostNotification{}
	}
}

// Host interface

func (s *BridgeSuite) TestInitialProofMaterial() {
	s.Equal("user=1&hash=abc", s.bridge.ProofMaterial())
}

func (s *BridgeSuite) TestCurrentSessionAbsentIsNil() {
	session, err := s.bridge.CurrentSession(s.ctx)
	s.Require().NoError(err)
	s.Nil(session)
}

func (s *BridgeSuite) TestInstallAndClearSession() {
	err := s.bridge.InstallSession(s.ctx, &model.HostSession{Token: "tok", Identity: model.Identity{ID: "p1"}})
	s.Require().NoError(err)

	session, err := s.bridge.CurrentSession(s.ctx)
	s.Require().NoError(err)
	s.Equal("tok", session.Token)

	user, err := s.bridge.CurrentUser(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p1"), user.ID)

	s.Require().NoError(s.bridge.ClearSession(s.ctx))
	_, err = s.bridge.CurrentUser(s.ctx)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *BridgeSuite) TestPublishStampsTimeAndDropsWhenFull() {
	s.True(s.bridge.Publish(model.HostNotification{Event: model.HostEventSignedIn}))
	s.True(s.bridge.Publish(model.HostNotification{Event: model.HostEventTokenRefreshed}))
	s.False(s.bridge.Publish(model.HostNotification{Event: model.HostEventSignedOut}))

	n := s.next()
	s.Equal(model.HostEventSignedIn, n.Event)
	s.Equal(s.clock.Now(), n.At)
}

// HTTP API

func (s *BridgeSuite) TestPutProof() {
	rec := s.do(http.MethodPut, "/v1/proof", map[string]string{"init_data": "user=2&hash=def"})
	s.Equal(http.StatusNoContent, rec.Code)
	s.Equal("user=2&hash=def", s.bridge.ProofMaterial())
}

func (s *BridgeSuite) TestPutProofRejectsGarbage() {
	req := httptest.NewRequest(http.MethodPut, "/v1/proof", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *BridgeSuite) TestPostEventQueuesNotification() {
	rec := s.do(http.MethodPost, "/v1/events", map[string]any{"event": "token_refreshed", "session_present": true})
	s.Equal(http.StatusAccepted, rec.Code)

	n := s.next()
	s.Equal(model.HostEventTokenRefreshed, n.Event)
	s.True(n.SessionPresent)
}

func (s *BridgeSuite) TestPostUnknownEventRejected() {
	rec := s.do(http.MethodPost, "/v1/events", map[string]any{"event": "exploded"})
	s.Equal(http.StatusBadRequest, rec.Code)

	var resp errorResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal(CodeUnknownEvent, resp.Error.Code)
}

func (s *BridgeSuite) TestSignedOutEventClearsStoredSession() {
	_ = s.bridge.InstallSession(s.ctx, &model.HostSession{Token: "tok"})

	rec := s.do(http.MethodPost, "/v1/events", map[string]any{"event": "signed_out"})
	s.Equal(http.StatusAccepted, rec.Code)

	session, err := s.bridge.CurrentSession(s.ctx)
	s.Require().NoError(err)
	s.Nil(session)
	s.Equal(model.HostEventSignedOut, s.next().Event)
}

func (s *BridgeSuite) TestGetSession() {
	rec := s.do(http.MethodGet, "/v1/session", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"present":false}`, rec.Body.String())

	_ = s.bridge.InstallSession(s.ctx, &model.HostSession{Token: "tok", Identity: model.Identity{ID: "p1"}})
	rec = s.do(http.MethodGet, "/v1/session", nil)
	s.JSONEq(`{"present":true,"identity":{"id":"p1"}}`, rec.Body.String())
}

func (s *BridgeSuite) TestDeleteSessionEmitsSignedOut() {
	_ = s.bridge.InstallSession(s.ctx, &model.HostSession{Token: "tok"})

	rec := s.do(http.MethodDelete, "/v1/session", nil)
	s.Equal(http.StatusNoContent, rec.Code)
	s.Equal(model.HostEventSignedOut, s.next().Event)
}

func (s *BridgeSuite) TestHealth() {
	rec := s.do(http.MethodGet, "/v1/health", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"ok"}`, rec.Body.String())
}

func (s *BridgeSuite) TestFullBufferReturns503() {
	s.bridge.Publish(model.HostNotification{Event: model.HostEventSignedIn})
	s.bridge.Publish(model.HostNotification{Event: model.HostEventSignedIn})

	rec := s.do(http.MethodPost, "/v1/events", map[string]any{"event": "signed_in"})
	s.Equal(http.StatusServiceUnavailable, rec.Code)
}

func (s *BridgeSuite) TestStreamCarriesHostEvents() {
	server := httptest.NewServer(s.handler)
	defer server.Close()

	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/v1/stream", nil)
	s.Require().NoError(err)
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	s.Require().NoError(err)
	s.Equal("event: connected\n", line)

	s.bridge.Publish(model.HostNotification{Event: model.HostEventSignedOut})

	for {
		line, err := reader.ReadString('\n')
		s.Require().NoError(err)
		if line == "event: host\n" {
			break
		}
	}
	data, err := reader.ReadString('\n')
	s.Require().NoError(err)
	payload := strings.TrimPrefix(strings.TrimSpace(data), "data: ")
	s.JSONEq(`{"event":"signed_out","session_present":false,"at":"2024-01-01T12:00:00Z"}`, payload)
}
