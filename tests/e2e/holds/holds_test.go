//go:build e2e

package holds_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"visitdesk/internal/domain/user"
	"visitdesk/internal/handler/dto/request"
	"visitdesk/internal/handler/dto/response"
	"visitdesk/tests/common/authtest"
	"visitdesk/tests/common/dbtest"
	"visitdesk/tests/common/httptest"
	"visitdesk/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	holdsURL   = "/api/holds"
	confirmURL = "/api/holds/confirm"
	cancelURL  = "/api/holds/cancel"
	expireURL  = "/api/holds/expire"
)

type HoldSuite struct {
	e2e.SharedSuite
}

func TestHoldSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(HoldSuite))
}

func createHoldRequest(conversationID, phone string) request.CreateHold {
	return request.CreateHold{
		Channel:        "voice",
		ConversationID: conversationID,
		ContactPhone:   phone,
		VisitKind:      "primary",
	}
}

func (s *HoldSuite) TestCreateHold() {
	s.Run("places a hold and returns its expiry", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "operator@example.com", string(user.RoleOperator))
		techID := dbtest.CreateTestTechnician(t, s.DB, "Alice", 1)
		cookies := authtest.LoginWithDefaultPassword(t, s.Router, "operator@example.com")

		w := httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, holdsURL,
			createHoldRequest("call-1", "+15550001"), cookies, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var hold response.Hold
		httptest.DecodeResponseBody(t, w.Body, &hold)
		require.Equal(t, "held", hold.Status)
		require.Equal(t, techID, hold.TechnicianID)
		require.NotNil(t, hold.ExpiresAt)
		require.True(t, hold.End.After(hold.Start))
	})

	s.Run("re-invocation returns the same reservation", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "operator@example.com", string(user.RoleOperator))
		dbtest.CreateTestTechnician(t, s.DB, "Alice", 1)
		cookies := authtest.LoginWithDefaultPassword(t, s.Router, "operator@example.com")

		first := httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, holdsURL,
			createHoldRequest("call-1", "+15550001"), cookies, "")
		require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
		second := httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, holdsURL,
			createHoldRequest("call-1", "+15550001"), cookies, "")
		require.Equal(t, http.StatusCreated, second.Code, second.Body.String())

		var a, b response.Hold
		httptest.DecodeResponseBody(t, first.Body, &a)
		httptest.DecodeResponseBody(t, second.Body, &b)
		require.Equal(t, a.ReservationID, b.ReservationID)
	})

	s.Run("the same window cannot be held twice", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "operator@example.com", string(user.RoleOperator))
		dbtest.CreateTestTechnician(t, s.DB, "Alice", 1)
		cookies := authtest.LoginWithDefaultPassword(t, s.Router, "operator@example.com")

		start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)
		end := start.Add(time.Hour)

		first := createHoldRequest("call-1", "+15550001")
		first.Start = &start
		first.End = &end
		w := httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, holdsURL, first, cookies, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		second := createHoldRequest("call-2", "+15550002")
		second.Start = &start
		second.End = &end
		w = httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, holdsURL, second, cookies, "")
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})
}

func (s *HoldSuite) TestConfirmHold() {
	confirmReq := request.ConfirmHold{Channel: "voice", ConversationID: "call-1"}

	s.Run("promotes the hold to a confirmed visit", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "operator@example.com", string(user.RoleOperator))
		dbtest.CreateTestTechnician(t, s.DB, "Alice", 1)
		cookies := authtest.LoginWithDefaultPassword(t, s.Router, "operator@example.com")

		w := httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, holdsURL,
			createHoldRequest("call-1", "+15550001"), cookies, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, confirmURL, confirmReq, cookies, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var confirmed response.Hold
		httptest.DecodeResponseBody(t, w.Body, &confirmed)
		require.Equal(t, "confirmed", confirmed.Status)
		require.Nil(t, confirmed.ExpiresAt)

		w = httptest.PerformRequestWithCookies(t, s.Router, http.MethodGet,
			"/api/reservations/"+confirmed.ReservationID.String(), nil, cookies, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var detail response.Reservation
		httptest.DecodeResponseBody(t, w.Body, &detail)
		require.Equal(t, "confirmed", detail.Status)
		require.Equal(t, 1, detail.LockLevel)
	})

	s.Run("unknown conversation is not found", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "operator@example.com", string(user.RoleOperator))
		dbtest.CreateTestTechnician(t, s.DB, "Alice", 1)
		cookies := authtest.LoginWithDefaultPassword(t, s.Router, "operator@example.com")

		w := httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, confirmURL, confirmReq, cookies, "")
		require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})
}

func (s *HoldSuite) TestCancelHold() {
	s.Run("released hold cannot be confirmed afterwards", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "operator@example.com", string(user.RoleOperator))
		dbtest.CreateTestTechnician(t, s.DB, "Alice", 1)
		cookies := authtest.LoginWithDefaultPassword(t, s.Router, "operator@example.com")

		w := httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, holdsURL,
			createHoldRequest("call-1", "+15550001"), cookies, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, cancelURL,
			request.CancelHold{Channel: "voice", ConversationID: "call-1"}, cookies, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, confirmURL,
			request.ConfirmHold{Channel: "voice", ConversationID: "call-1"}, cookies, "")
		require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})
}

func (s *HoldSuite) TestAuthorization() {
	s.Run("viewers cannot place holds", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "viewer@example.com", string(user.RoleViewer))
		dbtest.CreateTestTechnician(t, s.DB, "Alice", 1)
		cookies := authtest.LoginWithDefaultPassword(t, s.Router, "viewer@example.com")

		w := httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, holdsURL,
			createHoldRequest("call-1", "+15550001"), cookies, "")
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})

	s.Run("only admins may run the sweep", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "operator@example.com", string(user.RoleOperator))
		dbtest.CreateTestUser(t, s.DB, "admin@example.com", string(user.RoleAdmin))

		operator := authtest.LoginWithDefaultPassword(t, s.Router, "operator@example.com")
		w := httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, expireURL, nil, operator, "")
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

		admin := authtest.LoginWithDefaultPassword(t, s.Router, "admin@example.com")
		w = httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, expireURL, nil, admin, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var swept response.ExpiredHolds
		httptest.DecodeResponseBody(t, w.Body, &swept)
		require.Zero(t, swept.Expired)
	})

	s.Run("me returns the authenticated profile", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "operator@example.com", string(user.RoleOperator))
		cookies := authtest.LoginWithDefaultPassword(t, s.Router, "operator@example.com")

		w := httptest.PerformRequestWithCookies(t, s.Router, http.MethodGet, "/api/auth/me", nil, cookies, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var me response.Me
		httptest.DecodeResponseBody(t, w.Body, &me)
		require.Equal(t, "operator@example.com", me.Email)
		require.Equal(t, "operator", me.Role)
	})

	s.Run("deactivated accounts cannot log in", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "operator@example.com", string(user.RoleOperator))
		_, err := s.DB.Exec(context.Background(),
			`UPDATE users SET is_active = false WHERE email = $1`, "operator@example.com")
		require.NoError(t, err)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/auth/login",
			request.Login{Email: "operator@example.com", Password: "password123"}, "")
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})

	s.Run("requests without a session are rejected", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/technicians", nil, "")
		require.Equal(t, http.StatusUnauthorized, w.Code, w.Body.String())
	})
}
