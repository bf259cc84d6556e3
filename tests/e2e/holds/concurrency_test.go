//go:build e2e

package holds_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	stdhttptest "net/http/httptest"
	"sync"
	"time"

	"visitdesk/internal/domain/user"
	"visitdesk/internal/handler/dto/request"
	"visitdesk/internal/handler/dto/response"
	"visitdesk/tests/common/authtest"
	"visitdesk/tests/common/dbtest"
	"visitdesk/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// dispatch performs a request without touching testing.T so it can run
// inside racing goroutines; assertions happen back on the main goroutine.
func dispatch(router *gin.Engine, method, path string, body any, cookies []*http.Cookie) *stdhttptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		reqBody = bytes.NewBuffer(payload)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := stdhttptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := stdhttptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func (s *HoldSuite) TestConcurrentHolds() {
	s.Run("exactly one of many racing holds wins the window", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "operator@example.com", string(user.RoleOperator))
		dbtest.CreateTestTechnician(t, s.DB, "Alice", 1)
		cookies := authtest.LoginWithDefaultPassword(t, s.Router, "operator@example.com")

		start := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Hour)
		end := start.Add(time.Hour)

		const attempts = 8
		codes := make(chan int, attempts)

		var wg sync.WaitGroup
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				req := createHoldRequest(fmt.Sprintf("race-%d", i), fmt.Sprintf("+1555100%02d", i))
				req.Start = &start
				req.End = &end
				codes <- dispatch(s.Router, http.MethodPost, holdsURL, req, cookies).Code
			}(i)
		}
		wg.Wait()
		close(codes)

		var created, conflicted int
		for code := range codes {
			switch code {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
				conflicted++
			default:
				t.Fatalf("unexpected status %d", code)
			}
		}
		require.Equal(t, 1, created)
		require.Equal(t, attempts-1, conflicted)

		var held int
		err := s.DB.QueryRow(context.Background(),
			`SELECT count(*) FROM reservations WHERE status = 'held'`).Scan(&held)
		require.NoError(t, err)
		require.Equal(t, 1, held)
	})
}

func (s *HoldSuite) TestExpireConfirmRace() {
	s.Run("sweep and confirm agree on a lapsed hold", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "operator@example.com", string(user.RoleOperator))
		dbtest.CreateTestUser(t, s.DB, "admin@example.com", string(user.RoleAdmin))
		dbtest.CreateTestTechnician(t, s.DB, "Alice", 1)
		operator := authtest.LoginWithDefaultPassword(t, s.Router, "operator@example.com")
		admin := authtest.LoginWithDefaultPassword(t, s.Router, "admin@example.com")

		w := httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, holdsURL,
			createHoldRequest("call-1", "+15550001"), operator, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var hold response.Hold
		httptest.DecodeResponseBody(t, w.Body, &hold)

		_, err := s.DB.Exec(context.Background(),
			`UPDATE reservations SET hold_expires_at = now() - interval '1 minute' WHERE id = $1`,
			hold.ReservationID)
		require.NoError(t, err)
		_, err = s.DB.Exec(context.Background(),
			`UPDATE conversation_locks SET expires_at = now() - interval '1 minute'`)
		require.NoError(t, err)

		var (
			wg          sync.WaitGroup
			confirmCode int
			expireCode  int
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			confirmCode = dispatch(s.Router, http.MethodPost, confirmURL,
				request.ConfirmHold{Channel: "voice", ConversationID: "call-1"}, operator).Code
		}()
		go func() {
			defer wg.Done()
			expireCode = dispatch(s.Router, http.MethodPost, expireURL, nil, admin).Code
		}()
		wg.Wait()

		require.Equal(t, http.StatusOK, expireCode)
		require.Contains(t, []int{http.StatusGone, http.StatusNotFound}, confirmCode)

		var status, cancelReason string
		err = s.DB.QueryRow(context.Background(),
			`SELECT status, cancel_reason FROM reservations WHERE id = $1`,
			hold.ReservationID).Scan(&status, &cancelReason)
		require.NoError(t, err)
		require.Equal(t, "canceled", status)
		require.Equal(t, "HOLD_EXPIRED", cancelReason)

		var locks int
		err = s.DB.QueryRow(context.Background(),
			`SELECT count(*) FROM conversation_locks`).Scan(&locks)
		require.NoError(t, err)
		require.Zero(t, locks)
	})
}
