package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/celebration-station/loyalty/internal/adapter/venues"
	domainErrors "github.com/celebration-station/loyalty/internal/domain/errors"
	"github.com/celebration-station/loyalty/internal/domain/model"
	"github.com/celebration-station/loyalty/internal/server/http/dto"
	"github.com/celebration-station/loyalty/internal/server/http/middleware"
	testhelpers "github.com/celebration-station/loyalty/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, path string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	routePath := path
	if i := strings.IndexByte(routePath, '?'); i >= 0 {
		routePath = routePath[:i]
	}
	router.Handle(method, routePath, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func asUser(id int64) func(*gin.Context) {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDContextKey, id)
	}
}

func TestCurrentUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentUserID(c); got != 0 {
		t.Fatalf("expected 0 when not set, got %d", got)
	}

	c.Set(middleware.UserIDContextKey, int64(42))
	if got := CurrentUserID(c); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestAuthHandlerRegister(t *testing.T) {
	body, _ := json.Marshal(dto.AuthRequest{Login: "user", Password: "pass"})
	resp := performRequest(t, http.MethodPost, "/register", NewAuthHandler(testhelpers.AuthFacadeStub{}).Register, nil, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if resp.Header().Get("Authorization") == "" {
		t.Fatalf("expected auth header to be set")
	}
}

func TestAuthHandlerRegisterSetsSessionCookie(t *testing.T) {
	login := testhelpers.RandomASCIIString(7, 14)
	password := testhelpers.RandomASCIIString(16, 32)
	body, _ := json.Marshal(dto.AuthRequest{Login: login, Password: password})
	handler := NewAuthHandler(testhelpers.AuthFacadeStub{RegisterFn: func(ctx context.Context, gotLogin, gotPassword string) (string, error) {
		if gotLogin != login || gotPassword != password {
			t.Fatalf("unexpected credentials passed to facade: %q %q", gotLogin, gotPassword)
		}
		return "session-token", nil
	}})
	resp := performRequest(t, http.MethodPost, "/register", handler.Register, nil, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	authHeader := resp.Header().Get("Authorization")
	if authHeader != "Bearer session-token" {
		t.Fatalf("unexpected authorization header %q", authHeader)
	}
	result := resp.Result()
	t.Cleanup(func() {
		_ = result.Body.Close()
	})
	cookies := result.Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected auth cookie to be set")
	}
	foundCookie := false
	for _, cookie := range cookies {
		if cookie.Name == "celebration_token" {
			if cookie.Value != "session-token" {
				t.Fatalf("unexpected token stored in cookie: %q", cookie.Value)
			}
			foundCookie = true
			break
		}
	}
	if !foundCookie {
		t.Fatal("expected auth cookie named celebration_token")
	}
}

func TestAuthHandlerRegisterFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.AuthFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "invalid credentials", body: []byte(`{"login":"","password":""}`), facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string) (string, error) {
			return "", domainErrors.ErrInvalidCredentials
		}}, status: http.StatusBadRequest},
		{name: "already exists", body: []byte(`{"login":"a","password":"b"}`), facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string) (string, error) {
			return "", domainErrors.ErrAlreadyExists
		}}, status: http.StatusConflict},
		{name: "internal", body: []byte(`{"login":"a","password":"b"}`), facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string) (string, error) {
			return "", errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/register", NewAuthHandler(tt.facade).Register, nil, tt.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	body, _ := json.Marshal(dto.AuthRequest{Login: "user", Password: "pass"})
	resp := performRequest(t, http.MethodPost, "/login", NewAuthHandler(testhelpers.AuthFacadeStub{}).Login, nil, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestAuthHandlerLoginFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.AuthFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "invalid", body: []byte(`{"login":"a","password":"b"}`), facade: testhelpers.AuthFacadeStub{AuthenticateFn: func(context.Context, string, string) (string, error) {
			return "", domainErrors.ErrInvalidCredentials
		}}, status: http.StatusUnauthorized},
		{name: "internal", body: []byte(`{"login":"a","password":"b"}`), facade: testhelpers.AuthFacadeStub{AuthenticateFn: func(context.Context, string, string) (string, error) {
			return "", errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/login", NewAuthHandler(tt.facade).Login, nil, tt.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestLoyaltyHandlerClaimDaily(t *testing.T) {
	facade := testhelpers.PointsFacadeStub{ClaimFn: func(context.Context, int64) (*model.ClaimResult, error) {
		return &model.ClaimResult{Bonus: 75, Balance: 225, StreakLength: 3, Tier: model.TierGold}, nil
	}}
	handler := NewLoyaltyHandler(facade)
	resp := performRequest(t, http.MethodPost, "/claim-daily", handler.ClaimDaily, asUser(1), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.ClaimResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Points != 75 || decoded.CurrentPoints != 225 || decoded.Streak != 3 || decoded.Tier != "gold" {
		t.Fatalf("unexpected claim response: %+v", decoded)
	}
}

func TestLoyaltyHandlerClaimDailyFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "already claimed", err: domainErrors.ErrAlreadyClaimedToday, status: http.StatusBadRequest},
		{name: "concurrent", err: domainErrors.ErrConcurrentModification, status: http.StatusConflict},
		{name: "internal", err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facade := testhelpers.PointsFacadeStub{ClaimFn: func(context.Context, int64) (*model.ClaimResult, error) {
				return nil, tt.err
			}}
			resp := performRequest(t, http.MethodPost, "/claim-daily", NewLoyaltyHandler(facade).ClaimDaily, asUser(1), nil, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestLoyaltyHandlerPoints(t *testing.T) {
	claimed := time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC)
	facade := testhelpers.PointsFacadeStub{PointsFn: func(context.Context, int64) (*model.PointsSummary, error) {
		return &model.PointsSummary{
			Account:       &model.PointsAccount{UserID: 1, Balance: 150, StreakLength: 2, LastClaimedAt: &claimed},
			CanClaimToday: true,
			PointsWorth:   150,
		}, nil
	}}
	resp := performRequest(t, http.MethodGet, "/points", NewLoyaltyHandler(facade).Points, asUser(1), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.PointsResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Points != 150 || !decoded.CanClaimDaily || decoded.Streak != 2 || decoded.PointsWorth != 150 {
		t.Fatalf("unexpected points response: %+v", decoded)
	}
	if decoded.LastClaimed == nil || !decoded.LastClaimed.Equal(claimed) {
		t.Fatalf("unexpected last claimed: %v", decoded.LastClaimed)
	}
}

func TestLoyaltyHandlerHistory(t *testing.T) {
	entries := []model.LedgerEntry{
		{ID: 2, UserID: 1, PointsDelta: -100, Action: model.ActionRedeemed, CreatedAt: time.Unix(100, 0)},
		{ID: 1, UserID: 1, PointsDelta: 50, Action: model.ActionDailyClaim, CreatedAt: time.Unix(0, 0)},
	}
	var gotLimit int
	facade := testhelpers.PointsFacadeStub{HistoryFn: func(ctx context.Context, userID int64, limit int) ([]model.LedgerEntry, error) {
		gotLimit = limit
		return entries, nil
	}}
	resp := performRequest(t, http.MethodGet, "/history?limit=5", NewLoyaltyHandler(facade).History, asUser(1), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if gotLimit != 5 {
		t.Fatalf("expected limit 5 to reach facade, got %d", gotLimit)
	}
	var decoded dto.HistoryResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded.History) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(decoded.History))
	}
	if decoded.History[0].Action != "redeemed" || decoded.History[0].PointsDelta != -100 {
		t.Fatalf("unexpected first entry: %+v", decoded.History[0])
	}
}

func TestLoyaltyHandlerHistoryBadLimit(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/history?limit=abc", NewLoyaltyHandler(testhelpers.PointsFacadeStub{}).History, asUser(1), nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestLoyaltyHandlerRedeem(t *testing.T) {
	facade := testhelpers.PointsFacadeStub{RedeemFn: func(ctx context.Context, userID, points int64) (*model.RedemptionResult, error) {
		return &model.RedemptionResult{PointsRedeemed: points, DiscountAmount: points, RemainingBalance: 50}, nil
	}}
	body := []byte(`{"pointsToRedeem":100}`)
	resp := performRequest(t, http.MethodPost, "/redeem", NewLoyaltyHandler(facade).Redeem, asUser(1), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.RedeemResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.DiscountAmount != 100 || decoded.RemainingPoints != 50 {
		t.Fatalf("unexpected redeem response: %+v", decoded)
	}
}

func TestLoyaltyHandlerRedeemFailures(t *testing.T) {
	tests := []struct {
		name   string
		body   []byte
		err    error
		status int
	}{
		{name: "bad json", body: []byte("oops"), status: http.StatusBadRequest},
		{name: "below minimum", body: []byte(`{"pointsToRedeem":99}`), err: domainErrors.ErrBelowMinimumRedemption, status: http.StatusBadRequest},
		{name: "insufficient", body: []byte(`{"pointsToRedeem":500}`), err: domainErrors.ErrInsufficientPoints, status: http.StatusBadRequest},
		{name: "internal", body: []byte(`{"pointsToRedeem":100}`), err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facade := testhelpers.PointsFacadeStub{RedeemFn: func(context.Context, int64, int64) (*model.RedemptionResult, error) {
				return nil, tt.err
			}}
			resp := performRequest(t, http.MethodPost, "/redeem", NewLoyaltyHandler(facade).Redeem, asUser(1), tt.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestBookingHandlerCreate(t *testing.T) {
	facade := testhelpers.BookingFacadeStub{CreateFn: func(ctx context.Context, userID int64, req model.BookingRequest) (*model.Booking, *model.RedemptionResult, error) {
		booking := &model.Booking{
			ID:                    1,
			UserID:                userID,
			VenueID:               req.VenueID,
			EventDate:             req.EventDate,
			GuestCount:            req.GuestCount,
			TotalAmount:           1500,
			LoyaltyPointsRedeemed: req.PointsToRedeem,
			DiscountAmount:        model.DiscountFor(req.PointsToRedeem),
		}
		return booking, &model.RedemptionResult{PointsRedeemed: req.PointsToRedeem, DiscountAmount: booking.DiscountAmount}, nil
	}}
	body := []byte(`{"venueId":2,"eventDate":"2026-10-01T00:00:00Z","guestCount":10,"pointsToRedeem":100}`)
	resp := performRequest(t, http.MethodPost, "/bookings", NewBookingHandler(facade).Create, asUser(1), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	var decoded dto.BookingResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.TotalAmount != 1500 || decoded.DiscountAmount != 100 || decoded.FinalAmount != 1400 {
		t.Fatalf("unexpected booking response: %+v", decoded)
	}
	if !decoded.DiscountApplied {
		t.Fatal("expected discount to be applied")
	}
}

func TestBookingHandlerCreateFailures(t *testing.T) {
	validBody := []byte(`{"venueId":2,"eventDate":"2026-10-01T00:00:00Z","guestCount":10}`)
	tests := []struct {
		name   string
		body   []byte
		err    error
		status int
	}{
		{name: "bad json", body: []byte("oops"), status: http.StatusBadRequest},
		{name: "unknown venue", body: validBody, err: domainErrors.ErrNotFound, status: http.StatusUnprocessableEntity},
		{name: "invalid amount", body: validBody, err: domainErrors.ErrInvalidAmount, status: http.StatusUnprocessableEntity},
		{name: "below minimum", body: validBody, err: domainErrors.ErrBelowMinimumRedemption, status: http.StatusBadRequest},
		{name: "insufficient", body: validBody, err: domainErrors.ErrInsufficientPoints, status: http.StatusBadRequest},
		{name: "catalog busy", body: validBody, err: venues.TooManyRequestsError{RetryAfter: time.Second}, status: http.StatusServiceUnavailable},
		{name: "internal", body: validBody, err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facade := testhelpers.BookingFacadeStub{CreateFn: func(context.Context, int64, model.BookingRequest) (*model.Booking, *model.RedemptionResult, error) {
				return nil, nil, tt.err
			}}
			resp := performRequest(t, http.MethodPost, "/bookings", NewBookingHandler(facade).Create, asUser(1), tt.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestBookingHandlerList(t *testing.T) {
	bookings := []model.Booking{
		{ID: 2, UserID: 1, VenueID: 3, TotalAmount: 2000, LoyaltyPointsRedeemed: 100, DiscountAmount: 100},
		{ID: 1, UserID: 1, VenueID: 2, TotalAmount: 1000},
	}
	facade := testhelpers.BookingFacadeStub{BookingsFn: func(context.Context, int64) ([]model.Booking, error) {
		return bookings, nil
	}}
	resp := performRequest(t, http.MethodGet, "/bookings", NewBookingHandler(facade).List, asUser(1), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded []dto.BookingResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(decoded))
	}
	if !decoded[0].DiscountApplied || decoded[1].DiscountApplied {
		t.Fatalf("unexpected discount flags: %+v", decoded)
	}
}

func TestBookingHandlerListEmpty(t *testing.T) {
	facade := testhelpers.BookingFacadeStub{BookingsFn: func(context.Context, int64) ([]model.Booking, error) {
		return nil, nil
	}}
	resp := performRequest(t, http.MethodGet, "/bookings", NewBookingHandler(facade).List, asUser(1), nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
}
