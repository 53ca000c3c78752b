package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderplan/wanderplan/internal/api"
	"github.com/wanderplan/wanderplan/internal/api/models"
	"github.com/wanderplan/wanderplan/internal/assistant"
	"github.com/wanderplan/wanderplan/internal/auth"
	"github.com/wanderplan/wanderplan/internal/featureflags"
	"github.com/wanderplan/wanderplan/internal/places"
	"github.com/wanderplan/wanderplan/internal/trip"
	"github.com/wanderplan/wanderplan/internal/weather"
)

// stubCompleter returns a canned model reply.
type stubCompleter struct {
	content      string
	finishReason string
}

func (s *stubCompleter) Complete(_ context.Context, _ assistant.Request) (assistant.Completion, error) {
	return assistant.Completion{Content: s.content, FinishReason: s.finishReason}, nil
}

func (s *stubCompleter) Name() string { return "stub" }

// stubWeatherProvider serves one synthetic day per requested date.
type stubWeatherProvider struct{}

func (s *stubWeatherProvider) FetchDaily(_ context.Context, _, _ float64, decision weather.SourceDecision) (weather.DailySeries, error) {
	series := weather.DailySeries{}
	for d := decision.QueryStart; !d.After(decision.QueryEnd); d = d.AddDate(0, 0, 1) {
		series.Dates = append(series.Dates, d.Format(weather.DateLayout))
		series.TempMaxC = append(series.TempMaxC, 21)
		series.TempMinC = append(series.TempMinC, 12)
		series.PrecipitationMm = append(series.PrecipitationMm, 0)
	}
	return series, nil
}

func (s *stubWeatherProvider) Name() string { return "stub-weather" }

// stubCitySearcher returns a fixed city list.
type stubCitySearcher struct{}

func (s *stubCitySearcher) SearchCities(_ context.Context, query, _ string) ([]places.City, error) {
	return []places.City{{Name: query, Lat: 38.7, Lon: -9.1, Country: "Portugal", CountryCode: "PT"}}, nil
}

func (s *stubCitySearcher) Name() string { return "stub-cities" }

type stubAddressSearcher struct{}

func (s *stubAddressSearcher) SearchAddresses(_ context.Context, query string) ([]places.Address, error) {
	return []places.Address{{DisplayName: query + ", Lisboa, Portugal", Lat: 38.7, Lon: -9.1}}, nil
}

func (s *stubAddressSearcher) Name() string { return "stub-addresses" }

const assistantReply = `[
	{"type": "activity", "date": "2026-05-05", "startTime": "10:00", "title": "Castelo de São Jorge",
	 "details": {"place": "Castelo de São Jorge", "category": "sightseeing"},
	 "location": {"lat": 38.7139, "lon": -9.1335}}
]`

type testEnv struct {
	router http.Handler
	flags  *featureflags.Service
}

func newTestEnv() *testEnv {
	logger := zerolog.New(io.Discard)

	authService := auth.NewService(auth.ServiceConfig{
		JWTService: auth.NewJWTService(auth.JWTConfig{
			SigningKey: "test-secret-key-for-testing-only",
			Issuer:     "https://api.wanderplan.app",
			Audience:   "wanderplan-api",
		}),
		UserRepo:    auth.NewInMemoryUserRepository(),
		RefreshRepo: auth.NewInMemoryRefreshTokenRepository(),
	})

	tripService := trip.NewService(trip.NewInMemoryRepository())

	weatherService := weather.NewService(weather.ServiceConfig{
		Provider: &stubWeatherProvider{},
		Logger:   logger,
	})

	assistantService := assistant.NewService(assistant.ServiceConfig{
		Completer: &stubCompleter{content: assistantReply, finishReason: "stop"},
		Logger:    logger,
	})

	placesService := places.NewService(places.ServiceConfig{
		Cities:    &stubCitySearcher{},
		Addresses: &stubAddressSearcher{},
		Logger:    logger,
	})

	flagService := featureflags.NewService(featureflags.ServiceConfig{
		Repository:   featureflags.NewInMemoryRepository(),
		Logger:       logger,
		DefaultFlags: featureflags.DefaultFlags(),
	})

	router := api.NewRouter(api.RouterConfig{
		Version:            "test",
		BuildTime:          "2026-01-01T00:00:00Z",
		Logger:             logger,
		ShareBaseURL:       "https://wanderplan.app",
		AuthService:        authService,
		TripService:        tripService,
		WeatherService:     weatherService,
		AssistantService:   assistantService,
		PlacesService:      placesService,
		FeatureFlagService: flagService,
	})

	return &testEnv{router: router, flags: flagService}
}

// do executes a request against the router, optionally authenticated.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// register creates an account and returns its access token.
func (e *testEnv) register(t *testing.T, email string) string {
	t.Helper()

	w := e.do(t, http.MethodPost, "/v1/auth/register", "", auth.RegisterRequest{
		Email:    email,
		Password: "correct-horse-battery",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var tokens auth.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokens))
	return tokens.AccessToken
}

// createTrip creates a Lisbon trip and returns its ID.
func (e *testEnv) createTrip(t *testing.T, token string) string {
	t.Helper()

	start := time.Now().AddDate(0, 0, 3).Format("2006-01-02")
	end := time.Now().AddDate(0, 0, 8).Format("2006-01-02")

	w := e.do(t, http.MethodPost, "/v1/trips", token, models.TripCreateRequest{
		Name:        "Lisbon in May",
		Destination: models.Destination{Name: "Lisbon", Lat: 38.7223, Lon: -9.1393},
		StartDate:   start,
		EndDate:     end,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotEmpty(t, w.Header().Get("Location"))

	var created models.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	return created.ID
}

func TestRouter_HealthCheck(t *testing.T) {
	env := newTestEnv()

	w := env.do(t, http.MethodGet, "/v1/ops/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var health models.Health
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, models.HealthStatusOK, health.Status)
}

func TestRouter_ReadinessCheck(t *testing.T) {
	env := newTestEnv()

	w := env.do(t, http.MethodGet, "/v1/ops/ready", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_SystemStatus_RequiresAuth(t *testing.T) {
	env := newTestEnv()

	w := env.do(t, http.MethodGet, "/v1/ops/status", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := env.register(t, "ops@example.com")
	w = env.do(t, http.MethodGet, "/v1/ops/status", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RegisterLoginMe(t *testing.T) {
	env := newTestEnv()
	env.register(t, "maya@example.com")

	w := env.do(t, http.MethodPost, "/v1/auth/login", "", auth.LoginRequest{
		Email:    "maya@example.com",
		Password: "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var tokens auth.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokens))

	w = env.do(t, http.MethodGet, "/v1/auth/me", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var user auth.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "maya@example.com", user.Email)
	assert.NotContains(t, w.Body.String(), "passwordHash")
}

func TestRouter_TripLifecycle(t *testing.T) {
	env := newTestEnv()
	token := env.register(t, "maya@example.com")

	tripID := env.createTrip(t, token)

	w := env.do(t, http.MethodGet, "/v1/trips/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page models.PagedTrips
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Lisbon in May", page.Items[0].Name)
	assert.False(t, page.Items[0].Shared)

	newName := "Lisbon with friends"
	w = env.do(t, http.MethodPatch, "/v1/trips/"+tripID, token, models.TripUpdateRequest{Name: &newName})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, newName, updated.Name)

	w = env.do(t, http.MethodDelete, "/v1/trips/"+tripID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/v1/trips/"+tripID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_Trips_OwnershipIsolated(t *testing.T) {
	env := newTestEnv()
	owner := env.register(t, "maya@example.com")
	other := env.register(t, "sam@example.com")

	tripID := env.createTrip(t, owner)

	w := env.do(t, http.MethodGet, "/v1/trips/"+tripID, other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_ItineraryItems(t *testing.T) {
	env := newTestEnv()
	token := env.register(t, "maya@example.com")
	tripID := env.createTrip(t, token)

	date := time.Now().AddDate(0, 0, 4).Format("2006-01-02")
	w := env.do(t, http.MethodPost, "/v1/trips/"+tripID+"/items", token, models.ItineraryItemsRequest{
		Items: []models.ItineraryItemInput{
			{
				Type:      "restaurant",
				Date:      date,
				StartTime: "20:00",
				Title:     "Dinner at Ramiro",
				Details:   json.RawMessage(`{"restaurantName": "Cervejaria Ramiro", "cuisine": "seafood"}`),
			},
			{
				Type:      "activity",
				Date:      date,
				StartTime: "10:00",
				Title:     "Tram 28 ride",
			},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/v1/trips/"+tripID+"/items", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list models.ItineraryItems
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 2)

	// Schedule order, not insertion order
	assert.Equal(t, "Tram 28 ride", list.Items[0].Title)
	assert.Equal(t, "Dinner at Ramiro", list.Items[1].Title)
	assert.Contains(t, string(list.Items[1].Details), "Cervejaria Ramiro")

	itemID := list.Items[0].ID
	w = env.do(t, http.MethodDelete, fmt.Sprintf("/v1/trips/%s/items/%s", tripID, itemID), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRouter_ItineraryItems_ValidationError(t *testing.T) {
	env := newTestEnv()
	token := env.register(t, "maya@example.com")
	tripID := env.createTrip(t, token)

	w := env.do(t, http.MethodPost, "/v1/trips/"+tripID+"/items", token, models.ItineraryItemsRequest{
		Items: []models.ItineraryItemInput{
			{Type: "spaceship", Date: "2026-05-05", Title: "Launch"},
		},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, models.ProblemTypeValidation, problem.Type)
	assert.NotEmpty(t, problem.TraceID)
}

func TestRouter_ShareFlow(t *testing.T) {
	env := newTestEnv()
	token := env.register(t, "maya@example.com")
	tripID := env.createTrip(t, token)

	w := env.do(t, http.MethodPost, "/v1/trips/"+tripID+"/share", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var share models.ShareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &share))
	require.NotEmpty(t, share.Token)
	assert.Contains(t, share.URL, share.Token)

	// Public view needs no auth
	w = env.do(t, http.MethodGet, "/v1/shared/"+share.Token, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var shared models.SharedTrip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shared))
	assert.Equal(t, "Lisbon in May", shared.Trip.Name)
	assert.NotContains(t, w.Body.String(), "userID")

	// Revoke kills the link
	w = env.do(t, http.MethodDelete, "/v1/trips/"+tripID+"/share", token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/v1/shared/"+share.Token, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_ShareFlow_DisabledByFlag(t *testing.T) {
	env := newTestEnv()
	token := env.register(t, "maya@example.com")
	tripID := env.createTrip(t, token)

	require.NoError(t, env.flags.SetFlag(context.Background(), &featureflags.Flag{
		Key:       featureflags.FlagDisableTripSharing,
		Value:     true,
		UpdatedAt: time.Now(),
	}))

	w := env.do(t, http.MethodPost, "/v1/trips/"+tripID+"/share", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_TripWeather(t *testing.T) {
	env := newTestEnv()
	token := env.register(t, "maya@example.com")
	tripID := env.createTrip(t, token)

	w := env.do(t, http.MethodGet, "/v1/trips/"+tripID+"/weather", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var report models.TripWeatherResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Len(t, report.Days, 6)
	assert.Equal(t, "SUN", report.Days[0].Glyph)
	assert.False(t, report.Historical)
}

func TestRouter_TripWeather_CachedOnlyFlag(t *testing.T) {
	env := newTestEnv()
	token := env.register(t, "maya@example.com")
	tripID := env.createTrip(t, token)

	require.NoError(t, env.flags.SetFlag(context.Background(), &featureflags.Flag{
		Key:       featureflags.FlagCachedOnlyWeather,
		Value:     true,
		UpdatedAt: time.Now(),
	}))

	// Nothing cached yet, so the cached-only path degrades
	w := env.do(t, http.MethodGet, "/v1/trips/"+tripID+"/weather", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_AssistantRun(t *testing.T) {
	env := newTestEnv()
	token := env.register(t, "maya@example.com")
	tripID := env.createTrip(t, token)

	w := env.do(t, http.MethodPost, "/v1/trips/"+tripID+"/assistant", token, models.AssistantRunRequest{
		Mode: "suggest",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result models.AssistantRunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Items, 1)
	require.Len(t, result.Preview, 1)
	assert.Equal(t, "Castelo de São Jorge", result.Items[0].Title)
	assert.Empty(t, result.Persisted)
}

func TestRouter_AssistantRun_InvalidMode(t *testing.T) {
	env := newTestEnv()
	token := env.register(t, "maya@example.com")
	tripID := env.createTrip(t, token)

	w := env.do(t, http.MethodPost, "/v1/trips/"+tripID+"/assistant", token, models.AssistantRunRequest{
		Mode: "teleport",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_AssistantRun_DisabledByFlag(t *testing.T) {
	env := newTestEnv()
	token := env.register(t, "maya@example.com")
	tripID := env.createTrip(t, token)

	require.NoError(t, env.flags.SetFlag(context.Background(), &featureflags.Flag{
		Key:       featureflags.FlagDisableAssistant,
		Value:     true,
		UpdatedAt: time.Now(),
	}))

	w := env.do(t, http.MethodPost, "/v1/trips/"+tripID+"/assistant", token, models.AssistantRunRequest{
		Mode: "suggest",
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_PlacesSearch(t *testing.T) {
	env := newTestEnv()

	w := env.do(t, http.MethodGet, "/v1/places/cities?q=Lisbon", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cities models.CitiesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cities))
	require.Len(t, cities.Results, 1)
	assert.Equal(t, "PT", cities.Results[0].CountryCode)

	w = env.do(t, http.MethodGet, "/v1/places/addresses?q=Rua+Augusta", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var addresses models.AddressesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &addresses))
	require.Len(t, addresses.Results, 1)
}

func TestRouter_PlacesSearch_EmptyQuery(t *testing.T) {
	env := newTestEnv()

	w := env.do(t, http.MethodGet, "/v1/places/cities", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_FeatureFlags_Admin(t *testing.T) {
	env := newTestEnv()
	token := env.register(t, "admin@example.com")

	w := env.do(t, http.MethodGet, "/v1/admin/feature-flags/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list featureflags.FlagList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.NotEmpty(t, list.Items)

	w = env.do(t, http.MethodPut, "/v1/admin/feature-flags/", token, featureflags.FlagUpdateRequest{
		Updates: []featureflags.FlagUpdate{
			{Key: featureflags.FlagAssistantModel, Value: "llama-3.1-8b-instant"},
		},
		Reason: "canary",
	})
	assert.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, "llama-3.1-8b-instant", env.flags.AssistantModelOverride(context.Background()))
}

func TestRouter_RequestID_Preserved(t *testing.T) {
	env := newTestEnv()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	req.Header.Set("X-Request-Id", "custom_request_id")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, "custom_request_id", w.Header().Get("X-Request-Id"))
}

func TestRouter_NotFound(t *testing.T) {
	env := newTestEnv()

	w := env.do(t, http.MethodGet, "/v1/nonexistent", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
