package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clubhub-backend/internal/application/seed"
	"clubhub-backend/internal/config"
	"clubhub-backend/internal/infrastructure/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoPassword = "d3mo!pass"

func setupApp(t *testing.T) (*fiber.App, *seed.Result) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	app, db, rdb, err := CreateApp(&config.Config{
		Env:            "test",
		DatabaseDriver: database.DriverSQLite,
		DatabaseURL:    ":memory:",
		RedisURL:       "redis://" + mr.Addr(),
		HealthAdminKey: "k",
		SessionSecret:  "router-test-secret",
	})
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })
	require.NoError(t, database.AutoMigrate(db))
	res, err := seed.Run(context.Background(), db, seed.Options{AdminPassword: demoPassword, Demo: true})
	require.NoError(t, err)
	return app, res
}

type client struct {
	t      *testing.T
	app    *fiber.App
	cookie *http.Cookie
}

func (c *client) do(method, path string, body interface{}) (int, map[string]interface{}) {
	c.t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	for _, ck := range resp.Cookies() {
		if ck.Name == "clubhub.sid" {
			c.cookie = ck
		}
	}
	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func login(t *testing.T, app *fiber.App, username string) *client {
	c := &client{t: t, app: app}
	status, out := c.do("POST", "/api/v1/auth/login", map[string]string{"login": username, "password": demoPassword})
	require.Equal(t, fiber.StatusOK, status, out)
	return c
}

func data(out map[string]interface{}) map[string]interface{} {
	d, _ := out["data"].(map[string]interface{})
	return d
}

func TestTransferLifecycleOverHTTP(t *testing.T) {
	app, res := setupApp(t)
	home, away := res.Clubs[0], res.Clubs[1]

	anon := &client{t: t, app: app}
	status, _ := anon.do("GET", "/api/v1/transfers/market", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	player := login(t, app, "pat.keane")
	status, out := player.do("GET", "/api/v1/auth/me", nil)
	require.Equal(t, fiber.StatusOK, status)
	me := data(out)["user"].(map[string]interface{})
	assert.Equal(t, res.Players[0].PlayerID.String(), me["player_id"])

	status, out = player.do("POST", "/api/v1/transfers/submit-transfer", map[string]string{"source_club_id": home.ClubID.String()})
	require.Equal(t, fiber.StatusCreated, status, out)
	id := data(out)["transfer_id"].(string)

	homeManager := login(t, app, "harbour.manager")
	status, out = homeManager.do("POST", "/api/v1/transfers/approve-transfer", map[string]interface{}{"transfer_id": id, "release_fee": 1500000})
	require.Equal(t, fiber.StatusOK, status, out)
	assert.Equal(t, "IN_MARKET", data(out)["status"])

	awayManager := login(t, app, "uplands.manager")
	status, out = awayManager.do("GET", "/api/v1/transfers/market", nil)
	require.Equal(t, fiber.StatusOK, status)
	listings := out["data"].([]interface{})
	require.Len(t, listings, 1)
	assert.Equal(t, true, listings[0].(map[string]interface{})["can_purchase"])

	status, out = awayManager.do("POST", "/api/v1/transfers/purchase-transfer", map[string]string{"transfer_id": id})
	require.Equal(t, fiber.StatusOK, status, out)
	assert.Equal(t, away.ClubID.String(), data(out)["destination_club_id"])

	status, out = homeManager.do("POST", "/api/v1/transfers/cancel-transfer", map[string]string{"transfer_id": id})
	assert.Equal(t, fiber.StatusConflict, status, out)

	admin := login(t, app, seed.AdminUsername)
	status, out = admin.do("GET", "/api/v1/transfers/all-transfers?status=COMPLETED", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, out["data"].([]interface{}), 1)

	status, out = admin.do("GET", "/api/v1/players/get-player/"+res.Players[0].PlayerID.String(), nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, away.ClubID.String(), data(out)["club_id"])

	status, out = admin.do("GET", "/api/v1/transfers/history/"+id, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, out["data"].([]interface{}), 3)

	status, out = anon.do("GET", "/health/json", nil)
	require.Equal(t, fiber.StatusOK, status, out)
	assert.Equal(t, float64(1), out["transfers"].(map[string]interface{})["COMPLETED"])
}

func TestDirectoryPermissions(t *testing.T) {
	app, _ := setupApp(t)

	manager := login(t, app, "harbour.manager")
	status, _ := manager.do("POST", "/api/v1/clubs/create-club", map[string]string{"club_name": "Rogue FC"})
	assert.Equal(t, fiber.StatusForbidden, status)
	status, out := manager.do("GET", "/api/v1/clubs/get-all-clubs", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, out["data"].([]interface{}), 2)

	admin := login(t, app, seed.AdminUsername)
	status, _ = admin.do("POST", "/api/v1/clubs/create-club", map[string]string{"club_name": "Rogue FC"})
	assert.Equal(t, fiber.StatusCreated, status)

	status, _ = admin.do("DELETE", "/api/v1/auth/logout", nil)
	require.Equal(t, fiber.StatusOK, status)
	status, _ = admin.do("GET", "/api/v1/auth/me", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestRoleChangeLogsUserOut(t *testing.T) {
	app, res := setupApp(t)

	manager := login(t, app, "harbour.manager")
	_, out := manager.do("GET", "/api/v1/auth/me", nil)
	managerID := data(out)["user"].(map[string]interface{})["user_id"].(string)

	admin := login(t, app, seed.AdminUsername)
	status, out := admin.do("PATCH", "/api/v1/users/update-role", map[string]string{"user_id": managerID, "role": "club_owner"})
	require.Equal(t, fiber.StatusOK, status, out)
	assert.Equal(t, "CLUB_OWNER", data(out)["role"])
	assert.Equal(t, res.Clubs[0].ClubID.String(), data(out)["club_id"])

	status, _ = manager.do("GET", "/api/v1/auth/me", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = admin.do("DELETE", "/api/v1/users/remove-user/"+managerID, nil)
	require.Equal(t, fiber.StatusOK, status)
	again := &client{t: t, app: app}
	status, _ = again.do("POST", "/api/v1/auth/login", map[string]string{"login": "harbour.manager", "password": demoPassword})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestSession_TamperedCookieRejected(t *testing.T) {
	app, _ := setupApp(t)
	c := login(t, app, "admin")
	status, _ := c.do("GET", "/api/v1/auth/me", nil)
	require.Equal(t, fiber.StatusOK, status)

	forged := *c.cookie
	id, _, _ := strings.Cut(strings.TrimPrefix(forged.Value, "s:"), ".")
	forged.Value = "s:" + id + ".bogus"
	c.cookie = &forged
	status, _ = c.do("GET", "/api/v1/auth/me", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}
