package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/Domenick1991/skybook/config"
	"github.com/Domenick1991/skybook/internal/app"
	"github.com/Domenick1991/skybook/internal/backend"
	"github.com/Domenick1991/skybook/internal/identity"
	"github.com/stretchr/testify/assert"
)

func newShell(t *testing.T) (*shell, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Client.SearchLatencyMillis = 0
	cfg.Client.HealthIntervalSeconds = 3600
	cfg.Client.ProbeTimeoutSeconds = 1

	a := app.New(cfg.Client, app.Deps{
		Backend:  backend.NewClient("http://127.0.0.1:1"),
		Provider: identity.NewLocalProvider(cfg.Identity),
	})
	a.Start(context.Background())
	t.Cleanup(a.Close)

	out := &bytes.Buffer{}
	return &shell{app: a, out: out}, out
}

func TestShell_Quit(t *testing.T) {
	sh, _ := newShell(t)
	assert.True(t, sh.run(context.Background(), "quit"))
	assert.False(t, sh.run(context.Background(), "   "))
}

func TestShell_UnknownCommand(t *testing.T) {
	sh, out := newShell(t)
	sh.run(context.Background(), "fly")
	assert.Contains(t, out.String(), `unknown command "fly"`)
}

func TestShell_SearchPrintsResults(t *testing.T) {
	sh, out := newShell(t)
	sh.run(context.Background(), "search london paris 2023-12-02")
	assert.Contains(t, out.String(), "BA789")
	assert.NotContains(t, out.String(), "SW101")
	assert.Contains(t, out.String(), "* Found 1 flights")
}

func TestShell_BookWhileSignedOut(t *testing.T) {
	sh, out := newShell(t)
	sh.run(context.Background(), "book SW101")
	assert.Contains(t, out.String(), "Please log in to continue.")
	assert.Contains(t, out.String(), "use 'login'")
}

func TestShell_LoginAndView(t *testing.T) {
	sh, out := newShell(t)
	sh.run(context.Background(), "login")
	assert.Contains(t, out.String(), "Welcome, SkyBook Traveler!")

	out.Reset()
	sh.run(context.Background(), "view")
	assert.Contains(t, out.String(), "signed in: SkyBook Traveler <traveler@skybook.dev>")
}

func TestCriteria(t *testing.T) {
	c := criteria([]string{"_", "London", "2023-12-01", "3"})
	assert.Equal(t, "", c.From)
	assert.Equal(t, "London", c.To)
	assert.Equal(t, "2023-12-01", c.Date)
	assert.Equal(t, 3, c.Passengers)
	assert.Equal(t, "", c.Class)

	c = criteria([]string{"new york", "_", "_", "2", "Business"})
	assert.Equal(t, "Business", c.Class)
	assert.Equal(t, 2, c.Passengers)

	assert.Equal(t, 1, criteria(nil).Passengers)
}
