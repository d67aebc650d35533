package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aussiebroadwan/inkwell/internal/blog/app"
	"github.com/aussiebroadwan/inkwell/internal/blog/service"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) (string, app.Config) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "inkwell.yaml")
	body := fmt.Sprintf("database_file: %s\npepper_file: %s\n",
		filepath.Join(dir, "blog.db"),
		filepath.Join(dir, "pepper"),
	)
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))

	cfg, err := app.LoadConfigFile(path)
	require.NoError(t, err)
	return path, cfg
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrate(t *testing.T) {
	path, _ := writeConfig(t)

	out, err := run(t, "", "migrate", "--config", path)
	require.NoError(t, err)
	require.Contains(t, out, "migrations applied (sqlite), users: 0")

	// Idempotent.
	_, err = run(t, "", "migrate", "--config", path)
	require.NoError(t, err)
}

func TestUseradd(t *testing.T) {
	path, cfg := writeConfig(t)

	out, err := run(t, "Secret1\n", "useradd", "--config", path, "--password-stdin", "alice")
	require.NoError(t, err)
	require.Contains(t, out, "created user alice (id 1), users: 1")

	db, err := app.OpenStore(cfg)
	require.NoError(t, err)
	defer db.Close()

	users := &service.UserService{Store: db}
	user, err := users.Authenticate(context.Background(), "alice", "Secret1")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)

	t.Run("duplicate", func(t *testing.T) {
		_, err := run(t, "Secret1\n", "useradd", "--config", path, "--password-stdin", "alice")
		require.EqualError(t, err, "username already exists")
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := run(t, "weak\n", "useradd", "--config", path, "--password-stdin", "bob")
		require.EqualError(t, err, service.PasswordPolicyMessage)
	})
}

func TestUseraddPrompt(t *testing.T) {
	path, _ := writeConfig(t)

	answers := [][]byte{[]byte("Secret1"), []byte("Secret2")}
	orig := readPassword
	readPassword = func(int) ([]byte, error) {
		next := answers[0]
		answers = answers[1:]
		return next, nil
	}
	t.Cleanup(func() { readPassword = orig })

	_, err := run(t, "", "useradd", "--config", path, "carol")
	require.EqualError(t, err, "passwords do not match")
}

func TestUnknownConfigFile(t *testing.T) {
	_, err := run(t, "", "migrate", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
