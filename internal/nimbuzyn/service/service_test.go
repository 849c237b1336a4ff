package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/domain"
	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/store"
	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/store/drivers/sqlite"
	"github.com/nimbuzyn/nimbuzyn/pkg/cryptox"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "nimbuzyn-service-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

// registerUser creates an account through the real registration path so the
// password hash and public id are authentic.
func registerUser(t *testing.T, svc *UserService, username, password string) domain.User {
	t.Helper()

	user, err := svc.Register(context.Background(), username, "", password)
	require.NoError(t, err)
	return user
}

// addContact wires owner -> target through the contact service.
func addContact(t *testing.T, svc *ContactService, owner, target domain.User) {
	t.Helper()

	_, err := svc.AddContact(context.Background(), owner.ID, target.PublicID, domain.ClassificationFriend)
	require.NoError(t, err)
}
