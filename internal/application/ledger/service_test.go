package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agrisale/manager/internal/domain/ledger"
	"github.com/agrisale/manager/internal/domain/shared"
)

func newLocalService(session Session) (*Service, *executorFixture) {
	f := newExecutorFixture()
	resolver := NewStaticScopeResolver(session)
	return NewService(resolver, f.executor, nil, zap.NewNop()), f
}

func TestService_RoutesToLocalBackend(t *testing.T) {
	svc, f := newLocalService(testSession)
	f.seedProduct(t, "potato", "5")

	resp, err := svc.CreateMovement(context.Background(), CreateMovementRequest{
		Kind:        ledger.MovementPurchase,
		ProductName: "potato",
		Quantity:    dec("3"),
	})
	require.NoError(t, err)
	assert.True(t, resp.Quantity.Equal(dec("3")))
	assert.Len(t, f.movements.movements, 1)
}

func TestService_ServerStorageWithoutRemote(t *testing.T) {
	session := testSession
	session.Storage = StorageServer
	svc, _ := newLocalService(session)

	_, err := svc.GetProduct(context.Background(), 1)
	assert.Equal(t, "INVALID_INPUT", shared.CodeOf(err))
}

func TestService_InvalidSessionRejected(t *testing.T) {
	session := testSession
	session.Scope = shared.Scope{}
	svc, _ := newLocalService(session)

	_, err := svc.GetProduct(context.Background(), 1)
	assert.Equal(t, "INVALID_INPUT", shared.CodeOf(err))
}

func TestStaticScopeResolver_Resolve(t *testing.T) {
	resolver := NewStaticScopeResolver(testSession)
	sess, err := resolver.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testSession, sess)
}

func TestSession_Validate(t *testing.T) {
	valid := testSession
	assert.NoError(t, valid.Validate())

	badStorage := testSession
	badStorage.Storage = StorageKind("cloud")
	assert.Equal(t, "INVALID_INPUT", shared.CodeOf(badStorage.Validate()))
}
