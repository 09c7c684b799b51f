package partner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisale/manager/internal/domain/shared"
)

var testScope = shared.Scope{OwnerID: 1, WorkspaceID: 1}

func TestNewParty(t *testing.T) {
	party, err := NewParty(testScope, PartyKindCustomer, "  wang  ", "pays late")
	require.NoError(t, err)

	assert.Equal(t, PartyKindCustomer, party.Kind)
	assert.Equal(t, "wang", party.Name)
	assert.Equal(t, "pays late", party.Note)
	assert.Equal(t, testScope.OwnerID, party.OwnerID)

	_, err = NewParty(testScope, PartyKind("ghost"), "wang", "")
	assert.Equal(t, "INVALID_INPUT", shared.CodeOf(err))

	_, err = NewParty(testScope, PartyKindSupplier, "   ", "")
	assert.Equal(t, "INVALID_INPUT", shared.CodeOf(err))
}

func TestParty_Rename(t *testing.T) {
	party, err := NewParty(testScope, PartyKindEmployee, "li", "")
	require.NoError(t, err)

	require.NoError(t, party.Rename("zhang"))
	assert.Equal(t, "zhang", party.Name)

	assert.Equal(t, "INVALID_INPUT", shared.CodeOf(party.Rename("")))
	assert.Equal(t, "zhang", party.Name)
}
