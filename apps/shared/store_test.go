package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sathishnaik786/Employee-Management-System-sub000/core"
	testutil "github.com/Sathishnaik786/Employee-Management-System-sub000/tests"
)

func TestOpenStore(t *testing.T) {
	logger := testutil.NewLogger()

	conf := core.NewTestConfig()
	conf.Store = core.StoreMemory
	store, err := OpenStore(conf, logger)
	require.NoError(t, err)
	assert.NotNil(t, store.Repo)
	assert.NotNil(t, store.Trans)
	assert.NoError(t, store.Close())
	assert.Equal(t, []string{"using the in-memory store: entities are lost on restart"}, logger.Logged("warn"))

	conf.Store = core.StoreBackend
	store, err = OpenStore(conf, logger)
	require.NoError(t, err)
	assert.Same(t, store.Repo, store.Trans)

	conf.Store = "cassandra"
	_, err = OpenStore(conf, logger)
	assert.EqualError(t, err, `unknown store "cassandra"`)
}
