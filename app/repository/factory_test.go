package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ManuelReschke/PosCloud/app/repository"
	"github.com/ManuelReschke/PosCloud/internal/pkg/testutil"
)

func TestFactory_GetRepositoriesIsSingleton(t *testing.T) {
	f := repository.NewFactory(testutil.NewDB(t))

	first := f.GetRepositories()
	second := f.GetRepositories()
	assert.Same(t, first, second)
	assert.NotNil(t, first.Tenant)
	assert.NotNil(t, first.Subscription)
	assert.NotNil(t, first.Billing)
}
