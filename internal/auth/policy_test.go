package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_Resolve(t *testing.T) {
	t.Parallel()

	admin := DefaultPolicy().Resolve(&User{Username: "root", Role: RoleAdmin})
	assert.Equal(t, "Here is your super secret admin data!", admin.SecretData)

	regular := DefaultPolicy().Resolve(&User{Username: "alice", Role: RoleDefault})
	assert.Equal(t, "Here is your regular user data!", regular.SecretData)

	unset := DefaultPolicy().Resolve(&User{Username: "legacy"})
	assert.Equal(t, DefaultPolicy().Default, unset)
}

func TestDefaultPolicy_Independent(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()
	p.Admin.SecretData = "changed"
	assert.Equal(t, "Here is your super secret admin data!", DefaultPolicy().Admin.SecretData)
}
