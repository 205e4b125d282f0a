package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserRole_IsValid(t *testing.T) {
	assert.True(t, RoleStudent.IsValid())
	assert.True(t, RoleInstructor.IsValid())
	assert.False(t, UserRole("admin").IsValid())
	assert.False(t, UserRole("").IsValid())
}
