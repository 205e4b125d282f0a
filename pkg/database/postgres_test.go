package database

import (
	"testing"

	"course-platform/pkg/utils"

	"github.com/stretchr/testify/assert"
)

func TestConnString(t *testing.T) {
	got := ConnString(utils.DatabaseConfig{
		Host:     "db",
		Port:     "5433",
		Name:     "lms",
		User:     "app",
		Password: "p@ss word",
		SSLMode:  "disable",
	})

	assert.Equal(t, "postgres://app:p%40ss%20word@db:5433/lms?sslmode=disable", got)
}
