package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitCSV("a,b"))
	assert.Equal(t, []string{"a", "b"}, splitCSV(" a , b ,"))
	assert.Empty(t, splitCSV(""))
}

func TestGetenvDefault(t *testing.T) {
	t.Setenv("SHOPNELLORE_TEST_KEY", "")
	assert.Equal(t, "fallback", getenv("SHOPNELLORE_TEST_KEY", "fallback"))

	t.Setenv("SHOPNELLORE_TEST_KEY", "set")
	assert.Equal(t, "set", getenv("SHOPNELLORE_TEST_KEY", "fallback"))
}
