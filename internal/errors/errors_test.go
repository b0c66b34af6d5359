package errors_test

import (
	"errors"
	"net/http"
	"testing"

	tferrs "tubefeed/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestEConstructor(t *testing.T) {
	got := tferrs.E(
		"something went wrong",
		tferrs.Detail{Field: "name", Error: "was bad"},
		http.StatusBadRequest,
	)
	want := &tferrs.Error{
		Err: errors.New("something went wrong"),
		Details: []tferrs.Detail{
			{Field: "name", Error: "was bad"},
		},
		Status: http.StatusBadRequest,
	}

	assert.Equal(t, want, got)
}
