package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(http.StatusMethodNotAllowed, Status(E("op", MethodNotAllowed, "", nil)))
	assert.Equal(http.StatusBadRequest, Status(E("op", BadRequest, "missing code", nil)))
	assert.Equal(http.StatusInternalServerError, Status(E("op", Upstream, "", errors.New("boom"))))
	assert.Equal(http.StatusInternalServerError, Status(E("op", Configuration, "", nil)))
	assert.Equal(http.StatusInternalServerError, Status(errors.New("plain")))
}

func TestWrappedKind(t *testing.T) {
	assert := assert.New(t)

	cause := errors.New("connection refused")
	err := fmt.Errorf("create file: %w", E("drive.Create", Upstream, "", cause))

	assert.Equal(Upstream, KindOf(err))
	assert.ErrorIs(err, cause)
	assert.True(errors.Is(err, &Error{Kind: Upstream}))
	assert.False(errors.Is(err, &Error{Kind: BadRequest}))
}

func TestErrorMessage(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("boom", E("op", Upstream, "", errors.New("boom")).Error())
	assert.Equal("token exchange failed: boom", E("op", Upstream, "token exchange failed", errors.New("boom")).Error())
	assert.Equal("missing code", E("op", BadRequest, "missing code", nil).Error())
	assert.Equal("method not allowed", E("op", MethodNotAllowed, "", nil).Error())
}
