package sitescrape_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/sitescrape"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := sitescrape.Errorf(sitescrape.EINVALID, "start URL %q is not absolute", "/docs")

	assert.Equal(t, sitescrape.EINVALID, sitescrape.ErrorCode(err))
	assert.Equal(t, "start URL \"/docs\" is not absolute", sitescrape.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, sitescrape.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, sitescrape.ErrorMessage(nil))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("fetch: %w", sitescrape.Errorf(sitescrape.ENOTFOUND, "HTTP 404"))

	assert.Equal(t, sitescrape.ENOTFOUND, sitescrape.ErrorCode(err))
	assert.Equal(t, "HTTP 404", sitescrape.ErrorMessage(err))
}

func TestErrorCode_ForeignErrorIsInternal(t *testing.T) {
	t.Parallel()

	err := errors.New("connection reset")

	assert.Equal(t, sitescrape.EINTERNAL, sitescrape.ErrorCode(err))
	assert.Equal(t, "Internal error.", sitescrape.ErrorMessage(err))
}
