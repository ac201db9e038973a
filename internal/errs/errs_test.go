package errs_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grvbrk/vidhook_server/internal/errs"
)

func TestErrorCodeUnwraps(t *testing.T) {
	err := fmt.Errorf("create like: %w", errs.Errorf(errs.ECONFLICT, "Video already liked"))

	assert.Equal(t, errs.ECONFLICT, errs.ErrorCode(err))
	assert.Equal(t, "Video already liked", errs.ErrorMessage(err))
}

func TestForeignErrorsAreInternal(t *testing.T) {
	err := fmt.Errorf("dial tcp: connection refused")

	assert.Equal(t, errs.EINTERNAL, errs.ErrorCode(err))
	assert.Equal(t, "Internal Server Error", errs.ErrorMessage(err))
	assert.Empty(t, errs.ErrorCode(nil))
}
