package apperrors_test

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"

	"markethub/internal/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestKindsAndHTTPCodes(t *testing.T) {
	tests := []struct {
		err  *apperrors.Error
		kind apperrors.Kind
		code int
	}{
		{apperrors.NotFound("product not found"), apperrors.KindNotFound, http.StatusNotFound},
		{apperrors.InvalidArgument("bad id %q", "x"), apperrors.KindInvalidArgument, http.StatusBadRequest},
		{apperrors.ConstraintViolation(nil, "duplicate store"), apperrors.KindConstraintViolation, http.StatusConflict},
		{apperrors.StoreUnavailable(errors.New("down")), apperrors.KindStoreUnavailable, http.StatusServiceUnavailable},
		{apperrors.Unauthorized("invalid credentials"), apperrors.KindUnauthorized, http.StatusUnauthorized},
		{apperrors.Forbidden("admins only"), apperrors.KindForbidden, http.StatusForbidden},
		{apperrors.Internal(errors.New("boom"), "failed"), apperrors.KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind())
			assert.Equal(t, tt.code, tt.err.HTTPCode())
			assert.True(t, apperrors.Is(fmt.Errorf("wrapped: %w", tt.err), tt.kind))
		})
	}
}

func TestInvalidArgumentFormatsMessage(t *testing.T) {
	err := apperrors.InvalidArgument("invalid product id %q", "abc")
	assert.Equal(t, `invalid product id "abc"`, err.Message())
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(errors.New("plain")))
	assert.False(t, apperrors.Is(nil, apperrors.KindInternal))
}

func TestFromStore(t *testing.T) {
	assert.NoError(t, apperrors.FromStore(nil, "x"))

	notFound := apperrors.FromStore(gorm.ErrRecordNotFound, "product not found")
	assert.True(t, apperrors.Is(notFound, apperrors.KindNotFound))

	dup := apperrors.FromStore(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), "store exists")
	assert.True(t, apperrors.Is(dup, apperrors.KindConstraintViolation))
	assert.ErrorIs(t, dup, gorm.ErrDuplicatedKey)

	down := apperrors.FromStore(&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, "query")
	assert.True(t, apperrors.Is(down, apperrors.KindStoreUnavailable))

	badConn := apperrors.FromStore(driver.ErrBadConn, "query")
	assert.True(t, apperrors.Is(badConn, apperrors.KindStoreUnavailable))

	already := apperrors.InvalidArgument("bad")
	assert.Same(t, already, apperrors.FromStore(already, "ignored"))

	other := apperrors.FromStore(errors.New("syntax error"), "query failed")
	assert.True(t, apperrors.Is(other, apperrors.KindInternal))
}

func TestFromStoreKeepsMessageVerbatim(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"not found", gorm.ErrRecordNotFound},
		{"constraint", gorm.ErrDuplicatedKey},
		{"internal", errors.New("syntax error")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var appErr *apperrors.Error
			require.ErrorAs(t, apperrors.FromStore(tt.err, "discount of 100%d off"), &appErr)
			assert.Equal(t, "discount of 100%d off", appErr.Message())
		})
	}
}
