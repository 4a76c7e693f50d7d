package errors_test

import (
	"fmt"
	"testing"

	"codeberg.org/mutker/screenwell/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	f := errors.New()

	assert.Equal(t, "Monitor is not calibrated", f.New(errors.ErrUncalibrated).Error())
	assert.Equal(t, "custom", f.WithMessage(errors.ErrUncalibrated, "custom").Error())
	assert.Equal(t, "Invalid argument provided: 42", f.WithData(errors.ErrInvalidArgument, 42).Error())
	assert.Equal(t, "unregistered_code", f.New(errors.ErrorCode("unregistered_code")).Error())
}

func TestDataAndCause(t *testing.T) {
	cause := fmt.Errorf("no such file")
	err := errors.New().Wrap(errors.ErrMissingAsset, cause).WithData("face.png")

	assert.Equal(t, "Calibration image not found: face.png: no such file", err.Error())
	assert.Equal(t, "face.png", err.Data())
	assert.True(t, errors.Is(err, cause))
}

func TestCopiesAreIndependent(t *testing.T) {
	base := errors.New().New(errors.ErrTimeout)
	named := base.WithMessage("camera timed out")

	assert.Equal(t, "Operation timed out", base.Error())
	assert.Equal(t, "camera timed out", named.Error())
	assert.Nil(t, base.Data())
}

func TestWrapUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := errors.New().Wrap(errors.ErrOperationFailed, cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.Equal(t, "Operation failed: disk full", err.Error())
}

func TestHasCode(t *testing.T) {
	f := errors.New()
	inner := f.New(errors.ErrMissingAsset)
	outer := f.Wrap(errors.ErrInitFailed, inner)

	assert.True(t, errors.HasCode(outer, errors.ErrInitFailed))
	assert.True(t, errors.HasCode(outer, errors.ErrMissingAsset))
	assert.False(t, errors.HasCode(outer, errors.ErrTimeout))
	assert.False(t, errors.HasCode(fmt.Errorf("plain"), errors.ErrTimeout))
	assert.False(t, errors.HasCode(nil, errors.ErrTimeout))
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("starting: %w", errors.New().New(errors.ErrUncalibrated))

	assert.Equal(t, errors.ErrUncalibrated, errors.CodeOf(wrapped))
	assert.Equal(t, errors.ErrorCode(""), errors.CodeOf(fmt.Errorf("plain")))
}
