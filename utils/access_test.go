package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, IsDuplicateKey(nil))
	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKey(fmt.Errorf("create: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, IsDuplicateKey(errors.New("UNIQUE constraint failed: enrollments.user_id, enrollments.course_id")))
	assert.True(t, IsDuplicateKey(errors.New("Error 1062 (23000): Duplicate entry '3-4' for key 'idx_enrollment_user_course'")))
	assert.False(t, IsDuplicateKey(gorm.ErrRecordNotFound))
}
