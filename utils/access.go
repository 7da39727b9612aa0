package utils

import (
	"errors"
	"strings"

	"lms/database"
	"lms/models"

	"gorm.io/gorm"
)

var ErrNotEnrolled = errors.New("not enrolled")

// IsDuplicateKey reports a unique index violation on any of the supported drivers
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}

// FindCourse loads a live course
func FindCourse(id uint) (*models.Course, error) {
	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", id, false).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// CanManageCourse is true for admins and for the instructor who owns the course
func CanManageCourse(role string, userID uint, course *models.Course) bool {
	if role == models.RoleAdmin {
		return true
	}
	return role == models.RoleInstructor && course.InstructorID == userID
}

// CanViewCourse is true for managers and for anyone when the course is published
func CanViewCourse(role string, userID uint, course *models.Course) bool {
	return course.Status == models.CoursePublished || CanManageCourse(role, userID, course)
}

// ActiveEnrollment returns the user's ACTIVE or COMPLETED enrollment in the course
func ActiveEnrollment(userID, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND is_deleted = ? AND status IN ?", userID, courseID, false,
			[]string{models.EnrollmentActive, models.EnrollmentCompleted}).
		First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotEnrolled
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// EnrolledStudentIDs lists users holding an ACTIVE enrollment in the course
func EnrolledStudentIDs(courseID uint) []uint {
	var ids []uint
	database.Database.Db.Model(&models.Enrollment{}).
		Where("course_id = ? AND is_deleted = ? AND status = ?", courseID, false, models.EnrollmentActive).
		Pluck("user_id", &ids)
	return ids
}
