package utils

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// 5 whitespace-separated fields of digits, '*', '/', ',' and '-'
// (minute hour day-of-month month day-of-week).
var cronPattern = regexp.MustCompile(`^\s*([0-9*/,\-]+\s+){4}[0-9*/,\-]+\s*$`)

func IsValidCron(expr string) bool {
	return cronPattern.MatchString(expr)
}

func ProcessValidationErrors(err error) map[string]string {

	validationErrors := err.(validator.ValidationErrors)

	errorResponse := make(map[string]string)

	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}

	return errorResponse
}

func NewTrue() *bool {
	b := true
	return &b
}

func NewFalse() *bool {
	b := false
	return &b
}

func UniqueSlice[T comparable](slice []T) []T {
	seen := make(map[T]bool, len(slice))
	result := make([]T, 0, len(slice))
	for _, v := range slice {
		if !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}
	return result
}
