package analyzer

import (
	"strings"

	"github.com/mihula/WebCommentsAnalysis/pkg/models"
)

// AnnotationMarker starts every status comment
const AnnotationMarker = "//WEB:"

// FindAnnotation returns the first comment whose trimmed text starts with the marker
func FindAnnotation(comments []string) (string, bool) {
	for _, comment := range comments {
		trimmed := strings.TrimSpace(comment)
		if strings.HasPrefix(trimmed, AnnotationMarker) {
			return trimmed, true
		}
	}
	return "", false
}

// ExtractAnnotation splits a marker comment into status and sub-status.
// Everything after the first ':' of the payload is the sub-status, colons included.
func ExtractAnnotation(comment string) models.Annotation {
	parts := strings.Split(strings.TrimPrefix(comment, AnnotationMarker), ":")

	annotation := models.Annotation{Status: parts[0]}
	if len(parts) > 1 {
		annotation.SubStatus = models.StringPtr(strings.Join(parts[1:], ":"))
	}
	return annotation
}

// annotate returns status and sub-status pointers for a declaration's leading comments
func annotate(comments []string) (*string, *string) {
	comment, ok := FindAnnotation(comments)
	if !ok {
		return nil, nil
	}
	annotation := ExtractAnnotation(comment)
	return models.StringPtr(annotation.Status), annotation.SubStatus
}
