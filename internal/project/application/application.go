// Package application provides tester applications against projects.
//
// An application id is the composite "<project>-<applicant>"; the applicant
// id never contains a dash, so the composite splits unambiguously at the
// last one. Uniqueness of the composite id in the store is the sole
// duplicate-application guard.
package application

import (
	"strings"

	"github.com/greenroomhq/greenroom/internal/docstore"
	apperrors "github.com/greenroomhq/greenroom/internal/errors"
)

var (
	// ErrEmptyProjectID indicates a missing project reference.
	ErrEmptyProjectID = apperrors.New(apperrors.CodeValidation, "project id is required")
	// ErrEmptyAuthor indicates a missing applicant identity.
	ErrEmptyAuthor = apperrors.New(apperrors.CodeValidation, "applicant id is required")
	// ErrMalformedID indicates a composite id without a dash separator.
	ErrMalformedID = apperrors.New(apperrors.CodeValidation, "malformed application id")
)

// Application represents one actor's request to test a specific project.
type Application struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`
	AuthorID  string `json:"authorId"`
	Bio       string `json:"bio"`
	Accepted  bool   `json:"accepted"`

	// Version is the store revision observed at read time; it is managed by
	// the storage layer and never serialized into the document body.
	Version docstore.Version `json:"-"`
}

// CreateApplicationInput describes the metadata needed to create an application.
type CreateApplicationInput struct {
	ProjectID string
	AuthorID  string
	Bio       string
}

// CreateApplication validates input and builds a new pending application.
func CreateApplication(input CreateApplicationInput) (Application, error) {
	input.ProjectID = strings.TrimSpace(input.ProjectID)
	if input.ProjectID == "" {
		return Application{}, ErrEmptyProjectID
	}
	input.AuthorID = strings.TrimSpace(input.AuthorID)
	if input.AuthorID == "" {
		return Application{}, ErrEmptyAuthor
	}
	return Application{
		ID:        CompositeID(input.ProjectID, input.AuthorID),
		ProjectID: input.ProjectID,
		AuthorID:  input.AuthorID,
		Bio:       strings.TrimSpace(input.Bio),
		Accepted:  false,
	}, nil
}

// CompositeID derives the application id for a project and applicant pair.
func CompositeID(projectID, authorID string) string {
	return projectID + "-" + authorID
}

// SplitID recovers the project and applicant ids from a composite id.
func SplitID(id string) (projectID, authorID string, err error) {
	idx := strings.LastIndex(id, "-")
	if idx <= 0 || idx == len(id)-1 {
		return "", "", ErrMalformedID
	}
	return id[:idx], id[idx+1:], nil
}
