// Package project defines the project aggregate: a proposal seeking testers,
// gated by moderator approval and an open/closed flag.
package project

import (
	"regexp"
	"strings"
	"time"

	"github.com/greenroomhq/greenroom/internal/docstore"
	apperrors "github.com/greenroomhq/greenroom/internal/errors"
)

var (
	// ErrInvalidName indicates a project name outside the allowed charset.
	ErrInvalidName = apperrors.New(apperrors.CodeValidation, "project name contains invalid characters")
	// ErrInvalidURL indicates a malformed invite URL.
	ErrInvalidURL = apperrors.New(apperrors.CodeValidation, "invalid invite url was given")
	// ErrEmptyAuthor indicates a missing author identity.
	ErrEmptyAuthor = apperrors.New(apperrors.CodeValidation, "project author is required")
)

var (
	namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	urlPattern  = regexp.MustCompile(`^https?://(www\.)?[-a-zA-Z0-9@:%._\+~#=]{1,256}\.[a-z]{2,6}\b([-a-zA-Z0-9@:%_\+.~#?&/=]*)$`)
)

// ApprovalState records which moderator, if any, approved a project.
type ApprovalState struct {
	ApprovedBy string `json:"approvedBy"`
}

// Approved reports whether a moderator has approved the project.
func (s ApprovalState) Approved() bool {
	return s.ApprovedBy != ""
}

// Project represents one proposal seeking testers.
type Project struct {
	ID            string        `json:"id"`
	URL           string        `json:"url"`
	Description   string        `json:"description"`
	TesterCount   int           `json:"testerCount"`
	AuthorID      string        `json:"authorId"`
	ApprovalState ApprovalState `json:"approvalState"`
	Closed        bool          `json:"closed"`
	CreatedAt     time.Time     `json:"createdAt"`

	// Version is the store revision observed at read time; it is managed by
	// the storage layer and never serialized into the document body.
	Version docstore.Version `json:"-"`
}

// CreateProjectInput describes the metadata needed to create a project.
type CreateProjectInput struct {
	Name        string
	Description string
	URL         string
	AuthorID    string
}

// CreateProject validates input and builds a new unapproved, open project.
func CreateProject(input CreateProjectInput, now func() time.Time) (Project, error) {
	if now == nil {
		now = time.Now
	}

	normalized, err := NormalizeCreateProjectInput(input)
	if err != nil {
		return Project{}, err
	}

	return Project{
		ID:          normalized.Name,
		URL:         normalized.URL,
		Description: normalized.Description,
		TesterCount: 0,
		AuthorID:    normalized.AuthorID,
		Closed:      false,
		CreatedAt:   now().UTC(),
	}, nil
}

// NormalizeCreateProjectInput trims and validates project input metadata.
func NormalizeCreateProjectInput(input CreateProjectInput) (CreateProjectInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if !namePattern.MatchString(input.Name) {
		return CreateProjectInput{}, ErrInvalidName
	}
	input.URL = strings.TrimSpace(input.URL)
	if !urlPattern.MatchString(input.URL) {
		return CreateProjectInput{}, ErrInvalidURL
	}
	input.AuthorID = strings.TrimSpace(input.AuthorID)
	if input.AuthorID == "" {
		return CreateProjectInput{}, ErrEmptyAuthor
	}
	input.Description = strings.TrimSpace(input.Description)
	return input, nil
}
