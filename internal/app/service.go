package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Amorabdelaziz/inovation-traker/internal/auth"
	"github.com/Amorabdelaziz/inovation-traker/internal/authpw"
	"github.com/Amorabdelaziz/inovation-traker/internal/config"
	"github.com/Amorabdelaziz/inovation-traker/internal/rbac"
	"github.com/Amorabdelaziz/inovation-traker/internal/search"
	"github.com/Amorabdelaziz/inovation-traker/internal/store"
	"github.com/Amorabdelaziz/inovation-traker/internal/util"
)

type Session struct {
	Token        string
	RefreshToken string
	UserID       string
	UserName     string
	Role         string
	IsStaff      bool
	JTI          string
	ExpiresAt    time.Time
}

type SubmitIdeaInput struct {
	Title                  string `json:"title"`
	Description            string `json:"description"`
	CategoryID             string `json:"categoryId"`
	NewCategoryName        string `json:"newCategoryName"`
	NewCategoryDescription string `json:"newCategoryDescription"`
}

type CommentInput struct {
	Content         string  `json:"content"`
	ParentCommentID *string `json:"parentCommentId"`
}

const (
	VoteUp   = "upvote"
	VoteDown = "downvote"
)

var statusLabels = map[string]string{
	"pending":     "Pending",
	"approved":    "Approved",
	"rejected":    "Rejected",
	"implemented": "Implemented",
}

type dataStore interface {
	GetUserByID(context.Context, string) (store.User, error)
	EnsureProfile(context.Context, string, string, string) (store.Profile, error)
	SetProfileRole(context.Context, string, string) (bool, error)
	ListUsers(context.Context) ([]store.User, error)
	DeleteUser(context.Context, string) (bool, error)
	RevokeAccessToken(context.Context, string, time.Time) error
	IsAccessTokenRevoked(context.Context, string) (bool, error)
	ListCategories(context.Context) ([]store.Category, error)
	GetCategory(context.Context, string) (store.Category, error)
	CountCategories(context.Context) (int, error)
	ResolveCategory(context.Context, string, string, string) (store.Category, bool, error)
	InsertIdea(context.Context, store.Idea) error
	GetIdea(context.Context, string) (store.Idea, error)
	ListIdeas(context.Context, store.IdeaFilter) ([]store.Idea, error)
	UpdateIdeaContent(context.Context, string, string, string, *string) error
	UpdateIdeaStatus(context.Context, string, string) (bool, error)
	DeleteIdea(context.Context, string) (bool, error)
	CastVote(context.Context, string, string, string, string) (store.VoteOutcome, error)
	GetUserVote(context.Context, string, string) (*store.Vote, error)
	InsertComment(context.Context, store.Comment) error
	GetComment(context.Context, string) (store.Comment, error)
	ListComments(context.Context, string) ([]store.Comment, error)
	Ping(ctx context.Context) error
}

type sessionStore interface {
	SaveRefreshSession(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error
	LookupRefreshSession(ctx context.Context, tokenHash string) (store.User, error)
	RevokeRefreshSession(ctx context.Context, tokenHash string) error
}

type searchService interface {
	Search(q search.Query) search.Response
	IndexIdea(rec search.IdeaRecord)
	DeleteIdea(id string)
	ReindexAll(ctx context.Context)
}

type Service struct {
	cfg      config.Config
	store    dataStore
	sessions sessionStore
	search   searchService
	authpw   *authpw.Service
}

func New(cfg config.Config, dataStore *store.PostgresStore, sessions sessionStore, searchSvc *search.Service, authSvc *authpw.Service) *Service {
	return &Service{
		cfg:      cfg,
		store:    dataStore,
		sessions: sessions,
		search:   searchSvc,
		authpw:   authSvc,
	}
}

// AuthPasswordService exposes the email/password layer to the HTTP handlers.
func (s *Service) AuthPasswordService() *authpw.Service {
	return s.authpw
}

var defaultCategories = []struct {
	Name        string
	Description string
}{
	{"Technology", "Innovative technology solutions and digital transformation"},
	{"Process Improvement", "Ideas to improve business processes and workflows"},
	{"Customer Experience", "Innovations to enhance customer satisfaction and engagement"},
	{"Product Development", "New product ideas and enhancements"},
	{"Sustainability", "Eco-friendly and sustainable innovation ideas"},
	{"Education", "Educational innovations and learning improvements"},
	{"Other", "Other innovative ideas that don't fit specific categories"},
}

// Bootstrap seeds the default categories on an empty database and rebuilds
// the search index.
func (s *Service) Bootstrap(ctx context.Context) error {
	count, err := s.store.CountCategories(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		for _, seed := range defaultCategories {
			if _, _, err := s.store.ResolveCategory(ctx, util.NewID("cat"), seed.Name, seed.Description); err != nil {
				return err
			}
		}
	}

	if s.search != nil {
		s.search.ReindexAll(ctx)
	}
	return nil
}

// ---- sessions ----

// CreateSession issues tokens for an authenticated user.
func (s *Service) CreateSession(ctx context.Context, userID string) (Session, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	tokenHash := auth.HashToken(refreshToken)
	found, err := s.sessions.LookupRefreshSession(ctx, tokenHash)
	if err != nil {
		return Session{}, err
	}
	// Reload the account so role changes apply on refresh.
	user, err := s.store.GetUserByID(ctx, found.ID)
	if err != nil {
		return Session{}, err
	}
	if err := s.sessions.RevokeRefreshSession(ctx, tokenHash); err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

func (s *Service) issueSession(ctx context.Context, user store.User) (Session, error) {
	role, _, err := s.ResolveRole(ctx, user.ID, user.Role, user.IsStaff)
	if err != nil {
		return Session{}, err
	}

	now := time.Now()
	expiresAt := now.Add(s.cfg.AccessTTL)
	jti := util.NewID("jti")

	token, err := auth.IssueToken([]byte(s.cfg.TokenSecret), auth.Claims{
		Sub:   user.ID,
		Name:  user.DisplayName,
		Role:  role,
		Staff: user.IsStaff,
		JTI:   jti,
		Exp:   expiresAt.Unix(),
	})
	if err != nil {
		return Session{}, err
	}

	refresh := util.NewID("rft") + util.NewID("")
	refreshExpires := now.Add(s.cfg.RefreshTTL)
	if err := s.sessions.SaveRefreshSession(ctx, auth.HashToken(refresh), user.ID, refreshExpires); err != nil {
		return Session{}, err
	}

	return Session{
		Token:        token,
		RefreshToken: refresh,
		UserID:       user.ID,
		UserName:     user.DisplayName,
		Role:         role,
		IsStaff:      user.IsStaff,
		JTI:          jti,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *Service) SessionFromToken(ctx context.Context, token string) (Session, error) {
	claims, err := auth.ParseToken([]byte(s.cfg.TokenSecret), token)
	if err != nil {
		return Session{}, err
	}
	revoked, err := s.store.IsAccessTokenRevoked(ctx, claims.JTI)
	if err != nil {
		return Session{}, err
	}
	if revoked {
		return Session{}, auth.ErrInvalidToken
	}

	user, err := s.store.GetUserByID(ctx, claims.Sub)
	if err != nil {
		return Session{}, err
	}
	role, _, err := s.ResolveRole(ctx, user.ID, user.Role, user.IsStaff)
	if err != nil {
		return Session{}, err
	}

	return Session{
		Token:     token,
		UserID:    user.ID,
		UserName:  user.DisplayName,
		Role:      role,
		IsStaff:   user.IsStaff,
		JTI:       claims.JTI,
		ExpiresAt: time.Unix(claims.Exp, 0),
	}, nil
}

func (s *Service) Logout(ctx context.Context, session Session, refreshToken string) error {
	if session.JTI != "" {
		_ = s.store.RevokeAccessToken(ctx, session.JTI, session.ExpiresAt)
	}
	if refreshToken != "" {
		_ = s.sessions.RevokeRefreshSession(ctx, auth.HashToken(refreshToken))
	}
	return nil
}

func (s *Service) Can(role string, action rbac.Action) bool {
	return rbac.Can(rbac.Normalize(role), action)
}

// ---- authorization resolver ----

// ResolveRole returns the effective role for a user, creating the profile on
// first use when it is missing. Staff accounts get the admin role and can
// always review.
func (s *Service) ResolveRole(ctx context.Context, userID, knownRole string, isStaff bool) (string, bool, error) {
	if rbac.Valid(knownRole) {
		role := string(rbac.Normalize(knownRole))
		return role, rbac.CanReview(rbac.Role(role), isStaff), nil
	}

	defaultRole := string(rbac.RoleSubmitter)
	if isStaff {
		defaultRole = string(rbac.RoleAdmin)
	}
	profile, err := s.store.EnsureProfile(ctx, util.NewID("prf"), userID, defaultRole)
	if err != nil {
		return "", false, err
	}
	role := string(rbac.Normalize(profile.Role))
	return role, rbac.CanReview(rbac.Role(role), isStaff), nil
}

func (s *Service) canReview(ctx context.Context, session Session) (bool, error) {
	_, canReview, err := s.ResolveRole(ctx, session.UserID, session.Role, session.IsStaff)
	return canReview, err
}

// ---- submission ----

func (s *Service) SubmitIdea(ctx context.Context, session Session, input SubmitIdeaInput) (map[string]any, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title is required", map[string]any{"field": "title"})
	}
	if description == "" {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "description is required", map[string]any{"field": "description"})
	}

	categoryID, err := s.resolveCategoryInput(ctx, input.CategoryID, input.NewCategoryName, input.NewCategoryDescription, true)
	if err != nil {
		return nil, err
	}

	idea := store.Idea{
		ID:          util.NewID("idea"),
		Title:       title,
		Description: description,
		CategoryID:  categoryID,
		SubmitterID: session.UserID,
		Status:      "pending",
	}
	if err := s.store.InsertIdea(ctx, idea); err != nil {
		return nil, err
	}

	created, err := s.store.GetIdea(ctx, idea.ID)
	if err != nil {
		return nil, err
	}
	s.indexIdea(created)

	return map[string]any{"idea": ideaView(created)}, nil
}

func (s *Service) EditIdea(ctx context.Context, session Session, ideaID string, input SubmitIdeaInput) (map[string]any, error) {
	idea, err := s.store.GetIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if idea.SubmitterID != session.UserID {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "Only the submitter can edit this idea", nil)
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" {
		title = idea.Title
	}
	if description == "" {
		description = idea.Description
	}

	categoryID := idea.CategoryID
	if input.CategoryID != "" || strings.TrimSpace(input.NewCategoryName) != "" {
		categoryID, err = s.resolveCategoryInput(ctx, input.CategoryID, input.NewCategoryName, input.NewCategoryDescription, true)
		if err != nil {
			return nil, err
		}
	}

	if err := s.store.UpdateIdeaContent(ctx, ideaID, title, description, categoryID); err != nil {
		return nil, err
	}

	updated, err := s.store.GetIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	s.indexIdea(updated)

	return map[string]any{"idea": ideaView(updated)}, nil
}

// resolveCategoryInput picks the category for a submission. A new category
// name takes precedence over a selected id: the name resolves to its existing
// category when one matches case-insensitively, otherwise a fresh one is
// created. At least one of the two must be present when required.
func (s *Service) resolveCategoryInput(ctx context.Context, categoryID, newName, newDescription string, required bool) (*string, error) {
	newName = strings.TrimSpace(newName)

	switch {
	case newName != "":
		category, _, err := s.store.ResolveCategory(ctx, util.NewID("cat"), newName, newDescription)
		if err != nil {
			return nil, err
		}
		return &category.ID, nil
	case categoryID != "":
		category, err := s.store.GetCategory(ctx, categoryID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR",
				"unknown category", map[string]any{"field": "categoryId"})
		}
		if err != nil {
			return nil, err
		}
		return &category.ID, nil
	case required:
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR",
			"a category is required", map[string]any{"fields": []string{"categoryId", "newCategoryName"}})
	default:
		return nil, nil
	}
}

// ---- voting ----

func (s *Service) CastVote(ctx context.Context, session Session, ideaID, voteType string) (map[string]any, error) {
	if voteType != VoteUp && voteType != VoteDown {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR",
			"voteType must be upvote or downvote", map[string]any{"field": "voteType"})
	}

	if _, err := s.store.GetIdea(ctx, ideaID); err != nil {
		return nil, err
	}

	outcome, err := s.store.CastVote(ctx, util.NewID("vote"), ideaID, session.UserID, voteType)
	if err != nil {
		return nil, err
	}

	idea, err := s.store.GetIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	s.indexIdea(idea)

	var userVote any
	if vote, err := s.store.GetUserVote(ctx, ideaID, session.UserID); err == nil && vote != nil {
		userVote = vote.VoteType
	}

	return map[string]any{
		"outcome":   string(outcome),
		"upvotes":   idea.Upvotes,
		"downvotes": idea.Downvotes,
		"voteScore": idea.VoteScore,
		"userVote":  userVote,
	}, nil
}

// ---- workflow ----

func (s *Service) UpdateStatus(ctx context.Context, session Session, ideaID, status string) (map[string]any, error) {
	canReview, err := s.canReview(ctx, session)
	if err != nil {
		return nil, err
	}
	if !canReview {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "Reviewer role required", nil)
	}

	label, ok := statusLabels[status]
	if !ok {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR",
			"unknown status", map[string]any{"field": "status"})
	}

	updated, err := s.store.UpdateIdeaStatus(ctx, ideaID, status)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, sql.ErrNoRows
	}

	idea, err := s.store.GetIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	s.indexIdea(idea)

	return map[string]any{
		"idea":        ideaView(idea),
		"statusLabel": label,
	}, nil
}

func (s *Service) ReviewQueue(ctx context.Context, session Session, status string) (map[string]any, error) {
	canReview, err := s.canReview(ctx, session)
	if err != nil {
		return nil, err
	}
	if !canReview {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "Reviewer role required", nil)
	}

	if status == "" {
		status = "pending"
	}
	if _, ok := statusLabels[status]; !ok {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR",
			"unknown status", map[string]any{"field": "status"})
	}

	ideas, err := s.store.ListIdeas(ctx, store.IdeaFilter{Status: status})
	if err != nil {
		return nil, err
	}
	return map[string]any{"ideas": ideaViews(ideas), "status": status}, nil
}

// ---- comments ----

func (s *Service) AddComment(ctx context.Context, session Session, ideaID string, input CommentInput) (map[string]any, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR",
			"content is required", map[string]any{"field": "content"})
	}

	if _, err := s.store.GetIdea(ctx, ideaID); err != nil {
		return nil, err
	}

	if input.ParentCommentID != nil && *input.ParentCommentID != "" {
		parent, err := s.store.GetComment(ctx, *input.ParentCommentID)
		if err != nil {
			return nil, err
		}
		if parent.IdeaID != ideaID {
			return nil, sql.ErrNoRows
		}
	} else {
		input.ParentCommentID = nil
	}

	comment := store.Comment{
		ID:              util.NewID("cmt"),
		IdeaID:          ideaID,
		UserID:          session.UserID,
		Content:         content,
		ParentCommentID: input.ParentCommentID,
	}
	if err := s.store.InsertComment(ctx, comment); err != nil {
		return nil, err
	}

	created, err := s.store.GetComment(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	return map[string]any{"comment": commentView(created)}, nil
}

// ---- listing & detail ----

func (s *Service) ListIdeas(ctx context.Context, categoryID, status, query string) (map[string]any, error) {
	if status != "" {
		if _, ok := statusLabels[status]; !ok {
			return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR",
				"unknown status", map[string]any{"field": "status"})
		}
	}

	query = strings.TrimSpace(query)

	// Free-text queries go through the search service when one is wired.
	if query != "" && s.search != nil {
		resp := s.search.Search(search.Query{
			Text:             query,
			FilterCategoryID: categoryID,
			FilterStatus:     status,
			Limit:            100,
		})
		items := make([]map[string]any, 0, len(resp.Results))
		for _, result := range resp.Results {
			idea, err := s.store.GetIdea(ctx, result.ID)
			if errors.Is(err, sql.ErrNoRows) {
				continue // stale index entry
			}
			if err != nil {
				return nil, err
			}
			items = append(items, ideaView(idea))
		}
		return map[string]any{"ideas": items, "query": query}, nil
	}

	ideas, err := s.store.ListIdeas(ctx, store.IdeaFilter{
		CategoryID: categoryID,
		Status:     status,
		Search:     query,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"ideas": ideaViews(ideas), "query": query}, nil
}

func (s *Service) MyIdeas(ctx context.Context, session Session) (map[string]any, error) {
	ideas, err := s.store.ListIdeas(ctx, store.IdeaFilter{SubmitterID: session.UserID})
	if err != nil {
		return nil, err
	}
	return map[string]any{"ideas": ideaViews(ideas)}, nil
}

func (s *Service) IdeaDetail(ctx context.Context, viewerID, ideaID string) (map[string]any, error) {
	idea, err := s.store.GetIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	comments, err := s.store.ListComments(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	var userVote any
	if viewerID != "" {
		if vote, err := s.store.GetUserVote(ctx, ideaID, viewerID); err == nil && vote != nil {
			userVote = vote.VoteType
		}
	}

	return map[string]any{
		"idea":     ideaView(idea),
		"comments": threadComments(comments),
		"userVote": userVote,
	}, nil
}

func (s *Service) Categories(ctx context.Context) (map[string]any, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]map[string]any, 0, len(categories))
	for _, category := range categories {
		items = append(items, map[string]any{
			"id":          category.ID,
			"name":        category.Name,
			"description": category.Description,
			"ideaCount":   category.IdeaCount,
		})
	}
	return map[string]any{"categories": items}, nil
}

func (s *Service) Search(ctx context.Context, query, categoryID, status string, limit, offset int) (map[string]any, error) {
	if s.search == nil {
		return map[string]any{"results": []any{}, "total": 0, "query": query}, nil
	}
	resp := s.search.Search(search.Query{
		Text:             query,
		FilterCategoryID: categoryID,
		FilterStatus:     status,
		Limit:            limit,
		Offset:           offset,
	})
	return map[string]any{"results": resp.Results, "total": resp.Total, "query": resp.Query}, nil
}

// ---- admin ----

func (s *Service) requireAdmin(ctx context.Context, session Session) error {
	role, _, err := s.ResolveRole(ctx, session.UserID, session.Role, session.IsStaff)
	if err != nil {
		return err
	}
	if rbac.Role(role) != rbac.RoleAdmin && !session.IsStaff {
		return domainError(http.StatusForbidden, "FORBIDDEN", "Admin role required", nil)
	}
	return nil
}

func (s *Service) ListUsers(ctx context.Context, session Session) (map[string]any, error) {
	if err := s.requireAdmin(ctx, session); err != nil {
		return nil, err
	}
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]map[string]any, 0, len(users))
	for _, user := range users {
		items = append(items, map[string]any{
			"id":          user.ID,
			"displayName": user.DisplayName,
			"email":       user.Email,
			"role":        string(rbac.Normalize(user.Role)),
			"isStaff":     user.IsStaff,
			"createdAt":   user.CreatedAt,
		})
	}
	return map[string]any{"users": items}, nil
}

func (s *Service) SetUserRole(ctx context.Context, session Session, userID, role string) (map[string]any, error) {
	if err := s.requireAdmin(ctx, session); err != nil {
		return nil, err
	}
	if !rbac.Valid(role) {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR",
			"unknown role", map[string]any{"field": "role"})
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	// Profile may not exist yet for accounts that never resolved a role.
	if _, _, err := s.ResolveRole(ctx, user.ID, user.Role, user.IsStaff); err != nil {
		return nil, err
	}
	if _, err := s.store.SetProfileRole(ctx, userID, role); err != nil {
		return nil, err
	}

	return map[string]any{"userId": userID, "role": role}, nil
}

func (s *Service) DeleteUser(ctx context.Context, session Session, userID string) error {
	if err := s.requireAdmin(ctx, session); err != nil {
		return err
	}
	if userID == session.UserID {
		return domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR",
			"cannot delete your own account", nil)
	}

	// Collect the user's ideas first so their index entries can be dropped
	// after the cascade removes the rows.
	ideas, err := s.store.ListIdeas(ctx, store.IdeaFilter{SubmitterID: userID})
	if err != nil {
		return err
	}

	deleted, err := s.store.DeleteUser(ctx, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return sql.ErrNoRows
	}

	if s.search != nil {
		for _, idea := range ideas {
			s.search.DeleteIdea(idea.ID)
		}
	}
	return nil
}

func (s *Service) DeleteIdea(ctx context.Context, session Session, ideaID string) error {
	if err := s.requireAdmin(ctx, session); err != nil {
		return err
	}
	deleted, err := s.store.DeleteIdea(ctx, ideaID)
	if err != nil {
		return err
	}
	if !deleted {
		return sql.ErrNoRows
	}
	if s.search != nil {
		s.search.DeleteIdea(ideaID)
	}
	return nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// ---- projections ----

func (s *Service) indexIdea(idea store.Idea) {
	if s.search == nil {
		return
	}
	categoryID := ""
	if idea.CategoryID != nil {
		categoryID = *idea.CategoryID
	}
	s.search.IndexIdea(search.IdeaRecord{
		ID:           idea.ID,
		Title:        idea.Title,
		Description:  idea.Description,
		CategoryID:   categoryID,
		CategoryName: idea.CategoryName,
		Status:       idea.Status,
	})
}

func ideaView(idea store.Idea) map[string]any {
	var categoryID any
	if idea.CategoryID != nil {
		categoryID = *idea.CategoryID
	}
	return map[string]any{
		"id":             idea.ID,
		"title":          idea.Title,
		"description":    idea.Description,
		"categoryId":     categoryID,
		"categoryName":   idea.CategoryName,
		"submitterId":    idea.SubmitterID,
		"submitterName":  idea.SubmitterName,
		"submissionDate": idea.SubmissionDate,
		"status":         idea.Status,
		"statusLabel":    statusLabels[idea.Status],
		"upvotes":        idea.Upvotes,
		"downvotes":      idea.Downvotes,
		"voteScore":      idea.VoteScore,
		"commentCount":   idea.CommentCount,
	}
}

func ideaViews(ideas []store.Idea) []map[string]any {
	items := make([]map[string]any, 0, len(ideas))
	for _, idea := range ideas {
		items = append(items, ideaView(idea))
	}
	return items
}

func commentView(comment store.Comment) map[string]any {
	view := map[string]any{
		"id":         comment.ID,
		"ideaId":     comment.IdeaID,
		"userId":     comment.UserID,
		"authorName": comment.AuthorName,
		"content":    comment.Content,
		"createdAt":  comment.CreatedAt,
	}
	if comment.ParentCommentID != nil {
		view["parentCommentId"] = *comment.ParentCommentID
	}
	replies := make([]map[string]any, 0, len(comment.Replies))
	for _, reply := range comment.Replies {
		replies = append(replies, commentView(reply))
	}
	view["replies"] = replies
	return view
}

// threadComments nests replies under their parents. Input is ordered oldest
// first, so reply order within a thread is preserved. Nesting depth is
// unbounded.
func threadComments(comments []store.Comment) []map[string]any {
	children := make(map[string][]store.Comment)
	roots := make([]store.Comment, 0, len(comments))
	for _, comment := range comments {
		if comment.ParentCommentID == nil {
			roots = append(roots, comment)
			continue
		}
		parentID := *comment.ParentCommentID
		children[parentID] = append(children[parentID], comment)
	}

	var attach func(comment store.Comment) store.Comment
	attach = func(comment store.Comment) store.Comment {
		for _, child := range children[comment.ID] {
			comment.Replies = append(comment.Replies, attach(child))
		}
		return comment
	}

	views := make([]map[string]any, 0, len(roots))
	for _, root := range roots {
		views = append(views, commentView(attach(root)))
	}
	return views
}
