package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Amorabdelaziz/inovation-traker/internal/config"
	"github.com/Amorabdelaziz/inovation-traker/internal/search"
	"github.com/Amorabdelaziz/inovation-traker/internal/store"
)

type fakeStore struct {
	getUserByIDFn      func(context.Context, string) (store.User, error)
	ensureProfileFn    func(context.Context, string, string, string) (store.Profile, error)
	setProfileRoleFn   func(context.Context, string, string) (bool, error)
	listUsersFn        func(context.Context) ([]store.User, error)
	deleteUserFn       func(context.Context, string) (bool, error)
	listCategoriesFn   func(context.Context) ([]store.Category, error)
	getCategoryFn      func(context.Context, string) (store.Category, error)
	countCategoriesFn  func(context.Context) (int, error)
	resolveCategoryFn  func(context.Context, string, string, string) (store.Category, bool, error)
	insertIdeaFn       func(context.Context, store.Idea) error
	getIdeaFn          func(context.Context, string) (store.Idea, error)
	listIdeasFn        func(context.Context, store.IdeaFilter) ([]store.Idea, error)
	updateIdeaFn       func(context.Context, string, string, string, *string) error
	updateStatusFn     func(context.Context, string, string) (bool, error)
	deleteIdeaFn       func(context.Context, string) (bool, error)
	castVoteFn         func(context.Context, string, string, string, string) (store.VoteOutcome, error)
	getUserVoteFn      func(context.Context, string, string) (*store.Vote, error)
	insertCommentFn    func(context.Context, store.Comment) error
	getCommentFn       func(context.Context, string) (store.Comment, error)
	listCommentsFn     func(context.Context, string) ([]store.Comment, error)
}

func (f *fakeStore) GetUserByID(ctx context.Context, userID string) (store.User, error) {
	if f.getUserByIDFn != nil {
		return f.getUserByIDFn(ctx, userID)
	}
	return store.User{ID: userID}, nil
}
func (f *fakeStore) EnsureProfile(ctx context.Context, profileID, userID, defaultRole string) (store.Profile, error) {
	if f.ensureProfileFn != nil {
		return f.ensureProfileFn(ctx, profileID, userID, defaultRole)
	}
	return store.Profile{ID: profileID, UserID: userID, Role: defaultRole}, nil
}
func (f *fakeStore) SetProfileRole(ctx context.Context, userID, role string) (bool, error) {
	if f.setProfileRoleFn != nil {
		return f.setProfileRoleFn(ctx, userID, role)
	}
	return true, nil
}
func (f *fakeStore) ListUsers(ctx context.Context) ([]store.User, error) {
	if f.listUsersFn != nil {
		return f.listUsersFn(ctx)
	}
	return nil, nil
}
func (f *fakeStore) DeleteUser(ctx context.Context, userID string) (bool, error) {
	if f.deleteUserFn != nil {
		return f.deleteUserFn(ctx, userID)
	}
	return true, nil
}
func (f *fakeStore) RevokeAccessToken(context.Context, string, time.Time) error { return nil }
func (f *fakeStore) IsAccessTokenRevoked(context.Context, string) (bool, error) {
	return false, nil
}
func (f *fakeStore) ListCategories(ctx context.Context) ([]store.Category, error) {
	if f.listCategoriesFn != nil {
		return f.listCategoriesFn(ctx)
	}
	return nil, nil
}
func (f *fakeStore) GetCategory(ctx context.Context, categoryID string) (store.Category, error) {
	if f.getCategoryFn != nil {
		return f.getCategoryFn(ctx, categoryID)
	}
	return store.Category{}, sql.ErrNoRows
}
func (f *fakeStore) CountCategories(ctx context.Context) (int, error) {
	if f.countCategoriesFn != nil {
		return f.countCategoriesFn(ctx)
	}
	return 0, nil
}
func (f *fakeStore) ResolveCategory(ctx context.Context, categoryID, name, description string) (store.Category, bool, error) {
	if f.resolveCategoryFn != nil {
		return f.resolveCategoryFn(ctx, categoryID, name, description)
	}
	return store.Category{ID: categoryID, Name: name, Description: description}, true, nil
}
func (f *fakeStore) InsertIdea(ctx context.Context, idea store.Idea) error {
	if f.insertIdeaFn != nil {
		return f.insertIdeaFn(ctx, idea)
	}
	return nil
}
func (f *fakeStore) GetIdea(ctx context.Context, ideaID string) (store.Idea, error) {
	if f.getIdeaFn != nil {
		return f.getIdeaFn(ctx, ideaID)
	}
	return store.Idea{}, sql.ErrNoRows
}
func (f *fakeStore) ListIdeas(ctx context.Context, filter store.IdeaFilter) ([]store.Idea, error) {
	if f.listIdeasFn != nil {
		return f.listIdeasFn(ctx, filter)
	}
	return nil, nil
}
func (f *fakeStore) UpdateIdeaContent(ctx context.Context, ideaID, title, description string, categoryID *string) error {
	if f.updateIdeaFn != nil {
		return f.updateIdeaFn(ctx, ideaID, title, description, categoryID)
	}
	return nil
}
func (f *fakeStore) UpdateIdeaStatus(ctx context.Context, ideaID, status string) (bool, error) {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, ideaID, status)
	}
	return true, nil
}
func (f *fakeStore) DeleteIdea(ctx context.Context, ideaID string) (bool, error) {
	if f.deleteIdeaFn != nil {
		return f.deleteIdeaFn(ctx, ideaID)
	}
	return true, nil
}
func (f *fakeStore) CastVote(ctx context.Context, voteID, ideaID, userID, voteType string) (store.VoteOutcome, error) {
	if f.castVoteFn != nil {
		return f.castVoteFn(ctx, voteID, ideaID, userID, voteType)
	}
	return store.VoteRecorded, nil
}
func (f *fakeStore) GetUserVote(ctx context.Context, ideaID, userID string) (*store.Vote, error) {
	if f.getUserVoteFn != nil {
		return f.getUserVoteFn(ctx, ideaID, userID)
	}
	return nil, nil
}
func (f *fakeStore) InsertComment(ctx context.Context, comment store.Comment) error {
	if f.insertCommentFn != nil {
		return f.insertCommentFn(ctx, comment)
	}
	return nil
}
func (f *fakeStore) GetComment(ctx context.Context, commentID string) (store.Comment, error) {
	if f.getCommentFn != nil {
		return f.getCommentFn(ctx, commentID)
	}
	return store.Comment{}, sql.ErrNoRows
}
func (f *fakeStore) ListComments(ctx context.Context, ideaID string) ([]store.Comment, error) {
	if f.listCommentsFn != nil {
		return f.listCommentsFn(ctx, ideaID)
	}
	return nil, nil
}
func (f *fakeStore) Ping(context.Context) error { return nil }

type fakeSessions struct{}

func (fakeSessions) SaveRefreshSession(context.Context, string, string, time.Time) error { return nil }
func (fakeSessions) LookupRefreshSession(context.Context, string) (store.User, error) {
	return store.User{}, errors.New("not found")
}
func (fakeSessions) RevokeRefreshSession(context.Context, string) error { return nil }

func newTestService(fs *fakeStore) *Service {
	return &Service{
		cfg: config.Config{
			TokenSecret: "test-secret",
			AccessTTL:   time.Minute,
			RefreshTTL:  time.Hour,
		},
		store:    fs,
		sessions: fakeSessions{},
	}
}

func strPtr(s string) *string { return &s }

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	if domainErr.Status != status {
		t.Fatalf("status = %d, want %d (%v)", domainErr.Status, status, err)
	}
}

func TestCastVoteRejectsInvalidType(t *testing.T) {
	svc := newTestService(&fakeStore{})
	_, err := svc.CastVote(context.Background(), Session{UserID: "usr_1"}, "idea_1", "sideways")
	assertStatus(t, err, http.StatusUnprocessableEntity)
}

func TestCastVoteUnknownIdeaIsNotFound(t *testing.T) {
	svc := newTestService(&fakeStore{})
	_, err := svc.CastVote(context.Background(), Session{UserID: "usr_1"}, "idea_missing", VoteUp)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestCastVoteReportsOutcomeAndTotals(t *testing.T) {
	votes := 0
	fs := &fakeStore{
		getIdeaFn: func(_ context.Context, ideaID string) (store.Idea, error) {
			return store.Idea{ID: ideaID, Upvotes: 3, Downvotes: 1, VoteScore: 2}, nil
		},
		castVoteFn: func(_ context.Context, _, _, userID, voteType string) (store.VoteOutcome, error) {
			votes++
			if voteType != VoteUp {
				t.Errorf("voteType = %q", voteType)
			}
			if userID != "usr_1" {
				t.Errorf("userID = %q", userID)
			}
			return store.VoteRemoved, nil
		},
		getUserVoteFn: func(context.Context, string, string) (*store.Vote, error) {
			return nil, nil
		},
	}
	svc := newTestService(fs)

	payload, err := svc.CastVote(context.Background(), Session{UserID: "usr_1"}, "idea_1", VoteUp)
	if err != nil {
		t.Fatalf("CastVote: %v", err)
	}
	if votes != 1 {
		t.Fatalf("store.CastVote called %d times", votes)
	}
	if payload["outcome"] != "removed" {
		t.Errorf("outcome = %v, want removed", payload["outcome"])
	}
	if payload["voteScore"] != 2 {
		t.Errorf("voteScore = %v", payload["voteScore"])
	}
	if payload["userVote"] != nil {
		t.Errorf("userVote = %v, want nil after removal", payload["userVote"])
	}
}

func TestSubmitIdeaRequiresACategory(t *testing.T) {
	svc := newTestService(&fakeStore{})

	_, err := svc.SubmitIdea(context.Background(), Session{UserID: "usr_1"}, SubmitIdeaInput{
		Title: "t", Description: "d",
	})
	assertStatus(t, err, http.StatusUnprocessableEntity)
}

func TestSubmitIdeaNewCategoryNameWinsOverSelectedID(t *testing.T) {
	var inserted store.Idea
	lookedUpID := false
	fs := &fakeStore{
		getCategoryFn: func(_ context.Context, categoryID string) (store.Category, error) {
			lookedUpID = true
			return store.Category{ID: categoryID, Name: "Existing"}, nil
		},
		resolveCategoryFn: func(_ context.Context, categoryID, name, description string) (store.Category, bool, error) {
			return store.Category{ID: "cat_resolved", Name: name}, false, nil
		},
		insertIdeaFn: func(_ context.Context, idea store.Idea) error {
			inserted = idea
			return nil
		},
		getIdeaFn: func(_ context.Context, ideaID string) (store.Idea, error) {
			return store.Idea{ID: ideaID, Status: "pending"}, nil
		},
	}
	svc := newTestService(fs)

	_, err := svc.SubmitIdea(context.Background(), Session{UserID: "usr_1"}, SubmitIdeaInput{
		Title:           "t",
		Description:     "d",
		CategoryID:      "cat_selected",
		NewCategoryName: "Brand New",
	})
	if err != nil {
		t.Fatalf("SubmitIdea: %v", err)
	}
	if lookedUpID {
		t.Error("selected category id was consulted; the new name should win")
	}
	if inserted.CategoryID == nil || *inserted.CategoryID != "cat_resolved" {
		t.Errorf("categoryID = %v, want cat_resolved", inserted.CategoryID)
	}
}

func TestSubmitIdeaRejectsUnknownCategoryID(t *testing.T) {
	svc := newTestService(&fakeStore{})
	_, err := svc.SubmitIdea(context.Background(), Session{UserID: "usr_1"}, SubmitIdeaInput{
		Title: "t", Description: "d", CategoryID: "cat_missing",
	})
	assertStatus(t, err, http.StatusUnprocessableEntity)
}

func TestSubmitIdeaCreatesWithNewCategory(t *testing.T) {
	var inserted store.Idea
	var resolvedName string
	fs := &fakeStore{
		resolveCategoryFn: func(_ context.Context, categoryID, name, description string) (store.Category, bool, error) {
			resolvedName = name
			return store.Category{ID: "cat_new", Name: name, Description: description}, true, nil
		},
		insertIdeaFn: func(_ context.Context, idea store.Idea) error {
			inserted = idea
			return nil
		},
		getIdeaFn: func(_ context.Context, ideaID string) (store.Idea, error) {
			return store.Idea{ID: ideaID, Title: "Solar roof", Status: "pending"}, nil
		},
	}
	svc := newTestService(fs)

	payload, err := svc.SubmitIdea(context.Background(), Session{UserID: "usr_1"}, SubmitIdeaInput{
		Title:           "Solar roof",
		Description:     "Panels on the warehouse",
		NewCategoryName: "  Sustainability  ",
	})
	if err != nil {
		t.Fatalf("SubmitIdea: %v", err)
	}
	if resolvedName != "Sustainability" {
		t.Errorf("resolved category name = %q", resolvedName)
	}
	if inserted.Status != "pending" {
		t.Errorf("status = %q, want pending", inserted.Status)
	}
	if inserted.SubmitterID != "usr_1" {
		t.Errorf("submitter = %q", inserted.SubmitterID)
	}
	if inserted.CategoryID == nil || *inserted.CategoryID != "cat_new" {
		t.Errorf("categoryID = %v", inserted.CategoryID)
	}
	idea := payload["idea"].(map[string]any)
	if idea["statusLabel"] != "Pending" {
		t.Errorf("statusLabel = %v", idea["statusLabel"])
	}
}

func TestEditIdeaForbiddenForNonSubmitter(t *testing.T) {
	fs := &fakeStore{
		getIdeaFn: func(_ context.Context, ideaID string) (store.Idea, error) {
			return store.Idea{ID: ideaID, SubmitterID: "usr_owner"}, nil
		},
	}
	svc := newTestService(fs)

	_, err := svc.EditIdea(context.Background(), Session{UserID: "usr_other"}, "idea_1", SubmitIdeaInput{Title: "x"})
	assertStatus(t, err, http.StatusForbidden)
}

func TestUpdateStatusRequiresReviewer(t *testing.T) {
	fs := &fakeStore{
		getIdeaFn: func(_ context.Context, ideaID string) (store.Idea, error) {
			return store.Idea{ID: ideaID, Status: "approved"}, nil
		},
	}
	svc := newTestService(fs)

	_, err := svc.UpdateStatus(context.Background(), Session{UserID: "usr_1", Role: "submitter"}, "idea_1", "approved")
	assertStatus(t, err, http.StatusForbidden)

	payload, err := svc.UpdateStatus(context.Background(), Session{UserID: "usr_2", Role: "reviewer"}, "idea_1", "approved")
	if err != nil {
		t.Fatalf("UpdateStatus as reviewer: %v", err)
	}
	if payload["statusLabel"] != "Approved" {
		t.Errorf("statusLabel = %v", payload["statusLabel"])
	}
}

func TestUpdateStatusStaffSubmitterAllowed(t *testing.T) {
	fs := &fakeStore{
		getIdeaFn: func(_ context.Context, ideaID string) (store.Idea, error) {
			return store.Idea{ID: ideaID, Status: "rejected"}, nil
		},
	}
	svc := newTestService(fs)

	_, err := svc.UpdateStatus(context.Background(), Session{UserID: "usr_1", Role: "submitter", IsStaff: true}, "idea_1", "rejected")
	if err != nil {
		t.Fatalf("staff account should review regardless of role: %v", err)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(&fakeStore{})
	_, err := svc.UpdateStatus(context.Background(), Session{UserID: "usr_1", Role: "admin"}, "idea_1", "archived")
	assertStatus(t, err, http.StatusUnprocessableEntity)
}

func TestUpdateStatusUnknownIdeaIsNotFound(t *testing.T) {
	fs := &fakeStore{
		updateStatusFn: func(context.Context, string, string) (bool, error) {
			return false, nil
		},
	}
	svc := newTestService(fs)

	_, err := svc.UpdateStatus(context.Background(), Session{UserID: "usr_1", Role: "admin"}, "idea_missing", "approved")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestResolveRoleCreatesMissingProfile(t *testing.T) {
	var ensuredRole string
	fs := &fakeStore{
		ensureProfileFn: func(_ context.Context, profileID, userID, defaultRole string) (store.Profile, error) {
			ensuredRole = defaultRole
			return store.Profile{ID: profileID, UserID: userID, Role: defaultRole}, nil
		},
	}
	svc := newTestService(fs)

	role, canReview, err := svc.ResolveRole(context.Background(), "usr_1", "", false)
	if err != nil {
		t.Fatalf("ResolveRole: %v", err)
	}
	if role != "submitter" || canReview {
		t.Errorf("role = %q canReview = %v", role, canReview)
	}
	if ensuredRole != "submitter" {
		t.Errorf("ensured default role = %q", ensuredRole)
	}

	role, canReview, err = svc.ResolveRole(context.Background(), "usr_2", "", true)
	if err != nil {
		t.Fatalf("ResolveRole staff: %v", err)
	}
	if role != "admin" || !canReview {
		t.Errorf("staff role = %q canReview = %v", role, canReview)
	}
}

func TestResolveRoleNormalizesUnknownStoredRole(t *testing.T) {
	fs := &fakeStore{
		ensureProfileFn: func(_ context.Context, profileID, userID, _ string) (store.Profile, error) {
			return store.Profile{ID: profileID, UserID: userID, Role: "superuser"}, nil
		},
	}
	svc := newTestService(fs)

	role, canReview, err := svc.ResolveRole(context.Background(), "usr_1", "", false)
	if err != nil {
		t.Fatalf("ResolveRole: %v", err)
	}
	if role != "submitter" || canReview {
		t.Errorf("role = %q canReview = %v, want submitter/false", role, canReview)
	}
}

func TestReviewQueueDefaultsToPending(t *testing.T) {
	var gotFilter store.IdeaFilter
	fs := &fakeStore{
		listIdeasFn: func(_ context.Context, filter store.IdeaFilter) ([]store.Idea, error) {
			gotFilter = filter
			return []store.Idea{{ID: "idea_1", Status: "pending"}}, nil
		},
	}
	svc := newTestService(fs)

	payload, err := svc.ReviewQueue(context.Background(), Session{UserID: "usr_1", Role: "reviewer"}, "")
	if err != nil {
		t.Fatalf("ReviewQueue: %v", err)
	}
	if gotFilter.Status != "pending" {
		t.Errorf("filter status = %q, want pending", gotFilter.Status)
	}
	if payload["status"] != "pending" {
		t.Errorf("payload status = %v", payload["status"])
	}
}

func TestReviewQueueDeniesSubmitters(t *testing.T) {
	svc := newTestService(&fakeStore{})
	_, err := svc.ReviewQueue(context.Background(), Session{UserID: "usr_1", Role: "submitter"}, "")
	assertStatus(t, err, http.StatusForbidden)
}

func TestAddCommentRejectsReplyAcrossIdeas(t *testing.T) {
	fs := &fakeStore{
		getIdeaFn: func(_ context.Context, ideaID string) (store.Idea, error) {
			return store.Idea{ID: ideaID}, nil
		},
		getCommentFn: func(_ context.Context, commentID string) (store.Comment, error) {
			return store.Comment{ID: commentID, IdeaID: "idea_other"}, nil
		},
	}
	svc := newTestService(fs)

	_, err := svc.AddComment(context.Background(), Session{UserID: "usr_1"}, "idea_1", CommentInput{
		Content:         "reply",
		ParentCommentID: strPtr("cmt_1"),
	})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows for cross-idea parent, got %v", err)
	}
}

func TestAddCommentRequiresContent(t *testing.T) {
	svc := newTestService(&fakeStore{})
	_, err := svc.AddComment(context.Background(), Session{UserID: "usr_1"}, "idea_1", CommentInput{Content: "   "})
	assertStatus(t, err, http.StatusUnprocessableEntity)
}

func TestThreadCommentsNestsReplies(t *testing.T) {
	comments := []store.Comment{
		{ID: "c1", Content: "root"},
		{ID: "c2", Content: "reply", ParentCommentID: strPtr("c1")},
		{ID: "c3", Content: "nested reply", ParentCommentID: strPtr("c2")},
		{ID: "c4", Content: "second root"},
	}

	threaded := threadComments(comments)
	if len(threaded) != 2 {
		t.Fatalf("top-level comments = %d, want 2", len(threaded))
	}

	root := threaded[0]
	replies := root["replies"].([]map[string]any)
	if len(replies) != 1 || replies[0]["id"] != "c2" {
		t.Fatalf("replies of c1 = %v", replies)
	}
	nested := replies[0]["replies"].([]map[string]any)
	if len(nested) != 1 || nested[0]["id"] != "c3" {
		t.Fatalf("replies of c2 = %v", nested)
	}
}

type fakeSearch struct {
	results []search.Result
	lastQ   search.Query
}

func (f *fakeSearch) Search(q search.Query) search.Response {
	f.lastQ = q
	return search.Response{Results: f.results, Total: len(f.results), Query: q.Text}
}
func (f *fakeSearch) IndexIdea(search.IdeaRecord) {}
func (f *fakeSearch) DeleteIdea(string)           {}
func (f *fakeSearch) ReindexAll(context.Context)  {}

func TestListIdeasRoutesQueriesThroughSearch(t *testing.T) {
	fs := &fakeStore{
		getIdeaFn: func(_ context.Context, ideaID string) (store.Idea, error) {
			if ideaID == "idea_gone" {
				return store.Idea{}, sql.ErrNoRows
			}
			return store.Idea{ID: ideaID, Title: "hit"}, nil
		},
	}
	svc := newTestService(fs)
	searchSvc := &fakeSearch{results: []search.Result{{ID: "idea_1"}, {ID: "idea_gone"}}}
	svc.search = searchSvc

	payload, err := svc.ListIdeas(context.Background(), "cat_1", "pending", "solar")
	if err != nil {
		t.Fatalf("ListIdeas: %v", err)
	}
	if searchSvc.lastQ.Text != "solar" || searchSvc.lastQ.FilterCategoryID != "cat_1" || searchSvc.lastQ.FilterStatus != "pending" {
		t.Errorf("search query = %+v", searchSvc.lastQ)
	}
	ideas := payload["ideas"].([]map[string]any)
	if len(ideas) != 1 {
		t.Fatalf("ideas = %d, want stale index hits dropped", len(ideas))
	}
}

func TestListIdeasValidatesStatus(t *testing.T) {
	svc := newTestService(&fakeStore{})
	_, err := svc.ListIdeas(context.Background(), "", "archived", "")
	assertStatus(t, err, http.StatusUnprocessableEntity)
}

func TestSetUserRoleValidatesRole(t *testing.T) {
	svc := newTestService(&fakeStore{})
	_, err := svc.SetUserRole(context.Background(), Session{UserID: "usr_admin", Role: "admin"}, "usr_1", "superuser")
	assertStatus(t, err, http.StatusUnprocessableEntity)
}

func TestSetUserRoleRequiresAdmin(t *testing.T) {
	svc := newTestService(&fakeStore{})
	_, err := svc.SetUserRole(context.Background(), Session{UserID: "usr_1", Role: "reviewer"}, "usr_2", "reviewer")
	assertStatus(t, err, http.StatusForbidden)
}

func TestDeleteUserRefusesSelf(t *testing.T) {
	svc := newTestService(&fakeStore{})
	err := svc.DeleteUser(context.Background(), Session{UserID: "usr_admin", Role: "admin"}, "usr_admin")
	assertStatus(t, err, http.StatusUnprocessableEntity)
}

func TestBootstrapSeedsCategoriesOnce(t *testing.T) {
	seeded := 0
	fs := &fakeStore{
		countCategoriesFn: func(context.Context) (int, error) { return 0, nil },
		resolveCategoryFn: func(_ context.Context, categoryID, name, description string) (store.Category, bool, error) {
			seeded++
			return store.Category{ID: categoryID, Name: name}, true, nil
		},
	}
	svc := newTestService(fs)
	if err := svc.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if seeded != len(defaultCategories) {
		t.Errorf("seeded %d categories, want %d", seeded, len(defaultCategories))
	}

	seeded = 0
	fs.countCategoriesFn = func(context.Context) (int, error) { return 7, nil }
	if err := svc.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap on populated db: %v", err)
	}
	if seeded != 0 {
		t.Errorf("seeded %d categories on populated db, want 0", seeded)
	}
}
