package service

import (
	"context"
	"testing"
	"time"

	"novblog/internal/models"
	"novblog/internal/repository"
)

// TestEditorWorkflow walks the whole editor lifecycle through the wired
// service aggregate: register, log in, write a draft, publish it, upload
// an avatar, touch the profile and log out.
func TestEditorWorkflow(t *testing.T) {
	repos := &repository.Repository{
		Users:    newFakeUsers(),
		Sessions: newFakeSessions(),
		Posts:    newFakePosts(),
		Avatars:  newFakeAvatars(),
	}
	svc := NewService(repos, Config{
		PostsPerPage: 10,
		SessionTTL:   time.Hour,
		RememberTTL:  24 * time.Hour,
		SigningKey:   "scenario-key",
	}, nil)
	ctx := context.Background()

	// Register an editor and log in.
	u, err := svc.Register(ctx, RegisterInput{
		Username: "alice", Email: "alice@x.com", Password: "secret", Role: models.RoleEditor,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	login, err := svc.Login(ctx, "alice", "secret", false)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	res, err := svc.Resolve(ctx, login.Session.Token, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !res.Principal.IsAuthenticated() {
		t.Fatalf("expected authenticated principal")
	}
	if d := svc.Authorize(res.Principal, CapManagePosts); !d.Allowed {
		t.Fatalf("editor must hold manage-posts: %s", d.Reason)
	}

	// Draft a post.
	post, err := svc.Posts.Create(ctx, u, PostInput{
		Title:    "First post",
		Content:  "hello world",
		Tags:     "go, web",
		Category: "dev",
		Status:   models.StatusDraft,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	drafts, err := svc.Posts.ListByAuthorAndStatus(ctx, u.ID, models.StatusDraft, 1)
	if err != nil {
		t.Fatalf("list drafts: %v", err)
	}
	if drafts.Total != 1 || drafts.Items[0].ID != post.ID {
		t.Fatalf("draft must appear in the draft listing, got %+v", drafts)
	}

	// Publish and confirm it moved between listings.
	if _, err := svc.Posts.SetStatus(ctx, post.ID, u, models.StatusPublished); err != nil {
		t.Fatalf("publish: %v", err)
	}
	drafts, _ = svc.Posts.ListByAuthorAndStatus(ctx, u.ID, models.StatusDraft, 1)
	published, _ := svc.Posts.ListByAuthorAndStatus(ctx, u.ID, models.StatusPublished, 1)
	if drafts.Total != 0 || published.Total != 1 {
		t.Fatalf("publishing must move the post: drafts=%d published=%d", drafts.Total, published.Total)
	}

	// The tag set feeds the selection lists.
	tags, err := svc.Posts.DistinctTags(ctx)
	if err != nil {
		t.Fatalf("distinct tags: %v", err)
	}
	seen := map[string]bool{}
	for _, tag := range tags {
		seen[tag] = true
	}
	if !seen["go"] || !seen["web"] {
		t.Fatalf("expected tags go and web, got %v", tags)
	}
	cats, err := svc.Posts.DistinctCategories(ctx)
	if err != nil || len(cats) != 1 || cats[0] != "dev" {
		t.Fatalf("expected category dev, got %v err=%v", cats, err)
	}

	// Avatar round trip.
	if err := svc.Avatars.Upload(ctx, "alice", "me.png", []byte{1, 2, 3}); err != nil {
		t.Fatalf("upload avatar: %v", err)
	}
	a, err := svc.Avatars.Fetch(ctx, "alice")
	if err != nil || len(a.Data) != 3 {
		t.Fatalf("fetch avatar: %v %v", a, err)
	}

	// Profile edit.
	if _, err := svc.Profiles.Update(ctx, u, "alice", EditProfileInput{
		Username: "alice", Email: "alice@x.com", AboutMe: "writes about Go",
	}); err != nil {
		t.Fatalf("edit profile: %v", err)
	}
	profile, err := svc.Profiles.Get(ctx, "alice")
	if err != nil || profile.AboutMe != "writes about Go" {
		t.Fatalf("profile edit must stick: %+v err=%v", profile, err)
	}

	// Log out; the session stops resolving.
	if err := svc.Logout(ctx, login.Session.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	res, err = svc.Resolve(ctx, login.Session.Token, "")
	if err != nil {
		t.Fatalf("resolve after logout: %v", err)
	}
	if res.Principal.IsAuthenticated() {
		t.Fatalf("logged-out session must resolve to anonymous")
	}
}
