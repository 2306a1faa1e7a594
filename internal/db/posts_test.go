package db

import (
	"context"
	"errors"
	"social/internal/models"
	"testing"
	"time"
)

func setCreationTime(t *testing.T, repo *Repository, table string, id int64, ts time.Time) {
	t.Helper()
	if _, err := repo.db.Exec("UPDATE "+table+" SET creation_time = ? WHERE id = ?", ts.UTC(), id); err != nil {
		t.Fatalf("setting creation_time: %v", err)
	}
}

func TestCreatePostEscapesContent(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	u := mustRegister(t, repo, "alice")

	id, err := repo.CreatePost(ctx, u.ID, `<script>alert("x")</script>`, "")
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	p, err := repo.GetPost(ctx, id)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	want := "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;"
	if p.Content != want {
		t.Errorf("stored content = %q, want %q", p.Content, want)
	}
	if p.Image != "" {
		t.Errorf("image = %q, want empty", p.Image)
	}
	if p.Username != "alice" {
		t.Errorf("author = %q", p.Username)
	}
	if p.CreationTime.IsZero() {
		t.Error("creation time not assigned by the store")
	}
}

func TestCreatePostWithImage(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	u := mustRegister(t, repo, "alice")

	id, err := repo.CreatePost(ctx, u.ID, "look", "0f8e.png")
	if err != nil {
		t.Fatal(err)
	}
	p, _ := repo.GetPost(ctx, id)
	if p.Image != "0f8e.png" {
		t.Errorf("image = %q", p.Image)
	}
}

func TestGetPostNotFound(t *testing.T) {
	repo := setupTestRepo(t)
	if _, err := repo.GetPost(context.Background(), 7); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListVisiblePosts(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	me := mustRegister(t, repo, "me")
	added := mustRegister(t, repo, "added") // me -> added
	adder := mustRegister(t, repo, "adder") // adder -> me
	stranger := mustRegister(t, repo, "stranger")
	repo.AddFriend(ctx, me.ID, "added")
	repo.AddFriend(ctx, adder.ID, "me")
	repo.AddFriend(ctx, stranger.ID, "added")

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	mine, _ := repo.CreatePost(ctx, me.ID, "mine", "")
	fromAdded, _ := repo.CreatePost(ctx, added.ID, "from added", "")
	fromAdder, _ := repo.CreatePost(ctx, adder.ID, "from adder", "")
	hidden, _ := repo.CreatePost(ctx, stranger.ID, "hidden", "")
	setCreationTime(t, repo, "Posts", mine, base.Add(1*time.Minute))
	setCreationTime(t, repo, "Posts", fromAdded, base.Add(3*time.Minute))
	setCreationTime(t, repo, "Posts", fromAdder, base.Add(2*time.Minute))
	setCreationTime(t, repo, "Posts", hidden, base.Add(4*time.Minute))

	posts, err := repo.ListVisiblePosts(ctx, me.ID)
	if err != nil {
		t.Fatalf("ListVisiblePosts: %v", err)
	}
	want := []int64{fromAdded, fromAdder, mine}
	if len(posts) != len(want) {
		t.Fatalf("got %d posts, want %d", len(posts), len(want))
	}
	for i, p := range posts {
		if p.ID != want[i] {
			t.Errorf("posts[%d] = %d, want %d", i, p.ID, want[i])
		}
		if p.ID == hidden {
			t.Error("stranger's post is visible")
		}
	}

	// the stranger only sees their own post plus "added"
	strangerPosts, _ := repo.ListVisiblePosts(ctx, stranger.ID)
	if len(strangerPosts) != 2 {
		t.Errorf("stranger sees %d posts, want 2", len(strangerPosts))
	}
}

func TestListVisiblePostsTieBreak(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	u := mustRegister(t, repo, "alice")

	ts := time.Date(2024, 5, 5, 8, 0, 0, 0, time.UTC)
	var ids []int64
	for i := 0; i < 3; i++ {
		id, _ := repo.CreatePost(ctx, u.ID, "same second", "")
		setCreationTime(t, repo, "Posts", id, ts)
		ids = append(ids, id)
	}
	newer, _ := repo.CreatePost(ctx, u.ID, "newer", "")
	setCreationTime(t, repo, "Posts", newer, ts.Add(time.Second))

	posts, err := repo.ListVisiblePosts(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := append([]int64{newer}, ids...)
	for i, p := range posts {
		if p.ID != want[i] {
			t.Fatalf("order = %v, want %v", postIDs(posts), want)
		}
	}
}

func TestListVisiblePostsCommentCount(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	u := mustRegister(t, repo, "alice")
	quiet, _ := repo.CreatePost(ctx, u.ID, "quiet", "")
	busy, _ := repo.CreatePost(ctx, u.ID, "busy", "")
	for i := 0; i < 3; i++ {
		if _, err := repo.AddComment(ctx, busy, u.ID, "hi"); err != nil {
			t.Fatal(err)
		}
	}

	posts, _ := repo.ListVisiblePosts(ctx, u.ID)
	counts := map[int64]int{}
	for _, p := range posts {
		counts[p.ID] = p.CommentCount
	}
	if counts[quiet] != 0 || counts[busy] != 3 {
		t.Errorf("comment counts = %v", counts)
	}
}

func postIDs(posts []*models.PostWithAuthor) []int64 {
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}
