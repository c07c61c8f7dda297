package repository

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/user/movierank/internal/model"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// 内存库必须限制单连接，否则每个连接各有一份空库
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.User{}, &model.Movie{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func floatPtr(v float64) *float64 { return &v }

func TestMovieCreateDuplicateTitle(t *testing.T) {
	repo := NewMovieRepository(newTestDB(t))

	if err := repo.Create(&model.Movie{UserID: 1, Title: "Inception"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := repo.Create(&model.Movie{UserID: 1, Title: "Inception"})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("duplicate create err = %v, want gorm.ErrDuplicatedKey", err)
	}

	// 不同用户可以收录同名电影
	if err := repo.Create(&model.Movie{UserID: 2, Title: "Inception"}); err != nil {
		t.Fatalf("create for another user: %v", err)
	}
}

func TestMovieListOrderRatingDescNullsLast(t *testing.T) {
	repo := NewMovieRepository(newTestDB(t))

	seed := []*model.Movie{
		{UserID: 1, Title: "Unrated First"},
		{UserID: 1, Title: "Cats", Rating: floatPtr(2.0)},
		{UserID: 1, Title: "Inception", Rating: floatPtr(9.0)},
		{UserID: 1, Title: "Unrated Second"},
	}
	for _, m := range seed {
		if err := repo.Create(m); err != nil {
			t.Fatalf("create %s: %v", m.Title, err)
		}
	}

	movies, err := repo.ListByUser(1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []string{"Inception", "Cats", "Unrated First", "Unrated Second"}
	if len(movies) != len(want) {
		t.Fatalf("len = %d, want %d", len(movies), len(want))
	}
	for i, title := range want {
		if movies[i].Title != title {
			t.Fatalf("movies[%d] = %q, want %q", i, movies[i].Title, title)
		}
	}
}

func TestMovieOwnerScoping(t *testing.T) {
	repo := NewMovieRepository(newTestDB(t))

	movie := &model.Movie{UserID: 1, Title: "Inception", Rating: floatPtr(9.0)}
	if err := repo.Create(movie); err != nil {
		t.Fatalf("create: %v", err)
	}

	// 其他用户即使拿到合法 ID 也读不到
	got, err := repo.FindByID(2, movie.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != nil {
		t.Fatalf("cross-owner find returned %+v, want nil", got)
	}

	rows, err := repo.UpdateFields(2, movie.ID, map[string]interface{}{"rating": 1.0})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if rows != 0 {
		t.Fatalf("cross-owner update affected %d rows, want 0", rows)
	}

	rows, err = repo.Delete(2, movie.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rows != 0 {
		t.Fatalf("cross-owner delete affected %d rows, want 0", rows)
	}
}

func TestMovieDeleteTwice(t *testing.T) {
	repo := NewMovieRepository(newTestDB(t))

	movie := &model.Movie{UserID: 1, Title: "Cats"}
	if err := repo.Create(movie); err != nil {
		t.Fatalf("create: %v", err)
	}

	rows, err := repo.Delete(1, movie.ID)
	if err != nil || rows != 1 {
		t.Fatalf("first delete rows = %d, err = %v", rows, err)
	}
	rows, err = repo.Delete(1, movie.ID)
	if err != nil || rows != 0 {
		t.Fatalf("second delete rows = %d, err = %v", rows, err)
	}

	count, err := repo.CountByUser(1)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("count = %d, want 0", count)
	}
}

func TestMovieUpdateFieldsLeavesOthersUntouched(t *testing.T) {
	repo := NewMovieRepository(newTestDB(t))

	movie := &model.Movie{UserID: 1, Title: "Inception", Year: 2010, Description: "dreams"}
	if err := repo.Create(movie); err != nil {
		t.Fatalf("create: %v", err)
	}

	rows, err := repo.UpdateFields(1, movie.ID, map[string]interface{}{
		"rating": 9.0,
		"review": "great",
	})
	if err != nil || rows != 1 {
		t.Fatalf("update rows = %d, err = %v", rows, err)
	}

	got, err := repo.FindByID(1, movie.ID)
	if err != nil || got == nil {
		t.Fatalf("find: %v", err)
	}
	if got.Rating == nil || *got.Rating != 9.0 {
		t.Fatalf("rating = %v, want 9.0", got.Rating)
	}
	if got.Review == nil || *got.Review != "great" {
		t.Fatalf("review = %v, want great", got.Review)
	}
	if got.Title != "Inception" || got.Year != 2010 || got.Description != "dreams" {
		t.Fatalf("immutable fields changed: %+v", got)
	}
}

func TestMovieUpdateRankingsBatch(t *testing.T) {
	repo := NewMovieRepository(newTestDB(t))

	a := &model.Movie{UserID: 1, Title: "Inception", Rating: floatPtr(9.0)}
	b := &model.Movie{UserID: 1, Title: "Cats", Rating: floatPtr(2.0)}
	for _, m := range []*model.Movie{a, b} {
		if err := repo.Create(m); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	updates := []RankUpdate{{ID: a.ID, Ranking: 1}, {ID: b.ID, Ranking: 2}}
	if err := repo.UpdateRankings(updates); err != nil {
		t.Fatalf("update rankings: %v", err)
	}

	got, _ := repo.FindByID(1, b.ID)
	if got.Ranking == nil || *got.Ranking != 2 {
		t.Fatalf("ranking = %v, want 2", got.Ranking)
	}

	// 空变更集不应报错
	if err := repo.UpdateRankings(nil); err != nil {
		t.Fatalf("empty updates: %v", err)
	}
}
