package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/user/movierank/internal/apperror"
	"github.com/user/movierank/internal/config"
	"github.com/user/movierank/internal/repository"
)

func newImportFixture(t *testing.T, detailBody string) (*ImportService, *repository.Repositories) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(detailBody))
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		TMDBAPIKey:    "test-key",
		TMDBSearchURL: srv.URL,
		TMDBMovieURL:  srv.URL,
		TMDBImgURL:    "https://image.tmdb.org/t/p/w500",
		TMDBTimeout:   5 * time.Second,
	}

	repos := newTestRepos(t)
	movies := NewMovieService(repos.Movie)
	catalog := NewCatalogService(cfg)
	return NewImportService(catalog, movies, repos.Movie, cfg), repos
}

func TestImportCreatesUnratedMovie(t *testing.T) {
	importer, _ := newImportFixture(t, `{"id":27205,"title":"Inception","overview":"dreams","release_date":"2010-07-15","poster_path":"/abc.jpg"}`)

	movie, err := importer.Import(1, "27205")
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if movie.Title != "Inception" || movie.Year != 2010 || movie.Description != "dreams" {
		t.Fatalf("movie = %+v", movie)
	}
	if movie.ImgURL != "https://image.tmdb.org/t/p/w500/abc.jpg" {
		t.Fatalf("img url = %q", movie.ImgURL)
	}
	if movie.Rating != nil || movie.Ranking != nil || movie.Review != nil {
		t.Fatalf("imported movie must be unrated: %+v", movie)
	}
}

func TestImportTwiceFailsAlreadyExists(t *testing.T) {
	importer, repos := newImportFixture(t, `{"id":27205,"title":"Inception","overview":"dreams","release_date":"2010-07-15","poster_path":"/abc.jpg"}`)

	if _, err := importer.Import(1, "27205"); err != nil {
		t.Fatalf("first import: %v", err)
	}
	if _, err := importer.Import(1, "27205"); !apperror.Is(err, apperror.AlreadyExists) {
		t.Fatalf("second import err = %v, want AlreadyExists", err)
	}

	count, _ := repos.Movie.CountByUser(1)
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}

	// 另一个用户仍可导入同一部电影
	if _, err := importer.Import(2, "27205"); err != nil {
		t.Fatalf("import for another user: %v", err)
	}
}

func TestImportWithoutPosterLeavesImgURLEmpty(t *testing.T) {
	importer, _ := newImportFixture(t, `{"id":600,"title":"Obscure","overview":"","release_date":""}`)

	movie, err := importer.Import(1, "600")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if movie.ImgURL != "" {
		t.Fatalf("img url = %q, want empty", movie.ImgURL)
	}
	if movie.Year != 0 {
		t.Fatalf("year = %d, want 0", movie.Year)
	}
}

func TestPreviewDoesNotCreate(t *testing.T) {
	importer, repos := newImportFixture(t, `{"id":27205,"title":"Inception","overview":"dreams","release_date":"2010-07-15","poster_path":"/abc.jpg"}`)

	preview, err := importer.Preview(1, "27205")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview.Title != "Inception" || preview.Year != 2010 {
		t.Fatalf("preview = %+v", preview)
	}

	count, _ := repos.Movie.CountByUser(1)
	if count != 0 {
		t.Fatalf("preview must not create, count = %d", count)
	}
}

func TestPreviewDetectsExisting(t *testing.T) {
	importer, _ := newImportFixture(t, `{"id":27205,"title":"Inception","overview":"dreams","release_date":"2010-07-15","poster_path":"/abc.jpg"}`)

	if _, err := importer.Import(1, "27205"); err != nil {
		t.Fatalf("import: %v", err)
	}
	if _, err := importer.Preview(1, "27205"); !apperror.Is(err, apperror.AlreadyExists) {
		t.Fatalf("err = %v, want AlreadyExists", err)
	}
}

func TestImportUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		TMDBAPIKey:    "test-key",
		TMDBSearchURL: srv.URL,
		TMDBMovieURL:  srv.URL,
		TMDBImgURL:    "https://image.tmdb.org/t/p/w500",
		TMDBTimeout:   5 * time.Second,
	}
	repos := newTestRepos(t)
	movies := NewMovieService(repos.Movie)
	importer := NewImportService(NewCatalogService(cfg), movies, repos.Movie, cfg)

	if _, err := importer.Import(1, "27205"); !apperror.Is(err, apperror.Upstream) {
		t.Fatalf("err = %v, want Upstream", err)
	}
}
