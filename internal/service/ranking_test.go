package service

import (
	"testing"

	"github.com/user/movierank/internal/model"
)

func intPtr(v int) *int { return &v }

func TestComputeRankingsAssignsContiguousSequence(t *testing.T) {
	movies := []*model.Movie{
		{ID: 10, Title: "Inception", Rating: floatPtr(9.0)},
		{ID: 11, Title: "Cats", Rating: floatPtr(2.0)},
		{ID: 12, Title: "Unrated"},
	}

	updates := ComputeRankings(movies)

	if len(updates) != 3 {
		t.Fatalf("updates = %d, want 3", len(updates))
	}
	for i, m := range movies {
		if m.Ranking == nil || *m.Ranking != i+1 {
			t.Fatalf("movies[%d].Ranking = %v, want %d", i, m.Ranking, i+1)
		}
	}
}

func TestComputeRankingsDiffsAgainstStoredValues(t *testing.T) {
	movies := []*model.Movie{
		{ID: 1, Ranking: intPtr(1)},
		{ID: 2, Ranking: intPtr(3)}, // 失效名次
		{ID: 3},                     // 还没有名次
	}

	updates := ComputeRankings(movies)

	if len(updates) != 2 {
		t.Fatalf("updates = %d, want 2", len(updates))
	}
	if updates[0].ID != 2 || updates[0].Ranking != 2 {
		t.Fatalf("updates[0] = %+v, want {2 2}", updates[0])
	}
	if updates[1].ID != 3 || updates[1].Ranking != 3 {
		t.Fatalf("updates[1] = %+v, want {3 3}", updates[1])
	}
}

func TestComputeRankingsEmptyList(t *testing.T) {
	if updates := ComputeRankings(nil); len(updates) != 0 {
		t.Fatalf("updates = %d, want 0", len(updates))
	}
}

func TestComputeRankingsSingleMovie(t *testing.T) {
	movies := []*model.Movie{{ID: 1}}
	ComputeRankings(movies)
	if movies[0].Ranking == nil || *movies[0].Ranking != 1 {
		t.Fatalf("ranking = %v, want 1", movies[0].Ranking)
	}
}

func TestComputeRankingsAllUnratedKeepInsertionOrder(t *testing.T) {
	movies := []*model.Movie{{ID: 1}, {ID: 2}, {ID: 3}}

	updates := ComputeRankings(movies)

	if len(updates) != 3 {
		t.Fatalf("updates = %d, want 3", len(updates))
	}
	for i, u := range updates {
		if u.ID != i+1 || u.Ranking != i+1 {
			t.Fatalf("updates[%d] = %+v", i, u)
		}
	}
}
