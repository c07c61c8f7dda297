package service

import (
	"github.com/user/movierank/internal/model"
	"github.com/user/movierank/internal/repository"
)

// ComputeRankings 对已按评分排序的列表按位置赋名次（1..N）
// 就地更新内存中的 Ranking，并返回与库中值不一致、需要落库的行
func ComputeRankings(movies []*model.Movie) []repository.RankUpdate {
	var updates []repository.RankUpdate

	for i, movie := range movies {
		rank := i + 1
		if movie.Ranking != nil && *movie.Ranking == rank {
			continue
		}
		r := rank
		movie.Ranking = &r
		updates = append(updates, repository.RankUpdate{ID: movie.ID, Ranking: rank})
	}

	return updates
}
