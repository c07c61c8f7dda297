package service

import (
	"github.com/user/movierank/internal/apperror"
	"github.com/user/movierank/internal/config"
	"github.com/user/movierank/internal/model"
	"github.com/user/movierank/internal/repository"
)

// ImportService 导入流水线：把片库详情落地为用户自己的电影记录
type ImportService struct {
	catalog   *CatalogService
	movies    *MovieService
	movieRepo *repository.MovieRepository
	imgBase   string
}

func NewImportService(catalog *CatalogService, movies *MovieService, movieRepo *repository.MovieRepository, cfg *config.Config) *ImportService {
	return &ImportService{
		catalog:   catalog,
		movies:    movies,
		movieRepo: movieRepo,
		imgBase:   cfg.TMDBImgURL,
	}
}

// ImportPreview 导入前的字段预览（API 的 fetch_tmdb_details 返回它，不落库）
type ImportPreview struct {
	Title       string `json:"title"`
	Year        int    `json:"year"`
	Description string `json:"description"`
	ImgURL      string `json:"img_url"`
}

// Preview 拉取详情并做重复预检，不创建记录
func (s *ImportService) Preview(ownerID int, catalogID string) (*ImportPreview, error) {
	detail, err := s.catalog.FetchDetails(catalogID)
	if err != nil {
		return nil, err
	}

	imgURL := ""
	if detail.PosterPath != "" {
		imgURL = s.imgBase + detail.PosterPath
	}

	// 预检只是为了友好提示，最终以存储层唯一约束为准
	exists, err := s.movieRepo.TitleExists(ownerID, detail.Title)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.New(apperror.AlreadyExists, "这部电影已在你的片单中")
	}

	return &ImportPreview{
		Title:       detail.Title,
		Year:        detail.Year,
		Description: detail.Overview,
		ImgURL:      imgURL,
	}, nil
}

// Import 拉取详情并创建记录，评分/名次/短评均为空
// 并发导入撞上唯一约束时同样按 AlreadyExists 返回
func (s *ImportService) Import(ownerID int, catalogID string) (*model.Movie, error) {
	preview, err := s.Preview(ownerID, catalogID)
	if err != nil {
		return nil, err
	}

	movie, err := s.movies.Create(ownerID, CreateMovieInput{
		Title:       preview.Title,
		Year:        preview.Year,
		Description: preview.Description,
		ImgURL:      preview.ImgURL,
	})
	if err != nil {
		if apperror.Is(err, apperror.DuplicateTitle) {
			return nil, apperror.New(apperror.AlreadyExists, "这部电影已在你的片单中")
		}
		return nil, err
	}

	return movie, nil
}
