package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/user/movierank/internal/apperror"
	"github.com/user/movierank/internal/model"
	"github.com/user/movierank/internal/repository"
	"gorm.io/gorm"
)

// 字段长度/范围限制，长度按字符数计，不按字节数
const (
	MaxTitleLen       = 250
	MaxDescriptionLen = 1000
	MaxReviewLen      = 250
)

// MovieService 片单核心服务
// 所有操作显式携带 ownerID，不读任何请求级环境状态
type MovieService struct {
	movieRepo *repository.MovieRepository
}

func NewMovieService(movieRepo *repository.MovieRepository) *MovieService {
	return &MovieService{movieRepo: movieRepo}
}

// CreateMovieInput 创建电影的输入字段
type CreateMovieInput struct {
	Title       string
	Year        int
	Description string
	ImgURL      string
	Rating      *float64
	Review      *string
}

// UpdateMovieInput 编辑流程只开放评分和短评
type UpdateMovieInput struct {
	Rating *float64
	Review *string
}

// Create 为用户创建电影记录
func (s *MovieService) Create(ownerID int, in CreateMovieInput) (*model.Movie, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperror.New(apperror.Validation, "片名不能为空")
	}
	if utf8.RuneCountInString(in.Title) > MaxTitleLen {
		return nil, apperror.New(apperror.Validation, "片名过长")
	}
	if utf8.RuneCountInString(in.Description) > MaxDescriptionLen {
		return nil, apperror.New(apperror.Validation, "简介过长")
	}
	if err := validateRatingReview(in.Rating, in.Review); err != nil {
		return nil, err
	}

	movie := &model.Movie{
		UserID:      ownerID,
		Title:       in.Title,
		Year:        in.Year,
		Description: in.Description,
		ImgURL:      in.ImgURL,
		Rating:      in.Rating,
		Review:      in.Review,
	}

	if err := s.movieRepo.Create(movie); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Wrap(apperror.DuplicateTitle, "片单中已存在同名电影", err)
		}
		return nil, err
	}

	return movie, nil
}

// Get 按归属读取单条记录
func (s *MovieService) Get(ownerID, id int) (*model.Movie, error) {
	movie, err := s.movieRepo.FindByID(ownerID, id)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, apperror.New(apperror.NotFound, "电影不存在")
	}
	return movie, nil
}

// Update 更新评分/短评，其余字段不受编辑流程影响
func (s *MovieService) Update(ownerID, id int, in UpdateMovieInput) (*model.Movie, error) {
	if err := validateRatingReview(in.Rating, in.Review); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Rating != nil {
		fields["rating"] = *in.Rating
	}
	if in.Review != nil {
		fields["review"] = *in.Review
	}

	if len(fields) > 0 {
		rows, err := s.movieRepo.UpdateFields(ownerID, id, fields)
		if err != nil {
			return nil, err
		}
		if rows == 0 {
			return nil, apperror.New(apperror.NotFound, "电影不存在")
		}
	}

	return s.Get(ownerID, id)
}

// Delete 删除记录，硬删除
func (s *MovieService) Delete(ownerID, id int) error {
	rows, err := s.movieRepo.Delete(ownerID, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperror.New(apperror.NotFound, "电影不存在")
	}
	return nil
}

// List 返回用户的完整片单并重算名次
// 名次是读取时的派生值：有变化的行批量落库后返回内存中的最新列表
func (s *MovieService) List(ownerID int) ([]*model.Movie, error) {
	movies, err := s.movieRepo.ListByUser(ownerID)
	if err != nil {
		return nil, err
	}

	if updates := ComputeRankings(movies); len(updates) > 0 {
		if err := s.movieRepo.UpdateRankings(updates); err != nil {
			return nil, err
		}
	}

	return movies, nil
}

func validateRatingReview(rating *float64, review *string) error {
	if rating != nil && (*rating < 0 || *rating > 10) {
		return apperror.New(apperror.Validation, "评分必须在 0 到 10 之间")
	}
	if review != nil && utf8.RuneCountInString(*review) > MaxReviewLen {
		return apperror.New(apperror.Validation, "短评过长")
	}
	return nil
}
