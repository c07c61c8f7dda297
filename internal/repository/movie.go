package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/user/movierank/internal/model"
	"gorm.io/gorm"
)

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// RankUpdate 单条名次变更
type RankUpdate struct {
	ID      int
	Ranking int
}

// Create 创建电影记录
// (user_id, title) 冲突时返回 gorm.ErrDuplicatedKey（由 TranslateError 统一）
func (r *MovieRepository) Create(movie *model.Movie) error {
	now := time.Now()
	if movie.CreatedAt.IsZero() {
		movie.CreatedAt = now
	}
	movie.UpdatedAt = now
	return r.db.Create(movie).Error
}

// FindByID 查找指定用户名下的电影
func (r *MovieRepository) FindByID(userID, id int) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.Where("user_id = ? AND id = ?", userID, id).First(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &movie, nil
}

// TitleExists 检查用户是否已收录同名电影（精确匹配，区分大小写）
func (r *MovieRepository) TitleExists(userID int, title string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Movie{}).
		Where("user_id = ? AND title = ?", userID, title).
		Count(&count).Error
	return count > 0, err
}

// ListByUser 返回用户全部电影，按评分降序、未评分靠后、同分按收录顺序
func (r *MovieRepository) ListByUser(userID int) ([]*model.Movie, error) {
	var movies []*model.Movie
	err := r.db.Where("user_id = ?", userID).
		Order("rating DESC NULLS LAST, id ASC").
		Find(&movies).Error
	return movies, err
}

// UpdateFields 更新指定用户名下电影的可变字段，返回受影响行数
func (r *MovieRepository) UpdateFields(userID, id int, fields map[string]interface{}) (int64, error) {
	fields["updated_at"] = time.Now()
	res := r.db.Model(&model.Movie{}).
		Where("user_id = ? AND id = ?", userID, id).
		Updates(fields)
	return res.RowsAffected, res.Error
}

// Delete 删除指定用户名下的电影，返回受影响行数
func (r *MovieRepository) Delete(userID, id int) (int64, error) {
	res := r.db.Where("user_id = ? AND id = ?", userID, id).Delete(&model.Movie{})
	return res.RowsAffected, res.Error
}

// UpdateRankings 批量写入名次变更
// 单条 CASE 语句一次写完，避免逐行往返
func (r *MovieRepository) UpdateRankings(updates []RankUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	var sb strings.Builder
	args := make([]interface{}, 0, len(updates)*3)

	sb.WriteString("UPDATE movies SET ranking = CASE id ")
	for _, u := range updates {
		sb.WriteString("WHEN ? THEN ? ")
		args = append(args, u.ID, u.Ranking)
	}
	sb.WriteString("END WHERE id IN (")
	for i, u := range updates {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("?")
		args = append(args, u.ID)
	}
	sb.WriteString(")")

	return r.db.Exec(sb.String(), args...).Error
}

// CountByUser 用户片单数量
func (r *MovieRepository) CountByUser(userID int) (int64, error) {
	var count int64
	err := r.db.Model(&model.Movie{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
