package model

import (
	"time"
)

// Movie 用户片单里的电影
// (user_id, title) 唯一：同一用户不能重复收录同名电影
type Movie struct {
	ID          int       `json:"id" db:"id"`
	UserID      int       `json:"user_id" db:"user_id" gorm:"uniqueIndex:idx_movies_user_title"`
	Title       string    `json:"title" db:"title" gorm:"size:250;uniqueIndex:idx_movies_user_title"`
	Year        int       `json:"year" db:"year"` // 0 表示年份未知
	Description string    `json:"description" db:"description" gorm:"size:1000"`
	Rating      *float64  `json:"rating" db:"rating" gorm:"index"` // nil 表示尚未评分
	Ranking     *int      `json:"ranking" db:"ranking"`            // 派生字段，每次列表读取时重算
	Review      *string   `json:"review" db:"review" gorm:"size:250"`
	ImgURL      string    `json:"img_url" db:"img_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CatalogSearchResult TMDB 搜索结果条目（轻量，供选择页/前端使用）
type CatalogSearchResult struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	Overview    string `json:"overview"`
	PosterPath  string `json:"poster_path"`
}

// CatalogMovie TMDB 详情，经过规整后用于导入
type CatalogMovie struct {
	CatalogID  string `json:"catalog_id"`
	Title      string `json:"title"`
	Year       int    `json:"year"` // 解析失败时为 0
	Overview   string `json:"overview"`
	PosterPath string `json:"poster_path"`
}
