package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/user/movierank/internal/apperror"
	"github.com/user/movierank/internal/config"
	"github.com/user/movierank/internal/model"
	"golang.org/x/sync/singleflight"
)

// CatalogService TMDB 片库客户端
// 单次请求，不重试不缓存；超时由调用边界通过配置决定
type CatalogService struct {
	config *config.Config
	client *http.Client
	group  singleflight.Group
}

func NewCatalogService(cfg *config.Config) *CatalogService {
	return &CatalogService{
		config: cfg,
		client: &http.Client{
			Timeout: cfg.TMDBTimeout,
		},
	}
}

type tmdbSearchResponse struct {
	Results []model.CatalogSearchResult `json:"results"`
}

// Search 按片名搜索片库
func (s *CatalogService) Search(query string) ([]model.CatalogSearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperror.New(apperror.InvalidRequest, "请输入电影名称")
	}

	params := url.Values{}
	params.Set("api_key", s.config.TMDBAPIKey)
	params.Set("query", query)

	var result tmdbSearchResponse
	if err := s.getJSON(s.config.TMDBSearchURL+"?"+params.Encode(), &result); err != nil {
		return nil, err
	}

	return result.Results, nil
}

type tmdbDetailsResponse struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Overview    string `json:"overview"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
}

// FetchDetails 获取片库详情
// 缺失或畸形的上映日期不算错误，年份回退为 0
func (s *CatalogService) FetchDetails(catalogID string) (*model.CatalogMovie, error) {
	if strings.TrimSpace(catalogID) == "" {
		return nil, apperror.New(apperror.InvalidRequest, "请提供电影 ID")
	}

	// singleflight 合并并发的同 ID 请求
	val, err, _ := s.group.Do(catalogID, func() (interface{}, error) {
		return s.fetchDetails(catalogID)
	})
	if err != nil {
		return nil, err
	}
	return val.(*model.CatalogMovie), nil
}

func (s *CatalogService) fetchDetails(catalogID string) (*model.CatalogMovie, error) {
	params := url.Values{}
	params.Set("api_key", s.config.TMDBAPIKey)
	params.Set("language", "en-US")

	reqURL := fmt.Sprintf("%s/%s?%s", s.config.TMDBMovieURL, url.PathEscape(catalogID), params.Encode())

	var detail tmdbDetailsResponse
	if err := s.getJSON(reqURL, &detail); err != nil {
		return nil, err
	}

	return &model.CatalogMovie{
		CatalogID:  catalogID,
		Title:      detail.Title,
		Year:       ParseYear(detail.ReleaseDate),
		Overview:   detail.Overview,
		PosterPath: detail.PosterPath,
	}, nil
}

func (s *CatalogService) getJSON(reqURL string, target interface{}) error {
	resp, err := s.client.Get(reqURL)
	if err != nil {
		return apperror.Wrap(apperror.Upstream, "片库请求失败", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperror.New(apperror.Upstream, fmt.Sprintf("片库返回异常状态码: %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return apperror.Wrap(apperror.Upstream, "片库响应解析失败", err)
	}

	return nil
}

// ParseYear 取上映日期开头的 4 位数字作为年份，解析失败返回 0
func ParseYear(releaseDate string) int {
	if len(releaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(releaseDate[:4])
	if err != nil || year < 0 {
		return 0
	}
	return year
}
