package handler

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/user/movierank/internal/apperror"
	"github.com/user/movierank/internal/config"
	"github.com/user/movierank/internal/middleware"
	"github.com/user/movierank/internal/model"
	"github.com/user/movierank/internal/repository"
	"github.com/user/movierank/internal/service"
)

// Handler HTTP 处理器
type Handler struct {
	Repos    *repository.Repositories
	Config   *config.Config
	Movies   *service.MovieService
	Catalog  *service.CatalogService
	Importer *service.ImportService
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config) *Handler {
	movies := service.NewMovieService(repos.Movie)
	catalog := service.NewCatalogService(cfg)
	importer := service.NewImportService(catalog, movies, repos.Movie, cfg)

	return &Handler{
		Repos:    repos,
		Config:   cfg,
		Movies:   movies,
		Catalog:  catalog,
		Importer: importer,
	}
}

// RenderData 统一封装公共渲染数据
func (h *Handler) RenderData(c *gin.Context, data gin.H) gin.H {
	// 基础数据
	res := gin.H{
		"SiteName": h.Config.SiteName,
		"SiteUrl":  h.Config.SiteUrl,
		"Path":     c.Request.URL.Path,
	}

	// 注入用户信息
	session := sessions.Default(c)
	if userinfo := session.Get("userinfo"); userinfo != nil {
		if su, ok := userinfo.(model.SessionUser); ok {
			res["UserInfo"] = su
		}
	}

	// 合并传入的数据
	for k, v := range data {
		res[k] = v
	}

	return res
}

// ==================== 片单页面 ====================

// Home 首页：用户片单，按评分降序并刷新名次
func (h *Handler) Home(c *gin.Context) {
	userID := middleware.GetUserID(c)

	movies, err := h.Movies.List(userID)
	if err != nil {
		log.Printf("[片单] 列表读取失败 (UserID: %d): %v", userID, err)
		c.HTML(http.StatusInternalServerError, "home.html", h.RenderData(c, gin.H{
			"Title": h.Config.SiteName,
			"Error": "片单加载失败，请稍后重试",
		}))
		return
	}

	c.HTML(http.StatusOK, "home.html", h.RenderData(c, gin.H{
		"Title":  h.Config.SiteName + " - 我的片单",
		"Movies": movies,
	}))
}

// AddPage 搜索表单页
func (h *Handler) AddPage(c *gin.Context) {
	c.HTML(http.StatusOK, "add.html", h.RenderData(c, gin.H{
		"Title": "添加电影 - " + h.Config.SiteName,
	}))
}

// AddSearch 按片名搜索片库，渲染候选列表
func (h *Handler) AddSearch(c *gin.Context) {
	title := strings.TrimSpace(c.PostForm("title"))

	results, err := h.Catalog.Search(title)
	if err != nil {
		c.HTML(http.StatusOK, "add.html", h.RenderData(c, gin.H{
			"Title": "添加电影 - " + h.Config.SiteName,
			"Error": apperror.From(err).Message,
		}))
		return
	}

	c.HTML(http.StatusOK, "select.html", h.RenderData(c, gin.H{
		"Title":   "选择电影 - " + h.Config.SiteName,
		"Keyword": title,
		"Choices": results,
	}))
}

// FindMovie 按片库 ID 导入电影，成功后跳转到编辑页补充评分
func (h *Handler) FindMovie(c *gin.Context) {
	userID := middleware.GetUserID(c)
	catalogID := c.Query("id")
	if catalogID == "" {
		c.Redirect(http.StatusFound, "/movies/add")
		return
	}

	movie, err := h.Importer.Import(userID, catalogID)
	if err != nil {
		c.HTML(http.StatusOK, "add.html", h.RenderData(c, gin.H{
			"Title": "添加电影 - " + h.Config.SiteName,
			"Error": apperror.From(err).Message,
		}))
		return
	}

	c.Redirect(http.StatusFound, "/movies/"+strconv.Itoa(movie.ID)+"/edit")
}

// EditPage 编辑页（仅评分和短评可改）
func (h *Handler) EditPage(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.Atoi(c.Param("id"))

	movie, err := h.Movies.Get(userID, id)
	if err != nil {
		c.HTML(http.StatusNotFound, "404.html", h.RenderData(c, gin.H{
			"Title": "电影未找到 - " + h.Config.SiteName,
		}))
		return
	}

	c.HTML(http.StatusOK, "edit.html", h.RenderData(c, gin.H{
		"Title": "编辑 " + movie.Title + " - " + h.Config.SiteName,
		"Movie": movie,
	}))
}

// Edit 提交评分/短评
func (h *Handler) Edit(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.Atoi(c.Param("id"))

	var input service.UpdateMovieInput
	if ratingStr := strings.TrimSpace(c.PostForm("rating")); ratingStr != "" {
		rating, err := strconv.ParseFloat(ratingStr, 64)
		if err != nil {
			h.renderEditError(c, userID, id, "评分格式不正确")
			return
		}
		input.Rating = &rating
	}
	review := c.PostForm("review")
	input.Review = &review

	if _, err := h.Movies.Update(userID, id, input); err != nil {
		if apperror.Is(err, apperror.NotFound) {
			c.HTML(http.StatusNotFound, "404.html", h.RenderData(c, gin.H{
				"Title": "电影未找到 - " + h.Config.SiteName,
			}))
			return
		}
		h.renderEditError(c, userID, id, apperror.From(err).Message)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) renderEditError(c *gin.Context, userID, id int, message string) {
	movie, _ := h.Movies.Get(userID, id)
	c.HTML(http.StatusOK, "edit.html", h.RenderData(c, gin.H{
		"Title": "编辑电影 - " + h.Config.SiteName,
		"Movie": movie,
		"Error": message,
	}))
}

// DeletePage 删除确认页
func (h *Handler) DeletePage(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.Atoi(c.Param("id"))

	movie, err := h.Movies.Get(userID, id)
	if err != nil {
		c.HTML(http.StatusNotFound, "404.html", h.RenderData(c, gin.H{
			"Title": "电影未找到 - " + h.Config.SiteName,
		}))
		return
	}

	c.HTML(http.StatusOK, "confirm_delete.html", h.RenderData(c, gin.H{
		"Title": "删除 " + movie.Title + " - " + h.Config.SiteName,
		"Movie": movie,
	}))
}

// Delete 删除电影
func (h *Handler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.Atoi(c.Param("id"))

	if err := h.Movies.Delete(userID, id); err != nil {
		c.HTML(http.StatusNotFound, "404.html", h.RenderData(c, gin.H{
			"Title": "电影未找到 - " + h.Config.SiteName,
		}))
		return
	}

	c.Redirect(http.StatusFound, "/")
}
