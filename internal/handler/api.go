package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/movierank/internal/middleware"
	"github.com/user/movierank/internal/model"
	"github.com/user/movierank/internal/service"
	"github.com/user/movierank/internal/utils"
)

// ==================== JSON API ====================

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=2,max=20"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Password2 string `json:"password2" binding:"required,min=8"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest 刷新令牌请求
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// APIRegister 注册并返回令牌对
func (h *Handler) APIRegister(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数格式不正确")
		return
	}

	if req.Password != req.Password2 {
		utils.BadRequest(c, "两次输入的密码不一致")
		return
	}

	if existing, _ := h.Repos.User.FindByUsername(req.Username); existing != nil {
		utils.BadRequest(c, "该用户名已被使用")
		return
	}
	if existing, _ := h.Repos.User.FindByEmail(req.Email); existing != nil {
		utils.BadRequest(c, "该邮箱已被注册")
		return
	}

	user, err := h.Repos.User.Create(req.Email, req.Username, req.Password)
	if err != nil {
		utils.InternalServerError(c, "注册失败，请重试")
		return
	}

	h.respondWithTokens(c, user, "注册成功")
}

// APILogin 登录并返回令牌对
func (h *Handler) APILogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "请提供用户名和密码")
		return
	}

	// 兼容用用户名或邮箱登录
	user, err := h.Repos.User.FindByUsername(req.Username)
	if err == nil && user == nil && strings.Contains(req.Username, "@") {
		user, err = h.Repos.User.FindByEmail(req.Username)
	}
	if err != nil || user == nil || !h.Repos.User.CheckPassword(user, req.Password) {
		utils.Unauthorized(c, "用户名或密码错误")
		return
	}

	h.respondWithTokens(c, user, "登录成功")
}

// APITokenRefresh 用刷新令牌换取新的访问令牌
func (h *Handler) APITokenRefresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "请提供刷新令牌")
		return
	}

	claims, err := middleware.ParseToken(req.Refresh, h.Config.AppSecret)
	if err != nil || claims.TokenType != "refresh" {
		utils.Unauthorized(c, "刷新令牌无效")
		return
	}

	access, err := middleware.GenerateToken(claims.UserID, claims.Email, claims.Role, h.Config.AppSecret, h.Config.JWTExpiry)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	utils.Success(c, gin.H{"access": access})
}

// APICurrentUser 当前登录用户
func (h *Handler) APICurrentUser(c *gin.Context) {
	user, err := h.Repos.User.FindByID(middleware.GetUserID(c))
	if err != nil || user == nil {
		utils.Unauthorized(c, "")
		return
	}
	utils.Success(c, user)
}

func (h *Handler) respondWithTokens(c *gin.Context, user *model.User, message string) {
	access, err := middleware.GenerateToken(user.ID, user.Email, user.Role, h.Config.AppSecret, h.Config.JWTExpiry)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	refresh, err := middleware.GenerateRefreshToken(user.ID, user.Email, user.Role, h.Config.AppSecret, h.Config.RefreshExpiry)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	utils.SuccessWithMessage(c, message, gin.H{
		"user":    user,
		"access":  access,
		"refresh": refresh,
	})
}

// ==================== 片单 API ====================

// CreateMovieRequest 创建电影请求（导入回填路径）
type CreateMovieRequest struct {
	Title       string `json:"title" binding:"required,max=250"`
	Year        int    `json:"year"`
	Description string `json:"description" binding:"max=1000"`
	ImgURL      string `json:"img_url"`
}

// UpdateMovieRequest 更新请求，只接受评分和短评
type UpdateMovieRequest struct {
	Rating *float64 `json:"rating" binding:"omitempty,gte=0,lte=10"`
	Review *string  `json:"review" binding:"omitempty,max=250"`
}

// APIMovieList 片单列表（返回名次已刷新的有序序列）
func (h *Handler) APIMovieList(c *gin.Context) {
	movies, err := h.Movies.List(middleware.GetUserID(c))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.Success(c, movies)
}

// APIMovieCreate 创建电影
func (h *Handler) APIMovieCreate(c *gin.Context) {
	var req CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数格式不正确")
		return
	}

	movie, err := h.Movies.Create(middleware.GetUserID(c), service.CreateMovieInput{
		Title:       req.Title,
		Year:        req.Year,
		Description: req.Description,
		ImgURL:      req.ImgURL,
	})
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, movie)
}

// APIMovieDetail 单条记录
func (h *Handler) APIMovieDetail(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	movie, err := h.Movies.Get(middleware.GetUserID(c), id)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.Success(c, movie)
}

// APIMovieUpdate 更新评分/短评（PUT 与 PATCH 等价）
func (h *Handler) APIMovieUpdate(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var req UpdateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数格式不正确")
		return
	}

	movie, err := h.Movies.Update(middleware.GetUserID(c), id, service.UpdateMovieInput{
		Rating: req.Rating,
		Review: req.Review,
	})
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.Success(c, movie)
}

// APIMovieDelete 删除记录
func (h *Handler) APIMovieDelete(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	if err := h.Movies.Delete(middleware.GetUserID(c), id); err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.SuccessWithMessage(c, "已删除", nil)
}

// APISearchTMDB 片库搜索
func (h *Handler) APISearchTMDB(c *gin.Context) {
	results, err := h.Catalog.Search(c.Query("title"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.Success(c, results)
}

// APIFetchTMDBDetails 片库详情预览（含重复预检，不落库）
func (h *Handler) APIFetchTMDBDetails(c *gin.Context) {
	preview, err := h.Importer.Preview(middleware.GetUserID(c), c.Query("id"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.Success(c, preview)
}
