package router

import (
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	"github.com/user/movierank/internal/handler"
	"github.com/user/movierank/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ==================== 认证页面 ====================
	auth := r.Group("/auth")
	auth.Use(middleware.OptionalAuth(h.Config.AppSecret))
	{
		auth.GET("/login", h.LoginPage)
		auth.POST("/login", h.Login)
		auth.GET("/register", h.RegisterPage)
		auth.POST("/register", h.Register)
		auth.POST("/logout", h.Logout)
	}

	// ==================== 片单页面（需要登录）====================
	pages := r.Group("/")
	pages.Use(middleware.RequireAuth(h.Config.AppSecret))
	{
		pages.GET("", h.Home)
		pages.GET("/movies/add", h.AddPage)
		pages.POST("/movies/add", h.AddSearch)
		pages.GET("/movies/find", h.FindMovie)
		pages.GET("/movies/:id/edit", h.EditPage)
		pages.POST("/movies/:id/edit", h.Edit)
		pages.GET("/movies/:id/delete", h.DeletePage)
		pages.POST("/movies/:id/delete", h.Delete)
	}

	// ==================== JSON API ====================
	api := r.Group("/api")
	{
		api.POST("/register", h.APIRegister)
		api.POST("/login", h.APILogin)
		api.POST("/token/refresh", h.APITokenRefresh)

		authed := api.Group("")
		authed.Use(middleware.RequireAuth(h.Config.AppSecret))
		{
			authed.GET("/user", h.APICurrentUser)

			// 静态路径要先于 :id 注册
			authed.GET("/movies/search_tmdb", h.APISearchTMDB)
			authed.GET("/movies/fetch_tmdb_details", h.APIFetchTMDBDetails)

			authed.GET("/movies", h.APIMovieList)
			authed.POST("/movies", h.APIMovieCreate)
			authed.GET("/movies/:id", h.APIMovieDetail)
			authed.PUT("/movies/:id", h.APIMovieUpdate)
			authed.PATCH("/movies/:id", h.APIMovieUpdate)
			authed.DELETE("/movies/:id", h.APIMovieDelete)
		}
	}
}

// LoadTemplates 使用 multitemplate 加载模板，解决模板继承问题
func LoadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	// 获取布局和局部模板
	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	partials, err := filepath.Glob(templatesDir + "/partials/*.html")
	if err != nil {
		panic(err)
	}

	// 组装模板文件列表
	assemble := func(view string) []string {
		files := make([]string, 0)
		files = append(files, layouts...)
		files = append(files, partials...)
		files = append(files, view)
		return files
	}

	// 模板函数
	funcMap := template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"default": func(defaultValue, value interface{}) interface{} {
			switch v := value.(type) {
			case string:
				if v == "" {
					return defaultValue
				}
			case int:
				if v == 0 {
					return defaultValue
				}
			case nil:
				return defaultValue
			}
			return value
		},
	}

	// 注册所有页面模板
	pages := []string{
		"home", "add", "select", "edit", "confirm_delete",
		"login", "register", "404",
	}

	for _, page := range pages {
		viewPath := templatesDir + "/pages/" + page + ".html"
		r.AddFromFilesFuncs(page+".html", funcMap, assemble(viewPath)...)
	}

	return r
}
