package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config 应用配置
type Config struct {
	Env           string
	AppSecret     string
	DatabaseURL   string
	JWTExpiry     time.Duration
	RefreshExpiry time.Duration
	Port          string
	SiteName      string
	SiteUrl       string

	// TMDB 片库
	TMDBAPIKey    string
	TMDBSearchURL string
	TMDBMovieURL  string
	TMDBImgURL    string
	TMDBTimeout   time.Duration
}

// Load 加载配置
func Load() *Config {
	expiryHours, _ := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", "72"))
	refreshHours, _ := strconv.Atoi(getEnv("REFRESH_EXPIRY_HOURS", "168"))
	tmdbTimeout, _ := strconv.Atoi(getEnv("TMDB_TIMEOUT_SECONDS", "10"))

	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "movierank")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)

	appSecret := getEnv("APP_SECRET", getEnv("JWT_SECRET", "your-secret-key-change-in-production"))

	if getEnv("APP_ENV", "development") == "production" && appSecret == "your-secret-key-change-in-production" {
		fmt.Println("【严重警告】生产环境正在使用默认密钥！请立即设置 APP_SECRET 环境变量。")
	}

	return &Config{
		Env:           getEnv("APP_ENV", "development"),
		AppSecret:     appSecret,
		DatabaseURL:   dbURL,
		JWTExpiry:     time.Duration(expiryHours) * time.Hour,
		RefreshExpiry: time.Duration(refreshHours) * time.Hour,
		Port:          getEnv("PORT", "5005"),
		SiteName:      getEnv("SITE_NAME", "MovieRank"),
		SiteUrl:       getEnv("SITE_URL", "http://localhost:5005"),
		TMDBAPIKey:    getEnv("TMDB_API_KEY", ""),
		TMDBSearchURL: getEnv("TMDB_SEARCH_URL", "https://api.themoviedb.org/3/search/movie"),
		TMDBMovieURL:  getEnv("TMDB_MOVIE_URL", "https://api.themoviedb.org/3/movie"),
		TMDBImgURL:    getEnv("TMDB_IMG_URL", "https://image.tmdb.org/t/p/w500"),
		TMDBTimeout:   time.Duration(tmdbTimeout) * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
