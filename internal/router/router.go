package router

import (
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/bitjr/site/internal/handler"
	"github.com/bitjr/site/internal/logger"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const (
	sessionName       = "bitjr_session"
	sessionMaxAge     = 24 * 60 * 60
	staticCacheMaxAge = time.Hour
)

// Options 描述路由依赖的路径与会话配置。
type Options struct {
	PublicDir     string
	UploadDir     string
	TemplateGlob  string
	SessionSecret string
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(logger.Middleware(), gin.Recovery())
	r.MaxMultipartMemory = 8 << 20

	// 配置会话中间件
	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{Path: "/", MaxAge: sessionMaxAge, HttpOnly: true})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(noCacheHTML())

	r.SetFuncMap(template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"excerpt": truncate,
	})
	if strings.TrimSpace(opts.TemplateGlob) != "" {
		r.LoadHTMLGlob(opts.TemplateGlob)
	}

	// 静态文件服务
	static := r.Group("/static", cacheFor(staticCacheMaxAge))
	static.Static("/", opts.PublicDir)
	images := r.Group("/images", cacheFor(staticCacheMaxAge))
	images.Static("/", opts.UploadDir)

	r.GET("/healthz", api.HealthCheck)

	// 前台页面
	r.GET("/", api.ShowHome)
	for _, page := range handler.StaticPages {
		r.GET(page.Path, api.ShowStaticPage(page))
	}
	r.GET("/activities/:slug", api.ShowActivity)
	r.GET("/team", api.ShowTeam)
	r.GET("/partners", api.ShowPartners)
	r.GET("/blog", api.ShowBlog)
	r.GET("/blog/:slug", api.ShowBlogPost)
	r.GET("/contact", api.ShowContact)
	r.POST("/contact", api.SubmitContact)
	r.GET("/volunteer", api.ShowVolunteer)
	r.POST("/volunteer", api.SubmitVolunteer)
	r.GET("/donate", api.ShowDonate)
	r.GET("/events", api.ShowEvents)
	r.GET("/events/calendar", api.EventCalendar)
	r.GET("/events/:id/register", api.ShowEventRegister)
	r.POST("/events/:id/register", api.SubmitEventRegister)

	// 后台页面，无需登录
	admin := r.Group("/admin")
	{
		admin.GET("", api.ShowAdminIndex)
		admin.GET("/blogs", api.ShowAdminBlogs)
		admin.GET("/events", api.ShowAdminEvents)
		admin.GET("/login", handler.RedirectToAdmin)
		admin.POST("/authenticate", handler.RedirectToAdmin)
		admin.GET("/logout", handler.Logout)
	}

	// API路由
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/stats", api.GetStats)

		apiGroup.GET("/blogs", api.ListPosts)
		apiGroup.POST("/blogs", api.CreatePost)
		apiGroup.GET("/blogs/:slug", api.GetPost)
		apiGroup.PUT("/blogs/:slug", api.UpdatePost)
		apiGroup.DELETE("/blogs/:slug", api.DeletePost)

		apiGroup.GET("/events", api.ListEvents)
		apiGroup.POST("/events", api.CreateEvent)
		apiGroup.GET("/events/:id", api.GetEvent)
		apiGroup.PUT("/events/:id", api.UpdateEvent)
		apiGroup.DELETE("/events/:id", api.DeleteEvent)

		apiGroup.POST("/upload-content-image", api.UploadContentImage)
		apiGroup.POST("/admin/clear-cache", api.ClearCache)
		apiGroup.POST("/admin/restart-server", api.RestartServer)
	}

	r.NoRoute(api.NotFound)

	return r
}

// noCacheHTML 禁止缓存页面；静态资源与 API 不受影响。
func noCacheHTML() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !strings.HasPrefix(path, "/static") && !strings.HasPrefix(path, "/images") && !strings.HasPrefix(path, "/api") {
			c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
		}
		c.Next()
	}
}

func cacheFor(d time.Duration) gin.HandlerFunc {
	value := "public, max-age=" + strconv.Itoa(int(d.Seconds()))
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}

// truncate 按字符截断卡片预览文本。
func truncate(text string, n int) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= n {
		return string(runes)
	}
	return strings.TrimSpace(string(runes[:n])) + "…"
}
