package handler

import (
	"strings"

	"github.com/bitjr/site/internal/service"
	"github.com/bitjr/site/internal/store"
	"github.com/gin-gonic/gin"
)

// API 汇总 HTTP 处理器共享的依赖。
type API struct {
	store       store.Store
	posts       *service.PostService
	events      *service.EventService
	submissions *service.SubmissionService
	directory   *service.DirectoryService
	version     *service.SiteVersion
	uploadDir   string
	site        SiteInfo
	donate      DonateAddresses
	shutdown    func()
}

// SiteInfo 是页面模型中固定的站点信息。
type SiteInfo struct {
	Title   string
	Tagline string
}

// DonateAddresses 与二维码一起展示在捐赠页。
type DonateAddresses struct {
	Lightning string
	Bitcoin   string
}

// Options 配置 NewAPI。
type Options struct {
	UploadDir string
	Site      SiteInfo
	Donate    DonateAddresses
	// Shutdown 由重启接口调用，为 nil 时接口不可用。
	Shutdown func()
}

// NewAPI 创建共享服务的处理器集合。
func NewAPI(s store.Store, opts Options) *API {
	events := service.NewEventService(s)
	uploadDir := strings.TrimSpace(opts.UploadDir)
	if uploadDir == "" {
		uploadDir = "public/images"
	}

	return &API{
		store:       s,
		posts:       service.NewPostService(s),
		events:      events,
		submissions: service.NewSubmissionService(s, events),
		directory:   service.NewDirectoryService(s),
		version:     service.NewSiteVersion(),
		uploadDir:   uploadDir,
		site:        opts.Site,
		donate:      opts.Donate,
		shutdown:    opts.Shutdown,
	}
}

// Posts 供定时发布任务使用文章服务。
func (a *API) Posts() *service.PostService {
	return a.posts
}

// SetShutdown 替换重启接口调用的函数。
func (a *API) SetShutdown(fn func()) {
	a.shutdown = fn
}

func (a *API) siteView() gin.H {
	return gin.H{
		"title":   a.site.Title,
		"tagline": a.site.Tagline,
		"version": a.version.Current(),
	}
}

func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["site"]; !exists {
		payload["site"] = a.siteView()
	}
	if _, exists := payload["isAdminSubdomain"]; !exists {
		payload["isAdminSubdomain"] = isAdminHost(c)
	}
	if _, exists := payload["path"]; !exists {
		payload["path"] = c.Request.URL.Path
	}

	c.HTML(status, template, payload)
}

// RenderHTML 在渲染模板时自动附加站点标题、标语与缓存版本号。
func (a *API) RenderHTML(c *gin.Context, status int, template string, data gin.H) {
	a.renderHTML(c, status, template, data)
}

func isAdminHost(c *gin.Context) bool {
	return strings.HasPrefix(strings.ToLower(c.Request.Host), "admin.")
}
