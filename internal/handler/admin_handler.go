package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// ShowAdminIndex 渲染后台首页。
func (a *API) ShowAdminIndex(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "admin_index.html", gin.H{
		"title": "Admin",
		"stats": a.directory.Stats(c.Request.Context()),
	})
}

// ShowAdminBlogs 渲染文章管理页。
func (a *API) ShowAdminBlogs(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "admin_blogs.html", gin.H{"title": "Manage blog"})
}

// ShowAdminEvents 渲染活动管理页。
func (a *API) ShowAdminEvents(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "admin_events.html", gin.H{"title": "Manage events"})
}

// RedirectToAdmin 后台无需登录，登录相关地址都直接回到后台首页。
func RedirectToAdmin(c *gin.Context) {
	c.Redirect(http.StatusFound, "/admin")
}

// Logout 清空会话后回到后台首页。
func Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		_ = c.Error(err)
	}
	c.Redirect(http.StatusFound, "/admin")
}

// GetStats 返回后台首页的计数。
func (a *API) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, a.directory.Stats(c.Request.Context()))
}
