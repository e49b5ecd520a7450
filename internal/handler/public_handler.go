package handler

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/bitjr/site/internal/db"
	"github.com/bitjr/site/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	homePostLimit  = 3
	homeEventLimit = 4
)

// StaticPage 将路径绑定到无需数据的模板。
type StaticPage struct {
	Path     string
	Template string
	Title    string
}

// StaticPages 列出纯静态的前台页面。
var StaticPages = []StaticPage{
	{Path: "/about", Template: "about.html", Title: "About"},
	{Path: "/activities", Template: "activities.html", Title: "Activities"},
}

// Activity 描述一个活动项目详情页。
type Activity struct {
	Slug    string
	Title   string
	Summary string
}

// Activities 通过 /activities/:slug 访问。
var Activities = []Activity{
	{Slug: "bitcoin-basics", Title: "Bitcoin Basics", Summary: "A first look at money, saving and how bitcoin works, taught through games."},
	{Slug: "money-playground", Title: "Money Playground", Summary: "Kids run a small market and pay each other in sats."},
	{Slug: "satoshi-playground", Title: "Satoshi Playground", Summary: "Weekly play sessions where every task earns sats."},
	{Slug: "builders-club", Title: "Builders Club", Summary: "Older students build simple tools and websites around bitcoin."},
	{Slug: "entrepreneur-kids", Title: "Entrepreneur Kids", Summary: "Students plan, price and sell their own products for sats."},
	{Slug: "teacher-training", Title: "Teacher Training", Summary: "Workshops that prepare local teachers to run the curriculum."},
	{Slug: "graduation-meetups", Title: "Graduation Meetups", Summary: "Graduates, parents and mentors celebrate a finished cohort."},
	{Slug: "holiday-cohorts-school-break", Title: "Holiday Cohorts", Summary: "Short intensive cohorts during school breaks."},
	{Slug: "conferences-workshops", Title: "Conferences & Workshops", Summary: "Talks and hands-on sessions at community events."},
	{Slug: "bjas-bit-quiz", Title: "BJAS Bit Quiz", Summary: "A quiz competition on money and bitcoin between schools."},
	{Slug: "area-satoshi-club", Title: "Area Satoshi Club", Summary: "Neighbourhood clubs that keep graduates learning together."},
	{Slug: "coming-soon", Title: "Coming Soon", Summary: "New activities are on the way."},
}

// legacyActivityPaths 将旧 slug 重定向到新地址。
var legacyActivityPaths = map[string]string{
	"conference-workshops": "conferences-workshops",
}

// ShowHome 渲染首页；admin. 子域名直接进入后台。
func (a *API) ShowHome(c *gin.Context) {
	if isAdminHost(c) {
		a.ShowAdminIndex(c)
		return
	}

	ctx := c.Request.Context()
	posts := a.posts.List(ctx)
	events := a.events.List(ctx)

	a.renderHTML(c, http.StatusOK, "home.html", gin.H{
		"title":      "Home",
		"posts":      posts[:min(len(posts), homePostLimit)],
		"events":     eventViews(events[:min(len(events), homeEventLimit)]),
		"isHomePage": true,
	})
}

// ShowStaticPage 渲染 StaticPages 中绑定的页面。
func (a *API) ShowStaticPage(page StaticPage) gin.HandlerFunc {
	return func(c *gin.Context) {
		a.renderHTML(c, http.StatusOK, page.Template, gin.H{"title": page.Title})
	}
}

// ShowActivity 渲染活动详情页。
func (a *API) ShowActivity(c *gin.Context) {
	slug := c.Param("slug")
	if target, ok := legacyActivityPaths[slug]; ok {
		c.Redirect(http.StatusMovedPermanently, "/activities/"+target)
		return
	}

	for _, activity := range Activities {
		if activity.Slug == slug {
			a.renderHTML(c, http.StatusOK, "activity.html", gin.H{
				"title":    activity.Title,
				"activity": activity,
			})
			return
		}
	}
	a.NotFound(c)
}

// ShowTeam 渲染团队页。
func (a *API) ShowTeam(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "team.html", gin.H{
		"title": "Team",
		"team":  a.directory.Team(c.Request.Context()),
	})
}

// ShowPartners 渲染合作伙伴页。
func (a *API) ShowPartners(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "partners.html", gin.H{
		"title":    "Partners",
		"partners": a.directory.Partners(c.Request.Context()),
	})
}

// ShowBlog 渲染已发布文章列表，按日期倒序。
func (a *API) ShowBlog(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "blog.html", gin.H{
		"title": "Blog",
		"posts": a.posts.List(c.Request.Context()),
	})
}

// ShowBlogPost 渲染文章详情；草稿和定时文章对外不可见。
func (a *API) ShowBlogPost(c *gin.Context) {
	post, err := a.posts.GetPublished(c.Request.Context(), c.Param("slug"))
	if err != nil {
		a.NotFound(c)
		return
	}

	a.renderHTML(c, http.StatusOK, "blog_detail.html", gin.H{
		"title":       post.Title,
		"post":        post,
		"contentHTML": sanitizeHTML(post.Content),
	})
}

// ShowEvents 渲染活动列表。
func (a *API) ShowEvents(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "events.html", gin.H{
		"title":  "Events",
		"events": eventViews(a.events.List(c.Request.Context())),
	})
}

// EventCalendar 以 JSON 返回全部活动供前端日历使用。
func (a *API) EventCalendar(c *gin.Context) {
	c.JSON(http.StatusOK, a.events.List(c.Request.Context()))
}

// ShowEventRegister 渲染活动报名表单。
func (a *API) ShowEventRegister(c *gin.Context) {
	event, err := a.events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.NotFound(c)
		return
	}

	a.renderHTML(c, http.StatusOK, "event_register.html", gin.H{
		"title":     "Register: " + event.Title,
		"event":     newEventView(*event),
		"submitted": popFlash(c, flashRegistered),
	})
}

// SubmitEventRegister 保存报名信息，活动不存在时返回 404。
func (a *API) SubmitEventRegister(c *gin.Context) {
	id := c.Param("id")
	if _, err := a.submissions.AddRegistration(c.Request.Context(), id, formFields(c)); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			a.NotFound(c)
			return
		}
		a.renderSubmitError(c, err)
		return
	}

	a.redirectWithFlash(c, flashRegistered, "/events/"+url.PathEscape(id)+"/register")
}

// ShowContact 渲染联系表单。
func (a *API) ShowContact(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "contact.html", gin.H{
		"title":     "Contact",
		"submitted": popFlash(c, flashContact),
	})
}

// SubmitContact 追加一条联系记录。
func (a *API) SubmitContact(c *gin.Context) {
	if _, err := a.submissions.AddContact(c.Request.Context(), formFields(c)); err != nil {
		a.renderSubmitError(c, err)
		return
	}
	a.redirectWithFlash(c, flashContact, "/contact")
}

// ShowVolunteer 渲染志愿者表单，nationality 可通过查询参数预填。
func (a *API) ShowVolunteer(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "volunteer.html", gin.H{
		"title":       "Volunteer",
		"submitted":   popFlash(c, flashVolunteer),
		"nationality": strings.TrimSpace(c.Query("nationality")),
	})
}

// SubmitVolunteer 追加一条志愿者报名。
func (a *API) SubmitVolunteer(c *gin.Context) {
	fields := formFields(c)
	if _, err := a.submissions.AddVolunteer(c.Request.Context(), fields); err != nil {
		a.renderSubmitError(c, err)
		return
	}

	target := "/volunteer"
	if nationality, _ := fields["nationality"].(string); strings.TrimSpace(nationality) != "" {
		target += "?nationality=" + url.QueryEscape(strings.TrimSpace(nationality))
	}
	a.redirectWithFlash(c, flashVolunteer, target)
}

// NotFound 渲染 404 页面。
func (a *API) NotFound(c *gin.Context) {
	a.renderHTML(c, http.StatusNotFound, "not_found.html", gin.H{"title": "Page not found"})
}

func (a *API) renderSubmitError(c *gin.Context, err error) {
	_ = c.Error(err)
	a.renderHTML(c, http.StatusInternalServerError, "not_found.html", gin.H{
		"title": "Something went wrong",
		"error": "Your submission could not be saved. Please try again.",
	})
}

const (
	flashContact    = "contact"
	flashVolunteer  = "volunteer"
	flashRegistered = "registered"
)

// redirectWithFlash 写入 flash 后以 303 跳转，刷新页面不会重复提交。
func (a *API) redirectWithFlash(c *gin.Context, key, target string) {
	session := sessions.Default(c)
	session.AddFlash(true, key)
	if err := session.Save(); err != nil {
		_ = c.Error(err)
	}
	c.Redirect(http.StatusSeeOther, target)
}

func popFlash(c *gin.Context, key string) bool {
	session := sessions.Default(c)
	flashes := session.Flashes(key)
	if len(flashes) == 0 {
		return false
	}
	if err := session.Save(); err != nil {
		_ = c.Error(err)
	}
	return true
}

type eventView struct {
	db.Event
	SummaryHTML template.HTML
}

func newEventView(event db.Event) eventView {
	return eventView{Event: event, SummaryHTML: renderMarkdown(event.Summary)}
}

func eventViews(events []db.Event) []eventView {
	views := make([]eventView, 0, len(events))
	for _, event := range events {
		views = append(views, newEventView(event))
	}
	return views
}
