package handler

import (
	"net/http"

	"github.com/bitjr/site/internal/service"
	"github.com/gin-gonic/gin"
)

// postRequest 对应后台文章表单，multipart、urlencoded 与 JSON 均可绑定。
type postRequest struct {
	Title           string `form:"title" json:"title"`
	Slug            string `form:"slug" json:"slug"`
	Date            string `form:"date" json:"date"`
	Status          string `form:"status" json:"status"`
	Excerpt         string `form:"excerpt" json:"excerpt"`
	Content         string `form:"content" json:"content"`
	ScheduleDate    string `form:"scheduleDate" json:"scheduleDate"`
	ExistingImages  string `form:"existingImages" json:"existingImages"`
	CoverPhotoOrder string `form:"coverPhotoOrder" json:"coverPhotoOrder"`
}

func (r postRequest) toInput(uploaded []string) service.PostInput {
	return service.PostInput{
		Title:           r.Title,
		Slug:            r.Slug,
		Date:            r.Date,
		Status:          r.Status,
		Excerpt:         r.Excerpt,
		Content:         r.Content,
		ScheduleDate:    r.ScheduleDate,
		ExistingImages:  r.ExistingImages,
		UploadedImages:  uploaded,
		CoverPhotoOrder: r.CoverPhotoOrder,
	}
}

// ListPosts 返回全部文章（含草稿与定时发布），以 slug 为键。
func (a *API) ListPosts(c *gin.Context) {
	c.JSON(http.StatusOK, a.posts.ListAll(c.Request.Context()))
}

// GetPost 返回单篇文章。
func (a *API) GetPost(c *gin.Context) {
	post, err := a.posts.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondServiceError(c, err, "Post not found")
		return
	}
	c.JSON(http.StatusOK, post)
}

// CreatePost 创建文章，blogImage 字段中的图片按封面顺序保存。
func (a *API) CreatePost(c *gin.Context) {
	input, ok := a.bindPost(c)
	if !ok {
		return
	}

	post, err := a.posts.Create(c.Request.Context(), input)
	if err != nil {
		a.removeUploads(input.UploadedImages...)
		respondServiceError(c, err, "Post not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "post": post})
}

// UpdatePost 更新文章；slug 变化时旧键被移除。
func (a *API) UpdatePost(c *gin.Context) {
	input, ok := a.bindPost(c)
	if !ok {
		return
	}

	post, err := a.posts.Update(c.Request.Context(), c.Param("slug"), input)
	if err != nil {
		a.removeUploads(input.UploadedImages...)
		respondServiceError(c, err, "Post not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "post": post})
}

// DeletePost 删除文章。
func (a *API) DeletePost(c *gin.Context) {
	if err := a.posts.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		respondServiceError(c, err, "Post not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *API) bindPost(c *gin.Context) (service.PostInput, bool) {
	var req postRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return service.PostInput{}, false
	}

	uploaded, err := a.saveImages(c, "blogImage", blogUploadDir, "blogImage-")
	if err != nil {
		respondUploadError(c, err)
		return service.PostInput{}, false
	}
	return req.toInput(uploaded), true
}
