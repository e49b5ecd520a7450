package handler

import (
	"net/http"
	"strings"

	"github.com/bitjr/site/internal/service"
	"github.com/gin-gonic/gin"
)

type eventRequest struct {
	Title       string `form:"title" json:"title"`
	Date        string `form:"date" json:"date"`
	Location    string `form:"location" json:"location"`
	Summary     string `form:"summary" json:"summary"`
	RemoveFlyer string `form:"removeFlyer" json:"removeFlyer"`
}

func (r eventRequest) toInput(flyer string) service.EventInput {
	return service.EventInput{
		Title:       r.Title,
		Date:        r.Date,
		Location:    r.Location,
		Summary:     r.Summary,
		Flyer:       flyer,
		RemoveFlyer: strings.TrimSpace(r.RemoveFlyer) == "true",
	}
}

// ListEvents 返回全部活动。
func (a *API) ListEvents(c *gin.Context) {
	c.JSON(http.StatusOK, a.events.List(c.Request.Context()))
}

// GetEvent 返回单个活动。
func (a *API) GetEvent(c *gin.Context) {
	event, err := a.events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Event not found")
		return
	}
	c.JSON(http.StatusOK, event)
}

// CreateEvent 创建活动，可附带 flyer 图片。
func (a *API) CreateEvent(c *gin.Context) {
	input, ok := a.bindEvent(c)
	if !ok {
		return
	}

	event, err := a.events.Create(c.Request.Context(), input)
	if err != nil {
		a.removeUploads(input.Flyer)
		respondServiceError(c, err, "Event not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "event": event})
}

// UpdateEvent 更新活动；新 flyer 优先，其次 removeFlyer=true 清空，否则保留原图。
func (a *API) UpdateEvent(c *gin.Context) {
	input, ok := a.bindEvent(c)
	if !ok {
		return
	}

	event, err := a.events.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		a.removeUploads(input.Flyer)
		respondServiceError(c, err, "Event not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "event": event})
}

// DeleteEvent 删除活动。
func (a *API) DeleteEvent(c *gin.Context) {
	if err := a.events.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "Event not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *API) bindEvent(c *gin.Context) (service.EventInput, bool) {
	var req eventRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return service.EventInput{}, false
	}

	var flyer string
	if file, err := c.FormFile("flyer"); err == nil {
		flyer, err = a.saveImage(c, file, eventUploadDir, "flyer-")
		if err != nil {
			respondUploadError(c, err)
			return service.EventInput{}, false
		}
	}
	return req.toInput(flyer), true
}
