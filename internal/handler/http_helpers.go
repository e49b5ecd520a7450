package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bitjr/site/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondServiceError 将服务层错误映射为 HTTP 状态码。
func respondServiceError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPostNotFound), errors.Is(err, service.ErrEventNotFound):
		respondError(c, http.StatusNotFound, notFound)
	default:
		_ = c.Error(err)
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// formFields 收集表单字段，重复的键保存为列表。
func formFields(c *gin.Context) map[string]any {
	if c.Request.PostForm == nil {
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			_ = c.Request.ParseMultipartForm(maxUploadSize)
		} else {
			_ = c.Request.ParseForm()
		}
	}

	fields := make(map[string]any, len(c.Request.PostForm))
	for key, values := range c.Request.PostForm {
		switch len(values) {
		case 0:
		case 1:
			fields[key] = values[0]
		default:
			fields[key] = append([]string(nil), values...)
		}
	}
	return fields
}
