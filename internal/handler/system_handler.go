package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// restartDelay 为重启响应留出返回客户端的时间。
var restartDelay = time.Second

// HealthCheck 提供监控系统使用的健康检查端点。
func (a *API) HealthCheck(c *gin.Context) {
	if err := a.store.Ping(c.Request.Context()); err != nil {
		log.Error().Err(err).Msg("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "store unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"store":   "up",
		"version": a.version.Current(),
	})
}

// ClearCache 更新静态资源版本号，使浏览器重新拉取。
func (a *API) ClearCache(c *gin.Context) {
	version := a.version.Reset()
	log.Info().Int64("version", version).Msg("site version reset")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Cache version updated. New version: %d", version),
		"version": version,
	})
}

// RestartServer 先返回响应，随后触发优雅退出，由进程管理器负责拉起。
func (a *API) RestartServer(c *gin.Context) {
	if a.shutdown == nil {
		respondError(c, http.StatusServiceUnavailable, "Restart is not available")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Server restart requested. The process manager will start it again.",
	})

	shutdown := a.shutdown
	time.AfterFunc(restartDelay, func() {
		log.Info().Msg("server restart requested via admin panel")
		shutdown()
	})
}
