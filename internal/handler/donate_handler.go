package handler

import (
	"encoding/base64"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
)

const qrCodeSize = 220

// ShowDonate 渲染捐赠页，附带闪电网络与链上地址的二维码。
func (a *API) ShowDonate(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "donate.html", gin.H{
		"title":   "Donate",
		"lnAddr":  a.donate.Lightning,
		"btcAddr": a.donate.Bitcoin,
		"lnQr":    qrDataURL("lightning:" + a.donate.Lightning),
		"btcQr":   qrDataURL("bitcoin:" + a.donate.Bitcoin),
	})
}

// qrDataURL 将 payload 编码为 PNG data URL，失败时返回空串。
func qrDataURL(payload string) template.URL {
	png, err := qrcode.Encode(payload, qrcode.Medium, qrCodeSize)
	if err != nil {
		log.Warn().Err(err).Str("payload", payload).Msg("qr code generation failed")
		return ""
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}
