package api

import (
	"embed"
	"io/fs"
	"path"
	"strings"

	"github.com/valyala/fasthttp"
)

//go:embed web
var webFiles embed.FS

// Serve static files (CSS, JS)
func (h *Handler) handleStatic(ctx *fasthttp.RequestCtx) {
	name := strings.TrimPrefix(string(ctx.Path()), "/static/")
	name = path.Clean("/" + name)[1:]

	content, err := fs.ReadFile(webFiles, "web/static/"+name)
	if err != nil || name == "" {
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		ctx.SetBodyString("File not found")
		return
	}

	// Set content type based on file extension
	switch path.Ext(name) {
	case ".css":
		ctx.SetContentType("text/css; charset=utf-8")
	case ".js":
		ctx.SetContentType("application/javascript; charset=utf-8")
	case ".svg":
		ctx.SetContentType("image/svg+xml")
	default:
		ctx.SetContentType("application/octet-stream")
	}
	ctx.SetBody(content)
}

// Serve the dashboard page
func (h *Handler) handleIndex(ctx *fasthttp.RequestCtx) {
	content, err := fs.ReadFile(webFiles, "web/index.html")
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString("Error reading template: " + err.Error())
		return
	}
	ctx.SetContentType("text/html; charset=utf-8")
	ctx.SetBody(content)
}
