package server

import (
	"net/http"
	"regexp"

	"github.com/inkwell-press/inkwell/src/articles"
	"github.com/inkwell-press/inkwell/src/logging"
	"github.com/inkwell-press/inkwell/src/utils"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewApiRoutes(conn *pgxpool.Pool, articleService *articles.Service) http.Handler {
	router := &Router{}
	rb := RouteBuilder{
		Router: router,
		Middlewares: []Middleware{
			setupContext(conn, articleService),
			logRequest,
		},
	}

	rb.POST(regexp.MustCompile(`^/articles$`), articleCreate)
	rb.GET(regexp.MustCompile(`^/articles$`), articleIndex)
	rb.GET(regexp.MustCompile(`^/articles/(?P<id>[^/]+)$`), articleGet)
	rb.POST(regexp.MustCompile(`^/articles/(?P<id>[^/]+)$`), articleUpdate)
	rb.DELETE(regexp.MustCompile(`^/articles/(?P<id>[^/]+)$`), articleDelete)
	rb.POST(regexp.MustCompile(`^/articles/(?P<id>[^/]+)/editors$`), articleAssign)
	rb.POST(regexp.MustCompile(`^/articles/(?P<id>[^/]+)/publish$`), articlePublish)
	rb.GET(regexp.MustCompile(`^/articles/(?P<id>[^/]+)/published$`), articlePublished)
	rb.GET(regexp.MustCompile(`^/articles/(?P<id>[^/]+)/text$`), articleText)

	rb.GET(regexp.MustCompile(`^/editors$`), editorIndex)

	rb.AnyMethod(regexp.MustCompile(`^`), fourOhFour)

	return router
}

func setupContext(conn *pgxpool.Pool, articleService *articles.Service) Middleware {
	return func(h Handler) Handler {
		return func(c *RequestContext) ResponseData {
			c.Conn = conn
			c.Articles = articleService
			return h(c)
		}
	}
}

func logRequest(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		logger := logging.With().Str("method", c.Req.Method).Str("url", c.Req.URL.String()).Logger()
		c.Logger = &logger

		res := h(c)

		c.Logger.Info().Int("status", utils.OrDefault(res.StatusCode, http.StatusOK)).Msg("handled request")
		return res
	}
}
