package testserver

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kbukum/xhrkit/logger"
)

// XSSIPrefix is the anti-hijacking prefix served by /xssi.
const XSSIPrefix = ")]}',\n"

// NewRouter builds the fixture routes. A nil log uses the "testserver"
// component logger.
func NewRouter(log *logger.Logger) *gin.Engine {
	if log == nil {
		log = logger.WithComponent("testserver")
	}
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(recovery(log), requestID(), cors(), requestLogger(log))

	r.GET("/text", func(c *gin.Context) {
		c.String(http.StatusOK, "hello")
	})
	r.GET("/json", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "hello", "items": []int{1, 2, 3}})
	})
	r.GET("/xssi", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(XSSIPrefix+`{"secure":true}`))
	})
	r.GET("/malformed", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte("{not json"))
	})
	r.GET("/html", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8",
			[]byte("<!doctype html><html><head><title>fixture</title></head><body><p id=\"p\">hi</p></body></html>"))
	})
	r.GET("/bytes", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/octet-stream", []byte{0x00, 0x01, 0xfe, 0xff})
	})
	r.GET("/status/:code", status)
	r.GET("/slow", slow)
	r.GET("/date", date)
	r.GET("/redirect", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/json")
	})
	r.GET("/truncated", truncated)
	r.GET("/cookie/set", func(c *gin.Context) {
		c.SetCookie(c.DefaultQuery("name", "session"), c.DefaultQuery("value", "1"), 3600, "/", "", false, true)
		c.Status(http.StatusNoContent)
	})
	r.GET("/cookie/get", func(c *gin.Context) {
		cookies := map[string]string{}
		for _, ck := range c.Request.Cookies() {
			cookies[ck.Name] = ck.Value
		}
		c.JSON(http.StatusOK, cookies)
	})
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		r.Handle(method, "/echo", echo)
	}
	// preflight for every path; cors answers it
	r.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	return r
}

func status(c *gin.Context) {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil || code < 200 || code > 599 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status code"})
		return
	}
	c.JSON(code, gin.H{"status": code})
}

// slow waits ?delay= (default 1s) unless the client goes away first.
func slow(c *gin.Context) {
	delay, err := time.ParseDuration(c.DefaultQuery("delay", "1s"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	select {
	case <-time.After(delay):
		c.String(http.StatusOK, "done")
	case <-c.Request.Context().Done():
	}
}

// date serves a Date header shifted by ?offset= from now.
func date(c *gin.Context) {
	offset, err := time.ParseDuration(c.DefaultQuery("offset", "0s"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Header("Date", time.Now().Add(offset).UTC().Format(http.TimeFormat))
	c.JSON(http.StatusOK, gin.H{"offset": offset.String()})
}

// truncated promises more body than it sends, then drops the connection.
func truncated(c *gin.Context) {
	c.Header("Content-Type", "text/plain")
	c.Header("Content-Length", "100")
	c.Status(http.StatusOK)
	_, _ = c.Writer.Write([]byte("partial"))
	c.Writer.Flush()
	panic(http.ErrAbortHandler)
}

// echo returns what the server saw.
func echo(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	headers := map[string]string{}
	for name := range c.Request.Header {
		headers[name] = c.Request.Header.Get(name)
	}
	c.JSON(http.StatusOK, gin.H{
		"method":      c.Request.Method,
		"path":        c.Request.URL.Path,
		"query":       c.Request.URL.RawQuery,
		"contentType": c.ContentType(),
		"headers":     headers,
		"body":        string(body),
	})
}
