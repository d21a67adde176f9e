package server

import (
	"io"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/atikulmunna/clientlog/internal/model"
	"github.com/atikulmunna/clientlog/internal/parser"
	"github.com/atikulmunna/clientlog/internal/static"
)

// handleLog decodes a submission, appends its line to the store and echoes it.
// Any failure answers 500 with an empty body and leaves the log untouched.
func (s *Server) handleLog(c *gin.Context) {
	log := s.Log.WithField("request_id", c.GetString(requestIDKey))

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.rejectLog(c, log, err)
		return
	}

	sub, err := parser.Decode(body)
	if err != nil {
		s.rejectLog(c, log, err)
		return
	}

	entry := model.NewEntry(sub, clientAddress(c.Request), s.Now())
	if err := s.Store.Append(entry.Line()); err != nil {
		s.rejectLog(c, log, err)
		return
	}

	if err := s.Console.Render(entry); err != nil {
		log.WithError(err).Warn("console echo failed")
	}
	s.Hub.Publish(entry)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) rejectLog(c *gin.Context, log logrus.FieldLogger, err error) {
	log.WithError(err).Error("Error processing log")
	s.Aggregator.Reject()
	c.AbortWithStatus(http.StatusInternalServerError)
}

// handleViewLogs returns the whole log. Every read failure is reported as 404.
func (s *Server) handleViewLogs(c *gin.Context) {
	logs, err := s.Store.ReadAll()
	if err != nil {
		plain(c, http.StatusNotFound, "No logs found")
		return
	}
	c.Data(http.StatusOK, "text/plain", []byte(logs))
}

func (s *Server) handleStatic(c *gin.Context) {
	f, err := s.Files.Read(c.Request.URL.Path)
	switch {
	case err == nil:
		c.Data(http.StatusOK, f.ContentType, f.Data)
	case static.IsNotExist(err):
		plain(c, http.StatusNotFound, "File not found")
	default:
		s.Log.WithError(err).WithField("path", c.Request.URL.Path).Error("static read failed")
		plain(c, http.StatusInternalServerError, static.ServerError(err))
	}
}

// plain writes an error body without a Content-Type header. The nil entry
// also stops net/http from sniffing one.
func plain(c *gin.Context, code int, body string) {
	c.Writer.Header()["Content-Type"] = nil
	c.Status(code)
	_, _ = c.Writer.WriteString(body)
}

// clientAddress prefers X-Forwarded-For (verbatim) over the peer address.
func clientAddress(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
