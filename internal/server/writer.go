package server

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

type LogWriter struct {
	logger *logrus.Logger
	rw     http.ResponseWriter
	r      *http.Request
}

func NewLogWriter(l *logrus.Logger, rw http.ResponseWriter, r *http.Request) *LogWriter {
	return &LogWriter{l, rw, r}
}

func (l *LogWriter) log() *logrus.Entry {
	return l.logger.WithFields(logrus.Fields{
		"method": l.r.Method,
		"path":   l.r.URL.Path,
	})
}

func (l *LogWriter) Write(r Response) {
	l.rw.Header().Set("Content-Type", "application/json")
	l.rw.WriteHeader(r.Status)
	if err := json.NewEncoder(l.rw).Encode(r.Body); err != nil {
		l.log().Errorf("*LogWriter.Write: failed to write json to http.ResponseWriter: %v", err)
	}
}

type ServerErrorResponser interface {
	ServerErrorResponse() (int, string)
}

// WriteError writes err as an ErrorResponse. Errors that do not carry a
// ServerErrorResponse are written as a 500 with a generic message, and
// every 5xx is logged.
func (w *LogWriter) WriteError(err error) {
	errResp := ErrorResponse{}
	errResp.Status, errResp.ErrorMsg = errorMessage(err)

	if errResp.Status >= http.StatusInternalServerError {
		w.log().Errorf("request failed: %v", err)
	}

	w.Write(errResp.AsResponse())
}
