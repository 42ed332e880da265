
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/casjay-forks/ownbin/src/netshare"
)

type LogFormat struct {
	// Access log format: apache, json, text
	Access string
	// Error log format: text, json
	Error string
	// Server log format: text, json
	Server string
}

type LogLevel int

const (
	LogLevelInfo LogLevel = iota
	LogLevelWarn
	LogLevelError
)

type Logger struct {
	TimeFormat string
	Format     LogFormat
	Level      LogLevel

	stdout io.Writer
	stderr io.Writer

	// Access log writer, nil disables access logging
	access io.Writer
}

func New(timeFormat string) Logger {
	return Logger{
		TimeFormat: timeFormat,
		Level:      LogLevelInfo,
		Format: LogFormat{
			Access: "apache",
			Error:  "text",
			Server: "text",
		},
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// SetFormat sets the log format for each log type
func (l *Logger) SetFormat(format LogFormat) {
	l.Format = format
}

// SetLevel sets the minimum log level (info, warn, error)
func (l *Logger) SetLevel(level string) {
	switch level {
	case "warn":
		l.Level = LogLevelWarn
	case "error":
		l.Level = LogLevelError
	default:
		l.Level = LogLevelInfo
	}
}

// SetWriters sets stdout and stderr separately
func (l *Logger) SetWriters(stdout, stderr io.Writer) {
	l.stdout = stdout
	l.stderr = stderr
}

// SetAccessWriter sets the writer for HTTP access logs
func (l *Logger) SetAccessWriter(w io.Writer) {
	l.access = w
}

func getTrace() string {
	trace := ""

	for i := 2; ; i++ {
		_, file, line, ok := runtime.Caller(i)
		if ok {
			trace = trace + file + "#" + strconv.Itoa(line) + ": "

		} else {
			return trace
		}
	}
}

func (cfg Logger) serverLine(level, msg string) string {
	if cfg.Format.Server == "json" {
		entry := map[string]interface{}{
			"time":    time.Now().Format(time.RFC3339),
			"level":   level,
			"message": msg,
		}
		data, _ := json.Marshal(entry)
		return string(data)
	}
	return fmt.Sprintf("%s [%s]    %s", time.Now().Format(cfg.TimeFormat), level, msg)
}

func (cfg Logger) Info(msg string) {
	if cfg.Level <= LogLevelInfo && cfg.stdout != nil {
		fmt.Fprintln(cfg.stdout, cfg.serverLine("INFO", msg))
	}
}

func (cfg Logger) Warn(msg string) {
	if cfg.Level <= LogLevelWarn && cfg.stdout != nil {
		fmt.Fprintln(cfg.stdout, cfg.serverLine("WARN", msg))
	}
}

func (cfg Logger) Error(e error) {
	if cfg.stderr == nil {
		return
	}

	var output string
	if cfg.Format.Error == "json" {
		entry := map[string]interface{}{
			"time":    time.Now().Format(time.RFC3339),
			"level":   "ERROR",
			"trace":   getTrace(),
			"message": e.Error(),
		}
		data, _ := json.Marshal(entry)
		output = string(data)
	} else {
		output = fmt.Sprintf("%s [ERROR]   %s%s", time.Now().Format(cfg.TimeFormat), getTrace(), e.Error())
	}

	fmt.Fprintln(cfg.stderr, output)
}

func clientAddr(req *http.Request) string {
	addr := netshare.GetClientAddr(req)
	if addr == nil {
		return "-"
	}
	return addr.String()
}

func (cfg Logger) HttpRequest(req *http.Request, code int) {
	if cfg.access == nil {
		return
	}

	clientIP := clientAddr(req)
	path := req.URL.Path
	if req.URL.RawQuery != "" {
		path = path + "?" + req.URL.RawQuery
	}
	referer := req.Referer()
	if referer == "" {
		referer = "-"
	}
	userAgent := req.UserAgent()
	if userAgent == "" {
		userAgent = "-"
	}

	switch cfg.Format.Access {
	case "json":
		entry := map[string]interface{}{
			"time":       time.Now().Format(time.RFC3339),
			"client_ip":  clientIP,
			"method":     req.Method,
			"path":       path,
			"protocol":   req.Proto,
			"status":     code,
			"referer":    referer,
			"user_agent": userAgent,
		}
		data, _ := json.Marshal(entry)
		fmt.Fprintln(cfg.access, string(data))

	case "text":
		timestamp := time.Now().Format(cfg.TimeFormat)
		fmt.Fprintf(cfg.access, "%s %s %s %s %d %s\n",
			timestamp, clientIP, req.Method, path, code, userAgent)

	default:
		// Apache Combined Log Format
		timestamp := time.Now().Format("02/Jan/2006:15:04:05 -0700")
		fmt.Fprintf(cfg.access, "%s - - [%s] \"%s %s %s\" %d - \"%s\" \"%s\"\n",
			clientIP, timestamp, req.Method, path, req.Proto, code, referer, userAgent)
	}
}

func (cfg Logger) HttpError(req *http.Request, e error) {
	if cfg.stderr == nil {
		return
	}

	clientIP := clientAddr(req)
	path := req.URL.Path
	if req.URL.RawQuery != "" {
		path = path + "?" + req.URL.RawQuery
	}

	var output string
	if cfg.Format.Error == "json" {
		entry := map[string]interface{}{
			"time":       time.Now().Format(time.RFC3339),
			"level":      "ERROR",
			"client_ip":  clientIP,
			"method":     req.Method,
			"path":       path,
			"user_agent": req.UserAgent(),
			"trace":      getTrace(),
			"error":      e.Error(),
		}
		data, _ := json.Marshal(entry)
		output = string(data)
	} else {
		output = fmt.Sprintf("%s [ERROR]   %s %s %s (User-Agent: %s) Error: %s%s",
			time.Now().Format(cfg.TimeFormat), clientIP, req.Method, path,
			req.UserAgent(), getTrace(), e.Error())
	}

	fmt.Fprintln(cfg.stderr, output)
}
