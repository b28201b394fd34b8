// Package log 是 logrus 的薄封装，统一整个项目的日志入口
// Package log is a thin logrus facade shared by every package
package log

import (
	"github.com/sirupsen/logrus"
)

type (
	Level         = logrus.Level
	Fields        = logrus.Fields
	TextFormatter = logrus.TextFormatter
	JSONFormatter = logrus.JSONFormatter
)

const (
	PanicLevel = logrus.PanicLevel
	FatalLevel = logrus.FatalLevel
	ErrorLevel = logrus.ErrorLevel
	WarnLevel  = logrus.WarnLevel
	InfoLevel  = logrus.InfoLevel
	DebugLevel = logrus.DebugLevel
	TraceLevel = logrus.TraceLevel
)

var (
	Debug  = logrus.Debug
	Debugf = logrus.Debugf
	Info   = logrus.Info
	Infof  = logrus.Infof
	Warn   = logrus.Warn
	Warnf  = logrus.Warnf
	Error  = logrus.Error
	Errorf = logrus.Errorf
	Fatal  = logrus.Fatal
	Fatalf = logrus.Fatalf

	WithField  = logrus.WithField
	WithFields = logrus.WithFields
	WithError  = logrus.WithError

	SetLevel     = logrus.SetLevel
	GetLevel     = logrus.GetLevel
	SetFormatter = logrus.SetFormatter
	SetOutput    = logrus.SetOutput
	ParseLevel   = logrus.ParseLevel
)
