package providers

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"radiomon/internal/structures"
)

type TypeEnum int

const (
	TypeApp TypeEnum = iota
	TypeGet
	TypePost
	TypeMonitor
	TypeAlert
)

// GetLogTypeByRequestType maps an HTTP method onto a log category.
func GetLogTypeByRequestType(method string) TypeEnum {
	if method == "POST" {
		return TypePost
	}
	return TypeGet
}

type Logger interface {
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Errorf(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

// LogProvider writes app, access, monitor and alert events into separate
// files under the configured log directory.
type LogProvider struct {
	files []*os.File
	logs  map[TypeEnum]zerolog.Logger
}

var logFiles = map[TypeEnum]string{
	TypeApp:     "app.log",
	TypeGet:     "access.log",
	TypePost:    "access.log",
	TypeMonitor: "monitor.log",
	TypeAlert:   "alerts.log",
}

func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, err
	}

	lp := &LogProvider{
		logs: make(map[TypeEnum]zerolog.Logger),
	}

	opened := make(map[string]*os.File)
	for t, name := range logFiles {
		file, ok := opened[name]
		if !ok {
			file, err = os.OpenFile(
				filepath.Join(conf.Logger.Dir, name),
				os.O_CREATE|os.O_APPEND|os.O_WRONLY,
				fs.FileMode(conf.Logger.Mode),
			)
			if err != nil {
				lp.Close()
				return nil, err
			}
			opened[name] = file
			lp.files = append(lp.files, file)
		}

		var out io.Writer = file
		if conf.Debug {
			out = zerolog.MultiLevelWriter(file, zerolog.ConsoleWriter{Out: os.Stdout})
		}
		lp.logs[t] = zerolog.New(out).Level(level).With().Timestamp().Logger()
	}

	return lp, nil
}

func (lp *LogProvider) pick(t TypeEnum) zerolog.Logger {
	if l, ok := lp.logs[t]; ok {
		return l
	}
	return lp.logs[TypeApp]
}

func (lp *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	l := lp.pick(t)
	l.Debug().Msgf(format, args...)
}

func (lp *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	l := lp.pick(t)
	l.Info().Msgf(format, args...)
}

func (lp *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	l := lp.pick(t)
	l.Warn().Msgf(format, args...)
}

func (lp *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	l := lp.pick(t)
	l.Error().Msgf(format, args...)
}

func (lp *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	l := lp.pick(t)
	l.Fatal().Msgf(format, args...)
}

func (lp *LogProvider) Close() {
	for _, f := range lp.files {
		_ = f.Close()
	}
}
