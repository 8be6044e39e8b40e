package util

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const LOG_BUFFER_SIZE = 1000

var (
	ErrLogNotInitialized      = errors.New("log object is not initialized yet")
	LOG_FOLDER_NAME_WITH_PATH = ".." + string(os.PathSeparator) + "log"
	globalLogLevel            = 3
)

const (
	LOG_LEVEL_ERROR = iota + 1
	LOG_LEVEL_WARN
	LOG_LEVEL_INFO
	LOG_LEVEL_DEBUG
)

// GatewayLogger writes leveled events to a log file through a buffered
// channel so request handlers and the poll loop never block on disk.
type GatewayLogger struct {
	logBuffer         chan LeveledLogger
	handle            *os.File
	wg                *sync.WaitGroup
	loggerInitialized bool
	zapLogger         *zap.Logger
}

type LeveledLogger struct {
	level  int
	logMsg string
}

func (g *GatewayLogger) Init(logFileName string, rewrite bool) error {
	var (
		err             error
		fileWithRelPath string
	)

	g.wg = new(sync.WaitGroup)
	g.logBuffer = make(chan LeveledLogger, LOG_BUFFER_SIZE)

	g.handle = nil
	fileWithRelPath = LOG_FOLDER_NAME_WITH_PATH + string(os.PathSeparator) + logFileName

	if rewrite {
		g.handle, err = os.OpenFile(fileWithRelPath,
			os.O_RDWR|os.O_CREATE|os.O_TRUNC,
			0666)
	} else {
		g.handle, err = os.OpenFile(fileWithRelPath,
			os.O_RDWR|os.O_CREATE|os.O_APPEND,
			0666)
	}
	if err != nil {
		return err
	}

	g.zapLoggerInit()

	g.wg.Add(1)
	go g.logWriter()

	g.loggerInitialized = true
	return nil
}

func (g *GatewayLogger) zapLoggerInit() {
	var writer zapcore.WriteSyncer

	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncodeLevel = zapcore.CapitalLevelEncoder

	fileEncoder := zapcore.NewConsoleEncoder(config)

	writer = zapcore.AddSync(g.handle)

	core := zapcore.NewTee(
		zapcore.NewCore(fileEncoder, writer, GlobalLogLevelSetter()),
	)
	g.zapLogger = zap.New(core)
	defer g.zapLogger.Sync()
}

func GlobalLogLevelSetter() zapcore.Level {
	switch globalLogLevel {
	case LOG_LEVEL_ERROR:
		return zapcore.ErrorLevel
	case LOG_LEVEL_WARN:
		return zapcore.WarnLevel
	case LOG_LEVEL_DEBUG:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

func (g *GatewayLogger) logWriter() {
	for logdata := range g.logBuffer {
		switch logdata.level {
		case LOG_LEVEL_ERROR:
			g.zapLogger.Error(logdata.logMsg)
		case LOG_LEVEL_WARN:
			g.zapLogger.Warn(logdata.logMsg)
		case LOG_LEVEL_DEBUG:
			g.zapLogger.Debug(logdata.logMsg)
		default:
			g.zapLogger.Info(logdata.logMsg)
		}
	}
	g.wg.Done()
}

// LogEvent accepts an optional leading level constant followed by the
// message parts. A missing or unknown level falls back to INFO.
func (g *GatewayLogger) LogEvent(v ...interface{}) error {
	var msg string
	var level int
	var ok bool

	if len(v) == 1 {
		level = LOG_LEVEL_INFO
		msg = fmt.Sprint(v[0])
	} else if len(v) > 1 {
		level, ok = v[0].(int)
		if ok && level >= LOG_LEVEL_ERROR && level <= LOG_LEVEL_DEBUG {
			msg = fmt.Sprintf("%v", v[1:])
		} else {
			level = LOG_LEVEL_INFO
			msg = fmt.Sprintf("%v", v)
		}
		msg = msg[1 : len(msg)-1]
	}

	lobj := LeveledLogger{level, msg}

	if !g.loggerInitialized {
		return ErrLogNotInitialized
	}
	g.logBuffer <- lobj
	return nil
}

func (g *GatewayLogger) DeInit() {
	if !g.loggerInitialized {
		return
	}
	g.loggerInitialized = false
	close(g.logBuffer)
	g.wg.Wait()

	g.handle.Close()
}

func SetCommonLoggerAttributes(GlobalLogLevel int) {
	globalLogLevel = GlobalLogLevel
}

func SetLoggerPath(logPath string) {
	LOG_FOLDER_NAME_WITH_PATH = logPath
}

func CheckAndCreateLogFolder(FolderNameWithPath string) {
	_, err := os.Stat(FolderNameWithPath)

	if os.IsNotExist(err) {
		err := os.MkdirAll(FolderNameWithPath, 0755)
		if err != nil {
			fmt.Println("Failed to create the log folder and Mkdir err :: ", err)
		}
	}
}
