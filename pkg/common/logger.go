package common

import (
	"bufio"
	"fmt"
	"os"
	"time"
)

type Logger interface {
	Log(message string)
	Logf(format string, args ...any)
}

type fileLogger struct {
	path       string
	fileWriter *bufio.Writer
}

// NewFileLogger logs to the file specified by `path`. If the file is unavailable, writes to the console.
func NewFileLogger(path string) Logger {
	return &fileLogger{
		path: path,
	}
}

func (f *fileLogger) Log(message string) {
	line := fmt.Sprintf("%s %s\n", time.Now().Format(time.RFC3339), message)
	if f.fileWriterReady() {
		_, err := f.fileWriter.WriteString(line)
		if err != nil {
			f.logErrorToConsole(err.Error())
			f.logMessageToConsole(line)
		}
		err = f.fileWriter.Flush()
		if err != nil {
			f.logErrorToConsole(line)
		}
	} else {
		f.logMessageToConsole(line)
	}
}

func (f *fileLogger) Logf(format string, args ...any) {
	f.Log(fmt.Sprintf(format, args...))
}

func (f *fileLogger) logErrorToConsole(message string) {
	fmt.Printf("Error: %s. Logging switched to console.\n", message)
}

func (f *fileLogger) logMessageToConsole(message string) {
	fmt.Print(message)
}

func (f *fileLogger) fileWriterReady() bool {
	if f.fileWriter != nil {
		return true
	}
	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		f.logErrorToConsole(err.Error())
		return false
	}
	f.fileWriter = bufio.NewWriter(file)
	return true
}
