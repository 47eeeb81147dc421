package logger

import (
	"fmt"
	"log"
	"os"
)

var (
	// Debug flag to control debug logging
	debugEnabled = false

	debugLogger = log.New(os.Stdout, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)
	infoLogger  = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime)
	warnLogger  = log.New(os.Stdout, "WARN: ", log.Ldate|log.Ltime)
	errorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
)

// Init initializes the logger
func Init(debug bool) {
	debugEnabled = debug

	if debugEnabled {
		Debug("Debug logging enabled")
	}
}

// Debug logs a debug message if debug mode is enabled
func Debug(format string, v ...interface{}) {
	if debugEnabled {
		debugLogger.Output(2, fmt.Sprintf(format, v...))
	}
}

// Info logs an info message
func Info(format string, v ...interface{}) {
	infoLogger.Output(2, fmt.Sprintf(format, v...))
}

// Warn logs a warning message
func Warn(format string, v ...interface{}) {
	warnLogger.Output(2, fmt.Sprintf(format, v...))
}

// Error logs an error message
func Error(format string, v ...interface{}) {
	errorLogger.Output(2, fmt.Sprintf(format, v...))
}

// IsDebugEnabled returns whether debug logging is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// Domain-prefixed helpers so that pipeline stages are easy to grep for in a
// batch log.

// RAGDebug logs a debug message for the retrieval layer
func RAGDebug(format string, v ...interface{}) {
	Debug("[RAG] "+format, v...)
}

// RAGInfo logs an info message for the retrieval layer
func RAGInfo(format string, v ...interface{}) {
	Info("[RAG] "+format, v...)
}

// LLMDebug logs a debug message for the grading-service layer
func LLMDebug(format string, v ...interface{}) {
	Debug("[LLM] "+format, v...)
}

// LLMInfo logs an info message for the grading-service layer
func LLMInfo(format string, v ...interface{}) {
	Info("[LLM] "+format, v...)
}

// LLMWarn logs a warning for the grading-service layer
func LLMWarn(format string, v ...interface{}) {
	Warn("[LLM] "+format, v...)
}

// LLMError logs an error for the grading-service layer
func LLMError(format string, v ...interface{}) {
	Error("[LLM] "+format, v...)
}

// EvalInfo logs an info message for the evaluation engine
func EvalInfo(format string, v ...interface{}) {
	Info("[EVAL] "+format, v...)
}
