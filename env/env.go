// Package env loads the command line configuration from the environment and an optional .env file.
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LogLevelKey  = "WFNET_LOG_LEVEL"
	OutputDirKey = "WFNET_OUTPUT_DIR"
	MaxStepsKey  = "WFNET_MAX_STEPS"
	MaxStatesKey = "WFNET_MAX_STATES"
)

type Environment struct {
	LogLevel  string
	OutputDir string
	MaxSteps  int
	MaxStates int
}

func lookup(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func lookupInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return i, nil
}

// Load reads the given .env files, or ./.env when none are named, then the process environment. A missing file
// is not an error; variables already set in the environment win over the file.
func Load(files ...string) (*Environment, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	e := &Environment{
		LogLevel:  lookup(LogLevelKey, "info"),
		OutputDir: lookup(OutputDirKey, "."),
	}
	var err error
	if e.MaxSteps, err = lookupInt(MaxStepsKey, 1000); err != nil {
		return nil, err
	}
	if e.MaxStates, err = lookupInt(MaxStatesKey, 100000); err != nil {
		return nil, err
	}
	return e, nil
}

// Logger builds a development logger for the debug level and a production logger otherwise.
func (e *Environment) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(e.LogLevel)
	if err != nil {
		return nil, err
	}
	if level == zapcore.DebugLevel {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}
