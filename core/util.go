package core

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// SplitCSV splits a comma separated list, dropping blank items.
func SplitCSV(s string) []string {
	if CleanString(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = CleanString(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}

// Timestamp is an RFC3339 instant read from a request param; a blank param leaves it zero.
// It satisfies echo.BindUnmarshaler.
type Timestamp struct {
	time.Time
}

func (ts *Timestamp) UnmarshalParam(param string) error {
	if param = CleanString(param); param == "" {
		ts.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(time.RFC3339, param)
	if err != nil {
		return errors.Errorf("%q must be an RFC3339 timestamp", param)
	}
	ts.Time = t.UTC()
	return nil
}

// TimePtr returns nil when ts is nil or zero.
func (ts *Timestamp) TimePtr() *time.Time {
	if ts == nil || ts.IsZero() {
		return nil
	}
	t := ts.Time
	return &t
}

// Flag is a boolean read from a request param. It satisfies echo.BindUnmarshaler.
type Flag bool

func (f *Flag) UnmarshalParam(param string) error {
	v, err := strconv.ParseBool(CleanString(param))
	if err != nil {
		return errors.Errorf("%q must be true or false", param)
	}
	*f = Flag(v)
	return nil
}

// Getwd tries to find the project root (the directory holding go.mod).
// go-test changes the working directory to the test package being run, this walks back up.
// Outside a source checkout the working directory is returned as is.
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if fi, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil && !fi.IsDir() {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == string(os.PathSeparator) || newDir == currDir {
			return wd
		}
		currDir = newDir
	}
}
