package logger

import (
	"fmt"
	"log"
	"regexp"
	"sync/atomic"

	"github.com/cornelk/hashmap"
)

const (
	ERROR   = 1
	INFO    = 2
	VERBOSE = 3
	DEBUG   = 7
)

var (
	level   int
	limiter int
	filter  *regexp.Regexp
	counter *hashmap.HashMap
)

func init() {
	counter = &hashmap.HashMap{}
}

func SetLevel(l int) {
	level = l
}

// SetLimiter caps how many times any single formatted line may be
// printed, to keep per-group progress logging from flooding the output.
func SetLimiter(l int) {
	limiter = l
}

func SetFilter(pattern string) error {
	if pattern == "" {
		return nil
	}
	reg, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	filter = reg
	return nil
}

func Printf(format string, v ...interface{}) {
	printfAtLevel(INFO, format, v...)
}

func Verbosef(format string, v ...interface{}) {
	printfAtLevel(VERBOSE, format, v...)
}

func Debugf(format string, v ...interface{}) {
	printfAtLevel(DEBUG, format, v...)
}

func printfAtLevel(l int, format string, v ...interface{}) {
	if level < l {
		return
	}
	out := fmt.Sprintf(format, v...)
	if filter != nil && !filter.MatchString(out) {
		return
	}
	if !limiterAvailable(out) {
		return
	}
	log.Print(out)
}

func limiterAvailable(out string) bool {
	if limiter == 0 {
		return true
	}
	var i int64
	val, _ := counter.GetOrInsert(out, &i)
	actual := (val).(*int64)
	count := atomic.AddInt64(actual, 1)
	return count <= int64(limiter)
}
