package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	colonTimePattern = regexp.MustCompile(`^\d\d?:\d\d?$`)
	dotTimePattern   = regexp.MustCompile(`^\d\d?\.\d\d?$`)
	hourOnlyPattern  = regexp.MustCompile(`^\d\d?$`)
)

// ParseTime parses a user-entered time of day and returns the current date
// with that time. The input can be in the following formats:
// 1. 09:00 or 9:0
// 2. 09.00 or 9.0
// 3. 09 or 9
func ParseTime(input string) (time.Time, error) {
	var hourStr, minuteStr string
	switch {
	case colonTimePattern.MatchString(input):
		parts := strings.SplitN(input, ":", 2)
		hourStr, minuteStr = parts[0], parts[1]
	case dotTimePattern.MatchString(input):
		parts := strings.SplitN(input, ".", 2)
		hourStr, minuteStr = parts[0], parts[1]
	case hourOnlyPattern.MatchString(input):
		hourStr, minuteStr = input, "0"
	default:
		return time.Time{}, fmt.Errorf("unrecognized time format %q", input)
	}

	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour > 23 {
		return time.Time{}, fmt.Errorf("invalid hour in %q", input)
	}
	minute, err := strconv.Atoi(minuteStr)
	if err != nil || minute > 59 {
		return time.Time{}, fmt.Errorf("invalid minute in %q", input)
	}

	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location()), nil
}
