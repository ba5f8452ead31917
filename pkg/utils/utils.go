package utils

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"golang-p2p-risk/pkg/logger"
)

// ContainsString checks if a slice of strings contains a specific string.
func ContainsString(slice []string, str string) bool {
	for _, item := range slice {
		if item == str {
			return true
		}
	}
	return false
}

func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		pc, _, _, ok := runtime.Caller(1)
		funcName := "unknown"
		if ok {
			fn := runtime.FuncForPC(pc)
			if fn != nil {
				parts := strings.Split(fn.Name(), "/")
				funcName = parts[len(parts)-1]
			}
		}

		log.Warn("Context cancelled",
			logger.StringField("caller", funcName),
		)
		return false
	default:
		return true
	}
}

// FormatPercentage renders a fraction as a signed percentage.
func FormatPercentage(value float64) string {
	return fmt.Sprintf("%+.2f%%", value*100)
}
