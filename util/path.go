// Package util provides path and filesystem utilities.
package util

import (
	"os"
)

// Exist check if path is exist.
func Exist(name string) bool {
	if _, err := os.Stat(name); err == nil {
		return true
	}
	return false
}
