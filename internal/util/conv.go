package util

import (
	"strconv"
)

func UintToString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func IntToString(v int) string {
	return strconv.Itoa(v)
}
