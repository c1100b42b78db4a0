package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Tokens bool
	Dumps  bool
	Loads  bool
	Cipher bool
	Reduce bool
}

var d *debug

func init() {
	d = &debug{}
	d.Tokens = boolEnv("PACKET_DEBUG_TOKENS")
	d.Dumps = boolEnv("PACKET_DEBUG_DUMPS")
	d.Loads = boolEnv("PACKET_DEBUG_LOADS")
	d.Cipher = boolEnv("PACKET_DEBUG_CIPHER")
	d.Reduce = boolEnv("PACKET_DEBUG_REDUCE")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Tokens() bool {
	return d.Tokens
}
func Dumps() bool {
	return d.Dumps
}
func Loads() bool {
	return d.Loads
}
func Cipher() bool {
	return d.Cipher
}
func Reduce() bool {
	return d.Reduce
}
