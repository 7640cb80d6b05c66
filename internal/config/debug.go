package config

import "os"

func IsDebug() bool {
	return os.Getenv("KALEVALA_DEBUG") == "1"
}
