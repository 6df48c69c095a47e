// cmd/marketplace-admin/main.go
package main

import (
	"os"

	zlog "github.com/rs/zerolog/log"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		zlog.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
