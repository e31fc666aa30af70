// Command research runs the multi-hop research loop against the
// configured retriever and LLM provider and prints the result as JSON.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := Execute(); err != nil {
		log.Error().Err(err).Msg("research_failed")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
