package pwas

import (
	"os"

	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
)

// ConfigureLogging drops timestamps when stderr is not a terminal, since
// notebook and batch runners add their own.
func ConfigureLogging() {
	log.StandardLogger().Out = os.Stderr
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		log.StandardLogger().Formatter = &log.TextFormatter{DisableTimestamp: true}
	}
}
